package events

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// OrdersQueue carries order.created events from the outbox relay to the
// back-office feed.
const OrdersQueue = "plantshop.orders"

// Publisher sends one outbox event to the broker.
type Publisher interface {
	Publish(ctx context.Context, id string, payload []byte) error
}

// RabbitPublisher publishes outbox events to a durable RabbitMQ queue.
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.SugaredLogger
}

// NewRabbitPublisher dials the broker with retries; RabbitMQ takes a while
// to accept connections when starting under docker compose.
func NewRabbitPublisher(url string, logger *zap.SugaredLogger) (*RabbitPublisher, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var conn *amqp.Connection
	var err error
	for i := 0; i < 10; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warnf("events: rabbitmq dial failed, retrying in 2s (%d/10): %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(OrdersQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, queue: OrdersQueue, logger: logger}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, id string, payload []byte) error {
	err := p.channel.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,
		false,
		amqp.Publishing{
			MessageId:    id,
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Consume opens a delivery stream from the orders queue.
func (p *RabbitPublisher) Consume() (<-chan amqp.Delivery, error) {
	return p.channel.Consume(p.queue, "", true, false, false, false, nil)
}

func (p *RabbitPublisher) Close() {
	p.channel.Close()
	p.conn.Close()
}
