package events

import (
	"context"
	"encoding/json"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// OrderEvent is the decoded order.created notification.
type OrderEvent struct {
	EventType string `json:"eventType"`
	OrderID   string `json:"orderId"`
	UserID    string `json:"userId"`
	Total     string `json:"total"`
	Timestamp int64  `json:"timestamp"`
}

// Handler receives order events on the feed's dispatch goroutine. Handlers
// must not block.
type Handler func(OrderEvent)

// OrderFeed fans broker deliveries out to in-process subscribers. The back
// office uses it to keep its order counter fresh without polling.
type OrderFeed struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]Handler
	logger   *zap.SugaredLogger
}

func NewOrderFeed(logger *zap.SugaredLogger) *OrderFeed {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderFeed{handlers: map[int]Handler{}, logger: logger}
}

// Subscribe registers a handler and returns its unsubscribe func.
func (f *OrderFeed) Subscribe(h Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = h
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, id)
	}
}

// Run consumes deliveries until the channel closes or the context is
// cancelled. Malformed payloads are logged and skipped.
func (f *OrderFeed) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			var ev OrderEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				f.logger.Errorf("events: bad order event message_id=%s error=%v", d.MessageId, err)
				continue
			}
			f.dispatch(ev)
		}
	}
}

func (f *OrderFeed) dispatch(ev OrderEvent) {
	f.mu.Lock()
	handlers := make([]Handler, 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}
