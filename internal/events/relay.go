package events

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Relay drains the outbox table and hands events to the publisher.
// Delivery is at-least-once: an event is deleted only after the broker
// accepted it, so a crash between publish and delete replays the event.
type Relay struct {
	pool      *pgxpool.Pool
	publisher Publisher
	interval  time.Duration
	logger    *zap.SugaredLogger
}

func NewRelay(pool *pgxpool.Pool, publisher Publisher, logger *zap.SugaredLogger) *Relay {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Relay{pool: pool, publisher: publisher, interval: time.Second, logger: logger}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.processBatch(ctx)
		}
	}
}

type outboxEvent struct {
	ID          string
	AggregateID string
	Payload     []byte
}

// processBatch claims a batch inside one transaction. SKIP LOCKED keeps
// concurrent relays off each other's rows while the batch is in flight.
func (r *Relay) processBatch(ctx context.Context) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Errorf("events: begin outbox tx error=%v", err)
		return
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
SELECT id::text, aggregate_id::text, payload
FROM outbox
WHERE status = 'PENDING'
ORDER BY created_at ASC
LIMIT 10
FOR UPDATE SKIP LOCKED
`)
	if err != nil {
		r.logger.Errorf("events: fetch outbox batch error=%v", err)
		return
	}

	var events []outboxEvent
	for rows.Next() {
		var e outboxEvent
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.Payload); err != nil {
			rows.Close()
			r.logger.Errorf("events: scan outbox row error=%v", err)
			return
		}
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		r.logger.Errorf("events: outbox rows error=%v", err)
		return
	}

	for _, e := range events {
		if err := r.publisher.Publish(ctx, e.ID, e.Payload); err != nil {
			// Left PENDING; retried next tick.
			r.logger.Errorf("events: publish id=%s error=%v", e.ID, err)
			continue
		}
		if _, err := tx.Exec(ctx, `DELETE FROM outbox WHERE id = $1`, e.ID); err != nil {
			r.logger.Errorf("events: delete outbox id=%s error=%v", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Errorf("events: commit outbox tx error=%v", err)
	}
}
