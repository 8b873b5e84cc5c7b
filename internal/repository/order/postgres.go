package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"plantshop/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.SugaredLogger) Repository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// Create writes the order row, its line items, and the outbox event inside
// one transaction, so the order.created feed can never report an order that
// was not committed (and vice versa).
func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderID := uuid.New().String()
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	status := o.Status
	if status == "" {
		status = domain.OrderStatusOpen
	}

	_, err = tx.Exec(ctx, `
INSERT INTO orders (id, user_id, total, discount, shipping, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, orderID, o.UserID, o.Total.String(), o.Discount.String(), o.Shipping.String(), status, createdAt)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	for _, line := range o.Items {
		images, err := json.Marshal(line.Images)
		if err != nil {
			return "", fmt.Errorf("marshal line images: %w", err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, title, price, images, quantity)
VALUES ($1, $2, $3, $4, $5, $6)
`, orderID, line.ProductID, line.Title, line.Price.String(), images, line.Quantity)
		if err != nil {
			return "", fmt.Errorf("insert order item: %w", err)
		}
	}

	payload, err := json.Marshal(map[string]any{
		"eventType": "order.created",
		"orderId":   orderID,
		"userId":    o.UserID,
		"total":     o.Total.String(),
		"timestamp": createdAt.Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal outbox payload: %w", err)
	}

	_, err = tx.Exec(ctx, `
INSERT INTO outbox (id, aggregate_id, payload, status, created_at)
VALUES ($1, $2, $3, 'PENDING', $4)
`, uuid.New().String(), orderID, payload, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	r.logger.Infof("order repo: created id=%s user_id=%s total=%s", orderID, o.UserID, o.Total)
	return orderID, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, total::text, discount::text, shipping::text, status, created_at
FROM orders
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Errorf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	index := map[string]int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[o.ID] = len(result)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	lines, err := r.pool.Query(ctx, `
SELECT order_id::text, product_id::text, title, price::text, images, quantity
FROM order_items
ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer lines.Close()
	for lines.Next() {
		var orderID string
		line, err := scanLine(lines, &orderID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			result[i].Items = append(result[i].Items, line)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, total::text, discount::text, shipping::text, status, created_at
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT order_id::text, product_id::text, title, price::text, images, quantity
FROM order_items
WHERE order_id = $1
ORDER BY id ASC
`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		line, err := scanLine(rows, &orderID)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Errorf("order repo: update status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var total, discount, shipping string
	if err := row.Scan(&o.ID, &o.UserID, &total, &discount, &shipping, &o.Status, &o.CreatedAt); err != nil {
		return domain.Order{}, err
	}
	var err error
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return domain.Order{}, err
	}
	if o.Discount, err = decimal.NewFromString(discount); err != nil {
		return domain.Order{}, err
	}
	if o.Shipping, err = decimal.NewFromString(shipping); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func scanLine(row rowScanner, orderID *string) (domain.OrderLine, error) {
	var line domain.OrderLine
	var price string
	var images []byte
	if err := row.Scan(orderID, &line.ProductID, &line.Title, &price, &images, &line.Quantity); err != nil {
		return domain.OrderLine{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return domain.OrderLine{}, err
	}
	line.Price = d
	if len(images) > 0 {
		_ = json.Unmarshal(images, &line.Images)
	}
	return line, nil
}
