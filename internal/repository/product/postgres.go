package product

import (
	"context"
	"encoding/json"
	"errors"

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

const productColumns = `id::text, title, COALESCE(description, ''), price::text, images, COALESCE(category_id::text, ''), active, created_at`

func (r *postgresRepo) ListActive(ctx context.Context, categoryID string) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
WHERE active
ORDER BY created_at DESC
`
	args := []any{}
	if categoryID != "" {
		q = `
SELECT ` + productColumns + `
FROM products
WHERE active AND category_id = $1
ORDER BY created_at DESC
`
		args = append(args, categoryID)
	}
	return r.queryMany(ctx, q, args...)
}

func (r *postgresRepo) GetActive(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE active AND id = $1
`
	return r.queryOne(ctx, q, id)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	return r.queryMany(ctx, q)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	return r.queryOne(ctx, q, id)
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (title, description, price, images, category_id, active)
VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, '')::uuid, $6)
RETURNING id::text, created_at
`
	images, err := imagesJSON(p.Images)
	if err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, q, p.Title, p.Description, p.Price.String(), images, p.CategoryID, p.Active).
		Scan(&p.ID, &p.CreatedAt); err != nil {
		r.logger.Errorf("product repo: create title=%s error=%v", p.Title, err)
		return nil, err
	}
	r.logger.Infof("product repo: created id=%s title=%s", p.ID, p.Title)
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET title = $2, description = NULLIF($3, ''), price = $4, images = $5, category_id = NULLIF($6, '')::uuid, active = $7
WHERE id = $1
RETURNING created_at
`
	images, err := imagesJSON(p.Images)
	if err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, q, p.ID, p.Title, p.Description, p.Price.String(), images, p.CategoryID, p.Active).
		Scan(&p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryMany(ctx context.Context, q string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Errorf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Errorf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) queryOne(ctx context.Context, q, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var price string
	var rawImages []byte
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &price, &rawImages, &p.CategoryID, &p.Active, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, err
	}
	p.Price = d
	p.Images = normalizeImages(rawImages)
	return p, nil
}

// normalizeImages accepts what the images column may actually hold: a JSON
// array of URLs, or that same array serialized once more as a JSON string
// (legacy rows written by the old admin screen). Anything else becomes an
// empty list so untyped data never leaves this boundary.
func normalizeImages(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err == nil {
		return urls
	}
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &urls); err == nil {
			return urls
		}
	}
	return []string{}
}

func imagesJSON(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}
