package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantshop/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const categoryColumns = `id::text, title, COALESCE(description, ''), active, created_at`

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT ` + categoryColumns + `
FROM categories
WHERE active
ORDER BY title ASC
`
	return r.queryMany(ctx, q)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT ` + categoryColumns + `
FROM categories
ORDER BY title ASC
`
	return r.queryMany(ctx, q)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const q = `
SELECT ` + categoryColumns + `
FROM categories
WHERE id = $1
`
	var c domain.Category
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Title, &c.Description, &c.Active, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (title, description, active)
VALUES ($1, NULLIF($2, ''), $3)
RETURNING id::text, created_at
`
	if err := r.pool.QueryRow(ctx, q, c.Title, c.Description, c.Active).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
UPDATE categories
SET title = $2, description = NULLIF($3, ''), active = $4
WHERE id = $1
RETURNING created_at
`
	if err := r.pool.QueryRow(ctx, q, c.ID, c.Title, c.Description, c.Active).Scan(&c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryMany(ctx context.Context, q string) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
