package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Title       string
	Description string
	Price       string
	Image       string
	Category    string
}

// Apply inserts basic seed data for manual testing. Categories and products
// are looked up by title first, so re-running is harmless.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := []string{"Tropical", "Succulents", "Herbs"}
	categoryIDs := make(map[string]string, len(categories))
	for _, title := range categories {
		id, err := ensureCategory(ctx, pool, title)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", title, err)
		}
		categoryIDs[title] = id
	}

	products := []productSeed{
		{
			Title:       "Monstera Deliciosa",
			Description: "Large split-leaf tropical, tolerates indirect light",
			Price:       "10.00",
			Image:       "https://images.plantshop.dev/monstera.jpg",
			Category:    "Tropical",
		},
		{
			Title:       "Ficus Lyrata",
			Description: "Fiddle-leaf fig, prefers bright rooms",
			Price:       "25.50",
			Image:       "https://images.plantshop.dev/ficus.jpg",
			Category:    "Tropical",
		},
		{
			Title:       "Echeveria Elegans",
			Description: "Compact rosette succulent, water sparingly",
			Price:       "6.75",
			Image:       "https://images.plantshop.dev/echeveria.jpg",
			Category:    "Succulents",
		},
		{
			Title:       "Basil Genovese",
			Description: "Kitchen herb, pinch regularly for bushy growth",
			Price:       "3.50",
			Image:       "https://images.plantshop.dev/basil.jpg",
			Category:    "Herbs",
		},
	}

	for _, p := range products {
		if err := ensureProduct(ctx, pool, categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Title, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin@plantshop.dev", "ChangeMe123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, title string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, `SELECT id::text FROM categories WHERE title = $1`, title).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	err = pool.QueryRow(ctx, `
INSERT INTO categories (title, active)
VALUES ($1, true)
RETURNING id::text
`, title).Scan(&id)
	return id, err
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	var exists bool
	err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE title = $1)`, p.Title).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = pool.Exec(ctx, `
INSERT INTO products (title, description, price, images, category_id, active)
VALUES ($1, $2, $3, $4, $5::uuid, true)
`, p.Title, p.Description, p.Price, fmt.Sprintf(`["%s"]`, p.Image), categoryID)
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
INSERT INTO users (email, password_hash, first_name, admin)
VALUES ($1, $2, 'Admin', true)
ON CONFLICT (email) DO UPDATE SET admin = true
`, email, string(hashed))
	return err
}
