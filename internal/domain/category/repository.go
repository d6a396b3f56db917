package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/expense-tracker/pkg/db"
)

// Repository defines the persistence operations for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, in Input) (*Category, error)
	Update(ctx context.Context, id int64, in Input) (*Category, error)
	Delete(ctx context.Context, id int64) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository creates a new PostgreSQL category repository
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const categoryColumns = `id, name, type, color, created_at, updated_at`

// List returns every category ordered by type, then name.
func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY type, name`)
}

// ListCategories returns every category in id order, the order the importer
// uses for name lookups.
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
}

func (r *PostgresRepository) list(ctx context.Context, query string) ([]Category, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// Get retrieves a category by id
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Category, error) {
	row := r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// Exists reports whether a category with id exists.
func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

// Create inserts a new category
func (r *PostgresRepository) Create(ctx context.Context, in Input) (*Category, error) {
	query := `
		INSERT INTO categories (name, type, color)
		VALUES ($1, $2, $3)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRow(ctx, query, in.Name, string(in.Type), in.Color))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// Update replaces name, type and color of an existing category
func (r *PostgresRepository) Update(ctx context.Context, id int64, in Input) (*Category, error) {
	query := `
		UPDATE categories
		SET name = $2, type = $3, color = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRow(ctx, query, id, in.Name, string(in.Type), in.Color))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

// Delete removes a category and, through the foreign key, its transactions
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*Category, error) {
	var (
		c   Category
		typ string
	)
	if err := row.Scan(&c.ID, &c.Name, &typ, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = Type(typ)
	return &c, nil
}
