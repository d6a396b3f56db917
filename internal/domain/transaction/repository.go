package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/pkg/db"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

// Repository defines the persistence operations for transactions.
type Repository interface {
	CreateTransaction(ctx context.Context, d Draft) (int64, error)
	Get(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, f Filter) (Page, error)
	Export(ctx context.Context, currency *money.Currency) ([]Transaction, error)
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id int64) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository creates a new PostgreSQL transaction repository
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const selectTransactions = `
	SELECT t.id, t.category_id, t.amount::text, t.currency, t.type, t.description,
		to_char(t.transaction_date, 'YYYY-MM-DD'), t.created_at, t.updated_at,
		c.id, c.name, c.type, c.color, c.created_at, c.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id`

// CreateTransaction inserts a draft and returns the new id.
func (r *PostgresRepository) CreateTransaction(ctx context.Context, d Draft) (int64, error) {
	query := `
		INSERT INTO transactions (category_id, amount, currency, type, description, transaction_date)
		VALUES ($1, $2::numeric, $3, $4, $5, $6::date)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		d.CategoryID,
		d.Amount.StringFixed(2),
		string(d.Currency),
		string(d.Type),
		d.Description,
		d.TransactionDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create transaction: %w", err)
	}
	return id, nil
}

// Get retrieves a transaction with its category
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, selectTransactions+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// whereClause builds the filter conditions shared by the count and page queries.
func whereClause(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Type != nil {
		add("t.type = $%d", string(*f.Type))
	}
	if f.Currency != nil {
		add("t.currency = $%d", string(*f.Currency))
	}
	// a date range applies only when both ends are given
	if f.StartDate != nil && f.EndDate != nil {
		add("t.transaction_date >= $%d::date", *f.StartDate)
		add("t.transaction_date <= $%d::date", *f.EndDate)
	}
	if f.CategoryID != nil {
		add("t.category_id = $%d", *f.CategoryID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of transactions, newest first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) (Page, error) {
	f.Normalize()
	where, args := whereClause(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t`+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := selectTransactions + where +
		fmt.Sprintf(` ORDER BY t.transaction_date DESC, t.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, f.PerPage, f.Offset())

	items, err := r.query(ctx, query, args...)
	if err != nil {
		return Page{}, err
	}
	return NewPage(items, f, total), nil
}

// Export returns every transaction, optionally of one currency, newest first.
func (r *PostgresRepository) Export(ctx context.Context, currency *money.Currency) ([]Transaction, error) {
	where, args := whereClause(Filter{Currency: currency})
	return r.query(ctx, selectTransactions+where+` ORDER BY t.transaction_date DESC, t.id DESC`, args...)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	items := []Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return items, nil
}

// Update writes every mutable column of t
func (r *PostgresRepository) Update(ctx context.Context, t *Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $2, amount = $3::numeric, currency = $4, type = $5, description = $6,
			transaction_date = $7::date, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		t.ID,
		t.CategoryID,
		t.Amount.StringFixed(2),
		string(t.Currency),
		string(t.Type),
		t.Description,
		t.TransactionDate,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// Delete removes a transaction
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var (
		t                  Transaction
		c                  category.Category
		amount             string
		currency, typ, cat string
	)
	err := row.Scan(
		&t.ID, &t.CategoryID, &amount, &currency, &typ, &t.Description,
		&t.TransactionDate, &t.CreatedAt, &t.UpdatedAt,
		&c.ID, &c.Name, &cat, &c.Color, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	t.Currency = money.Currency(currency)
	t.Type = category.Type(typ)
	c.Type = category.Type(cat)
	t.Category = &c
	return &t, nil
}
