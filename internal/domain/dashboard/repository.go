package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/expense-tracker/pkg/db"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

// Totals are income and expense sums over some period.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Balance is income minus expense in minor units of currency.
func (t Totals) Balance(currency money.Currency) (*money.Money, error) {
	return money.NewFromDecimal(t.Income, currency).Subtract(money.NewFromDecimal(t.Expense, currency))
}

// MonthTotals are the totals of one calendar month, keyed "YYYY-MM".
type MonthTotals struct {
	Month string
	Totals
}

// Repository aggregates transactions for the dashboard.
type Repository interface {
	Totals(ctx context.Context, currency money.Currency) (Totals, error)
	MonthlyTotals(ctx context.Context, currency money.Currency, since string) ([]MonthTotals, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db db.DBTX
}

// NewPostgresRepository creates a new PostgreSQL dashboard repository
func NewPostgresRepository(conn db.DBTX) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

// Totals sums every transaction of currency.
func (r *PostgresRepository) Totals(ctx context.Context, currency money.Currency) (Totals, error) {
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)::text
		FROM transactions
		WHERE currency = $1`

	var income, expense string
	if err := r.db.QueryRow(ctx, query, string(currency)).Scan(&income, &expense); err != nil {
		return Totals{}, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return parseTotals(income, expense)
}

// MonthlyTotals sums transactions of currency per month from since (YYYY-MM-DD)
// onwards. Months without transactions are absent.
func (r *PostgresRepository) MonthlyTotals(ctx context.Context, currency money.Currency, since string) ([]MonthTotals, error) {
	query := `
		SELECT to_char(transaction_date, 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)::text
		FROM transactions
		WHERE currency = $1 AND transaction_date >= $2::date
		GROUP BY month
		ORDER BY month`

	rows, err := r.db.Query(ctx, query, string(currency), since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly transactions: %w", err)
	}
	defer rows.Close()

	var out []MonthTotals
	for rows.Next() {
		var month, income, expense string
		if err := rows.Scan(&month, &income, &expense); err != nil {
			return nil, fmt.Errorf("failed to scan monthly totals: %w", err)
		}
		totals, err := parseTotals(income, expense)
		if err != nil {
			return nil, err
		}
		out = append(out, MonthTotals{Month: month, Totals: totals})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly totals: %w", err)
	}
	return out, nil
}

func parseTotals(income, expense string) (Totals, error) {
	in, err := decimal.NewFromString(income)
	if err != nil {
		return Totals{}, fmt.Errorf("invalid income sum %q: %w", income, err)
	}
	ex, err := decimal.NewFromString(expense)
	if err != nil {
		return Totals{}, fmt.Errorf("invalid expense sum %q: %w", expense, err)
	}
	return Totals{Income: in, Expense: ex}, nil
}
