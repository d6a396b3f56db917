// Package dashboard computes the balance summary shown on the home screen.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

// Defaults for the summary window.
const (
	RecentLimit = 5
	ChartMonths = 6
)

// RecentLister lists transactions newest first.
type RecentLister interface {
	List(ctx context.Context, f transaction.Filter) (transaction.Page, error)
}

// MonthlyPoint is one bar of the income/expense chart.
type MonthlyPoint struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Summary is the dashboard payload for one currency.
type Summary struct {
	Balance            decimal.Decimal           `json:"balance"`
	FormattedBalance   string                    `json:"formatted_balance"`
	TotalIncome        decimal.Decimal           `json:"total_income"`
	TotalExpense       decimal.Decimal           `json:"total_expense"`
	MonthlyIncome      decimal.Decimal           `json:"monthly_income"`
	MonthlyExpense     decimal.Decimal           `json:"monthly_expense"`
	MonthlyBalance     decimal.Decimal           `json:"monthly_balance"`
	FormattedMonthly   string                    `json:"formatted_monthly_balance"`
	MonthlyDeficit     bool                      `json:"monthly_deficit"`
	RecentTransactions []transaction.Transaction `json:"recent_transactions"`
	MonthlyData        []MonthlyPoint            `json:"monthly_data"`
	Currency           money.Currency            `json:"currency"`
}

// Service builds dashboard summaries.
type Service struct {
	repo   Repository
	recent RecentLister
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new dashboard service
func NewService(repo Repository, recent RecentLister, logger *slog.Logger) *Service {
	return &Service{repo: repo, recent: recent, logger: logger, now: time.Now}
}

// Summary aggregates all-time totals, the current month, the last
// ChartMonths months and the RecentLimit newest transactions.
func (s *Service) Summary(ctx context.Context, currency money.Currency) (*Summary, error) {
	if !currency.Valid() {
		return nil, money.ErrUnsupportedCurrency
	}

	totals, err := s.repo.Totals(ctx, currency)
	if err != nil {
		return nil, err
	}

	months := chartMonths(s.now(), ChartMonths)
	monthly, err := s.repo.MonthlyTotals(ctx, currency, months[0].Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]Totals, len(monthly))
	for _, m := range monthly {
		byMonth[m.Month] = m.Totals
	}

	page, err := s.recent.List(ctx, transaction.Filter{Currency: &currency, Page: 1, PerPage: RecentLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}

	balance, err := totals.Balance(currency)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance: %w", err)
	}

	summary := &Summary{
		Balance:            balance.ToDecimal(),
		FormattedBalance:   balance.Display(),
		TotalIncome:        totals.Income,
		TotalExpense:       totals.Expense,
		RecentTransactions: page.Data,
		MonthlyData:        make([]MonthlyPoint, 0, len(months)),
		Currency:           currency,
	}
	for _, m := range months {
		t := byMonth[m.Format("2006-01")]
		summary.MonthlyData = append(summary.MonthlyData, MonthlyPoint{
			Month:   m.Format("Jan 2006"),
			Income:  t.Income,
			Expense: t.Expense,
		})
	}

	current := byMonth[months[len(months)-1].Format("2006-01")]
	summary.MonthlyIncome = current.Income
	summary.MonthlyExpense = current.Expense
	monthBalance, err := current.Balance(currency)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly balance: %w", err)
	}
	summary.MonthlyBalance = monthBalance.ToDecimal()
	summary.FormattedMonthly = monthBalance.Display()
	summary.MonthlyDeficit = monthBalance.IsNegative()

	return summary, nil
}

// chartMonths returns the first day of the n months ending with now's month, oldest first.
func chartMonths(now time.Time, n int) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]time.Time, n)
	for i := range n {
		out[i] = first.AddDate(0, i-(n-1), 0)
	}
	return out
}
