package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

type fakeRecent struct {
	filter transaction.Filter
	err    error
}

func (f *fakeRecent) List(_ context.Context, flt transaction.Filter) (transaction.Page, error) {
	f.filter = flt
	if f.err != nil {
		return transaction.Page{}, f.err
	}
	return transaction.NewPage([]transaction.Transaction{{ID: 1}}, flt, 1), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newMockService(t *testing.T) (*Service, pgxmock.PgxPoolIface, *fakeRecent) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	recent := &fakeRecent{}
	svc := NewService(NewPostgresRepository(mock), recent, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, mock, recent
}

func TestChartMonths(t *testing.T) {
	months := chartMonths(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 6)
	require.Len(t, months, 6)
	assert.Equal(t, "2023-10-01", months[0].Format("2006-01-02"))
	assert.Equal(t, "2024-03-01", months[5].Format("2006-01-02"))
}

func TestService_Summary(t *testing.T) {
	svc, mock, recent := newMockService(t)

	mock.ExpectQuery(`FROM transactions WHERE currency = \$1$`).
		WithArgs("IDR").
		WillReturnRows(pgxmock.NewRows([]string{"income", "expense"}).AddRow("10000000.00", "2500000.00"))
	mock.ExpectQuery(`GROUP BY month`).
		WithArgs("IDR", "2023-10-01").
		WillReturnRows(pgxmock.NewRows([]string{"month", "income", "expense"}).
			AddRow("2023-12", "5000000.00", "1000000.00").
			AddRow("2024-03", "5000000.00", "1500000.00"))

	summary, err := svc.Summary(context.Background(), money.IDR)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.True(t, dec("7500000").Equal(summary.Balance))
	assert.Contains(t, summary.FormattedBalance, "Rp")
	assert.True(t, dec("5000000").Equal(summary.MonthlyIncome))
	assert.True(t, dec("1500000").Equal(summary.MonthlyExpense))
	assert.True(t, dec("3500000").Equal(summary.MonthlyBalance))
	assert.Contains(t, summary.FormattedMonthly, "Rp")
	assert.False(t, summary.MonthlyDeficit)

	require.Len(t, summary.MonthlyData, 6)
	assert.Equal(t, "Oct 2023", summary.MonthlyData[0].Month)
	assert.True(t, summary.MonthlyData[0].Income.IsZero())
	assert.Equal(t, "Dec 2023", summary.MonthlyData[2].Month)
	assert.True(t, dec("1000000").Equal(summary.MonthlyData[2].Expense))
	assert.Equal(t, "Mar 2024", summary.MonthlyData[5].Month)

	assert.Len(t, summary.RecentTransactions, 1)
	assert.Equal(t, RecentLimit, recent.filter.PerPage)
	assert.Equal(t, money.IDR, *recent.filter.Currency)
}

func TestService_SummaryMonthlyDeficit(t *testing.T) {
	svc, mock, _ := newMockService(t)

	mock.ExpectQuery(`FROM transactions WHERE currency = \$1$`).
		WithArgs("USD").
		WillReturnRows(pgxmock.NewRows([]string{"income", "expense"}).AddRow("500.00", "120.25"))
	mock.ExpectQuery(`GROUP BY month`).
		WithArgs("USD", "2023-10-01").
		WillReturnRows(pgxmock.NewRows([]string{"month", "income", "expense"}).
			AddRow("2024-03", "10.00", "120.25"))

	summary, err := svc.Summary(context.Background(), money.USD)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.True(t, dec("379.75").Equal(summary.Balance))
	assert.Contains(t, summary.FormattedBalance, "379.75")
	assert.True(t, dec("-110.25").Equal(summary.MonthlyBalance))
	assert.Contains(t, summary.FormattedMonthly, "110.25")
	assert.True(t, summary.MonthlyDeficit)
}

func TestService_SummaryErrors(t *testing.T) {
	svc, mock, recent := newMockService(t)

	_, err := svc.Summary(context.Background(), money.Currency("EUR"))
	assert.ErrorIs(t, err, money.ErrUnsupportedCurrency)

	mock.ExpectQuery(`FROM transactions`).WithArgs("USD").
		WillReturnRows(pgxmock.NewRows([]string{"income", "expense"}).AddRow("0", "0"))
	mock.ExpectQuery(`GROUP BY month`).WithArgs("USD", "2023-10-01").
		WillReturnRows(pgxmock.NewRows([]string{"month", "income", "expense"}))
	recent.err = errors.New("timeout")

	_, err = svc.Summary(context.Background(), money.USD)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recent transactions")
}

func TestHandler_Summary(t *testing.T) {
	svc, mock, _ := newMockService(t)
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mock.ExpectQuery(`FROM transactions`).WithArgs("USD").
		WillReturnRows(pgxmock.NewRows([]string{"income", "expense"}).AddRow("100.00", "40.50"))
	mock.ExpectQuery(`GROUP BY month`).WithArgs("USD", "2023-10-01").
		WillReturnRows(pgxmock.NewRows([]string{"month", "income", "expense"}))

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard?currency=usd", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool    `json:"success"`
		Data    Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, dec("59.5").Equal(body.Data.Balance))
	assert.Equal(t, money.USD, body.Data.Currency)

	rec = httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard?currency=JPY", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
