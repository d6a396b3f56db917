package transaction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

func ptr[T any](v T) *T { return &v }

func validInput() Input {
	return Input{
		CategoryID:      ptr(int64(7)),
		Amount:          ptr(decimal.RequireFromString("25000")),
		Currency:        ptr("IDR"),
		Type:            ptr("expense"),
		Description:     ptr("  nasi goreng "),
		TransactionDate: ptr("2024-01-15"),
	}
}

func TestInput_Validate(t *testing.T) {
	require.NoError(t, validInput().Validate(false))

	t.Run("missing fields on create", func(t *testing.T) {
		var errs validation.Errors
		require.ErrorAs(t, Input{}.Validate(false), &errs)
		for _, f := range []string{"category_id", "amount", "currency", "type", "transaction_date"} {
			assert.Contains(t, errs, f)
		}
	})

	t.Run("partial update allows missing fields", func(t *testing.T) {
		assert.NoError(t, Input{Amount: ptr(decimal.RequireFromString("0.01"))}.Validate(true))
	})

	t.Run("invalid values", func(t *testing.T) {
		in := validInput()
		in.Amount = ptr(decimal.RequireFromString("0.001"))
		in.Currency = ptr("EUR")
		in.Type = ptr("transfer")
		in.TransactionDate = ptr("15/01/2024")

		var errs validation.Errors
		require.ErrorAs(t, in.Validate(true), &errs)
		assert.Len(t, errs, 4)
	})

	t.Run("amount outside column range", func(t *testing.T) {
		for _, raw := range []string{"10000000000000", "1e2000000000", "1e-2000000000", "0e-2000000000", "-5"} {
			in := validInput()
			in.Amount = ptr(decimal.RequireFromString(raw))

			var errs validation.Errors
			require.ErrorAs(t, in.Validate(false), &errs, raw)
			assert.Contains(t, errs, "amount", raw)
		}

		in := validInput()
		in.Amount = ptr(decimal.RequireFromString("9999999999999.99"))
		assert.NoError(t, in.Validate(false))
	})
}

func TestInput_DraftAndApply(t *testing.T) {
	d := validInput().Draft()
	assert.Equal(t, money.IDR, d.Currency)
	assert.Equal(t, category.TypeExpense, d.Type)
	require.NotNil(t, d.Description)
	assert.Equal(t, "nasi goreng", *d.Description)

	tx := Transaction{ID: 1, CategoryID: 1, Currency: money.USD, Description: ptr("old")}
	Input{Currency: ptr("IDR"), Description: ptr("  ")}.Apply(&tx)
	assert.Equal(t, money.IDR, tx.Currency)
	assert.Nil(t, tx.Description)
	assert.Equal(t, int64(1), tx.CategoryID)
}

func TestFilter_Paging(t *testing.T) {
	f := Filter{Page: 0, PerPage: 500}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPerPage, f.PerPage)

	f = Filter{Page: 3}
	f.Normalize()
	assert.Equal(t, DefaultPerPage, f.PerPage)
	assert.Equal(t, 30, f.Offset())

	p := NewPage(nil, f, 31)
	assert.Equal(t, 3, p.LastPage)
	assert.NotNil(t, p.Data)
	assert.Equal(t, 1, NewPage(nil, f, 0).LastPage)
}
