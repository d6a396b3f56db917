package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/expense-tracker/internal/domain/categorization"
	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/parser"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/sniffer"
	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
	"github.com/FACorreiaa/expense-tracker/pkg/metrics"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

type fakeCategories struct {
	categories []category.Category
	err        error
	calls      int
}

func (f *fakeCategories) ListCategories(_ context.Context) ([]category.Category, error) {
	f.calls++
	return f.categories, f.err
}

type memStore struct {
	drafts  []transaction.Draft
	failOn  map[int]error
	panicOn map[int]string
	calls   int
}

func (m *memStore) CreateTransaction(_ context.Context, d transaction.Draft) (int64, error) {
	m.calls++
	if msg, ok := m.panicOn[m.calls]; ok {
		panic(msg)
	}
	if err, ok := m.failOn[m.calls]; ok {
		return 0, err
	}
	m.drafts = append(m.drafts, d)
	return int64(len(m.drafts)), nil
}

func newTestService(cats []category.Category, store *memStore) *ImportService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewImportService(&fakeCategories{categories: cats}, store, nil, logger)
}

func TestImport_Success(t *testing.T) {
	store := &memStore{}
	svc := newTestService(category.Seed, store)

	csv := "Tanggal,Kategori,Nominal,Keterangan\n" +
		"15-Jan-24,Gaji,Rp 5.000.000,January salary\n" +
		"2024-02-03,Ojol,25.000,\n"

	result, err := svc.Import(context.Background(), csv, money.IDR)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)
	assert.Equal(t, sniffer.ColumnMapping{
		sniffer.FieldDate:        0,
		sniffer.FieldCategory:    1,
		sniffer.FieldAmount:      2,
		sniffer.FieldDescription: 3,
	}, result.ColumnMapping)

	require.Len(t, store.drafts, 2)

	first := store.drafts[0]
	assert.Equal(t, "2024-01-15", first.TransactionDate)
	assert.Equal(t, category.TypeIncome, first.Type)
	assert.Equal(t, int64(1), first.CategoryID)
	assert.True(t, decimal.NewFromInt(5000000).Equal(first.Amount))
	assert.Equal(t, money.IDR, first.Currency)
	require.NotNil(t, first.Description)
	assert.Equal(t, "January salary", *first.Description)

	second := store.drafts[1]
	assert.Equal(t, "2024-02-03", second.TransactionDate)
	assert.Equal(t, category.TypeExpense, second.Type)
	assert.Equal(t, int64(6), second.CategoryID)
	assert.True(t, decimal.NewFromInt(25000).Equal(second.Amount))
	assert.Nil(t, second.Description)
}

func TestImport_RowErrorsDoNotStopBatch(t *testing.T) {
	store := &memStore{}
	svc := newTestService(category.Seed, store)

	csv := "date,category,amount\n" +
		"32/13/2024,Gaji,1000\n" +
		"2024-01-01,Gaji,abc\n" +
		"2024-01-01,Zzzz,1000\n" +
		"2024-01-01,Makan Minum,0\n" +
		"2024-01-01,Makan Minum,15000\n"

	result, err := svc.Import(context.Background(), csv, money.USD)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{
		"Row 1: Invalid date format: 32/13/2024",
		"Row 2: Invalid amount: abc",
		"Row 3: Category 'Zzzz' not found",
		"Row 4: Invalid amount: 0",
	}, result.Errors)
	assert.Equal(t, 5, result.Imported+result.Failed())
	require.Len(t, store.drafts, 1)
	assert.Equal(t, money.USD, store.drafts[0].Currency)
}

func TestImport_AmountsOutsideColumnRange(t *testing.T) {
	store := &memStore{}
	svc := newTestService(category.Seed, store)

	csv := "tanggal,kategori,nominal\n" +
		"01-Jan-24,Ojol,\"0,004\"\n" +
		"02-Jan-24,Ojol,1e2000000000\n" +
		"03-Jan-24,Ojol,10.000.000.000.000\n" +
		"04-Jan-24,Ojol,\"12,345\"\n"

	result, err := svc.Import(context.Background(), csv, money.IDR)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{
		"Row 1: Invalid amount: 0,004",
		"Row 2: Invalid amount: 1e2000000000",
		"Row 3: Invalid amount: 10.000.000.000.000",
	}, result.Errors)
	require.Len(t, store.drafts, 1)
	assert.Equal(t, "12.35", store.drafts[0].Amount.StringFixed(2))
	assert.Equal(t, int32(-2), store.drafts[0].Amount.Exponent())
}

func TestImport_NotFoundSuggestions(t *testing.T) {
	svc := newTestService(category.Seed, &memStore{})

	result, err := svc.Import(context.Background(), "date,category,amount\n2024-01-01,Belanjaa,1000", money.IDR)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Row 1: Category 'Belanjaa' not found (did you mean: "))
	assert.Contains(t, result.Errors[0], "Belanja")
}

func TestImport_TypeAndSubcategory(t *testing.T) {
	store := &memStore{}
	svc := newTestService(category.Seed, store)

	csv := "Tanggal;Kategori;Sub Kategori;Jumlah;Jenis\n" +
		"01/02/2024;Lainnya;;100.000;Pemasukan\n" +
		"01/02/2024;Lainnya;;50.000;\n" +
		"01/02/2024;Pengeluaran;Makan Minum;-20.000;\n" +
		"01/02/2024;Pemasukan;PK;75.000;expense\n"

	result, err := svc.Import(context.Background(), csv, money.IDR)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Imported)
	require.Len(t, store.drafts, 4)

	assert.Equal(t, category.TypeIncome, store.drafts[0].Type)
	assert.Equal(t, int64(4), store.drafts[0].CategoryID)

	assert.Equal(t, category.TypeExpense, store.drafts[1].Type)
	assert.Equal(t, int64(11), store.drafts[1].CategoryID)

	assert.Equal(t, category.TypeExpense, store.drafts[2].Type)
	assert.Equal(t, int64(7), store.drafts[2].CategoryID)
	assert.True(t, decimal.NewFromInt(20000).Equal(store.drafts[2].Amount))

	// explicit type wins, the single "PK" category is still used
	assert.Equal(t, category.TypeExpense, store.drafts[3].Type)
	assert.Equal(t, int64(2), store.drafts[3].CategoryID)
}

func TestImport_AmbiguousCategory(t *testing.T) {
	cats := []category.Category{
		{ID: 1, Name: "Food", Type: category.TypeExpense},
		{ID: 2, Name: "food", Type: category.TypeExpense},
	}

	t.Run("named failure", func(t *testing.T) {
		svc := newTestService(cats, &memStore{})
		result, err := svc.Import(context.Background(), "date,category,amount\n2024-01-01,FOOD,10", money.USD)
		require.NoError(t, err)
		assert.Equal(t, []string{"Row 1: Category 'FOOD' is ambiguous"}, result.Errors)
	})

	t.Run("first match compatibility", func(t *testing.T) {
		store := &memStore{}
		svc := newTestService(cats, store).WithResolverOptions(categorization.WithFirstMatch())
		result, err := svc.Import(context.Background(), "date,category,amount\n2024-01-01,FOOD,10", money.USD)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, int64(1), store.drafts[0].CategoryID)
	})
}

func TestImport_StoreFailures(t *testing.T) {
	store := &memStore{
		failOn:  map[int]error{1: errors.New("insert failed: connection reset")},
		panicOn: map[int]string{2: "boom"},
	}
	svc := newTestService(category.Seed, store)

	csv := "date,category,amount\n" +
		"2024-01-01,Ojol,10000\n" +
		"2024-01-02,Ojol,10000\n" +
		"2024-01-03,Ojol,10000\n"

	result, err := svc.Import(context.Background(), csv, money.IDR)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{
		"Row 1: insert failed: connection reset",
		"Row 2: boom",
	}, result.Errors)
	assert.Equal(t, "2024-01-03", store.drafts[0].TransactionDate)
}

func TestImport_BatchRejections(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		currency money.Currency
		check    func(t *testing.T, err error)
	}{
		{
			name:     "header only",
			csv:      "date,category,amount\n",
			currency: money.IDR,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoDataRows)
			},
		},
		{
			name:     "empty input",
			csv:      "",
			currency: money.IDR,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoDataRows)
			},
		},
		{
			name:     "missing amount column",
			csv:      "Date,Category,Value\n2024-01-01,Gaji,100",
			currency: money.IDR,
			check: func(t *testing.T, err error) {
				var missing *sniffer.MissingColumnsError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, []sniffer.Field{sniffer.FieldAmount}, missing.Missing)
				assert.Equal(t, []string{"Date", "Category", "Value"}, missing.Headers)
			},
		},
		{
			name:     "unsupported currency",
			csv:      "date,category,amount\n2024-01-01,Gaji,100",
			currency: money.Currency("EUR"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, money.ErrUnsupportedCurrency)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			svc := newTestService(category.Seed, store)

			result, err := svc.Import(context.Background(), tt.csv, tt.currency)
			require.Error(t, err)
			assert.Nil(t, result)
			tt.check(t, err)
			assert.Zero(t, store.calls)
		})
	}
}

func TestImport_CategoryLoadFailure(t *testing.T) {
	lister := &fakeCategories{err: errors.New("db down")}
	svc := NewImportService(lister, &memStore{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.Import(context.Background(), "date,category,amount\n2024-01-01,Gaji,100", money.IDR)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load categories")
}

func TestImport_CategoriesLoadedOncePerBatch(t *testing.T) {
	lister := &fakeCategories{categories: category.Seed}
	svc := NewImportService(lister, &memStore{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	csv := "date,category,amount\n2024-01-01,Gaji,100\n2024-01-02,Ojol,200\n2024-01-03,PK,300"
	_, err := svc.Import(context.Background(), csv, money.IDR)
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls)
}

func TestImportRows_RandomBatch(t *testing.T) {
	faker := gofakeit.New(42)
	names := []string{"Gaji", "PK", "Ojol", "Belanja", "Paket Internet", "Titip ke Mama"}

	grid := parser.Grid{{"Date", "Category", "Amount", "Description"}}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	const rows = 200
	for range rows {
		grid = append(grid, []string{
			faker.DateRange(start, end).Format("2006-01-02"),
			names[faker.Number(0, len(names)-1)],
			fmt.Sprintf("%d", faker.Number(1, 10_000_000)),
			faker.Word(),
		})
	}

	store := &memStore{}
	svc := newTestService(category.Seed, store)

	result, err := svc.ImportRows(context.Background(), grid, money.IDR)
	require.NoError(t, err)
	assert.Equal(t, rows, result.Imported)
	assert.Empty(t, result.Errors)

	for i, d := range store.drafts {
		assert.True(t, d.Amount.IsPositive(), "draft %d", i)
		assert.Equal(t, grid[i+1][0], d.TransactionDate)
	}
}

func TestImport_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newTestService(category.Seed, &memStore{}).WithMetrics(metrics.NewImportMetrics(reg))

	_, err := svc.Import(context.Background(), "date,category,amount\n2024-01-01,Gaji,100\nbad,Gaji,100", money.IDR)
	require.NoError(t, err)
	_, err = svc.Import(context.Background(), "date,category\n2024-01-01,Gaji", money.IDR)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "|" + l.GetValue()
			}
			if c := m.GetCounter(); c != nil {
				counts[key] = c.GetValue()
			}
		}
	}

	assert.Equal(t, 1.0, counts["expense_import_rows_total|imported"])
	assert.Equal(t, 1.0, counts["expense_import_rows_total|failed"])
	assert.Equal(t, 1.0, counts["expense_import_batches_total|"+metrics.ResultCompleted])
	assert.Equal(t, 1.0, counts["expense_import_batches_total|"+metrics.ResultRejected])
}
