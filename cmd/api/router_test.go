package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/expense-tracker/pkg/config"
	"github.com/FACorreiaa/expense-tracker/pkg/logger"
)

// newTestDependencies wires the real repositories, services and handlers
// against a pgxmock pool instead of a live database.
func newTestDependencies(t *testing.T) (*Dependencies, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	d := &Dependencies{
		Config: &config.Config{
			Server: config.ServerConfig{
				RateLimitPerSecond: 1000,
				RateLimitBurst:     1000,
				AllowedOrigins:     []string{"http://localhost:5173"},
			},
			Observability: config.ObservabilityConfig{MetricsEnabled: true},
		},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	}
	d.wireRepositories(mock)
	require.NoError(t, d.initServices())
	require.NoError(t, d.initHandlers())
	return d, mock
}

func TestRouter_Health(t *testing.T) {
	d, _ := newTestDependencies(t)
	rec := httptest.NewRecorder()
	NewRouter(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(logger.RequestIDHeader))
}

func TestRouter_ImportThroughRepositories(t *testing.T) {
	d, mock := newTestDependencies(t)
	now := time.Now()

	mock.ExpectQuery(`FROM categories ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "type", "color", "created_at", "updated_at"}).
			AddRow(int64(1), "Gaji", "income", "#10B981", now, now).
			AddRow(int64(6), "Ojol", "expense", "#F59E0B", now, now))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(int64(6), "18000.00", "IDR", "expense", (*string)(nil), "2024-07-01").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	body := `{"csv_data":"tanggal,kategori,nominal\n01-Jul-24,Ojol,18.000\n02-Jul-24,Parkir,2.000","currency":"IDR"}`
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	NewRouter(d).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Imported int      `json:"imported"`
		Errors   []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Imported)
	assert.Equal(t, []string{"Row 2: Category 'Parkir' not found"}, got.Errors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	d, _ := newTestDependencies(t)
	router := NewRouter(d)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/i18n/IDR", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "expense_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(rate.NewLimiter(rate.Limit(0.001), 1))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
