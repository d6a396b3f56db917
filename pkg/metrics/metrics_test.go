package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestImportMetrics_ObserveBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)

	m.ObserveBatch(3, 1, 50*time.Millisecond)
	m.ObserveBatch(2, 0, 10*time.Millisecond)
	m.ObserveRejected()

	assert.Equal(t, 5.0, testutil.ToFloat64(m.rows.WithLabelValues("imported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rows.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.batches.WithLabelValues(ResultCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues(ResultRejected)))
}

func TestImportMetrics_NilIsNoop(t *testing.T) {
	var m *ImportMetrics
	assert.NotPanics(t, func() {
		m.ObserveBatch(1, 1, time.Second)
		m.ObserveRejected()
	})
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/transactions/import", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "422")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "expense_http_requests_total")
}
