package i18n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   Lang
	}{
		{"default indonesian", "/api/categories", "", ID},
		{"usd query", "/api/categories?currency=usd", "", EN},
		{"idr query", "/api/categories?currency=IDR", "", ID},
		{"header", "/api/categories", "USD", EN},
		{"query wins over header", "/api/categories?currency=IDR", "USD", ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(CurrencyHeader, tt.header)
			}
			assert.Equal(t, tt.want, FromRequest(req).Lang())
		})
	}
}

func TestForCode(t *testing.T) {
	assert.Equal(t, ID, ForCode("").Lang())
	assert.Equal(t, ID, ForCode("  ").Lang())
	assert.Equal(t, ID, ForCode("idr").Lang())
	assert.Equal(t, EN, ForCode(" usd ").Lang())
	assert.Equal(t, EN, ForCode("EUR").Lang())
}

func TestHandler(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("currency", "usd")
	req := httptest.NewRequest(http.MethodGet, "/api/i18n/usd", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	Handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body messagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, EN, body.Lang)
	assert.Equal(t, "USD", body.Currency)
	assert.Equal(t, "Category created successfully", body.Messages[KeyCategoryCreated])
}
