package i18n

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/expense-tracker/pkg/money"
	"github.com/FACorreiaa/expense-tracker/pkg/response"
)

// CurrencyHeader lets clients pick the message language without a query parameter.
const CurrencyHeader = "X-Currency"

// FromRequest picks the table from the currency query parameter or the
// X-Currency header. Requests naming neither get Indonesian.
func FromRequest(r *http.Request) *Translator {
	code := r.URL.Query().Get("currency")
	if code == "" {
		code = r.Header.Get(CurrencyHeader)
	}
	return ForCode(code)
}

// ForCode picks the table for a client-supplied currency code, ignoring case.
// An empty code gets Indonesian.
func ForCode(code string) *Translator {
	code = strings.TrimSpace(code)
	if code == "" {
		return For(ID)
	}
	return ForCurrency(money.Currency(strings.ToUpper(code)))
}

type messagesResponse struct {
	Success  bool              `json:"success"`
	Lang     Lang              `json:"lang"`
	Currency string            `json:"currency"`
	Messages map[string]string `json:"messages"`
}

// Handler serves GET /api/i18n/{currency}.
func Handler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "currency"))
	tr := ForCurrency(money.Currency(code))
	response.JSON(w, http.StatusOK, messagesResponse{
		Success:  true,
		Lang:     tr.Lang(),
		Currency: code,
		Messages: tr.Messages(),
	})
}
