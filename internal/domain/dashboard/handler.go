package dashboard

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/expense-tracker/pkg/i18n"
	"github.com/FACorreiaa/expense-tracker/pkg/logger"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
	"github.com/FACorreiaa/expense-tracker/pkg/response"
	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

// Handler serves GET /api/dashboard
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Summary reads ?currency= (IDR when absent).
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	tr := i18n.FromRequest(r)

	code := strings.ToUpper(r.URL.Query().Get("currency"))
	if code == "" {
		code = string(money.IDR)
	}
	currency, err := money.ParseCurrency(code)
	if err != nil {
		var errs validation.Errors
		errs.Add("currency", "The selected currency is invalid.")
		response.Invalid(w, tr.T(i18n.KeyValidationFailed), errs)
		return
	}

	summary, err := h.svc.Summary(r.Context(), currency)
	if err != nil {
		logger.FromContext(r.Context(), h.logger).Error("failed to build dashboard", slog.Any("error", err))
		response.Fail(w, http.StatusInternalServerError, tr.T(i18n.KeyFailedToLoad))
		return
	}
	response.OK(w, http.StatusOK, "", summary)
}
