// Package handler serves the transaction REST endpoints and CSV export.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
	"github.com/FACorreiaa/expense-tracker/pkg/i18n"
	"github.com/FACorreiaa/expense-tracker/pkg/logger"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
	"github.com/FACorreiaa/expense-tracker/pkg/response"
	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

// TransactionHandler handles /api/transactions
type TransactionHandler struct {
	svc    *transaction.Service
	logger *slog.Logger
	now    func() time.Time
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc *transaction.Service, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, logger: logger, now: time.Now}
}

// Routes mounts the transaction endpoints on r. The import endpoint is
// mounted separately by the caller.
func (h *TransactionHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns a page of transactions, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), filterFromQuery(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", page)
}

// filterFromQuery reads the listing filters. Values that do not parse are ignored.
func filterFromQuery(r *http.Request) transaction.Filter {
	q := r.URL.Query()
	var f transaction.Filter

	if t := category.Type(q.Get("type")); t.Valid() {
		f.Type = &t
	}
	if c, err := money.ParseCurrency(strings.ToUpper(q.Get("currency"))); err == nil {
		f.Currency = &c
	}
	if v := q.Get("start_date"); v != "" {
		f.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		f.EndDate = &v
	}
	if id, err := strconv.ParseInt(q.Get("category_id"), 10, 64); err == nil {
		f.CategoryID = &id
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	f.Normalize()
	return f
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", t)
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in transaction.Input
	if err := response.Decode(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, i18n.FromRequest(r).T(i18n.KeyTransactionCreated), t)
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var in transaction.Input
	if err := response.Decode(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, i18n.FromRequest(r).T(i18n.KeyTransactionUpdated), t)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, i18n.FromRequest(r).T(i18n.KeyTransactionDeleted), nil)
}

// exportRow is one line of the CSV export. The header uses names the
// importer recognises so an export can be imported again.
type exportRow struct {
	Date        string `csv:"Date"`
	Category    string `csv:"Category"`
	Type        string `csv:"Type"`
	Amount      string `csv:"Amount"`
	Currency    string `csv:"Currency"`
	Description string `csv:"Description"`
}

// Export streams every transaction of the requested currency as CSV.
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	tr := i18n.FromRequest(r)

	var currency *money.Currency
	if code := r.URL.Query().Get("currency"); code != "" {
		c, err := money.ParseCurrency(strings.ToUpper(code))
		if err != nil {
			var errs validation.Errors
			errs.Add("currency", "The selected currency is invalid.")
			response.Invalid(w, tr.T(i18n.KeyValidationFailed), errs)
			return
		}
		currency = &c
	}

	items, err := h.svc.Export(r.Context(), currency)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(items) == 0 {
		response.Fail(w, http.StatusNotFound, tr.T(i18n.KeyNoDataToExport))
		return
	}

	rows := make([]exportRow, 0, len(items))
	for _, t := range items {
		row := exportRow{
			Date:     t.TransactionDate,
			Type:     string(t.Type),
			Amount:   exportAmount(t),
			Currency: string(t.Currency),
		}
		if t.Category != nil {
			row.Category = t.Category.Name
		}
		if t.Description != nil {
			row.Description = *t.Description
		}
		rows = append(rows, row)
	}

	filename := fmt.Sprintf("transactions_%s.csv", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if err := gocsv.Marshal(rows, w); err != nil {
		logger.FromContext(r.Context(), h.logger).Error("failed to write export", slog.Any("error", err))
	}
}

// exportAmount writes the decimal mark as a comma, the form the importer
// reads back without treating it as a thousands separator.
func exportAmount(t transaction.Transaction) string {
	return strings.Replace(t.Amount.StringFixed(2), ".", ",", 1)
}

func (h *TransactionHandler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(w, http.StatusNotFound, i18n.FromRequest(r).T(i18n.KeyNotFound))
		return 0, false
	}
	return id, true
}

func (h *TransactionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	tr := i18n.FromRequest(r)

	var errs validation.Errors
	switch {
	case errors.As(err, &errs):
		response.Invalid(w, tr.T(i18n.KeyValidationFailed), errs)
	case errors.Is(err, transaction.ErrNotFound):
		response.Fail(w, http.StatusNotFound, tr.T(i18n.KeyNotFound))
	default:
		logger.FromContext(r.Context(), h.logger).Error("transaction request failed", slog.Any("error", err))
		response.Fail(w, http.StatusInternalServerError, tr.T(i18n.KeyFailedToLoad))
	}
}
