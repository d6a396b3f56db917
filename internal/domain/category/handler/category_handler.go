// Package handler serves the category REST endpoints.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/pkg/i18n"
	"github.com/FACorreiaa/expense-tracker/pkg/logger"
	"github.com/FACorreiaa/expense-tracker/pkg/response"
	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

// CategoryHandler handles /api/categories
type CategoryHandler struct {
	repo   category.Repository
	logger *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(repo category.Repository, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{repo: repo, logger: logger}
}

// Routes mounts the category endpoints on r.
func (h *CategoryHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List returns every category ordered by type and name.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", categories)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	c, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "", c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	tr := i18n.FromRequest(r)

	in, ok := h.decode(w, r, tr)
	if !ok {
		return
	}
	c, err := h.repo.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, tr.T(i18n.KeyCategoryCreated), c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	tr := i18n.FromRequest(r)

	id, ok := h.id(w, r)
	if !ok {
		return
	}
	in, ok := h.decode(w, r, tr)
	if !ok {
		return
	}
	c, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, tr.T(i18n.KeyCategoryUpdated), c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, i18n.FromRequest(r).T(i18n.KeyCategoryDeleted), nil)
}

func (h *CategoryHandler) decode(w http.ResponseWriter, r *http.Request, tr *i18n.Translator) (category.Input, bool) {
	var in category.Input
	if err := response.Decode(r, &in); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return in, false
	}
	in.Normalize()

	if err := in.Validate(); err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			response.Invalid(w, tr.T(i18n.KeyValidationFailed), errs)
			return in, false
		}
		response.Fail(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	return in, true
}

func (h *CategoryHandler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(w, http.StatusNotFound, i18n.FromRequest(r).T(i18n.KeyNotFound))
		return 0, false
	}
	return id, true
}

func (h *CategoryHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	tr := i18n.FromRequest(r)
	if errors.Is(err, category.ErrNotFound) {
		response.Fail(w, http.StatusNotFound, tr.T(i18n.KeyNotFound))
		return
	}
	logger.FromContext(r.Context(), h.logger).Error("category request failed", slog.Any("error", err))
	response.Fail(w, http.StatusInternalServerError, tr.T(i18n.KeyFailedToLoad))
}
