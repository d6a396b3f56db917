// Package handler exposes the import pipeline over HTTP.
package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/expense-tracker/internal/domain/import/parser"
	importservice "github.com/FACorreiaa/expense-tracker/internal/domain/import/service"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/sniffer"
	"github.com/FACorreiaa/expense-tracker/pkg/i18n"
	"github.com/FACorreiaa/expense-tracker/pkg/logger"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
	"github.com/FACorreiaa/expense-tracker/pkg/response"
	"github.com/FACorreiaa/expense-tracker/pkg/storage"
	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

// DefaultMaxUploadBytes bounds request bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// Importer runs import batches.
type Importer interface {
	Import(ctx context.Context, csvData string, currency money.Currency) (*importservice.ImportResult, error)
	ImportRows(ctx context.Context, grid parser.Grid, currency money.Currency) (*importservice.ImportResult, error)
}

// Archiver stores a copy of the raw upload.
type Archiver interface {
	Upload(ctx context.Context, namespace, filename, contentType string, labels map[string]string, r io.Reader) (*storage.FileInfo, error)
}

// ImportHandler handles POST /api/transactions/import
type ImportHandler struct {
	importer       Importer
	archive        Archiver
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importer Importer, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importer:       importer,
		maxUploadBytes: DefaultMaxUploadBytes,
		logger:         logger,
	}
}

// WithArchive keeps a copy of every accepted upload.
func (h *ImportHandler) WithArchive(a Archiver) *ImportHandler {
	h.archive = a
	return h
}

// WithMaxUploadBytes overrides the request body limit.
func (h *ImportHandler) WithMaxUploadBytes(n int64) *ImportHandler {
	if n > 0 {
		h.maxUploadBytes = n
	}
	return h
}

type importRequest struct {
	CSVData  string `json:"csv_data"`
	Currency string `json:"currency"`
}

// upload is the decoded request: either raw delimited text or a named file.
type upload struct {
	currency string
	csvData  string
	filename string
	data     []byte
}

type importResponse struct {
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
	Imported      int                   `json:"imported"`
	Errors        []string              `json:"errors"`
	ColumnMapping sniffer.ColumnMapping `json:"column_mapping"`
}

type rejectedHeadersResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	ReceivedHeaders []string `json:"received_headers"`
}

// Import accepts a JSON body {csv_data, currency} or a multipart form with
// file and currency fields. Row failures never fail the request.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	up, err := h.decode(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		response.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	up.currency = strings.ToUpper(strings.TrimSpace(up.currency))
	tr := i18n.ForCode(up.currency)

	currency, errs := up.validate()
	if errs.Any() {
		response.Invalid(w, tr.T(i18n.KeyValidationFailed), errs)
		return
	}

	h.archiveUpload(ctx, log, up)

	var result *importservice.ImportResult
	if up.filename != "" {
		grid, readErr := parser.ReadFile(up.filename, bytes.NewReader(up.data))
		if readErr != nil {
			var fileErrs validation.Errors
			fileErrs.Add("file", readErr.Error())
			response.Invalid(w, tr.T(i18n.KeyValidationFailed), fileErrs)
			return
		}
		result, err = h.importer.ImportRows(ctx, grid, currency)
	} else {
		result, err = h.importer.Import(ctx, up.csvData, currency)
	}

	if err != nil {
		h.writeImportError(w, log, tr, err)
		return
	}

	response.JSON(w, http.StatusOK, importResponse{
		Success:       true,
		Message:       tr.T(i18n.KeyImportCompleted, result.Imported, result.Failed()),
		Imported:      result.Imported,
		Errors:        result.Errors,
		ColumnMapping: result.ColumnMapping,
	})
}

func (h *ImportHandler) writeImportError(w http.ResponseWriter, log *slog.Logger, tr *i18n.Translator, err error) {
	var missing *sniffer.MissingColumnsError
	switch {
	case errors.Is(err, importservice.ErrNoDataRows):
		response.Fail(w, http.StatusUnprocessableEntity, tr.T(i18n.KeyImportNoDataRows))
	case errors.As(err, &missing):
		response.JSON(w, http.StatusUnprocessableEntity, rejectedHeadersResponse{
			Success:         false,
			Message:         tr.T(i18n.KeyImportMissingCols, strings.Join(missing.MissingNames(), ", ")),
			ReceivedHeaders: missing.Headers,
		})
	default:
		log.Error("import failed", slog.Any("error", err))
		response.Fail(w, http.StatusInternalServerError, tr.T(i18n.KeyFailedToLoad))
	}
}

func (h *ImportHandler) decode(r *http.Request) (*upload, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return h.decodeMultipart(r)
	}

	var req importRequest
	if err := response.Decode(r, &req); err != nil {
		return nil, err
	}
	return &upload{currency: req.Currency, csvData: req.CSVData}, nil
}

func (h *ImportHandler) decodeMultipart(r *http.Request) (*upload, error) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, err
	}
	up := &upload{
		currency: r.FormValue("currency"),
		csvData:  r.FormValue("csv_data"),
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return up, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	up.data, err = io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	up.filename = header.Filename
	return up, nil
}

func (u *upload) validate() (money.Currency, validation.Errors) {
	var errs validation.Errors

	if u.filename == "" {
		errs.Required("csv_data", u.csvData)
	} else if len(u.data) == 0 {
		errs.Add("file", "The file field is required.")
	}

	var currency money.Currency
	if errs.Required("currency", u.currency) {
		c, err := money.ParseCurrency(u.currency)
		if err != nil {
			errs.Add("currency", "The selected currency is invalid.")
		}
		currency = c
	}
	return currency, errs
}

func (h *ImportHandler) archiveUpload(ctx context.Context, log *slog.Logger, up *upload) {
	if h.archive == nil {
		return
	}

	name, contentType, body := "import.csv", "text/csv", []byte(up.csvData)
	if up.filename != "" {
		name, contentType, body = up.filename, http.DetectContentType(up.data), up.data
	}

	info, err := h.archive.Upload(ctx, storage.ImportsNamespace, name, contentType, map[string]string{
		"currency":   up.currency,
		"request_id": logger.RequestIDFromContext(ctx),
	}, bytes.NewReader(body))
	if err != nil {
		log.Warn("failed to archive import upload", slog.Any("error", err))
		return
	}
	log.Debug("import upload archived", slog.String("file_id", info.ID.String()), slog.Int64("size", info.Size))
}
