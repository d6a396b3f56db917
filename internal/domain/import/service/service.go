// Package service runs an import batch: it detects the column layout, turns
// each data row into a transaction draft and stores it, collecting one error
// per failed row without stopping the batch.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/expense-tracker/internal/domain/categorization"
	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/classifier"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/normalizer"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/parser"
	"github.com/FACorreiaa/expense-tracker/internal/domain/import/sniffer"
	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
	"github.com/FACorreiaa/expense-tracker/pkg/metrics"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

const tracerName = "github.com/FACorreiaa/expense-tracker/internal/domain/import/service"

// ErrNoDataRows is returned when the input has no row after the header.
var ErrNoDataRows = errors.New("import needs a header and at least one data row")

// CategoryLister loads the category table once per batch, ordered by id.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]category.Category, error)
}

// TransactionStore persists one draft.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, draft transaction.Draft) (int64, error)
}

// ImportResult is returned for every batch that got past column detection.
type ImportResult struct {
	Imported      int                   `json:"imported"`
	Errors        []string              `json:"errors"`
	ColumnMapping sniffer.ColumnMapping `json:"column_mapping"`
	Fingerprint   string                `json:"-"`
}

// Failed returns the number of rows that produced an error.
func (r *ImportResult) Failed() int {
	return len(r.Errors)
}

// ImportService orchestrates import batches.
type ImportService struct {
	categories   CategoryLister
	store        TransactionStore
	classifier   *classifier.Classifier
	resolverOpts []categorization.Option
	metrics      *metrics.ImportMetrics
	tracer       trace.Tracer
	logger       *slog.Logger
}

// NewImportService creates a new import service
func NewImportService(categories CategoryLister, store TransactionStore, cls *classifier.Classifier, logger *slog.Logger) *ImportService {
	if cls == nil {
		cls = classifier.NewDefault()
	}
	return &ImportService{
		categories: categories,
		store:      store,
		classifier: cls,
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}
}

// WithMetrics records batch outcomes in Prometheus.
func (s *ImportService) WithMetrics(m *metrics.ImportMetrics) *ImportService {
	s.metrics = m
	return s
}

// WithTracer overrides the global tracer.
func (s *ImportService) WithTracer(t trace.Tracer) *ImportService {
	s.tracer = t
	return s
}

// WithResolverOptions configures the per-batch category resolver.
func (s *ImportService) WithResolverOptions(opts ...categorization.Option) *ImportService {
	s.resolverOpts = opts
	return s
}

// Import reads delimited text and imports every data row.
func (s *ImportService) Import(ctx context.Context, csvData string, currency money.Currency) (*ImportResult, error) {
	grid, err := parser.ReadCSV(csvData)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return s.ImportRows(ctx, grid, currency)
}

// ImportRows imports an already split grid whose first row is the header.
// It fails only when the grid has no data rows, the header lacks a required
// column, or the category table cannot be loaded; row failures are reported
// in the result.
func (s *ImportService) ImportRows(ctx context.Context, grid parser.Grid, currency money.Currency) (*ImportResult, error) {
	ctx, span := s.tracer.Start(ctx, "import.batch", trace.WithAttributes(
		attribute.String("import.currency", currency.String()),
		attribute.Int("import.lines", len(grid)),
	))
	defer span.End()

	start := time.Now()

	result, err := s.importRows(ctx, grid, currency)
	if err != nil {
		s.metrics.ObserveRejected()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("import rejected", slog.Any("error", err))
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.ObserveBatch(result.Imported, result.Failed(), elapsed)
	span.SetAttributes(
		attribute.Int("import.imported", result.Imported),
		attribute.Int("import.failed", result.Failed()),
	)
	s.logger.Info("import completed",
		slog.String("currency", currency.String()),
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed()),
		slog.String("fingerprint", result.Fingerprint),
		slog.Duration("elapsed", elapsed),
	)
	return result, nil
}

func (s *ImportService) importRows(ctx context.Context, grid parser.Grid, currency money.Currency) (*ImportResult, error) {
	if !currency.Valid() {
		return nil, money.ErrUnsupportedCurrency
	}
	if len(grid) < 2 {
		return nil, ErrNoDataRows
	}

	mapping, err := sniffer.DetectColumns(grid.Header())
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	resolver := categorization.NewResolver(categories, s.resolverOpts...)

	result := &ImportResult{
		Errors:        []string{},
		ColumnMapping: mapping,
		Fingerprint:   sniffer.Fingerprint(grid.Header()),
	}

	for i, row := range grid.DataRows() {
		rowNum := i + 1
		if reason := s.importRow(ctx, row, mapping, resolver, currency); reason != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, reason))
			s.logger.Debug("import row failed", slog.Int("row", rowNum), slog.String("reason", reason))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// importRow returns an empty string on success, otherwise the failure reason.
func (s *ImportService) importRow(ctx context.Context, row []string, mapping sniffer.ColumnMapping, resolver *categorization.Resolver, currency money.Currency) string {
	rec := parser.Extract(row, mapping)

	date, err := normalizer.ParseDate(rec.Date)
	if err != nil {
		return "Invalid date format: " + rec.Date
	}

	amount, err := normalizer.ParseAmount(rec.Amount)
	if err != nil {
		return "Invalid amount: " + rec.Amount
	}

	resolution := s.classifier.Resolve(rec.Type, rec.Category, rec.Subcategory)

	name := rec.DisplayCategory()
	categoryID, err := resolver.Resolve(name, resolution.Type)
	if err != nil {
		return categoryReason(name, err)
	}

	draft := transaction.Draft{
		TransactionDate: date,
		Type:            resolution.Type,
		CategoryID:      categoryID,
		Amount:          amount,
		Currency:        currency,
		Description:     rec.Description,
	}
	if err := s.persist(ctx, draft); err != nil {
		return err.Error()
	}
	return ""
}

func categoryReason(name string, err error) string {
	var nf *categorization.NotFoundError
	switch {
	case errors.As(err, &nf):
		if len(nf.Suggestions) > 0 {
			return fmt.Sprintf("Category '%s' not found (did you mean: %s)", name, strings.Join(nf.Suggestions, ", "))
		}
		return fmt.Sprintf("Category '%s' not found", name)
	case errors.Is(err, categorization.ErrAmbiguousCategory):
		return fmt.Sprintf("Category '%s' is ambiguous", name)
	default:
		return err.Error()
	}
}

// persist stores the draft, turning a panicking store into a row error.
func (s *ImportService) persist(ctx context.Context, draft transaction.Draft) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	_, err = s.store.CreateTransaction(ctx, draft)
	return err
}
