package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/expense-tracker/pkg/money"
	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

// CategoryChecker reports whether a category id exists.
type CategoryChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service validates payloads before they reach the repository.
type Service struct {
	repo       Repository
	categories CategoryChecker
	logger     *slog.Logger
}

// NewService creates a new transaction service
func NewService(repo Repository, categories CategoryChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, categories: categories, logger: logger}
}

// Create validates in and stores it, returning the stored record with its category.
func (s *Service) Create(ctx context.Context, in Input) (*Transaction, error) {
	if err := in.Validate(false); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
		return nil, err
	}

	id, err := s.repo.CreateTransaction(ctx, in.Draft())
	if err != nil {
		return nil, err
	}
	s.logger.Info("transaction created", slog.Int64("id", id), slog.Int64("category_id", *in.CategoryID))
	return s.repo.Get(ctx, id)
}

// Get returns one transaction.
func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

// List returns one page of transactions.
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	return s.repo.List(ctx, f)
}

// Export returns every transaction of currency, or all of them when currency is nil.
func (s *Service) Export(ctx context.Context, currency *money.Currency) ([]Transaction, error) {
	return s.repo.Export(ctx, currency)
}

// Update applies a partial payload.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Transaction, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(true); err != nil {
		return nil, err
	}
	if in.CategoryID != nil && *in.CategoryID != current.CategoryID {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	in.Apply(current)
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("transaction deleted", slog.Int64("id", id))
	return nil
}

func (s *Service) checkCategory(ctx context.Context, id int64) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !ok {
		var errs validation.Errors
		errs.Add("category_id", "The selected category id is invalid.")
		return errs
	}
	return nil
}
