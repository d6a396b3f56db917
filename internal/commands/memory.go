package commands

import (
	"context"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/internal/domain/transaction"
)

// staticCategories serves a fixed category table.
type staticCategories []category.Category

func (s staticCategories) ListCategories(_ context.Context) ([]category.Category, error) {
	return s, nil
}

// memoryStore collects drafts instead of writing them.
type memoryStore struct {
	drafts []transaction.Draft
}

func (m *memoryStore) CreateTransaction(_ context.Context, d transaction.Draft) (int64, error) {
	m.drafts = append(m.drafts, d)
	return int64(len(m.drafts)), nil
}
