// Package transaction defines income and expense records and their input rules.
package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
	"github.com/FACorreiaa/expense-tracker/pkg/money"
	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

// DateLayout is the storage and wire format of transaction dates.
const DateLayout = "2006-01-02"

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

var minAmount = decimal.RequireFromString("0.01")

// Draft is a validated transaction ready to be stored.
type Draft struct {
	TransactionDate string
	Type            category.Type
	CategoryID      int64
	Amount          decimal.Decimal
	Currency        money.Currency
	Description     *string
}

// Transaction is a stored record. Category is populated on reads.
type Transaction struct {
	ID              int64              `json:"id"`
	CategoryID      int64              `json:"category_id"`
	Amount          decimal.Decimal    `json:"amount"`
	Currency        money.Currency     `json:"currency"`
	Type            category.Type      `json:"type"`
	Description     *string            `json:"description"`
	TransactionDate string             `json:"transaction_date"`
	Category        *category.Category `json:"category,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Input is the create/update payload. On update, nil fields are left unchanged.
type Input struct {
	CategoryID      *int64           `json:"category_id"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        *string          `json:"currency"`
	Type            *string          `json:"type"`
	Description     *string          `json:"description"`
	TransactionDate *string          `json:"transaction_date"`
}

// Validate checks the payload. When partial is false every required field must be set.
func (in Input) Validate(partial bool) error {
	var errs validation.Errors

	if in.CategoryID == nil {
		if !partial {
			errs.Add("category_id", "The category id field is required.")
		}
	} else if *in.CategoryID <= 0 {
		errs.Add("category_id", "The selected category id is invalid.")
	}

	if in.Amount == nil {
		if !partial {
			errs.Add("amount", "The amount field is required.")
		}
	} else if !money.Storable(*in.Amount) {
		errs.Add("amount", "The amount field must be less than 10000000000000.")
	} else if money.Magnitude(*in.Amount) < -1 || in.Amount.LessThan(minAmount) {
		errs.Add("amount", "The amount field must be at least 0.01.")
	}

	if in.Currency == nil {
		if !partial {
			errs.Add("currency", "The currency field is required.")
		}
	} else if _, err := money.ParseCurrency(*in.Currency); err != nil {
		errs.Add("currency", "The selected currency is invalid.")
	}

	if in.Type == nil {
		if !partial {
			errs.Add("type", "The type field is required.")
		}
	} else {
		errs.In("type", *in.Type, string(category.TypeIncome), string(category.TypeExpense))
	}

	if in.TransactionDate == nil {
		if !partial {
			errs.Add("transaction_date", "The transaction date field is required.")
		}
	} else {
		errs.Date("transaction_date", *in.TransactionDate)
	}

	return errs.Err()
}

// Draft converts a validated create payload.
func (in Input) Draft() Draft {
	d := Draft{
		CategoryID:      *in.CategoryID,
		Amount:          *in.Amount,
		Currency:        money.Currency(*in.Currency),
		Type:            category.Type(*in.Type),
		TransactionDate: *in.TransactionDate,
	}
	d.Description = normalizeDescription(in.Description)
	return d
}

// Apply merges a validated partial payload into t.
func (in Input) Apply(t *Transaction) {
	if in.CategoryID != nil {
		t.CategoryID = *in.CategoryID
	}
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.Currency != nil {
		t.Currency = money.Currency(*in.Currency)
	}
	if in.Type != nil {
		t.Type = category.Type(*in.Type)
	}
	if in.Description != nil {
		t.Description = normalizeDescription(in.Description)
	}
	if in.TransactionDate != nil {
		t.TransactionDate = *in.TransactionDate
	}
}

func normalizeDescription(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Filter narrows a listing.
type Filter struct {
	Type       *category.Type
	Currency   *money.Currency
	StartDate  *string
	EndDate    *string
	CategoryID *int64
	Page       int
	PerPage    int
}

// Default paging.
const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Normalize clamps paging values.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

// Offset returns the row offset of the current page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// Page is one page of a listing.
type Page struct {
	Data        []Transaction `json:"data"`
	CurrentPage int           `json:"current_page"`
	PerPage     int           `json:"per_page"`
	Total       int           `json:"total"`
	LastPage    int           `json:"last_page"`
}

// NewPage computes LastPage from total.
func NewPage(data []Transaction, f Filter, total int) Page {
	last := (total + f.PerPage - 1) / f.PerPage
	if last < 1 {
		last = 1
	}
	if data == nil {
		data = []Transaction{}
	}
	return Page{Data: data, CurrentPage: f.Page, PerPage: f.PerPage, Total: total, LastPage: last}
}
