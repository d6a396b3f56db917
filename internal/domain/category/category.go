// Package category defines transaction categories and their input rules.
package category

import (
	"errors"
	"strings"
	"time"

	"github.com/FACorreiaa/expense-tracker/pkg/validation"
)

// Type separates income from expense categories and transactions.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DefaultColor is applied when a category is created without one.
const DefaultColor = "#6B7280"

// ErrNotFound is returned when a category id does not exist.
var ErrNotFound = errors.New("category not found")

// Valid reports whether t is income or expense.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category is a named income or expense bucket.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input is the create/update payload.
type Input struct {
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Color string `json:"color"`
}

// Normalize trims fields and applies the default color.
func (in *Input) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	if in.Color == "" {
		in.Color = DefaultColor
	}
}

// Validate checks name, type and color.
func (in Input) Validate() error {
	var errs validation.Errors
	if errs.Required("name", in.Name) {
		errs.MaxLen("name", in.Name, 255)
	}
	if errs.Required("type", string(in.Type)) {
		errs.In("type", string(in.Type), string(TypeIncome), string(TypeExpense))
	}
	errs.HexColor("color", in.Color)
	return errs.Err()
}

// Seed lists the categories created by the initial migration, in id order.
var Seed = []Category{
	{ID: 1, Name: "Gaji", Type: TypeIncome, Color: "#10B981"},
	{ID: 2, Name: "PK", Type: TypeIncome, Color: "#3B82F6"},
	{ID: 3, Name: "Pemberian Ortu", Type: TypeIncome, Color: "#8B5CF6"},
	{ID: 4, Name: "Lainnya", Type: TypeIncome, Color: "#6B7280"},
	{ID: 5, Name: "Titip ke Mama", Type: TypeExpense, Color: "#EC4899"},
	{ID: 6, Name: "Ojol", Type: TypeExpense, Color: "#F59E0B"},
	{ID: 7, Name: "Makan Minum", Type: TypeExpense, Color: "#EF4444"},
	{ID: 8, Name: "Belanja", Type: TypeExpense, Color: "#F97316"},
	{ID: 9, Name: "Sewa/Kos", Type: TypeExpense, Color: "#14B8A6"},
	{ID: 10, Name: "Paket Internet", Type: TypeExpense, Color: "#06B6D4"},
	{ID: 11, Name: "Lainnya", Type: TypeExpense, Color: "#9CA3AF"},
}
