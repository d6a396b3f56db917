// Package money provides currency-safe amounts for the tracker. Amounts are kept as
// shopspring/decimal values in the domain and converted to go-money minor units for
// arithmetic and display.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is an ISO-4217 code accepted by the tracker.
type Currency string

// Supported currencies
const (
	IDR Currency = "IDR" // Indonesian Rupiah
	USD Currency = "USD" // US Dollar
)

// ErrUnsupportedCurrency is returned when a currency code is not IDR or USD.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Supported returns the accepted currency codes in display order.
func Supported() []Currency {
	return []Currency{IDR, USD}
}

// ParseCurrency validates a currency code. Matching is case-sensitive like the API contract.
func ParseCurrency(code string) (Currency, error) {
	switch Currency(strings.TrimSpace(code)) {
	case IDR:
		return IDR, nil
	case USD:
		return USD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	_, err := ParseCurrency(string(c))
	return err == nil
}

func (c Currency) String() string {
	return string(c)
}

// MaxIntegerDigits is the integer digit count of the NUMERIC(15,2) amount column.
const MaxIntegerDigits = 13

// Storable reports whether |amount| < 1e13, the amount column's range. It
// reads the coefficient and exponent directly, so values like 1e2000000000
// are rejected without being expanded.
func Storable(amount decimal.Decimal) bool {
	return Magnitude(amount) <= MaxIntegerDigits
}

// Magnitude is the position of the leading digit of |d|: 1 for 1 to 9.99,
// 0 for 0.1 to 0.99, -1 for 0.01 to 0.099 and so on. A zero coefficient
// counts as one digit.
func Magnitude(d decimal.Decimal) int64 {
	coef := d.Coefficient()
	return int64(len(coef.Abs(coef).String())) + int64(d.Exponent())
}

// Money represents a monetary value with currency.
type Money struct {
	m *money.Money
}

// New creates a Money value from minor units.
func New(amountMinor int64, c Currency) *Money {
	return &Money{m: money.New(amountMinor, string(c))}
}

// NewFromDecimal creates Money from a decimal amount, rounding to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, c Currency) *Money {
	return New(ToMinor(amount, c), c)
}

// ToMinor converts a decimal amount into minor units of the currency.
func ToMinor(amount decimal.Decimal, c Currency) int64 {
	multiplier := decimal.New(1, int32(fraction(c)))
	return amount.Mul(multiplier).Round(0).IntPart()
}

func fraction(c Currency) int {
	if cur := money.GetCurrency(string(c)); cur != nil {
		return cur.Fraction
	}
	return 2
}

// IsNegative returns true if the amount is less than zero
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Subtract subtracts other from m. Returns error if currencies don't match.
func (m *Money) Subtract(other *Money) (*Money, error) {
	if other == nil || other.m == nil {
		return m, nil
	}
	if m == nil || m.m == nil {
		return &Money{m: other.m.Negative()}, nil
	}
	result, err := m.m.Subtract(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Display returns a formatted string for display (e.g., "Rp2,500,000.00", "$12.50")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Display()
}

// ToDecimal converts back to decimal.Decimal.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}
