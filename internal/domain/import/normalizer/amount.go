package normalizer

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/expense-tracker/pkg/money"
)

// ErrInvalidAmount is returned for cells that do not hold a positive number.
var ErrInvalidAmount = errors.New("invalid amount")

var (
	numericPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	firstDigitRun  = regexp.MustCompile(`\d[\d.,]*`)
)

// ParseAmount reads a money cell. Dots are thousands separators and a comma
// is the decimal mark, so "Rp 1.500.000,50" is 1500000.50 and "12.50" is 1250.
// Negative values are returned as their absolute value. The result is rounded
// to cents; zero after rounding and values of 1e13 or more are rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == 'R' || r == 'p' || r == '.' || unicode.IsSpace(r) {
			return -1
		}
		if r == ',' {
			return '.'
		}
		return r
	}, raw)

	amount, ok := parseNumeric(cleaned)
	if !ok {
		run := firstDigitRun.FindString(raw)
		if run == "" {
			return decimal.Zero, ErrInvalidAmount
		}
		run = strings.ReplaceAll(run, ".", "")
		run = strings.ReplaceAll(run, ",", ".")
		if amount, ok = parseNumeric(run); !ok {
			return decimal.Zero, ErrInvalidAmount
		}
	}

	// bound the magnitude before anything rescales a huge exponent
	if !inRange(amount) {
		return decimal.Zero, ErrInvalidAmount
	}

	amount = amount.Abs().Round(2)
	if amount.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func parseNumeric(s string) (decimal.Decimal, bool) {
	if !numericPattern.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// inRange reports whether d fits the amount column. Values below 0.001 are
// rejected here since they round to zero and their exponent may be huge.
func inRange(d decimal.Decimal) bool {
	if !money.Storable(d) {
		return false
	}
	return money.Magnitude(d) >= -2
}
