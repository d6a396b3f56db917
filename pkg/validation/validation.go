// Package validation collects per-field input errors in the shape the API returns them.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Errors maps a field name to its messages. The zero value is ready to use.
type Errors map[string][]string

// Add records msg for field.
func (e *Errors) Add(field, msg string) {
	if *e == nil {
		*e = make(Errors)
	}
	(*e)[field] = append((*e)[field], msg)
}

// Addf records a formatted message for field.
func (e *Errors) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Any reports whether at least one error was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Err returns e as an error, or nil when empty.
func (e Errors) Err() error {
	if !e.Any() {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Required checks that value is not blank.
func (e *Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Addf(field, "The %s field is required.", field)
		return false
	}
	return true
}

// MaxLen checks the rune length of value.
func (e *Errors) MaxLen(field, value string, max int) {
	if len([]rune(value)) > max {
		e.Addf(field, "The %s field must not be greater than %d characters.", field, max)
	}
}

// In checks value is one of allowed.
func (e *Errors) In(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Addf(field, "The selected %s is invalid.", field)
}

// HexColor checks a #RRGGBB value.
func (e *Errors) HexColor(field, value string) {
	if !hexColor.MatchString(value) {
		e.Addf(field, "The %s field format is invalid.", field)
	}
}

// Date checks an ISO YYYY-MM-DD value.
func (e *Errors) Date(field, value string) {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		e.Addf(field, "The %s field must be a valid date.", field)
	}
}
