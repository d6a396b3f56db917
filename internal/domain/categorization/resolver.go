// Package categorization maps category names from imported rows to category ids.
package categorization

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
)

// ErrAmbiguousCategory is returned when a name matches several categories
// and the transaction type does not single one out.
var ErrAmbiguousCategory = errors.New("category is ambiguous")

// NotFoundError is returned when no category carries the name.
type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("category %q not found", e.Name)
	}
	return fmt.Sprintf("category %q not found (did you mean: %s)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFirstMatch resolves duplicate names without reporting ambiguity:
// an exact name maps to the last category carrying it, and the
// case-insensitive fallback takes the first name in table order.
func WithFirstMatch() Option {
	return func(r *Resolver) { r.firstMatch = true }
}

// WithMaxSuggestions caps the "did you mean" list. Zero disables suggestions.
func WithMaxSuggestions(n int) Option {
	return func(r *Resolver) { r.maxSuggestions = n }
}

// Resolver looks up category ids by name. It is built once per import batch
// and never changes afterwards.
type Resolver struct {
	categories     []category.Category // id order
	names          []string            // distinct names, first appearance order
	firstMatch     bool
	maxSuggestions int
}

// NewResolver indexes categories. The input slice is copied and sorted by id.
func NewResolver(categories []category.Category, opts ...Option) *Resolver {
	sorted := make([]category.Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	seen := make(map[string]bool, len(sorted))
	names := make([]string, 0, len(sorted))
	for _, c := range sorted {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}

	r := &Resolver{categories: sorted, names: names, maxSuggestions: 3}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Len returns the number of known categories.
func (r *Resolver) Len() int {
	return len(r.categories)
}

// Resolve returns the id of the category called name. An exact match is
// preferred over a case-insensitive one. When several categories match,
// those of type t are preferred; if that still leaves more or fewer than
// one, ErrAmbiguousCategory is returned.
func (r *Resolver) Resolve(name string, t category.Type) (int64, error) {
	if r.firstMatch {
		return r.resolveFirstMatch(name)
	}

	candidates := r.matching(func(c category.Category) bool { return c.Name == name })
	if len(candidates) == 0 {
		lower := strings.ToLower(name)
		candidates = r.matching(func(c category.Category) bool { return strings.ToLower(c.Name) == lower })
	}

	switch len(candidates) {
	case 0:
		return 0, r.notFound(name)
	case 1:
		return candidates[0].ID, nil
	}

	var typed []category.Category
	for _, c := range candidates {
		if c.Type == t {
			typed = append(typed, c)
		}
	}
	if len(typed) == 1 {
		return typed[0].ID, nil
	}
	return 0, fmt.Errorf("%w: %q matches %d categories", ErrAmbiguousCategory, name, len(candidates))
}

func (r *Resolver) resolveFirstMatch(name string) (int64, error) {
	var id int64
	found := false
	for _, c := range r.categories {
		if c.Name == name {
			id, found = c.ID, true
		}
	}
	if found {
		return id, nil
	}

	lower := strings.ToLower(name)
	for _, n := range r.names {
		if strings.ToLower(n) == lower {
			// later duplicates overwrite earlier ids in the name table
			for _, c := range r.categories {
				if c.Name == n {
					id = c.ID
				}
			}
			return id, nil
		}
	}
	return 0, r.notFound(name)
}

func (r *Resolver) matching(pred func(category.Category) bool) []category.Category {
	var out []category.Category
	for _, c := range r.categories {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Resolver) notFound(name string) error {
	return &NotFoundError{Name: name, Suggestions: suggest(name, r.names, r.maxSuggestions)}
}
