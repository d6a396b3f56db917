// Package classifier decides whether an imported row is income or expense.
package classifier

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/expense-tracker/internal/domain/category"
)

// Source records which rule produced a resolution.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceKeyword  Source = "keyword"
	SourceDefault  Source = "default"
)

var explicitTypes = map[string]category.Type{
	"income":      category.TypeIncome,
	"pemasukan":   category.TypeIncome,
	"pendapatan":  category.TypeIncome,
	"masuk":       category.TypeIncome,
	"expense":     category.TypeExpense,
	"pengeluaran": category.TypeExpense,
	"keluar":      category.TypeExpense,
	"belanja":     category.TypeExpense,
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Type    category.Type
	Source  Source
	Keyword string // set when Source is SourceKeyword
}

// Classifier resolves transaction types. It is immutable and safe for concurrent use.
type Classifier struct {
	matcher  *ahocorasick.Matcher
	patterns []string
	incomeN  int // patterns[:incomeN] are income keywords
}

// New builds a classifier from keyword lists. Income keywords take
// precedence over expense keywords; a word present in both counts as income.
func New(kw Keywords) *Classifier {
	seen := make(map[string]bool)
	var patterns []string
	add := func(words []string) {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" || seen[w] {
				continue
			}
			seen[w] = true
			patterns = append(patterns, w)
		}
	}

	add(kw.Income)
	incomeN := len(patterns)
	add(kw.Expense)

	c := &Classifier{patterns: patterns, incomeN: incomeN}
	if len(patterns) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(patterns)
	}
	return c
}

// NewDefault builds a classifier from the embedded keywords.
func NewDefault() *Classifier {
	return New(DefaultKeywords())
}

// Resolve picks the type from the explicit cell, then keywords in the
// category names, then defaults to expense. It never fails.
func (c *Classifier) Resolve(explicitType *string, categoryName string, subcategory *string) Resolution {
	if explicitType != nil {
		if t, ok := explicitTypes[strings.ToLower(strings.TrimSpace(*explicitType))]; ok {
			return Resolution{Type: t, Source: SourceExplicit}
		}
	}

	text := categoryName
	if subcategory != nil {
		text += " " + *subcategory
	}

	if idx, ok := c.firstKeyword(strings.ToLower(text)); ok {
		t := category.TypeExpense
		if idx < c.incomeN {
			t = category.TypeIncome
		}
		return Resolution{Type: t, Source: SourceKeyword, Keyword: c.patterns[idx]}
	}

	return Resolution{Type: category.TypeExpense, Source: SourceDefault}
}

// firstKeyword returns the lowest pattern index found in text.
func (c *Classifier) firstKeyword(text string) (int, bool) {
	if c.matcher == nil || text == "" {
		return 0, false
	}
	hits := c.matcher.MatchThreadSafe([]byte(text))
	if len(hits) == 0 {
		return 0, false
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h < best {
			best = h
		}
	}
	return best, true
}
