package classifier

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// Keywords lists the substrings that imply a transaction type.
type Keywords struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// DefaultKeywords returns the embedded keyword lists.
func DefaultKeywords() Keywords {
	kw, err := ParseKeywords(defaultKeywordsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded keywords.yaml: %v", err))
	}
	return kw
}

// LoadKeywords reads a keyword file. An empty path yields the defaults.
func LoadKeywords(path string) (Keywords, error) {
	if path == "" {
		return DefaultKeywords(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("read keywords file: %w", err)
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes YAML keyword lists, lower-casing and dropping blanks.
func ParseKeywords(data []byte) (Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, fmt.Errorf("parse keywords: %w", err)
	}
	kw.Income = normalize(kw.Income)
	kw.Expense = normalize(kw.Expense)
	if len(kw.Income) == 0 && len(kw.Expense) == 0 {
		return Keywords{}, errors.New("parse keywords: no keywords defined")
	}
	return kw, nil
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
