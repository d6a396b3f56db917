// Package sniffer detects the layout of an import file: its delimiter and
// which header columns carry the transaction fields.
package sniffer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// Field is a logical transaction field that a header column can map to.
type Field string

const (
	FieldDate        Field = "date"
	FieldCategory    Field = "category"
	FieldSubcategory Field = "subcategory"
	FieldAmount      Field = "amount"
	FieldDescription Field = "description"
	FieldType        Field = "type"
)

// RequiredFields must all be present for an import to proceed.
var RequiredFields = []Field{FieldDate, FieldCategory, FieldAmount}

// headerSynonyms lists the accepted header texts per field, compared after trim and lower-case.
var headerSynonyms = []struct {
	field Field
	names []string
}{
	{FieldDate, []string{"date", "tanggal", "tgl"}},
	{FieldCategory, []string{"category", "kategori", "kat"}},
	{FieldSubcategory, []string{"sub category", "sub kategori", "subcategory", "subkategori"}},
	{FieldAmount, []string{"amount", "nominal", "jumlah", "nilai"}},
	{FieldDescription, []string{"description", "keterangan", "desc", "ket", "note", "catatan"}},
	{FieldType, []string{"type", "tipe", "jenis"}},
}

// ColumnMapping maps a logical field to a zero-based column index.
// It marshals to JSON as {"date":0,"category":1,...}.
type ColumnMapping map[Field]int

// Index returns the column for f and whether it is mapped.
func (m ColumnMapping) Index(f Field) (int, bool) {
	idx, ok := m[f]
	return idx, ok
}

// MissingColumnsError is returned when required fields cannot be found in the header row.
type MissingColumnsError struct {
	Missing []Field
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(names, ", "))
}

// MissingNames returns the missing fields as plain strings.
func (e *MissingColumnsError) MissingNames() []string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return names
}

// DetectColumns matches each header cell against the synonym sets. When two
// columns match the same field, the rightmost one wins.
func DetectColumns(headers []string) (ColumnMapping, error) {
	mapping := make(ColumnMapping)

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		if h == "" {
			continue
		}
		if f, ok := lookupField(h); ok {
			mapping[f] = i
		}
	}

	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := mapping[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Headers: headers}
	}

	return mapping, nil
}

func lookupField(header string) (Field, bool) {
	for _, s := range headerSynonyms {
		for _, name := range s.names {
			if header == name {
				return s.field, true
			}
		}
	}
	return "", false
}

// DetectDelimiter returns the most frequent candidate delimiter in the header
// line, or ',' when none occurs.
func DetectDelimiter(headerLine string) rune {
	delimiters := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestCount := 0
	for _, d := range delimiters {
		count := strings.Count(headerLine, string(d))
		if count > bestCount {
			bestCount = count
			bestDelimiter = d
		}
	}
	return bestDelimiter
}

// CleanLine strips a trailing carriage return and, on the first line, a UTF-8 BOM.
func CleanLine(line string, firstLine bool) string {
	line = strings.TrimRight(line, "\r")
	if firstLine {
		line = strings.TrimPrefix(line, "\uFEFF")
	}
	return line
}

// Fingerprint creates a stable hash of the header names, used to recognise repeat layouts in logs and archives.
func Fingerprint(headers []string) string {
	var normalized []string
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}
