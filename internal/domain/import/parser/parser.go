// Package parser turns raw import files into a grid of trimmed string cells
// and pulls transaction fields out of each data row.
package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/expense-tracker/internal/domain/import/sniffer"
)

// ErrUnsupportedFormat is returned for files that are neither delimited text nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Grid is a two-dimensional text table. Row 0 is the header.
type Grid [][]string

// Header returns the header row, or nil for an empty grid.
func (g Grid) Header() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// DataRows returns every row after the header.
func (g Grid) DataRows() [][]string {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}

// RawRecord holds the cells of one data row, keyed by logical field.
type RawRecord struct {
	Date        string
	Category    string
	Subcategory *string
	Amount      string
	Description *string
	Type        *string
}

// DisplayCategory is the name used for category lookup: the subcategory when present.
func (r RawRecord) DisplayCategory() string {
	if r.Subcategory != nil {
		return *r.Subcategory
	}
	return r.Category
}

// ReadCSV splits delimited text into a grid. Lines are split on "\n" with any
// trailing "\r" removed, whitespace-only lines are dropped, and the delimiter is
// detected once from the header line. Quoted fields cannot span lines.
func ReadCSV(data string) (Grid, error) {
	lines := strings.Split(data, "\n")

	var (
		grid      Grid
		delimiter rune
	)
	for i, line := range lines {
		line = sniffer.CleanLine(line, i == 0)
		if strings.TrimSpace(line) == "" {
			continue
		}
		if grid == nil {
			delimiter = sniffer.DetectDelimiter(line)
		}
		grid = append(grid, splitLine(line, delimiter))
	}

	return grid, nil
}

// splitLine parses one line with encoding/csv, falling back to a plain split
// when the line is not valid CSV even under lazy quoting.
func splitLine(line string, delimiter rune) []string {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	record, err := reader.Read()
	if err != nil {
		record = strings.Split(line, string(delimiter))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return record
}

// ReadFile picks the reader by file extension: .xlsx goes through excelize,
// everything else is treated as delimited text.
func ReadFile(filename string, r io.Reader) (Grid, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadExcel(r)
	case ".xls", ".pdf":
		return nil, ErrUnsupportedFormat
	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return ReadCSV(string(data))
	}
}

// Extract pulls the mapped fields from row. Unmapped fields and out-of-range
// indices yield empty values; Subcategory, Description and Type are nil when empty.
func Extract(row []string, m sniffer.ColumnMapping) RawRecord {
	return RawRecord{
		Date:        cell(row, m, sniffer.FieldDate),
		Category:    cell(row, m, sniffer.FieldCategory),
		Subcategory: optionalCell(row, m, sniffer.FieldSubcategory),
		Amount:      cell(row, m, sniffer.FieldAmount),
		Description: optionalCell(row, m, sniffer.FieldDescription),
		Type:        optionalCell(row, m, sniffer.FieldType),
	}
}

func cell(row []string, m sniffer.ColumnMapping, f sniffer.Field) string {
	idx, ok := m.Index(f)
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, m sniffer.ColumnMapping, f sniffer.Field) *string {
	v := cell(row, m, f)
	if v == "" {
		return nil
	}
	return &v
}
