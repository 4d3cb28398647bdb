// Package csvio provides shared tabular text handling for the conversion
// pipeline.
//
// These helpers deal with the messy reality of user-exported spreadsheet
// data:
//   - UTF-8 BOM from Windows exports
//   - Excel formula prefixes (="value")
//   - Currency symbols and thousand separators in numbers
//   - Ragged rows with inconsistent field counts
//
// All inputs are read fully into memory; the pipeline operates on one batch
// at a time and the files are small catalog exports, not streams.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// Read parses CSV content from r into rows of cells.
// Field counts are not enforced: rule tables are positional grids whose rows
// legitimately vary in width.
func Read(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(NewBOMSkippingReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return rows, nil
}

// ReadString parses CSV content from a string.
func ReadString(content string) ([][]string, error) {
	return Read(strings.NewReader(content))
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// CleanHeader normalizes a header cell for case-insensitive matching.
func CleanHeader(s string) string {
	return strings.ToLower(CleanCell(s))
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching. When a header repeats,
// the first occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := CleanHeader(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// RecordRow converts a data row to a lowercase-keyed field map using the
// header index. Cells beyond the header width are dropped.
func RecordRow(headerIdx HeaderIndex, row []string) map[string]string {
	rec := make(map[string]string, len(headerIdx))
	for key, pos := range headerIdx {
		if pos < len(row) {
			rec[key] = CleanCell(row[pos])
		}
	}
	return rec
}

// ParseNumber converts a string to a float64, tolerating currency symbols,
// thousands separators, and accounting-style negatives "(123.45)".
// Returns false for empty or non-numeric input.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// SplitCodes splits a rule-table cell that may carry several codes separated
// by spaces, commas, pipes, or slashes. Empty tokens are dropped.
func SplitCodes(cell string) []string {
	cell = CleanCell(cell)
	if cell == "" {
		return nil
	}

	fields := strings.FieldsFunc(cell, func(r rune) bool {
		switch r {
		case ' ', ',', '|', '/', '\t':
			return true
		}
		return false
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
