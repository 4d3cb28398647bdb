package rules

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/csvio"
)

// Plausible per-gram price range used by the value-shape heuristic when the
// no-stones price column cannot be located by header name.
const (
	minPlausiblePricePerGram = 0.1
	maxPlausiblePricePerGram = 1000
)

// ParseNoStonesRuleSet parses the no-stones rule table: a metal code column
// plus an optional metal price column.
//
// The metal column is located by header substring. The price column is
// located by header substring when possible; when the header is ambiguous or
// absent, the parser falls back to a value-shape heuristic and picks the
// first column whose data cells are mostly numeric in a plausible per-gram
// price range.
func ParseNoStonesRuleSet(name string, rows [][]string) *NoStonesRuleSet {
	rs := &NoStonesRuleSet{
		Name:        name,
		MetalPrices: MetalPriceTable{},
	}
	if len(rows) < 2 {
		rs.warnf("%s: rule table has no data rows", name)
		return rs
	}

	header := rows[0]
	data := rows[1:]

	metalCol := findColumn(header, "metal")
	if metalCol < 0 {
		metalCol = 0
		rs.warnf("%s: no metal column header found, assuming first column", name)
	}

	priceCol := findColumn(header, "price")
	if priceCol < 0 || priceCol == metalCol {
		priceCol = guessPriceColumn(data, metalCol)
	}

	for _, row := range data {
		code := csvio.CleanCell(cell(row, metalCol))
		if code == "" {
			break
		}

		for _, m := range csvio.SplitCodes(code) {
			rs.Metals = append(rs.Metals, m)
		}

		if priceCol >= 0 {
			if price, ok := csvio.ParseNumber(cell(row, priceCol)); ok {
				for _, m := range csvio.SplitCodes(code) {
					rs.MetalPrices[normalizeKey(metalFamilyKey(m))] = decimal.NewFromFloat(price)
				}
			}
		}
	}

	if len(rs.Metals) == 0 {
		rs.warnf("%s: no metal codes found", name)
	}
	if priceCol < 0 {
		rs.warnf("%s: no metal price column found", name)
	}
	return rs
}

// findColumn returns the first header column whose name contains the given
// substring (case-insensitive), or -1.
func findColumn(header []string, substr string) int {
	for i, h := range header {
		if strings.Contains(csvio.CleanHeader(h), substr) {
			return i
		}
	}
	return -1
}

// guessPriceColumn picks the first column (other than metalCol) where more
// than half of the non-empty cells parse as numbers inside the plausible
// price range. Returns -1 when no column qualifies.
func guessPriceColumn(data [][]string, metalCol int) int {
	width := 0
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}

	for col := 0; col < width; col++ {
		if col == metalCol {
			continue
		}
		nonEmpty, plausible := 0, 0
		for _, row := range data {
			v := csvio.CleanCell(cell(row, col))
			if v == "" {
				continue
			}
			nonEmpty++
			if f, ok := csvio.ParseNumber(v); ok && f >= minPlausiblePricePerGram && f <= maxPlausiblePricePerGram {
				plausible++
			}
		}
		if nonEmpty > 0 && plausible*2 > nonEmpty {
			return col
		}
	}
	return -1
}

// metalFamilyKey mirrors the family reduction used by the costing engine:
// leading digits for karat golds, the whole code otherwise.
func metalFamilyKey(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	digits := ""
	for _, r := range code {
		if r < '0' || r > '9' {
			break
		}
		digits += string(r)
	}
	if digits != "" {
		return digits
	}
	return code
}
