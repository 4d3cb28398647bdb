package rules

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/csvio"
)

// parser.go walks a rule table grid with an explicit state machine instead
// of ad hoc row scanning, so malformed input degrades into diagnosable
// partial results.
//
// States:
//
//	readingAxes -> seeking -> readingWeightTable
//	                       -> readingMetalPriceTable
//	                       -> readingLaborTable
//	                       -> readingMarginTable
//	                       -> readingDiamondTable
//
// readingAxes ends when a row's leading cells match a known lookup-table
// header pair. Each table state ends at the first empty key/value pair and
// falls back to seeking, where only section headers (or bare diamond price
// rows) are recognized.

type parserState int

const (
	stateAxes parserState = iota
	stateSeeking
	stateWeightTable
	stateMetalPriceTable
	stateLaborTable
	stateMarginTable
	stateDiamondTable
)

// Fixed positional columns of the axis block. The center-present group
// occupies the first three columns; the no-center group starts after one
// spacer column.
const (
	colCenterMetal   = 0
	colCenterSize    = 1
	colCenterQuality = 2
	colNoCenterMetal = 4
	colNoCenterQual  = 5
)

// diamondShapes are the tokens that identify a diamond price table row by
// its first column.
var diamondShapes = map[string]bool{
	"round":    true,
	"princess": true,
	"oval":     true,
	"emerald":  true,
	"pear":     true,
	"marquise": true,
	"cushion":  true,
	"radiant":  true,
	"asscher":  true,
	"heart":    true,
	"baguette": true,
}

// IsDiamondShape reports whether the token names a known diamond shape.
func IsDiamondShape(token string) bool {
	return diamondShapes[normalizeKey(token)]
}

// ParseRuleSet parses a stones-bearing rule table (natural or lab-grown)
// from raw grid rows. The first row is treated as the axis header row.
// Missing regions produce empty tables and warnings, never an error.
func ParseRuleSet(name string, rows [][]string) *RuleSet {
	rs := &RuleSet{
		Name:          name,
		Weights:       WeightIndex{},
		MetalPrices:   MetalPriceTable{},
		Labor:         LaborTable{},
		DiamondPrices: DiamondPriceTable{},
	}
	if len(rows) < 2 {
		rs.warnf("%s: rule table has no data rows", name)
		return rs
	}

	state := stateAxes
	for _, row := range rows[1:] {
		if next, ok := classifySectionHeader(row); ok {
			state = next
			continue
		}

		switch state {
		case stateAxes:
			rs.readAxisRow(row)
		case stateWeightTable:
			state = rs.readWeightRow(row)
		case stateMetalPriceTable:
			state = rs.readMetalPriceRow(row)
		case stateLaborTable:
			state = rs.readLaborRow(row)
		case stateMarginTable:
			state = rs.readMarginRow(row)
		case stateDiamondTable, stateSeeking:
			// Diamond price rows are self-identifying by shape token, so
			// they are accepted in the seeking state as well.
			if !rs.readDiamondRow(row) && state == stateDiamondTable {
				state = stateSeeking
			}
		}
	}

	if len(rs.CenterCombinations) == 0 {
		rs.warnf("%s: no center-present axis combinations found", name)
	}
	if len(rs.NoCenterCombinations) == 0 {
		rs.warnf("%s: no no-center axis combinations found", name)
	}
	if len(rs.Weights) == 0 {
		rs.warnf("%s: weight index table missing", name)
	}
	if len(rs.MetalPrices) == 0 {
		rs.warnf("%s: metal price table missing", name)
	}
	if len(rs.Margins) == 0 {
		rs.warnf("%s: margin bracket table missing", name)
	}
	if len(rs.DiamondPrices) == 0 {
		rs.warnf("%s: diamond price table missing", name)
	}
	return rs
}

// classifySectionHeader inspects a row's leading cells for a known
// lookup-table header pair and returns the state that reads that table.
// A row whose value cell is numeric is data, not a header, even when its
// label cell contains a keyword ("Side Stone Labor", 2.5).
func classifySectionHeader(row []string) (parserState, bool) {
	c0 := csvio.CleanHeader(cell(row, 0))
	c1 := csvio.CleanHeader(cell(row, 1))
	if _, numeric := csvio.ParseNumber(cell(row, 1)); numeric {
		return 0, false
	}

	switch {
	case strings.Contains(c0, "metal") && strings.Contains(c1, "weight"):
		return stateWeightTable, true
	case strings.Contains(c0, "metal") && strings.Contains(c1, "price"):
		return stateMetalPriceTable, true
	case strings.Contains(c0, "labor") || strings.Contains(c1, "labor"):
		return stateLaborTable, true
	case strings.Contains(c0, "margin") || strings.Contains(c0, "cost range") ||
		strings.Contains(c1, "multiplier") || strings.Contains(c1, "margin"):
		return stateMarginTable, true
	case strings.Contains(c0, "shape") && (strings.Contains(c1, "size") || strings.Contains(c1, "carat") || strings.Contains(c1, "ct")):
		return stateDiamondTable, true
	}
	return 0, false
}

// readAxisRow expands one axis row into per-row combinations. A cell may
// carry several codes (space/comma/pipe separated); the row contributes the
// cartesian product of its own cell values only.
func (rs *RuleSet) readAxisRow(row []string) {
	metals := csvio.SplitCodes(cell(row, colCenterMetal))
	sizes := csvio.SplitCodes(cell(row, colCenterSize))
	quals := csvio.SplitCodes(cell(row, colCenterQuality))

	if len(metals) > 0 && len(sizes) > 0 && len(quals) > 0 {
		for _, m := range metals {
			for _, s := range sizes {
				for _, q := range quals {
					rs.CenterCombinations = append(rs.CenterCombinations, Combination{
						Metal:      m,
						CenterSize: s,
						Quality:    q,
					})
				}
			}
		}
		rs.CenterMetals = appendUnique(rs.CenterMetals, metals...)
		rs.CenterSizes = appendUnique(rs.CenterSizes, sizes...)
		rs.CenterQualities = appendUnique(rs.CenterQualities, quals...)
	}

	ncMetals := csvio.SplitCodes(cell(row, colNoCenterMetal))
	ncQuals := csvio.SplitCodes(cell(row, colNoCenterQual))

	if len(ncMetals) > 0 && len(ncQuals) > 0 {
		for _, m := range ncMetals {
			for _, q := range ncQuals {
				rs.NoCenterCombinations = append(rs.NoCenterCombinations, Combination{
					Metal:   m,
					Quality: q,
				})
			}
		}
		rs.NoCenterMetals = appendUnique(rs.NoCenterMetals, ncMetals...)
		rs.NoCenterQualities = appendUnique(rs.NoCenterQualities, ncQuals...)
	}
}

func (rs *RuleSet) readWeightRow(row []string) parserState {
	key := csvio.CleanCell(cell(row, 0))
	val, ok := csvio.ParseNumber(cell(row, 1))
	if key == "" || !ok {
		return stateSeeking
	}
	rs.Weights[normalizeKey(key)] = val
	return stateWeightTable
}

func (rs *RuleSet) readMetalPriceRow(row []string) parserState {
	key := csvio.CleanCell(cell(row, 0))
	val, ok := csvio.ParseNumber(cell(row, 1))
	if key == "" || !ok {
		return stateSeeking
	}
	rs.MetalPrices[normalizeKey(key)] = decimal.NewFromFloat(val)
	return stateMetalPriceTable
}

func (rs *RuleSet) readLaborRow(row []string) parserState {
	key := csvio.CleanCell(cell(row, 0))
	val, ok := csvio.ParseNumber(cell(row, 1))
	if key == "" || !ok {
		return stateSeeking
	}
	rs.Labor[normalizeKey(key)] = decimal.NewFromFloat(val)
	return stateLaborTable
}

func (rs *RuleSet) readMarginRow(row []string) parserState {
	rangeCell := csvio.CleanCell(cell(row, 0))
	mult, ok := csvio.ParseNumber(cell(row, 1))
	if rangeCell == "" || !ok {
		return stateSeeking
	}

	begin, end, ok := parseRange(rangeCell)
	if !ok {
		rs.warnf("%s: unreadable margin bracket %q", rs.Name, rangeCell)
		return stateMarginTable
	}

	b := MarginBracket{
		Begin:      decimal.NewFromFloat(begin),
		Multiplier: decimal.NewFromFloat(mult),
	}
	if end != nil {
		d := decimal.NewFromFloat(*end)
		b.End = &d
	}
	rs.Margins = append(rs.Margins, b)
	return stateMarginTable
}

// readDiamondRow parses one diamond price row: shape token, carat bracket,
// then (quality, price) cell pairs to the right. A bare numeric cell is
// accepted as a price with no quality, which is how lab-grown tables omit
// quality columns. Returns false if the row is not a diamond price row.
func (rs *RuleSet) readDiamondRow(row []string) bool {
	shape := csvio.CleanCell(cell(row, 0))
	if !IsDiamondShape(shape) {
		return false
	}

	min, max, ok := parseCaratBracket(cell(row, 1))
	if !ok {
		rs.warnf("%s: diamond row %q has unreadable carat bracket %q", rs.Name, shape, cell(row, 1))
		return true
	}

	found := false
	for c := 2; c < len(row); {
		cellVal := csvio.CleanCell(row[c])
		if cellVal == "" {
			c++
			continue
		}

		if price, numeric := csvio.ParseNumber(cellVal); numeric {
			// Price column without a preceding quality column.
			rs.DiamondPrices = append(rs.DiamondPrices, DiamondPrice{
				Shape:         shape,
				MinCarat:      min,
				MaxCarat:      max,
				PricePerCarat: decimal.NewFromFloat(price),
			})
			found = true
			c++
			continue
		}

		// Quality cell: the next numeric cell to its right is the price.
		if c+1 < len(row) {
			if price, numeric := csvio.ParseNumber(row[c+1]); numeric {
				rs.DiamondPrices = append(rs.DiamondPrices, DiamondPrice{
					Shape:         shape,
					MinCarat:      min,
					MaxCarat:      max,
					Quality:       cellVal,
					PricePerCarat: decimal.NewFromFloat(price),
				})
				found = true
				c += 2
				continue
			}
		}
		c++
	}

	if !found {
		rs.warnf("%s: diamond row %q has no price cells", rs.Name, shape)
	}
	return true
}

// parseCaratBracket reads a "N" or "N-M" carat bracket. A single value is a
// degenerate [N, N] bracket.
func parseCaratBracket(s string) (min, max float64, ok bool) {
	begin, end, ok := parseRange(s)
	if !ok {
		return 0, 0, false
	}
	if end == nil {
		return begin, begin, true
	}
	return begin, *end, true
}

// parseRange reads "N", "N-M", or "N+" strings. end is nil for open-ended
// ranges.
func parseRange(s string) (begin float64, end *float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil, false
	}

	if strings.HasSuffix(s, "+") {
		b, bok := csvio.ParseNumber(strings.TrimSuffix(s, "+"))
		return b, nil, bok
	}

	if i := strings.Index(s, "-"); i > 0 {
		b, bok := csvio.ParseNumber(s[:i])
		e, eok := csvio.ParseNumber(s[i+1:])
		if bok && eok {
			return b, &e, true
		}
		return 0, nil, false
	}

	b, bok := csvio.ParseNumber(s)
	return b, nil, bok
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		dup := false
		for _, d := range dst {
			if strings.EqualFold(d, v) {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, v)
		}
	}
	return dst
}
