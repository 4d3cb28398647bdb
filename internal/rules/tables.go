package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

// tables.go holds the numeric lookup tables extracted from a rule table and
// their typed accessors. The key vocabularies (metal families, labor labels)
// are business-configured and open-ended, so tables stay open string-keyed
// maps; every read goes through an accessor with an explicit default rather
// than inline fallbacks scattered through cost logic.

// WeightIndex maps a metal family key to the multiplier applied to base
// grams when computing a stone-bearing variant's final weight.
type WeightIndex map[string]float64

// Multiplier returns the weight multiplier for a metal family, or 1 when the
// family is not configured.
func (w WeightIndex) Multiplier(family string) float64 {
	if m, ok := w[normalizeKey(family)]; ok && m > 0 {
		return m
	}
	return 1
}

// MetalPriceTable maps a metal family key to price per gram.
type MetalPriceTable map[string]decimal.Decimal

// DefaultMetalPricePerGram applies when a metal family is missing from the
// table.
var DefaultMetalPricePerGram = decimal.NewFromFloat(2.5)

// PricePerGram returns the price per gram for a metal family, falling back
// to DefaultMetalPricePerGram.
func (t MetalPriceTable) PricePerGram(family string) decimal.Decimal {
	if p, ok := t[normalizeKey(family)]; ok && p.IsPositive() {
		return p
	}
	return DefaultMetalPricePerGram
}

// LaborTable maps labor labels ("side stone labor", "polish", "cad", ...) to
// flat rates.
type LaborTable map[string]decimal.Decimal

// Rate returns the labor rate for a label, or def when the label is not
// configured. Lookup tolerates partial labels: "polish" matches a configured
// "polish labor" row.
func (t LaborTable) Rate(label string, def decimal.Decimal) decimal.Decimal {
	key := normalizeKey(label)
	if r, ok := t[key]; ok {
		return r
	}
	for k, r := range t {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return r
		}
	}
	return def
}

// MarginBracket maps a cost range to a sell-price multiplier. End is nil for
// an open-ended upper bound. Matching is half-open: [Begin, End).
type MarginBracket struct {
	Begin      decimal.Decimal
	End        *decimal.Decimal
	Multiplier decimal.Decimal
}

// Contains reports whether cost falls inside the bracket's [Begin, End)
// range.
func (b MarginBracket) Contains(cost decimal.Decimal) bool {
	if cost.LessThan(b.Begin) {
		return false
	}
	return b.End == nil || cost.LessThan(*b.End)
}

// MarginBrackets is the ordered bracket list from a rule table.
type MarginBrackets []MarginBracket

// Match returns the multiplier for the first bracket containing cost.
func (bs MarginBrackets) Match(cost decimal.Decimal) (decimal.Decimal, bool) {
	for _, b := range bs {
		if b.Contains(cost) {
			return b.Multiplier, true
		}
	}
	return decimal.Zero, false
}

// DiamondPrice is one entry of the diamond price table: price per carat for
// a (shape, carat bracket, quality) cell. Quality is empty for lab-grown
// tables where pricing ignores quality. Bracket matching is closed:
// [MinCarat, MaxCarat].
type DiamondPrice struct {
	Shape         string
	MinCarat      float64
	MaxCarat      float64
	Quality       string
	PricePerCarat decimal.Decimal
}

// DiamondPriceTable holds all parsed diamond price entries.
type DiamondPriceTable []DiamondPrice

// Find returns the price per carat for an exact (shape, carat-in-bracket,
// quality) match. matchQuality is false for lab-grown stones, where any
// quality cell for the shape and bracket applies.
func (t DiamondPriceTable) Find(shape string, carat float64, quality string, matchQuality bool) (decimal.Decimal, bool) {
	shape = normalizeKey(shape)
	quality = normalizeKey(quality)
	for _, e := range t {
		if normalizeKey(e.Shape) != shape {
			continue
		}
		if carat < e.MinCarat || carat > e.MaxCarat {
			continue
		}
		if matchQuality && normalizeKey(e.Quality) != quality {
			continue
		}
		return e.PricePerCarat, true
	}
	return decimal.Zero, false
}

// FindAnySize returns the first price for the shape regardless of carat
// bracket, still honoring quality for natural stones. Used as the second
// tier of the side-stone fallback chain.
func (t DiamondPriceTable) FindAnySize(shape, quality string, matchQuality bool) (decimal.Decimal, bool) {
	shape = normalizeKey(shape)
	quality = normalizeKey(quality)
	for _, e := range t {
		if normalizeKey(e.Shape) != shape {
			continue
		}
		if matchQuality && normalizeKey(e.Quality) != quality {
			continue
		}
		return e.PricePerCarat, true
	}
	return decimal.Zero, false
}

// normalizeKey lowercases and trims a lookup key.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
