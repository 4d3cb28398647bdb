// Package pricing derives sell and compare-at prices from a variant's total
// cost via bracketed margin lookup.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/rules"
)

// Provenance records which tier of the multiplier resolution chain applied.
type Provenance string

const (
	ProvenanceBracket     Provenance = "bracket"
	ProvenanceTypeDefault Provenance = "type_default"
	ProvenanceFallback    Provenance = "fallback"
)

// Default multipliers when no margin bracket contains the cost.
var (
	ringBraceletMultiplier = decimal.NewFromFloat(2.0)
	pendantMultiplier      = decimal.NewFromFloat(2.5)
	fallbackMultiplier     = decimal.NewFromFloat(2.5)

	sellPriceNudge  = decimal.NewFromFloat(0.01) // x.x9 price endings
	compareAtFactor = decimal.NewFromInt(4)
)

// Result is the priced outcome for one variant.
type Result struct {
	Cost         decimal.Decimal
	Multiplier   decimal.Decimal
	SellPrice    decimal.Decimal
	ComparePrice decimal.Decimal
	Provenance   Provenance
}

// Price resolves the multiplier and derives prices from cost.
//
// Resolution order: (1) the rule table's margin brackets, matched half-open
// [begin, end); (2) a category-keyed default (rings/bracelets 2.0, pendants
// 2.5, anything else 2.5); (3) a fallback constant when no rule table is
// available at all.
//
// sellPrice = cost * multiplier - 0.01; comparePrice = cost * 4, always.
func Price(cost decimal.Decimal, margins rules.MarginBrackets, category string) Result {
	mult, prov := resolveMultiplier(cost, margins, category)
	return Result{
		Cost:         cost.Round(2),
		Multiplier:   mult,
		SellPrice:    cost.Mul(mult).Sub(sellPriceNudge).Round(2),
		ComparePrice: cost.Mul(compareAtFactor).Round(2),
		Provenance:   prov,
	}
}

func resolveMultiplier(cost decimal.Decimal, margins rules.MarginBrackets, category string) (decimal.Decimal, Provenance) {
	if m, ok := margins.Match(cost); ok {
		return m, ProvenanceBracket
	}
	if margins == nil {
		return fallbackMultiplier, ProvenanceFallback
	}

	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "ring") || strings.Contains(c, "bracelet"):
		return ringBraceletMultiplier, ProvenanceTypeDefault
	case strings.Contains(c, "pendant"):
		return pendantMultiplier, ProvenanceTypeDefault
	default:
		return pendantMultiplier, ProvenanceTypeDefault
	}
}
