package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/rules"
)

func bracket(begin, end, mult float64) rules.MarginBracket {
	b := rules.MarginBracket{
		Begin:      decimal.NewFromFloat(begin),
		Multiplier: decimal.NewFromFloat(mult),
	}
	if end > 0 {
		e := decimal.NewFromFloat(end)
		b.End = &e
	}
	return b
}

func testMargins() rules.MarginBrackets {
	return rules.MarginBrackets{
		bracket(0, 100, 2.5),
		bracket(100, 500, 2.2),
		bracket(500, 0, 2.0),
	}
}

func TestPrice_BracketMatch(t *testing.T) {
	r := Price(decimal.NewFromInt(200), testMargins(), "Rings")

	if r.Provenance != ProvenanceBracket {
		t.Fatalf("provenance = %q, want %q", r.Provenance, ProvenanceBracket)
	}
	if want := "2.2"; !r.Multiplier.Equal(decimal.RequireFromString(want)) {
		t.Errorf("multiplier = %s, want %s", r.Multiplier, want)
	}
	// 200 x 2.2 - 0.01
	if want := "439.99"; !r.SellPrice.Equal(decimal.RequireFromString(want)) {
		t.Errorf("sell = %s, want %s", r.SellPrice, want)
	}
	// 200 x 4
	if want := "800.00"; !r.ComparePrice.Equal(decimal.RequireFromString(want)) {
		t.Errorf("compare = %s, want %s", r.ComparePrice, want)
	}
}

func TestPrice_BracketBoundaries(t *testing.T) {
	margins := testMargins()

	tests := []struct {
		cost string
		mult string
	}{
		{"0", "2.5"},
		{"99.99", "2.5"},
		{"100", "2.2"}, // half-open: 100 belongs to the next bracket
		{"499.99", "2.2"},
		{"500", "2.0"},
		{"100000", "2.0"}, // open-ended top bracket
	}

	for _, tt := range tests {
		t.Run(tt.cost, func(t *testing.T) {
			r := Price(decimal.RequireFromString(tt.cost), margins, "Rings")
			if !r.Multiplier.Equal(decimal.RequireFromString(tt.mult)) {
				t.Errorf("multiplier = %s, want %s", r.Multiplier, tt.mult)
			}
			if r.Provenance != ProvenanceBracket {
				t.Errorf("provenance = %q, want %q", r.Provenance, ProvenanceBracket)
			}
		})
	}
}

func TestPrice_CategoryDefaults(t *testing.T) {
	// Brackets that cover nothing at this cost force the category default.
	margins := rules.MarginBrackets{bracket(1000, 2000, 3.0)}

	tests := []struct {
		category string
		mult     string
	}{
		{"Rings", "2.0"},
		{"Engagement Ring", "2.0"},
		{"Bracelets", "2.0"},
		{"Pendants", "2.5"},
		{"Earrings", "2.5"},
		{"", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			r := Price(decimal.NewFromInt(50), margins, tt.category)
			if r.Provenance != ProvenanceTypeDefault {
				t.Fatalf("provenance = %q, want %q", r.Provenance, ProvenanceTypeDefault)
			}
			if !r.Multiplier.Equal(decimal.RequireFromString(tt.mult)) {
				t.Errorf("multiplier = %s, want %s", r.Multiplier, tt.mult)
			}
		})
	}
}

func TestPrice_FallbackWithoutMargins(t *testing.T) {
	r := Price(decimal.NewFromInt(300), nil, "Rings")

	if r.Provenance != ProvenanceFallback {
		t.Fatalf("provenance = %q, want %q", r.Provenance, ProvenanceFallback)
	}
	if want := "2.5"; !r.Multiplier.Equal(decimal.RequireFromString(want)) {
		t.Errorf("multiplier = %s, want %s", r.Multiplier, want)
	}
	if want := "749.99"; !r.SellPrice.Equal(decimal.RequireFromString(want)) {
		t.Errorf("sell = %s, want %s", r.SellPrice, want)
	}
}

func TestPrice_ZeroCost(t *testing.T) {
	r := Price(decimal.Zero, testMargins(), "Rings")

	// 0 x 2.5 - 0.01: the nudge still applies
	if want := "-0.01"; !r.SellPrice.Equal(decimal.RequireFromString(want)) {
		t.Errorf("sell = %s, want %s", r.SellPrice, want)
	}
	if !r.ComparePrice.IsZero() {
		t.Errorf("compare = %s, want 0", r.ComparePrice)
	}
}
