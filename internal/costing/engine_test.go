package costing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/catalog"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/rules"
)

func testBooks() *catalog.Rulebooks {
	return &catalog.Rulebooks{
		Natural: &rules.RuleSet{
			Name:        "natural",
			Weights:     rules.WeightIndex{"14": 1.1, "18": 1.2},
			MetalPrices: rules.MetalPriceTable{"14": decimal.NewFromInt(45), "18": decimal.NewFromInt(60)},
			Labor:       rules.LaborTable{},
			DiamondPrices: rules.DiamondPriceTable{
				{Shape: "Round", MinCarat: 0.5, MaxCarat: 1.0, Quality: "FG", PricePerCarat: decimal.NewFromInt(800)},
				{Shape: "Round", MinCarat: 1.0, MaxCarat: 2.0, Quality: "FG", PricePerCarat: decimal.NewFromInt(1000)},
			},
		},
		LabGrown: &rules.RuleSet{
			Name:        "labgrown",
			Weights:     rules.WeightIndex{"14": 1.1},
			MetalPrices: rules.MetalPriceTable{"14": decimal.NewFromInt(45)},
			Labor:       rules.LaborTable{},
			DiamondPrices: rules.DiamondPriceTable{
				{Shape: "Round", MinCarat: 0.5, MaxCarat: 2.0, PricePerCarat: decimal.NewFromInt(300)},
			},
		},
		NoStones: &rules.NoStonesRuleSet{
			Name:        "nostones",
			Metals:      []string{"14W", "PLT"},
			MetalPrices: rules.MetalPriceTable{"14": decimal.NewFromInt(40), "plt": decimal.NewFromInt(90)},
		},
	}
}

func record(fields map[string]string) *catalog.InputRecord {
	return &catalog.InputRecord{Fields: fields, Line: 2}
}

func centerSeed(fields map[string]string) *catalog.VariantSeed {
	return &catalog.VariantSeed{
		Handle:     "ring-r-1",
		CoreNumber: "R-1",
		Scenario:   catalog.ScenarioUniqueCenter,
		Rulebook:   catalog.RulebookNatural,
		Metal:      "14W",
		CenterSize: "1.0",
		Quality:    "FG",
		Record:     record(fields),
	}
}

func mustCost(t *testing.T, e *Engine, seed *catalog.VariantSeed) *Breakdown {
	t.Helper()
	b, err := e.Cost(seed)
	if err != nil {
		t.Fatalf("Cost() error = %v", err)
	}
	return b
}

func eq(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	w, _ := decimal.NewFromString(want)
	if !got.Equal(w) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestCost_WeightRoundsToHalfGram(t *testing.T) {
	e := NewEngine(testBooks())
	seed := centerSeed(map[string]string{
		"grams": "4.2", "category": "Rings", "subcategory": "Ring",
		"center shape": "Round",
	})

	b := mustCost(t, e, seed)

	// 4.2 x 1.1 = 4.62, rounded to the nearest 0.5
	if b.Grams != 4.5 {
		t.Errorf("grams = %v, want 4.5", b.Grams)
	}
	eq(t, "metal", b.Metal, "202.50") // 45/g x 4.5g
}

func TestCost_WeightDefaultsWhenMissing(t *testing.T) {
	e := NewEngine(testBooks())
	seed := centerSeed(map[string]string{"center shape": "Round"})

	b := mustCost(t, e, seed)
	// Default 5g x 1.1 = 5.5
	if b.Grams != 5.5 {
		t.Errorf("grams = %v, want 5.5", b.Grams)
	}
}

func TestCost_NoStonesKeepsBaseGrams(t *testing.T) {
	e := NewEngine(testBooks())
	seed := &catalog.VariantSeed{
		CoreNumber: "B-1",
		Scenario:   catalog.ScenarioNoStones,
		Rulebook:   catalog.RulebookNoStones,
		Metal:      "PLT",
		Record:     record(map[string]string{"grams": "5.1"}),
	}

	b := mustCost(t, e, seed)
	if b.Grams != 5.1 {
		t.Errorf("grams = %v, want 5.1 (no multiplier, no rounding)", b.Grams)
	}
	eq(t, "metal", b.Metal, "459.00") // 90/g x 5.1g from the no-stones price table
	if !b.CenterDiamond.IsZero() || !b.SideDiamond.IsZero() {
		t.Error("no-stones variant should have no diamond cost")
	}
}

func TestCost_CenterDiamond(t *testing.T) {
	e := NewEngine(testBooks())
	seed := centerSeed(map[string]string{
		"grams": "4.2", "center shape": "Round",
	})

	b := mustCost(t, e, seed)
	eq(t, "center diamond", b.CenterDiamond, "800.00") // 800/ct x 1.0ct
	if b.Details.CenterCarat != 1.0 {
		t.Errorf("center carat = %v, want 1.0", b.Details.CenterCarat)
	}
}

func TestCost_CenterCaratFromRecordFallback(t *testing.T) {
	e := NewEngine(testBooks())
	seed := centerSeed(map[string]string{
		"center shape": "Round",
		"center ct":    "0.75",
	})
	seed.CenterSize = "" // no rulebook size: fall back to the master row

	b := mustCost(t, e, seed)
	eq(t, "center diamond", b.CenterDiamond, "600.00") // 800/ct x 0.75ct
}

func TestCost_LookupErrors(t *testing.T) {
	e := NewEngine(testBooks())

	tests := []struct {
		name string
		seed *catalog.VariantSeed
		kind string
	}{
		{
			name: "missing shape",
			seed: centerSeed(map[string]string{"grams": "4"}),
			kind: "shape",
		},
		{
			name: "missing quality for natural",
			seed: func() *catalog.VariantSeed {
				s := centerSeed(map[string]string{"center shape": "Round"})
				s.Quality = ""
				return s
			}(),
			kind: "quality",
		},
		{
			name: "no carat bracket",
			seed: func() *catalog.VariantSeed {
				s := centerSeed(map[string]string{"center shape": "Round"})
				s.CenterSize = "3.0"
				return s
			}(),
			kind: "bracket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Cost(tt.seed)
			var le *LookupError
			if !errors.As(err, &le) {
				t.Fatalf("Cost() error = %v, want *LookupError", err)
			}
			if le.Kind != tt.kind {
				t.Errorf("kind = %q, want %q", le.Kind, tt.kind)
			}
			if le.CoreNumber != "R-1" {
				t.Errorf("core number = %q, want R-1", le.CoreNumber)
			}
		})
	}
}

func TestCost_LabGrownIgnoresQuality(t *testing.T) {
	e := NewEngine(testBooks())
	seed := &catalog.VariantSeed{
		CoreNumber: "R-2",
		Scenario:   catalog.ScenarioUniqueCenter,
		Rulebook:   catalog.RulebookLabGrown,
		Metal:      "14W",
		CenterSize: "1.0",
		Record: record(map[string]string{
			"grams": "4", "center shape": "Round",
		}),
	}

	b := mustCost(t, e, seed)
	eq(t, "center diamond", b.CenterDiamond, "300.00")
}

func TestCost_SideDiamondTiers(t *testing.T) {
	e := NewEngine(testBooks())

	t.Run("exact bracket", func(t *testing.T) {
		// total 1.5 - center 1.0 = 0.5 side, one stone of 0.5ct sits in
		// the 0.5-1.0 bracket
		seed := centerSeed(map[string]string{
			"center shape": "Round", "total ct": "1.5", "# of stones": "1",
		})
		b := mustCost(t, e, seed)
		if b.Details.SidePriceTier != TierExact {
			t.Fatalf("tier = %q, want %q", b.Details.SidePriceTier, TierExact)
		}
		eq(t, "side diamond", b.SideDiamond, "400.00") // 800/ct x 0.5ct
	})

	t.Run("shape fallback", func(t *testing.T) {
		// 10 stones of 0.05ct each: no bracket covers 0.05, so the first
		// entry for the shape applies
		seed := centerSeed(map[string]string{
			"center shape": "Round", "total ct": "1.5", "# of stones": "10",
		})
		b := mustCost(t, e, seed)
		if b.Details.SidePriceTier != TierShape {
			t.Fatalf("tier = %q, want %q", b.Details.SidePriceTier, TierShape)
		}
		eq(t, "side diamond", b.SideDiamond, "400.00")
	})

	t.Run("default rate", func(t *testing.T) {
		// Princess side stones are absent from the table entirely
		seed := centerSeed(map[string]string{
			"center shape": "Round", "side shape": "Princess",
			"total ct": "1.5", "# of stones": "10",
		})
		b := mustCost(t, e, seed)
		if b.Details.SidePriceTier != TierDefault {
			t.Fatalf("tier = %q, want %q", b.Details.SidePriceTier, TierDefault)
		}
		eq(t, "side diamond", b.SideDiamond, "75.00") // 150/ct x 0.5ct natural default
	})
}

func TestCost_SideCaratsFromPositions(t *testing.T) {
	e := NewEngine(testBooks())
	seed := centerSeed(map[string]string{
		"center shape": "Round",
		"side ct 1":    "0.25",
		"side ct 2":    "0.5",
	})

	b := mustCost(t, e, seed)
	if b.Details.SideCarats != 0.75 {
		t.Errorf("side carats = %v, want 0.75", b.Details.SideCarats)
	}
}

func TestCost_TotalCaratAloneIsNotSideCarats(t *testing.T) {
	e := NewEngine(testBooks())
	seed := &catalog.VariantSeed{
		Handle:     "band-r-2",
		CoreNumber: "R-2",
		Scenario:   catalog.ScenarioUniqueNoCenter,
		Rulebook:   catalog.RulebookNatural,
		Metal:      "14W",
		Quality:    "FG",
		Record:     record(map[string]string{"grams": "4.2", "total ct": "1.00"}),
	}

	// Without a center carat the total carat column alone says nothing
	// about side stones, so no side carats and no side diamond cost.
	b := mustCost(t, e, seed)
	if b.Details.SideCarats != 0 {
		t.Errorf("side carats = %v, want 0", b.Details.SideCarats)
	}
	eq(t, "side diamond", b.SideDiamond, "0")
}

func TestCost_Labor(t *testing.T) {
	e := NewEngine(testBooks())
	seed := centerSeed(map[string]string{
		"grams": "4.2", "center shape": "Round",
		"category": "Bracelets", "subcategory": "Bridal Bracelet",
		"total ct": "1.5", "# of stones": "12",
	})

	b := mustCost(t, e, seed)

	eq(t, "side labor", b.SideLabor, "30.00")    // 2.5/stone x 12
	eq(t, "center labor", b.CenterLabor, "50.00") // unique center only
	eq(t, "polish", b.Polish, "50.00")            // bridal rate
	eq(t, "bracelet fee", b.BraceletFee, "125.00")
	eq(t, "cad fee", b.CADFee, "20.00")
	eq(t, "fixed fee", b.FixedFee, "25.00")
	if !b.PendantFee.IsZero() {
		t.Errorf("pendant fee = %s, want 0", b.PendantFee)
	}
}

func TestCost_LaborTableOverrides(t *testing.T) {
	books := testBooks()
	books.Natural.Labor = rules.LaborTable{
		"side stone labor": decimal.NewFromInt(3),
		"polish":           decimal.NewFromInt(40),
		"cad":              decimal.Zero,
	}
	e := NewEngine(books)
	seed := centerSeed(map[string]string{
		"center shape": "Round", "# of stones": "4",
	})

	b := mustCost(t, e, seed)
	eq(t, "side labor", b.SideLabor, "12.00")
	eq(t, "polish", b.Polish, "40.00")
	eq(t, "cad fee", b.CADFee, "0.00")
}

func TestCost_TotalIsSumOfComponents(t *testing.T) {
	e := NewEngine(testBooks())
	seed := centerSeed(map[string]string{
		"grams": "4.2", "center shape": "Round",
		"total ct": "1.5", "# of stones": "1",
	})

	b := mustCost(t, e, seed)

	sum := b.CenterDiamond.
		Add(b.SideDiamond).
		Add(b.Metal).
		Add(b.CenterLabor).
		Add(b.SideLabor).
		Add(b.Polish).
		Add(b.BraceletFee).
		Add(b.PendantFee).
		Add(b.CADFee).
		Add(b.FixedFee)
	if !b.Total.Equal(sum) {
		t.Errorf("total = %s, want exact sum of components %s", b.Total, sum)
	}

	eq(t, "diamond cost", b.DiamondCost(), "1200.00") // 800 center + 400 side
}

func TestParseCarat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"1.0", 1.0, true},
		{"1.5ct", 1.5, true},
		{" 2.00 CT ", 2.0, true},
		{"", 0, false},
		{"big", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseCarat(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseCarat(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRoundToHalf(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{4.62, 4.5},
		{4.75, 5.0},
		{4.24, 4.0},
		{5.0, 5.0},
		{0.3, 0.5},
	}

	for _, tt := range tests {
		if got := roundToHalf(tt.input); got != tt.want {
			t.Errorf("roundToHalf(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
