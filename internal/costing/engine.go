// Package costing computes the itemized cost breakdown for each variant
// seed. All money values are shopspring decimals rounded to 2 places at
// computation time; totals are exact sums of the rounded components.
package costing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/catalog"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/rules"
)

// Labor labels accepted in the rule table's labor lookup. Rates found under
// these labels override the built-in defaults.
const (
	LaborSideStone   = "side stone labor"
	LaborCenterStone = "center stone labor"
	LaborPolish      = "polish"
	LaborBracelet    = "bracelet"
	LaborPendant     = "pendant"
	LaborCAD         = "cad"
	LaborFixed       = "fixed"
)

// Built-in defaults, overridable via the rule table labor lookup.
var (
	defaultBaseGrams       = 5.0
	defaultSideLaborRate   = decimal.NewFromFloat(2.5) // per stone
	defaultCenterLaborRate = decimal.NewFromInt(50)
	defaultPolishFee       = decimal.NewFromInt(25)
	bridalPolishFee        = decimal.NewFromInt(50)
	defaultBraceletFee     = decimal.NewFromInt(125)
	defaultPendantFee      = decimal.NewFromInt(80)
	defaultCADFee          = decimal.NewFromInt(20)
	defaultFixedFee        = decimal.NewFromInt(25)

	defaultNaturalSideRate  = decimal.NewFromInt(150) // per carat
	defaultLabGrownSideRate = decimal.NewFromInt(100) // per carat
)

// sideShapeAliases are the accepted side-stone shape column names. The
// center shape is never inferred from these.
var sideShapeAliases = []string{"side shape", "side stone shape", "side stones shape"}

// PriceTier records which tier of the side-stone fallback chain produced a
// price, for auditability.
type PriceTier string

const (
	TierExact   PriceTier = "exact"
	TierShape   PriceTier = "shape"
	TierDefault PriceTier = "default"
)

// Details captures every intermediate of a cost computation.
type Details struct {
	BaseGrams        float64
	WeightMultiplier float64
	MetalFamily      string

	CenterShape         string
	CenterCarat         float64
	CenterPricePerCarat decimal.Decimal

	SideShape         string
	SideCarats        float64
	SidePricePerCarat decimal.Decimal
	SidePriceTier     PriceTier
	StoneCount        int

	IsBridal   bool
	IsBracelet bool
	IsPendant  bool
}

// Breakdown is the itemized cost result for one variant seed.
type Breakdown struct {
	CenterDiamond decimal.Decimal
	SideDiamond   decimal.Decimal
	Metal         decimal.Decimal
	CenterLabor   decimal.Decimal
	SideLabor     decimal.Decimal
	Polish        decimal.Decimal
	BraceletFee   decimal.Decimal
	PendantFee    decimal.Decimal
	CADFee        decimal.Decimal
	FixedFee      decimal.Decimal
	Total         decimal.Decimal
	Grams         float64
	Details       Details
}

// DiamondCost is the combined stone cost, as exported in the Diamond Cost
// column.
func (b *Breakdown) DiamondCost() decimal.Decimal {
	return b.CenterDiamond.Add(b.SideDiamond)
}

// Engine computes cost breakdowns against one batch's rule sets.
type Engine struct {
	Books *catalog.Rulebooks
}

// NewEngine creates a cost engine over the batch rulebooks.
func NewEngine(books *catalog.Rulebooks) *Engine {
	return &Engine{Books: books}
}

// Cost computes the full breakdown for a variant seed. A *LookupError is
// fatal for the variant only; the caller skips the variant and continues
// the batch.
func (e *Engine) Cost(seed *catalog.VariantSeed) (*Breakdown, error) {
	b := &Breakdown{}
	rec := seed.Record
	rs := e.ruleSet(seed)

	category := strings.ToLower(rec.Get(catalog.AliasCategory...))
	subcategory := strings.ToLower(rec.Get(catalog.AliasSubcategory...))
	b.Details.IsBridal = strings.Contains(subcategory, "bridal")
	b.Details.IsBracelet = strings.Contains(category, "bracelet")
	b.Details.IsPendant = strings.Contains(category, "pendant")

	e.costWeight(seed, rs, b)
	e.costMetal(seed, rs, b)

	if seed.Scenario != catalog.ScenarioNoStones {
		if err := e.costCenterDiamond(seed, rs, b); err != nil {
			return nil, err
		}
		e.costSideDiamond(seed, rs, b)
	}

	e.costLabor(seed, rs, b)

	b.Total = b.CenterDiamond.
		Add(b.SideDiamond).
		Add(b.Metal).
		Add(b.CenterLabor).
		Add(b.SideLabor).
		Add(b.Polish).
		Add(b.BraceletFee).
		Add(b.PendantFee).
		Add(b.CADFee).
		Add(b.FixedFee)
	return b, nil
}

func (e *Engine) ruleSet(seed *catalog.VariantSeed) *rules.RuleSet {
	switch seed.Rulebook {
	case catalog.RulebookNatural:
		return e.Books.Natural
	case catalog.RulebookLabGrown:
		return e.Books.LabGrown
	default:
		return nil
	}
}

// costWeight computes the variant's final grams: base grams from the master
// row (default 5), multiplied by the metal-family weight multiplier for
// stone-bearing variants and rounded to the nearest 0.5 g. No-stones
// variants keep base grams unmultiplied.
func (e *Engine) costWeight(seed *catalog.VariantSeed, rs *rules.RuleSet, b *Breakdown) {
	base, ok := seed.Record.GetNumber(catalog.AliasGrams...)
	if !ok || base <= 0 {
		base = defaultBaseGrams
	}
	b.Details.BaseGrams = base
	b.Details.MetalFamily = catalog.MetalFamily(seed.Metal)

	if seed.Scenario == catalog.ScenarioNoStones || rs == nil {
		b.Details.WeightMultiplier = 1
		b.Grams = base
		return
	}

	mult := rs.Weights.Multiplier(b.Details.MetalFamily)
	b.Details.WeightMultiplier = mult
	b.Grams = roundToHalf(base * mult)
}

func (e *Engine) costMetal(seed *catalog.VariantSeed, rs *rules.RuleSet, b *Breakdown) {
	var table rules.MetalPriceTable
	if rs != nil {
		table = rs.MetalPrices
	} else if e.Books.NoStones != nil {
		table = e.Books.NoStones.MetalPrices
	}

	perGram := table.PricePerGram(b.Details.MetalFamily)
	b.Metal = perGram.Mul(decimal.NewFromFloat(b.Grams)).Round(2)
}

// costCenterDiamond prices the center stone. The carat comes preferentially
// from the seed's rulebook-assigned center size, falling back to the master
// row. The shape must resolve from the master row; it is never inferred from
// the side-stone shape. Missing shape, missing quality for natural stones,
// or no matching carat bracket are fatal for the variant.
func (e *Engine) costCenterDiamond(seed *catalog.VariantSeed, rs *rules.RuleSet, b *Breakdown) error {
	carat, ok := parseCarat(seed.CenterSize)
	if !ok {
		carat, ok = seed.Record.GetNumber(catalog.AliasCenterCt...)
	}
	if !ok || carat <= 0 {
		return nil // no center stone on this variant
	}

	natural := seed.Rulebook == catalog.RulebookNatural
	stoneType := string(seed.Rulebook)

	shape := seed.Record.Get(catalog.AliasShape...)
	if shape == "" {
		return &LookupError{Kind: "shape", StoneType: stoneType, Carat: carat, CoreNumber: seed.CoreNumber}
	}

	quality := seed.Quality
	if quality == "" {
		quality = seed.Record.Get(catalog.AliasQuality...)
	}
	if natural && quality == "" {
		return &LookupError{Kind: "quality", StoneType: stoneType, Shape: shape, Carat: carat, CoreNumber: seed.CoreNumber}
	}

	if rs == nil {
		return &LookupError{Kind: "bracket", StoneType: stoneType, Shape: shape, Carat: carat, Quality: quality, CoreNumber: seed.CoreNumber}
	}

	perCarat, found := rs.DiamondPrices.Find(shape, carat, quality, natural)
	if !found {
		return &LookupError{Kind: "bracket", StoneType: stoneType, Shape: shape, Carat: carat, Quality: quality, CoreNumber: seed.CoreNumber}
	}

	b.Details.CenterShape = shape
	b.Details.CenterCarat = carat
	b.Details.CenterPricePerCarat = perCarat
	b.CenterDiamond = perCarat.Mul(decimal.NewFromFloat(carat)).Round(2)
	return nil
}

// costSideDiamond prices the side stones with the three-tier fallback:
// exact (shape, bracket, quality) match, then same shape ignoring size,
// then the hardcoded per-carat default. Side stones are typically small and
// rule tables do not enumerate every bracket, so a miss is never fatal.
func (e *Engine) costSideDiamond(seed *catalog.VariantSeed, rs *rules.RuleSet, b *Breakdown) {
	carats := e.sideCarats(seed, b.Details.CenterCarat)
	if carats <= 0 {
		return
	}
	b.Details.SideCarats = carats

	natural := seed.Rulebook == catalog.RulebookNatural

	shape := seed.Record.Get(sideShapeAliases...)
	if shape == "" {
		shape = "Round"
	}
	b.Details.SideShape = shape

	quality := seed.Quality
	if quality == "" {
		quality = seed.Record.Get(catalog.AliasQuality...)
	}

	// Bracket lookup keys off the average per-stone size when a count is
	// known, since the table brackets individual stones.
	perStone := carats
	if n := e.stoneCount(seed); n > 0 {
		perStone = carats / float64(n)
	}

	var perCarat decimal.Decimal
	tier := TierDefault
	if rs != nil {
		if p, found := rs.DiamondPrices.Find(shape, perStone, quality, natural); found {
			perCarat, tier = p, TierExact
		} else if p, found := rs.DiamondPrices.FindAnySize(shape, quality, natural); found {
			perCarat, tier = p, TierShape
		}
	}
	if tier == TierDefault {
		if natural {
			perCarat = defaultNaturalSideRate
		} else {
			perCarat = defaultLabGrownSideRate
		}
	}

	b.Details.SidePricePerCarat = perCarat
	b.Details.SidePriceTier = tier
	b.SideDiamond = perCarat.Mul(decimal.NewFromFloat(carats)).Round(2)
}

// sideCarats computes total side carats: (total - center) when both are
// available and positive, else the sum of the per-position side carat
// columns.
func (e *Engine) sideCarats(seed *catalog.VariantSeed, centerCarat float64) float64 {
	total, hasTotal := seed.Record.GetNumber(catalog.AliasTotalCt...)
	if hasTotal && centerCarat > 0 {
		if diff := total - centerCarat; diff > 0 {
			return diff
		}
	}

	sum := 0.0
	for i := 1; i <= catalog.MaxSidePositions; i++ {
		if ct, ok := seed.Record.GetNumber(catalog.SideCaratAliases(i)...); ok && ct > 0 {
			sum += ct
		}
	}
	return sum
}

// stoneCount sums the per-position stone counts, falling back to the total
// stone count column.
func (e *Engine) stoneCount(seed *catalog.VariantSeed) int {
	sum := 0
	for i := 1; i <= catalog.MaxSidePositions; i++ {
		if n, ok := seed.Record.GetNumber(catalog.SideCountAliases(i)...); ok && n > 0 {
			sum += int(n)
		}
	}
	if sum == 0 {
		if n, ok := seed.Record.GetNumber(catalog.AliasStoneCount...); ok && n > 0 {
			sum = int(n)
		}
	}
	return sum
}

// costLabor fills in the labor and fixed fee components. Every rate is
// overridable via the rule table labor lookup.
func (e *Engine) costLabor(seed *catalog.VariantSeed, rs *rules.RuleSet, b *Breakdown) {
	var labor rules.LaborTable
	if rs != nil {
		labor = rs.Labor
	}

	if n := e.stoneCount(seed); n > 0 && seed.Scenario != catalog.ScenarioNoStones {
		b.Details.StoneCount = n
		rate := labor.Rate(LaborSideStone, defaultSideLaborRate)
		b.SideLabor = rate.Mul(decimal.NewFromInt(int64(n))).Round(2)
	}

	if seed.Scenario == catalog.ScenarioUniqueCenter {
		b.CenterLabor = labor.Rate(LaborCenterStone, defaultCenterLaborRate).Round(2)
	}

	polish := defaultPolishFee
	if b.Details.IsBridal {
		polish = bridalPolishFee
	}
	b.Polish = labor.Rate(LaborPolish, polish).Round(2)

	if b.Details.IsBracelet {
		b.BraceletFee = labor.Rate(LaborBracelet, defaultBraceletFee).Round(2)
	}
	if b.Details.IsPendant {
		b.PendantFee = labor.Rate(LaborPendant, defaultPendantFee).Round(2)
	}

	b.CADFee = labor.Rate(LaborCAD, defaultCADFee).Round(2)
	b.FixedFee = labor.Rate(LaborFixed, defaultFixedFee).Round(2)
}

// parseCarat reads a rulebook center size cell ("1.00", "1.5ct").
func parseCarat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "ct")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	v, _ := f.Float64()
	return v, true
}

// roundToHalf rounds grams to the nearest 0.5.
func roundToHalf(g float64) float64 {
	return math.Round(g*2) / 2
}
