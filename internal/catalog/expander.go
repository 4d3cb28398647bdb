package catalog

import (
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/rules"
)

// expander.go produces variant seeds from core groups and parsed rule sets.
//
// Expansion per scenario:
//   - UniqueCenter:   one seed per center-present combination of the group's
//     rulebook, all referencing the group's single record.
//   - UniqueNoCenter: one seed per no-center combination, single record.
//   - Repeating:      the no-center combination set repeated independently
//     for every record in the group.
//   - NoStones:       the flat metal list repeated for every record.

// Rulebooks bundles the three parsed rule tables for one batch.
type Rulebooks struct {
	Natural  *rules.RuleSet
	LabGrown *rules.RuleSet
	NoStones *rules.NoStonesRuleSet
}

// ForGroup returns the stones-bearing rule set for a group's rulebook, or
// nil when the rulebook is no-stones or unknown.
func (b *Rulebooks) ForGroup(g *CoreGroup) *rules.RuleSet {
	switch g.Rulebook {
	case RulebookNatural:
		return b.Natural
	case RulebookLabGrown:
		return b.LabGrown
	default:
		return nil
	}
}

// Expand produces the ordered variant seeds for one core group. A missing
// rulebook yields zero seeds; the caller surfaces the warning.
func Expand(g *CoreGroup, books *Rulebooks) []*VariantSeed {
	switch g.Scenario {
	case ScenarioUniqueCenter:
		rs := books.ForGroup(g)
		if rs == nil {
			return nil
		}
		return expandCombinations(g, g.Records[:1], rs.CenterCombinations)

	case ScenarioUniqueNoCenter:
		rs := books.ForGroup(g)
		if rs == nil {
			return nil
		}
		return expandCombinations(g, g.Records[:1], rs.NoCenterCombinations)

	case ScenarioRepeating:
		rs := books.ForGroup(g)
		if rs == nil {
			return nil
		}
		return expandCombinations(g, g.Records, rs.NoCenterCombinations)

	case ScenarioNoStones:
		if books.NoStones == nil {
			return nil
		}
		var seeds []*VariantSeed
		for _, rec := range g.Records {
			for _, metal := range books.NoStones.Metals {
				seeds = append(seeds, newSeed(g, rec, rules.Combination{Metal: metal}))
			}
		}
		return seeds
	}
	return nil
}

// ExpectedVariantCount returns the seed count Expand will produce for a
// group, for validation and reporting.
func ExpectedVariantCount(g *CoreGroup, books *Rulebooks) int {
	switch g.Scenario {
	case ScenarioUniqueCenter:
		if rs := books.ForGroup(g); rs != nil {
			return len(rs.CenterCombinations)
		}
	case ScenarioUniqueNoCenter:
		if rs := books.ForGroup(g); rs != nil {
			return len(rs.NoCenterCombinations)
		}
	case ScenarioRepeating:
		if rs := books.ForGroup(g); rs != nil {
			return len(g.Records) * len(rs.NoCenterCombinations)
		}
	case ScenarioNoStones:
		if books.NoStones != nil {
			return len(g.Records) * len(books.NoStones.Metals)
		}
	}
	return 0
}

func expandCombinations(g *CoreGroup, recs []*InputRecord, combos []rules.Combination) []*VariantSeed {
	seeds := make([]*VariantSeed, 0, len(recs)*len(combos))
	for _, rec := range recs {
		for _, c := range combos {
			seeds = append(seeds, newSeed(g, rec, c))
		}
	}
	return seeds
}

func newSeed(g *CoreGroup, rec *InputRecord, c rules.Combination) *VariantSeed {
	return &VariantSeed{
		Handle:     MakeHandle(rec.Get(AliasSubcategory...), g.CoreNumber),
		CoreNumber: g.CoreNumber,
		Scenario:   g.Scenario,
		Rulebook:   g.Rulebook,
		Metal:      c.Metal,
		CenterSize: c.CenterSize,
		Quality:    c.Quality,
		Record:     rec,
	}
}
