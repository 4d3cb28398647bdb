package catalog

import "strings"

// Scenario determines which expansion algorithm and cost rules apply to a
// core group.
type Scenario string

const (
	ScenarioUniqueCenter   Scenario = "unique_center"
	ScenarioUniqueNoCenter Scenario = "unique_no_center"
	ScenarioRepeating      Scenario = "repeating"
	ScenarioNoStones       Scenario = "no_stones"
)

// Rulebook identifies which of the three rule tables governs a core group.
type Rulebook string

const (
	RulebookNatural  Rulebook = "natural"
	RulebookLabGrown Rulebook = "labgrown"
	RulebookNoStones Rulebook = "nostones"
	RulebookUnknown  Rulebook = "unknown"
)

// ResolveRulebook classifies a diamond-type string into one of the three
// known rulebooks. Matching is a case-insensitive substring check. An empty
// type is treated as no-stones. Anything else is RulebookUnknown.
func ResolveRulebook(diamondType string) Rulebook {
	t := strings.ToLower(strings.TrimSpace(diamondType))
	switch {
	case t == "" || strings.Contains(t, "no stones") || strings.Contains(t, "nostones"):
		return RulebookNoStones
	case strings.Contains(t, "natural"):
		return RulebookNatural
	case strings.Contains(t, "labgrown") || strings.Contains(t, "lab grown") || strings.Contains(t, "lab-grown"):
		return RulebookLabGrown
	default:
		return RulebookUnknown
	}
}

// CoreGroup is an ordered run of master records sharing one core number.
type CoreGroup struct {
	CoreNumber  string
	DiamondType string
	Scenario    Scenario
	Rulebook    Rulebook
	Records     []*InputRecord
}

// VariantSeed is one concrete (metal, center, quality) combination to be
// priced and exported as a row. Record points back to the originating master
// record; many seeds may share one record.
type VariantSeed struct {
	Handle     string
	CoreNumber string
	Scenario   Scenario
	Rulebook   Rulebook
	Metal      string
	CenterSize string // empty unless ScenarioUniqueCenter
	Quality    string // empty for ScenarioNoStones
	Record     *InputRecord
}

// MakeHandle derives the export grouping key for a product:
// "{subcategory}-{core}" lowercased with spaces collapsed to hyphens.
func MakeHandle(subcategory, coreNumber string) string {
	h := strings.TrimSpace(subcategory) + "-" + strings.TrimSpace(coreNumber)
	h = strings.ToLower(h)
	h = strings.Join(strings.Fields(h), "-")
	return h
}

// CleanCoreNumber normalizes a core number for use in SKUs: uppercased with
// internal whitespace removed.
func CleanCoreNumber(core string) string {
	core = strings.ToUpper(strings.TrimSpace(core))
	return strings.Join(strings.Fields(core), "")
}
