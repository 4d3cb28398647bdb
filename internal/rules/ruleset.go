// Package rules parses the semi-structured rule tables that govern variant
// expansion and costing.
//
// A rule table is a spreadsheet-shaped grid, not a strict schema: the
// combinatorial axis columns sit at fixed positions at the top-left, and the
// numeric lookup tables (weight index, metal prices, labor, margins, diamond
// prices) appear further down, located by case-insensitive header substrings.
// Parsing is best-effort: a missing region yields an empty table plus a
// recorded warning, never an error.
package rules

import "fmt"

// Combination is one concrete axis combination recorded from a single rule
// table row. CenterSize is empty for no-center combinations.
type Combination struct {
	Metal      string
	CenterSize string
	Quality    string
}

// RuleSet is the parsed form of a stones-bearing rule table (natural or
// lab-grown).
//
// CenterCombinations and NoCenterCombinations are the actual per-row
// products observed while parsing; every entry originated from a single rule
// table row. The axis lists are the deduplicated unions, kept only for
// display and counting.
type RuleSet struct {
	Name string

	CenterMetals    []string
	CenterSizes     []string
	CenterQualities []string

	NoCenterMetals    []string
	NoCenterQualities []string

	CenterCombinations   []Combination
	NoCenterCombinations []Combination

	Weights       WeightIndex
	MetalPrices   MetalPriceTable
	Labor         LaborTable
	Margins       MarginBrackets
	DiamondPrices DiamondPriceTable

	Warnings []string
}

// NoStonesRuleSet is the parsed form of the no-stones rule table: a flat
// metal list plus an optional metal price table.
type NoStonesRuleSet struct {
	Name        string
	Metals      []string
	MetalPrices MetalPriceTable
	Warnings    []string
}

func (rs *RuleSet) warnf(format string, args ...any) {
	rs.Warnings = append(rs.Warnings, fmt.Sprintf(format, args...))
}

func (rs *NoStonesRuleSet) warnf(format string, args ...any) {
	rs.Warnings = append(rs.Warnings, fmt.Sprintf(format, args...))
}
