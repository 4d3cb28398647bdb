// Package catalog defines the domain model for the conversion pipeline:
// master input records, core groups, expansion scenarios, and variant seeds.
// This package has no I/O dependencies and can be exercised by any caller.
package catalog

import (
	"fmt"
	"strings"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/csvio"
)

// InputRecord is one master data row. Fields are keyed by lowercased header
// name; business logic reads them through ordered alias lists so the master
// file can use any of the accepted column spellings.
type InputRecord struct {
	Fields map[string]string
	Line   int // 1-based CSV line number, for diagnostics
}

// Get returns the first non-empty value among the given column aliases.
// Alias matching is case-insensitive.
func (r *InputRecord) Get(aliases ...string) string {
	for _, a := range aliases {
		if v := r.Fields[strings.ToLower(a)]; v != "" {
			return v
		}
	}
	return ""
}

// GetNumber resolves aliases like Get and parses the value as a number.
func (r *InputRecord) GetNumber(aliases ...string) (float64, bool) {
	return csvio.ParseNumber(r.Get(aliases...))
}

// Accepted column aliases per logical concept, in resolution order.
// First non-empty match wins.
var (
	AliasCoreNumber  = []string{"core number", "core #", "core", "style number", "style #", "style"}
	AliasDiamondType = []string{"diamond type", "diamonds type", "stone type", "type"}
	AliasCategory    = []string{"category", "product category"}
	AliasSubcategory = []string{"subcategory", "sub category", "sub-category"}
	AliasGrams       = []string{"grams", "weight", "gold weight", "metal weight", "gr"}
	AliasCenterCt    = []string{"center ct", "center carat", "center stone ct", "center size", "center ct weight"}
	AliasTotalCt     = []string{"total ct", "total carat", "total ct weight", "total carat weight", "tcw"}
	AliasShape       = []string{"center shape", "center stone shape", "shape"}
	AliasQuality     = []string{"quality", "color/clarity", "color clarity", "clarity"}
	AliasStoneCount  = []string{"# of stones", "number of stones", "stone count", "stones"}
	AliasWidth       = []string{"width", "width (mm)", "width mm", "mm"}
	AliasTags        = []string{"tags", "tag"}
	AliasImage       = []string{"image", "image src", "image url"}
)

// MaxSidePositions is how many per-position side-stone columns are scanned.
const MaxSidePositions = 10

// SideCaratAliases returns the accepted column names for side-stone carats
// at position i (1-based).
func SideCaratAliases(i int) []string {
	return []string{
		fmt.Sprintf("side ct %d", i),
		fmt.Sprintf("side carat %d", i),
		fmt.Sprintf("side stone %d ct", i),
		fmt.Sprintf("side %d ct", i),
	}
}

// SideCountAliases returns the accepted column names for side-stone counts
// at position i (1-based).
func SideCountAliases(i int) []string {
	return []string{
		fmt.Sprintf("# of stones %d", i),
		fmt.Sprintf("stone count %d", i),
		fmt.Sprintf("stones %d", i),
	}
}

// ParseMaster converts raw master-file rows (header row first) into
// InputRecords, skipping fully empty rows.
func ParseMaster(rows [][]string) []*InputRecord {
	if len(rows) == 0 {
		return nil
	}

	headerIdx := csvio.MakeHeaderIndex(rows[0])
	records := make([]*InputRecord, 0, len(rows)-1)

	for i, row := range rows[1:] {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		records = append(records, &InputRecord{
			Fields: csvio.RecordRow(headerIdx, row),
			Line:   i + 2,
		})
	}
	return records
}
