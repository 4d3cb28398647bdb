// Package assemble merges variant seeds, cost breakdowns, and pricing
// results into parent/child export rows.
//
// Rows are grouped by handle in seed order. The first row of each handle is
// the parent and alone carries the product-level metadata (title, body,
// vendor, type, tags, image, SEO, Google Shopping); sibling rows carry only
// their variant-level fields. SKU suffixes within a handle start at -2: the
// second physical row of the handle ends in -2, the third in -3, and so on.
package assemble

import (
	"fmt"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/catalog"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/costing"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/export"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/pricing"
)

// DefaultVendor is the constant vendor name stamped on every parent row.
const DefaultVendor = "Forever Fine Jewelry"

// Variant is one fully priced variant ready for assembly.
type Variant struct {
	Seed  *catalog.VariantSeed
	Cost  *costing.Breakdown
	Price pricing.Result
}

// Options configures assembly.
type Options struct {
	Vendor string
}

// Assemble builds export rows from priced variants, preserving input order.
func Assemble(variants []*Variant, opts Options) []*export.Row {
	vendor := opts.Vendor
	if vendor == "" {
		vendor = DefaultVendor
	}

	// Group by handle preserving first-seen order. Seeds arrive in expansion
	// order, so each handle's variants are already contiguous and ordered.
	order := []string{}
	byHandle := map[string][]*Variant{}
	for _, v := range variants {
		h := v.Seed.Handle
		if _, ok := byHandle[h]; !ok {
			order = append(order, h)
		}
		byHandle[h] = append(byHandle[h], v)
	}

	var rows []*export.Row
	for _, handle := range order {
		group := byHandle[handle]
		meta := buildProductMeta(group, vendor)

		for i, v := range group {
			row := buildVariantRow(v, i)
			if i == 0 {
				applyParentFields(row, meta)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// buildVariantRow fills the fields every row carries: handle, options, SKU,
// weight, prices, and the itemized cost columns.
func buildVariantRow(v *Variant, indexInHandle int) *export.Row {
	seed := v.Seed
	cost := v.Cost

	row := &export.Row{
		Handle:     seed.Handle,
		SKU:        fmt.Sprintf("%s-%d", catalog.CleanCoreNumber(seed.CoreNumber), indexInHandle+2),
		Grams:      fmt.Sprintf("%.2f", cost.Grams),
		CoreNumber: seed.CoreNumber,
		Category:   seed.Record.Get(catalog.AliasCategory...),

		Price:          v.Price.SellPrice.StringFixed(2),
		CompareAtPrice: v.Price.ComparePrice.StringFixed(2),
		CostPerItem:    cost.Total.StringFixed(2),

		DiamondCost: cost.DiamondCost().StringFixed(2),
		MetalCost:   cost.Metal.StringFixed(2),
		SideStone:   cost.SideLabor.StringFixed(2),
		CenterStone: cost.CenterLabor.StringFixed(2),
		Polish:      cost.Polish.StringFixed(2),
		Bracelets:   cost.BraceletFee.StringFixed(2),
		Pendants:    cost.PendantFee.StringFixed(2),
		CADCreation: cost.CADFee.StringFixed(2),
		FixedFee:    cost.FixedFee.StringFixed(2),

		Option1Value: catalog.MetalName(seed.Metal),
		Option2Value: totalCaratString(v),
		Option3Value: seed.Quality,
	}
	return row
}

// totalCaratString formats the variant's combined carat weight; blank for
// no-stones variants.
func totalCaratString(v *Variant) string {
	if v.Seed.Scenario == catalog.ScenarioNoStones {
		return ""
	}
	total := v.Cost.Details.CenterCarat + v.Cost.Details.SideCarats
	if total <= 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", total)
}
