package assemble

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/catalog"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/export"
)

// productMeta is the parent-row metadata computed once per handle from all
// sibling variants.
type productMeta struct {
	title       string
	body        string
	vendor      string
	productType string
	tags        string
	imageSrc    string
	seoTitle    string
	seoDesc     string
	category    string
	subcategory string
}

// buildProductMeta aggregates across all of a handle's variants: the carat
// range and the shape union span every sibling, not just the parent.
func buildProductMeta(group []*Variant, vendor string) productMeta {
	first := group[0]
	rec := first.Seed.Record

	category := rec.Get(catalog.AliasCategory...)
	subcategory := rec.Get(catalog.AliasSubcategory...)

	meta := productMeta{
		vendor:      vendor,
		category:    category,
		subcategory: subcategory,
		productType: productType(category, subcategory),
		imageSrc:    rec.Get(catalog.AliasImage...),
	}

	if first.Seed.Scenario == catalog.ScenarioNoStones {
		meta.title = noStonesTitle(rec, subcategory)
	} else {
		meta.title = stoneTitle(group, subcategory)
	}

	meta.body = buildBody(meta.title, category, subcategory)
	meta.tags = buildTags(group, category, subcategory)
	meta.seoTitle = meta.title
	meta.seoDesc = seoDescription(meta.body)
	return meta
}

// applyParentFields copies the product-level metadata onto the handle's
// first row.
func applyParentFields(row *export.Row, meta productMeta) {
	row.Title = meta.title
	row.BodyHTML = meta.body
	row.Vendor = meta.vendor
	row.Type = meta.productType
	row.Tags = meta.tags
	row.ImageSrc = meta.imageSrc
	row.ImageAltText = meta.title
	row.SEOTitle = meta.seoTitle
	row.SEODescription = meta.seoDesc

	row.Option1Name = "Metal"
	row.Option2Name = "Total Carat"
	row.Option3Name = "Quality"

	row.GoogleProductCategory = "Apparel & Accessories > Jewelry"
	row.GoogleGender = "unisex"
	row.GoogleAgeGroup = "adult"
	row.GoogleMPN = row.SKU
	row.GoogleAdWordsGrouping = meta.category
	row.GoogleAdWordsLabels = meta.subcategory
	row.GoogleCondition = "new"
	row.GoogleCustomProduct = "FALSE"
	row.GoogleCustomLabels[0] = meta.subcategory
}

func productType(category, subcategory string) string {
	switch {
	case category == "" && subcategory == "":
		return ""
	case category == "":
		return subcategory
	case subcategory == "":
		return category
	}
	return category + "_" + subcategory
}

// stoneTitle builds the stone-bearing product title from the carat range and
// shape union across all sibling variants.
func stoneTitle(group []*Variant, subcategory string) string {
	minCt, maxCt := 0.0, 0.0
	for _, v := range group {
		total := v.Cost.Details.CenterCarat + v.Cost.Details.SideCarats
		if total <= 0 {
			continue
		}
		if minCt == 0 || total < minCt {
			minCt = total
		}
		if total > maxCt {
			maxCt = total
		}
	}

	parts := []string{}
	if caratRange := formatCaratRange(minCt, maxCt); caratRange != "" {
		parts = append(parts, caratRange+" Carat")
	}
	if shapes := shapeUnion(group); len(shapes) > 0 {
		parts = append(parts, strings.Join(shapes, " & "))
	}
	parts = append(parts, stoneTypeLabel(group[0].Seed.Rulebook)+" Diamond")
	if subcategory != "" {
		parts = append(parts, titleCase(subcategory))
	}
	return strings.Join(parts, " ")
}

// noStonesTitle uses a flat template keyed on the width attribute when
// present.
func noStonesTitle(rec *catalog.InputRecord, subcategory string) string {
	name := titleCase(subcategory)
	if name == "" {
		name = "Band"
	}
	if width := rec.Get(catalog.AliasWidth...); width != "" {
		return fmt.Sprintf("%smm %s", width, name)
	}
	return name
}

func stoneTypeLabel(book catalog.Rulebook) string {
	switch book {
	case catalog.RulebookLabGrown:
		return "Lab Grown"
	default:
		return "Natural"
	}
}

// shapeUnion collects the distinct center shapes across the handle's
// variants, in first-seen order.
func shapeUnion(group []*Variant) []string {
	var shapes []string
	seen := map[string]bool{}
	for _, v := range group {
		s := v.Cost.Details.CenterShape
		if s == "" {
			s = v.Cost.Details.SideShape
		}
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		shapes = append(shapes, titleCase(s))
	}
	return shapes
}

func formatCaratRange(min, max float64) string {
	switch {
	case max <= 0:
		return ""
	case min == max:
		return fmt.Sprintf("%.2f", min)
	default:
		return fmt.Sprintf("%.2f-%.2f", min, max)
	}
}

// buildBody renders the parent body HTML.
func buildBody(title, category, subcategory string) string {
	var sb strings.Builder
	sb.WriteString("<p>")
	sb.WriteString(title)
	sb.WriteString(", crafted to order.")
	sb.WriteString("</p>")
	if category != "" {
		fmt.Fprintf(&sb, "<p>Collection: %s", category)
		if subcategory != "" {
			fmt.Fprintf(&sb, " / %s", subcategory)
		}
		sb.WriteString("</p>")
	}
	return sb.String()
}

// buildTags joins the parent tag set: category, combined
// category/subcategory, per-shape tags, carat-bucket tags, and any
// passthrough tags from the master row.
func buildTags(group []*Variant, category, subcategory string) string {
	var tags []string
	seen := map[string]bool{}
	add := func(t string) {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			return
		}
		seen[key] = true
		tags = append(tags, t)
	}

	add(category)
	if category != "" && subcategory != "" {
		add(category + "_" + subcategory)
	}
	for _, s := range shapeUnion(group) {
		add("Shape_" + s)
	}
	for _, b := range caratBuckets(group) {
		add(b)
	}
	for _, t := range strings.Split(group[0].Seed.Record.Get(catalog.AliasTags...), ",") {
		add(t)
	}
	return strings.Join(tags, ", ")
}

// caratBuckets returns 0.5-carat bucket tags ("0.50-1.00ctw") covering the
// handle's variants.
func caratBuckets(group []*Variant) []string {
	var buckets []string
	seen := map[string]bool{}
	for _, v := range group {
		total := v.Cost.Details.CenterCarat + v.Cost.Details.SideCarats
		if total <= 0 {
			continue
		}
		lo := float64(int(total*2)) / 2
		tag := fmt.Sprintf("%.2f-%.2fctw", lo, lo+0.5)
		if !seen[tag] {
			seen[tag] = true
			buckets = append(buckets, tag)
		}
	}
	return buckets
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// seoDescription strips tags from the body and truncates to the SEO field
// limit.
func seoDescription(body string) string {
	text := body
	text = strings.ReplaceAll(text, "</p>", " ")
	text = strings.ReplaceAll(text, "<p>", "")
	text = strings.TrimSpace(text)
	if len(text) > 320 {
		cut := 317
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
