// Package export renders assembled catalog rows to the fixed-schema CSV
// text consumed by the downstream import target, and validates the
// parent/child structure of the assembled rows.
//
// The column list is a compatibility contract: exact names, exact order,
// including the duplicated trailing Title/Description pair the importer
// expects. Do not reorder.
package export

// Columns is the fixed export header, in contract order.
var Columns = []string{
	"Handle",
	"Title",
	"Body (HTML)",
	"Vendor",
	"Type",
	"Tags",
	"Published",
	"Option1 Name",
	"Option1 Value",
	"Option2 Name",
	"Option2 Value",
	"Option3 Name",
	"Option3 Value",
	"Variant SKU",
	"Variant Grams",
	"Variant Inventory Tracker",
	"Variant Inventory Qty",
	"Variant Inventory Policy",
	"Variant Fulfillment Service",
	"Variant Price",
	"Variant Compare At Price",
	"Variant Requires Shipping",
	"Variant Taxable",
	"Variant Barcode",
	"Image Src",
	"Image Position",
	"Image Alt Text",
	"Gift Card",
	"SEO Title",
	"SEO Description",
	"Google Shopping / Google Product Category",
	"Google Shopping / Gender",
	"Google Shopping / Age Group",
	"Google Shopping / MPN",
	"Google Shopping / AdWords Grouping",
	"Google Shopping / AdWords Labels",
	"Google Shopping / Condition",
	"Google Shopping / Custom Product",
	"Google Shopping / Custom Label 0",
	"Google Shopping / Custom Label 1",
	"Google Shopping / Custom Label 2",
	"Google Shopping / Custom Label 3",
	"Google Shopping / Custom Label 4",
	"Variant Image",
	"Variant Weight Unit",
	"Variant Tax Code",
	"Cost per item",
	"Core Number",
	"Category",
	"Diamond Cost",
	"Metal Cost",
	"Side Stone",
	"Center Stone",
	"Polish",
	"Bracelets",
	"Pendants",
	"CAD Creation",
	"25$",
	"Title",
	"Description",
}

// Row is one export row. Exactly one row per handle is the parent and
// carries the product-level fields (title, body, tags, SEO, Google
// Shopping); child rows leave them blank. All values are pre-formatted
// strings; money and weight fields carry exactly two decimals.
type Row struct {
	Handle   string
	Title    string
	BodyHTML string
	Vendor   string
	Type     string
	Tags     string

	Option1Name  string
	Option1Value string
	Option2Name  string
	Option2Value string
	Option3Name  string
	Option3Value string

	SKU            string
	Grams          string
	Price          string
	CompareAtPrice string

	ImageSrc     string
	ImageAltText string

	SEOTitle       string
	SEODescription string

	GoogleProductCategory string
	GoogleGender          string
	GoogleAgeGroup        string
	GoogleMPN             string
	GoogleAdWordsGrouping string
	GoogleAdWordsLabels   string
	GoogleCondition       string
	GoogleCustomProduct   string
	GoogleCustomLabels    [5]string

	CostPerItem string
	CoreNumber  string
	Category    string

	DiamondCost string
	MetalCost   string
	SideStone   string
	CenterStone string
	Polish      string
	Bracelets   string
	Pendants    string
	CADCreation string
	FixedFee    string
}

// IsParent reports whether the row carries the product-level fields.
func (r *Row) IsParent() bool {
	return r.Title != ""
}

// Fixed cell values shared by every row.
const (
	publishedValue          = "TRUE"
	inventoryTrackerValue   = "shopify"
	inventoryQtyValue       = "1"
	inventoryPolicyValue    = "deny"
	fulfillmentServiceValue = "manual"
	requiresShippingValue   = "TRUE"
	taxableValue            = "TRUE"
	giftCardValue           = "FALSE"
	weightUnitValue         = "g"
)

// cells renders the row's values in Columns order.
func (r *Row) cells() []string {
	imagePosition := ""
	if r.ImageSrc != "" {
		imagePosition = "1"
	}

	return []string{
		r.Handle,
		r.Title,
		r.BodyHTML,
		r.Vendor,
		r.Type,
		r.Tags,
		publishedValue,
		r.Option1Name,
		r.Option1Value,
		r.Option2Name,
		r.Option2Value,
		r.Option3Name,
		r.Option3Value,
		r.SKU,
		r.Grams,
		inventoryTrackerValue,
		inventoryQtyValue,
		inventoryPolicyValue,
		fulfillmentServiceValue,
		r.Price,
		r.CompareAtPrice,
		requiresShippingValue,
		taxableValue,
		"", // Variant Barcode
		r.ImageSrc,
		imagePosition,
		r.ImageAltText,
		giftCardValue,
		r.SEOTitle,
		r.SEODescription,
		r.GoogleProductCategory,
		r.GoogleGender,
		r.GoogleAgeGroup,
		r.GoogleMPN,
		r.GoogleAdWordsGrouping,
		r.GoogleAdWordsLabels,
		r.GoogleCondition,
		r.GoogleCustomProduct,
		r.GoogleCustomLabels[0],
		r.GoogleCustomLabels[1],
		r.GoogleCustomLabels[2],
		r.GoogleCustomLabels[3],
		r.GoogleCustomLabels[4],
		"", // Variant Image
		weightUnitValue,
		"", // Variant Tax Code
		r.CostPerItem,
		r.CoreNumber,
		r.Category,
		r.DiamondCost,
		r.MetalCost,
		r.SideStone,
		r.CenterStone,
		r.Polish,
		r.Bracelets,
		r.Pendants,
		r.CADCreation,
		r.FixedFee,
		r.Title,
		r.SEODescription,
	}
}
