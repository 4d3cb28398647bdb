package catalog

import (
	"strings"
	"unicode"
)

// metalNames maps rule-table metal codes to customer-facing option values.
// The vocabulary is business-configured; unrecognized codes pass through
// unchanged so a new code never blocks an export.
var metalNames = map[string]string{
	"10W": "10K White Gold",
	"10Y": "10K Yellow Gold",
	"10R": "10K Rose Gold",
	"14W": "14K White Gold",
	"14Y": "14K Yellow Gold",
	"14R": "14K Rose Gold",
	"18W": "18K White Gold",
	"18Y": "18K Yellow Gold",
	"18R": "18K Rose Gold",
	"PLT": "Platinum",
	"PT":  "Platinum",
	"SLV": "Sterling Silver",
	"925": "Sterling Silver",
}

// MetalName returns the display name for a metal code.
func MetalName(code string) string {
	if name, ok := metalNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return strings.TrimSpace(code)
}

// MetalFamily reduces a metal code to its family key used by the weight
// multiplier and price-per-gram tables: leading digits for karat golds
// ("14W" -> "14"), the full code otherwise ("PLT" -> "PLT").
func MetalFamily(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}

	digits := ""
	for _, r := range code {
		if !unicode.IsDigit(r) {
			break
		}
		digits += string(r)
	}
	if digits != "" {
		return digits
	}
	return code
}
