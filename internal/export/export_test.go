package export

import (
	"strings"
	"testing"
)

func parentRow(handle, sku string) *Row {
	return &Row{
		Handle: handle,
		Title:  "Classic Solitaire " + handle,
		Vendor: "Acme",
		SKU:    sku,
		Grams:  "4.50",
		Price:  "439.99",
	}
}

func childRow(handle, sku string) *Row {
	return &Row{Handle: handle, SKU: sku, Grams: "4.50", Price: "439.99"}
}

func TestSerialize_Header(t *testing.T) {
	out := Serialize(nil)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want header only", len(lines))
	}

	fields := strings.Split(lines[0], ",")
	if len(fields) != len(Columns) {
		t.Fatalf("header has %d columns, want %d", len(fields), len(Columns))
	}
	if fields[0] != "Handle" || fields[13] != "Variant SKU" {
		t.Errorf("unexpected header columns: %q, %q", fields[0], fields[13])
	}
	// The trailing Title/Description pair duplicates column 2.
	if fields[len(fields)-2] != "Title" || fields[len(fields)-1] != "Description" {
		t.Errorf("trailing columns = %q, %q", fields[len(fields)-2], fields[len(fields)-1])
	}
}

func TestSerialize_RowWidthMatchesHeader(t *testing.T) {
	out := Serialize([]*Row{parentRow("ring-r-1", "R-1")})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if got, want := strings.Count(lines[1], ","), len(Columns)-1; got != want {
		t.Errorf("data row has %d commas, want %d", got, want)
	}
}

func TestSerialize_FixedCells(t *testing.T) {
	r := parentRow("ring-r-1", "R-1")
	r.ImageSrc = "https://cdn.example.com/r-1.jpg"
	out := Serialize([]*Row{r})

	line := strings.Split(out, "\n")[1]
	cells := strings.Split(line, ",")

	checks := map[int]string{
		6:  "TRUE",    // Published
		15: "shopify", // Inventory Tracker
		16: "1",       // Inventory Qty
		17: "deny",    // Inventory Policy
		18: "manual",  // Fulfillment Service
		24: r.ImageSrc,
		25: "1",     // Image Position follows Image Src
		27: "FALSE", // Gift Card
		44: "g",     // Weight Unit
	}
	for i, want := range checks {
		if cells[i] != want {
			t.Errorf("cell %d (%s) = %q, want %q", i, Columns[i], cells[i], want)
		}
	}
}

func TestSerialize_ImagePositionEmptyWithoutImage(t *testing.T) {
	out := Serialize([]*Row{parentRow("ring-r-1", "R-1")})

	cells := strings.Split(strings.Split(out, "\n")[1], ",")
	if cells[25] != "" {
		t.Errorf("image position = %q, want empty when no image src", cells[25])
	}
}

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"", ""},
		{"has space", "has space"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line\nbreak", "\"line\nbreak\""},
		{"14K White Gold", "14K White Gold"},
	}

	for _, tt := range tests {
		if got := escapeCell(tt.input); got != tt.want {
			t.Errorf("escapeCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSerialize_QuotedTitle(t *testing.T) {
	r := parentRow("ring-r-1", "R-1")
	r.Title = "Solitaire, 1.0ct"
	out := Serialize([]*Row{r})

	if !strings.Contains(out, `"Solitaire, 1.0ct"`) {
		t.Errorf("output missing quoted title:\n%s", out)
	}
}

func TestValidate_Clean(t *testing.T) {
	rows := []*Row{
		parentRow("ring-r-1", "R-1"),
		childRow("ring-r-1", "R-1-2"),
		childRow("ring-r-1", "R-1-3"),
		parentRow("band-b-1", "B-1"),
	}

	rep := Validate(rows)
	if !rep.IsValid {
		t.Fatalf("IsValid = false, errors: %v", rep.Errors)
	}
	if rep.RowCount != 4 || rep.HandleCount != 2 {
		t.Errorf("counts = %d rows / %d handles, want 4 / 2", rep.RowCount, rep.HandleCount)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows []*Row
		want string
	}{
		{
			name: "missing handle",
			rows: []*Row{childRow("", "R-1")},
			want: "missing handle",
		},
		{
			name: "missing sku",
			rows: []*Row{parentRow("ring-r-1", "")},
			want: "missing SKU",
		},
		{
			name: "no parent",
			rows: []*Row{childRow("ring-r-1", "R-1"), childRow("ring-r-1", "R-1-2")},
			want: "no parent row",
		},
		{
			name: "duplicate parents",
			rows: []*Row{parentRow("ring-r-1", "R-1"), parentRow("ring-r-1", "R-1-2")},
			want: "duplicate parent",
		},
		{
			name: "parent not first",
			rows: []*Row{childRow("ring-r-1", "R-1-2"), parentRow("ring-r-1", "R-1")},
			want: "not the first row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Validate(tt.rows)
			if rep.IsValid {
				t.Fatal("IsValid = true, want validation errors")
			}
			found := false
			for _, e := range rep.Errors {
				if strings.Contains(e, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", rep.Errors, tt.want)
			}
		})
	}
}

func TestValidate_ErrorsDoNotBlockOutput(t *testing.T) {
	rows := []*Row{childRow("ring-r-1", "R-1-2")}

	rep := Validate(rows)
	if rep.IsValid {
		t.Fatal("IsValid = true, want false")
	}

	out := Serialize(rows)
	if len(strings.Split(strings.TrimSuffix(out, "\n"), "\n")) != 2 {
		t.Error("serialization should still produce the row")
	}
}
