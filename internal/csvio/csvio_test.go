package csvio

import (
	"reflect"
	"strings"
	"testing"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value", "hello", "hello"},
		{"surrounding whitespace", "  hello  ", "hello"},
		{"excel formula quoted", `="R-1001"`, "R-1001"},
		{"excel formula bare", "=SUM", "SUM"},
		{"double quoted", `"value"`, "value"},
		{"single quoted", "'value'", "value"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"integer", "42", 42, true},
		{"decimal", "3.14", 3.14, true},
		{"currency dollar", "$1,250.50", 1250.50, true},
		{"currency euro", "€99.99", 99.99, true},
		{"thousands separators", "1,234,567", 1234567, true},
		{"accounting negative", "(123.45)", -123.45, true},
		{"explicit negative", "-0.5", -0.5, true},
		{"scientific", "1.5e2", 150, true},
		{"leading dot", ".75", 0.75, true},
		{"empty", "", 0, false},
		{"text", "n/a", 0, false},
		{"mixed", "12abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"space separated", "14W 14Y 14R", []string{"14W", "14Y", "14R"}},
		{"comma separated", "14W,14Y,14R", []string{"14W", "14Y", "14R"}},
		{"pipe separated", "FG|HI", []string{"FG", "HI"}},
		{"slash separated", "1.0/1.5/2.0", []string{"1.0", "1.5", "2.0"}},
		{"mixed with extra spaces", " 14W,  18W | PLT ", []string{"14W", "18W", "PLT"}},
		{"single code", "925", []string{"925"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitCodes(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitCodes(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Core Number", "GRAMS", " Shape ", "shape"})

	if got := idx["core number"]; got != 0 {
		t.Errorf("idx[core number] = %d, want 0", got)
	}
	if got := idx["grams"]; got != 1 {
		t.Errorf("idx[grams] = %d, want 1", got)
	}
	// First occurrence wins for duplicate headers
	if got := idx["shape"]; got != 2 {
		t.Errorf("idx[shape] = %d, want 2", got)
	}
}

func TestRecordRow(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Core Number", "Grams", "Shape"})

	rec := RecordRow(idx, []string{`="R-1001"`, " 4.5 ", "Round", "extra"})
	if rec["core number"] != "R-1001" {
		t.Errorf("core number = %q, want %q", rec["core number"], "R-1001")
	}
	if rec["grams"] != "4.5" {
		t.Errorf("grams = %q, want %q", rec["grams"], "4.5")
	}

	// Short row: missing cells simply absent
	rec = RecordRow(idx, []string{"R-1002"})
	if _, ok := rec["shape"]; ok {
		t.Error("shape should be absent for short row")
	}
}

func TestRead_SkipsBOM(t *testing.T) {
	content := "\xEF\xBB\xBFa,b\n1,2\n"
	rows, err := ReadString(content)
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "a" {
		t.Errorf("first cell = %q, want %q (BOM should be stripped)", rows[0][0], "a")
	}
}

func TestRead_RaggedRows(t *testing.T) {
	content := "a,b,c\n1\n1,2,3,4\n"
	rows, err := ReadString(content)
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if len(rows[1]) != 1 || len(rows[2]) != 4 {
		t.Errorf("ragged widths = %d, %d; want 1, 4", len(rows[1]), len(rows[2]))
	}
}

func TestBOMSkippingReader_NoBOM(t *testing.T) {
	r := NewBOMSkippingReader(strings.NewReader("plain"))
	buf := make([]byte, 10)
	n, _ := r.Read(buf)
	if string(buf[:n]) != "plain" {
		t.Errorf("read = %q, want %q", string(buf[:n]), "plain")
	}
}
