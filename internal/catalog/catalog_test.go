package catalog

import (
	"testing"
)

func masterRows() [][]string {
	return [][]string{
		{"Core Number", "Diamond Type", "Subcategory", "Grams", "Center Ct", "Total Ct"},
		{"R-1001", "Natural", "Engagement Ring", "4.2", "1.0", "1.5"},
		{"R-1002", "LabGrown", "Engagement Ring", "3.8", "", "0.75"},
		{"", "", "", "", "", ""},
		{"B-2001", "No Stones", "Band", "5.1", "", ""},
	}
}

func TestParseMaster(t *testing.T) {
	records := ParseMaster(masterRows())
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3 (empty row skipped)", len(records))
	}

	if got := records[0].Get(AliasCoreNumber...); got != "R-1001" {
		t.Errorf("core number = %q, want %q", got, "R-1001")
	}
	// Line numbers are 1-based CSV positions
	if records[2].Line != 5 {
		t.Errorf("third record line = %d, want 5", records[2].Line)
	}
}

func TestGet_AliasOrder(t *testing.T) {
	rec := &InputRecord{Fields: map[string]string{
		"style number": "S-99",
		"core number":  "R-1",
	}}
	// "core number" comes first in the alias list
	if got := rec.Get(AliasCoreNumber...); got != "R-1" {
		t.Errorf("Get = %q, want %q", got, "R-1")
	}

	rec = &InputRecord{Fields: map[string]string{"style number": "S-99"}}
	if got := rec.Get(AliasCoreNumber...); got != "S-99" {
		t.Errorf("Get fallback = %q, want %q", got, "S-99")
	}
}

func TestGetNumber(t *testing.T) {
	rec := &InputRecord{Fields: map[string]string{"grams": "$4.50"}}
	v, ok := rec.GetNumber(AliasGrams...)
	if !ok || v != 4.5 {
		t.Errorf("GetNumber = %v, %v; want 4.5, true", v, ok)
	}

	rec = &InputRecord{Fields: map[string]string{"grams": "n/a"}}
	if _, ok := rec.GetNumber(AliasGrams...); ok {
		t.Error("GetNumber should fail for non-numeric value")
	}
}

func TestResolveRulebook(t *testing.T) {
	tests := []struct {
		input string
		want  Rulebook
	}{
		{"Natural", RulebookNatural},
		{"NATURAL DIAMOND", RulebookNatural},
		{"LabGrown", RulebookLabGrown},
		{"Lab Grown", RulebookLabGrown},
		{"lab-grown diamond", RulebookLabGrown},
		{"No Stones", RulebookNoStones},
		{"", RulebookNoStones},
		{"Moissanite", RulebookUnknown},
	}

	for _, tt := range tests {
		if got := ResolveRulebook(tt.input); got != tt.want {
			t.Errorf("ResolveRulebook(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGroupRecords(t *testing.T) {
	records := ParseMaster([][]string{
		{"Core Number", "Diamond Type", "Center Ct"},
		{"R-1", "Natural", "1.0"},
		{"R-2", "Natural", ""},
		{"R-1", "Natural", "1.5"},
		{"", "Natural", "1.0"},
		{"B-1", "No Stones", ""},
	})

	groups, skipped := GroupRecords(records)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if len(skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(skipped))
	}

	// First-seen order
	wantOrder := []string{"R-1", "R-2", "B-1"}
	for i, w := range wantOrder {
		if groups[i].CoreNumber != w {
			t.Errorf("group[%d] = %q, want %q", i, groups[i].CoreNumber, w)
		}
	}

	// R-1 has two rows: repeating
	if groups[0].Scenario != ScenarioRepeating {
		t.Errorf("R-1 scenario = %q, want %q", groups[0].Scenario, ScenarioRepeating)
	}
	if len(groups[0].Records) != 2 {
		t.Errorf("R-1 records = %d, want 2", len(groups[0].Records))
	}

	// R-2 is a single row with no center ct
	if groups[1].Scenario != ScenarioUniqueNoCenter {
		t.Errorf("R-2 scenario = %q, want %q", groups[1].Scenario, ScenarioUniqueNoCenter)
	}

	// B-1 is no-stones
	if groups[2].Scenario != ScenarioNoStones {
		t.Errorf("B-1 scenario = %q, want %q", groups[2].Scenario, ScenarioNoStones)
	}
	if groups[2].Rulebook != RulebookNoStones {
		t.Errorf("B-1 rulebook = %q, want %q", groups[2].Rulebook, RulebookNoStones)
	}
}

func TestGroupRecords_UniqueCenter(t *testing.T) {
	records := ParseMaster([][]string{
		{"Core Number", "Diamond Type", "Center Ct"},
		{"R-1", "Natural", "1.25"},
	})

	groups, _ := GroupRecords(records)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if groups[0].Scenario != ScenarioUniqueCenter {
		t.Errorf("scenario = %q, want %q", groups[0].Scenario, ScenarioUniqueCenter)
	}
}

func TestMakeHandle(t *testing.T) {
	tests := []struct {
		subcategory string
		core        string
		want        string
	}{
		{"Engagement Ring", "R-1001", "engagement-ring-r-1001"},
		{"Band", "B 2001", "band-b-2001"},
		{"", "R-1", "-r-1"},
	}

	for _, tt := range tests {
		if got := MakeHandle(tt.subcategory, tt.core); got != tt.want {
			t.Errorf("MakeHandle(%q, %q) = %q, want %q", tt.subcategory, tt.core, got, tt.want)
		}
	}
}

func TestCleanCoreNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"r-1001", "R-1001"},
		{" R 1001 ", "R1001"},
		{"b-2001", "B-2001"},
	}

	for _, tt := range tests {
		if got := CleanCoreNumber(tt.input); got != tt.want {
			t.Errorf("CleanCoreNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMetalName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"14W", "14K White Gold"},
		{"14w", "14K White Gold"},
		{" PLT ", "Platinum"},
		{"925", "Sterling Silver"},
		{"TITANIUM", "TITANIUM"}, // unknown codes pass through
	}

	for _, tt := range tests {
		if got := MetalName(tt.code); got != tt.want {
			t.Errorf("MetalName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestMetalFamily(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"14W", "14"},
		{"18R", "18"},
		{"10y", "10"},
		{"PLT", "PLT"},
		{"925", "925"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MetalFamily(tt.code); got != tt.want {
			t.Errorf("MetalFamily(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
