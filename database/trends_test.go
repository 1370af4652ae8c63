package database

import (
	"strings"
	"testing"
)

func TestBuildTrendConditionsBase(t *testing.T) {
	conds, args := buildTrendConditions("seattle", "wa", TrendFilter{})

	if len(conds) != 4 {
		t.Fatalf("expected 4 base conditions, got %d: %v", len(conds), conds)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 base args, got %d", len(args))
	}
	// Market keys are normalized to stored casing
	if args[0] != "Seattle" || args[1] != "WA" {
		t.Errorf("expected normalized market args, got %v", args)
	}

	joined := strings.Join(conds, " AND ")
	if !strings.Contains(joined, "sold_price IS NOT NULL") ||
		!strings.Contains(joined, "last_sold_date IS NOT NULL") {
		t.Errorf("base conditions must exclude unlabeled rows: %s", joined)
	}
}

func TestBuildTrendConditionsFilters(t *testing.T) {
	filter := TrendFilter{
		Style:        "CONDOS",
		MinBeds:      2,
		MaxBeds:      4,
		MinBaths:     1.5,
		MinSqft:      800,
		MaxSqft:      2500,
		MinYearBuilt: 1990,
	}
	conds, args := buildTrendConditions("Seattle", "WA", filter)

	if len(conds) != 4+7 {
		t.Fatalf("expected 11 conditions, got %d: %v", len(conds), conds)
	}
	if len(args) != 2+7 {
		t.Fatalf("expected 9 args, got %d", len(args))
	}

	joined := strings.Join(conds, " AND ")
	for _, want := range []string{
		"style = ?",
		"beds >= ?",
		"beds <= ?",
		"COALESCE(full_baths, 0) + 0.5 * COALESCE(half_baths, 0) >= ?",
		"sqft >= ?",
		"sqft <= ?",
		"year_built >= ?",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing condition %q in %s", want, joined)
		}
	}
}

func TestBuildTrendConditionsZeroValuesSkipped(t *testing.T) {
	conds, _ := buildTrendConditions("Seattle", "WA", TrendFilter{MaxStories: 2})
	if len(conds) != 5 {
		t.Fatalf("only the set bound should add a condition, got %v", conds)
	}
	if conds[4] != "stories <= ?" {
		t.Errorf("expected stories bound, got %q", conds[4])
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"seattle", "Seattle"},
		{"SEATTLE", "Seattle"},
		{"austin", "Austin"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.input); got != tt.expected {
			t.Errorf("capitalize(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}
