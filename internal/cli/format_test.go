package cli

import (
	"strings"
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmounts(t *testing.T) {
	if got := FormatGrams(109.6); got != "110 g" {
		t.Errorf("FormatGrams = %q", got)
	}
	if got := FormatKcal(1100); got != "1,100 kcal" {
		t.Errorf("FormatKcal = %q", got)
	}
	if got := FormatOfGoal(110, 150); got != "110/150" {
		t.Errorf("FormatOfGoal = %q", got)
	}
	if got := FormatPercent(0.55); got != "55.0%" {
		t.Errorf("FormatPercent = %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"150", 150, true},
		{" 42.5 ", 42.5, true},
		{"0", 0, true},
		{"", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got := ParseAmount(tt.in)
		if (got != nil) != tt.ok {
			t.Errorf("ParseAmount(%q) ok = %v, want %v", tt.in, got != nil, tt.ok)
			continue
		}
		if got != nil && *got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, *got, tt.want)
		}
	}
}

func TestParseDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 22, 15, 0, 0, time.Local)

	got, err := ParseDay("today", now)
	if err != nil || !got.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)) {
		t.Errorf("today = %v (%v)", got, err)
	}
	got, err = ParseDay("Yesterday", now)
	if err != nil || !got.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.Local)) {
		t.Errorf("yesterday = %v (%v)", got, err)
	}
	got, err = ParseDay("2024-01-01", now)
	if err != nil || !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)) {
		t.Errorf("2024-01-01 = %v (%v)", got, err)
	}
	if _, err := ParseDay("01/02/2024", now); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFormatAge(t *testing.T) {
	today := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	if got := FormatAge(today.Add(-2*time.Hour), today); got != "today" {
		t.Errorf("same day = %q", got)
	}
	if got := FormatAge(today.AddDate(0, 0, -1), today); got != "yesterday" {
		t.Errorf("one day = %q", got)
	}
	if got := FormatAge(today.AddDate(0, 0, -3), today); !strings.HasSuffix(got, "ago") {
		t.Errorf("three days = %q, want ... ago", got)
	}
}

func TestRenderRatioBarClamps(t *testing.T) {
	over := RenderRatioBar("Protein", 1.7, 10, ColorGreen, "x")
	if strings.Count(over, "█") != 10 || strings.Contains(over, "░") {
		t.Errorf("over-full bar = %q", over)
	}
	if !strings.Contains(over, "100%") {
		t.Errorf("over-full bar missing 100%%: %q", over)
	}

	empty := RenderRatioBar("Protein", -1, 10, ColorGreen, "x")
	if strings.Contains(empty, "█") || strings.Count(empty, "░") != 10 {
		t.Errorf("empty bar = %q", empty)
	}

	half := RenderRatioBar("Calories", 0.5, 10, ColorPurple, "x")
	if strings.Count(half, "█") != 5 {
		t.Errorf("half bar = %q", half)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Date", "Protein"},
		Rows:    [][]string{{"2024-01-01", "110 g"}, {"---"}, {"2024-01-02", "5 g"}},
	})
	if !strings.Contains(out, "2024-01-01") || !strings.Contains(out, "110 g") {
		t.Errorf("table missing cells:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 7 {
		t.Errorf("table has %d lines, want 7:\n%s", got, out)
	}
	if RenderTable(Table{}) != "" {
		t.Error("empty table should render nothing")
	}
}
