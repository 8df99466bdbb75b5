// Package cli provides formatting, parsing, and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/mcro/internal/model"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatAmount rounds to a whole number and adds separators.
func FormatAmount(v float64) string {
	return FormatNumber(int64(math.Round(v)))
}

// FormatGrams formats a protein amount, e.g. 110 -> "110 g".
func FormatGrams(v float64) string {
	return FormatAmount(v) + " g"
}

// FormatKcal formats an energy amount, e.g. 1100 -> "1,100 kcal".
func FormatKcal(v float64) string {
	return FormatAmount(v) + " kcal"
}

// FormatOfGoal renders "intake/goal", e.g. "110/150".
func FormatOfGoal(intake, goal float64) string {
	return FormatAmount(intake) + "/" + FormatAmount(goal)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatDate formats a day as "Jan 02, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 02, 2006")
}

// FormatLongDate formats a day as "Monday, Jan 02, 2006".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, Jan 02, 2006")
}

// FormatAge describes how long ago day was relative to today.
func FormatAge(day, today time.Time) string {
	day, today = model.DayOf(day), model.DayOf(today)
	switch {
	case day.Equal(today):
		return "today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "yesterday"
	}
	return humanize.RelTime(day, today, "ago", "from now")
}

// ParseAmount parses user text as a non-negative number. It returns nil for
// anything else, including empty input.
func ParseAmount(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// ParseDay accepts "today", "yesterday", or YYYY-MM-DD, resolved against now.
func ParseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return model.DayOf(now), nil
	case "yesterday":
		return model.DayOf(now).AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation(model.DayLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today, or yesterday)", s)
	}
	return t, nil
}
