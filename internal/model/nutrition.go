// Package model defines the nutrition types shared by the ledger, store, and front ends.
package model

import "time"

// DayLayout is the calendar-day format used for persistence and display.
const DayLayout = "2006-01-02"

// Goal holds the user's daily targets. A zero component means "not set".
type Goal struct {
	ProteinGrams float64
	CalorieKcal  float64
}

// IsSet reports whether at least one target has been configured.
func (g Goal) IsSet() bool {
	return g.ProteinGrams > 0 || g.CalorieKcal > 0
}

// DailyLogEntry holds the running intake totals for one calendar day.
type DailyLogEntry struct {
	Date         time.Time // local midnight
	ProteinGrams float64
	CalorieKcal  float64
}

// Progress is intake measured against the goal for a single day.
// Ratios are clamped to [0, 1] and are 0 when the matching goal is 0.
type Progress struct {
	Date time.Time

	ProteinRatio float64
	CalorieRatio float64

	ProteinIntake float64
	CalorieIntake float64
	ProteinGoal   float64
	CalorieGoal   float64
}

// Order selects history ordering.
type Order int

const (
	// Descending lists the most recent day first.
	Descending Order = iota
	// Ascending lists the oldest day first.
	Ascending
)

// ParseOrder maps "asc"/"desc" to an Order, defaulting to Descending.
func ParseOrder(s string) Order {
	if s == "asc" || s == "ascending" {
		return Ascending
	}
	return Descending
}

// String returns the config spelling of the order.
func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// DayOf truncates t to local midnight.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
