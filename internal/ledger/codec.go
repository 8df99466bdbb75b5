package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/theirongolddev/mcro/internal/model"
)

// Persisted keys.
const (
	KeyDailyLogs   = "dailyLogs"
	KeyProteinGoal = "proteinGoal"
	KeyCalorieGoal = "calorieGoal"
)

type logRecord struct {
	Date          string  `json:"date"`
	ProteinIntake float64 `json:"proteinIntake"`
	CalorieIntake float64 `json:"calorieIntake"`
}

func encodeLogs(entries []model.DailyLogEntry) ([]byte, error) {
	recs := make([]logRecord, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, logRecord{
			Date:          e.Date.Format(model.DayLayout),
			ProteinIntake: e.ProteinGrams,
			CalorieIntake: e.CalorieKcal,
		})
	}
	return json.Marshal(recs)
}

// decodeLogs parses the dailyLogs payload. Dates may be calendar days or
// RFC 3339 instants; records landing on the same day are summed.
func decodeLogs(b []byte) ([]model.DailyLogEntry, int, error) {
	var recs []logRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", KeyDailyLogs, err)
	}

	entries := make([]model.DailyLogEntry, 0, len(recs))
	merged := 0
	for i, r := range recs {
		day, err := parseStoredDay(r.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding %s[%d]: %w", KeyDailyLogs, i, err)
		}
		p := nonNegative(r.ProteinIntake)
		c := nonNegative(r.CalorieIntake)

		if idx := indexOfDay(entries, day); idx >= 0 {
			entries[idx].ProteinGrams = addCapped(entries[idx].ProteinGrams, p)
			entries[idx].CalorieKcal = addCapped(entries[idx].CalorieKcal, c)
			merged++
			continue
		}
		entries = append(entries, model.DailyLogEntry{Date: day, ProteinGrams: p, CalorieKcal: c})
	}
	return entries, merged, nil
}

func parseStoredDay(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(model.DayLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return model.DayOf(t), nil
}

func encodeNumber(v float64) []byte {
	return []byte(strconv.FormatFloat(v, 'f', -1, 64))
}

func decodeNumber(key string, b []byte) (float64, error) {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", key, err)
	}
	return nonNegative(v), nil
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// addCapped sums two non-negative totals, saturating at MaxFloat64.
func addCapped(total, v float64) float64 {
	return min(total+v, math.MaxFloat64)
}
