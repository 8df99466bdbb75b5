// Package ledger keeps per-day protein and calorie totals together with the
// user's daily goals, persisting both to a key-value store after every change.
//
// Operations never fail: invalid amounts are ignored field by field, and a
// failed write leaves the in-memory state authoritative. Goals and logs are
// tracked separately; whatever is still unsaved is written again with the
// next change, and PersistErr reports it until that succeeds.
//
// A Ledger is not safe for concurrent use.
package ledger

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/store"
)

// Ledger owns the daily log entries and the current goal.
type Ledger struct {
	kv  store.KV
	now func() time.Time
	log *slog.Logger

	goal    model.Goal
	entries []model.DailyLogEntry

	// non-nil while that part of the state is newer than the store
	goalErr error
	logsErr error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the source of "now" used to resolve today.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// Open builds a ledger from the state persisted in kv. Missing keys load as
// defaults; unreadable or undecodable state is an error.
func Open(kv store.KV, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		kv:  kv,
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload replaces the in-memory state with what is currently persisted,
// discarding unsaved changes. On error the previous state is kept.
func (l *Ledger) Reload() error {
	goal, err := l.loadGoal()
	if err != nil {
		return err
	}

	var entries []model.DailyLogEntry
	b, err := l.kv.Get(KeyDailyLogs)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("loading %s: %w", KeyDailyLogs, err)
	default:
		var merged int
		entries, merged, err = decodeLogs(b)
		if err != nil {
			return err
		}
		if merged > 0 {
			l.log.Warn("merged duplicate days in stored log", "records", merged)
		}
	}

	l.goal = goal
	l.entries = entries
	l.goalErr, l.logsErr = nil, nil
	l.log.Debug("ledger loaded", "entries", len(entries),
		"protein_goal", goal.ProteinGrams, "calorie_goal", goal.CalorieKcal)
	return nil
}

func (l *Ledger) loadGoal() (model.Goal, error) {
	var g model.Goal
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{KeyProteinGoal, &g.ProteinGrams},
		{KeyCalorieGoal, &g.CalorieKcal},
	} {
		b, err := l.kv.Get(f.key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return g, fmt.Errorf("loading %s: %w", f.key, err)
		}
		v, err := decodeNumber(f.key, b)
		if err != nil {
			return g, err
		}
		*f.dst = v
	}
	return g, nil
}

// Goals returns the current goal.
func (l *Ledger) Goals() model.Goal {
	return l.goal
}

// Today returns the current calendar day.
func (l *Ledger) Today() time.Time {
	return model.DayOf(l.now())
}

// Len returns the number of days with an entry.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// PersistErr returns the write failures behind any unsaved state, or nil
// when goals and logs both match the store.
func (l *Ledger) PersistErr() error {
	return errors.Join(l.logsErr, l.goalErr)
}

// SetGoals updates each goal component that is non-nil, finite and >= 0.
// Other components keep their previous value.
func (l *Ledger) SetGoals(protein, calories *float64) model.Goal {
	changed := false
	if v, ok := accept(protein); ok {
		l.goal.ProteinGrams = v
		changed = true
	}
	if v, ok := accept(calories); ok {
		l.goal.CalorieKcal = v
		changed = true
	}
	if changed {
		l.persistGoal()
	}
	return l.goal
}

// RecordIntake adds the amounts to today's entry.
func (l *Ledger) RecordIntake(protein, calories float64) model.DailyLogEntry {
	return l.RecordIntakeOn(l.now(), protein, calories)
}

// RecordIntakeOn adds the amounts to the entry for day, creating it if the
// day has none. Negative or non-finite amounts count as zero.
func (l *Ledger) RecordIntakeOn(day time.Time, protein, calories float64) model.DailyLogEntry {
	day = model.DayOf(day)
	p := nonNegative(protein)
	c := nonNegative(calories)

	idx := indexOfDay(l.entries, day)
	if idx < 0 {
		l.entries = append(l.entries, model.DailyLogEntry{Date: day})
		idx = len(l.entries) - 1
	}
	l.entries[idx].ProteinGrams = addCapped(l.entries[idx].ProteinGrams, p)
	l.entries[idx].CalorieKcal = addCapped(l.entries[idx].CalorieKcal, c)

	l.persistLogs()
	return l.entries[idx]
}

// DeleteEntry removes the entry for day and reports whether one existed.
func (l *Ledger) DeleteEntry(day time.Time) bool {
	idx := indexOfDay(l.entries, day)
	if idx < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, idx, idx+1)
	l.persistLogs()
	return true
}

// Entry returns the entry for day, if any.
func (l *Ledger) Entry(day time.Time) (model.DailyLogEntry, bool) {
	idx := indexOfDay(l.entries, day)
	if idx < 0 {
		return model.DailyLogEntry{Date: model.DayOf(day)}, false
	}
	return l.entries[idx], true
}

// ProgressForToday measures today's intake against the goal.
func (l *Ledger) ProgressForToday() model.Progress {
	return l.ProgressOn(l.now())
}

// ProgressOn measures the intake recorded for day against the goal.
func (l *Ledger) ProgressOn(day time.Time) model.Progress {
	e, _ := l.Entry(day)
	return model.Progress{
		Date:          e.Date,
		ProteinRatio:  ratio(e.ProteinGrams, l.goal.ProteinGrams),
		CalorieRatio:  ratio(e.CalorieKcal, l.goal.CalorieKcal),
		ProteinIntake: e.ProteinGrams,
		CalorieIntake: e.CalorieKcal,
		ProteinGoal:   l.goal.ProteinGrams,
		CalorieGoal:   l.goal.CalorieKcal,
	}
}

// History returns the entries as of this call, sorted by date. The sequence
// can be ranged over any number of times and does not see later changes.
func (l *Ledger) History(order model.Order) iter.Seq[model.DailyLogEntry] {
	snap := slices.Clone(l.entries)
	slices.SortStableFunc(snap, func(a, b model.DailyLogEntry) int {
		if order == model.Ascending {
			return a.Date.Compare(b.Date)
		}
		return b.Date.Compare(a.Date)
	})
	return slices.Values(snap)
}

func (l *Ledger) persistGoal() {
	l.goalErr = l.saveGoal()
	if l.logsErr != nil {
		l.logsErr = l.saveLogs()
	}
}

func (l *Ledger) persistLogs() {
	l.logsErr = l.saveLogs()
	if l.goalErr != nil {
		l.goalErr = l.saveGoal()
	}
}

func (l *Ledger) saveGoal() error {
	if err := l.persist(KeyProteinGoal, encodeNumber(l.goal.ProteinGrams)); err != nil {
		return err
	}
	return l.persist(KeyCalorieGoal, encodeNumber(l.goal.CalorieKcal))
}

func (l *Ledger) saveLogs() error {
	b, err := encodeLogs(l.entries)
	if err != nil {
		l.log.Warn("encoding daily logs failed", "error", err)
		return fmt.Errorf("encoding %s: %w", KeyDailyLogs, err)
	}
	return l.persist(KeyDailyLogs, b)
}

func (l *Ledger) persist(key string, value []byte) error {
	if err := l.kv.Set(key, value); err != nil {
		l.log.Warn("persist failed", "key", key, "error", err)
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

func indexOfDay(entries []model.DailyLogEntry, day time.Time) int {
	for i, e := range entries {
		if model.SameDay(e.Date, day) {
			return i
		}
	}
	return -1
}

func accept(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0, false
	}
	return *v, true
}

// ratio is intake/goal clamped to [0, 1]; a zero goal yields 0.
func ratio(intake, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return min(max(intake/goal, 0), 1)
}
