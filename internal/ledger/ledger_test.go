package ledger

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/theirongolddev/mcro/internal/model"
	"github.com/theirongolddev/mcro/internal/store"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(model.DayLayout, s, time.Local)
	if err != nil {
		t.Fatalf("parse day %q: %v", s, err)
	}
	return d
}

func ptr(v float64) *float64 { return &v }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openAt opens a ledger over kv whose clock is fixed at 09:30 on today.
func openAt(t *testing.T, kv store.KV, today string) *Ledger {
	t.Helper()
	now := day(t, today).Add(9*time.Hour + 30*time.Minute)
	l, err := Open(kv, WithClock(func() time.Time { return now }), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return l
}

func collect(l *Ledger, order model.Order) []model.DailyLogEntry {
	return slices.Collect(l.History(order))
}

func TestOpenEmptyStore(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-01")
	if g := l.Goals(); g.ProteinGrams != 0 || g.CalorieKcal != 0 {
		t.Fatalf("default goal = %+v, want zero", g)
	}
	if g := l.Goals(); g.IsSet() {
		t.Fatal("zero goal reported as set")
	}
	if l.Len() != 0 {
		t.Fatalf("Len = %d, want 0", l.Len())
	}
}

func TestRecordIntakeMergesSameDay(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-05")
	d := day(t, "2024-01-01")

	l.RecordIntakeOn(d.Add(8*time.Hour), 50, 600)
	got := l.RecordIntakeOn(d.Add(20*time.Hour), 60, 500)

	if got.ProteinGrams != 110 || got.CalorieKcal != 1100 {
		t.Fatalf("returned entry = %+v, want 110/1100", got)
	}
	if !got.Date.Equal(d) {
		t.Errorf("entry date = %v, want %v", got.Date, d)
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (one entry per day)", l.Len())
	}
}

func TestRecordIntakeSeparateDays(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-05")
	l.RecordIntakeOn(day(t, "2024-01-01"), 10, 100)
	l.RecordIntakeOn(day(t, "2024-01-02"), 20, 200)
	l.RecordIntakeOn(day(t, "2024-01-01"), 5, 50)

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	e, ok := l.Entry(day(t, "2024-01-01"))
	if !ok || e.ProteinGrams != 15 || e.CalorieKcal != 150 {
		t.Fatalf("2024-01-01 = %+v (ok=%v), want 15/150", e, ok)
	}
}

func TestRecordIntakeDefaultsToToday(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-03-10")
	e := l.RecordIntake(30, 400)
	if !e.Date.Equal(day(t, "2024-03-10")) {
		t.Fatalf("entry date = %v, want 2024-03-10", e.Date)
	}
}

func TestRecordIntakeIgnoresInvalidAmounts(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-01")
	l.RecordIntake(40, 500)

	tests := []struct {
		name     string
		protein  float64
		calories float64
	}{
		{"negative protein", -10, 0},
		{"negative calories", 0, -300},
		{"NaN", math.NaN(), math.NaN()},
		{"Inf", math.Inf(1), math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := l.RecordIntake(tt.protein, tt.calories)
			if e.ProteinGrams != 40 || e.CalorieKcal != 500 {
				t.Fatalf("entry = %+v, want unchanged 40/500", e)
			}
		})
	}

	e := l.RecordIntake(-1, 100)
	if e.ProteinGrams != 40 || e.CalorieKcal != 600 {
		t.Fatalf("mixed input entry = %+v, want 40/600", e)
	}
}

func TestRecordIntakeInvalidStillCreatesDay(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-01")
	e := l.RecordIntake(-5, -5)
	if e.ProteinGrams != 0 || e.CalorieKcal != 0 {
		t.Fatalf("entry = %+v, want zero totals", e)
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
}

func TestSetGoals(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-01")
	l.SetGoals(ptr(150), ptr(2000))

	g := l.SetGoals(ptr(-5), ptr(100))
	if g.ProteinGrams != 150 {
		t.Errorf("protein goal = %v, want unchanged 150", g.ProteinGrams)
	}
	if g.CalorieKcal != 100 {
		t.Errorf("calorie goal = %v, want 100", g.CalorieKcal)
	}

	g = l.SetGoals(nil, ptr(math.NaN()))
	if g.ProteinGrams != 150 || g.CalorieKcal != 100 {
		t.Errorf("goal after absent/NaN = %+v, want 150/100", g)
	}

	g = l.SetGoals(ptr(0), nil)
	if g.ProteinGrams != 0 {
		t.Errorf("protein goal = %v, want 0 (zero is accepted)", g.ProteinGrams)
	}
}

func TestDeleteEntry(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-05")
	l.RecordIntakeOn(day(t, "2024-01-01"), 1, 1)
	l.RecordIntakeOn(day(t, "2024-01-02"), 2, 2)

	if l.DeleteEntry(day(t, "2024-01-03")) {
		t.Fatal("DeleteEntry on empty day returned true")
	}
	if l.Len() != 2 {
		t.Fatalf("Len after no-op delete = %d, want 2", l.Len())
	}

	if !l.DeleteEntry(day(t, "2024-01-01").Add(15 * time.Hour)) {
		t.Fatal("DeleteEntry on existing day returned false")
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	if _, ok := l.Entry(day(t, "2024-01-01")); ok {
		t.Error("deleted day still present")
	}
	if _, ok := l.Entry(day(t, "2024-01-02")); !ok {
		t.Error("other day was removed")
	}
}

func TestProgressExactRatios(t *testing.T) {
	tests := []struct {
		pg, cg, p, c float64
	}{
		{150, 2000, 0, 0},
		{150, 2000, 75, 1000},
		{150, 2000, 150, 2000},
		{3, 7, 1, 2},
		{0.5, 1e6, 0.25, 333333},
	}
	for _, tt := range tests {
		l := openAt(t, store.NewMemory(), "2024-01-01")
		l.SetGoals(ptr(tt.pg), ptr(tt.cg))
		l.RecordIntake(tt.p, tt.c)

		pr := l.ProgressForToday()
		if pr.ProteinRatio != tt.p/tt.pg {
			t.Errorf("ProteinRatio(%v/%v) = %v, want %v", tt.p, tt.pg, pr.ProteinRatio, tt.p/tt.pg)
		}
		if pr.CalorieRatio != tt.c/tt.cg {
			t.Errorf("CalorieRatio(%v/%v) = %v, want %v", tt.c, tt.cg, pr.CalorieRatio, tt.c/tt.cg)
		}
	}
}

func TestProgressZeroGoal(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-01")
	l.SetGoals(ptr(0), ptr(2000))
	l.RecordIntake(500, 100)

	pr := l.ProgressForToday()
	if pr.ProteinRatio != 0 {
		t.Errorf("ProteinRatio with zero goal = %v, want 0", pr.ProteinRatio)
	}
	if pr.ProteinIntake != 500 {
		t.Errorf("ProteinIntake = %v, want 500", pr.ProteinIntake)
	}
	if pr.CalorieRatio != 0.05 {
		t.Errorf("CalorieRatio = %v, want 0.05", pr.CalorieRatio)
	}
}

func TestProgressClampsAtOne(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-01")
	l.SetGoals(ptr(100), ptr(1000))
	l.RecordIntake(250, 1001)

	pr := l.ProgressForToday()
	if pr.ProteinRatio != 1 || pr.CalorieRatio != 1 {
		t.Fatalf("ratios = %v/%v, want 1/1", pr.ProteinRatio, pr.CalorieRatio)
	}
	if pr.ProteinIntake != 250 || pr.CalorieIntake != 1001 {
		t.Errorf("raw intake = %v/%v, want 250/1001", pr.ProteinIntake, pr.CalorieIntake)
	}
}

func TestProgressNoEntryToday(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-02")
	l.SetGoals(ptr(100), ptr(1000))
	l.RecordIntakeOn(day(t, "2024-01-01"), 80, 800)

	pr := l.ProgressForToday()
	if pr.ProteinIntake != 0 || pr.CalorieIntake != 0 || pr.ProteinRatio != 0 || pr.CalorieRatio != 0 {
		t.Fatalf("progress = %+v, want zero intake", pr)
	}
	if pr.ProteinGoal != 100 || pr.CalorieGoal != 1000 {
		t.Errorf("goal values = %v/%v, want 100/1000", pr.ProteinGoal, pr.CalorieGoal)
	}
}

func TestScenario(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-01")
	l.SetGoals(ptr(150), ptr(2000))
	l.RecordIntakeOn(day(t, "2024-01-01"), 50, 600)
	l.RecordIntakeOn(day(t, "2024-01-01"), 60, 500)

	entries := collect(l, model.Ascending)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if !e.Date.Equal(day(t, "2024-01-01")) || e.ProteinGrams != 110 || e.CalorieKcal != 1100 {
		t.Fatalf("entry = %+v, want 2024-01-01 110/1100", e)
	}

	pr := l.ProgressForToday()
	if math.Abs(pr.ProteinRatio-0.7333) > 1e-3 {
		t.Errorf("ProteinRatio = %v, want ~0.733", pr.ProteinRatio)
	}
	if pr.CalorieRatio != 0.55 {
		t.Errorf("CalorieRatio = %v, want 0.55", pr.CalorieRatio)
	}
}

func TestHistoryOrderAndSnapshot(t *testing.T) {
	l := openAt(t, store.NewMemory(), "2024-01-10")
	l.RecordIntakeOn(day(t, "2024-01-03"), 3, 3)
	l.RecordIntakeOn(day(t, "2024-01-01"), 1, 1)
	l.RecordIntakeOn(day(t, "2024-01-02"), 2, 2)

	asc := collect(l, model.Ascending)
	desc := collect(l, model.Descending)
	if len(asc) != 3 || len(desc) != 3 {
		t.Fatalf("lengths = %d/%d, want 3/3", len(asc), len(desc))
	}
	for i, want := range []float64{1, 2, 3} {
		if asc[i].ProteinGrams != want {
			t.Errorf("asc[%d] = %v, want %v", i, asc[i].ProteinGrams, want)
		}
		if desc[2-i].ProteinGrams != want {
			t.Errorf("desc[%d] = %v, want %v", 2-i, desc[2-i].ProteinGrams, want)
		}
	}

	seq := l.History(model.Ascending)
	l.RecordIntakeOn(day(t, "2024-01-04"), 4, 4)
	l.DeleteEntry(day(t, "2024-01-01"))

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("snapshot lengths = %d/%d, want 3/3", len(first), len(second))
	}
	if first[0].ProteinGrams != 1 {
		t.Errorf("snapshot sees later delete: first = %+v", first[0])
	}

	// early break
	n := 0
	for range l.History(model.Descending) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterations after break = %d, want 1", n)
	}
}

func TestPersistAndReopen(t *testing.T) {
	kv := store.NewMemory()
	l := openAt(t, kv, "2024-01-02")
	l.SetGoals(ptr(150), ptr(2000.5))
	l.RecordIntakeOn(day(t, "2024-01-01"), 50.5, 600)
	l.RecordIntake(10, 100)

	raw, err := kv.Get(KeyProteinGoal)
	if err != nil || string(raw) != "150" {
		t.Fatalf("stored proteinGoal = %q (%v), want 150", raw, err)
	}

	re := openAt(t, kv, "2024-01-02")
	if g := re.Goals(); g.ProteinGrams != 150 || g.CalorieKcal != 2000.5 {
		t.Fatalf("reloaded goal = %+v", g)
	}
	got := collect(re, model.Ascending)
	want := collect(l, model.Ascending)
	if len(got) != len(want) {
		t.Fatalf("reloaded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Date.Equal(want[i].Date) || got[i].ProteinGrams != want[i].ProteinGrams ||
			got[i].CalorieKcal != want[i].CalorieKcal {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if !re.DeleteEntry(day(t, "2024-01-01")) {
		t.Fatal("delete after reopen failed")
	}
	if again := openAt(t, kv, "2024-01-02"); again.Len() != 1 {
		t.Fatalf("after delete + reopen Len = %d, want 1", again.Len())
	}
}

func TestOpenMergesLegacyRecords(t *testing.T) {
	kv := store.NewMemory()
	legacy := `[
		{"date":"2024-01-01T08:00:00Z","proteinIntake":20,"calorieIntake":200},
		{"date":"2024-01-03","proteinIntake":5,"calorieIntake":50},
		{"date":"2024-01-01T08:00:00Z","proteinIntake":30,"calorieIntake":300},
		{"date":"2024-01-03","proteinIntake":-4,"calorieIntake":10}
	]`
	if err := kv.Set(KeyDailyLogs, []byte(legacy)); err != nil {
		t.Fatal(err)
	}

	l := openAt(t, kv, "2024-01-03")
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after merging", l.Len())
	}
	jan1 := model.DayOf(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	e, ok := l.Entry(jan1)
	if !ok || e.ProteinGrams != 50 || e.CalorieKcal != 500 {
		t.Errorf("merged instant day = %+v (ok=%v), want 50/500", e, ok)
	}
	e, _ = l.Entry(day(t, "2024-01-03"))
	if e.ProteinGrams != 5 || e.CalorieKcal != 60 {
		t.Errorf("merged day = %+v, want 5/60", e)
	}
}

func TestOpenRejectsCorruptState(t *testing.T) {
	for key, val := range map[string]string{
		KeyDailyLogs:   `{"not":"a list"}`,
		KeyProteinGoal: "lots",
	} {
		kv := store.NewMemory()
		_ = kv.Set(key, []byte(val))
		if _, err := Open(kv, WithLogger(quietLogger())); err == nil {
			t.Errorf("Open with corrupt %s succeeded", key)
		}
	}

	kv := store.NewMemory()
	_ = kv.Set(KeyDailyLogs, []byte(`[{"date":"yesterday-ish","proteinIntake":1,"calorieIntake":1}]`))
	if _, err := Open(kv, WithLogger(quietLogger())); err == nil {
		t.Error("Open with bad date succeeded")
	}
}

// flakyKV fails every Set while broken is true.
type flakyKV struct {
	*store.Memory
	broken bool
}

func (f *flakyKV) Set(key string, value []byte) error {
	if f.broken {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	kv := &flakyKV{Memory: store.NewMemory()}
	l := openAt(t, kv, "2024-01-01")

	kv.broken = true
	e := l.RecordIntake(25, 250)
	if e.ProteinGrams != 25 {
		t.Fatalf("entry = %+v, want 25 protein despite write failure", e)
	}
	if l.PersistErr() == nil {
		t.Fatal("PersistErr = nil after failed write")
	}
	if pr := l.ProgressForToday(); pr.ProteinIntake != 25 {
		t.Errorf("in-memory intake = %v, want 25", pr.ProteinIntake)
	}

	kv.broken = false
	l.RecordIntake(5, 50)
	if err := l.PersistErr(); err != nil {
		t.Fatalf("PersistErr after recovery = %v", err)
	}
	re := openAt(t, kv, "2024-01-01")
	if e, _ := re.Entry(day(t, "2024-01-01")); e.ProteinGrams != 30 || e.CalorieKcal != 300 {
		t.Errorf("persisted after recovery = %+v, want 30/300", e)
	}
}

// keyFailKV fails Set for the keys in failing.
type keyFailKV struct {
	*store.Memory
	failing map[string]bool
}

func (f *keyFailKV) Set(key string, value []byte) error {
	if f.failing[key] {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

func TestUnsavedLogsSurviveGoalWrite(t *testing.T) {
	kv := &keyFailKV{Memory: store.NewMemory(), failing: map[string]bool{}}
	l := openAt(t, kv, "2024-01-01")

	kv.failing[KeyDailyLogs] = true
	l.RecordIntake(40, 400)
	l.SetGoals(ptr(150), ptr(2000))
	if l.PersistErr() == nil {
		t.Fatal("PersistErr = nil while daily logs are unsaved")
	}
	if g := openAt(t, kv, "2024-01-01").Goals(); g.ProteinGrams != 150 {
		t.Errorf("stored goal = %+v, want 150 protein", g)
	}

	kv.failing[KeyDailyLogs] = false
	l.SetGoals(ptr(160), nil)
	if err := l.PersistErr(); err != nil {
		t.Fatalf("PersistErr after recovery = %v", err)
	}
	re := openAt(t, kv, "2024-01-01")
	if e, ok := re.Entry(day(t, "2024-01-01")); !ok || e.ProteinGrams != 40 || e.CalorieKcal != 400 {
		t.Errorf("stored entry = %+v (ok=%v), want 40/400", e, ok)
	}
	if g := re.Goals(); g.ProteinGrams != 160 || g.CalorieKcal != 2000 {
		t.Errorf("stored goal = %+v, want 160/2000", g)
	}
}

func TestUnsavedGoalsSurviveLogWrite(t *testing.T) {
	kv := &keyFailKV{Memory: store.NewMemory(), failing: map[string]bool{KeyCalorieGoal: true}}
	l := openAt(t, kv, "2024-01-01")

	l.SetGoals(ptr(120), ptr(1800))
	l.RecordIntake(10, 100)
	if l.PersistErr() == nil {
		t.Fatal("PersistErr = nil while goals are unsaved")
	}

	kv.failing[KeyCalorieGoal] = false
	l.RecordIntake(5, 50)
	if err := l.PersistErr(); err != nil {
		t.Fatalf("PersistErr after recovery = %v", err)
	}
	if g := openAt(t, kv, "2024-01-01").Goals(); g.ProteinGrams != 120 || g.CalorieKcal != 1800 {
		t.Errorf("stored goal = %+v, want 120/1800", g)
	}
}

func TestRecordIntakeSaturatesTotals(t *testing.T) {
	kv := store.NewMemory()
	l := openAt(t, kv, "2024-01-01")

	l.RecordIntake(1e308, 0)
	e := l.RecordIntake(1e308, 0)
	if math.IsInf(e.ProteinGrams, 0) || e.ProteinGrams != math.MaxFloat64 {
		t.Fatalf("protein = %v, want MaxFloat64", e.ProteinGrams)
	}
	if err := l.PersistErr(); err != nil {
		t.Fatalf("PersistErr = %v", err)
	}

	l.RecordIntakeOn(day(t, "2024-01-02"), 10, 10)
	if err := l.PersistErr(); err != nil {
		t.Fatalf("PersistErr after later add = %v", err)
	}
	re := openAt(t, kv, "2024-01-01")
	if re.Len() != 2 {
		t.Errorf("stored days = %d, want 2", re.Len())
	}
	if e, _ := re.Entry(day(t, "2024-01-01")); e.ProteinGrams != math.MaxFloat64 {
		t.Errorf("stored protein = %v, want MaxFloat64", e.ProteinGrams)
	}
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	kv := store.NewMemory()
	a := openAt(t, kv, "2024-01-01")
	b := openAt(t, kv, "2024-01-01")

	b.RecordIntake(12, 120)
	b.SetGoals(ptr(100), nil)

	if a.Len() != 0 {
		t.Fatal("a changed before reload")
	}
	if err := a.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if pr := a.ProgressForToday(); pr.ProteinIntake != 12 || pr.ProteinGoal != 100 {
		t.Errorf("after reload progress = %+v", pr)
	}
}
