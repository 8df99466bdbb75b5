package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/theirongolddev/mcro/internal/store"
)

func TestStoredKeys(t *testing.T) {
	dir := t.TempDir()

	keys, err := storedKeys(store.BackendJSON, dir)
	if err != nil || keys != nil {
		t.Fatalf("storedKeys on empty dir = %v, %v; want nil, nil", keys, err)
	}
	if _, err := os.Stat(store.Path(store.BackendJSON, dir)); !os.IsNotExist(err) {
		t.Fatal("storedKeys created the data file")
	}

	kv, err := store.Open(store.BackendJSON, dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = kv.Set("proteinGoal", []byte("150"))
	_ = kv.Set("dailyLogs", []byte("[]"))
	_ = kv.Close()

	keys, err = storedKeys(store.BackendJSON, dir)
	if err != nil {
		t.Fatalf("storedKeys: %v", err)
	}
	if !slices.Equal(keys, []string{"dailyLogs", "proteinGoal"}) {
		t.Errorf("keys = %v, want [dailyLogs proteinGoal]", keys)
	}
}

func TestExportToFile(t *testing.T) {
	doc := exportDoc{
		Goals: exportGoals{ProteinGrams: 150, CalorieKcal: 2000},
		Days:  []exportDay{{Date: "2024-01-01", ProteinGrams: 40, CalorieKcal: 400}},
	}
	path := filepath.Join(t.TempDir(), "out.json")
	if err := exportToFile(path, doc, "json"); err != nil {
		t.Fatalf("exportToFile: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got exportDoc
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if got.Goals != doc.Goals || len(got.Days) != 1 || got.Days[0] != doc.Days[0] {
		t.Errorf("export = %+v, want %+v", got, doc)
	}
}

func TestExportToFileReportsErrors(t *testing.T) {
	doc := exportDoc{}
	if err := exportToFile(filepath.Join(t.TempDir(), "missing", "out.json"), doc, "json"); err == nil {
		t.Error("export into a missing directory succeeded")
	}
	if err := exportToFile(filepath.Join(t.TempDir(), "out.txt"), doc, "csv"); err == nil {
		t.Error("export with an unknown format succeeded")
	}
}
