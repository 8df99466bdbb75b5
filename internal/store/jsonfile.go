package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// JSONFile is a KV kept in one human-readable JSON object on disk.
// Compact JSON values other than strings are stored inline; every other
// value is stored as a JSON string. Get returns the bytes given to Set.
// The file is re-read whenever its size or modification time changes, so
// writes made by another process are visible to the next call.
type JSONFile struct {
	path string
	data map[string]json.RawMessage

	modTime time.Time
	size    int64
}

// OpenJSON loads path, or starts empty if it does not exist yet.
func OpenJSON(path string) (*JSONFile, error) {
	f := &JSONFile{path: path, data: make(map[string]json.RawMessage)}
	if err := f.sync(); err != nil {
		return nil, err
	}
	return f, nil
}

// sync re-reads the file if it changed since it was last read or written.
func (f *JSONFile) sync() error {
	info, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.ModTime().Equal(f.modTime) && info.Size() == f.size {
		return nil
	}

	b, err := os.ReadFile(f.path) //nolint:gosec // path comes from config
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	data := make(map[string]json.RawMessage)
	if len(b) > 0 {
		if err := json.Unmarshal(b, &data); err != nil {
			return fmt.Errorf("json unmarshal: %w", err)
		}
	}
	f.data = data
	f.modTime, f.size = info.ModTime(), info.Size()
	return nil
}

// Get returns the stored value for key, or ErrNotFound.
func (f *JSONFile) Get(key string) ([]byte, error) {
	if err := f.sync(); err != nil {
		return nil, err
	}
	raw, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return decodeValue(raw)
}

// Set stores value under key and rewrites the file.
func (f *JSONFile) Set(key string, value []byte) error {
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}

	if err := f.sync(); err != nil {
		return err
	}

	prev, had := f.data[key]
	f.data[key] = raw
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func encodeValue(value []byte) (json.RawMessage, error) {
	if json.Valid(value) && value[0] != '"' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, value); err == nil && bytes.Equal(buf.Bytes(), value) {
			return json.RawMessage(value), nil
		}
	}
	quoted, err := json.Marshal(string(value))
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return quoted, nil
}

func decodeValue(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("json compact: %w", err)
	}
	if buf.Len() > 0 && buf.Bytes()[0] == '"' {
		var s string
		if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
		return []byte(s), nil
	}
	return buf.Bytes(), nil
}

// Keys returns every stored key in lexical order.
func (f *JSONFile) Keys() ([]string, error) {
	if err := f.sync(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; every Set is already on disk.
func (f *JSONFile) Close() error { return nil }

func (f *JSONFile) flush() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f.data); err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b := buf.Bytes()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mcro-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	if info, err := os.Stat(f.path); err == nil {
		f.modTime, f.size = info.ModTime(), info.Size()
	}
	return nil
}
