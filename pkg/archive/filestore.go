package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names for the two persisted documents.
const (
	entriesFile    = "entries.json"
	sourceDataFile = "source_data.json"
)

// FileStore persists the archive as two JSON documents in a directory:
// entries.json (the issue index) and source_data.json (the per-source
// archive). This is the default backend.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads both documents, treating a missing file as empty history.
func (f *FileStore) Load(_ context.Context) (*State, error) {
	st := NewState()

	if err := readJSON(filepath.Join(f.dir, entriesFile), &st.Issues); err != nil {
		return nil, fmt.Errorf("load issue index: %w", err)
	}
	if err := readJSON(filepath.Join(f.dir, sourceDataFile), &st.Sources); err != nil {
		return nil, fmt.Errorf("load source archive: %w", err)
	}
	if st.Sources == nil {
		st.Sources = make(map[string][]DayEntry)
	}

	return st, nil
}

// Save writes each document to a temporary file and renames it into place.
// The source archive goes first and the issue index last: the index is the
// record of which dates exist, so a failure between the two leaves a
// readable archive rather than an index pointing at missing data.
func (f *FileStore) Save(_ context.Context, st *State) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if err := writeJSON(filepath.Join(f.dir, sourceDataFile), st.Sources); err != nil {
		return fmt.Errorf("save source archive: %w", err)
	}
	if err := writeJSON(filepath.Join(f.dir, entriesFile), st.Issues); err != nil {
		return fmt.Errorf("save issue index: %w", err)
	}

	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
