package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ai-briefing/pkg/domain"
)

func TestFileStoreFirstRun(t *testing.T) {
	store := NewFileStore(t.TempDir())

	st, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on empty dir failed: %v", err)
	}
	if len(st.Issues) != 0 {
		t.Errorf("Expected empty issue index, got %d entries", len(st.Issues))
	}
	if st.Sources == nil {
		t.Error("Sources map must be non-nil after a first-run load")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	st := NewState()
	if err := st.Merge("2025-06-01", "June 1, 2025", domain.RunResult{
		"techcrunch": {
			{Title: "New model ships", Link: "https://example.com/a", Summary: "A summary."},
		},
	}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Issues, st.Issues) {
		t.Errorf("Issue index changed across save/load: %+v", loaded.Issues)
	}
	if !reflect.DeepEqual(loaded.Sources, st.Sources) {
		t.Errorf("Source archive changed across save/load: %+v", loaded.Sources)
	}
}

func TestFileStoreWritesExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	st := NewState()
	if err := st.Merge("2025-06-01", "June 1, 2025", domain.RunResult{
		"verge": {{Title: "Headline", Link: "https://example.com/v"}},
	}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The persisted documents carry the historical key names.
	data, err := os.ReadFile(filepath.Join(dir, "entries.json"))
	if err != nil {
		t.Fatalf("Reading entries.json failed: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("entries.json is not valid JSON: %v", err)
	}
	if len(raw) != 1 || raw[0]["date_str"] != "2025-06-01" {
		t.Errorf("Unexpected entries.json content: %v", raw)
	}
	if _, ok := raw[0]["display_date"]; !ok {
		t.Error("entries.json missing display_date key")
	}

	if _, err := os.Stat(filepath.Join(dir, "source_data.json")); err != nil {
		t.Errorf("source_data.json not written: %v", err)
	}

	// No temp files may be left behind after a successful save.
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".tmp") {
			t.Errorf("Leftover temp file: %s", f.Name())
		}
	}
}

func TestFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := NewFileStore(dir)

	if err := store.Save(context.Background(), NewState()); err != nil {
		t.Fatalf("Save into missing dir failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "entries.json")); err != nil {
		t.Errorf("entries.json not written: %v", err)
	}
}
