package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/moorelegal/dossier/internal/errors"
)

func TestArchive_WritesJSONL(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	id := addClient(t, database, "DUPONT")
	seedHistory(t, database, id)

	path := filepath.Join(t.TempDir(), "dupont.jsonl")
	out, err := Archive(ctx, database, testCfg(), ArchiveInput{ClientID: id, Path: path})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if out.Path != path || out.Entries != 4 {
		t.Errorf("output = %+v", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var obj map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
			t.Fatalf("line not JSON: %v", err)
		}
		lines = append(lines, obj)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	// Header, client, four entries.
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6", len(lines))
	}
	if lines[0]["_dossier_archive"] != true {
		t.Errorf("header = %v", lines[0])
	}
	if lines[1]["nom"] != "DUPONT" {
		t.Errorf("client line = %v", lines[1])
	}
	// Entries without a snapshot omit the field instead of writing null.
	for _, line := range lines[2:] {
		if snap, present := line["snapshot"]; present && snap == nil {
			t.Errorf("entry carries null snapshot: %v", line)
		}
	}
}

func TestArchive_DefaultPath(t *testing.T) {
	database := testDB(t)
	id := addClient(t, database, "DUPONT")

	cfg := testCfg()
	cfg.ExportDir = t.TempDir()
	out, err := Archive(context.Background(), database, cfg, ArchiveInput{ClientID: id})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if filepath.Dir(out.Path) != cfg.ExportDir {
		t.Errorf("path = %q, want under %q", out.Path, cfg.ExportDir)
	}
	if filepath.Ext(out.Path) != ".jsonl" {
		t.Errorf("path = %q, want .jsonl", out.Path)
	}
}

func TestArchive_ClientNotFound(t *testing.T) {
	database := testDB(t)

	_, err := Archive(context.Background(), database, testCfg(), ArchiveInput{ClientID: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}
