package ops

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/errors"
	"github.com/moorelegal/dossier/internal/pdf"
)

// ArchiveInput contains parameters for the Archive operation.
type ArchiveInput struct {
	ClientID string
	Path     string // optional, default: <export dir>/<nom>-<timestamp>.jsonl
}

// ArchiveOutput contains the result of the Archive operation.
type ArchiveOutput struct {
	Path       string `json:"path"`
	Entries    int    `json:"entries"`
	ArchivedAt int64  `json:"archived_at"`
}

// archiveHeader is the first line of a JSONL archive file.
type archiveHeader struct {
	DossierArchive bool   `json:"_dossier_archive"`
	SchemaVersion  string `json:"schema_version"`
	ArchivedAt     int64  `json:"archived_at"`
}

type archiveClient struct {
	ID        string `json:"id"`
	Nom       string `json:"nom"`
	Type      string `json:"type"`
	Telephone string `json:"telephone,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type archiveEntry struct {
	ID        string          `json:"id"`
	CreatedAt int64           `json:"created_at"`
	DocType   string          `json:"doc_type"`
	Ref       string          `json:"ref"`
	Descr     string          `json:"descr"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
}

// Archive writes a client dossier and its full ledger to a JSONL backup
// file: one header line, one client line, one line per history entry.
func Archive(ctx context.Context, database *sql.DB, cfg *config.Config, input ArchiveInput) (*ArchiveOutput, error) {
	c, err := loadClient(ctx, database, input.ClientID)
	if err != nil {
		return nil, err
	}

	entries, err := db.ListHistory(ctx, database, c.ID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now()
	path := input.Path
	if path == "" {
		dir, err := exportDir(cfg, "")
		if err != nil {
			return nil, err
		}
		name := pdf.SanitizeFilename(c.Nom)
		path = filepath.Join(dir, fmt.Sprintf("%s-%s.jsonl", name, now.Format("2006-01-02T150405")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.NewInternal(err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(archiveHeader{DossierArchive: true, SchemaVersion: "1.0", ArchivedAt: now.Unix()}); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := enc.Encode(archiveClient{ID: c.ID, Nom: c.Nom, Type: c.Type, Telephone: c.Telephone, Notes: c.Notes}); err != nil {
		return nil, errors.NewInternal(err)
	}
	for _, e := range entries {
		rec := archiveEntry{
			ID:        e.ID,
			CreatedAt: e.CreatedAt.Unix(),
			DocType:   e.DocType,
			Ref:       e.Ref,
			Descr:     e.Descr,
		}
		if e.Snapshot != "" {
			rec.Snapshot = json.RawMessage(e.Snapshot)
		}
		if err := enc.Encode(rec); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	if err := pdf.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return nil, err
	}

	return &ArchiveOutput{Path: path, Entries: len(entries), ArchivedAt: now.Unix()}, nil
}
