package ops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
	"github.com/moorelegal/dossier/internal/pdf"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testCfg() *config.Config {
	return config.DefaultConfig()
}

func addClient(t *testing.T, database *sql.DB, nom string) string {
	t.Helper()
	out, err := ClientAdd(context.Background(), database, testCfg(), ClientAddInput{Nom: nom})
	if err != nil {
		t.Fatalf("ClientAdd(%q) error = %v", nom, err)
	}
	return out.ID
}

// stubExporter satisfies pdf.Exporter without rasterizing anything.
type stubExporter struct {
	fail  bool
	calls int
}

func (s *stubExporter) Export(ctx context.Context, d document.Draft, dir string) (string, error) {
	s.calls++
	if s.fail {
		return "", errors.NewExportFailed(stderrors.New("simulated rasterizer failure"))
	}
	return filepath.Join(dir, pdf.Filename(d)), nil
}
