// Package ops implements the operations behind the CLI, web, and MCP
// surfaces. Each operation is a free function taking the database, the
// config, and a typed input struct.
package ops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
)

// ClientTypes are the accepted dossier categories.
var ClientTypes = []string{"individu", "entreprise", "organisation"}

func validClientType(t string) bool {
	for _, v := range ClientTypes {
		if t == v {
			return true
		}
	}
	return false
}

// loadClient fetches a client, mapping a missing row to NOT_FOUND.
func loadClient(ctx context.Context, database *sql.DB, id string) (*db.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewInvalidRequest("client_id is required")
	}
	c, err := db.GetClientByID(ctx, database, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound(id)
		}
		return nil, errors.NewInternal(err)
	}
	return c, nil
}

func clientInfo(c *db.Client) *document.ClientInfo {
	if c == nil {
		return nil
	}
	return &document.ClientInfo{ID: c.ID, Nom: c.Nom}
}

// exportDir resolves the PDF output directory: explicit override first,
// then the configured directory, then <home>/.dossier/exports.
func exportDir(cfg *config.Config, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if cfg != nil && cfg.ExportDir != "" {
		return cfg.ExportDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return filepath.Join(home, ".dossier", "exports"), nil
}

func defaultAvocat(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.DefaultAvocat
}
