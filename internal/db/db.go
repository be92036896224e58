// Package db provides SQLite storage for clients and the document history ledger.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/moorelegal/dossier/internal/config"
)

const schemaVersion = 1

// Init opens (creating if necessary) the database under baseDir and runs migrations.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}

	dbPath := filepath.Join(baseDir, "dossier.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return database, nil
}

// ConfigurePool applies connection pool limits from config.
// Zero values leave the sql.DB defaults untouched.
func ConfigurePool(database *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

func migrate(database *sql.DB) error {
	var version int
	if err := database.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= schemaVersion {
		return nil
	}

	tx, err := database.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if version < 1 {
		if _, err := tx.Exec(schemaV1); err != nil {
			return fmt.Errorf("apply schema v1: %w", err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return tx.Commit()
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	nom TEXT NOT NULL,
	type TEXT NOT NULL,
	telephone TEXT,
	notes TEXT,
	saved_ordonnance TEXT,
	saved_contrat TEXT,
	saved_plainte TEXT,
	saved_facture TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
	id TEXT PRIMARY KEY,
	client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
	created_at INTEGER NOT NULL,
	doc_type TEXT NOT NULL,
	ref TEXT NOT NULL,
	descr TEXT NOT NULL,
	snapshot TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_client ON history(client_id, id);
CREATE INDEX IF NOT EXISTS idx_clients_nom ON clients(nom);
`
