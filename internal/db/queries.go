package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Client is a dossier client row. Draft columns hold JSON or are NULL.
type Client struct {
	ID        string
	Nom       string
	Type      string
	Telephone string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryEntry is one row of the append-only generation ledger.
// Snapshot is the JSON document state at generation time, empty when absent.
type HistoryEntry struct {
	ID        string
	ClientID  string
	CreatedAt time.Time
	DocType   string
	Ref       string
	Descr     string
	Snapshot  string
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new ULID string. IDs sort lexicographically in creation order.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// InsertClient stores a new client row.
func InsertClient(ctx context.Context, database *sql.DB, c *Client) error {
	now := time.Now().Unix()
	_, err := database.ExecContext(ctx, `
		INSERT INTO clients (id, nom, type, telephone, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Nom, c.Type, nullString(c.Telephone), nullString(c.Notes), now, now)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	c.CreatedAt = time.Unix(now, 0)
	c.UpdatedAt = time.Unix(now, 0)
	return nil
}

// GetClientByID fetches a client. Returns sql.ErrNoRows when absent.
func GetClientByID(ctx context.Context, database *sql.DB, id string) (*Client, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, nom, type, telephone, notes, created_at, updated_at
		FROM clients WHERE id = ?`, id)
	return scanClient(row)
}

// ListClients returns all clients ordered by name.
func ListClients(ctx context.Context, database *sql.DB) ([]*Client, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, nom, type, telephone, notes, created_at, updated_at
		FROM clients ORDER BY nom, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// UpdateClientInfo patches telephone and notes.
func UpdateClientInfo(ctx context.Context, database *sql.DB, id, telephone, notes string) error {
	res, err := database.ExecContext(ctx, `
		UPDATE clients SET telephone = ?, notes = ?, updated_at = ? WHERE id = ?`,
		nullString(telephone), nullString(notes), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return checkAffected(res)
}

// draftColumn whitelists the saved-draft columns so they can be interpolated safely.
func draftColumn(field string) (string, error) {
	switch field {
	case "saved_ordonnance", "saved_contrat", "saved_plainte", "saved_facture":
		return field, nil
	}
	return "", fmt.Errorf("unknown draft column %q", field)
}

// GetDraft returns the stored draft JSON for the given column, or "" when none.
func GetDraft(ctx context.Context, database *sql.DB, clientID, field string) (string, error) {
	col, err := draftColumn(field)
	if err != nil {
		return "", err
	}
	var raw sql.NullString
	err = database.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM clients WHERE id = ?", col), clientID).Scan(&raw)
	if err != nil {
		return "", err
	}
	return raw.String, nil
}

// SetDraft stores draft JSON in the given column. Empty raw clears the draft.
func SetDraft(ctx context.Context, database *sql.DB, clientID, field, raw string) error {
	col, err := draftColumn(field)
	if err != nil {
		return err
	}
	res, err := database.ExecContext(ctx,
		fmt.Sprintf("UPDATE clients SET %s = ?, updated_at = ? WHERE id = ?", col),
		nullString(raw), time.Now().Unix(), clientID)
	if err != nil {
		return fmt.Errorf("set draft: %w", err)
	}
	return checkAffected(res)
}

// InsertHistory appends a ledger entry.
func InsertHistory(ctx context.Context, database *sql.DB, e *HistoryEntry) error {
	_, err := database.ExecContext(ctx, `
		INSERT INTO history (id, client_id, created_at, doc_type, ref, descr, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ClientID, e.CreatedAt.Unix(), e.DocType, e.Ref, e.Descr, nullString(e.Snapshot))
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// ListHistory returns a client's ledger entries, newest first.
func ListHistory(ctx context.Context, database *sql.DB, clientID string) ([]*HistoryEntry, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, client_id, created_at, doc_type, ref, descr, snapshot
		FROM history WHERE client_id = ? ORDER BY id DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetHistoryByID fetches one ledger entry. Returns sql.ErrNoRows when absent.
func GetHistoryByID(ctx context.Context, database *sql.DB, id string) (*HistoryEntry, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, client_id, created_at, doc_type, ref, descr, snapshot
		FROM history WHERE id = ?`, id)
	return scanHistory(row)
}

// DeleteHistory removes one ledger entry.
func DeleteHistory(ctx context.Context, database *sql.DB, id string) error {
	res, err := database.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return checkAffected(res)
}

// ClearHistory removes all ledger entries for a client and reports how many.
func ClearHistory(ctx context.Context, database *sql.DB, clientID string) (int64, error) {
	res, err := database.ExecContext(ctx, "DELETE FROM history WHERE client_id = ?", clientID)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*Client, error) {
	var c Client
	var telephone, notes sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(&c.ID, &c.Nom, &c.Type, &telephone, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Telephone = telephone.String
	c.Notes = notes.String
	c.CreatedAt = time.Unix(createdAt, 0)
	c.UpdatedAt = time.Unix(updatedAt, 0)
	return &c, nil
}

func scanHistory(row rowScanner) (*HistoryEntry, error) {
	var e HistoryEntry
	var snapshot sql.NullString
	var createdAt int64
	err := row.Scan(&e.ID, &e.ClientID, &createdAt, &e.DocType, &e.Ref, &e.Descr, &snapshot)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(createdAt, 0)
	e.Snapshot = snapshot.String
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
