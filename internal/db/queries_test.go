package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testClient(t *testing.T, database *sql.DB) *Client {
	t.Helper()
	c := &Client{
		ID:   NewID(),
		Nom:  "DUPONT",
		Type: "individu",
	}
	if err := InsertClient(context.Background(), database, c); err != nil {
		t.Fatalf("InsertClient() error = %v", err)
	}
	return c
}

func TestNewID_Sortable(t *testing.T) {
	a := NewID()
	b := NewID()
	if len(a) != 26 {
		t.Errorf("ULID length = %d, want 26", len(a))
	}
	if !(a < b) {
		t.Errorf("IDs not monotonic: %q then %q", a, b)
	}
}

func TestInsertAndGetClient(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	c := &Client{ID: NewID(), Nom: "MARTIN", Type: "entreprise", Telephone: "555-0102", Notes: "Dossier urgent"}
	if err := InsertClient(ctx, database, c); err != nil {
		t.Fatalf("InsertClient() error = %v", err)
	}

	got, err := GetClientByID(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("GetClientByID() error = %v", err)
	}
	if got.Nom != "MARTIN" || got.Type != "entreprise" {
		t.Errorf("got %q/%q, want MARTIN/entreprise", got.Nom, got.Type)
	}
	if got.Telephone != "555-0102" {
		t.Errorf("Telephone = %q", got.Telephone)
	}
	if got.Notes != "Dossier urgent" {
		t.Errorf("Notes = %q", got.Notes)
	}
}

func TestGetClientByID_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := GetClientByID(context.Background(), database, "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestListClients_OrderedByName(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	for _, nom := range []string{"ZOLA", "AUBERT", "MARTIN"} {
		c := &Client{ID: NewID(), Nom: nom, Type: "individu"}
		if err := InsertClient(ctx, database, c); err != nil {
			t.Fatal(err)
		}
	}

	clients, err := ListClients(ctx, database)
	if err != nil {
		t.Fatalf("ListClients() error = %v", err)
	}
	if len(clients) != 3 {
		t.Fatalf("len = %d, want 3", len(clients))
	}
	want := []string{"AUBERT", "MARTIN", "ZOLA"}
	for i, c := range clients {
		if c.Nom != want[i] {
			t.Errorf("clients[%d].Nom = %q, want %q", i, c.Nom, want[i])
		}
	}
}

func TestUpdateClientInfo(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	c := testClient(t, database)

	if err := UpdateClientInfo(ctx, database, c.ID, "555-0199", "Rappeler lundi"); err != nil {
		t.Fatalf("UpdateClientInfo() error = %v", err)
	}

	got, err := GetClientByID(ctx, database, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Telephone != "555-0199" || got.Notes != "Rappeler lundi" {
		t.Errorf("got %q/%q", got.Telephone, got.Notes)
	}
}

func TestUpdateClientInfo_NotFound(t *testing.T) {
	database := testDB(t)

	err := UpdateClientInfo(context.Background(), database, "missing", "", "")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	c := testClient(t, database)

	raw, err := GetDraft(ctx, database, c.ID, "saved_facture")
	if err != nil {
		t.Fatalf("GetDraft() error = %v", err)
	}
	if raw != "" {
		t.Errorf("fresh draft = %q, want empty", raw)
	}

	payload := `{"ref_facture":"FAC-2026-042"}`
	if err := SetDraft(ctx, database, c.ID, "saved_facture", payload); err != nil {
		t.Fatalf("SetDraft() error = %v", err)
	}

	raw, err = GetDraft(ctx, database, c.ID, "saved_facture")
	if err != nil {
		t.Fatal(err)
	}
	if raw != payload {
		t.Errorf("draft = %q, want %q", raw, payload)
	}

	// Clearing stores NULL again.
	if err := SetDraft(ctx, database, c.ID, "saved_facture", ""); err != nil {
		t.Fatal(err)
	}
	raw, err = GetDraft(ctx, database, c.ID, "saved_facture")
	if err != nil {
		t.Fatal(err)
	}
	if raw != "" {
		t.Errorf("cleared draft = %q, want empty", raw)
	}
}

func TestDraft_UnknownColumn(t *testing.T) {
	database := testDB(t)
	c := testClient(t, database)

	if _, err := GetDraft(context.Background(), database, c.ID, "saved_requete"); err == nil {
		t.Error("GetDraft() expected error for unknown column")
	}
	if err := SetDraft(context.Background(), database, c.ID, "nom", "x"); err == nil {
		t.Error("SetDraft() expected error for non-draft column")
	}
}

func TestHistory_AppendListDelete(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	c := testClient(t, database)

	for i, ref := range []string{"FAC-2026-001", "FAC-2026-002"} {
		e := &HistoryEntry{
			ID:        NewID(),
			ClientID:  c.ID,
			CreatedAt: time.Now(),
			DocType:   "FACTURE",
			Ref:       ref,
			Descr:     "Montant: 5150.00$",
		}
		if i == 1 {
			e.Snapshot = `{"ref_facture":"FAC-2026-002"}`
		}
		if err := InsertHistory(ctx, database, e); err != nil {
			t.Fatalf("InsertHistory() error = %v", err)
		}
	}

	entries, err := ListHistory(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("ListHistory() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Ref != "FAC-2026-002" {
		t.Errorf("entries[0].Ref = %q, want newest first", entries[0].Ref)
	}
	if entries[0].Snapshot == "" {
		t.Error("entries[0].Snapshot missing")
	}
	if entries[1].Snapshot != "" {
		t.Errorf("entries[1].Snapshot = %q, want empty", entries[1].Snapshot)
	}

	got, err := GetHistoryByID(ctx, database, entries[0].ID)
	if err != nil {
		t.Fatalf("GetHistoryByID() error = %v", err)
	}
	if got.Descr != "Montant: 5150.00$" {
		t.Errorf("Descr = %q", got.Descr)
	}

	if err := DeleteHistory(ctx, database, entries[0].ID); err != nil {
		t.Fatalf("DeleteHistory() error = %v", err)
	}
	entries, err = ListHistory(ctx, database, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("len = %d after delete, want 1", len(entries))
	}
}

func TestDeleteHistory_NotFound(t *testing.T) {
	database := testDB(t)

	err := DeleteHistory(context.Background(), database, "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestClearHistory(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	c := testClient(t, database)
	other := &Client{ID: NewID(), Nom: "AUTRE", Type: "individu"}
	if err := InsertClient(ctx, database, other); err != nil {
		t.Fatal(err)
	}

	for _, cid := range []string{c.ID, c.ID, other.ID} {
		e := &HistoryEntry{ID: NewID(), ClientID: cid, CreatedAt: time.Now(), DocType: "CONTRAT", Ref: "REF-0001", Descr: "Mandat de défense"}
		if err := InsertHistory(ctx, database, e); err != nil {
			t.Fatal(err)
		}
	}

	n, err := ClearHistory(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}
	if n != 2 {
		t.Errorf("cleared = %d, want 2", n)
	}

	remaining, err := ListHistory(ctx, database, other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 {
		t.Errorf("other client history = %d, want untouched 1", len(remaining))
	}
}
