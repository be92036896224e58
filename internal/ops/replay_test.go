package ops

import (
	"context"
	"testing"

	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/editor"
	"github.com/moorelegal/dossier/internal/errors"
)

func TestHistoryReplay_RestoresExportedState(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	id := addClient(t, database, "DUPONT")
	info := &document.ClientInfo{ID: id, Nom: "DUPONT"}

	draft := document.NewFacture(info)
	draft.RefFacture = "FAC-2026-100"
	draft.AddItem("Frais de dossier", 150)

	gen, err := Generate(ctx, database, testCfg(), &stubExporter{}, editor.NewGuard(), GenerateInput{
		ClientID: id, Type: document.TypeFacture, Draft: draft, Dir: t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Keep editing after export: replay must return the exported state,
	// not the current draft.
	draft.Items[0].Prix = 1
	draft.RefFacture = "FAC-2026-999"
	if _, err := DraftSave(ctx, database, testCfg(), DraftSaveInput{ClientID: id, Draft: draft}); err != nil {
		t.Fatal(err)
	}

	out, err := HistoryReplay(ctx, database, testCfg(), HistoryReplayInput{ID: gen.HistoryID})
	if err != nil {
		t.Fatalf("HistoryReplay() error = %v", err)
	}
	if out.ClientID != id || out.Type != document.TypeFacture {
		t.Errorf("replay meta = %+v", out)
	}
	f := out.Draft.(*document.FactureDraft)
	if f.RefFacture != "FAC-2026-100" {
		t.Errorf("RefFacture = %q, want exported value", f.RefFacture)
	}
	if f.Items[0].Prix != 5000 {
		t.Errorf("Items[0].Prix = %v, want exported value", f.Items[0].Prix)
	}
}

func TestHistoryReplay_NoSnapshot(t *testing.T) {
	database := testDB(t)
	id := addClient(t, database, "DUPONT")
	ids := seedHistory(t, database, id)

	// ids[2] is the ordonnance entry seeded without a snapshot.
	_, err := HistoryReplay(context.Background(), database, testCfg(), HistoryReplayInput{ID: ids[2]})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestHistoryReplay_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := HistoryReplay(context.Background(), database, testCfg(), HistoryReplayInput{ID: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}
