package ops

import (
	"context"
	"testing"

	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
)

func TestDraftFetch_DefaultsWhenUnsaved(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	id := addClient(t, database, "DUPONT")

	out, err := DraftFetch(ctx, database, testCfg(), DraftFetchInput{ClientID: id, Type: document.TypeFacture})
	if err != nil {
		t.Fatalf("DraftFetch() error = %v", err)
	}
	if out.Saved {
		t.Error("Saved = true for fresh client")
	}
	f := out.Draft.(*document.FactureDraft)
	if f.Client != "DUPONT" {
		t.Errorf("defaults not parameterized by client: %q", f.Client)
	}
	if len(f.Items) != 1 || f.Items[0].Prix != 5000 {
		t.Errorf("default items = %+v", f.Items)
	}
}

func TestDraftSaveFetch_RoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	id := addClient(t, database, "DUPONT")

	draft := document.NewFacture(&document.ClientInfo{ID: id, Nom: "DUPONT"})
	draft.AddItem("Frais de dossier", 150)
	draft.FraisTaux = 10

	if _, err := DraftSave(ctx, database, testCfg(), DraftSaveInput{ClientID: id, Draft: draft}); err != nil {
		t.Fatalf("DraftSave() error = %v", err)
	}

	out, err := DraftFetch(ctx, database, testCfg(), DraftFetchInput{ClientID: id, Type: document.TypeFacture})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Saved {
		t.Error("Saved = false after save")
	}
	got := out.Draft.(*document.FactureDraft)
	if len(got.Items) != 2 || got.Items[1].Description != "Frais de dossier" {
		t.Errorf("items lost in round trip: %+v", got.Items)
	}
	if got.FraisTaux != 10 {
		t.Errorf("FraisTaux = %v", got.FraisTaux)
	}

	// Each type's slot is independent.
	other, err := DraftFetch(ctx, database, testCfg(), DraftFetchInput{ClientID: id, Type: document.TypeContrat})
	if err != nil {
		t.Fatal(err)
	}
	if other.Saved {
		t.Error("contrat slot unexpectedly saved")
	}
}

func TestDraftSave_LastWriteWins(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	id := addClient(t, database, "DUPONT")
	info := &document.ClientInfo{ID: id, Nom: "DUPONT"}

	first := document.NewContrat(info, "")
	first.Montant = "10 000"
	second := document.NewContrat(info, "")
	second.Montant = "20 000"

	for _, d := range []document.Draft{first, second} {
		if _, err := DraftSave(ctx, database, testCfg(), DraftSaveInput{ClientID: id, Draft: d}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := DraftFetch(ctx, database, testCfg(), DraftFetchInput{ClientID: id, Type: document.TypeContrat})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Draft.(*document.ContratDraft).Montant; got != "20 000" {
		t.Errorf("Montant = %q, want last write", got)
	}
}

func TestDraftSave_RejectsInvalid(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	id := addClient(t, database, "DUPONT")

	bad := document.NewFacture(nil)
	bad.FraisTaux = -1
	if _, err := DraftSave(ctx, database, testCfg(), DraftSaveInput{ClientID: id, Draft: bad}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}

	if _, err := DraftSave(ctx, database, testCfg(), DraftSaveInput{ClientID: id}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("nil draft error = %v, want INVALID_REQUEST", err)
	}
}

func TestDraftClear(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	id := addClient(t, database, "DUPONT")

	draft := document.NewPlainte(&document.ClientInfo{ID: id, Nom: "DUPONT"}, "")
	if _, err := DraftSave(ctx, database, testCfg(), DraftSaveInput{ClientID: id, Draft: draft}); err != nil {
		t.Fatal(err)
	}
	if err := DraftClear(ctx, database, testCfg(), DraftClearInput{ClientID: id, Type: document.TypePlainte}); err != nil {
		t.Fatalf("DraftClear() error = %v", err)
	}

	out, err := DraftFetch(ctx, database, testCfg(), DraftFetchInput{ClientID: id, Type: document.TypePlainte})
	if err != nil {
		t.Fatal(err)
	}
	if out.Saved {
		t.Error("Saved = true after clear")
	}
}

func TestDraft_ClientNotFound(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	_, err := DraftFetch(ctx, database, testCfg(), DraftFetchInput{ClientID: "missing", Type: document.TypeFacture})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("DraftFetch error = %v, want NOT_FOUND", err)
	}
	_, err = DraftSave(ctx, database, testCfg(), DraftSaveInput{ClientID: "missing", Draft: document.NewFacture(nil)})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("DraftSave error = %v, want NOT_FOUND", err)
	}
}
