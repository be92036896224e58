package document

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFrenchDates(t *testing.T) {
	d := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	if got := FrenchDateShort(d); got != "03/08/2026" {
		t.Errorf("FrenchDateShort = %q", got)
	}
	if got := FrenchDateLong(d); got != "3 août 2026" {
		t.Errorf("FrenchDateLong = %q", got)
	}
}

func TestNewDraft_AllTypes(t *testing.T) {
	c := &ClientInfo{ID: "01hxyzabc", Nom: "DUPONT"}
	for _, typ := range AllTypes() {
		d := NewDraft(typ, c, "")
		if d == nil {
			t.Fatalf("NewDraft(%s) = nil", typ)
		}
		if d.Type() != typ {
			t.Errorf("NewDraft(%s).Type() = %s", typ, d.Type())
		}
	}
}

func TestDefaults_NilClientFallbacks(t *testing.T) {
	// Every name-bearing field must render a placeholder, never empty.
	o := NewOrdonnance(nil, "")
	if o.Victime != UnknownClient {
		t.Errorf("ordonnance Victime = %q", o.Victime)
	}
	if o.Avocat != "Maître Moore" || o.Juge != "Valerio Pozzano" {
		t.Errorf("ordonnance defaults: avocat=%q juge=%q", o.Avocat, o.Juge)
	}

	ct := NewContrat(nil, "")
	if ct.Client != UnknownClient {
		t.Errorf("contrat Client = %q", ct.Client)
	}
	if ct.RefDossier != "REF-0000" {
		t.Errorf("contrat RefDossier = %q", ct.RefDossier)
	}

	p := NewPlainte(nil, "")
	if p.Victime != "NOM DU CLIENT" {
		t.Errorf("plainte Victime = %q", p.Victime)
	}
	if p.RefDossier != "P-0000" {
		t.Errorf("plainte RefDossier = %q", p.RefDossier)
	}

	f := NewFacture(nil)
	if f.Client != UnknownClient {
		t.Errorf("facture Client = %q", f.Client)
	}
}

func TestDefaults_ClientPrefill(t *testing.T) {
	c := &ClientInfo{ID: "01hx22aa", Nom: "DUPONT"}

	if got := NewOrdonnance(c, "Maître Dubois"); got.Victime != "DUPONT" || got.Avocat != "Maître Dubois" {
		t.Errorf("ordonnance prefill: %+v", got)
	}
	if got := NewContrat(c, ""); got.RefDossier != "REF-01HX" {
		t.Errorf("contrat RefDossier = %q", got.RefDossier)
	}
	if got := NewPlainte(c, ""); got.RefDossier != "P-01HX" {
		t.Errorf("plainte RefDossier = %q", got.RefDossier)
	}
}

func TestNewFacture_DefaultLineItem(t *testing.T) {
	f := NewFacture(&ClientInfo{Nom: "DUPONT"})
	if len(f.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(f.Items))
	}
	it := f.Items[0]
	if it.Description != "Honoraires de représentation (Forfait)" || it.Prix != 5000 {
		t.Errorf("default item = %+v", it)
	}
	if f.FraisTaux != 0 {
		t.Errorf("FraisTaux = %v, want 0", f.FraisTaux)
	}
	wantPrefix := fmt.Sprintf("FAC-%d-", time.Now().Year())
	if !strings.HasPrefix(f.RefFacture, wantPrefix) {
		t.Errorf("RefFacture = %q, want prefix %q", f.RefFacture, wantPrefix)
	}
}

func TestNewPlainte_DefaultPiece(t *testing.T) {
	p := NewPlainte(nil, "")
	if len(p.Pieces) != 1 {
		t.Fatalf("pieces = %d, want 1", len(p.Pieces))
	}
	if p.Pieces[0].Description != "Certificat Médical (Exemple)" {
		t.Errorf("default piece = %+v", p.Pieces[0])
	}
	if p.Pieces[0].ID != 1 {
		t.Errorf("default piece id = %d", p.Pieces[0].ID)
	}
}

func TestNewContrat_SignatureSynced(t *testing.T) {
	ct := NewContrat(&ClientInfo{Nom: "jean dupont"}, "")
	if ct.Signature.Value != "Jean Dupont" {
		t.Errorf("Signature = %q, want title-cased client name", ct.Signature.Value)
	}
	if ct.Signature.Detached {
		t.Error("new signature should start synced")
	}
}
