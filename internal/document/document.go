// Package document defines the four draft types, their defaults, and the
// derived values shared by the preview and PDF renderers.
package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type identifies one of the four document kinds.
type Type string

const (
	TypeOrdonnance Type = "ORDONNANCE"
	TypeContrat    Type = "CONTRAT"
	TypePlainte    Type = "PLAINTE"
	TypeFacture    Type = "FACTURE"
)

// AllTypes returns the document types in display order.
func AllTypes() []Type {
	return []Type{TypeOrdonnance, TypeContrat, TypePlainte, TypeFacture}
}

// ParseType parses a case-insensitive type name.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ORDONNANCE":
		return TypeOrdonnance, nil
	case "CONTRAT":
		return TypeContrat, nil
	case "PLAINTE":
		return TypePlainte, nil
	case "FACTURE":
		return TypeFacture, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// DraftField returns the clients-table column storing this type's draft.
func (t Type) DraftField() string {
	return "saved_" + strings.ToLower(string(t))
}

// Label returns the French display label.
func (t Type) Label() string {
	switch t {
	case TypeOrdonnance:
		return "Ordonnance d'éloignement"
	case TypeContrat:
		return "Contrat de défense"
	case TypePlainte:
		return "Plainte pénale"
	case TypeFacture:
		return "Facture"
	}
	return string(t)
}

// ClientInfo is the slice of a client record the draft factories read.
// A nil ClientInfo is valid and falls back to placeholder values.
type ClientInfo struct {
	ID  string
	Nom string
}

// Draft is the editable state of one document for one client.
type Draft interface {
	Type() Type
	// Clone returns a deep copy. History snapshots are always cloned so
	// later edits never reach past entries.
	Clone() Draft
}

// LineItem is one invoice line. IDs are unique within a draft and never
// reused after removal.
type LineItem struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Prix        float64 `json:"prix"`
}

// Evidence is one attached exhibit on a complaint. Image holds an inline
// data URL payload or is empty.
type Evidence struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// OrdonnanceDraft is a restraining order.
type OrdonnanceDraft struct {
	Date             string `json:"date"`
	Avocat           string `json:"avocat"`
	Victime          string `json:"victime"`
	Accuse           string `json:"accuse"`
	Juge             string `json:"juge"`
	TitreFaits       string `json:"titre_faits"`
	TitreConsiderant string `json:"titre_considerant"`
	Duree            string `json:"duree"`
	DecisionTexte    string `json:"decision_texte"`
	Interdictions    string `json:"interdictions"`
	Logo             string `json:"logo,omitempty"`
}

func (d *OrdonnanceDraft) Type() Type { return TypeOrdonnance }

func (d *OrdonnanceDraft) Clone() Draft {
	c := *d
	return &c
}

// ContratDraft is a defense mandate contract.
type ContratDraft struct {
	Date               string       `json:"date"`
	RefDossier         string       `json:"ref_dossier"`
	Avocat             string       `json:"avocat"`
	Client             string       `json:"client"`
	Objet              string       `json:"objet"`
	Montant            string       `json:"montant"`
	ConditionsPaiement string       `json:"conditions_paiement"`
	Signature          TrackedField `json:"signature"`
}

func (d *ContratDraft) Type() Type { return TypeContrat }

func (d *ContratDraft) Clone() Draft {
	c := *d
	return &c
}

// SetClientName updates the client field and re-derives the signature
// line unless the user has overridden it.
func (d *ContratDraft) SetClientName(nom string) {
	d.Client = nom
	d.Signature.SyncFrom(nom)
}

// PlainteDraft is a criminal complaint.
type PlainteDraft struct {
	Date        string     `json:"date"`
	RefDossier  string     `json:"ref_dossier"`
	Avocat      string     `json:"avocat"`
	Victime     string     `json:"victime"`
	Accuse      string     `json:"accuse"`
	Faits       string     `json:"faits"`
	Infractions string     `json:"infractions"`
	Pieces      []Evidence `json:"pieces"`
	NextPieceID int64      `json:"next_piece_id"`
}

func (d *PlainteDraft) Type() Type { return TypePlainte }

func (d *PlainteDraft) Clone() Draft {
	c := *d
	c.Pieces = append([]Evidence(nil), d.Pieces...)
	return &c
}

// AddPiece appends an exhibit and returns its assigned id.
func (d *PlainteDraft) AddPiece(description, image string) int64 {
	id := d.NextPieceID
	if id == 0 {
		id = d.maxPieceID() + 1
	}
	d.Pieces = append(d.Pieces, Evidence{ID: id, Description: description, Image: image})
	d.NextPieceID = id + 1
	return id
}

// RemovePiece deletes an exhibit. Remaining ids keep their values so a
// removed id is never reassigned.
func (d *PlainteDraft) RemovePiece(id int64) bool {
	for i, p := range d.Pieces {
		if p.ID == id {
			d.Pieces = append(d.Pieces[:i], d.Pieces[i+1:]...)
			return true
		}
	}
	return false
}

func (d *PlainteDraft) maxPieceID() int64 {
	var max int64
	for _, p := range d.Pieces {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

// FactureDraft is an invoice. Totals are never stored, always recomputed
// from Items and FraisTaux.
type FactureDraft struct {
	Date           string     `json:"date"`
	RefFacture     string     `json:"ref_facture"`
	Client         string     `json:"client"`
	AdresseClient  string     `json:"adresse_client"`
	CompteBancaire string     `json:"compte_bancaire"`
	FraisTaux      float64    `json:"frais_taux"`
	Items          []LineItem `json:"items"`
	NextItemID     int64      `json:"next_item_id"`
}

func (d *FactureDraft) Type() Type { return TypeFacture }

func (d *FactureDraft) Clone() Draft {
	c := *d
	c.Items = append([]LineItem(nil), d.Items...)
	return &c
}

// AddItem appends a line item and returns its assigned id.
func (d *FactureDraft) AddItem(description string, prix float64) int64 {
	id := d.NextItemID
	if id == 0 {
		id = d.maxItemID() + 1
	}
	d.Items = append(d.Items, LineItem{ID: id, Description: description, Prix: prix})
	d.NextItemID = id + 1
	return id
}

// RemoveItem deletes a line item by id.
func (d *FactureDraft) RemoveItem(id int64) bool {
	for i, it := range d.Items {
		if it.ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (d *FactureDraft) maxItemID() int64 {
	var max int64
	for _, it := range d.Items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max
}

// Encode serializes a draft to its stored JSON form.
func Encode(d Draft) (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode %s draft: %w", d.Type(), err)
	}
	return string(raw), nil
}

// Decode parses stored JSON into the typed draft for t.
func Decode(t Type, raw string) (Draft, error) {
	var d Draft
	switch t {
	case TypeOrdonnance:
		d = &OrdonnanceDraft{}
	case TypeContrat:
		d = &ContratDraft{}
	case TypePlainte:
		d = &PlainteDraft{}
	case TypeFacture:
		d = &FactureDraft{}
	default:
		return nil, fmt.Errorf("unknown document type %q", t)
	}
	if err := json.Unmarshal([]byte(raw), d); err != nil {
		return nil, fmt.Errorf("decode %s draft: %w", t, err)
	}
	return d, nil
}
