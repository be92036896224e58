// Package view builds the display models shared by the HTML preview and
// the PDF composer. Every Build function is a pure, total function of
// (draft, client): all fields come out as strings with safe fallbacks, so
// a partial draft renders without error in both surfaces.
package view

import (
	"strings"

	"github.com/moorelegal/dossier/internal/document"
)

// Ordonnance is the restraining-order display model.
type Ordonnance struct {
	Date             string
	Avocat           string
	Victime          string
	Accuse           string
	Juge             string
	SignatureJuge    string
	TitreFaits       string
	TitreConsiderant string
	Duree            string
	DecisionTexte    string
	Interdictions    []string
	Logo             string
}

// Contrat is the defense-contract display model.
type Contrat struct {
	Date               string
	Ref                string
	Avocat             string
	SignatureAvocat    string
	Client             string
	SignatureClient    string
	Objet              []string
	Montant            string
	ConditionsPaiement string
}

// Piece is one exhibit row on a complaint.
type Piece struct {
	Num         string
	Description string
	Image       string
}

// Plainte is the criminal-complaint display model.
type Plainte struct {
	Date            string
	Ref             string
	Avocat          string
	SignatureAvocat string
	Victime         string
	Accuse          string
	Faits           []string
	Infractions     []string
	Pieces          []Piece
}

// Item is one invoice line with the price already formatted.
type Item struct {
	Description string
	Prix        string
}

// Facture is the invoice display model. Amounts carry two decimals.
type Facture struct {
	Date           string
	Ref            string
	Client         string
	AdresseClient  string
	CompteBancaire string
	Items          []Item
	SousTotal      string
	FraisTaux      string
	Frais          string
	Total          string
}

// Lines splits multi-line field text for paragraph or bullet rendering.
// Bullet markers are stripped; blank lines are dropped.
func Lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// BuildOrdonnance builds the display model for a restraining order.
func BuildOrdonnance(d *document.OrdonnanceDraft) *Ordonnance {
	if d == nil {
		d = &document.OrdonnanceDraft{}
	}
	return &Ordonnance{
		Date:             d.Date,
		Avocat:           d.Avocat,
		Victime:          d.Victime,
		Accuse:           d.Accuse,
		Juge:             d.Juge,
		SignatureJuge:    document.SignatureName(d.Juge),
		TitreFaits:       d.TitreFaits,
		TitreConsiderant: d.TitreConsiderant,
		Duree:            d.Duree,
		DecisionTexte:    d.DecisionTexte,
		Interdictions:    Lines(d.Interdictions),
		Logo:             d.Logo,
	}
}

// BuildContrat builds the display model for a defense contract.
func BuildContrat(d *document.ContratDraft) *Contrat {
	if d == nil {
		d = &document.ContratDraft{}
	}
	return &Contrat{
		Date:               d.Date,
		Ref:                d.RefDossier,
		Avocat:             d.Avocat,
		SignatureAvocat:    document.SignatureName(d.Avocat),
		Client:             d.Client,
		SignatureClient:    d.Signature.Value,
		Objet:              Lines(d.Objet),
		Montant:            d.Montant,
		ConditionsPaiement: d.ConditionsPaiement,
	}
}

// BuildPlainte builds the display model for a criminal complaint.
func BuildPlainte(d *document.PlainteDraft) *Plainte {
	if d == nil {
		d = &document.PlainteDraft{}
	}
	p := &Plainte{
		Date:            d.Date,
		Ref:             d.RefDossier,
		Avocat:          d.Avocat,
		SignatureAvocat: document.SignatureName(d.Avocat),
		Victime:         d.Victime,
		Accuse:          d.Accuse,
		Faits:           Lines(d.Faits),
		Infractions:     Lines(d.Infractions),
	}
	for i, piece := range d.Pieces {
		p.Pieces = append(p.Pieces, Piece{
			Num:         document.SafeDisplay(i + 1),
			Description: piece.Description,
			Image:       piece.Image,
		})
	}
	return p
}

// BuildFacture builds the display model for an invoice, recomputing
// totals from the line items.
func BuildFacture(d *document.FactureDraft) *Facture {
	if d == nil {
		d = &document.FactureDraft{}
	}
	tot := d.ComputeTotals()
	f := &Facture{
		Date:           d.Date,
		Ref:            d.RefFacture,
		Client:         d.Client,
		AdresseClient:  d.AdresseClient,
		CompteBancaire: d.CompteBancaire,
		SousTotal:      document.FormatAmount(tot.SousTotal),
		FraisTaux:      document.SafeDisplay(d.FraisTaux),
		Frais:          document.FormatAmount(tot.Frais),
		Total:          document.FormatAmount(tot.Total),
	}
	for _, it := range d.Items {
		f.Items = append(f.Items, Item{
			Description: it.Description,
			Prix:        document.FormatAmount(it.Prix),
		})
	}
	return f
}

// Build dispatches to the typed builder for any draft.
func Build(d document.Draft) any {
	switch x := d.(type) {
	case *document.OrdonnanceDraft:
		return BuildOrdonnance(x)
	case *document.ContratDraft:
		return BuildContrat(x)
	case *document.PlainteDraft:
		return BuildPlainte(x)
	case *document.FactureDraft:
		return BuildFacture(x)
	}
	return nil
}
