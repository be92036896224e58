package pdf

import (
	"github.com/go-pdf/fpdf"

	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/view"
)

type translator func(string) string

const contentWidth = pageWidth - 2*contentPad

// Palette matching the preview theme.
var (
	colAccent = [3]int{0, 243, 255}
	colText   = [3]int{230, 230, 230}
	colMuted  = [3]int{130, 130, 130}
	colLine   = [3]int{60, 60, 60}
)

func setColor(doc *fpdf.Fpdf, c [3]int) {
	doc.SetTextColor(c[0], c[1], c[2])
}

// header prints the cabinet banner and document title common to all four
// layouts.
func (c *Composer) header(doc *fpdf.Fpdf, tr translator, title, date, ref string) {
	doc.SetY(contentPad)
	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "B", 10)
	setColor(doc, colAccent)
	doc.CellFormat(contentWidth, 5, tr(c.CabinetName), "", 1, "L", false, 0, "")

	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "B", 20)
	setColor(doc, colText)
	doc.CellFormat(contentWidth, 10, tr(title), "", 1, "L", false, 0, "")

	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "", 9)
	setColor(doc, colMuted)
	meta := date
	if ref != "" {
		meta += "   •   " + ref
	}
	doc.CellFormat(contentWidth, 5, tr(meta), "", 1, "L", false, 0, "")

	doc.SetDrawColor(colLine[0], colLine[1], colLine[2])
	doc.Line(contentPad, doc.GetY()+3, pageWidth-contentPad, doc.GetY()+3)
	doc.SetY(doc.GetY() + 8)
}

func (c *Composer) sectionTitle(doc *fpdf.Fpdf, tr translator, title string) {
	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "B", 11)
	setColor(doc, colAccent)
	doc.CellFormat(contentWidth, 7, tr(title), "", 1, "L", false, 0, "")
	doc.SetY(doc.GetY() + 1)
}

func (c *Composer) paragraph(doc *fpdf.Fpdf, tr translator, text string) {
	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "", 10)
	setColor(doc, colText)
	doc.MultiCell(contentWidth, 5.5, tr(text), "", "L", false)
	doc.SetY(doc.GetY() + 2)
}

func (c *Composer) bullets(doc *fpdf.Fpdf, tr translator, lines []string) {
	doc.SetFont("Helvetica", "", 10)
	setColor(doc, colText)
	for _, line := range lines {
		doc.SetX(contentPad + 2)
		doc.MultiCell(contentWidth-2, 5.5, tr("• "+line), "", "L", false)
	}
	doc.SetY(doc.GetY() + 2)
}

func (c *Composer) labelValue(doc *fpdf.Fpdf, tr translator, label, value string) {
	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "B", 8)
	setColor(doc, colMuted)
	doc.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	setColor(doc, colText)
	doc.CellFormat(contentWidth-45, 6, tr(value), "", 1, "L", false, 0, "")
}

// signatureBlock prints a right-aligned signature: role, handwritten-style
// name above the printed full name.
func (c *Composer) signatureBlock(doc *fpdf.Fpdf, tr translator, role, handwritten, printed string) {
	x := pageWidth - contentPad - 70
	doc.SetXY(x, doc.GetY()+6)
	doc.SetFont("Helvetica", "B", 8)
	setColor(doc, colMuted)
	doc.CellFormat(70, 5, tr(role), "", 2, "C", false, 0, "")
	doc.SetFont("Helvetica", "I", 22)
	setColor(doc, colAccent)
	doc.CellFormat(70, 14, tr(handwritten), "", 2, "C", false, 0, "")
	doc.SetDrawColor(colLine[0], colLine[1], colLine[2])
	doc.Line(x+5, doc.GetY(), x+65, doc.GetY())
	doc.SetFont("Helvetica", "", 8)
	setColor(doc, colMuted)
	doc.CellFormat(70, 5, tr(printed), "", 1, "C", false, 0, "")
}

func (c *Composer) composeOrdonnance(doc *fpdf.Fpdf, tr translator, d *document.OrdonnanceDraft) {
	v := view.BuildOrdonnance(d)

	if logo, ok := c.prepareAsset(doc, "logo", v.Logo, 40); ok {
		doc.SetY(contentPad)
		logo.place(doc, pageWidth-contentPad-logo.widthMM)
	}

	c.header(doc, tr, "ORDONNANCE D'ÉLOIGNEMENT", v.Date, "")

	c.labelValue(doc, tr, "LA VICTIME", v.Victime)
	c.labelValue(doc, tr, "L'ACCUSÉ", v.Accuse)
	c.labelValue(doc, tr, "AVOCAT REQUÉRANT", v.Avocat)
	doc.SetY(doc.GetY() + 4)

	c.paragraph(doc, tr, v.TitreFaits)
	c.paragraph(doc, tr, v.TitreConsiderant)

	c.sectionTitle(doc, tr, "DÉCISION")
	c.paragraph(doc, tr, v.Accuse+" "+v.DecisionTexte)
	c.paragraph(doc, tr, "Durée de la mesure : "+v.Duree+".")

	c.sectionTitle(doc, tr, "INTERDICTIONS")
	c.bullets(doc, tr, v.Interdictions)

	c.paragraph(doc, tr, "Tout manquement à la présente mesure constituera une violation d'ordonnance judiciaire et pourra entraîner des sanctions pénales immédiates.")

	c.signatureBlock(doc, tr, "LE JUGE", v.SignatureJuge, v.Juge)
}

func (c *Composer) composeContrat(doc *fpdf.Fpdf, tr translator, d *document.ContratDraft) {
	v := view.BuildContrat(d)

	c.header(doc, tr, "CONTRAT DE DÉFENSE", v.Date, v.Ref)

	c.labelValue(doc, tr, "LE CABINET", v.Avocat)
	c.labelValue(doc, tr, "LE CLIENT", v.Client)
	doc.SetY(doc.GetY() + 4)

	c.sectionTitle(doc, tr, "OBJET DU MANDAT")
	for _, line := range v.Objet {
		c.paragraph(doc, tr, line)
	}

	c.sectionTitle(doc, tr, "HONORAIRES")
	c.labelValue(doc, tr, "MONTANT", v.Montant+" $")
	c.labelValue(doc, tr, "CONDITIONS", v.ConditionsPaiement)
	doc.SetY(doc.GetY() + 6)

	c.signatureBlock(doc, tr, "POUR LE CABINET", v.SignatureAvocat, v.Avocat)
	c.signatureBlock(doc, tr, "LE CLIENT — LU ET APPROUVÉ", v.SignatureClient, v.Client)
}

func (c *Composer) composePlainte(doc *fpdf.Fpdf, tr translator, d *document.PlainteDraft) {
	v := view.BuildPlainte(d)

	c.header(doc, tr, "PLAINTE PÉNALE", v.Date, v.Ref)

	c.labelValue(doc, tr, "LA VICTIME", v.Victime)
	c.labelValue(doc, tr, "CONTRE", v.Accuse)
	c.labelValue(doc, tr, "AVOCAT REQUÉRANT", v.Avocat)
	doc.SetY(doc.GetY() + 4)

	c.sectionTitle(doc, tr, "EXPOSÉ DES FAITS")
	for _, line := range v.Faits {
		c.paragraph(doc, tr, line)
	}

	c.sectionTitle(doc, tr, "INFRACTIONS REPROCHÉES")
	c.bullets(doc, tr, v.Infractions)

	if len(v.Pieces) > 0 {
		c.sectionTitle(doc, tr, "PIÈCES JOINTES")
		for _, p := range v.Pieces {
			c.paragraph(doc, tr, "Pièce n°"+p.Num+" — "+p.Description)
			if a, ok := c.prepareAsset(doc, "piece-"+p.Num, p.Image, contentWidth/2); ok {
				a.place(doc, contentPad)
				doc.SetY(doc.GetY() + 3)
			}
		}
	}

	c.signatureBlock(doc, tr, "L'AVOCAT REQUÉRANT", v.SignatureAvocat, v.Avocat)
}

func (c *Composer) composeFacture(doc *fpdf.Fpdf, tr translator, d *document.FactureDraft) {
	v := view.BuildFacture(d)

	c.header(doc, tr, "FACTURE", v.Date, v.Ref)

	c.labelValue(doc, tr, "FACTURÉ À", v.Client)
	c.labelValue(doc, tr, "ADRESSE", v.AdresseClient)
	c.labelValue(doc, tr, "COMPTE BANCAIRE", v.CompteBancaire)
	doc.SetY(doc.GetY() + 6)

	// Table header.
	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "B", 9)
	setColor(doc, colAccent)
	doc.CellFormat(contentWidth-35, 8, tr("PRESTATION"), "B", 0, "L", false, 0, "")
	doc.CellFormat(35, 8, tr("PRIX"), "B", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	setColor(doc, colText)
	for _, it := range v.Items {
		doc.SetX(contentPad)
		doc.CellFormat(contentWidth-35, 8, tr(it.Description), "B", 0, "L", false, 0, "")
		doc.CellFormat(35, 8, tr(it.Prix+" $"), "B", 1, "R", false, 0, "")
	}
	doc.SetY(doc.GetY() + 4)

	totals := func(label, amount string, strong bool) {
		doc.SetX(contentPad + contentWidth - 90)
		if strong {
			doc.SetFont("Helvetica", "B", 12)
			setColor(doc, colAccent)
		} else {
			doc.SetFont("Helvetica", "", 9)
			setColor(doc, colMuted)
		}
		doc.CellFormat(55, 7, tr(label), "", 0, "L", false, 0, "")
		doc.CellFormat(35, 7, tr(amount+" $"), "", 1, "R", false, 0, "")
	}
	totals("Sous-total", v.SousTotal, false)
	totals("Frais ("+v.FraisTaux+"%)", v.Frais, false)
	totals("TOTAL", v.Total, true)

	doc.SetY(doc.GetY() + 10)
	doc.SetX(contentPad)
	doc.SetFont("Helvetica", "I", 8)
	setColor(doc, colMuted)
	doc.CellFormat(contentWidth, 5, tr("Facture payable à réception."), "", 1, "L", false, 0, "")
}
