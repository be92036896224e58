package document

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Fallbacks used when the client record is missing or incomplete.
const (
	UnknownClient = "CLIENT INCONNU"
	defaultAvocat = "Maître Moore"
)

var frenchMonths = []string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FrenchDateShort formats t as dd/mm/yyyy.
func FrenchDateShort(t time.Time) string {
	return t.Format("02/01/2006")
}

// FrenchDateLong formats t as "2 janvier 2006".
func FrenchDateLong(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// clientRef returns the first four characters of the client id, uppercased,
// or "0000" when the id is too short or the client is missing.
func clientRef(c *ClientInfo) string {
	if c == nil || len(c.ID) < 4 {
		return "0000"
	}
	return strings.ToUpper(c.ID[:4])
}

func clientName(c *ClientInfo, fallback string) string {
	if c == nil || strings.TrimSpace(c.Nom) == "" {
		return fallback
	}
	return c.Nom
}

func avocatOr(avocat string) string {
	if strings.TrimSpace(avocat) == "" {
		return defaultAvocat
	}
	return avocat
}

// NewDraft builds the default draft for t. The client may be nil or partial;
// name-bearing fields fall back to placeholders and the factory never fails.
func NewDraft(t Type, c *ClientInfo, avocat string) Draft {
	switch t {
	case TypeOrdonnance:
		return NewOrdonnance(c, avocat)
	case TypeContrat:
		return NewContrat(c, avocat)
	case TypePlainte:
		return NewPlainte(c, avocat)
	case TypeFacture:
		return NewFacture(c)
	}
	return nil
}

// NewOrdonnance builds a default restraining-order draft.
func NewOrdonnance(c *ClientInfo, avocat string) *OrdonnanceDraft {
	return &OrdonnanceDraft{
		Date:             FrenchDateLong(time.Now()),
		Avocat:           avocatOr(avocat),
		Victime:          clientName(c, UnknownClient),
		Accuse:           "NOM DE L'ACCUSÉ",
		Juge:             "Valerio Pozzano",
		TitreFaits:       "Vu les faits de menaces de mort répétées et de harcèlement,",
		TitreConsiderant: "Considérant la nécessité impérieuse de garantir la sécurité physique et morale de la victime,",
		Duree:            "un (1) mois",
		DecisionTexte:    "fait l'objet d'une mesure d'éloignement immédiate, à compter de la notification de la présente ordonnance.",
		Interdictions:    "• S'approcher à moins de 50 mètres de la victime ;\n• Entrer en contact par tout moyen ;\n• Posséder une arme à feu.",
	}
}

// NewContrat builds a default defense-contract draft. The signature line
// starts synced to the client name.
func NewContrat(c *ClientInfo, avocat string) *ContratDraft {
	d := &ContratDraft{
		Date:               FrenchDateShort(time.Now()),
		RefDossier:         "REF-" + clientRef(c),
		Avocat:             avocatOr(avocat),
		Client:             clientName(c, UnknownClient),
		Objet:              "Défense dans le cadre de l'affaire pénale...",
		Montant:            "15 000",
		ConditionsPaiement: "50% avant l'audience, 50% après verdict.",
	}
	d.Signature.SyncFrom(d.Client)
	return d
}

// NewPlainte builds a default criminal-complaint draft with one sample
// exhibit.
func NewPlainte(c *ClientInfo, avocat string) *PlainteDraft {
	d := &PlainteDraft{
		Date:        FrenchDateShort(time.Now()),
		RefDossier:  "P-" + clientRef(c),
		Avocat:      avocatOr(avocat),
		Victime:     clientName(c, "NOM DU CLIENT"),
		Accuse:      "X (Ou Nom de l'accusé)",
		Faits:       "Le [DATE] aux alentours de [HEURE], mon client se trouvait à [LIEU].\n\nIl a été approché par l'individu susnommé qui a procédé à [DÉCRIRE LES FAITS]...\n\nCes agissements ont causé [DÉCRIRE LES DOMMAGES OU CONSÉQUENCES].",
		Infractions: "• [Inscrire le délit ici]\n• [Inscrire le crime ici]",
		NextPieceID: 1,
	}
	d.AddPiece("Certificat Médical (Exemple)", "")
	return d
}

// NewFacture builds a default invoice draft with one standard fee line.
func NewFacture(c *ClientInfo) *FactureDraft {
	d := &FactureDraft{
		Date:           FrenchDateShort(time.Now()),
		RefFacture:     fmt.Sprintf("FAC-%d-%d", time.Now().Year(), rand.IntN(1000)),
		Client:         clientName(c, UnknownClient),
		AdresseClient:  "San Andreas",
		CompteBancaire: "5501",
		FraisTaux:      0,
		NextItemID:     1,
	}
	d.AddItem("Honoraires de représentation (Forfait)", 5000)
	return d
}
