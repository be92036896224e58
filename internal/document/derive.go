package document

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TrackedField is a derived field that mirrors a source field until the
// user edits it directly. Once detached it keeps its value across source
// changes until an explicit reset.
type TrackedField struct {
	Value    string `json:"value"`
	Detached bool   `json:"detached"`
}

// SyncFrom re-derives the value from the source field unless detached.
func (f *TrackedField) SyncFrom(source string) {
	if f.Detached {
		return
	}
	f.Value = TitleCase(source)
}

// Override sets the value directly and detaches the field from its source.
func (f *TrackedField) Override(value string) {
	f.Value = value
	f.Detached = true
}

// Reset re-attaches the field to its source and re-derives the value.
func (f *TrackedField) Reset(source string) {
	f.Detached = false
	f.SyncFrom(source)
}

// TitleCase lowercases s and capitalizes the first letter of each word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// SignatureName returns the last word of a full name, used for the
// handwritten signature line. Empty input yields empty output.
func SignatureName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return strings.TrimSpace(full)
	}
	return fields[len(fields)-1]
}

// SafeDisplay coerces any scalar to its display string. Nil renders as
// empty, never as a literal "nil" or "<null>".
func SafeDisplay(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// FormatAmount renders a monetary amount with two decimals.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Totals holds the derived invoice amounts. They are computed at render
// time and never stored with the draft.
type Totals struct {
	SousTotal float64
	Frais     float64
	Total     float64
}

// ComputeTotals derives invoice totals from the line items and fee rate.
func (d *FactureDraft) ComputeTotals() Totals {
	var sous float64
	for _, it := range d.Items {
		sous += it.Prix
	}
	frais := sous * d.FraisTaux / 100
	return Totals{SousTotal: sous, Frais: frais, Total: sous + frais}
}

// HistoryMeta returns the ledger reference and description for a draft
// about to be exported.
func HistoryMeta(d Draft, c *ClientInfo) (ref, descr string) {
	switch x := d.(type) {
	case *OrdonnanceDraft:
		return "CASE-" + clientRef(c), "Mesure éloignement"
	case *ContratDraft:
		return x.RefDossier, "Mandat de défense"
	case *PlainteDraft:
		return x.RefDossier, "Contre: " + x.Accuse
	case *FactureDraft:
		ref := x.RefFacture
		if strings.TrimSpace(ref) == "" {
			ref = "FACTURE"
		}
		return ref, fmt.Sprintf("Montant: %s$", FormatAmount(x.ComputeTotals().Total))
	}
	return "", ""
}

// ExportBaseName returns the filename stem for a generated PDF, before
// whitespace sanitization and the .pdf suffix.
func ExportBaseName(d Draft) string {
	switch x := d.(type) {
	case *OrdonnanceDraft:
		return "ORDONNANCE_" + x.Accuse
	case *ContratDraft:
		return "CONTRAT_" + x.Client
	case *PlainteDraft:
		return "PLAINTE_" + x.Victime
	case *FactureDraft:
		ref := x.RefFacture
		if strings.TrimSpace(ref) == "" {
			ref = "FACTURE"
		}
		return "FACTURE_" + ref
	}
	return "DOCUMENT"
}
