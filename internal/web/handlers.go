package web

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/editor"
	"github.com/moorelegal/dossier/internal/errors"
	"github.com/moorelegal/dossier/internal/ops"
	"github.com/moorelegal/dossier/internal/pdf"
	"github.com/moorelegal/dossier/internal/view"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
	exporter pdf.Exporter
	guard    *editor.Guard
}

type clientsData struct {
	Clients []*db.Client
	Count   int
}

// HandleClients renders the client list.
func (h *Handlers) HandleClients(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ClientList(r.Context(), h.db, h.cfg)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, r, "clients.html", "Clients", clientsData{
		Clients: out.Clients,
		Count:   out.Count,
	})
}

// HandleClientCreate creates a dossier from the new-client form.
func (h *Handlers) HandleClientCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	out, err := ops.ClientAdd(r.Context(), h.db, h.cfg, ops.ClientAddInput{
		Nom:       r.FormValue("nom"),
		Type:      r.FormValue("type"),
		Telephone: r.FormValue("telephone"),
		Notes:     r.FormValue("notes"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/clients/"+url.PathEscape(out.ID), http.StatusSeeOther)
}

type dossierData struct {
	Client    *db.Client
	NotesHTML any
	Types     []document.Type
	History   []ops.HistoryItem
	Total     int
}

// HandleDossier renders one client page: contact card, document types,
// and the most recent ledger entries.
func (h *Handlers) HandleDossier(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ClientGet(r.Context(), h.db, h.cfg, ops.ClientGetInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	hist, err := ops.HistoryList(r.Context(), h.db, h.cfg, ops.HistoryListInput{ClientID: out.Client.ID})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	recent := hist.Items
	if len(recent) > 5 {
		recent = recent[:5]
	}
	h.renderer.renderPage(w, r, "dossier.html", out.Client.Nom, dossierData{
		Client:    out.Client,
		NotesHTML: renderMarkdown(out.Client.Notes),
		Types:     h.enabledTypes(),
		History:   recent,
		Total:     hist.Total,
	})
}

// HandleClientInfo patches the contact fields and returns to the dossier.
func (h *Handlers) HandleClientInfo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	telephone := r.FormValue("telephone")
	notes := r.FormValue("notes")
	out, err := ops.ClientUpdateInfo(r.Context(), h.db, h.cfg, ops.ClientUpdateInfoInput{
		ID:        r.PathValue("id"),
		Telephone: &telephone,
		Notes:     &notes,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/clients/"+url.PathEscape(out.Client.ID), http.StatusSeeOther)
}

type editorData struct {
	Client       *db.Client
	Type         document.Type
	TypeName     string
	Label        string
	Draft        document.Draft
	Preview      any
	Saved        bool
	ReplayedFrom string
}

func (h *Handlers) editorData(r *http.Request) (*editorData, error) {
	typ, err := h.parseType(r.PathValue("type"))
	if err != nil {
		return nil, err
	}
	out, err := ops.ClientGet(r.Context(), h.db, h.cfg, ops.ClientGetInput{ID: r.PathValue("id")})
	if err != nil {
		return nil, err
	}

	data := &editorData{Client: out.Client, Type: typ, TypeName: string(typ), Label: typ.Label()}

	if replayID := r.URL.Query().Get("replay"); replayID != "" {
		rep, err := ops.HistoryReplay(r.Context(), h.db, h.cfg, ops.HistoryReplayInput{ID: replayID})
		if err != nil {
			return nil, err
		}
		if rep.ClientID != out.Client.ID || rep.Type != typ {
			return nil, errors.NewInvalidRequest("history entry does not belong to this editor")
		}
		data.Draft = rep.Draft
		data.ReplayedFrom = replayID
	} else {
		fetched, err := ops.DraftFetch(r.Context(), h.db, h.cfg, ops.DraftFetchInput{ClientID: out.Client.ID, Type: typ})
		if err != nil {
			return nil, err
		}
		data.Draft = fetched.Draft
		data.Saved = fetched.Saved
	}

	data.Preview = view.Build(data.Draft)
	return data, nil
}

// HandleEditor renders a document editor, hydrated from the saved draft,
// the type defaults, or a replayed ledger snapshot.
func (h *Handlers) HandleEditor(w http.ResponseWriter, r *http.Request) {
	data, err := h.editorData(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderer.renderPage(w, r, "editor.html", data.Label, data)
}

// HandleEditorAction dispatches the editor form actions: save, generate,
// line mutations, signature reset, and draft clear.
func (h *Handlers) HandleEditorAction(w http.ResponseWriter, r *http.Request) {
	typ, err := h.parseType(r.PathValue("type"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	out, err := ops.ClientGet(r.Context(), h.db, h.cfg, ops.ClientGetInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	c := out.Client

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	action := r.FormValue("action")
	editorURL := "/clients/" + url.PathEscape(c.ID) + "/documents/" + strings.ToLower(string(typ))

	if action == "clear" {
		if err := ops.DraftClear(r.Context(), h.db, h.cfg, ops.DraftClearInput{ClientID: c.ID, Type: typ}); err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		http.Redirect(w, r, editorURL, http.StatusSeeOther)
		return
	}

	// A replayed editor keeps acting on the snapshot: the stored draft is
	// overridden on save, never merged with.
	var draft document.Draft
	if replayID := r.FormValue("replayed_from"); replayID != "" {
		rep, err := ops.HistoryReplay(r.Context(), h.db, h.cfg, ops.HistoryReplayInput{ID: replayID})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		if rep.ClientID != c.ID || rep.Type != typ {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("history entry does not belong to this editor"))
			return
		}
		draft = rep.Draft
	} else {
		fetched, err := ops.DraftFetch(r.Context(), h.db, h.cfg, ops.DraftFetchInput{ClientID: c.ID, Type: typ})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		draft = fetched.Draft
	}
	applyForm(draft, r.Form)

	switch action {
	case "add_item":
		if f, ok := draft.(*document.FactureDraft); ok {
			f.AddItem(r.FormValue("new_description"), parseFloat(r.FormValue("new_prix")))
		}
	case "remove_item":
		if f, ok := draft.(*document.FactureDraft); ok {
			f.RemoveItem(parseInt(r.FormValue("target_id")))
		}
	case "add_piece":
		if p, ok := draft.(*document.PlainteDraft); ok {
			p.AddPiece(r.FormValue("new_description"), r.FormValue("new_image"))
		}
	case "remove_piece":
		if p, ok := draft.(*document.PlainteDraft); ok {
			p.RemovePiece(parseInt(r.FormValue("target_id")))
		}
	case "reset_signature":
		if ct, ok := draft.(*document.ContratDraft); ok {
			ct.Signature.Reset(ct.Client)
		}
	}

	switch action {
	case "generate":
		genOut, err := ops.Generate(r.Context(), h.db, h.cfg, h.exporter, h.guard, ops.GenerateInput{
			ClientID: c.ID,
			Type:     typ,
			Draft:    draft,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", filepath.Base(genOut.PDFPath)))
		http.ServeFile(w, r, genOut.PDFPath)
		return
	case "preview":
		// HTMX live preview: nothing is persisted.
		h.renderer.renderBlock(w, "editor.html", "preview", previewData(typ, draft))
		return
	default:
		if _, err := ops.DraftSave(r.Context(), h.db, h.cfg, ops.DraftSaveInput{ClientID: c.ID, Draft: draft}); err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, editorURL, http.StatusSeeOther)
}

type previewModel struct {
	TypeName string
	Preview  any
}

func previewData(t document.Type, d document.Draft) previewModel {
	return previewModel{TypeName: string(t), Preview: view.Build(d)}
}

type historyData struct {
	Client     *db.Client
	Items      []ops.HistoryItem
	Total      int
	TypeFilter string
	Query      string
	Tabs       []string
}

// HandleHistory renders the ledger with type tabs and a text filter.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ClientGet(r.Context(), h.db, h.cfg, ops.ClientGetInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	typeFilter := r.URL.Query().Get("type")
	query := r.URL.Query().Get("q")

	hist, err := ops.HistoryList(r.Context(), h.db, h.cfg, ops.HistoryListInput{
		ClientID:   out.Client.ID,
		TypeFilter: typeFilter,
		Query:      query,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	tabs := []string{ops.TypeFilterAll}
	for _, t := range document.AllTypes() {
		tabs = append(tabs, string(t))
	}
	if typeFilter == "" {
		typeFilter = ops.TypeFilterAll
	}

	h.renderer.renderPage(w, r, "history.html", "Historique", historyData{
		Client:     out.Client,
		Items:      hist.Items,
		Total:      hist.Total,
		TypeFilter: strings.ToUpper(typeFilter),
		Query:      query,
		Tabs:       tabs,
	})
}

// HandleHistoryClear removes every ledger entry of one client.
func (h *Handlers) HandleHistoryClear(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := ops.HistoryClear(r.Context(), h.db, h.cfg, ops.HistoryClearInput{ClientID: id}); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/clients/"+url.PathEscape(id)+"/history", http.StatusSeeOther)
}

// HandleHistoryDelete removes one ledger entry. The owning client id
// comes along in the form so the redirect lands back on the ledger.
func (h *Handlers) HandleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	if err := ops.HistoryDelete(r.Context(), h.db, h.cfg, ops.HistoryDeleteInput{ID: r.PathValue("id")}); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if clientID := r.FormValue("client_id"); clientID != "" {
		http.Redirect(w, r, "/clients/"+url.PathEscape(clientID)+"/history", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/clients", http.StatusSeeOther)
}

// HandleHistoryReplay resolves a ledger entry and redirects to its
// editor with the snapshot loaded.
func (h *Handlers) HandleHistoryReplay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rep, err := ops.HistoryReplay(r.Context(), h.db, h.cfg, ops.HistoryReplayInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	target := "/clients/" + url.PathEscape(rep.ClientID) + "/documents/" +
		strings.ToLower(string(rep.Type)) + "?replay=" + url.QueryEscape(id)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) parseType(raw string) (document.Type, error) {
	typ, err := document.ParseType(raw)
	if err != nil {
		return "", errors.NewInvalidRequest("unknown document type")
	}
	for _, disabled := range h.cfg.DisabledTypes {
		if strings.EqualFold(disabled, string(typ)) {
			return "", errors.NewInvalidRequest("document type is disabled")
		}
	}
	return typ, nil
}

func (h *Handlers) enabledTypes() []document.Type {
	var out []document.Type
	for _, t := range document.AllTypes() {
		if _, err := h.parseType(string(t)); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// applyForm overlays submitted form fields onto the base draft so
// unsubmitted state, like id counters and signature detachment, survives.
func applyForm(d document.Draft, form url.Values) {
	switch t := d.(type) {
	case *document.OrdonnanceDraft:
		setIf(form, "date", &t.Date)
		setIf(form, "avocat", &t.Avocat)
		setIf(form, "victime", &t.Victime)
		setIf(form, "accuse", &t.Accuse)
		setIf(form, "juge", &t.Juge)
		setIf(form, "titre_faits", &t.TitreFaits)
		setIf(form, "titre_considerant", &t.TitreConsiderant)
		setIf(form, "duree", &t.Duree)
		setIf(form, "decision_texte", &t.DecisionTexte)
		setIf(form, "interdictions", &t.Interdictions)
		setIf(form, "logo", &t.Logo)
	case *document.ContratDraft:
		setIf(form, "date", &t.Date)
		setIf(form, "ref_dossier", &t.RefDossier)
		setIf(form, "avocat", &t.Avocat)
		setIf(form, "client", &t.Client)
		setIf(form, "objet", &t.Objet)
		setIf(form, "montant", &t.Montant)
		setIf(form, "conditions_paiement", &t.ConditionsPaiement)
		if form.Has("signature") {
			submitted := form.Get("signature")
			if submitted != t.Signature.Value {
				t.Signature.Override(submitted)
			}
		}
		// An untouched signature follows the client-name field.
		t.Signature.SyncFrom(t.Client)
	case *document.PlainteDraft:
		setIf(form, "date", &t.Date)
		setIf(form, "ref_dossier", &t.RefDossier)
		setIf(form, "avocat", &t.Avocat)
		setIf(form, "victime", &t.Victime)
		setIf(form, "accuse", &t.Accuse)
		setIf(form, "faits", &t.Faits)
		setIf(form, "infractions", &t.Infractions)
		for i, id := range form["piece_id"] {
			pid := parseInt(id)
			for j := range t.Pieces {
				if t.Pieces[j].ID != pid {
					continue
				}
				if descs := form["piece_description"]; i < len(descs) {
					t.Pieces[j].Description = descs[i]
				}
				if imgs := form["piece_image"]; i < len(imgs) {
					t.Pieces[j].Image = imgs[i]
				}
			}
		}
	case *document.FactureDraft:
		setIf(form, "date", &t.Date)
		setIf(form, "ref_facture", &t.RefFacture)
		setIf(form, "client", &t.Client)
		setIf(form, "adresse_client", &t.AdresseClient)
		setIf(form, "compte_bancaire", &t.CompteBancaire)
		if form.Has("frais_taux") {
			t.FraisTaux = parseFloat(form.Get("frais_taux"))
		}
		for i, id := range form["item_id"] {
			iid := parseInt(id)
			for j := range t.Items {
				if t.Items[j].ID != iid {
					continue
				}
				if descs := form["item_description"]; i < len(descs) {
					t.Items[j].Description = descs[i]
				}
				if prices := form["item_prix"]; i < len(prices) {
					t.Items[j].Prix = parseFloat(prices[i])
				}
			}
		}
	}
}

func setIf(form url.Values, key string, dst *string) {
	if form.Has(key) {
		*dst = form.Get(key)
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
