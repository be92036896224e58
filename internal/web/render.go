package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/moorelegal/dossier/internal/errors"
)

// Renderer holds parsed templates, one cloned template set per page so
// each page's content block overrides the layout independently.
type Renderer struct {
	pages   map[string]*template.Template
	version string
}

var pageNames = []string{
	"clients.html",
	"dossier.html",
	"editor.html",
	"history.html",
	"error.html",
}

var templateFuncs = template.FuncMap{
	"markdown": renderMarkdown,
}

// NewRenderer parses the layout plus every page template from fsys.
func NewRenderer(fsys fs.FS, version string) *Renderer {
	layout := template.Must(
		template.New("layout.html").Funcs(templateFuncs).ParseFS(fsys,
			"layout.html",
			"preview_ordonnance.html",
			"preview_contrat.html",
			"preview_plainte.html",
			"preview_facture.html",
		))

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone := template.Must(layout.Clone())
		pages[name] = template.Must(clone.ParseFS(fsys, name))
	}

	return &Renderer{pages: pages, version: version}
}

type pageData struct {
	Title   string
	Version string
	Data    any
}

// renderPage writes a full page wrapped in the shared layout.
func (rr *Renderer) renderPage(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	rr.renderPageStatus(w, r, http.StatusOK, page, title, data)
}

func (rr *Renderer) renderPageStatus(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tmpl, ok := rr.pages[page]
	if !ok {
		log.Printf("render: unknown page %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout.html", pageData{
		Title:   title,
		Version: rr.version,
		Data:    data,
	})
	if err != nil {
		log.Printf("render: page %q: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderBlock executes a single named template, used for HTMX partial
// swaps like the live preview pane.
func (rr *Renderer) renderBlock(w http.ResponseWriter, page, block string, data any) {
	tmpl, ok := rr.pages[page]
	if !ok {
		log.Printf("render: unknown page %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		log.Printf("render: block %q of %q: %v", block, page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type errorData struct {
	Status  int
	Code    string
	Message string
}

// renderError negotiates the error representation: JSON for API
// clients, a toast-sized fragment for HTMX, a full page otherwise.
func (rr *Renderer) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := string(errors.ErrInternal)
	message := "internal error"

	var derr *errors.DossierError
	if stderrors.As(err, &derr) {
		status = derr.Status
		code = string(derr.Code)
		message = derr.Message
	} else {
		log.Printf("web: unhandled error: %v", err)
	}

	if wantsJSON(r) {
		renderJSON(w, status, map[string]string{
			"error":   code,
			"message": message,
		})
		return
	}

	data := errorData{Status: status, Code: code, Message: message}
	if r.Header.Get("HX-Request") == "true" {
		var buf bytes.Buffer
		if err := rr.pages["error.html"].ExecuteTemplate(&buf, "flash", data); err != nil {
			log.Printf("render: flash: %v", err)
			http.Error(w, message, status)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("HX-Retarget", "#flash")
		w.Header().Set("HX-Reswap", "innerHTML")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
		return
	}

	rr.renderPageStatus(w, r, status, "error.html", "Erreur", data)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("render: json: %v", err)
	}
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderMarkdown converts client notes to sanitized-by-default HTML.
// Goldmark escapes raw HTML unless WithUnsafe is set, which it is not.
func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}
