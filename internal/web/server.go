// Package web serves the dossier UI: client list, dossier pages, the
// four document editors with live preview, and the history ledger.
package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/editor"
	"github.com/moorelegal/dossier/internal/pdf"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the dossier UI.
func NewServer(db *sql.DB, cfg *config.Config, version, bind string, port int) *http.Server {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatalf("failed to create template sub-FS: %v", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to create static sub-FS: %v", err)
	}

	h := &Handlers{
		db:       db,
		cfg:      cfg,
		renderer: NewRenderer(templateSub, version),
		exporter: pdf.NewComposer(cfg.CabinetName),
		guard:    editor.NewGuard(),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/clients", http.StatusFound)
	})
	mux.HandleFunc("GET /clients", h.HandleClients)
	mux.HandleFunc("POST /clients", h.HandleClientCreate)
	mux.HandleFunc("GET /clients/{id}", h.HandleDossier)
	mux.HandleFunc("POST /clients/{id}/info", h.HandleClientInfo)
	mux.HandleFunc("GET /clients/{id}/documents/{type}", h.HandleEditor)
	mux.HandleFunc("POST /clients/{id}/documents/{type}", h.HandleEditorAction)
	mux.HandleFunc("GET /clients/{id}/history", h.HandleHistory)
	mux.HandleFunc("POST /clients/{id}/history/clear", h.HandleHistoryClear)
	mux.HandleFunc("POST /history/{id}/delete", h.HandleHistoryDelete)
	mux.HandleFunc("GET /history/{id}/replay", h.HandleHistoryReplay)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("Dossier UI running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
