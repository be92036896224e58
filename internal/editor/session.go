// Package editor holds the per-document editing session and the
// save-export-append transaction around document generation.
package editor

import (
	"context"
	"sync"

	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
)

// State is the editor session lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateEditing   State = "editing"
	StateExporting State = "exporting"
	StateClosed    State = "closed"
)

// Guard tracks in-flight exports per (client, document type) so a second
// generate trigger is rejected no matter which surface it comes from.
type Guard struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewGuard returns an empty export guard.
func NewGuard() *Guard {
	return &Guard{active: make(map[string]bool)}
}

func guardKey(clientID string, t document.Type) string {
	return clientID + "/" + string(t)
}

// Acquire marks an export in flight. Returns EXPORT_IN_PROGRESS when one
// already is.
func (g *Guard) Acquire(clientID string, t document.Type) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := guardKey(clientID, t)
	if g.active[key] {
		return errors.NewExportInProgress(string(t))
	}
	g.active[key] = true
	return nil
}

// Release clears the in-flight mark.
func (g *Guard) Release(clientID string, t document.Type) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, guardKey(clientID, t))
}

// GenerateFuncs are the three sequenced steps of document generation.
// The ops layer wires them to the store and the PDF composer; tests can
// substitute any step.
type GenerateFuncs struct {
	// SaveDraft persists the draft. Runs first; its result is kept even
	// when a later step fails.
	SaveDraft func(ctx context.Context, d document.Draft) error
	// Export writes the PDF and returns its path.
	Export func(ctx context.Context, d document.Draft) (string, error)
	// AppendHistory records the ledger entry. Receives a deep clone of
	// the draft; runs only after Export succeeds.
	AppendHistory func(ctx context.Context, snapshot document.Draft) (string, error)
}

// Result reports a completed generation.
type Result struct {
	PDFPath   string
	HistoryID string
}

// Session owns one client's draft for one document type.
type Session struct {
	mu     sync.Mutex
	client *document.ClientInfo
	draft  document.Draft
	state  State
	guard  *Guard
}

// NewSession opens a session over an already-hydrated draft. A nil guard
// gets a private one.
func NewSession(client *document.ClientInfo, draft document.Draft, guard *Guard) *Session {
	if guard == nil {
		guard = NewGuard()
	}
	return &Session{
		client: client,
		draft:  draft,
		state:  StateIdle,
		guard:  guard,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the live draft. Callers mutate it through Edit only.
func (s *Session) Draft() document.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Edit applies a field mutation to the draft.
func (s *Session) Edit(fn func(document.Draft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateClosed:
		return errors.NewSessionClosed()
	case StateExporting:
		// Edits during an export would tear the data out from under the
		// composer mid-read.
		return errors.NewExportInProgress(string(s.draft.Type()))
	}
	fn(s.draft)
	s.state = StateEditing
	return nil
}

// CanClose reports whether the session may be torn down. False while an
// export is reading the draft.
func (s *Session) CanClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != StateExporting
}

// Close ends the session. Rejected while exporting.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateExporting {
		return errors.NewExportInProgress(string(s.draft.Type()))
	}
	s.state = StateClosed
	return nil
}

// Generate runs save, export, and history append strictly in that order.
// A second call while one is in flight returns EXPORT_IN_PROGRESS. On
// export failure the saved draft is kept and no history is written; the
// session returns to idle either way.
func (s *Session) Generate(ctx context.Context, funcs GenerateFuncs) (*Result, error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, errors.NewSessionClosed()
	}
	if s.state == StateExporting {
		s.mu.Unlock()
		return nil, errors.NewExportInProgress(string(s.draft.Type()))
	}
	clientID := ""
	if s.client != nil {
		clientID = s.client.ID
	}
	if err := s.guard.Acquire(clientID, s.draft.Type()); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateExporting
	draft := s.draft
	s.mu.Unlock()

	defer func() {
		s.guard.Release(clientID, draft.Type())
		s.mu.Lock()
		if s.state == StateExporting {
			s.state = StateIdle
		}
		s.mu.Unlock()
	}()

	if err := funcs.SaveDraft(ctx, draft); err != nil {
		return nil, errors.NewDraftSaveFailed(err)
	}

	path, err := funcs.Export(ctx, draft)
	if err != nil {
		return nil, err
	}

	historyID, err := funcs.AppendHistory(ctx, draft.Clone())
	if err != nil {
		return nil, err
	}

	return &Result{PDFPath: path, HistoryID: historyID}, nil
}
