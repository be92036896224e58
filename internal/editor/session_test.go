package editor

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	client := &document.ClientInfo{ID: "01hxabcd", Nom: "DUPONT"}
	return NewSession(client, document.NewFacture(client), nil)
}

// okFuncs returns generate steps that all succeed and record what ran.
func okFuncs(calls *[]string) GenerateFuncs {
	return GenerateFuncs{
		SaveDraft: func(ctx context.Context, d document.Draft) error {
			*calls = append(*calls, "save")
			return nil
		},
		Export: func(ctx context.Context, d document.Draft) (string, error) {
			*calls = append(*calls, "export")
			return "/tmp/out.pdf", nil
		},
		AppendHistory: func(ctx context.Context, snapshot document.Draft) (string, error) {
			*calls = append(*calls, "append")
			return "hist-1", nil
		},
	}
}

func TestGenerate_Sequencing(t *testing.T) {
	s := testSession(t)
	var calls []string

	res, err := s.Generate(context.Background(), okFuncs(&calls))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.PDFPath != "/tmp/out.pdf" || res.HistoryID != "hist-1" {
		t.Errorf("result = %+v", res)
	}
	want := []string{"save", "export", "append"}
	if len(calls) != 3 {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
	if got := s.State(); got != StateIdle {
		t.Errorf("state = %q, want idle", got)
	}
}

func TestGenerate_ExportFailure_NoHistory(t *testing.T) {
	s := testSession(t)
	var calls []string
	funcs := okFuncs(&calls)
	funcs.Export = func(ctx context.Context, d document.Draft) (string, error) {
		calls = append(calls, "export")
		return "", errors.NewExportFailed(stderrors.New("rasterize boom"))
	}

	_, err := s.Generate(context.Background(), funcs)
	if !errors.Is(err, errors.ErrExportFailed) {
		t.Fatalf("error = %v, want EXPORT_FAILED", err)
	}
	for _, call := range calls {
		if call == "append" {
			t.Error("history appended after failed export")
		}
	}
	// Save ran before the export attempt, so no work is lost.
	if calls[0] != "save" {
		t.Errorf("calls = %v, want save first", calls)
	}
	// Session is recoverable: a retry succeeds.
	if got := s.State(); got != StateIdle {
		t.Errorf("state after failure = %q, want idle", got)
	}
	if _, err := s.Generate(context.Background(), okFuncs(&calls)); err != nil {
		t.Errorf("retry error = %v", err)
	}
}

func TestGenerate_SaveFailure(t *testing.T) {
	s := testSession(t)
	var calls []string
	funcs := okFuncs(&calls)
	funcs.SaveDraft = func(ctx context.Context, d document.Draft) error {
		return stderrors.New("disk full")
	}

	_, err := s.Generate(context.Background(), funcs)
	if !errors.Is(err, errors.ErrDraftSaveFailed) {
		t.Fatalf("error = %v, want DRAFT_SAVE_FAILED", err)
	}
	if len(calls) != 0 {
		t.Errorf("calls = %v, want nothing past save", calls)
	}
}

func TestGenerate_ReentrancyGuard(t *testing.T) {
	s := testSession(t)

	started := make(chan struct{})
	release := make(chan struct{})
	funcs := GenerateFuncs{
		SaveDraft: func(ctx context.Context, d document.Draft) error { return nil },
		Export: func(ctx context.Context, d document.Draft) (string, error) {
			close(started)
			<-release
			return "/tmp/out.pdf", nil
		},
		AppendHistory: func(ctx context.Context, snapshot document.Draft) (string, error) {
			return "hist-1", nil
		},
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.Generate(context.Background(), funcs); err != nil {
			t.Errorf("first Generate error = %v", err)
		}
	}()

	<-started
	if s.CanClose() {
		t.Error("CanClose() = true while exporting")
	}
	if err := s.Close(); !errors.Is(err, errors.ErrExportInProgress) {
		t.Errorf("Close() error = %v, want EXPORT_IN_PROGRESS", err)
	}
	if _, err := s.Generate(context.Background(), GenerateFuncs{}); !errors.Is(err, errors.ErrExportInProgress) {
		t.Errorf("second Generate error = %v, want EXPORT_IN_PROGRESS", err)
	}

	close(release)
	wg.Wait()

	if !s.CanClose() {
		t.Error("CanClose() = false after export settled")
	}
}

func TestGuard_AcrossSessions(t *testing.T) {
	client := &document.ClientInfo{ID: "01hxabcd", Nom: "DUPONT"}
	guard := NewGuard()
	a := NewSession(client, document.NewFacture(client), guard)
	b := NewSession(client, document.NewFacture(client), guard)

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Generate(context.Background(), GenerateFuncs{
			SaveDraft: func(ctx context.Context, d document.Draft) error { return nil },
			Export: func(ctx context.Context, d document.Draft) (string, error) {
				close(started)
				<-release
				return "", nil
			},
			AppendHistory: func(ctx context.Context, snapshot document.Draft) (string, error) { return "", nil },
		})
	}()

	<-started
	_, err := b.Generate(context.Background(), GenerateFuncs{})
	if !errors.Is(err, errors.ErrExportInProgress) {
		t.Errorf("cross-session Generate error = %v, want EXPORT_IN_PROGRESS", err)
	}
	close(release)
	wg.Wait()

	// A different document type for the same client is not blocked.
	c := NewSession(client, document.NewContrat(client, ""), guard)
	var calls []string
	if _, err := c.Generate(context.Background(), okFuncs(&calls)); err != nil {
		t.Errorf("other-type Generate error = %v", err)
	}
}

func TestSession_ClosedRejectsEverything(t *testing.T) {
	s := testSession(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := s.Edit(func(d document.Draft) {}); !errors.Is(err, errors.ErrSessionClosed) {
		t.Errorf("Edit error = %v, want SESSION_CLOSED", err)
	}
	var calls []string
	if _, err := s.Generate(context.Background(), okFuncs(&calls)); !errors.Is(err, errors.ErrSessionClosed) {
		t.Errorf("Generate error = %v, want SESSION_CLOSED", err)
	}
	if len(calls) != 0 {
		t.Errorf("closed session ran steps: %v", calls)
	}
}

func TestEdit_MutatesDraft(t *testing.T) {
	s := testSession(t)
	err := s.Edit(func(d document.Draft) {
		d.(*document.FactureDraft).FraisTaux = 10
	})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got := s.Draft().(*document.FactureDraft).FraisTaux; got != 10 {
		t.Errorf("FraisTaux = %v", got)
	}
	if s.State() != StateEditing {
		t.Errorf("state = %q, want editing", s.State())
	}
}

func TestGenerate_SnapshotIsClone(t *testing.T) {
	s := testSession(t)
	var snapshot document.Draft
	funcs := GenerateFuncs{
		SaveDraft: func(ctx context.Context, d document.Draft) error { return nil },
		Export:    func(ctx context.Context, d document.Draft) (string, error) { return "x.pdf", nil },
		AppendHistory: func(ctx context.Context, snap document.Draft) (string, error) {
			snapshot = snap
			return "hist-1", nil
		},
	}
	if _, err := s.Generate(context.Background(), funcs); err != nil {
		t.Fatal(err)
	}

	s.Edit(func(d document.Draft) {
		d.(*document.FactureDraft).Items[0].Prix = 1
	})
	if snapshot.(*document.FactureDraft).Items[0].Prix != 5000 {
		t.Error("history snapshot shares state with live draft")
	}
}
