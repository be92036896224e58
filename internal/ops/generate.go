package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/editor"
	"github.com/moorelegal/dossier/internal/errors"
	"github.com/moorelegal/dossier/internal/pdf"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	ClientID string
	Type     document.Type
	// Draft overrides the stored draft for this generation. Nil means
	// use the saved draft or the type defaults.
	Draft document.Draft
	// Dir overrides the export directory.
	Dir string
}

// GenerateOutput contains the result of the Generate operation.
type GenerateOutput struct {
	PDFPath   string `json:"pdf_path"`
	HistoryID string `json:"history_id"`
	Ref       string `json:"ref"`
	Descr     string `json:"descr"`
}

// Generate runs the full document transaction: persist the draft, export
// the PDF, then append the ledger entry with a deep snapshot. The draft
// save survives an export failure; history is written only after the PDF
// file exists.
func Generate(ctx context.Context, database *sql.DB, cfg *config.Config, exporter pdf.Exporter, guard *editor.Guard, input GenerateInput) (*GenerateOutput, error) {
	c, err := loadClient(ctx, database, input.ClientID)
	if err != nil {
		return nil, err
	}

	draft := input.Draft
	if draft == nil {
		fetched, err := DraftFetch(ctx, database, cfg, DraftFetchInput{ClientID: c.ID, Type: input.Type})
		if err != nil {
			return nil, err
		}
		draft = fetched.Draft
	} else if draft.Type() != input.Type {
		return nil, errors.NewInvalidRequest("draft type does not match requested type")
	}

	if err := document.Validate(draft); err != nil {
		return nil, err
	}

	dir, err := exportDir(cfg, input.Dir)
	if err != nil {
		return nil, err
	}

	info := clientInfo(c)
	ref, descr := document.HistoryMeta(draft, info)

	session := editor.NewSession(info, draft, guard)
	res, err := session.Generate(ctx, editor.GenerateFuncs{
		SaveDraft: func(ctx context.Context, d document.Draft) error {
			raw, err := document.Encode(d)
			if err != nil {
				return err
			}
			return db.SetDraft(ctx, database, c.ID, d.Type().DraftField(), raw)
		},
		Export: func(ctx context.Context, d document.Draft) (string, error) {
			return exporter.Export(ctx, d, dir)
		},
		AppendHistory: func(ctx context.Context, snapshot document.Draft) (string, error) {
			raw, err := document.Encode(snapshot)
			if err != nil {
				return "", errors.NewInternal(err)
			}
			entry := &db.HistoryEntry{
				ID:        db.NewID(),
				ClientID:  c.ID,
				CreatedAt: time.Now(),
				DocType:   string(snapshot.Type()),
				Ref:       ref,
				Descr:     descr,
				Snapshot:  raw,
			}
			if err := db.InsertHistory(ctx, database, entry); err != nil {
				return "", errors.NewInternal(err)
			}
			return entry.ID, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &GenerateOutput{
		PDFPath:   res.PDFPath,
		HistoryID: res.HistoryID,
		Ref:       ref,
		Descr:     descr,
	}, nil
}
