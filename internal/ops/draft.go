package ops

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
)

// DraftSaveInput contains parameters for the DraftSave operation.
type DraftSaveInput struct {
	ClientID string
	Draft    document.Draft
}

// DraftSaveOutput contains the result of the DraftSave operation.
type DraftSaveOutput struct {
	Type document.Type `json:"type"`
}

// DraftSave validates and persists a draft. Last write wins; there is no
// version check.
func DraftSave(ctx context.Context, database *sql.DB, cfg *config.Config, input DraftSaveInput) (*DraftSaveOutput, error) {
	if input.Draft == nil {
		return nil, errors.NewInvalidRequest("draft is required")
	}
	if err := document.Validate(input.Draft); err != nil {
		return nil, err
	}

	c, err := loadClient(ctx, database, input.ClientID)
	if err != nil {
		return nil, err
	}

	raw, err := document.Encode(input.Draft)
	if err != nil {
		return nil, errors.NewDraftSaveFailed(err)
	}
	if err := db.SetDraft(ctx, database, c.ID, input.Draft.Type().DraftField(), raw); err != nil {
		return nil, errors.NewDraftSaveFailed(err)
	}

	return &DraftSaveOutput{Type: input.Draft.Type()}, nil
}

// DraftFetchInput contains parameters for the DraftFetch operation.
type DraftFetchInput struct {
	ClientID string
	Type     document.Type
}

// DraftFetchOutput contains the result of the DraftFetch operation.
// Saved reports whether the draft came from storage; false means type
// defaults were built fresh for this client.
type DraftFetchOutput struct {
	Draft document.Draft `json:"draft"`
	Saved bool           `json:"saved"`
}

// DraftFetch loads the saved draft for a document type, or builds the
// defaults when none is stored.
func DraftFetch(ctx context.Context, database *sql.DB, cfg *config.Config, input DraftFetchInput) (*DraftFetchOutput, error) {
	c, err := loadClient(ctx, database, input.ClientID)
	if err != nil {
		return nil, err
	}

	raw, err := db.GetDraft(ctx, database, c.ID, input.Type.DraftField())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound(c.ID)
		}
		return nil, errors.NewInternal(err)
	}

	if raw == "" {
		d := document.NewDraft(input.Type, clientInfo(c), defaultAvocat(cfg))
		if d == nil {
			return nil, errors.NewInvalidRequest("unknown document type")
		}
		return &DraftFetchOutput{Draft: d, Saved: false}, nil
	}

	d, err := document.Decode(input.Type, raw)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &DraftFetchOutput{Draft: d, Saved: true}, nil
}

// DraftClearInput contains parameters for the DraftClear operation.
type DraftClearInput struct {
	ClientID string
	Type     document.Type
}

// DraftClear removes the saved draft for one document type.
func DraftClear(ctx context.Context, database *sql.DB, cfg *config.Config, input DraftClearInput) error {
	c, err := loadClient(ctx, database, input.ClientID)
	if err != nil {
		return err
	}
	if err := db.SetDraft(ctx, database, c.ID, input.Type.DraftField(), ""); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
