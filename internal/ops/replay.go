package ops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/db"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/errors"
)

// HistoryReplayInput contains parameters for the HistoryReplay operation.
type HistoryReplayInput struct {
	ID string
}

// HistoryReplayOutput contains the result of the HistoryReplay operation.
// Draft is the decoded snapshot, ready to hydrate an editor in place of
// the saved draft.
type HistoryReplayOutput struct {
	ClientID string         `json:"client_id"`
	Type     document.Type  `json:"type"`
	Draft    document.Draft `json:"draft"`
}

// HistoryReplay turns a ledger entry's snapshot back into an editable
// draft. Entries without a snapshot cannot be replayed.
func HistoryReplay(ctx context.Context, database *sql.DB, cfg *config.Config, input HistoryReplayInput) (*HistoryReplayOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("history id is required")
	}

	entry, err := db.GetHistoryByID(ctx, database, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound(id)
		}
		return nil, errors.NewInternal(err)
	}

	if entry.Snapshot == "" {
		return nil, errors.NewInvalidRequest("history entry has no snapshot and cannot be replayed")
	}

	typ, err := document.ParseType(entry.DocType)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	draft, err := document.Decode(typ, entry.Snapshot)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &HistoryReplayOutput{ClientID: entry.ClientID, Type: typ, Draft: draft}, nil
}
