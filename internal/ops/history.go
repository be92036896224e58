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

// TypeFilterAll matches every document type in history filtering.
const TypeFilterAll = "TOUS"

// HistoryItem is one ledger entry prepared for display.
type HistoryItem struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	DocType    string `json:"doc_type"`
	Ref        string `json:"ref"`
	Descr      string `json:"descr"`
	Replayable bool   `json:"replayable"`
}

// HistoryListInput contains parameters for the HistoryList operation.
type HistoryListInput struct {
	ClientID   string
	TypeFilter string // one document type or TOUS/empty for all
	Query      string // case-insensitive needle over type, ref, descr
}

// HistoryListOutput contains the result of the HistoryList operation.
type HistoryListOutput struct {
	Items []HistoryItem `json:"items"`
	Total int           `json:"total"` // before filtering
}

// HistoryList returns a client's ledger, newest first, filtered for
// display. Entries without a snapshot are listed but marked not
// replayable.
func HistoryList(ctx context.Context, database *sql.DB, cfg *config.Config, input HistoryListInput) (*HistoryListOutput, error) {
	c, err := loadClient(ctx, database, input.ClientID)
	if err != nil {
		return nil, err
	}

	entries, err := db.ListHistory(ctx, database, c.ID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	filtered := FilterHistory(entries, input.TypeFilter, input.Query)
	items := make([]HistoryItem, 0, len(filtered))
	for _, e := range filtered {
		items = append(items, HistoryItem{
			ID:         e.ID,
			Date:       document.FrenchDateShort(e.CreatedAt),
			DocType:    e.DocType,
			Ref:        e.Ref,
			Descr:      e.Descr,
			Replayable: e.Snapshot != "",
		})
	}

	return &HistoryListOutput{Items: items, Total: len(entries)}, nil
}

// FilterHistory applies the display filter: exact type match (TOUS or
// empty matches all) plus a case-insensitive text query over the type,
// reference, and description fields. Order is preserved.
func FilterHistory(entries []*db.HistoryEntry, typeFilter, query string) []*db.HistoryEntry {
	typeFilter = strings.ToUpper(strings.TrimSpace(typeFilter))
	needle := strings.ToLower(strings.TrimSpace(query))

	var out []*db.HistoryEntry
	for _, e := range entries {
		if typeFilter != "" && typeFilter != TypeFilterAll && e.DocType != typeFilter {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(e.DocType + " " + e.Ref + " " + e.Descr)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// HistoryDeleteInput contains parameters for the HistoryDelete operation.
type HistoryDeleteInput struct {
	ID string
}

// HistoryDelete removes one ledger entry. Irreversible.
func HistoryDelete(ctx context.Context, database *sql.DB, cfg *config.Config, input HistoryDeleteInput) error {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return errors.NewInvalidRequest("history id is required")
	}
	if err := db.DeleteHistory(ctx, database, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFound(id)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// HistoryClearInput contains parameters for the HistoryClear operation.
type HistoryClearInput struct {
	ClientID string
}

// HistoryClearOutput contains the result of the HistoryClear operation.
type HistoryClearOutput struct {
	Deleted int64 `json:"deleted"`
}

// HistoryClear removes a client's entire ledger. Irreversible.
func HistoryClear(ctx context.Context, database *sql.DB, cfg *config.Config, input HistoryClearInput) (*HistoryClearOutput, error) {
	c, err := loadClient(ctx, database, input.ClientID)
	if err != nil {
		return nil, err
	}
	n, err := db.ClearHistory(ctx, database, c.ID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &HistoryClearOutput{Deleted: n}, nil
}
