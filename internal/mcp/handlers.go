package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/editor"
	"github.com/moorelegal/dossier/internal/errors"
	"github.com/moorelegal/dossier/internal/ops"
	"github.com/moorelegal/dossier/internal/pdf"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	exporter pdf.Exporter
	guard    *editor.Guard
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		db:       db,
		cfg:      cfg,
		exporter: pdf.NewComposer(cfg.CabinetName),
		guard:    editor.NewGuard(),
	}
}

// Request types for each tool

// ClientAddRequest represents the arguments for client_add.
type ClientAddRequest struct {
	Nom       string `json:"nom"`
	Type      string `json:"type,omitempty"`
	Telephone string `json:"telephone,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ClientGetRequest represents the arguments for client_get.
type ClientGetRequest struct {
	ID string `json:"id"`
}

// ClientUpdateInfoRequest represents the arguments for client_update_info.
type ClientUpdateInfoRequest struct {
	ID        string  `json:"id"`
	Telephone *string `json:"telephone,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// DraftSaveRequest represents the arguments for draft_save.
type DraftSaveRequest struct {
	ClientID string          `json:"client_id"`
	Type     string          `json:"type"`
	Draft    json.RawMessage `json:"draft"`
}

// DraftFetchRequest represents the arguments for draft_fetch and draft_clear.
type DraftFetchRequest struct {
	ClientID string `json:"client_id"`
	Type     string `json:"type"`
}

// DocumentGenerateRequest represents the arguments for document_generate.
type DocumentGenerateRequest struct {
	ClientID string          `json:"client_id"`
	Type     string          `json:"type"`
	Draft    json.RawMessage `json:"draft,omitempty"`
	Dir      string          `json:"dir,omitempty"`
}

// HistoryListRequest represents the arguments for history_list.
type HistoryListRequest struct {
	ClientID   string `json:"client_id"`
	TypeFilter string `json:"type_filter,omitempty"`
	Query      string `json:"query,omitempty"`
}

// HistoryEntryRequest represents the arguments for history_replay and history_delete.
type HistoryEntryRequest struct {
	ID string `json:"id"`
}

// HistoryClearRequest represents the arguments for history_clear.
type HistoryClearRequest struct {
	ClientID string `json:"client_id"`
}

// ArchiveRequest represents the arguments for dossier_archive.
type ArchiveRequest struct {
	ClientID string `json:"client_id"`
	Path     string `json:"path,omitempty"`
}

// decodeDraft parses the type string and the raw draft object together.
func decodeDraft(typeName string, raw json.RawMessage) (document.Type, document.Draft, error) {
	typ, err := document.ParseType(typeName)
	if err != nil {
		return "", nil, errors.NewInvalidRequest("type must be one of: ORDONNANCE, CONTRAT, PLAINTE, FACTURE")
	}
	if len(raw) == 0 || string(raw) == "null" {
		return typ, nil, nil
	}
	d, err := document.Decode(typ, string(raw))
	if err != nil {
		return "", nil, errors.NewInvalidRequest("draft does not match the document type: " + err.Error())
	}
	return typ, d, nil
}

// Handler implementations

// HandleClientAdd handles the client_add tool call.
func (h *Handlers) HandleClientAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ClientAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ClientAdd(ctx, h.db, h.cfg, ops.ClientAddInput{
		Nom:       input.Nom,
		Type:      input.Type,
		Telephone: input.Telephone,
		Notes:     input.Notes,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleClientGet handles the client_get tool call.
func (h *Handlers) HandleClientGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ClientGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ClientGet(ctx, h.db, h.cfg, ops.ClientGetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleClientList handles the client_list tool call.
func (h *Handlers) HandleClientList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ClientList(ctx, h.db, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleClientUpdateInfo handles the client_update_info tool call.
func (h *Handlers) HandleClientUpdateInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ClientUpdateInfoRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ClientUpdateInfo(ctx, h.db, h.cfg, ops.ClientUpdateInfoInput{
		ID:        input.ID,
		Telephone: input.Telephone,
		Notes:     input.Notes,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraftSave handles the draft_save tool call.
func (h *Handlers) HandleDraftSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DraftSaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	_, draft, err := decodeDraft(input.Type, input.Draft)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.DraftSave(ctx, h.db, h.cfg, ops.DraftSaveInput{
		ClientID: input.ClientID,
		Draft:    draft,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraftFetch handles the draft_fetch tool call.
func (h *Handlers) HandleDraftFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DraftFetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	typ, _, err := decodeDraft(input.Type, nil)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.DraftFetch(ctx, h.db, h.cfg, ops.DraftFetchInput{
		ClientID: input.ClientID,
		Type:     typ,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDraftClear handles the draft_clear tool call.
func (h *Handlers) HandleDraftClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DraftFetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	typ, _, err := decodeDraft(input.Type, nil)
	if err != nil {
		return errorResult(err), nil
	}

	if err := ops.DraftClear(ctx, h.db, h.cfg, ops.DraftClearInput{
		ClientID: input.ClientID,
		Type:     typ,
	}); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"cleared": true, "type": typ})
}

// HandleDocumentGenerate handles the document_generate tool call.
func (h *Handlers) HandleDocumentGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DocumentGenerateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	typ, draft, err := decodeDraft(input.Type, input.Draft)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Generate(ctx, h.db, h.cfg, h.exporter, h.guard, ops.GenerateInput{
		ClientID: input.ClientID,
		Type:     typ,
		Draft:    draft,
		Dir:      input.Dir,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistoryList handles the history_list tool call.
func (h *Handlers) HandleHistoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.HistoryList(ctx, h.db, h.cfg, ops.HistoryListInput{
		ClientID:   input.ClientID,
		TypeFilter: input.TypeFilter,
		Query:      input.Query,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistoryReplay handles the history_replay tool call.
func (h *Handlers) HandleHistoryReplay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryEntryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.HistoryReplay(ctx, h.db, h.cfg, ops.HistoryReplayInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistoryDelete handles the history_delete tool call.
func (h *Handlers) HandleHistoryDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryEntryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.HistoryDelete(ctx, h.db, h.cfg, ops.HistoryDeleteInput{ID: input.ID}); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"deleted": true, "id": input.ID})
}

// HandleHistoryClear handles the history_clear tool call.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryClearRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.HistoryClear(ctx, h.db, h.cfg, ops.HistoryClearInput{ClientID: input.ClientID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDossierArchive handles the dossier_archive tool call.
func (h *Handlers) HandleDossierArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArchiveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Archive(ctx, h.db, h.cfg, ops.ArchiveInput{
		ClientID: input.ClientID,
		Path:     input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if derr, ok := err.(*errors.DossierError); ok {
		errorObj := map[string]any{
			"code":    derr.Code,
			"message": derr.Message,
			"status":  derr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if derr.Code != errors.ErrInternal && derr.Details != nil {
			errorObj["details"] = derr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
