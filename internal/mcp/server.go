// Package mcp exposes the dossier operations as MCP tools over stdio.
package mcp

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/moorelegal/dossier/internal/config"
)

// KnownTypes lists all valid tool type prefixes.
var KnownTypes = []string{"client", "draft", "document", "history", "dossier"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"client_add": {
		def:     clientAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClientAdd },
	},
	"client_get": {
		def:     clientGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClientGet },
	},
	"client_list": {
		def:     clientListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClientList },
	},
	"client_update_info": {
		def:     clientUpdateInfoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleClientUpdateInfo },
	},
	"draft_save": {
		def:     draftSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraftSave },
	},
	"draft_fetch": {
		def:     draftFetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraftFetch },
	},
	"draft_clear": {
		def:     draftClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDraftClear },
	},
	"document_generate": {
		def:     documentGenerateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDocumentGenerate },
	},
	"history_list": {
		def:     historyListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryList },
	},
	"history_replay": {
		def:     historyReplayToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryReplay },
	},
	"history_delete": {
		def:     historyDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryDelete },
	},
	"history_clear": {
		def:     historyClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryClear },
	},
	"dossier_archive": {
		def:     dossierArchiveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDossierArchive },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "client_add" → "client").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		typ := GetTypeForTool(name)
		if typeSet[typ] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with the dossier tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"dossier",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	// Expand disabled types to tool names, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(db, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
