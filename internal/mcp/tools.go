package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var clientAddToolDef = mcp.NewTool("client_add",
	mcp.WithDescription("Create a new client dossier. The name is stored uppercased."),
	mcp.WithString("nom", mcp.Required(),
		mcp.Description("Client name")),
	mcp.WithString("type",
		mcp.Description("Client type: individu, entreprise or organisation (default individu)")),
	mcp.WithString("telephone",
		mcp.Description("Phone number")),
	mcp.WithString("notes",
		mcp.Description("Free-form notes, markdown allowed")),
)

var clientGetToolDef = mcp.NewTool("client_get",
	mcp.WithDescription("Fetch one client dossier by id."),
	mcp.WithString("id", mcp.Required(),
		mcp.Description("Client id")),
)

var clientListToolDef = mcp.NewTool("client_list",
	mcp.WithDescription("List all client dossiers ordered by name."),
)

var clientUpdateInfoToolDef = mcp.NewTool("client_update_info",
	mcp.WithDescription("Patch the contact fields of a dossier. Omitted fields are left untouched."),
	mcp.WithString("id", mcp.Required(),
		mcp.Description("Client id")),
	mcp.WithString("telephone",
		mcp.Description("New phone number")),
	mcp.WithString("notes",
		mcp.Description("New notes")),
)

var draftSaveToolDef = mcp.NewTool("draft_save",
	mcp.WithDescription("Validate and persist a document draft. Last write wins."),
	mcp.WithString("client_id", mcp.Required(),
		mcp.Description("Client id")),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Document type: ORDONNANCE, CONTRAT, PLAINTE or FACTURE")),
	mcp.WithObject("draft", mcp.Required(),
		mcp.Description("Draft fields as a JSON object matching the document type")),
)

var draftFetchToolDef = mcp.NewTool("draft_fetch",
	mcp.WithDescription("Load the saved draft for a document type, or the type defaults when none is stored."),
	mcp.WithString("client_id", mcp.Required(),
		mcp.Description("Client id")),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Document type: ORDONNANCE, CONTRAT, PLAINTE or FACTURE")),
)

var draftClearToolDef = mcp.NewTool("draft_clear",
	mcp.WithDescription("Remove the saved draft for one document type. The next fetch returns defaults."),
	mcp.WithString("client_id", mcp.Required(),
		mcp.Description("Client id")),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Document type: ORDONNANCE, CONTRAT, PLAINTE or FACTURE")),
)

var documentGenerateToolDef = mcp.NewTool("document_generate",
	mcp.WithDescription("Save the draft, export the PDF and append the history entry with a snapshot. "+
		"Without a draft argument the saved draft (or the type defaults) is used."),
	mcp.WithString("client_id", mcp.Required(),
		mcp.Description("Client id")),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Document type: ORDONNANCE, CONTRAT, PLAINTE or FACTURE")),
	mcp.WithObject("draft",
		mcp.Description("Draft fields to generate from, overriding the saved draft")),
	mcp.WithString("dir",
		mcp.Description("Export directory override")),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List a client's generation ledger, newest first."),
	mcp.WithString("client_id", mcp.Required(),
		mcp.Description("Client id")),
	mcp.WithString("type_filter",
		mcp.Description("Document type to keep, or TOUS for all")),
	mcp.WithString("query",
		mcp.Description("Case-insensitive text filter over type, ref and description")),
)

var historyReplayToolDef = mcp.NewTool("history_replay",
	mcp.WithDescription("Decode a ledger entry's snapshot back into an editable draft."),
	mcp.WithString("id", mcp.Required(),
		mcp.Description("History entry id")),
)

var historyDeleteToolDef = mcp.NewTool("history_delete",
	mcp.WithDescription("Remove one ledger entry. Irreversible."),
	mcp.WithString("id", mcp.Required(),
		mcp.Description("History entry id")),
)

var historyClearToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Remove every ledger entry of one client. Irreversible."),
	mcp.WithString("client_id", mcp.Required(),
		mcp.Description("Client id")),
)

var dossierArchiveToolDef = mcp.NewTool("dossier_archive",
	mcp.WithDescription("Export a full dossier (client, drafts, ledger) to a JSONL archive file."),
	mcp.WithString("client_id", mcp.Required(),
		mcp.Description("Client id")),
	mcp.WithString("path",
		mcp.Description("Archive file path; defaults to the export directory")),
)
