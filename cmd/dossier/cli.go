package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/moorelegal/dossier/internal/config"
	"github.com/moorelegal/dossier/internal/document"
	"github.com/moorelegal/dossier/internal/editor"
	"github.com/moorelegal/dossier/internal/errors"
	"github.com/moorelegal/dossier/internal/ops"
	"github.com/moorelegal/dossier/internal/pdf"
	"github.com/moorelegal/dossier/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "dossier",
		Usage:   "Legal dossier and document generator",
		Version: Version,
		Commands: []*cli.Command{
			clientCmd(db, cfg),
			infoCmd(db, cfg),
			draftCmd(db, cfg),
			generateCmd(db, cfg),
			historyCmd(db, cfg),
			replayCmd(db, cfg),
			archiveCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// clientCmd groups the client subcommands.
func clientCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "client",
		Usage: "Manage client dossiers",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Create a new client dossier",
				ArgsUsage: "<nom>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: "individu", Usage: "Client type: individu|entreprise|organisation"},
					&cli.StringFlag{Name: "telephone", Usage: "Phone number"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ClientAdd(c.Context, db, cfg, ops.ClientAddInput{
						Nom:       strings.Join(c.Args().Slice(), " "),
						Type:      c.String("type"),
						Telephone: c.String("telephone"),
						Notes:     c.String("notes"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "show",
				Usage:     "Show one client dossier",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.ClientGet(c.Context, db, cfg, ops.ClientGetInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List all client dossiers",
				Action: func(c *cli.Context) error {
					output, err := ops.ClientList(c.Context, db, cfg)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// infoCmd creates the info command (contact merge-patch).
func infoCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Update client contact fields (unset flags are left untouched)",
		ArgsUsage: "<client-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "telephone", Usage: "New phone number"},
			&cli.StringFlag{Name: "notes", Usage: "New notes"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ClientUpdateInfoInput{ID: c.Args().First()}
			if c.IsSet("telephone") {
				telephone := c.String("telephone")
				input.Telephone = &telephone
			}
			if c.IsSet("notes") {
				notes := c.String("notes")
				input.Notes = &notes
			}

			output, err := ops.ClientUpdateInfo(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// draftCmd groups the draft subcommands.
func draftCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	clientFlag := &cli.StringFlag{Name: "client", Aliases: []string{"c"}, Required: true, Usage: "Client id"}
	typeFlag := &cli.StringFlag{Name: "type", Aliases: []string{"t"}, Required: true, Usage: "Document type: ORDONNANCE|CONTRAT|PLAINTE|FACTURE"}

	return &cli.Command{
		Name:  "draft",
		Usage: "Manage per-type document drafts",
		Subcommands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Save a draft (reads the draft JSON from stdin)",
				Flags: []cli.Flag{clientFlag, typeFlag},
				Action: func(c *cli.Context) error {
					if !stdinHasData() {
						return outputError(errors.NewInvalidRequest("draft JSON must be piped via stdin"))
					}
					raw, err := readStdin()
					if err != nil {
						return outputError(errors.NewInternal(err))
					}

					draft, err := decodeDraftArg(c.String("type"), raw)
					if err != nil {
						return outputError(err)
					}

					output, err := ops.DraftSave(c.Context, db, cfg, ops.DraftSaveInput{
						ClientID: c.String("client"),
						Draft:    draft,
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "show",
				Usage: "Show the saved draft, or the type defaults when none is stored",
				Flags: []cli.Flag{clientFlag, typeFlag},
				Action: func(c *cli.Context) error {
					typ, err := document.ParseType(c.String("type"))
					if err != nil {
						return outputError(errors.NewInvalidRequest(err.Error()))
					}
					output, err := ops.DraftFetch(c.Context, db, cfg, ops.DraftFetchInput{
						ClientID: c.String("client"),
						Type:     typ,
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "clear",
				Usage: "Remove the saved draft for one document type",
				Flags: []cli.Flag{clientFlag, typeFlag},
				Action: func(c *cli.Context) error {
					typ, err := document.ParseType(c.String("type"))
					if err != nil {
						return outputError(errors.NewInvalidRequest(err.Error()))
					}
					if err := ops.DraftClear(c.Context, db, cfg, ops.DraftClearInput{
						ClientID: c.String("client"),
						Type:     typ,
					}); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"cleared": true, "type": typ})
				},
			},
		},
	}
}

// generateCmd creates the generate command.
func generateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Save the draft, export the PDF and append the history entry (draft JSON may be piped via stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "client", Aliases: []string{"c"}, Required: true, Usage: "Client id"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Required: true, Usage: "Document type: ORDONNANCE|CONTRAT|PLAINTE|FACTURE"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Export directory override"},
		},
		Action: func(c *cli.Context) error {
			typ, err := document.ParseType(c.String("type"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			input := ops.GenerateInput{
				ClientID: c.String("client"),
				Type:     typ,
				Dir:      c.String("dir"),
			}

			// Draft piped on stdin overrides the saved draft
			if stdinHasData() {
				raw, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if raw != "" {
					draft, err := decodeDraftArg(c.String("type"), raw)
					if err != nil {
						return outputError(err)
					}
					input.Draft = draft
				}
			}

			exporter := pdf.NewComposer(cfg.CabinetName)
			output, err := ops.Generate(c.Context, db, cfg, exporter, editor.NewGuard(), input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyCmd groups the ledger subcommands.
func historyCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and prune the generation ledger",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List a client's ledger, newest first",
				ArgsUsage: "<client-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Document type filter (TOUS for all)"},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Text filter over type, ref and description"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.HistoryList(c.Context, db, cfg, ops.HistoryListInput{
						ClientID:   c.Args().First(),
						TypeFilter: c.String("type"),
						Query:      c.String("query"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove one ledger entry (irreversible)",
				ArgsUsage: "<entry-id>",
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if err := ops.HistoryDelete(c.Context, db, cfg, ops.HistoryDeleteInput{ID: id}); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
			{
				Name:      "clear",
				Usage:     "Remove every ledger entry of one client (irreversible)",
				ArgsUsage: "<client-id>",
				Action: func(c *cli.Context) error {
					output, err := ops.HistoryClear(c.Context, db, cfg, ops.HistoryClearInput{ClientID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// replayCmd creates the replay command.
func replayCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "Decode a ledger entry's snapshot back into an editable draft",
		ArgsUsage: "<entry-id>",
		Action: func(c *cli.Context) error {
			output, err := ops.HistoryReplay(c.Context, db, cfg, ops.HistoryReplayInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// archiveCmd creates the archive command.
func archiveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Export a full dossier (client, drafts, ledger) to a JSONL file",
		ArgsUsage: "<client-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Archive file path"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Archive(c.Context, db, cfg, ops.ArchiveInput{
				ClientID: c.Args().First(),
				Path:     c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command (web UI).
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the dossier web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// decodeDraftArg parses the type flag and the raw draft JSON together.
func decodeDraftArg(typeName, raw string) (document.Draft, error) {
	typ, err := document.ParseType(typeName)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	draft, err := document.Decode(typ, raw)
	if err != nil {
		return nil, errors.NewInvalidRequest("draft does not match the document type: " + err.Error())
	}
	return draft, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if derr, ok := err.(*errors.DossierError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", derr.Code, derr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
