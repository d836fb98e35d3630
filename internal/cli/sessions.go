// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/magchat/magchat/internal/export"
	"github.com/magchat/magchat/internal/session"
	"github.com/magchat/magchat/internal/storage"
	"github.com/magchat/magchat/internal/ui/styles"
)

// runSessions dispatches the sessions subcommands against the local store.
func (a *app) runSessions() error {
	path, err := storage.DefaultPath()
	if err != nil {
		return err
	}
	store, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open session store: %w", err)
	}
	defer store.Close()

	switch a.args.Subcommand {
	case "", "list":
		return a.listSessions(store, "")
	case "search":
		if strings.TrimSpace(a.args.Query) == "" {
			return NewUsageError("search needs a query, e.g. magchat sessions search margins")
		}
		return a.listSessions(store, a.args.Query)
	case "show":
		return a.showSession(store)
	case "delete":
		return a.deleteSession(store)
	case "export":
		return a.exportSession(store)
	default:
		return NewUsageError("unknown sessions subcommand %q; use list, search, show, delete, or export", a.args.Subcommand)
	}
}

func (a *app) listSessions(store *storage.Store, query string) error {
	var metas []storage.SessionMeta
	var err error
	if query == "" {
		metas, err = store.List()
	} else {
		metas, err = store.Search(query)
	}
	if err != nil {
		return err
	}

	if a.args.JSON {
		type row struct {
			ID       string   `json:"id"`
			Title    string   `json:"title"`
			Tickers  []string `json:"tickers"`
			Messages int      `json:"messages"`
			Updated  string   `json:"updated_at"`
		}
		rows := make([]row, 0, len(metas))
		for _, m := range metas {
			rows = append(rows, row{
				ID:       m.ID,
				Title:    m.Title,
				Tickers:  m.Tickers,
				Messages: m.MessageCount,
				Updated:  m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		return printJSON(rows)
	}

	fmt.Print(session.FormatSessionList(metas))
	return nil
}

// showSession prints a saved transcript to stdout as markdown.
func (a *app) showSession(store *storage.Store) error {
	rec, err := a.loadRecord(store)
	if err != nil {
		return err
	}

	exporter, err := export.ForFormat("markdown", export.DefaultOptions())
	if err != nil {
		return err
	}
	data, err := exporter.Export(rec)
	if err != nil {
		return err
	}

	if stdoutIsTerminal() {
		fmt.Print(renderMarkdown(string(data)))
		return nil
	}
	fmt.Print(ensureTrailingNewline(string(data)))
	return nil
}

func (a *app) deleteSession(store *storage.Store) error {
	rec, err := a.loadRecord(store)
	if err != nil {
		return err
	}
	if err := store.Delete(rec.ID); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess(fmt.Sprintf("Deleted session %s (%s)", rec.ID, rec.Title)))
	return nil
}

func (a *app) exportSession(store *storage.Store) error {
	rec, err := a.loadRecord(store)
	if err != nil {
		return err
	}

	format := a.args.Format
	if format == "" {
		format = "markdown"
	}
	exporter, err := export.ForFormat(format, export.DefaultOptions())
	if err != nil {
		return NewUsageError("%v", err)
	}

	path, err := export.ExportToFile(rec, exporter, export.DefaultOptions())
	if err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("Exported to " + path))
	return nil
}

// loadRecord resolves the session id argument. A unique id prefix is enough;
// full ids are unwieldy to type.
func (a *app) loadRecord(store *storage.Store) (*storage.SessionRecord, error) {
	id := strings.TrimSpace(a.args.ID)
	if id == "" {
		return nil, NewUsageError("a session id is required; find one with: magchat sessions list")
	}

	rec, err := store.Load(id)
	if err == nil {
		return rec, nil
	}

	// Try prefix match before giving up.
	metas, listErr := store.List()
	if listErr != nil {
		return nil, err
	}
	var match string
	for _, m := range metas {
		if strings.HasPrefix(m.ID, id) {
			if match != "" {
				return nil, NewUsageError("session id %q is ambiguous; use more characters", id)
			}
			match = m.ID
		}
	}
	if match == "" {
		return nil, err
	}
	return store.Load(match)
}
