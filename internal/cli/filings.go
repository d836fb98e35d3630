// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/model"
	"github.com/magchat/magchat/internal/preview"
	"github.com/magchat/magchat/internal/ui/styles"
)

// runFetch triggers fetch-and-index for a ticker.
func (a *app) runFetch() error {
	ticker, err := a.resolveTicker()
	if err != nil {
		return err
	}

	forms := a.args.Forms
	if len(forms) == 0 {
		forms = []string{"10-K", "10-Q"}
	}

	a.out.Progress("Fetching %v for %s...", forms, ticker)
	if err := a.client.FetchFilings(context.Background(), ticker, forms, 0); err != nil {
		if api.IsTransport(err) {
			return fmt.Errorf("cannot reach the backend at %s; is the server running? (%w)", a.client.BaseURL(), err)
		}
		return err
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf(
		"Fetch started for %s. Indexing continues server-side; give it a minute before asking.", ticker)))
	return nil
}

// runPreview prints the cached filing preview, reflowed for reading.
func (a *app) runPreview() error {
	ticker, err := a.resolveTicker()
	if err != nil {
		return err
	}

	format := api.PreviewMarkdown
	switch a.args.Format {
	case "", "markdown", "md":
	case "text", "txt":
		format = api.PreviewText
	default:
		return NewUsageError("unknown preview format %q; use markdown or text", a.args.Format)
	}

	a.out.Progress("Loading preview for %s...", ticker)
	resp, err := a.client.Preview(context.Background(), ticker, format)
	if err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("no cached filing for %s; run: magchat fetch %s (%w)", ticker, ticker, err)
		}
		return err
	}

	fmt.Print(ensureTrailingNewline(preview.Reflow(resp.Content)))
	return nil
}

// runUpload uploads a local document for indexing.
func (a *app) runUpload() error {
	path := a.args.File
	if path == "" {
		return NewUsageError("upload needs a file, e.g. magchat upload notes.pdf -t AAPL")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	ticker := model.NormalizeTicker(a.args.Ticker)
	a.out.Progress("Uploading %s...", filepath.Base(path))
	resp, err := a.client.Upload(context.Background(), filepath.Base(path), f, ticker)
	if err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess(fmt.Sprintf("%s (%d chunks stored)", resp.Message, resp.ChunksStored)))
	return nil
}

// runTickers prints the catalog with per-ticker data availability.
func (a *app) runTickers() error {
	type row struct {
		Ticker  string `json:"ticker"`
		HasData bool   `json:"has_data"`
		Count   int    `json:"count"`
	}
	rows := make([]row, 0, len(model.MAG7))

	for _, ticker := range model.MAG7 {
		avail, err := a.client.DataAvailability(context.Background(), ticker)
		if err != nil {
			if api.IsTransport(err) {
				return fmt.Errorf("cannot reach the backend at %s; is the server running? (%w)", a.client.BaseURL(), err)
			}
			return err
		}
		rows = append(rows, row{Ticker: avail.Ticker, HasData: avail.HasData, Count: avail.Count})
	}

	if a.args.JSON {
		return printJSON(rows)
	}
	for _, r := range rows {
		if r.HasData {
			fmt.Printf("%-6s indexed (%d chunks)\n", r.Ticker, r.Count)
		} else {
			fmt.Printf("%-6s no data - run: magchat fetch %s\n", r.Ticker, r.Ticker)
		}
	}
	return nil
}
