// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/storage"
	"github.com/magchat/magchat/internal/ui/styles"
)

// runHealth checks the backend and prints what it reports.
func (a *app) runHealth() error {
	a.out.Progress("Checking %s...", a.client.BaseURL())

	resp, err := a.client.Health(context.Background())
	if err != nil {
		if api.IsTransport(err) {
			return fmt.Errorf("cannot reach the backend at %s; is the server running? (%w)", a.client.BaseURL(), err)
		}
		return err
	}

	if a.args.JSON {
		return printJSON(resp)
	}

	if resp.Healthy() {
		fmt.Println(styles.RenderSuccess("Backend healthy at " + a.client.BaseURL()))
	} else {
		fmt.Println(styles.RenderWarning("Backend degraded (status: " + resp.Status + ")"))
	}
	fmt.Printf("  pinecone:  %s\n", yesNo(resp.PineconeConnected))
	fmt.Printf("  openai:    %s\n", yesNo(resp.OpenAIConfigured))
	fmt.Printf("  anthropic: %s\n", yesNo(resp.AnthropicConfigured))
	return nil
}

// runDoctor walks through local setup and connectivity, reporting each check
// and exiting non-zero when any fails.
func (a *app) runDoctor() error {
	failed := 0
	check := func(name string, err error, detail string) {
		if err != nil {
			failed++
			fmt.Println(styles.RenderError(name + ": " + err.Error()))
			return
		}
		line := name
		if detail != "" {
			line += ": " + detail
		}
		fmt.Println(styles.RenderSuccess(line))
	}

	// Config.
	check("config", a.cfg.Validate(), "defaults valid")

	// Log file location.
	logPath, err := a.cfg.LogFilePath()
	check("log file", err, logPath)

	// Session store.
	storePath, err := storage.DefaultPath()
	if err == nil {
		var store *storage.Store
		store, err = storage.Open(storePath)
		if err == nil {
			_, err = store.List()
			store.Close()
		}
	}
	check("session store", err, storePath)

	// Backend reachability.
	start := time.Now()
	resp, err := a.client.Health(context.Background())
	if err != nil {
		check("backend", err, "")
	} else {
		check("backend", nil, fmt.Sprintf("%s in %s", a.client.BaseURL(), time.Since(start).Round(time.Millisecond)))
		if !resp.Healthy() {
			failed++
			fmt.Println(styles.RenderWarning("backend status: " + resp.Status))
		}
		if !resp.PineconeConnected {
			fmt.Println(styles.RenderWarning("pinecone not connected - retrieval will fail"))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println(styles.RenderInfo("All checks passed."))
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
