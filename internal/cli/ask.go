// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/magchat/magchat/internal/api"
	"github.com/magchat/magchat/internal/config"
	"github.com/magchat/magchat/internal/model"
)

// historyFileName is kept under the config directory.
const historyFileName = "history"

// runAsk handles one-shot, batch, and interactive questions.
func (a *app) runAsk() error {
	tickers, err := a.resolveTickers()
	if err != nil {
		return err
	}

	if len(tickers) > 1 {
		if a.args.Interactive {
			return NewUsageError("interactive mode takes one ticker; switch with /ticker instead")
		}
		if strings.TrimSpace(a.args.Question) == "" {
			return NewUsageError("no question given; usage: magchat ask -t %s \"question\"", strings.Join(tickers, ","))
		}
		return a.askBatch(tickers, a.args.Question)
	}
	ticker := tickers[0]

	if a.args.Interactive || strings.TrimSpace(a.args.Question) == "" {
		if !stdoutIsTerminal() {
			return NewUsageError("no question given; usage: magchat ask -t %s \"question\"", ticker)
		}
		return a.runInteractive(ticker)
	}

	return a.askOnce(ticker, a.args.Question)
}

// askBatch sends one question about several tickers in a single backend call.
func (a *app) askBatch(tickers []string, question string) error {
	a.out.Progress("Asking about %s...", strings.Join(tickers, ", "))

	opts := a.requestOptions()
	reqs := make([]api.ChatRequest, 0, len(tickers))
	for _, t := range tickers {
		reqs = append(reqs, api.NewChatRequest(t, question, opts))
	}

	resp, err := a.client.ChatBatch(context.Background(), reqs)
	if err != nil {
		return describeAskFailure(err, strings.Join(tickers, ","), a.client.BaseURL())
	}

	if a.args.JSON {
		return printJSON(resp)
	}
	printBatch(tickers, resp)
	return nil
}

// askOnce sends a single question and prints the answer.
func (a *app) askOnce(ticker, question string) error {
	a.out.Progress("Asking about %s...", ticker)

	resp, err := a.client.Chat(context.Background(),
		api.NewChatRequest(ticker, question, a.requestOptions()))
	if err != nil {
		return describeAskFailure(err, ticker, a.client.BaseURL())
	}

	if a.args.JSON {
		return printJSON(answerJSON{
			Ticker:    ticker,
			Question:  question,
			Answer:    resp.Answer,
			Citations: resp.Citations,
			Flags:     resp.FlagsSummary,
			CacheHit:  resp.CacheHit,
		})
	}
	printAnswer(resp)
	return nil
}

// runInteractive is a minimal line-based prompt for terminals where the full
// TUI is unwanted (ssh sessions, scripts wrapping a pty). The ticker can be
// switched mid-session with "/ticker SYM"; "/quit" or EOF exits.
func (a *app) runInteractive(ticker string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyPath = filepath.Join(dir, historyFileName)
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("magchat interactive - asking about %s. /ticker SYM switches, /quit exits.\n", ticker)

	for {
		input, err := line.Prompt(ticker + "> ")
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == "/quit" || input == "/q" || input == "/exit":
			return nil
		case strings.HasPrefix(input, "/ticker "):
			next := model.NormalizeTicker(strings.TrimPrefix(input, "/ticker "))
			if !model.IsMAG7(next) {
				fmt.Printf("unknown ticker %s; tracked tickers: %v\n", next, model.MAG7)
				continue
			}
			ticker = next
			fmt.Printf("Now asking about %s.\n", ticker)
			continue
		case strings.HasPrefix(input, "/"):
			fmt.Println("Commands here: /ticker SYM, /quit. Use the TUI for everything else.")
			continue
		}

		if err := a.askOnce(ticker, input); err != nil {
			fmt.Println(err.Error())
		}
		fmt.Println()
	}
}

// runCompare asks one question against two or more tickers.
func (a *app) runCompare() error {
	if len(a.args.Tickers) < 2 {
		return NewUsageError("compare needs at least two tickers, e.g. magchat compare AAPL MSFT \"how do margins differ\"")
	}
	if strings.TrimSpace(a.args.Question) == "" {
		return NewUsageError("compare needs a question after the tickers")
	}

	a.out.Progress("Comparing %s... (this can take several minutes)", strings.Join(a.args.Tickers, " vs "))

	resp, err := a.client.Compare(context.Background(),
		api.NewCompareRequest(a.args.Tickers, a.args.Question, a.requestOptions()))
	if err != nil {
		return describeAskFailure(err, strings.Join(a.args.Tickers, ","), a.client.BaseURL())
	}

	if a.args.JSON {
		return printJSON(resp)
	}
	printCompare(a.args.Tickers, resp)
	return nil
}

// describeAskFailure adds actionable context to a failed question.
func describeAskFailure(err error, ticker, baseURL string) error {
	switch {
	case api.IsNotFound(err):
		return fmt.Errorf("no filings indexed for %s yet; run: magchat fetch %s (%w)", ticker, ticker, err)
	case api.IsTransport(err):
		return fmt.Errorf("cannot reach the backend at %s; is the server running? (%w)", baseURL, err)
	default:
		return err
	}
}
