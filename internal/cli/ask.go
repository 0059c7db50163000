// ask.go - Single question command handler for the aiconsole CLI.
//
// Handles "aiconsole ask" which sends one prompt to the backend and
// streams the answer to stdout.
//
// Command: ask [question]
//
// Examples:
//   aiconsole ask "What is the capital of France?"
//   aiconsole ask --model gpt-oss "Explain this error"
//   aiconsole ask --thinking "Prove that sqrt(2) is irrational"
//   echo "summarize" | aiconsole ask
//
// Flags:
//   -m, --model NAME    Use specific model (overrides config)
//   --thinking          Show model reasoning on stderr while streaming
//   -q, --quiet         Suppress the rendered markdown pass
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/morganforge/aiconsole/internal/api"
	"github.com/morganforge/aiconsole/internal/config"
)

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := runAsk(args); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func runAsk(args Args) error {
	question := strings.TrimSpace(args.Query)

	// Piped stdin becomes the question (or its context) when no
	// question was given on the command line.
	if question == "" && !IsTTY() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return errors.New("ask requires a question, e.g. aiconsole ask \"why is the sky blue\"")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	model := args.Model
	if model == "" {
		model = cfg.DefaultModel
	}
	showThinking := args.ShowThinking || cfg.UI.ShowThinking

	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: cfg.APIBaseURL})

	// Ctrl+C cancels the stream instead of killing the process abruptly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var answer strings.Builder
	streamErr := client.Stream(ctx, question, model, func(seg api.Segment) {
		if seg.Thinking {
			if showThinking {
				fmt.Fprint(errOut(), ThinkingStyle.Render(seg.Text))
			}
			return
		}
		answer.WriteString(seg.Text)
		fmt.Print(seg.Text)
	})

	if answer.Len() > 0 || showThinking {
		fmt.Println()
	}
	if streamErr != nil {
		return streamErr
	}

	// A second, rendered pass is worth the duplication on a real
	// terminal; piped output already has the raw text.
	if IsStdoutTTY() && !args.Quiet && looksLikeMarkdown(answer.String()) {
		fmt.Println(MutedStyle.Render("---"))
		fmt.Print(renderMarkdown(answer.String()))
	}
	return nil
}

// looksLikeMarkdown reports whether a rendered pass would add anything
// over the raw streamed text.
func looksLikeMarkdown(s string) bool {
	return strings.Contains(s, "```") ||
		strings.Contains(s, "\n#") ||
		strings.HasPrefix(s, "#") ||
		strings.Contains(s, "\n- ") ||
		strings.Contains(s, "**")
}
