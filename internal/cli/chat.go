// chat.go - Interactive chat command handler for the aiconsole CLI.
//
// Handles "aiconsole chat", a line-based REPL for conversing with the
// backend. Turns are persisted through the same snapshot store the TUI
// uses, so conversations survive restarts and show up in both surfaces.
//
// Command: chat
//
// Examples:
//   aiconsole chat                    Start chat with the default model
//   aiconsole chat --model llama3     Use a specific model
//   aiconsole chat --thinking         Show model reasoning while streaming
//
// Interactive commands (during chat):
//   /help, /h           Show available commands
//   /new                Start a fresh session
//   /model [name]       Show or switch model
//   /thinking           Toggle reasoning display
//   /history            Show the current conversation
//   /sessions           List saved sessions
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel the current generation
//   Ctrl+D              Exit chat
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/morganforge/aiconsole/internal/api"
	"github.com/morganforge/aiconsole/internal/chat"
	"github.com/morganforge/aiconsole/internal/config"
	"github.com/morganforge/aiconsole/internal/state"
	"github.com/morganforge/aiconsole/internal/storage"
	"github.com/morganforge/aiconsole/internal/util"
)

// chatHistoryFile is the liner history file name under the config dir.
const chatHistoryFile = "chat_history"

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := runChat(args); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// chatREPL holds the state of one interactive chat run.
type chatREPL struct {
	store        *state.Store
	orch         *chat.Orchestrator
	line         *liner.State
	historyPath  string
	showThinking bool
}

func runChat(args Args) error {
	if !IsTTY() {
		return errors.New("chat requires an interactive terminal; use ask for piped input")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	statePath, err := cfg.StatePath()
	if err != nil {
		return err
	}
	snapshots, err := storage.Open(statePath)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	store := state.NewStore(log.New(errOut(), "", 0))
	store.Subscribe(func(snapshot state.State) {
		if err := snapshots.Save(snapshot); err != nil {
			fmt.Fprintln(errOut(), MutedStyle.Render("warning: failed to persist conversation: "+err.Error()))
		}
	})
	store.Hydrate(snapshots)

	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: cfg.APIBaseURL})
	orch := chat.NewOrchestrator(store, client)
	if args.Model != "" {
		orch.SetModel(args.Model)
	} else {
		orch.SetModel(cfg.DefaultModel)
	}

	repl := &chatREPL{
		store:        store,
		orch:         orch,
		showThinking: args.ShowThinking || cfg.UI.ShowThinking,
	}

	repl.line = liner.NewLiner()
	repl.line.SetCtrlCAborts(true)
	defer repl.close()

	if dir, err := config.ConfigDir(); err == nil {
		repl.historyPath = filepath.Join(dir, chatHistoryFile)
		if f, err := os.Open(repl.historyPath); err == nil {
			repl.line.ReadHistory(f)
			f.Close()
		}
	}

	repl.printWelcome()
	return repl.loop()
}

// close saves input history and releases the terminal.
func (r *chatREPL) close() {
	if r.historyPath != "" {
		if f, err := os.Create(r.historyPath); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

func (r *chatREPL) printWelcome() {
	fmt.Println(TitleStyle.Render("aiconsole chat"))
	model := r.orch.Model()
	if model == "" {
		model = "(service default)"
	}
	fmt.Println(LabelStyle.Render("Model:") + ValueStyle.Render(model))
	if sess, ok := r.store.ActiveSession(); ok && len(sess.Messages) > 0 {
		fmt.Println(LabelStyle.Render("Session:") + ValueStyle.Render(sess.Title))
	}
	fmt.Println(MutedStyle.Render("Type /help for commands, Ctrl+D to exit."))
	fmt.Println()
}

func (r *chatREPL) loop() error {
	for {
		input, err := r.line.Prompt(PromptStyle.Render("you> "))
		if err == liner.ErrPromptAborted {
			fmt.Println(MutedStyle.Render("(interrupted)"))
			continue
		}
		if err != nil {
			// io.EOF on Ctrl+D
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.handleCommand(input); quit {
				return nil
			}
			continue
		}

		r.sendTurn(input)
	}
}

// handleCommand runs a slash command. Returns true when the REPL should exit.
func (r *chatREPL) handleCommand(input string) bool {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(MutedStyle.Render(`Commands:
  /new              Start a fresh session
  /model [name]     Show or switch model
  /thinking         Toggle reasoning display
  /history          Show the current conversation
  /sessions         List saved sessions
  /quit, /q         Exit chat`))

	case "/new":
		r.store.Dispatch(state.CreateSession{})
		fmt.Println(MutedStyle.Render("Started a new session."))

	case "/model":
		if len(fields) > 1 {
			r.orch.SetModel(fields[1])
			fmt.Println(MutedStyle.Render("Model set to " + fields[1]))
		} else {
			model := r.orch.Model()
			if model == "" {
				model = "(service default)"
			}
			fmt.Println(MutedStyle.Render("Current model: " + model))
		}

	case "/thinking":
		r.showThinking = !r.showThinking
		if r.showThinking {
			fmt.Println(MutedStyle.Render("Reasoning display on."))
		} else {
			fmt.Println(MutedStyle.Render("Reasoning display off."))
		}

	case "/history":
		r.printHistory()

	case "/sessions":
		printSessionTable(r.store.Sessions())

	default:
		fmt.Println(MutedStyle.Render("Unknown command " + cmd + ", try /help"))
	}
	return false
}

func (r *chatREPL) printHistory() {
	sess, ok := r.store.ActiveSession()
	if !ok || len(sess.Messages) == 0 {
		fmt.Println(MutedStyle.Render("No messages yet."))
		return
	}
	for _, msg := range sess.Messages {
		fmt.Println(LabelStyle.Render(msg.Role.DisplayName() + ":"))
		fmt.Println(ValueStyle.Render(msg.Content))
		fmt.Println()
	}
}

func (r *chatREPL) sendTurn(input string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printedThinking := false
	printedAnswer := false

	err := r.orch.Send(ctx, input, chat.TurnCallbacks{
		OnThinking: func(text string) {
			if !r.showThinking {
				return
			}
			printedThinking = true
			fmt.Fprint(errOut(), ThinkingStyle.Render(text))
		},
		OnAnswer: func(text string) {
			if printedThinking && !printedAnswer {
				fmt.Fprintln(errOut())
			}
			printedAnswer = true
			fmt.Print(text)
		},
	})

	if printedAnswer || printedThinking {
		fmt.Println()
	}
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrBusy):
			fmt.Println(MutedStyle.Render("Still generating, wait for the current answer."))
		case errors.Is(err, context.Canceled):
			fmt.Println(MutedStyle.Render("(cancelled)"))
		default:
			printError(err)
		}
	}
	fmt.Println()
}

// printSessionTable writes a compact session listing, most recent first.
func printSessionTable(sessions []state.ChatSession) {
	if len(sessions) == 0 {
		fmt.Println(MutedStyle.Render("No saved sessions."))
		return
	}
	for i, sess := range sessions {
		title := util.TruncateWidth(sess.Title, 48)
		fmt.Printf("%s %s %s\n",
			LabelStyle.Width(4).Render(fmt.Sprintf("%d", i+1)),
			ValueStyle.Render(util.PadRight(title, 50)),
			MutedStyle.Render(fmt.Sprintf("%d messages, %s",
				len(sess.Messages), sess.UpdatedAt.Format("2006-01-02 15:04"))))
	}
}
