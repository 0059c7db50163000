// aiconsole - A terminal interface for streaming AI chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/aiconsole/internal/api"
	"github.com/morganforge/aiconsole/internal/chat"
	"github.com/morganforge/aiconsole/internal/cli"
	"github.com/morganforge/aiconsole/internal/config"
	"github.com/morganforge/aiconsole/internal/state"
	"github.com/morganforge/aiconsole/internal/storage"
	uichat "github.com/morganforge/aiconsole/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runTUI wires storage, state, and the orchestrator together and hands
// the terminal to Bubble Tea.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so diagnostics go to a file.
	logger := newFileLogger()

	statePath, err := cfg.StatePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	snapshots, err := storage.Open(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open state storage: %v\n", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	store := state.NewStore(logger)
	store.Subscribe(func(snapshot state.State) {
		if err := snapshots.Save(snapshot); err != nil {
			logger.Printf("storage: failed to persist snapshot: %v", err)
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

	// Hot-reload the config so model changes apply to the next turn
	// without a restart.
	if path, err := config.ConfigPath(); err == nil {
		watcher, werr := config.NewWatcher(path, func(updated *config.Config) {
			orch.SetModel(updated.DefaultModel)
		}, logger)
		if werr != nil {
			logger.Printf("config: watch disabled: %v", werr)
		} else if werr := watcher.Watch(); werr != nil {
			logger.Printf("config: watch disabled: %v", werr)
			watcher.Close()
		} else {
			defer watcher.Close()
		}
	}

	model := uichat.New(store, orch, uichat.Options{
		ShowThinking: args.ShowThinking || cfg.UI.ShowThinking,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	model.SetSender(p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newFileLogger returns a logger writing under the config directory.
// Falls back to stderr when the directory is unavailable.
func newFileLogger() *log.Logger {
	dir, err := config.ConfigDir()
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	f, err := os.OpenFile(filepath.Join(dir, "aiconsole.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(f, "", log.LstdFlags)
}
