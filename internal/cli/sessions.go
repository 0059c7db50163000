// sessions.go - Session management command handler for the aiconsole CLI.
//
// Command: sessions [subcommand]
//
// Examples:
//   aiconsole sessions               List saved sessions
//   aiconsole sessions list          Same as above
//   aiconsole sessions export 2      Export session 2 as markdown to stdout
//   aiconsole sessions export 2 --json --out chat.json
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/morganforge/aiconsole/internal/config"
	"github.com/morganforge/aiconsole/internal/state"
	"github.com/morganforge/aiconsole/internal/storage"
)

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) {
	if err := runSessions(args); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func runSessions(args Args) error {
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

	snapshot, err := snapshots.Load()
	if err != nil {
		return err
	}
	var sessions []state.ChatSession
	if snapshot != nil {
		sessions = snapshot.Sessions
	}

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "", "list":
		printSessionTable(sessions)
		return nil

	case "export":
		return exportSession(sessions, parser)

	default:
		return fmt.Errorf("unknown sessions subcommand %q, try list or export", parser.Subcommand())
	}
}

func exportSession(sessions []state.ChatSession, parser *ArgParser) error {
	ref := parser.Positional(1)
	if ref == "" {
		return errors.New("export requires a session number, see sessions list")
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || n > len(sessions) {
		return fmt.Errorf("no session %q, see sessions list", ref)
	}
	sess := sessions[n-1]

	var data []byte
	if parser.BoolFlag("json") {
		data, err = storage.ExportJSON(sess)
		if err != nil {
			return err
		}
	} else {
		data = []byte(storage.ExportMarkdown(sess))
	}

	if out := parser.Flag("out"); out != "" {
		if err := storage.WriteExport(out, data); err != nil {
			return err
		}
		fmt.Println(MutedStyle.Render("Exported to " + out))
		return nil
	}

	os.Stdout.Write(data)
	return nil
}
