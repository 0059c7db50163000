// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for aiconsole.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Model        string
	ShowThinking bool
	Quiet        bool

	// Command-specific
	Query      string
	Subcommand string

	// Raw args remaining after the command name
	Raw []string
}

const usageText = `aiconsole %s - streaming AI chat for the terminal

Aiconsole talks to an HTTP streaming backend and keeps your
conversations, projects, and titles locally.

Usage:
  aiconsole                       Start the TUI (default)
  aiconsole ask "question"        Ask a single question, stream the answer
  aiconsole chat                  Interactive chat REPL with history
  aiconsole sessions [subcommand] Session management
  aiconsole config [subcommand]   Configuration management
  aiconsole version               Show version
  aiconsole help                  Show this help

Sessions subcommands:
  sessions list                   List saved sessions
  sessions export N [--json]      Export session N (markdown by default)
                                  [--out FILE] writes to a file

Config subcommands:
  config show                     Print the active configuration
  config init                     Write a default config file
  config path                     Print the config file location

Global flags:
  -m, --model NAME                Use a specific model for this run
  --thinking                      Show model reasoning while streaming
  -q, --quiet                     Minimal output

Environment:
  AICONSOLE_API_BASE_URL          Override the backend base URL
  AICONSOLE_MODEL                 Override the default model
  NO_COLOR                        Disable colored output
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("aiconsole version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

func parseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	// No remaining args defaults to the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed

	case "chat":
		parseChatArgs(&parsed, remaining)
		return CmdChat, parsed

	case "session", "sessions":
		if len(remaining) > 0 {
			parsed.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdSessions, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown word with no flags reads naturally as a question.
		parsed.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, parsed
	}
}

// parseGlobalFlags extracts flags that apply to every command and returns
// the remaining arguments.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	remaining := make([]string, 0, len(argv))

	i := 0
	for i < len(argv) {
		switch arg := argv[i]; arg {
		case "-m", "--model":
			if i+1 < len(argv) {
				args.Model = argv[i+1]
				i += 2
				continue
			}
			i++
		case "--thinking":
			args.ShowThinking = true
			i++
		case "-q", "--quiet":
			args.Quiet = true
			i++
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
				i++
				continue
			}
			remaining = append(remaining, arg)
			i++
		}
	}

	return remaining, args
}

func parseAskArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	if m := parser.Flag("model"); m != "" {
		args.Model = m
	} else if m := parser.Flag("m"); m != "" {
		args.Model = m
	}
	if parser.BoolFlag("thinking") {
		args.ShowThinking = true
	}
	args.Query = strings.Join(parser.PositionalFrom(0), " ")
}

func parseChatArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	if m := parser.Flag("model"); m != "" {
		args.Model = m
	} else if m := parser.Flag("m"); m != "" {
		args.Model = m
	}
	if parser.BoolFlag("thinking") {
		args.ShowThinking = true
	}
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}

// errOut is the stream for error and diagnostic output.
func errOut() io.Writer {
	return os.Stderr
}
