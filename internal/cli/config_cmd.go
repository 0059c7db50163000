// config_cmd.go - Configuration command handler for the aiconsole CLI.
//
// Command: config [subcommand]
//
// Examples:
//   aiconsole config show       Print the active configuration
//   aiconsole config init       Write a default config file
//   aiconsole config path       Print the config file location
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"
	"os"

	"github.com/morganforge/aiconsole/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := runConfig(args); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func runConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig()

	case "init":
		return initConfig()

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q, try show, init, or path", args.Subcommand)
	}
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, _ := config.ConfigPath()
	statePath, _ := cfg.StatePath()

	model := cfg.DefaultModel
	if model == "" {
		model = "(service default)"
	}

	fmt.Println(TitleStyle.Render("aiconsole configuration"))
	fmt.Println(LabelStyle.Render("Config file:") + ValueStyle.Render(path))
	fmt.Println(LabelStyle.Render("API base URL:") + ValueStyle.Render(cfg.APIBaseURL))
	fmt.Println(LabelStyle.Render("Model:") + ValueStyle.Render(model))
	fmt.Println(LabelStyle.Render("Show thinking:") + ValueStyle.Render(fmt.Sprintf("%t", cfg.UI.ShowThinking)))
	fmt.Println(LabelStyle.Render("State file:") + ValueStyle.Render(statePath))
	return nil
}

func initConfig() error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Println(MutedStyle.Render("Config already exists at " + path))
		return nil
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Println(MutedStyle.Render("Wrote default config to " + path))
	return nil
}
