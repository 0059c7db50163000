// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of aiconsole:
// argument parsing, the one-shot ask command, the line-based chat REPL,
// session listing and export, and configuration management.
package cli
