// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the aiconsole application:
// atomic file writes for durable exports and rune-aware string handling for
// terminal display.
package util
