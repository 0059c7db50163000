// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the conversation state.
package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/morganforge/aiconsole/internal/state"
	"github.com/morganforge/aiconsole/internal/util"
)

// =============================================================================
// SESSION EXPORT
// =============================================================================

// ExportMarkdown renders one session as a Markdown document with session
// metadata, timestamps, and role labels.
func ExportMarkdown(sess state.ChatSession) string {
	var sb strings.Builder
	sb.WriteString("# " + sess.Title + "\n\n")
	sb.WriteString("Session: " + sess.ID + "\n")
	sb.WriteString("Created: " + sess.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range sess.Messages {
		role := "**User**"
		if msg.Role == state.RoleAssistant {
			role = "**Assistant**"
		}
		sb.WriteString(role + " (" + msg.CreatedAt.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders one session as pretty-printed JSON.
func ExportJSON(sess state.ChatSession) ([]byte, error) {
	return json.MarshalIndent(sess, "", "  ")
}

// WriteExport writes exported data to path atomically.
func WriteExport(path string, data []byte) error {
	return util.AtomicWriteFile(path, data, 0644)
}
