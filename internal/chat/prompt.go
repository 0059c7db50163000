// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat turns one user submission into one persisted exchange.
package chat

import (
	"strings"

	"github.com/morganforge/aiconsole/internal/state"
)

// BuildPrompt composes the memory-augmented prompt for one turn: every prior
// message as a "<Role>: <content>" line, then the new user line and a
// trailing "Assistant:" cue. With no prior history the user text is sent
// unmodified.
func BuildPrompt(history []state.Message, userText string) string {
	if len(history) == 0 {
		return userText
	}

	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(msg.Role.DisplayName())
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(userText)
	sb.WriteString("\nAssistant:")
	return sb.String()
}
