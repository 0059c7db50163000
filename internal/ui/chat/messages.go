// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea message types for the chat surface.
//
// Messages fall into three groups:
//   - Streaming: turn lifecycle events delivered from the orchestrator
//     goroutine via Program.Send
//   - Input: user submission
//   - UI state: resize and transient status
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import "time"

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a turn started streaming.
type StreamStartMsg struct {
	SessionID string
	StartTime time.Time
}

// StreamSegmentMsg delivers one classified segment from the stream.
// Thinking segments update the reasoning panel only; answer segments are
// already persisted by the orchestrator, so the view just refreshes.
type StreamSegmentMsg struct {
	SessionID string
	Text      string
	Thinking  bool
}

// StreamDoneMsg signals the end of a turn. Err is nil on success; on
// failure the orchestrator has already patched the placeholder message
// with display text.
type StreamDoneMsg struct {
	SessionID string
	Err       error
}

// =============================================================================
// UI MESSAGES
// =============================================================================

// SubmitInputMsg carries a submitted input line.
type SubmitInputMsg struct {
	Text string
}

// StatusMsg sets a transient status line in the status bar.
type StatusMsg struct {
	Text string
}

// clearStatusMsg clears a previously shown status line.
type clearStatusMsg struct{}
