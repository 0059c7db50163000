// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat implements the Bubble Tea chat surface of aiconsole.

The model wires four concerns together:

  - A session sidebar listing saved conversations and projects, with
    keyboard selection.
  - A message viewport rendering the active conversation, assistant
    messages passed through glamour for markdown.
  - A reasoning panel that shows model thinking while a response
    streams. Thinking text is display-only and never persisted.
  - A single-line input with a model badge and status bar.

Streaming runs in a goroutine owned by the conversation orchestrator.
Segments arrive as Bubble Tea messages (StreamSegmentMsg, StreamDoneMsg)
delivered through Program.Send, so all state mutation stays on the
update loop.
*/
package chat
