// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat turns one user submission into one persisted exchange.
//
// The orchestrator composes prior turns into a memory-augmented prompt,
// drives the streaming query client, and patches the in-progress assistant
// message into the store as answer segments arrive. Thinking text is held in
// a per-turn ephemeral value and never persisted.
package chat
