// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the conversation state.
//
// The full state is serialized as JSON and written under a single fixed key
// in a local SQLite database, overwriting the previous snapshot on every
// committed store transition. Sessions can additionally be exported as
// Markdown or JSON files.
package storage
