// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the conversation data model and the reducer-driven
// store that owns it.
//
// All mutation flows through typed actions applied atomically by the store;
// a persistence subscriber observes every committed transition. The state is
// append-only: sessions and messages are never deleted, only added to or
// patched in place.
package state
