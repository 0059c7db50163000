// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the conversation data model and the reducer-driven
// store that owns it.
package state

// =============================================================================
// ACTIONS
// =============================================================================

// Action is a discrete state transition. Actions are applied synchronously
// and atomically by the store; an action type the reducer does not recognize
// is a no-op.
type Action interface {
	isAction()
}

// InitFromStorage replaces the entire state with a persisted snapshot.
type InitFromStorage struct {
	Snapshot State
}

// CreateProject prepends a new project. Names that trim to nothing are
// rejected as a no-op.
type CreateProject struct {
	Name string
}

// CreateSession prepends a new empty session and makes it active.
type CreateSession struct {
	ProjectID string
}

// SetActiveSession sets the active session reference. The ID is not required
// to reference an existing session.
type SetActiveSession struct {
	ID string
}

// AddMessage appends a message to a session and refreshes its UpdatedAt.
// No-op if the session does not exist.
type AddMessage struct {
	SessionID string
	Message   Message
}

// ReplaceSessionMessages swaps a session's entire message sequence and
// refreshes its UpdatedAt. No-op if the session does not exist.
type ReplaceSessionMessages struct {
	SessionID string
	Messages  []Message
}

// UpdateMessage merges patch fields into one message of one session.
type UpdateMessage struct {
	SessionID string
	MessageID string
	Patch     MessagePatch
}

// MessagePatch carries the fields UpdateMessage may overwrite. Nil fields
// are left untouched.
type MessagePatch struct {
	Content     *string
	Attachments []Attachment
}

// UpdateSessionTitle overwrites a session's title.
type UpdateSessionTitle struct {
	SessionID string
	Title     string
}

func (InitFromStorage) isAction()        {}
func (CreateProject) isAction()          {}
func (CreateSession) isAction()          {}
func (SetActiveSession) isAction()       {}
func (AddMessage) isAction()             {}
func (ReplaceSessionMessages) isAction() {}
func (UpdateMessage) isAction()          {}
func (UpdateSessionTitle) isAction()     {}
