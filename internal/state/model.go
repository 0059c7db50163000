// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the conversation data model and the reducer-driven
// store that owns it.
package state

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the sentinel title for a session that has not yet earned
// one from its first assistant reply.
const DefaultTitle = "New chat"

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DisplayName returns the label used when composing memory prompts.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// ENTITY TYPES
// =============================================================================

// Attachment is a reference to a file attached to a message.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url,omitempty"`
}

// Message is a single message within a session. User message content is
// immutable once added; assistant content is patched while streaming and
// settles when the stream ends.
type Message struct {
	ID          string       `json:"id"`
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ChatSession is one conversation thread. Messages are kept in insertion
// order; UpdatedAt is refreshed on every mutation of Messages.
type ChatSession struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id,omitempty"` // empty = no project
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// Project is a user-defined grouping label for sessions.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// State is the complete conversation state. Projects and Sessions are kept
// most-recent-first. ActiveSessionID is empty or references an existing
// session; the invariant holds because sessions are never deleted.
type State struct {
	Projects        []Project     `json:"projects"`
	Sessions        []ChatSession `json:"sessions"`
	ActiveSessionID string        `json:"active_session_id,omitempty"`
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// NewProject creates a project with a fresh ID and the current timestamp.
func NewProject(name string) Project {
	return Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NewSession creates an empty session with the default title.
func NewSession(projectID string) ChatSession {
	now := time.Now()
	return ChatSession{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// NewUserMessage creates a user message with a fresh ID.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message, typically empty as a
// placeholder to be filled during streaming.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// =============================================================================
// LOOKUP AND COPY
// =============================================================================

// Session returns a pointer to the session with the given ID, or nil.
// The pointer is into the receiver's backing array.
func (s *State) Session(id string) *ChatSession {
	for i := range s.Sessions {
		if s.Sessions[i].ID == id {
			return &s.Sessions[i]
		}
	}
	return nil
}

// ActiveSession returns a pointer to the active session, or nil when no
// session is active.
func (s *State) ActiveSession() *ChatSession {
	if s.ActiveSessionID == "" {
		return nil
	}
	return s.Session(s.ActiveSessionID)
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (s State) Clone() State {
	out := s
	out.Projects = make([]Project, len(s.Projects))
	copy(out.Projects, s.Projects)

	out.Sessions = make([]ChatSession, len(s.Sessions))
	for i, sess := range s.Sessions {
		out.Sessions[i] = sess.Clone()
	}
	return out
}

// Clone returns a deep copy of the session.
func (c ChatSession) Clone() ChatSession {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	for i, msg := range c.Messages {
		out.Messages[i] = msg
		if len(msg.Attachments) > 0 {
			out.Messages[i].Attachments = append([]Attachment(nil), msg.Attachments...)
		}
	}
	return out
}
