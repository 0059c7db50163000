// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the conversation data model and the reducer-driven
// store that owns it.
package state

import (
	"strings"
	"time"
)

// =============================================================================
// REDUCER
// =============================================================================

// reduce applies one action to the state in place and reports whether the
// state changed. Invalid payloads (unknown session, empty project name,
// unrecognized action type) leave the state untouched.
func reduce(s *State, action Action) bool {
	switch a := action.(type) {
	case InitFromStorage:
		*s = a.Snapshot.Clone()
		return true

	case CreateProject:
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return false
		}
		s.Projects = append([]Project{NewProject(name)}, s.Projects...)
		return true

	case CreateSession:
		sess := NewSession(a.ProjectID)
		s.Sessions = append([]ChatSession{sess}, s.Sessions...)
		s.ActiveSessionID = sess.ID
		return true

	case SetActiveSession:
		s.ActiveSessionID = a.ID
		return true

	case AddMessage:
		sess := s.Session(a.SessionID)
		if sess == nil {
			return false
		}
		sess.Messages = append(sess.Messages, a.Message)
		sess.UpdatedAt = time.Now()
		return true

	case ReplaceSessionMessages:
		sess := s.Session(a.SessionID)
		if sess == nil {
			return false
		}
		sess.Messages = append([]Message(nil), a.Messages...)
		sess.UpdatedAt = time.Now()
		return true

	case UpdateMessage:
		sess := s.Session(a.SessionID)
		if sess == nil {
			return false
		}
		for i := range sess.Messages {
			if sess.Messages[i].ID != a.MessageID {
				continue
			}
			if a.Patch.Content != nil {
				sess.Messages[i].Content = *a.Patch.Content
			}
			if a.Patch.Attachments != nil {
				sess.Messages[i].Attachments = append([]Attachment(nil), a.Patch.Attachments...)
			}
			sess.UpdatedAt = time.Now()
			return true
		}
		return false

	case UpdateSessionTitle:
		sess := s.Session(a.SessionID)
		if sess == nil {
			return false
		}
		sess.Title = a.Title
		return true

	default:
		// Defensive: unknown actions are silently ignored.
		return false
	}
}
