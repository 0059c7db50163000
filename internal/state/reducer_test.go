// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package state

import (
	"reflect"
	"testing"
	"time"
)

// fakeAction is an action type the reducer does not know about.
type fakeAction struct{}

func (fakeAction) isAction() {}

func TestReduce_InitFromStorage(t *testing.T) {
	snapshot := State{
		Sessions: []ChatSession{NewSession("")},
		Projects: []Project{NewProject("work")},
	}
	snapshot.ActiveSessionID = snapshot.Sessions[0].ID

	var s State
	if !reduce(&s, InitFromStorage{Snapshot: snapshot}) {
		t.Fatal("InitFromStorage reported no change")
	}

	if len(s.Sessions) != 1 || len(s.Projects) != 1 {
		t.Errorf("state = %+v", s)
	}
	if s.ActiveSessionID != snapshot.Sessions[0].ID {
		t.Errorf("active = %q", s.ActiveSessionID)
	}
}

func TestReduce_CreateProject(t *testing.T) {
	var s State
	reduce(&s, CreateProject{Name: "first"})
	reduce(&s, CreateProject{Name: "second"})

	if len(s.Projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(s.Projects))
	}
	// Most recent first
	if s.Projects[0].Name != "second" || s.Projects[1].Name != "first" {
		t.Errorf("order = %q, %q", s.Projects[0].Name, s.Projects[1].Name)
	}
	if s.Projects[0].ID == s.Projects[1].ID {
		t.Error("project IDs not unique")
	}
}

func TestReduce_CreateProject_BlankName(t *testing.T) {
	var s State
	if reduce(&s, CreateProject{Name: "   "}) {
		t.Error("blank project name should be a no-op")
	}
	if len(s.Projects) != 0 {
		t.Errorf("projects = %d, want 0", len(s.Projects))
	}
}

func TestReduce_CreateSession(t *testing.T) {
	var s State
	reduce(&s, CreateSession{})
	first := s.Sessions[0].ID
	reduce(&s, CreateSession{ProjectID: "p1"})

	if len(s.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(s.Sessions))
	}
	// Newest session is prepended and becomes active
	if s.Sessions[1].ID != first {
		t.Error("sessions not most-recent-first")
	}
	if s.ActiveSessionID != s.Sessions[0].ID {
		t.Error("new session should be active")
	}
	if s.Sessions[0].Title != DefaultTitle {
		t.Errorf("title = %q, want %q", s.Sessions[0].Title, DefaultTitle)
	}
	if s.Sessions[0].ProjectID != "p1" {
		t.Errorf("project = %q", s.Sessions[0].ProjectID)
	}
}

func TestReduce_AddMessage(t *testing.T) {
	var s State
	reduce(&s, CreateSession{})
	id := s.ActiveSessionID
	before := s.Sessions[0].UpdatedAt

	time.Sleep(time.Millisecond)
	reduce(&s, AddMessage{SessionID: id, Message: NewUserMessage("hi")})

	sess := s.Session(id)
	if len(sess.Messages) != 1 || sess.Messages[0].Content != "hi" {
		t.Errorf("messages = %+v", sess.Messages)
	}
	if !sess.UpdatedAt.After(before) {
		t.Error("UpdatedAt not refreshed")
	}
}

func TestReduce_AddMessage_UnknownSession(t *testing.T) {
	var s State
	reduce(&s, CreateSession{})

	if reduce(&s, AddMessage{SessionID: "nope", Message: NewUserMessage("hi")}) {
		t.Error("AddMessage to unknown session should be a no-op")
	}
	if len(s.Sessions[0].Messages) != 0 {
		t.Error("state changed by invalid action")
	}
}

func TestReduce_ReplaceSessionMessages_Idempotent(t *testing.T) {
	var s State
	reduce(&s, CreateSession{})
	id := s.ActiveSessionID
	reduce(&s, AddMessage{SessionID: id, Message: NewUserMessage("a")})
	reduce(&s, AddMessage{SessionID: id, Message: NewAssistantMessage("b")})

	current := append([]Message(nil), s.Session(id).Messages...)
	before := s.Session(id).UpdatedAt

	time.Sleep(time.Millisecond)
	reduce(&s, ReplaceSessionMessages{SessionID: id, Messages: current})

	sess := s.Session(id)
	if !reflect.DeepEqual(sess.Messages, current) {
		t.Error("replacing with current messages must leave them unchanged")
	}
	if !sess.UpdatedAt.After(before) {
		t.Error("UpdatedAt should still refresh")
	}
}

func TestReduce_UpdateMessage_ContentPatch(t *testing.T) {
	var s State
	reduce(&s, CreateSession{})
	id := s.ActiveSessionID
	msg := NewAssistantMessage("")
	reduce(&s, AddMessage{SessionID: id, Message: msg})

	content := "partial answer"
	reduce(&s, UpdateMessage{SessionID: id, MessageID: msg.ID, Patch: MessagePatch{Content: &content}})

	got := s.Session(id).Messages[0]
	if got.Content != content {
		t.Errorf("content = %q", got.Content)
	}
	// Untouched fields survive the merge
	if got.ID != msg.ID || got.Role != RoleAssistant {
		t.Errorf("patch clobbered identity: %+v", got)
	}

	// Nil patch fields change nothing
	reduce(&s, UpdateMessage{SessionID: id, MessageID: msg.ID, Patch: MessagePatch{}})
	if s.Session(id).Messages[0].Content != content {
		t.Error("empty patch modified content")
	}
}

func TestReduce_UpdateSessionTitle(t *testing.T) {
	var s State
	reduce(&s, CreateSession{})
	id := s.ActiveSessionID

	reduce(&s, UpdateSessionTitle{SessionID: id, Title: "Greetings"})
	if s.Session(id).Title != "Greetings" {
		t.Errorf("title = %q", s.Session(id).Title)
	}

	if reduce(&s, UpdateSessionTitle{SessionID: "nope", Title: "x"}) {
		t.Error("title update for unknown session should be a no-op")
	}
}

func TestReduce_UnknownAction(t *testing.T) {
	var s State
	reduce(&s, CreateSession{})
	snapshot := s.Clone()

	if reduce(&s, fakeAction{}) {
		t.Error("unknown action reported a change")
	}
	if !reflect.DeepEqual(s.Sessions[0].Messages, snapshot.Sessions[0].Messages) ||
		s.ActiveSessionID != snapshot.ActiveSessionID {
		t.Error("unknown action modified state")
	}
}

// TestReduce_ActiveSessionIntegrity drives the action sequences the
// application generates and checks the active reference always resolves.
func TestReduce_ActiveSessionIntegrity(t *testing.T) {
	var s State

	check := func(step string) {
		t.Helper()
		if s.ActiveSessionID == "" {
			return
		}
		if s.Session(s.ActiveSessionID) == nil {
			t.Fatalf("%s: dangling active session %q", step, s.ActiveSessionID)
		}
	}

	check("initial")
	reduce(&s, CreateSession{})
	check("create 1")
	reduce(&s, AddMessage{SessionID: s.ActiveSessionID, Message: NewUserMessage("x")})
	check("add message")
	reduce(&s, CreateSession{ProjectID: "p"})
	check("create 2")
	reduce(&s, SetActiveSession{ID: s.Sessions[1].ID})
	check("switch back")
	reduce(&s, CreateProject{Name: "proj"})
	check("create project")
	reduce(&s, ReplaceSessionMessages{SessionID: s.Sessions[0].ID, Messages: nil})
	check("replace messages")

	snap := s.Clone()
	reduce(&s, InitFromStorage{Snapshot: snap})
	check("rehydrate")
}
