// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Tests for the chat surface update logic. These exercise the model
// without a terminal: messages are fed straight into Update.
package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/aiconsole/internal/api"
	convo "github.com/morganforge/aiconsole/internal/chat"
	"github.com/morganforge/aiconsole/internal/state"
)

type emptyLoader struct{}

func (emptyLoader) Load() (*state.State, error) { return nil, nil }

// nullStreamer ignores prompts and returns success immediately.
type nullStreamer struct{}

func (nullStreamer) Stream(ctx context.Context, prompt, model string, callback api.SegmentCallback) error {
	return nil
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	store := state.NewStore(nil)
	store.Hydrate(emptyLoader{})
	orch := convo.NewOrchestrator(store, nullStreamer{})
	m := New(store, orch, Options{})
	m.SetSender(func(tea.Msg) {})

	// Simulate the initial resize every terminal delivers.
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestModel_ResizeMakesReady(t *testing.T) {
	m := newTestModel(t)
	if !m.ready {
		t.Fatal("model should be ready after a resize")
	}
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		t.Errorf("viewport has no size: %dx%d", m.viewport.Width, m.viewport.Height)
	}
}

func TestModel_ThinkingSegmentsAccumulate(t *testing.T) {
	m := newTestModel(t)

	m.Update(StreamStartMsg{})
	m.Update(StreamSegmentMsg{Text: "first ", Thinking: true})
	m.Update(StreamSegmentMsg{Text: "second", Thinking: true})

	if m.thinkingText != "first second" {
		t.Errorf("thinkingText = %q", m.thinkingText)
	}
}

func TestModel_NewTurnClearsThinking(t *testing.T) {
	m := newTestModel(t)

	m.Update(StreamSegmentMsg{Text: "old reasoning", Thinking: true})
	m.Update(StreamStartMsg{})

	if m.thinkingText != "" {
		t.Errorf("thinkingText should reset on a new turn, got %q", m.thinkingText)
	}
}

func TestModel_StreamDoneStopsGenerating(t *testing.T) {
	m := newTestModel(t)
	m.generating = true

	m.Update(StreamDoneMsg{})

	if m.generating {
		t.Error("generating should be false after StreamDoneMsg")
	}
}

func TestModel_CycleModelWalksTheCycle(t *testing.T) {
	m := newTestModel(t)

	if m.CurrentModel() != "" {
		t.Fatalf("initial model = %q, want empty", m.CurrentModel())
	}
	m.cycleModel()
	if m.CurrentModel() != "llama3" {
		t.Errorf("after one cycle = %q, want llama3", m.CurrentModel())
	}
	m.cycleModel()
	if m.CurrentModel() != "gpt-oss" {
		t.Errorf("after two cycles = %q, want gpt-oss", m.CurrentModel())
	}
	m.cycleModel()
	if m.CurrentModel() != "" {
		t.Errorf("cycle should wrap back to empty, got %q", m.CurrentModel())
	}
	if m.orch.Model() != "" {
		t.Errorf("orchestrator model should follow the cycle, got %q", m.orch.Model())
	}
}

func TestModel_SessionNavigation(t *testing.T) {
	m := newTestModel(t)

	// Hydration bootstrapped one session; add two more. CreateSession
	// prepends, so index 0 is the newest and currently active.
	m.store.Dispatch(state.CreateSession{})
	m.store.Dispatch(state.CreateSession{})

	if got := m.activeSessionIndex(); got != 0 {
		t.Fatalf("activeSessionIndex = %d, want 0", got)
	}

	m.selectSession(2)
	if got := m.activeSessionIndex(); got != 2 {
		t.Errorf("activeSessionIndex after select = %d, want 2", got)
	}

	// Out-of-range selection is ignored.
	m.selectSession(9)
	if got := m.activeSessionIndex(); got != 2 {
		t.Errorf("out-of-range selection moved the active session to %d", got)
	}
}

func TestModel_SubmitIgnoresBlankInput(t *testing.T) {
	m := newTestModel(t)

	m.Update(SubmitInputMsg{Text: "   "})

	if m.generating {
		t.Error("blank input must not start a turn")
	}
	sess, _ := m.store.ActiveSession()
	if len(sess.Messages) != 0 {
		t.Errorf("blank input appended %d messages", len(sess.Messages))
	}
}

func TestModel_ViewContainsTranscript(t *testing.T) {
	m := newTestModel(t)

	sess, _ := m.store.ActiveSession()
	m.store.Dispatch(state.AddMessage{
		SessionID: sess.ID,
		Message:   state.NewUserMessage("hello there"),
	})
	m.refreshViewport()

	if view := m.View(); !strings.Contains(view, "hello there") {
		t.Error("view does not contain the user message")
	}
}

func TestModel_HelpToggleChangesLayout(t *testing.T) {
	m := newTestModel(t)
	before := m.viewportHeight()

	m.showHelp = true
	after := m.viewportHeight()

	if after >= before {
		t.Errorf("help panel should shrink the viewport: %d -> %d", before, after)
	}
}

func TestModel_ThinkingPanelOccupiesSpace(t *testing.T) {
	store := state.NewStore(nil)
	store.Hydrate(emptyLoader{})
	m := New(store, convo.NewOrchestrator(store, nullStreamer{}), Options{ShowThinking: true})
	m.SetSender(func(tea.Msg) {})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	plain := m.viewportHeight()
	m.generating = true
	withPanel := m.viewportHeight()

	if withPanel >= plain {
		t.Errorf("reasoning panel should shrink the viewport: %d -> %d", plain, withPanel)
	}
}

func TestModelLabel(t *testing.T) {
	if modelLabel("") != "auto" {
		t.Errorf("modelLabel(\"\") = %q, want auto", modelLabel(""))
	}
	if modelLabel("llama3") != "llama3" {
		t.Errorf("modelLabel(llama3) = %q", modelLabel("llama3"))
	}
}
