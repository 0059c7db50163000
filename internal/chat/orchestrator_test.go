// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/aiconsole/internal/api"
	"github.com/morganforge/aiconsole/internal/state"
)

// scriptStreamer plays back a fixed sequence of segments, optionally failing
// before or after delivery.
type scriptStreamer struct {
	segments   []api.Segment
	err        error
	failBefore bool

	gotPrompt string
	gotModel  string
	started   chan struct{} // closed when Stream begins, if set
	release   chan struct{} // Stream blocks until closed, if set
}

func (s *scriptStreamer) Stream(ctx context.Context, prompt, model string, callback api.SegmentCallback) error {
	s.gotPrompt = prompt
	s.gotModel = model
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.failBefore {
		return s.err
	}
	for _, seg := range s.segments {
		callback(seg)
	}
	return s.err
}

type emptyLoader struct{}

func (emptyLoader) Load() (*state.State, error) { return nil, nil }

func newTestStore(t *testing.T) *state.Store {
	t.Helper()
	store := state.NewStore(log.New(io.Discard, "", 0))
	store.Hydrate(emptyLoader{})
	return store
}

func activeMessages(t *testing.T, store *state.Store) []state.Message {
	t.Helper()
	sess, ok := store.ActiveSession()
	require.True(t, ok)
	return sess.Messages
}

func TestSend_PersistsExchange(t *testing.T) {
	store := newTestStore(t)
	streamer := &scriptStreamer{segments: []api.Segment{
		{Text: "thinking hard", Thinking: true},
		{Text: "Hello"},
		{Text: ", world"},
	}}
	orch := NewOrchestrator(store, streamer)

	var thinking []string
	var answers []string
	err := orch.Send(context.Background(), "  hi  ", TurnCallbacks{
		OnThinking: func(s string) { thinking = append(thinking, s) },
		OnAnswer:   func(s string) { answers = append(answers, s) },
	})
	require.NoError(t, err)

	msgs := activeMessages(t, store)
	require.Len(t, msgs, 2)
	assert.Equal(t, state.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content, "user message stores trimmed original text")
	assert.Equal(t, state.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hello, world", msgs[1].Content)

	// Each answer segment produced one patch with the accumulated text.
	assert.Equal(t, []string{"Hello", "Hello, world"}, answers)

	// Thinking reached the callback but never the store.
	assert.Equal(t, []string{"thinking hard"}, thinking)
	for _, m := range msgs {
		assert.NotContains(t, m.Content, "thinking hard")
	}

	assert.False(t, orch.IsGenerating())
}

func TestSend_BuildsMemoryPrompt(t *testing.T) {
	store := newTestStore(t)
	sess, _ := store.ActiveSession()
	store.Dispatch(state.AddMessage{SessionID: sess.ID, Message: state.NewUserMessage("hi")})
	store.Dispatch(state.AddMessage{SessionID: sess.ID, Message: state.NewAssistantMessage("hello")})

	streamer := &scriptStreamer{}
	orch := NewOrchestrator(store, streamer)
	orch.SetModel("gpt-oss")

	require.NoError(t, orch.Send(context.Background(), "how are you?", TurnCallbacks{}))

	assert.Equal(t, "User: hi\nAssistant: hello\nUser: how are you?\nAssistant:", streamer.gotPrompt)
	assert.Equal(t, "gpt-oss", streamer.gotModel)
}

func TestSend_TitleAutoSetOnce(t *testing.T) {
	store := newTestStore(t)
	answer := strings.Repeat("ab", 40) // 80 runes
	orch := NewOrchestrator(store, &scriptStreamer{segments: []api.Segment{{Text: answer}}})

	require.NoError(t, orch.Send(context.Background(), "q1", TurnCallbacks{}))

	sess, _ := store.ActiveSession()
	assert.Equal(t, answer[:60], sess.Title, "title is the first 60 characters of the answer")

	// A second long answer must not retitle the session.
	orch2 := NewOrchestrator(store, &scriptStreamer{segments: []api.Segment{
		{Text: strings.Repeat("z", 80)},
	}})
	require.NoError(t, orch2.Send(context.Background(), "q2", TurnCallbacks{}))

	sess, _ = store.ActiveSession()
	assert.Equal(t, answer[:60], sess.Title, "title set at most once per session")
}

func TestSend_ShortAnswerKeepsDefaultTitle(t *testing.T) {
	store := newTestStore(t)
	orch := NewOrchestrator(store, &scriptStreamer{segments: []api.Segment{{Text: "short"}}})

	require.NoError(t, orch.Send(context.Background(), "q", TurnCallbacks{}))

	sess, _ := store.ActiveSession()
	assert.Equal(t, state.DefaultTitle, sess.Title)
}

func TestSend_HTTPFailureSettlesPlaceholder(t *testing.T) {
	store := newTestStore(t)
	orch := NewOrchestrator(store, &scriptStreamer{
		failBefore: true,
		err:        &api.HTTPError{Status: 500, Body: "overloaded"},
	})

	err := orch.Send(context.Background(), "q", TurnCallbacks{})
	require.Error(t, err)

	msgs := activeMessages(t, store)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Error: HTTP 500: overloaded", msgs[1].Content)
	assert.False(t, orch.IsGenerating(), "generating flag must clear on failure")
}

func TestSend_MidStreamFailureKeepsDeliveredSegments(t *testing.T) {
	store := newTestStore(t)
	orch := NewOrchestrator(store, &scriptStreamer{
		segments: []api.Segment{{Text: "partial "}},
		err:      &api.ClientError{Type: api.ErrTypeStream, Message: "connection reset"},
	})

	err := orch.Send(context.Background(), "q", TurnCallbacks{})
	require.Error(t, err)

	msgs := activeMessages(t, store)
	assert.Equal(t, "Error: connection reset", msgs[1].Content,
		"error display replaces the partial answer")
	// The turn stays consistent: both messages exist, another send works.
	orch2 := NewOrchestrator(store, &scriptStreamer{segments: []api.Segment{{Text: "ok"}}})
	require.NoError(t, orch2.Send(context.Background(), "again", TurnCallbacks{}))
}

func TestSend_RejectsEmptyInput(t *testing.T) {
	store := newTestStore(t)
	orch := NewOrchestrator(store, &scriptStreamer{})

	err := orch.Send(context.Background(), "   \n ", TurnCallbacks{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, activeMessages(t, store), "rejected send must not touch the store")
}

func TestSend_RejectsWithoutActiveSession(t *testing.T) {
	store := state.NewStore(log.New(io.Discard, "", 0))
	// Unhydrated store: no sessions at all.
	orch := NewOrchestrator(store, &scriptStreamer{})

	err := orch.Send(context.Background(), "hi", TurnCallbacks{})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSend_RejectsConcurrentSend(t *testing.T) {
	store := newTestStore(t)
	blocked := &scriptStreamer{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	orch := NewOrchestrator(store, blocked)

	done := make(chan error, 1)
	go func() {
		done <- orch.Send(context.Background(), "first", TurnCallbacks{})
	}()

	<-blocked.started
	assert.True(t, orch.IsGenerating())
	assert.ErrorIs(t, orch.Send(context.Background(), "second", TurnCallbacks{}), ErrBusy)

	close(blocked.release)
	require.NoError(t, <-done)
	assert.False(t, orch.IsGenerating())
}

func TestSend_TurnBoundToCapturedSession(t *testing.T) {
	store := newTestStore(t)
	original, _ := store.ActiveSession()

	// Switch the active session while the stream is in flight.
	switcher := &switchingStreamer{
		store: store,
		segments: []api.Segment{
			{Text: strings.Repeat("x", 30)},
			{Text: " more"},
		},
	}
	orch := NewOrchestrator(store, switcher)

	require.NoError(t, orch.Send(context.Background(), "q", TurnCallbacks{}))

	// Patches and the title landed on the session captured at submission,
	// not on whichever session became active afterwards.
	captured, ok := store.Session(original.ID)
	require.True(t, ok)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, strings.Repeat("x", 30)+" more", captured.Messages[1].Content)
	assert.NotEqual(t, state.DefaultTitle, captured.Title)

	other, ok := store.ActiveSession()
	require.True(t, ok)
	assert.NotEqual(t, original.ID, other.ID)
	assert.Empty(t, other.Messages)
	assert.Equal(t, state.DefaultTitle, other.Title)
}

// switchingStreamer creates and activates a new session after delivering the
// first segment, simulating the user clicking another chat mid-stream.
type switchingStreamer struct {
	store    *state.Store
	segments []api.Segment
}

func (s *switchingStreamer) Stream(ctx context.Context, prompt, model string, callback api.SegmentCallback) error {
	for i, seg := range s.segments {
		callback(seg)
		if i == 0 {
			s.store.Dispatch(state.CreateSession{})
		}
	}
	return nil
}
