// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat turns one user submission into one persisted exchange.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/morganforge/aiconsole/internal/api"
	"github.com/morganforge/aiconsole/internal/state"
	"github.com/morganforge/aiconsole/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// Sentinel errors for rejected sends. All three are quiet no-ops from the
// store's perspective: nothing was appended, nothing needs cleanup.
var (
	ErrBusy            = errors.New("a send is already in flight")
	ErrEmptyInput      = errors.New("input is empty")
	ErrNoActiveSession = errors.New("no active session")
)

// =============================================================================
// TITLE AUTO-SET
// =============================================================================

const (
	// titleMinAnswerRunes is how much answer must accumulate before a
	// session earns a title from it.
	titleMinAnswerRunes = 20

	// titleMaxRunes caps the generated title length.
	titleMaxRunes = 60
)

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Streamer issues one streaming query. *api.Client satisfies this; tests
// substitute scripted streams.
type Streamer interface {
	Stream(ctx context.Context, prompt, model string, callback api.SegmentCallback) error
}

// TurnCallbacks surfaces per-turn progress to a UI. All fields are optional
// and are invoked synchronously from the streaming goroutine.
type TurnCallbacks struct {
	// OnThinking receives the accumulated reasoning text so far. The value
	// is ephemeral: it is discarded when the turn ends and never persisted.
	OnThinking func(text string)

	// OnAnswer receives the accumulated answer text after each patch.
	OnAnswer func(text string)
}

// Orchestrator drives one conversation turn at a time against the store.
type Orchestrator struct {
	store  *state.Store
	client Streamer

	mu         sync.Mutex
	generating bool
	model      string
}

// NewOrchestrator creates an orchestrator over the given store and client.
func NewOrchestrator(store *state.Store, client Streamer) *Orchestrator {
	return &Orchestrator{store: store, client: client}
}

// SetModel selects the model identifier sent with subsequent turns.
// Empty means the service default.
func (o *Orchestrator) SetModel(model string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.model = model
}

// Model returns the currently selected model identifier.
func (o *Orchestrator) Model() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model
}

// IsGenerating reports whether a send is in flight.
func (o *Orchestrator) IsGenerating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}

// Send runs one complete turn: append the user message and an assistant
// placeholder, stream the reply, and patch the placeholder as answer
// segments arrive. Blocks until the stream finishes.
//
// The entire turn is bound to the session that is active at submission time;
// switching the active session mid-stream cannot redirect patches, the title
// auto-set, or the generating flag to another session.
//
// A stream failure settles the placeholder to "Error: <message>" and is also
// returned. Rejected sends (busy, empty input, no active session) return a
// sentinel error without touching the store.
func (o *Orchestrator) Send(ctx context.Context, input string, cb TurnCallbacks) error {
	userText := strings.TrimSpace(input)
	if userText == "" {
		return ErrEmptyInput
	}

	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return ErrBusy
	}
	o.generating = true
	model := o.model
	o.mu.Unlock()

	// Guaranteed cleanup: the generating flag clears on every exit path.
	defer func() {
		o.mu.Lock()
		o.generating = false
		o.mu.Unlock()
	}()

	sess, ok := o.store.ActiveSession()
	if !ok {
		return ErrNoActiveSession
	}
	sessionID := sess.ID

	prompt := BuildPrompt(sess.Messages, userText)

	// The user message persists the original text, not the memory prompt.
	o.store.Dispatch(state.AddMessage{
		SessionID: sessionID,
		Message:   state.NewUserMessage(userText),
	})

	placeholder := state.NewAssistantMessage("")
	o.store.Dispatch(state.AddMessage{
		SessionID: sessionID,
		Message:   placeholder,
	})

	var answer, thinking strings.Builder
	titleSet := sess.Title != state.DefaultTitle

	err := o.client.Stream(ctx, prompt, model, func(seg api.Segment) {
		if seg.Thinking {
			thinking.WriteString(seg.Text)
			if cb.OnThinking != nil {
				cb.OnThinking(thinking.String())
			}
			return
		}

		answer.WriteString(seg.Text)
		content := answer.String()
		o.store.Dispatch(state.UpdateMessage{
			SessionID: sessionID,
			MessageID: placeholder.ID,
			Patch:     state.MessagePatch{Content: &content},
		})

		if !titleSet && len([]rune(content)) > titleMinAnswerRunes {
			o.store.Dispatch(state.UpdateSessionTitle{
				SessionID: sessionID,
				Title:     util.TruncateRunesNoEllipsis(content, titleMaxRunes),
			})
			titleSet = true
		}

		if cb.OnAnswer != nil {
			cb.OnAnswer(content)
		}
	})
	if err != nil {
		display := "Error: " + err.Error()
		o.store.Dispatch(state.UpdateMessage{
			SessionID: sessionID,
			MessageID: placeholder.ID,
			Patch:     state.MessagePatch{Content: &display},
		})
		return err
	}

	return nil
}
