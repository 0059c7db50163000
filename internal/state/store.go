// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the conversation data model and the reducer-driven
// store that owns it.
package state

import (
	"log"
	"sync"
)

// =============================================================================
// STORE
// =============================================================================

// Subscriber observes every committed state transition. It receives a deep
// copy of the new state; the persistence layer registers here so each
// reducer action is followed by a snapshot write, in application order.
type Subscriber func(snapshot State)

// Store owns the conversation state. One action is fully applied before the
// next is processed; no interleaving is observable.
type Store struct {
	mu         sync.Mutex
	state      State
	hydrated   bool
	subscriber Subscriber
	logger     *log.Logger
}

// NewStore creates an empty, unhydrated store.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{logger: logger}
}

// Subscribe registers the persistence subscriber. The subscriber is only
// notified for actions applied after hydration completes.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriber = fn
}

// =============================================================================
// HYDRATION
// =============================================================================

// SnapshotLoader loads the persisted snapshot. A nil snapshot with nil error
// means no snapshot exists yet.
type SnapshotLoader interface {
	Load() (*State, error)
}

// Hydrate initializes the store exactly once from persisted state. A missing
// or unreadable snapshot is recovered by bootstrapping one empty session;
// the error is logged and startup proceeds. State is never left
// uninitialized.
func (s *Store) Hydrate(loader SnapshotLoader) {
	snapshot, err := loader.Load()
	if err != nil {
		s.logger.Printf("state: failed to load snapshot, starting fresh: %v", err)
		snapshot = nil
	}

	s.mu.Lock()
	s.hydrated = true
	s.mu.Unlock()

	if snapshot != nil {
		s.Dispatch(InitFromStorage{Snapshot: *snapshot})
		return
	}
	s.Dispatch(CreateSession{})
}

// =============================================================================
// DISPATCH AND READS
// =============================================================================

// Dispatch applies one action atomically. When the action changes the state
// and the store is hydrated, the subscriber is notified with a copy of the
// new state after the lock is released.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	changed := reduce(&s.state, action)
	notify := changed && s.hydrated && s.subscriber != nil
	var snapshot State
	var subscriber Subscriber
	if notify {
		snapshot = s.state.Clone()
		subscriber = s.subscriber
	}
	s.mu.Unlock()

	if notify {
		subscriber(snapshot)
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ActiveSession returns a copy of the active session, or false when no
// session is active or the reference is dangling.
func (s *Store) ActiveSession() (ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.state.ActiveSession()
	if sess == nil {
		return ChatSession{}, false
	}
	return sess.Clone(), true
}

// Session returns a copy of the identified session.
func (s *Store) Session(id string) (ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.state.Session(id)
	if sess == nil {
		return ChatSession{}, false
	}
	return sess.Clone(), true
}

// Sessions returns copies of all sessions, most recent first.
func (s *Store) Sessions() []ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatSession, len(s.state.Sessions))
	for i, sess := range s.state.Sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Projects returns copies of all projects, most recent first.
func (s *Store) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Project, len(s.state.Projects))
	copy(out, s.state.Projects)
	return out
}
