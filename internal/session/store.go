// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the in-memory conversation store.
package session

import (
	"sort"
	"sync"

	"github.com/jeranaias/refchat/internal/model"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// Store maps opaque session identifiers to ordered message transcripts.
//
// Identifiers are case-sensitive and never normalized; no two sessions
// share storage. The store lives for the process lifetime and holds the
// only mutable copy of each transcript: callers read snapshots and mutate
// only through Append/Reset. Role-ordering invariants are the controller's
// responsibility, not enforced here.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]model.Message
}

// NewStore creates an empty session store. One store is constructed at
// application start and injected into whatever owns the chat flow; there
// is no package-level instance.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string][]model.Message),
	}
}

// Get returns a snapshot of the transcript for id, creating an empty
// session if none exists. Never fails.
func (s *Store) Get(id string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, ok := s.sessions[id]
	if !ok {
		s.sessions[id] = nil
		return nil
	}

	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds a message to the end of the transcript for id, creating the
// session if needed. Arrival order is preserved. Never fails.
func (s *Store) Append(id string, msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = append(s.sessions[id], msg)
}

// Reset removes the session entirely. A subsequent Get yields a fresh
// empty transcript. Resetting a non-existent session is a no-op.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of messages in the session, without creating it.
func (s *Store) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[id])
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// IDs returns the live session identifiers in sorted order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
