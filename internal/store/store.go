// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"log"
	"strconv"
	"sync"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/storage"
)

// Store owns all conversation state: the session list (newest first),
// the active session, the model registry snapshot, and the selected
// model. All methods are safe for concurrent use.
//
// Mutations are synchronous: state changes under the lock and the
// affected documents are persisted before the method returns. A
// persistence failure is logged and the in-memory change stands, so a
// full disk degrades to a session that works until exit.
//
// Mutations addressing an unknown session or model ID are silent
// no-ops. Stale IDs are routine here: an async send can land after its
// session was deleted, and dropping the write is the correct outcome.
type Store struct {
	mu       sync.RWMutex
	sessions []*model.Session
	activeID string
	models   []model.Model
	selected string
	local    *storage.LocalStore
}

// New creates a store backed by local, hydrating persisted state once.
// A nil local gives an in-memory store, used by tests and one-shot
// commands that must not touch the state directory.
func New(local *storage.LocalStore) *Store {
	s := &Store{
		sessions: []*model.Session{},
		local:    local,
	}
	if local != nil {
		s.sessions = local.LoadSessions()
		s.activeID = local.LoadActiveSession()
		s.selected = local.LoadSelectedModel()

		// A dangling active ID can appear if state files were edited
		// or partially restored. Drop it rather than point nowhere.
		if s.activeID != "" && s.findSession(s.activeID) < 0 {
			s.activeID = ""
		}
	}
	return s
}

// ============================================================================
// Sessions
// ============================================================================

// CreateSession creates a session, inserts it at the front of the list,
// makes it active, and returns a copy. An empty name gets the default
// "Chat N" where N is the new list length. The session adopts the
// currently selected model.
func (s *Store) CreateSession(name string) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = "Chat " + strconv.Itoa(len(s.sessions)+1)
	}
	sess := model.NewSession(name, s.selected)
	s.sessions = append([]*model.Session{sess}, s.sessions...)
	s.activeID = sess.ID
	s.persistSessions()
	s.persistActive()
	return sess.Clone()
}

// SelectSession makes the session with the given ID active. Unknown IDs
// are ignored.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findSession(id) < 0 {
		return
	}
	s.activeID = id
	s.persistActive()
}

// SessionUpdate carries the fields UpdateSession may change. Nil fields
// are left untouched.
type SessionUpdate struct {
	Name         *string
	SystemPrompt *string
	ModelID      *string
}

// UpdateSession applies a partial update to the identified session.
func (s *Store) UpdateSession(id string, update SessionUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findSession(id)
	if i < 0 {
		return
	}
	sess := s.sessions[i]
	if update.Name != nil {
		sess.Name = *update.Name
	}
	if update.SystemPrompt != nil {
		sess.SystemPrompt = *update.SystemPrompt
	}
	if update.ModelID != nil {
		sess.ModelID = *update.ModelID
	}
	s.persistSessions()
}

// RenameSession sets the session's display name.
func (s *Store) RenameSession(id, name string) {
	s.UpdateSession(id, SessionUpdate{Name: &name})
}

// SetSystemPrompt sets the session's system prompt.
func (s *Store) SetSystemPrompt(id, prompt string) {
	s.UpdateSession(id, SessionUpdate{SystemPrompt: &prompt})
}

// DeleteSession removes the session. Deleting the active session leaves
// no session active.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findSession(id)
	if i < 0 {
		return
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	s.persistSessions()
	if s.activeID == id {
		s.activeID = ""
		s.persistActive()
	}
}

// ClearSessions removes every session and clears the active session.
func (s *Store) ClearSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = []*model.Session{}
	s.activeID = ""
	s.persistSessions()
	s.persistActive()
}

// AppendMessage appends a message to the identified session. Unknown
// session IDs are ignored; this is the drop point for results of sends
// whose session has since been deleted.
func (s *Store) AppendMessage(sessionID string, msg *model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findSession(sessionID)
	if i < 0 {
		return
	}
	s.sessions[i].Append(msg)
	s.persistSessions()
}

// UpdateMessageText replaces the text of the message at index in the
// identified session. Out-of-range indexes are ignored.
func (s *Store) UpdateMessageText(sessionID string, index int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findSession(sessionID)
	if i < 0 {
		return
	}
	msgs := s.sessions[i].Messages
	if index < 0 || index >= len(msgs) {
		return
	}
	msgs[index].SetText(text)
	s.persistSessions()
}

// Sessions returns a deep copy of the session list, newest first.
func (s *Store) Sessions() []*model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Session returns a deep copy of the identified session, or nil.
func (s *Store) Session(id string) *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findSession(id)
	if i < 0 {
		return nil
	}
	return s.sessions[i].Clone()
}

// HasSession reports whether a session with the given ID exists.
func (s *Store) HasSession(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findSession(id) >= 0
}

// SessionCount returns the number of sessions.
func (s *Store) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ActiveSessionID returns the active session's ID, or "" when none.
func (s *Store) ActiveSessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// ActiveSession returns a deep copy of the active session, or nil.
func (s *Store) ActiveSession() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeID == "" {
		return nil
	}
	i := s.findSession(s.activeID)
	if i < 0 {
		return nil
	}
	return s.sessions[i].Clone()
}

// ============================================================================
// Models
// ============================================================================

// SetModels replaces the model registry snapshot, normally with the
// result of a startup fetch. Selection is reconciled against the new
// list: a vanished selection falls back to the first model, or to none
// when the list is empty. An empty selection adopts the first model.
func (s *Store) SetModels(models []model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.models = append([]model.Model{}, models...)
	if s.findModel(s.selected) < 0 {
		s.selected = ""
	}
	if s.selected == "" && len(s.models) > 0 {
		s.selected = s.models[0].ID
	}
	s.persistSelected()
}

// AddModel appends a model to the registry snapshot, normally after a
// successful registration. The first model added becomes selected.
func (s *Store) AddModel(m model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.models = append(s.models, m)
	if s.selected == "" {
		s.selected = m.ID
		s.persistSelected()
	}
}

// RemoveModel drops a model from the registry snapshot. If it was
// selected, selection moves to the first remaining model, or to none.
func (s *Store) RemoveModel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findModel(id)
	if i < 0 {
		return
	}
	s.models = append(s.models[:i], s.models[i+1:]...)
	if s.selected == id {
		s.selected = ""
		if len(s.models) > 0 {
			s.selected = s.models[0].ID
		}
		s.persistSelected()
	}
}

// PreselectModel seeds the selection before the registry has loaded,
// for config or environment preferences. Nothing is validated or
// persisted here; SetModels reconciles the seed once the registry
// arrives.
func (s *Store) PreselectModel(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// SelectModel makes the identified model the selected one. Unknown IDs
// are ignored.
func (s *Store) SelectModel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findModel(id) < 0 {
		return
	}
	s.selected = id
	s.persistSelected()
}

// Models returns a copy of the model registry snapshot.
func (s *Store) Models() []model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Model{}, s.models...)
}

// SelectedModelID returns the selected model's ID, or "" when none.
func (s *Store) SelectedModelID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectedModel returns the selected model, if any.
func (s *Store) SelectedModel() (model.Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findModel(s.selected)
	if i < 0 {
		return model.Model{}, false
	}
	return s.models[i], true
}

// Model returns the identified model, if present.
func (s *Store) Model(id string) (model.Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findModel(id)
	if i < 0 {
		return model.Model{}, false
	}
	return s.models[i], true
}

// ============================================================================
// Internals
// ============================================================================

// findSession returns the index of the session with the given ID, or
// -1. Callers hold the lock.
func (s *Store) findSession(id string) int {
	if id == "" {
		return -1
	}
	for i, sess := range s.sessions {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findModel(id string) int {
	if id == "" {
		return -1
	}
	for i, m := range s.models {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistSessions() {
	if s.local == nil {
		return
	}
	if err := s.local.SaveSessions(s.sessions); err != nil {
		log.Printf("STORE: persist failed | key=%s error=%v", storage.KeySessions, err)
	}
}

func (s *Store) persistActive() {
	if s.local == nil {
		return
	}
	if err := s.local.SaveActiveSession(s.activeID); err != nil {
		log.Printf("STORE: persist failed | key=%s error=%v", storage.KeyActiveSession, err)
	}
}

func (s *Store) persistSelected() {
	if s.local == nil {
		return
	}
	if err := s.local.SaveSelectedModel(s.selected); err != nil {
		log.Printf("STORE: persist failed | key=%s error=%v", storage.KeySelectedModel, err)
	}
}
