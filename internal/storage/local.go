// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/util"
)

// Keys under which application state is persisted. Each key is one JSON
// document in the state directory.
const (
	KeySessions      = "sessions"
	KeyActiveSession = "active_session"
	KeySelectedModel = "selected_model"
	KeyTheme         = "theme"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// StoreError wraps a failed storage operation with the key and path
// involved.
type StoreError struct {
	Op   string
	Key  string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: %s %q (%s): %v", e.Op, e.Key, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// LocalStore persists application state as JSON documents under a
// single directory, one file per key. Writes are atomic so a crash can
// never leave a half-written document behind.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &StoreError{Op: "init", Path: dir, Err: err}
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the state directory.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// WriteKey marshals v and writes it under key atomically.
func (s *LocalStore) WriteKey(key string, v any) error {
	path := s.keyPath(key)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &StoreError{Op: "marshal", Key: key, Path: path, Err: err}
	}
	if err := util.AtomicWriteFile(path, data, 0o600); err != nil {
		return &StoreError{Op: "write", Key: key, Path: path, Err: err}
	}
	return nil
}

// ReadKey unmarshals the document under key into v. Returns ErrNotFound
// when the key has never been written.
func (s *LocalStore) ReadKey(key string, v any) error {
	path := s.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return &StoreError{Op: "read", Key: key, Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &StoreError{Op: "decode", Key: key, Path: path, Err: err}
	}
	return nil
}

// DeleteKey removes the document under key. Missing keys are not an
// error.
func (s *LocalStore) DeleteKey(key string) error {
	path := s.keyPath(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StoreError{Op: "delete", Key: key, Path: path, Err: err}
	}
	return nil
}

// ============================================================================
// Typed accessors
// ============================================================================

// stringDoc wraps a plain string value so every key holds a JSON
// object, which keeps the files self-describing.
type stringDoc struct {
	Value string `json:"value"`
}

// SaveSessions persists the full session list. The list is written
// whole on every mutation; order on disk is the display order.
func (s *LocalStore) SaveSessions(sessions []*model.Session) error {
	return s.WriteKey(KeySessions, sessions)
}

// LoadSessions reads the persisted session list. Missing or corrupt
// state degrades to an empty list; corruption is logged, not fatal.
func (s *LocalStore) LoadSessions() []*model.Session {
	var sessions []*model.Session
	if err := s.ReadKey(KeySessions, &sessions); err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("STORAGE: discarding unreadable state | key=%s error=%v", KeySessions, err)
		}
		return []*model.Session{}
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}
	return sessions
}

// SaveActiveSession persists the active session ID. Empty means none.
func (s *LocalStore) SaveActiveSession(id string) error {
	return s.WriteKey(KeyActiveSession, stringDoc{Value: id})
}

// LoadActiveSession reads the persisted active session ID, or "" when
// unset or unreadable.
func (s *LocalStore) LoadActiveSession() string {
	return s.loadString(KeyActiveSession)
}

// SaveSelectedModel persists the selected model ID. Empty means none.
func (s *LocalStore) SaveSelectedModel(id string) error {
	return s.WriteKey(KeySelectedModel, stringDoc{Value: id})
}

// LoadSelectedModel reads the persisted selected model ID, or "".
func (s *LocalStore) LoadSelectedModel() string {
	return s.loadString(KeySelectedModel)
}

// SaveTheme persists the UI theme preference.
func (s *LocalStore) SaveTheme(theme string) error {
	return s.WriteKey(KeyTheme, stringDoc{Value: theme})
}

// LoadTheme reads the persisted theme preference, or "".
func (s *LocalStore) LoadTheme() string {
	return s.loadString(KeyTheme)
}

func (s *LocalStore) loadString(key string) string {
	var doc stringDoc
	if err := s.ReadKey(key, &doc); err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("STORAGE: discarding unreadable state | key=%s error=%v", key, err)
		}
		return ""
	}
	return doc.Value
}
