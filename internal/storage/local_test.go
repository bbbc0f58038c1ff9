// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/echoml/echo-tui/internal/model"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return s
}

func TestReadKeyNotFound(t *testing.T) {
	s := newTestStore(t)
	var v stringDoc
	if err := s.ReadKey("never-written", &v); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestWriteReadDeleteKey(t *testing.T) {
	s := newTestStore(t)

	if err := s.WriteKey("k", stringDoc{Value: "v"}); err != nil {
		t.Fatalf("WriteKey failed: %v", err)
	}
	var got stringDoc
	if err := s.ReadKey("k", &got); err != nil {
		t.Fatalf("ReadKey failed: %v", err)
	}
	if got.Value != "v" {
		t.Errorf("value = %q, want %q", got.Value, "v")
	}

	if err := s.DeleteKey("k"); err != nil {
		t.Fatalf("DeleteKey failed: %v", err)
	}
	if err := s.ReadKey("k", &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}

	// Deleting again is a no-op.
	if err := s.DeleteKey("k"); err != nil {
		t.Errorf("second DeleteKey failed: %v", err)
	}
}

func TestSessionsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	first := model.NewSession("Chat 1", "m1")
	first.Append(model.NewUserMessage("hello"))
	first.Append(model.NewBotMessage("hi there", "m1"))
	second := model.NewSession("Chat 2", "")

	if err := s.SaveSessions([]*model.Session{second, first}); err != nil {
		t.Fatalf("SaveSessions failed: %v", err)
	}

	got := s.LoadSessions()
	if len(got) != 2 {
		t.Fatalf("loaded %d sessions, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Error("session order not preserved")
	}
	if got[1].MessageCount() != 2 {
		t.Errorf("message count = %d, want 2", got[1].MessageCount())
	}
	if got[1].Messages[0].Text() != "hello" {
		t.Errorf("message text = %q", got[1].Messages[0].Text())
	}
	if got[1].Messages[1].ModelID != "m1" {
		t.Errorf("bot model id = %q", got[1].Messages[1].ModelID)
	}
}

func TestSessionsRoundTripSegments(t *testing.T) {
	s := newTestStore(t)

	sess := model.NewSession("Chat 1", "")
	msg := model.NewBotMessage("here you go", "m1")
	msg.AppendCode("main.py", "entry point", "print(1)\n")
	sess.Append(msg)

	if err := s.SaveSessions([]*model.Session{sess}); err != nil {
		t.Fatalf("SaveSessions failed: %v", err)
	}

	got := s.LoadSessions()
	if len(got) != 1 || got[0].MessageCount() != 1 {
		t.Fatal("session did not round-trip")
	}
	body := got[0].Messages[0].Body
	if len(body) != 2 {
		t.Fatalf("body has %d segments, want 2", len(body))
	}
	code, ok := body[1].(model.CodeSegment)
	if !ok {
		t.Fatalf("segment 1 = %#v, want CodeSegment", body[1])
	}
	if code.FileName != "main.py" || code.Content != "print(1)\n" {
		t.Errorf("code segment = %#v", code)
	}
}

func TestLoadSessionsMissing(t *testing.T) {
	s := newTestStore(t)
	got := s.LoadSessions()
	if got == nil || len(got) != 0 {
		t.Errorf("missing state should load as empty list, got %#v", got)
	}
}

func TestLoadSessionsCorrupt(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Dir(), KeySessions+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	got := s.LoadSessions()
	if len(got) != 0 {
		t.Errorf("corrupt state should load as empty list, got %d sessions", len(got))
	}
}

func TestActiveSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if got := s.LoadActiveSession(); got != "" {
		t.Errorf("unset active session = %q, want empty", got)
	}
	if err := s.SaveActiveSession("abc-123"); err != nil {
		t.Fatalf("SaveActiveSession failed: %v", err)
	}
	if got := s.LoadActiveSession(); got != "abc-123" {
		t.Errorf("active session = %q, want %q", got, "abc-123")
	}
	if err := s.SaveActiveSession(""); err != nil {
		t.Fatalf("clearing active session failed: %v", err)
	}
	if got := s.LoadActiveSession(); got != "" {
		t.Errorf("cleared active session = %q, want empty", got)
	}
}

func TestSelectedModelRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveSelectedModel("anthropic_1"); err != nil {
		t.Fatalf("SaveSelectedModel failed: %v", err)
	}
	if got := s.LoadSelectedModel(); got != "anthropic_1" {
		t.Errorf("selected model = %q", got)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveTheme("light"); err != nil {
		t.Fatalf("SaveTheme failed: %v", err)
	}
	if got := s.LoadTheme(); got != "light" {
		t.Errorf("theme = %q", got)
	}
}

func TestStoreErrorWraps(t *testing.T) {
	inner := errors.New("boom")
	err := &StoreError{Op: "write", Key: "sessions", Path: "/tmp/x", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("StoreError should unwrap to its cause")
	}
}
