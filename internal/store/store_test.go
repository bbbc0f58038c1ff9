// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"testing"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/storage"
)

func newTestLocal(t *testing.T) *storage.LocalStore {
	t.Helper()
	local, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return local
}

func TestCreateSessionOrderAndActive(t *testing.T) {
	s := New(nil)

	a := s.CreateSession("")
	b := s.CreateSession("")
	c := s.CreateSession("")

	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Error("session IDs should be unique")
	}
	if got := s.ActiveSessionID(); got != c.ID {
		t.Errorf("active = %q, want most recent %q", got, c.ID)
	}

	list := s.Sessions()
	if len(list) != 3 {
		t.Fatalf("got %d sessions, want 3", len(list))
	}
	if list[0].ID != c.ID || list[2].ID != a.ID {
		t.Error("sessions should be ordered newest first")
	}
}

func TestCreateSessionDefaultName(t *testing.T) {
	s := New(nil)
	if got := s.CreateSession("").Name; got != "Chat 1" {
		t.Errorf("first default name = %q, want %q", got, "Chat 1")
	}
	if got := s.CreateSession("").Name; got != "Chat 2" {
		t.Errorf("second default name = %q, want %q", got, "Chat 2")
	}
	if got := s.CreateSession("Planning").Name; got != "Planning" {
		t.Errorf("explicit name = %q", got)
	}
}

func TestCreateSessionAdoptsSelectedModel(t *testing.T) {
	s := New(nil)
	s.SetModels([]model.Model{{ID: "m1", Name: "One"}})

	if got := s.CreateSession("").ModelID; got != "m1" {
		t.Errorf("session model = %q, want %q", got, "m1")
	}
}

func TestSelectSession(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("")
	s.CreateSession("")

	s.SelectSession(a.ID)
	if got := s.ActiveSessionID(); got != a.ID {
		t.Errorf("active = %q, want %q", got, a.ID)
	}

	// Unknown ID is a no-op.
	s.SelectSession("nope")
	if got := s.ActiveSessionID(); got != a.ID {
		t.Errorf("active after bad select = %q, want %q", got, a.ID)
	}
}

func TestDeleteActiveSessionClearsActive(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("")

	s.DeleteSession(a.ID)

	if got := s.ActiveSessionID(); got != "" {
		t.Errorf("active = %q, want empty", got)
	}
	if s.ActiveSession() != nil {
		t.Error("ActiveSession should be nil")
	}
	if s.SessionCount() != 0 {
		t.Errorf("count = %d, want 0", s.SessionCount())
	}
}

func TestDeleteInactiveSessionKeepsActive(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("")
	b := s.CreateSession("")

	s.DeleteSession(a.ID)

	if got := s.ActiveSessionID(); got != b.ID {
		t.Errorf("active = %q, want %q", got, b.ID)
	}
}

func TestUpdateSessionPartial(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("Chat 1")

	s.SetSystemPrompt(a.ID, "be brief")
	s.RenameSession(a.ID, "Renamed")

	got := s.Session(a.ID)
	if got.Name != "Renamed" {
		t.Errorf("name = %q", got.Name)
	}
	if got.SystemPrompt != "be brief" {
		t.Errorf("system prompt = %q", got.SystemPrompt)
	}

	// Unknown ID is a no-op, not a panic.
	s.RenameSession("nope", "x")
}

func TestAppendMessage(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("")

	s.AppendMessage(a.ID, model.NewUserMessage("hello"))

	got := s.Session(a.ID)
	if got.MessageCount() != 1 {
		t.Fatalf("count = %d, want 1", got.MessageCount())
	}
	if got.Messages[0].Text() != "hello" {
		t.Errorf("text = %q", got.Messages[0].Text())
	}
}

func TestAppendMessageStaleSessionDropped(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("")
	b := s.CreateSession("")
	s.DeleteSession(a.ID)

	// A send result for the deleted session lands late.
	s.AppendMessage(a.ID, model.NewBotMessage("late", "m1"))

	if got := s.Session(b.ID); got.MessageCount() != 0 {
		t.Error("stale append must not touch other sessions")
	}
	if s.SessionCount() != 1 {
		t.Error("stale append must not resurrect the session")
	}
}

func TestUpdateMessageText(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("")
	s.AppendMessage(a.ID, model.NewUserMessage("before"))

	s.UpdateMessageText(a.ID, 0, "after")
	if got := s.Session(a.ID).Messages[0].Text(); got != "after" {
		t.Errorf("text = %q", got)
	}

	// Out-of-range index is a no-op.
	s.UpdateMessageText(a.ID, 5, "x")
}

func TestReadsAreCopies(t *testing.T) {
	s := New(nil)
	a := s.CreateSession("Chat 1")
	s.AppendMessage(a.ID, model.NewUserMessage("original"))

	snapshot := s.Session(a.ID)
	snapshot.Name = "mutated"
	snapshot.Messages[0].SetText("mutated")

	fresh := s.Session(a.ID)
	if fresh.Name != "Chat 1" || fresh.Messages[0].Text() != "original" {
		t.Error("mutating a read snapshot must not affect the store")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	local := newTestLocal(t)

	s := New(local)
	s.SetModels([]model.Model{{ID: "m1"}, {ID: "m2"}})
	a := s.CreateSession("Chat 1")
	s.CreateSession("Chat 2")
	s.AppendMessage(a.ID, model.NewUserMessage("hello"))
	s.SelectSession(a.ID)
	s.SelectModel("m2")

	// A fresh store over the same directory sees identical state.
	restored := New(local)
	if restored.SessionCount() != 2 {
		t.Fatalf("restored %d sessions, want 2", restored.SessionCount())
	}
	if got := restored.ActiveSessionID(); got != a.ID {
		t.Errorf("restored active = %q, want %q", got, a.ID)
	}
	if got := restored.Session(a.ID); got == nil || got.MessageCount() != 1 {
		t.Error("restored session lost its messages")
	}
	if got := restored.SelectedModelID(); got != "m2" {
		t.Errorf("restored selected model = %q, want %q", got, "m2")
	}
}

func TestHydrateDropsDanglingActive(t *testing.T) {
	local := newTestLocal(t)
	if err := local.SaveActiveSession("ghost"); err != nil {
		t.Fatalf("seed active: %v", err)
	}

	s := New(local)
	if got := s.ActiveSessionID(); got != "" {
		t.Errorf("dangling active = %q, want empty", got)
	}
}

func TestSetModelsSelectsFirst(t *testing.T) {
	s := New(nil)
	s.SetModels([]model.Model{{ID: "m1"}, {ID: "m2"}})
	if got := s.SelectedModelID(); got != "m1" {
		t.Errorf("selected = %q, want %q", got, "m1")
	}
}

func TestPreselectModelReconciledBySetModels(t *testing.T) {
	s := New(nil)
	s.PreselectModel("m2")

	s.SetModels([]model.Model{{ID: "m1"}, {ID: "m2"}})
	if got := s.SelectedModelID(); got != "m2" {
		t.Errorf("selected = %q, want %q", got, "m2")
	}

	s2 := New(nil)
	s2.PreselectModel("ghost")
	s2.SetModels([]model.Model{{ID: "m1"}})
	if got := s2.SelectedModelID(); got != "m1" {
		t.Errorf("unknown preselect kept: %q", got)
	}
}

func TestSetModelsKeepsExistingSelection(t *testing.T) {
	s := New(nil)
	s.SetModels([]model.Model{{ID: "m1"}, {ID: "m2"}})
	s.SelectModel("m2")

	s.SetModels([]model.Model{{ID: "m2"}, {ID: "m3"}})
	if got := s.SelectedModelID(); got != "m2" {
		t.Errorf("selected = %q, want %q", got, "m2")
	}
}

func TestSetModelsReconcilesVanishedSelection(t *testing.T) {
	s := New(nil)
	s.SetModels([]model.Model{{ID: "m1"}})

	s.SetModels([]model.Model{{ID: "m9"}})
	if got := s.SelectedModelID(); got != "m9" {
		t.Errorf("selected = %q, want %q", got, "m9")
	}

	s.SetModels(nil)
	if got := s.SelectedModelID(); got != "" {
		t.Errorf("selected after empty registry = %q, want empty", got)
	}
}

func TestRemoveModelReassignsSelection(t *testing.T) {
	s := New(nil)
	s.SetModels([]model.Model{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}})
	s.SelectModel("m2")

	s.RemoveModel("m2")
	if got := s.SelectedModelID(); got != "m1" {
		t.Errorf("selected = %q, want first remaining %q", got, "m1")
	}

	s.RemoveModel("m1")
	s.RemoveModel("m3")
	if got := s.SelectedModelID(); got != "" {
		t.Errorf("selected after removing all = %q, want empty", got)
	}
}

func TestRemoveModelKeepsUnrelatedSelection(t *testing.T) {
	s := New(nil)
	s.SetModels([]model.Model{{ID: "m1"}, {ID: "m2"}})
	s.SelectModel("m1")

	s.RemoveModel("m2")
	if got := s.SelectedModelID(); got != "m1" {
		t.Errorf("selected = %q, want %q", got, "m1")
	}
}

func TestAddModelSelectsFirstOnly(t *testing.T) {
	s := New(nil)
	s.AddModel(model.Model{ID: "m1"})
	if got := s.SelectedModelID(); got != "m1" {
		t.Errorf("selected = %q, want %q", got, "m1")
	}
	s.AddModel(model.Model{ID: "m2"})
	if got := s.SelectedModelID(); got != "m1" {
		t.Errorf("selected after second add = %q, want %q", got, "m1")
	}
}

func TestClearSessions(t *testing.T) {
	local := newTestLocal(t)
	s := New(local)
	s.CreateSession("")
	s.CreateSession("")

	s.ClearSessions()
	if s.SessionCount() != 0 || s.ActiveSessionID() != "" {
		t.Error("clear should drop every session and the active ID")
	}

	restored := New(local)
	if restored.SessionCount() != 0 || restored.ActiveSessionID() != "" {
		t.Error("clear should persist")
	}
}
