// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/store"
	"github.com/echoml/echo-tui/internal/transport"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

func testModel() *Model {
	st := store.New(nil)
	m := New(st, transport.NewClient(), nil, styles.NewTheme(styles.ModeDark))
	m.resize(100, 30)
	return m
}

func registerTestModel(m *Model) {
	m.store.SetModels([]model.Model{
		{ID: "m1", Name: "Claude", Type: model.ProviderAnthropic},
	})
}

// ============================================================================
// Send results
// ============================================================================

func TestSendResultAppendsBotReply(t *testing.T) {
	m := testModel()
	registerTestModel(m)
	sess := m.store.CreateSession("")
	m.sending[sess.ID] = true

	m.Update(SendResultMsg{
		SessionID: sess.ID,
		Result:    &transport.SendResult{Response: "hi there", ModelID: "m1"},
	})

	got := m.store.Session(sess.ID)
	if got.MessageCount() != 1 {
		t.Fatalf("messages = %d, want 1", got.MessageCount())
	}
	msg := got.Messages[0]
	if msg.Sender != model.SenderBot || msg.Text() != "hi there" || msg.ModelID != "m1" {
		t.Errorf("unexpected reply: %+v", msg)
	}
	if m.State() != StateReady {
		t.Errorf("state = %v, want StateReady", m.State())
	}
}

func TestSendResultErrorAppendsNotice(t *testing.T) {
	m := testModel()
	registerTestModel(m)
	sess := m.store.CreateSession("")
	m.sending[sess.ID] = true

	err := &transport.ClientError{Type: transport.ErrTypeBackend, Message: "model overloaded"}
	m.Update(SendResultMsg{SessionID: sess.ID, Err: err})

	got := m.store.Session(sess.ID)
	if got.MessageCount() != 1 {
		t.Fatalf("messages = %d, want 1", got.MessageCount())
	}
	msg := got.Messages[0]
	if msg.Text() != errorReplyText {
		t.Errorf("text = %q, want notice", msg.Text())
	}
	if msg.ModelID != "" {
		t.Errorf("notice carries model ID %q", msg.ModelID)
	}
	if !isErrorReply(msg) {
		t.Error("notice not recognized as error reply")
	}
	if m.statusErr == "" {
		t.Error("status error not set")
	}
}

func TestStaleSendResultDropped(t *testing.T) {
	m := testModel()
	registerTestModel(m)
	sess := m.store.CreateSession("")
	m.sending[sess.ID] = true
	m.store.DeleteSession(sess.ID)

	m.Update(SendResultMsg{
		SessionID: sess.ID,
		Result:    &transport.SendResult{Response: "late", ModelID: "m1"},
	})

	if m.store.SessionCount() != 0 {
		t.Errorf("stale result resurrected state: %d sessions", m.store.SessionCount())
	}
	if len(m.sending) != 0 {
		t.Errorf("sending flag not cleared: %v", m.sending)
	}
}

// ============================================================================
// Sending
// ============================================================================

func TestHandleSendAppendsUserMessage(t *testing.T) {
	m := testModel()
	registerTestModel(m)
	m.input.SetValue("hello echo")

	cmd := m.handleSend()
	if cmd == nil {
		t.Fatal("expected a send command")
	}

	sess := m.store.ActiveSession()
	if sess == nil {
		t.Fatal("send did not create a session")
	}
	if sess.MessageCount() != 1 {
		t.Fatalf("messages = %d, want 1", sess.MessageCount())
	}
	if got := sess.Messages[0]; got.Sender != model.SenderUser || got.Text() != "hello echo" {
		t.Errorf("unexpected message: %+v", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if !m.sending[sess.ID] {
		t.Error("session not marked in flight")
	}
}

func TestHandleSendIgnoresBlankInput(t *testing.T) {
	m := testModel()
	registerTestModel(m)
	m.input.SetValue("   \n  ")

	if cmd := m.handleSend(); cmd != nil {
		t.Error("blank input produced a command")
	}
	if m.store.SessionCount() != 0 {
		t.Error("blank input created a session")
	}
}

func TestHandleSendRequiresModel(t *testing.T) {
	m := testModel()
	m.input.SetValue("hello")

	if cmd := m.handleSend(); cmd != nil {
		t.Error("send without a model produced a command")
	}
	if m.statusErr == "" {
		t.Error("status error not set")
	}
	if sess := m.store.ActiveSession(); sess != nil && sess.MessageCount() != 0 {
		t.Error("message appended without a model")
	}
}

func TestHandleSendGuardsInFlightSession(t *testing.T) {
	m := testModel()
	registerTestModel(m)
	sess := m.store.CreateSession("")
	m.sending[sess.ID] = true
	m.input.SetValue("second message")

	if cmd := m.handleSend(); cmd != nil {
		t.Error("in-flight session accepted a second send")
	}
	if m.store.Session(sess.ID).MessageCount() != 0 {
		t.Error("message appended during in-flight send")
	}
}

// ============================================================================
// Registry fetch
// ============================================================================

func TestModelsLoadedPopulatesRegistry(t *testing.T) {
	m := testModel()
	m.Update(ModelsLoadedMsg{Models: []model.Model{{ID: "m1", Name: "Claude"}}})

	if got := m.store.SelectedModelID(); got != "m1" {
		t.Errorf("selected = %q, want m1", got)
	}
}

func TestModelsLoadedErrorKeepsRegistry(t *testing.T) {
	m := testModel()
	registerTestModel(m)

	m.Update(ModelsLoadedMsg{Err: errors.New("connection refused")})

	if got := m.store.SelectedModelID(); got != "m1" {
		t.Errorf("fetch failure cleared selection: %q", got)
	}
	if m.statusErr == "" {
		t.Error("status error not set")
	}
}

// ============================================================================
// Keys
// ============================================================================

func keyMsg(t string) tea.KeyMsg {
	switch t {
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(t)}
	}
}

func TestNewSessionKey(t *testing.T) {
	m := testModel()
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("ctrl+n"))

	if m.store.SessionCount() != 2 {
		t.Fatalf("sessions = %d, want 2", m.store.SessionCount())
	}
	sessions := m.store.Sessions()
	if sessions[0].Name != "Chat 2" || sessions[1].Name != "Chat 1" {
		t.Errorf("names = %q, %q", sessions[0].Name, sessions[1].Name)
	}
}

func TestDeleteSessionKey(t *testing.T) {
	m := testModel()
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("ctrl+d"))

	if m.store.SessionCount() != 0 {
		t.Errorf("sessions = %d, want 0", m.store.SessionCount())
	}
	if m.store.ActiveSession() != nil {
		t.Error("deleted session still active")
	}
}

func TestResetKeyClearsSessions(t *testing.T) {
	m := testModel()
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("ctrl+n"))

	_, cmd := m.Update(keyMsg("ctrl+r"))
	if cmd == nil {
		t.Error("reset did not issue a backend command")
	}
	if m.store.SessionCount() != 0 {
		t.Errorf("sessions = %d, want 0", m.store.SessionCount())
	}
}

func TestRenameFromSidebar(t *testing.T) {
	m := testModel()
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("tab"))

	m.Update(keyMsg("r"))
	if m.renamingID == "" {
		t.Fatal("rename mode not entered")
	}
	if m.input.Value() != "Chat 1" {
		t.Errorf("input seeded with %q", m.input.Value())
	}

	m.input.SetValue("Release planning")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.renamingID != "" {
		t.Error("rename mode not cleared")
	}
	if got := m.store.Sessions()[0].Name; got != "Release planning" {
		t.Errorf("name = %q", got)
	}
}

func TestRenameCancelKeepsName(t *testing.T) {
	m := testModel()
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("tab"))
	m.Update(keyMsg("r"))

	m.input.SetValue("discarded")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.renamingID != "" {
		t.Error("rename mode not cleared")
	}
	if got := m.store.Sessions()[0].Name; got != "Chat 1" {
		t.Errorf("name = %q", got)
	}
}

func TestToggleSidebarKey(t *testing.T) {
	m := testModel()
	if !m.showSidebar {
		t.Fatal("sidebar hidden by default")
	}
	m.Update(keyMsg("ctrl+b"))
	if m.showSidebar {
		t.Error("sidebar still shown after toggle")
	}
}

func TestFocusSwitch(t *testing.T) {
	m := testModel()
	m.Update(keyMsg("tab"))
	if m.focus != focusSidebar {
		t.Errorf("focus = %v, want sidebar", m.focus)
	}
	m.Update(keyMsg("tab"))
	if m.focus != focusInput {
		t.Errorf("focus = %v, want input", m.focus)
	}
}

func TestSidebarNavigation(t *testing.T) {
	m := testModel()
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("ctrl+n"))
	m.Update(keyMsg("tab"))

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	m.Update(keyMsg("j"))
	if m.cursor != 2 {
		t.Errorf("cursor ran past the last session: %d", m.cursor)
	}
	m.Update(keyMsg("k"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	want := m.store.Sessions()[1].ID
	if got := m.store.ActiveSessionID(); got != want {
		t.Errorf("active = %q, want %q", got, want)
	}
	if m.focus != focusInput {
		t.Error("selecting a session did not return focus to input")
	}
}

// ============================================================================
// View
// ============================================================================

func TestViewShowsEmptyState(t *testing.T) {
	m := testModel()
	out := m.View()
	if !strings.Contains(out, "No active session") {
		t.Error("empty state text missing")
	}
}

func TestViewShowsTranscript(t *testing.T) {
	m := testModel()
	registerTestModel(m)
	sess := m.store.CreateSession("")
	m.store.AppendMessage(sess.ID, model.NewUserMessage("what is Go?"))
	m.store.AppendMessage(sess.ID, model.NewBotMessage("a programming language", "m1"))
	m.refreshViewport()

	out := m.View()
	if !strings.Contains(out, "what is Go?") {
		t.Error("user message missing from view")
	}
	if !strings.Contains(out, "You") || !strings.Contains(out, "Echo") {
		t.Error("sender labels missing from view")
	}
}
