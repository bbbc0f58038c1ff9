// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/transport"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if len(m.sending) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ModelsLoadedMsg:
		if msg.Err != nil {
			m.statusErr = "backend unavailable: " + transport.Detail(msg.Err)
			return m, nil
		}
		m.store.SetModels(msg.Models)
		return m, nil

	case SendResultMsg:
		return m.handleSendResult(msg)

	case ResetDoneMsg:
		if msg.Err != nil {
			m.statusErr = "reset failed: " + transport.Detail(msg.Err)
		} else {
			m.statusErr = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.showSidebar = !m.showSidebar
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		m.store.CreateSession("")
		m.cursor = 0
		m.statusErr = ""
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.DeleteSession):
		m.deleteCurrent()
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.store.ClearSessions()
		m.sending = make(map[string]bool)
		m.cursor = 0
		m.refreshViewport()
		return m, m.resetCmd()

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	if m.renamingID != "" {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.stopRenaming()
			return m, nil
		case key.Matches(msg, m.keys.Send):
			if name := strings.TrimSpace(m.input.Value()); name != "" {
				m.store.RenameSession(m.renamingID, name)
			}
			m.stopRenaming()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Send) {
		return m, m.handleSend()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.store.SessionCount()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		sessions := m.store.Sessions()
		if m.cursor < len(sessions) {
			m.store.SelectSession(sessions[m.cursor].ID)
			m.focus = focusInput
			m.input.Focus()
			m.statusErr = ""
			m.refreshViewport()
		}
	case key.Matches(msg, m.keys.Rename):
		sessions := m.store.Sessions()
		if m.cursor < len(sessions) {
			m.startRenaming(sessions[m.cursor])
		}
	}
	return m, nil
}

func (m *Model) startRenaming(sess *model.Session) {
	m.renamingID = sess.ID
	m.focus = focusInput
	m.input.SetValue(sess.Name)
	m.input.Placeholder = "Session name"
	m.input.Focus()
}

func (m *Model) stopRenaming() {
	m.renamingID = ""
	m.input.Reset()
	m.input.Placeholder = "Type a message..."
	m.refreshViewport()
}

// handleSend validates and submits the pending input. The prompt is
// framed from the session before the new user message is appended, so
// the message does not appear twice in the transcript.
func (m *Model) handleSend() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	sess := m.store.ActiveSession()
	if sess == nil {
		sess = m.store.CreateSession("")
		m.cursor = 0
	}
	if m.sending[sess.ID] {
		return nil
	}

	modelID := sess.ModelID
	if modelID == "" {
		modelID = m.store.SelectedModelID()
	}
	if modelID == "" {
		m.statusErr = "no model available; register one first"
		return nil
	}

	prompt := sess.PromptText(text)
	m.store.AppendMessage(sess.ID, model.NewUserMessage(text))
	m.input.Reset()
	m.sending[sess.ID] = true
	m.statusErr = ""
	m.refreshViewport()

	return tea.Batch(m.sendCmd(sess.ID, prompt, modelID), m.spin.Tick)
}

// handleSendResult lands an async send. Results for sessions that no
// longer exist are dropped without touching any state.
func (m *Model) handleSendResult(msg SendResultMsg) (tea.Model, tea.Cmd) {
	delete(m.sending, msg.SessionID)

	if !m.store.HasSession(msg.SessionID) {
		return m, nil
	}

	if msg.Err != nil {
		m.statusErr = transport.Detail(msg.Err)
		m.store.AppendMessage(msg.SessionID, model.NewBotMessage(errorReplyText, ""))
	} else {
		reply := model.NewBotMessage(model.CoerceText(msg.Result.Response), msg.Result.ModelID)
		m.store.AppendMessage(msg.SessionID, reply)
	}

	if msg.SessionID == m.store.ActiveSessionID() {
		m.refreshViewport()
	}
	return m, nil
}

func (m *Model) deleteCurrent() {
	var id string
	if m.focus == focusSidebar {
		sessions := m.store.Sessions()
		if m.cursor >= len(sessions) {
			return
		}
		id = sessions[m.cursor].ID
	} else {
		id = m.store.ActiveSessionID()
		if id == "" {
			return
		}
	}

	m.store.DeleteSession(id)
	if count := m.store.SessionCount(); m.cursor >= count && m.cursor > 0 {
		m.cursor = count - 1
	}
	m.refreshViewport()
}

func (m *Model) toggleTheme() {
	m.theme = m.theme.Toggle()
	m.spin.Style = m.theme.Spinner
	if m.local != nil {
		if err := m.local.SaveTheme(string(m.theme.Mode)); err != nil {
			m.statusErr = "could not save theme preference"
		}
	}
	m.refreshViewport()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	mainWidth := width
	if m.showSidebar {
		mainWidth -= sidebarWidth
	}

	inputHeight := m.input.Height() + 2
	statusHeight := 2
	viewportHeight := height - inputHeight - statusHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(mainWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = mainWidth
		m.viewport.Height = viewportHeight
	}
	m.input.SetWidth(mainWidth - 4)
	m.refreshViewport()
}
