// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/ui/components"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

// markdownCache rebuilds the glamour renderer only when the width or
// theme changes.
type markdownCache struct {
	md *components.Markdown
}

func (c *markdownCache) get(theme *styles.Theme, width int) *components.Markdown {
	if c.md != nil && c.md.Matches(theme, width) {
		return c.md
	}
	md, err := components.NewMarkdown(theme, width)
	if err != nil {
		return nil
	}
	c.md = md
	return md
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.theme.InputContainer.Width(m.mainWidth()).Render(m.input.View()),
		m.statusView(),
		m.helpView(),
	)

	if !m.showSidebar {
		return main
	}

	sidebar := components.Sidebar{
		Sessions: m.store.Sessions(),
		ActiveID: m.store.ActiveSessionID(),
		Cursor:   m.cursor,
		Theme:    m.theme,
		Width:    sidebarWidth,
		Height:   m.height,
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar.Render(), main)
}

func (m *Model) mainWidth() int {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) statusView() string {
	name := ""
	if selected, ok := m.store.SelectedModel(); ok {
		name = selected.Name
	}
	bar := components.StatusBar{
		ModelName:    name,
		SessionCount: m.store.SessionCount(),
		Sending:      m.State() == StateSending,
		Err:          m.statusErr,
		Theme:        m.theme,
		Width:        m.mainWidth(),
	}
	out := bar.Render()
	if m.State() == StateSending {
		out = m.spin.View() + " " + out
	}
	return out
}

func (m *Model) helpView() string {
	bindings := []struct{ k, v string }{
		{"enter", "send"},
		{"ctrl+n", "new"},
		{"ctrl+d", "delete"},
		{"tab", "focus"},
		{"ctrl+b", "sidebar"},
		{"ctrl+t", "theme"},
		{"ctrl+c", "quit"},
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, m.theme.HelpKey.Render(b.k)+" "+m.theme.Help.Render(b.v))
	}
	return m.theme.Help.Render(strings.Join(parts, "  "))
}

// refreshViewport re-renders the active session transcript.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	sess := m.store.ActiveSession()
	if sess == nil {
		m.viewport.SetContent(m.theme.Empty.Width(m.mainWidth()).
			Render("\nNo active session. Press ctrl+n to start one.\n"))
		return
	}

	width := m.mainWidth()
	md := m.markdownCache.get(m.theme, width-8)

	var b strings.Builder
	for i, msg := range sess.Messages {
		view := components.MessageView{
			Message:  msg,
			Theme:    m.theme,
			Markdown: md,
			Width:    width,
			IsError:  isErrorReply(msg),
		}
		b.WriteString(view.Render())
		if i < len(sess.Messages)-1 {
			b.WriteString("\n\n")
		}
	}
	if sess.IsEmpty() {
		b.WriteString(m.theme.Empty.Width(width).Render("\nSay something to get started.\n"))
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// isErrorReply identifies the synthetic failure notice: a bot message
// with no model attribution.
func isErrorReply(msg *model.Message) bool {
	return msg.Sender == model.SenderBot && msg.ModelID == "" && msg.Text() == errorReplyText
}
