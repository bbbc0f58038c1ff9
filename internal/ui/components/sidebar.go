// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/ui/styles"
	"github.com/echoml/echo-tui/internal/util"
)

// =============================================================================
// SESSION SIDEBAR
// =============================================================================

// Sidebar renders the session list: one row per session, newest first,
// with the active session marked and a preview of its latest message.
type Sidebar struct {
	Sessions []*model.Session
	ActiveID string
	Cursor   int
	Theme    *styles.Theme
	Width    int
	Height   int
}

// Render produces the sidebar column.
func (s Sidebar) Render() string {
	inner := s.Width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(s.Theme.SidebarTitle.Render("Sessions"))
	b.WriteByte('\n')

	if len(s.Sessions) == 0 {
		b.WriteString(s.Theme.Empty.Width(inner).Render("No sessions"))
		return s.Theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
	}

	// Keep the cursor row visible in tall lists.
	rows := (s.Height - 2) / 2
	if rows < 1 {
		rows = 1
	}
	start := 0
	if s.Cursor >= rows {
		start = s.Cursor - rows + 1
	}
	end := start + rows
	if end > len(s.Sessions) {
		end = len(s.Sessions)
	}

	for i := start; i < end; i++ {
		sess := s.Sessions[i]

		marker := "  "
		if sess.ID == s.ActiveID {
			marker = "* "
		}
		name := util.TruncateWidth(marker+sess.Name, inner)

		style := s.Theme.SessionItem
		if i == s.Cursor {
			style = s.Theme.SessionItemSelected
		}
		b.WriteString(style.Width(inner).Render(name))
		b.WriteByte('\n')
		b.WriteString(s.Theme.SessionPreview.Width(inner).Render(sess.Preview(inner - 2)))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return s.Theme.Sidebar.Width(s.Width).Height(s.Height).Render(b.String())
}
