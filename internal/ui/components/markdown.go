// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"

	"github.com/echoml/echo-tui/internal/ui/styles"
)

// Markdown renders prose message text as terminal markdown. The
// renderer is rebuilt when the width or theme changes, which happens
// rarely relative to renders.
type Markdown struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// NewMarkdown creates a markdown renderer for the theme at the given
// wrap width.
func NewMarkdown(theme *styles.Theme, width int) (*Markdown, error) {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle()),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	return &Markdown{renderer: r, width: width, style: theme.GlamourStyle()}, nil
}

// Matches reports whether the renderer was built for this width and
// theme, so callers know when to rebuild.
func (m *Markdown) Matches(theme *styles.Theme, width int) bool {
	if width < 20 {
		width = 20
	}
	return m.width == width && m.style == theme.GlamourStyle()
}

// Render renders markdown text. On failure the raw text comes back, so
// a malformed reply still shows something.
func (m *Markdown) Render(text string) string {
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}
