// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/echoml/echo-tui/internal/ui/styles"
	"github.com/echoml/echo-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom status line: the selected model, session
// count, backend state, and the most recent error if any.
type StatusBar struct {
	ModelName    string
	SessionCount int
	Sending      bool
	Err          string
	Theme        *styles.Theme
	Width        int
}

// Render produces the status line.
func (s StatusBar) Render() string {
	var parts []string

	if s.ModelName != "" {
		parts = append(parts, s.Theme.StatusModel.Render(s.ModelName))
	} else {
		parts = append(parts, s.Theme.StatusError.Render("no model"))
	}

	parts = append(parts, strconv.Itoa(s.SessionCount)+" sessions")

	if s.Sending {
		parts = append(parts, s.Theme.Typing.Render("Echo is typing..."))
	}
	if s.Err != "" {
		parts = append(parts, s.Theme.StatusError.Render(util.TruncateWidth(s.Err, s.Width/2)))
	}

	line := strings.Join(parts, "  |  ")
	return s.Theme.StatusBar.Width(s.Width).MaxWidth(s.Width).Render(line)
}
