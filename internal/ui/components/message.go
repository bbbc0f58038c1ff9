// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageView renders one chat message: a sender label with timestamp,
// then the body segment by segment. Prose goes through the markdown
// renderer, code segments through CodeBlock.
type MessageView struct {
	Message  *model.Message
	Theme    *styles.Theme
	Markdown *Markdown
	Width    int

	// IsError styles the bubble as a failure notice. Used for the
	// synthetic bot message appended when a send fails.
	IsError bool
}

const timestampLayout = "15:04"

// Render produces the complete styled message.
func (v MessageView) Render() string {
	label := v.Theme.SenderLabel.Render(v.Message.Sender.DisplayName())
	ts := v.Theme.Timestamp.Render(v.Message.Timestamp.Format(timestampLayout))
	header := label + " " + ts

	var parts []string
	for _, seg := range v.Message.Body {
		switch s := seg.(type) {
		case model.CodeSegment:
			cb := NewCodeBlock(s, v.Theme)
			cb.MaxWidth = v.Width
			parts = append(parts, cb.Render())
		default:
			text := seg.PlainText()
			if v.Markdown != nil && v.Message.Sender == model.SenderBot && !v.IsError {
				text = strings.TrimRight(v.Markdown.Render(text), "\n")
			}
			parts = append(parts, text)
		}
	}
	body := strings.Join(parts, "\n")

	bubble := v.bubbleStyle()
	maxWidth := v.Width - 6
	if maxWidth < 20 {
		maxWidth = 20
	}
	return header + "\n" + bubble.MaxWidth(maxWidth).Render(body)
}

func (v MessageView) bubbleStyle() lipgloss.Style {
	switch {
	case v.IsError:
		return v.Theme.ErrorBubble
	case v.Message.Sender == model.SenderUser:
		return v.Theme.UserBubble
	default:
		return v.Theme.BotBubble
	}
}
