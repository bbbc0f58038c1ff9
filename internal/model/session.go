// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/echoml/echo-tui/internal/util"
)

// HistoryWindow is the number of trailing messages included when a
// session is framed into a prompt. The window is fixed; older messages
// stay in the session but drop out of the transcript sent upstream.
const HistoryWindow = 10

// Session is one conversation: an identity, a display name, an ordered
// message history, and the settings used when sending from it.
type Session struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Messages     []*Message `json:"messages"`
	SystemPrompt string     `json:"system_prompt,omitempty"`
	ModelID      string     `json:"model_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewSession creates an empty session with a fresh unique ID.
func NewSession(name, modelID string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Messages:  []*Message{},
		ModelID:   modelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message to the end of the history.
func (s *Session) Append(msg *Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages in the session.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty reports whether the session has no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the most recent message, or nil when empty.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// Preview returns a one-line summary of the latest message, width
// limited for list display.
func (s *Session) Preview(maxWidth int) string {
	last := s.LastMessage()
	if last == nil {
		return "No messages yet"
	}
	return util.TruncateWidth(util.CollapseSpace(last.Text()), maxWidth)
}

// PromptText frames the session for sending: the system prompt, then a
// transcript of the last HistoryWindow messages labeled by sender, then
// the pending input. The transcript carries flattened bodies, so code
// attachments appear as fenced blocks.
func (s *Session) PromptText(input string) string {
	var b strings.Builder
	if s.SystemPrompt != "" {
		b.WriteString(s.SystemPrompt)
		b.WriteString("\n\n")
	}

	history := s.Messages
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	for _, msg := range history {
		switch msg.Sender {
		case SenderUser:
			b.WriteString("User: ")
		default:
			b.WriteString("Bot: ")
		}
		b.WriteString(msg.Text())
		b.WriteByte('\n')
	}

	b.WriteString("User: ")
	b.WriteString(input)
	return b.String()
}

// Clone returns a deep copy of the session, messages included. Readers
// of shared state get clones so later mutation never shows through.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Messages = make([]*Message, len(s.Messages))
	for i, msg := range s.Messages {
		clone.Messages[i] = msg.Clone()
	}
	return &clone
}
