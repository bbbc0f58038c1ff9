// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether the sender is one of the known values.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// DisplayName returns the label shown next to a message.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Echo"
	default:
		return string(s)
	}
}

// Message is a single chat message. The body is a list of segments so
// code attachments stay structured instead of being inlined as markup.
// ModelID records which model produced a bot message; it is empty for
// user messages and for synthetic error messages.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Body      Body      `json:"body"`
	ModelID   string    `json:"model_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message whose body is a single text segment.
// This constructor is the one place free-form input becomes a body, so
// every message holds real text from the moment it exists.
func NewMessage(sender Sender, text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Body:      Body{TextSegment{Text: text}},
		Timestamp: time.Now(),
	}
}

// NewUserMessage builds a user message from input text.
func NewUserMessage(text string) *Message {
	return NewMessage(SenderUser, text)
}

// NewBotMessage builds a bot message attributed to modelID.
func NewBotMessage(text, modelID string) *Message {
	m := NewMessage(SenderBot, text)
	m.ModelID = modelID
	return m
}

// CoerceText renders any value as message text. Callers holding
// decoded JSON or other loosely typed values go through here instead of
// formatting ad hoc, so a non-string payload can never end up inside a
// body unstringified.
func CoerceText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Text flattens the body to plain text.
func (m *Message) Text() string {
	return m.Body.PlainText()
}

// SetText replaces the body with a single text segment.
func (m *Message) SetText(text string) {
	m.Body = Body{TextSegment{Text: text}}
}

// AppendCode attaches a code segment to the body.
func (m *Message) AppendCode(fileName, notes, content string) {
	m.Body = append(m.Body, CodeSegment{FileName: fileName, Notes: notes, Content: content})
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	clone := *m
	clone.Body = make(Body, len(m.Body))
	copy(clone.Body, m.Body)
	return &clone
}
