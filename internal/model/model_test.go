// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewMessageBodyIsText(t *testing.T) {
	msg := NewUserMessage("hello")
	if msg.ID == "" {
		t.Error("expected non-empty ID")
	}
	if msg.Sender != SenderUser {
		t.Errorf("sender = %q, want %q", msg.Sender, SenderUser)
	}
	if len(msg.Body) != 1 {
		t.Fatalf("body has %d segments, want 1", len(msg.Body))
	}
	if msg.Text() != "hello" {
		t.Errorf("Text() = %q, want %q", msg.Text(), "hello")
	}
}

func TestNewBotMessageCarriesModelID(t *testing.T) {
	msg := NewBotMessage("hi", "anthropic_1")
	if msg.Sender != SenderBot {
		t.Errorf("sender = %q, want %q", msg.Sender, SenderBot)
	}
	if msg.ModelID != "anthropic_1" {
		t.Errorf("model id = %q, want %q", msg.ModelID, "anthropic_1")
	}
}

func TestCoerceText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "plain", "plain"},
		{"nil", nil, ""},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"bool", true, "true"},
		{"map", map[string]int{"a": 1}, "map[a:1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceText(tt.in); got != tt.want {
				t.Errorf("CoerceText(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBodyRoundTrip(t *testing.T) {
	body := Body{
		TextSegment{Text: "here is the fix"},
		CodeSegment{FileName: "main.py", Notes: "entry point", Content: "print(1)\n"},
	}

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got Body
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d segments, want 2", len(got))
	}
	text, ok := got[0].(TextSegment)
	if !ok || text.Text != "here is the fix" {
		t.Errorf("segment 0 = %#v", got[0])
	}
	code, ok := got[1].(CodeSegment)
	if !ok || code.FileName != "main.py" || code.Notes != "entry point" || code.Content != "print(1)\n" {
		t.Errorf("segment 1 = %#v", got[1])
	}
}

func TestBodyUnknownSegmentDegradesToText(t *testing.T) {
	raw := `[{"type":"image","text":"[diagram]"}]`
	var body Body
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("got %d segments, want 1", len(body))
	}
	if _, ok := body[0].(TextSegment); !ok {
		t.Errorf("unknown type should decode as text, got %#v", body[0])
	}
}

func TestCodeSegmentPlainText(t *testing.T) {
	seg := CodeSegment{FileName: "app.py", Notes: "note", Content: "x = 1"}
	got := seg.PlainText()

	for _, want := range []string{"File: app.py", "note", "```python", "x = 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("PlainText missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(got, "```") {
		t.Errorf("PlainText should close the fence:\n%s", got)
	}
}

func TestCodeSegmentLanguage(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"main.go", "go"},
		{"app.py", "python"},
		{"index.ts", "typescript"},
		{"weird.xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		seg := CodeSegment{FileName: tt.file}
		if got := seg.Language(); got != tt.want {
			t.Errorf("Language(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestSessionUniqueIDs(t *testing.T) {
	a := NewSession("Chat 1", "")
	b := NewSession("Chat 2", "")
	if a.ID == b.ID {
		t.Error("sessions should have distinct IDs")
	}
	if a.ID == "" {
		t.Error("expected non-empty ID")
	}
}

func TestSessionPreview(t *testing.T) {
	s := NewSession("Chat 1", "")
	if got := s.Preview(40); got != "No messages yet" {
		t.Errorf("empty preview = %q", got)
	}

	s.Append(NewUserMessage("first\nline two"))
	got := s.Preview(40)
	if strings.Contains(got, "\n") {
		t.Errorf("preview should be one line: %q", got)
	}
	if !strings.HasPrefix(got, "first") {
		t.Errorf("preview = %q", got)
	}
}

func TestPromptTextFraming(t *testing.T) {
	s := NewSession("Chat 1", "")
	s.SystemPrompt = "You are terse."
	s.Append(NewUserMessage("hi"))
	s.Append(NewBotMessage("hello", "m1"))

	got := s.PromptText("how are you")

	if !strings.HasPrefix(got, "You are terse.\n\n") {
		t.Errorf("system prompt should lead:\n%s", got)
	}
	if !strings.Contains(got, "User: hi\n") {
		t.Errorf("missing user turn:\n%s", got)
	}
	if !strings.Contains(got, "Bot: hello\n") {
		t.Errorf("missing bot turn:\n%s", got)
	}
	if !strings.HasSuffix(got, "User: how are you") {
		t.Errorf("pending input should end the prompt:\n%s", got)
	}
}

func TestPromptTextWindow(t *testing.T) {
	s := NewSession("Chat 1", "")
	for i := 0; i < HistoryWindow+5; i++ {
		s.Append(NewUserMessage("msg"))
	}

	got := s.PromptText("tail")
	// HistoryWindow history turns plus the pending input line.
	if n := strings.Count(got, "User: "); n != HistoryWindow+1 {
		t.Errorf("transcript has %d turns, want %d", n, HistoryWindow+1)
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := NewSession("Chat 1", "m1")
	s.Append(NewUserMessage("original"))

	clone := s.Clone()
	clone.Messages[0].SetText("mutated")
	clone.Name = "renamed"

	if s.Messages[0].Text() != "original" {
		t.Error("clone mutation leaked into source message")
	}
	if s.Name != "Chat 1" {
		t.Error("clone mutation leaked into source name")
	}
}

func TestProviderType(t *testing.T) {
	if !ProviderAnthropic.Valid() || !ProviderHuggingFace.Valid() {
		t.Error("known providers should be valid")
	}
	if ProviderType("openai").Valid() {
		t.Error("unknown provider should be invalid")
	}
	if !ProviderAnthropic.RequiresAPIKey() {
		t.Error("anthropic requires an API key")
	}
	if ProviderHuggingFace.RequiresAPIKey() {
		t.Error("huggingface does not require an API key")
	}
}

func TestModelBuiltin(t *testing.T) {
	if !(Model{ID: "huggingface_distilgpt2"}).Builtin() {
		t.Error("huggingface_ prefix marks a builtin")
	}
	if (Model{ID: "anthropic_1"}).Builtin() {
		t.Error("registered model is not builtin")
	}
}

func TestModelRedacted(t *testing.T) {
	m := Model{ID: "a1", APIKey: "sk-secret"}
	r := m.Redacted()
	if r.APIKey != "[REDACTED]" {
		t.Errorf("redacted key = %q", r.APIKey)
	}
	if m.APIKey != "sk-secret" {
		t.Error("Redacted should not mutate the receiver")
	}
	if (Model{}).Redacted().APIKey != "" {
		t.Error("empty key stays empty")
	}
}
