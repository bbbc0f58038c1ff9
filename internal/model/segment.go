// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// ============================================================================
// Message body segments
// ============================================================================

// Segment is one part of a message body. A body is an ordered list of
// segments: prose text and structured code attachments. Keeping code as
// its own segment type means renderers never have to parse markup out
// of the text, and plain-text consumers get a deterministic flattening
// via PlainText.
type Segment interface {
	// PlainText renders the segment as plain text. For code segments
	// this produces a fenced block with the file name and notes, so
	// flattened bodies stay readable and round-trip free of markup.
	PlainText() string

	segment()
}

// TextSegment is a run of prose.
type TextSegment struct {
	Text string `json:"text"`
}

func (s TextSegment) PlainText() string { return s.Text }
func (TextSegment) segment()            {}

// CodeSegment is a code attachment with optional file name and notes.
type CodeSegment struct {
	FileName string `json:"file_name,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Content  string `json:"content"`
}

func (s CodeSegment) PlainText() string {
	var b strings.Builder
	if s.FileName != "" {
		b.WriteString("File: ")
		b.WriteString(s.FileName)
		b.WriteByte('\n')
	}
	if s.Notes != "" {
		b.WriteString(s.Notes)
		b.WriteByte('\n')
	}
	b.WriteString("```")
	b.WriteString(s.Language())
	b.WriteByte('\n')
	b.WriteString(s.Content)
	if !strings.HasSuffix(s.Content, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("```")
	return b.String()
}

func (CodeSegment) segment() {}

// Language guesses a fence language from the file extension. Empty when
// there is no file name or the extension is unknown to this table;
// renderers fall back to lexer detection on the content.
func (s CodeSegment) Language() string {
	ext := strings.ToLower(filepath.Ext(s.FileName))
	switch ext {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".mjs":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".rs":
		return "rust"
	case ".sh", ".bash":
		return "bash"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".md":
		return "markdown"
	case ".sql":
		return "sql"
	case ".c", ".h":
		return "c"
	case ".html":
		return "html"
	case ".css":
		return "css"
	default:
		return ""
	}
}

// ============================================================================
// Body codec
// ============================================================================

// Body is an ordered list of segments. It marshals as a JSON array of
// tagged objects so the two segment kinds survive persistence:
//
//	[{"type":"text","text":"..."},
//	 {"type":"code","file_name":"x.py","notes":"...","content":"..."}]
type Body []Segment

const (
	segmentTypeText = "text"
	segmentTypeCode = "code"
)

type segmentEnvelope struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Content  string `json:"content,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b Body) MarshalJSON() ([]byte, error) {
	envelopes := make([]segmentEnvelope, 0, len(b))
	for _, seg := range b {
		switch s := seg.(type) {
		case TextSegment:
			envelopes = append(envelopes, segmentEnvelope{Type: segmentTypeText, Text: s.Text})
		case CodeSegment:
			envelopes = append(envelopes, segmentEnvelope{
				Type:     segmentTypeCode,
				FileName: s.FileName,
				Notes:    s.Notes,
				Content:  s.Content,
			})
		default:
			return nil, fmt.Errorf("unknown segment type %T", seg)
		}
	}
	return json.Marshal(envelopes)
}

// UnmarshalJSON implements json.Unmarshaler. Unrecognized segment types
// are kept as text so a newer file read by an older build degrades to
// something visible instead of vanishing.
func (b *Body) UnmarshalJSON(data []byte) error {
	var envelopes []segmentEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}
	out := make(Body, 0, len(envelopes))
	for _, env := range envelopes {
		switch env.Type {
		case segmentTypeCode:
			out = append(out, CodeSegment{
				FileName: env.FileName,
				Notes:    env.Notes,
				Content:  env.Content,
			})
		default:
			out = append(out, TextSegment{Text: env.Text})
		}
	}
	*b = out
	return nil
}

// PlainText flattens the body into a single string, segments separated
// by blank lines.
func (b Body) PlainText() string {
	parts := make([]string, 0, len(b))
	for _, seg := range b {
		parts = append(parts, seg.PlainText())
	}
	return strings.Join(parts, "\n\n")
}

// HasCode reports whether any segment is a code attachment.
func (b Body) HasCode() bool {
	for _, seg := range b {
		if _, ok := seg.(CodeSegment); ok {
			return true
		}
	}
	return false
}
