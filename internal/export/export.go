// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/echoml/echo-tui/internal/model"
)

// Format identifies an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// Options controls what exporters include.
type Options struct {
	// IncludeMetadata adds a header block with session details.
	IncludeMetadata bool
	// IncludeTimestamps annotates each message with its time.
	IncludeTimestamps bool
}

// DefaultOptions includes everything.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// Exporter renders a session in one output format.
type Exporter interface {
	Export(s *model.Session) ([]byte, error)
	Format() Format
}

// ForFormat returns the exporter for format.
func ForFormat(format Format, opts *Options) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	case FormatHTML:
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}

// ParseFormat maps user input to a Format, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format: %q", s)
	}
}

// FileName suggests an output file name for a session export.
func FileName(s *model.Session, format Format) string {
	name := strings.ToLower(s.Name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "session"
	}

	ext := "md"
	switch format {
	case FormatJSON:
		ext = "json"
	case FormatHTML:
		ext = "html"
	}
	return fmt.Sprintf("%s-%s.%s", name, s.CreatedAt.Format("2006-01-02"), ext)
}

func validate(s *model.Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if len(s.Messages) == 0 {
		return fmt.Errorf("session %q has no messages", s.ID)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
