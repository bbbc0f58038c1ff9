// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/echoml/echo-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders a session as a Markdown document. Code
// segments keep their fenced form, so an exported transcript pastes
// back into any Markdown tool intact.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Format implements Exporter.
func (e *MarkdownExporter) Format() Format {
	return FormatMarkdown
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(s *model.Session) ([]byte, error) {
	if err := validate(s); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(s.Name)))
		sb.WriteString(fmt.Sprintf("created: %s\n", s.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("updated: %s\n", s.UpdatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(s.Messages)))
		if s.ModelID != "" {
			sb.WriteString(fmt.Sprintf("model: %s\n", s.ModelID))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: echo\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(s.Name)))

	if e.options.IncludeMetadata && s.SystemPrompt != "" {
		sb.WriteString("> System prompt: " + escapeMarkdown(s.SystemPrompt) + "\n\n")
	}

	for _, msg := range s.Messages {
		sb.WriteString("## " + msg.Sender.DisplayName())
		if e.options.IncludeTimestamps {
			sb.WriteString(" (" + formatTimestamp(msg.Timestamp) + ")")
		}
		sb.WriteString("\n\n")

		for _, seg := range msg.Body {
			switch seg := seg.(type) {
			case model.TextSegment:
				sb.WriteString(seg.Text)
				sb.WriteString("\n\n")
			case model.CodeSegment:
				if seg.FileName != "" {
					sb.WriteString("**`" + seg.FileName + "`**\n\n")
				}
				if seg.Notes != "" {
					sb.WriteString(seg.Notes + "\n\n")
				}
				sb.WriteString("```" + seg.Language() + "\n")
				sb.WriteString(seg.Content)
				if !strings.HasSuffix(seg.Content, "\n") {
					sb.WriteString("\n")
				}
				sb.WriteString("```\n\n")
			}
		}
	}

	return []byte(sb.String()), nil
}

// escapeYAML quotes a value when it would break scalar parsing.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#{}[]&*!|>'\"%@`") || strings.TrimSpace(s) != s {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// escapeMarkdown neutralizes heading and emphasis markers in titles.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
		"[", "\\[",
		"]", "\\]",
	)
	return replacer.Replace(s)
}
