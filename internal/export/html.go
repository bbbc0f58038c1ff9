// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/echoml/echo-tui/internal/model"
)

// HTMLExporter renders a session as a standalone HTML page with
// inlined styling. No external assets, so the file opens anywhere.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Format implements Exporter.
func (e *HTMLExporter) Format() Format {
	return FormatHTML
}

const htmlStyle = `body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;color:#1e1e2e;background:#eff1f5}
h1{font-size:1.4rem}
.meta{color:#6c6f85;font-size:.85rem;margin-bottom:2rem}
.msg{margin:1rem 0;padding:.75rem 1rem;border-radius:.5rem}
.user{background:#dce0e8;margin-left:3rem}
.bot{background:#e6e9ef;margin-right:3rem}
.sender{font-weight:600;font-size:.85rem;margin-bottom:.25rem}
.time{color:#6c6f85;font-weight:400;float:right}
pre{background:#1e1e2e;color:#cdd6f4;padding:.75rem;border-radius:.4rem;overflow-x:auto}
.filename{font-family:monospace;font-size:.85rem;color:#6c6f85}`

// Export implements Exporter.
func (e *HTMLExporter) Export(s *model.Session) ([]byte, error) {
	if err := validate(s); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>" + html.EscapeString(s.Name) + "</title>\n")
	sb.WriteString("<style>" + htmlStyle + "</style>\n")
	sb.WriteString("</head>\n<body>\n")

	sb.WriteString("<h1>" + html.EscapeString(s.Name) + "</h1>\n")
	if e.options.IncludeMetadata {
		sb.WriteString("<p class=\"meta\">")
		sb.WriteString(fmt.Sprintf("%d messages, created %s",
			len(s.Messages), formatTimestamp(s.CreatedAt)))
		if s.ModelID != "" {
			sb.WriteString(", model " + html.EscapeString(s.ModelID))
		}
		sb.WriteString("</p>\n")
	}

	for _, msg := range s.Messages {
		class := "bot"
		if msg.Sender == model.SenderUser {
			class = "user"
		}
		sb.WriteString("<div class=\"msg " + class + "\">\n")
		sb.WriteString("<div class=\"sender\">" + html.EscapeString(msg.Sender.DisplayName()))
		if e.options.IncludeTimestamps {
			sb.WriteString("<span class=\"time\">" + formatTimestamp(msg.Timestamp) + "</span>")
		}
		sb.WriteString("</div>\n")

		for _, seg := range msg.Body {
			switch seg := seg.(type) {
			case model.TextSegment:
				for _, para := range strings.Split(seg.Text, "\n\n") {
					sb.WriteString("<p>" + html.EscapeString(para) + "</p>\n")
				}
			case model.CodeSegment:
				if seg.FileName != "" {
					sb.WriteString("<div class=\"filename\">" + html.EscapeString(seg.FileName) + "</div>\n")
				}
				if seg.Notes != "" {
					sb.WriteString("<p>" + html.EscapeString(seg.Notes) + "</p>\n")
				}
				sb.WriteString("<pre><code>" + html.EscapeString(seg.Content) + "</code></pre>\n")
			}
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}
