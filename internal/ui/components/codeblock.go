// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders one code segment: an optional file name badge and
// notes line above syntax-highlighted content in a bordered box.
type CodeBlock struct {
	Segment  model.CodeSegment
	Theme    *styles.Theme
	MaxWidth int
}

// NewCodeBlock creates a renderer for a code segment.
func NewCodeBlock(seg model.CodeSegment, theme *styles.Theme) CodeBlock {
	return CodeBlock{
		Segment:  seg,
		Theme:    theme,
		MaxWidth: 80,
	}
}

// Render produces the styled block.
func (c CodeBlock) Render() string {
	var header []string
	if c.Segment.FileName != "" {
		header = append(header, c.Theme.CodeFileBadge.Render(c.Segment.FileName))
	}
	if c.Segment.Notes != "" {
		header = append(header, c.Theme.CodeNotes.Render(c.Segment.Notes))
	}

	code := strings.TrimRight(c.Segment.Content, "\n")
	highlighted := highlightCode(code, c.Segment.Language(), c.Theme.ChromaStyle())

	content := highlighted
	if len(header) > 0 {
		content = strings.Join(header, "\n") + "\n" + content
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}
	return c.Theme.CodeBlock.MaxWidth(maxWidth).Render(content)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies syntax highlighting using chroma, producing
// ANSI-safe terminal output. The original code comes back unchanged
// when highlighting fails.
func highlightCode(code, language, styleName string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
