// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ModeDark)
}

func TestCodeBlockRenderIncludesHeader(t *testing.T) {
	seg := model.CodeSegment{FileName: "main.py", Notes: "entry point", Content: "print(1)\n"}
	out := NewCodeBlock(seg, testTheme()).Render()

	if !strings.Contains(out, "main.py") {
		t.Error("rendered block should show the file name")
	}
	if !strings.Contains(out, "entry point") {
		t.Error("rendered block should show the notes")
	}
}

func TestCodeBlockRenderBareContent(t *testing.T) {
	seg := model.CodeSegment{Content: "x = 1"}
	out := NewCodeBlock(seg, testTheme()).Render()
	if out == "" {
		t.Error("render should produce output for a bare segment")
	}
}

func TestHighlightCodeFallsBack(t *testing.T) {
	code := "some plain text"
	out := highlightCode(code, "", "catppuccin-mocha")
	if out == "" {
		t.Error("highlighting should never swallow the code")
	}
}

func TestMessageViewUser(t *testing.T) {
	msg := model.NewUserMessage("hello there")
	out := MessageView{Message: msg, Theme: testTheme(), Width: 80}.Render()

	if !strings.Contains(out, "You") {
		t.Error("user message should carry the sender label")
	}
	if !strings.Contains(out, "hello there") {
		t.Error("message text missing from render")
	}
}

func TestMessageViewCodeSegment(t *testing.T) {
	msg := model.NewBotMessage("see below", "m1")
	msg.AppendCode("fix.go", "", "package main\n")

	out := MessageView{Message: msg, Theme: testTheme(), Width: 80}.Render()
	if !strings.Contains(out, "fix.go") {
		t.Error("code segment file name missing from render")
	}
}

func TestSidebarMarksActive(t *testing.T) {
	a := model.NewSession("First", "")
	b := model.NewSession("Second", "")

	out := Sidebar{
		Sessions: []*model.Session{a, b},
		ActiveID: b.ID,
		Cursor:   0,
		Theme:    testTheme(),
		Width:    30,
		Height:   20,
	}.Render()

	if !strings.Contains(out, "First") || !strings.Contains(out, "Second") {
		t.Error("sidebar should list all sessions")
	}
	if !strings.Contains(out, "* Second") {
		t.Error("active session should be marked")
	}
}

func TestSidebarEmpty(t *testing.T) {
	out := Sidebar{Theme: testTheme(), Width: 30, Height: 10}.Render()
	if !strings.Contains(out, "No sessions") {
		t.Error("empty sidebar should say so")
	}
}

func TestStatusBar(t *testing.T) {
	out := StatusBar{
		ModelName:    "Claude",
		SessionCount: 3,
		Sending:      true,
		Theme:        testTheme(),
		Width:        100,
	}.Render()

	if !strings.Contains(out, "Claude") {
		t.Error("status bar should show the model name")
	}
	if !strings.Contains(out, "3 sessions") {
		t.Error("status bar should show the session count")
	}
	if !strings.Contains(out, "Echo is typing...") {
		t.Error("status bar should show the typing indicator while sending")
	}
}

func TestStatusBarNoModel(t *testing.T) {
	out := StatusBar{SessionCount: 0, Theme: testTheme(), Width: 60}.Render()
	if !strings.Contains(out, "no model") {
		t.Error("status bar should flag a missing model")
	}
}

func TestMarkdownRender(t *testing.T) {
	md, err := NewMarkdown(testTheme(), 60)
	if err != nil {
		t.Fatalf("NewMarkdown failed: %v", err)
	}
	out := md.Render("# Title\n\nsome **bold** text")
	if out == "" {
		t.Error("markdown render produced nothing")
	}
	if !md.Matches(testTheme(), 60) {
		t.Error("renderer should match its own parameters")
	}
	if md.Matches(testTheme(), 90) {
		t.Error("renderer should not match a different width")
	}
}
