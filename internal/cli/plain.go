// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// plain.go - line-mode chat without the full-screen UI.
//
// Command: chat
// Short:   Chat with the Echo backend from a plain prompt
//
// Interactive commands:
//   /new [name]      Start a new session
//   /switch <id>     Switch to another session
//   /sessions        List sessions
//   /system <text>   Set the session's system prompt
//   /model [id]      Show or select the model
//   /reset           Clear all sessions and backend state
//   /help            Show commands
//   /quit            Exit
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/echoml/echo-tui/internal/config"
	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/store"
	"github.com/echoml/echo-tui/internal/transport"
	"github.com/echoml/echo-tui/internal/ui/components"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

// PlainChat is the line-mode REPL. It shares the store with the TUI,
// so sessions started here show up there and vice versa.
type PlainChat struct {
	store  *store.Store
	client *transport.Client
	line   *liner.State
	md     *components.Markdown

	historyFile string
	quiet       bool
}

// NewPlainChat prepares the REPL with line editing and input history.
func NewPlainChat(st *store.Store, client *transport.Client, quiet bool) *PlainChat {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	var md *components.Markdown
	theme := styles.NewTheme(styles.ModeAuto)
	if m, err := components.NewMarkdown(theme, 100); err == nil {
		md = m
	}

	return &PlainChat{
		store:       st,
		client:      client,
		line:        line,
		md:          md,
		historyFile: historyFile,
		quiet:       quiet,
	}
}

// Close persists input history and releases the terminal.
func (c *PlainChat) Close() {
	if c.historyFile != "" {
		if f, err := os.Create(c.historyFile); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// Run drives the prompt loop until /quit or EOF.
func (c *PlainChat) Run(ctx context.Context) error {
	if !c.quiet {
		fmt.Println(headerStyle.Render("echo") + infoStyle.Render("  line-mode chat, /help for commands"))
	}

	c.loadModels(ctx)

	for {
		input, err := c.line.Prompt(promptStyle.Render("> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			// EOF exits cleanly.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		c.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if done := c.handleCommand(ctx, input); done {
				return nil
			}
			continue
		}

		c.send(ctx, input)
	}
}

func (c *PlainChat) loadModels(ctx context.Context) {
	models, err := c.client.FetchModels(ctx)
	if err != nil {
		fmt.Println(warnStyle.Render("Backend unreachable; chat is disabled until it returns."))
		return
	}
	c.store.SetModels(models)
	if !c.quiet {
		if m, ok := c.store.SelectedModel(); ok {
			fmt.Println(infoStyle.Render("Model: " + m.Name))
		}
	}
}

func (c *PlainChat) handleCommand(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	cmd, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render(`  /new [name]      start a new session
  /switch <id>     switch session
  /sessions        list sessions
  /system <text>   set the system prompt
  /model [id]      show or select the model
  /reset           clear everything
  /quit            exit`))

	case "/new":
		sess := c.store.CreateSession(rest)
		fmt.Println(okStyle.Render("Started ") + sess.Name)

	case "/switch":
		if rest == "" {
			fmt.Println(warnStyle.Render("usage: /switch <id>"))
			break
		}
		sess, err := resolveSession(c.store, rest)
		if err != nil {
			fmt.Println(errStyle.Render(err.Error()))
			break
		}
		c.store.SelectSession(sess.ID)
		fmt.Println(okStyle.Render("Switched to ") + sess.Name)

	case "/sessions":
		if err := listSessions(c.store, Args{}); err != nil {
			fmt.Println(errStyle.Render(err.Error()))
		}

	case "/system":
		sess := c.activeSession()
		if rest == "" {
			if sess.SystemPrompt == "" {
				fmt.Println(infoStyle.Render("No system prompt set."))
			} else {
				fmt.Println(infoStyle.Render("System prompt: " + sess.SystemPrompt))
			}
			break
		}
		c.store.SetSystemPrompt(sess.ID, rest)
		fmt.Println(okStyle.Render("System prompt set."))

	case "/model":
		if rest == "" {
			if m, ok := c.store.SelectedModel(); ok {
				fmt.Println(infoStyle.Render("Model: " + m.Name + "  " + m.ID))
			} else {
				fmt.Println(warnStyle.Render("No model selected."))
			}
			break
		}
		if _, ok := c.store.Model(rest); !ok {
			fmt.Println(errStyle.Render("no model with ID " + rest))
			break
		}
		c.store.SelectModel(rest)
		fmt.Println(okStyle.Render("Model selected."))

	case "/reset":
		c.store.ClearSessions()
		if err := c.client.Reset(ctx); err != nil {
			fmt.Println(warnStyle.Render("Local state cleared; backend reset failed: " + transport.Detail(err)))
		} else {
			fmt.Println(okStyle.Render("Everything cleared."))
		}

	default:
		fmt.Println(warnStyle.Render("unknown command " + cmd + ", /help for a list"))
	}
	return false
}

// send frames the prompt, calls the backend, and prints the reply.
func (c *PlainChat) send(ctx context.Context, text string) {
	sess := c.activeSession()

	modelID := sess.ModelID
	if modelID == "" {
		modelID = c.store.SelectedModelID()
	}
	if modelID == "" {
		fmt.Println(errStyle.Render("No model available. Register one with echo models add."))
		return
	}

	prompt := sess.PromptText(text)
	c.store.AppendMessage(sess.ID, model.NewUserMessage(text))

	fmt.Println(infoStyle.Render("Echo is typing..."))
	result, err := c.client.SendMessage(ctx, prompt, modelID)
	if err != nil {
		c.store.AppendMessage(sess.ID, model.NewBotMessage(errorReplyText, ""))
		fmt.Println(errStyle.Render("Echo: ") + errorReplyText)
		fmt.Println(labelStyle.Render("  " + transport.Detail(err)))
		return
	}

	reply := model.CoerceText(result.Response)
	c.store.AppendMessage(sess.ID, model.NewBotMessage(reply, result.ModelID))

	rendered := reply
	if c.md != nil {
		rendered = strings.TrimRight(c.md.Render(reply), "\n")
	}
	fmt.Println(promptStyle.Render("Echo:"))
	fmt.Println(rendered)
}

// errorReplyText mirrors the transcript notice the TUI appends when a
// send fails, so both frontends leave the same history behind.
const errorReplyText = "Sorry, something went wrong. Please try again."

func (c *PlainChat) activeSession() *model.Session {
	if sess := c.store.ActiveSession(); sess != nil {
		return sess
	}
	return c.store.CreateSession("")
}
