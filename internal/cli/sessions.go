// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - the "echo sessions" command family.
//
// Command: sessions
// Short:   Inspect and manage saved sessions
//
// Examples:
//   echo sessions list
//   echo sessions export 4f1f... --json
//   echo sessions search "connection refused"
//   echo sessions delete 4f1f...
//   echo sessions clear
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/echoml/echo-tui/internal/archive"
	"github.com/echoml/echo-tui/internal/export"
	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/store"
	"github.com/echoml/echo-tui/internal/util"
)

// RunSessions dispatches the sessions subcommands over an already
// hydrated store.
func RunSessions(st *store.Store, dataDir string, args Args) error {
	switch args.Sub {
	case "", "list":
		return listSessions(st, args)
	case "export":
		return exportSession(st, args)
	case "search":
		return searchSessions(st, dataDir, args)
	case "rename":
		return renameSession(st, args)
	case "delete":
		return deleteSession(st, args)
	case "clear":
		return clearSessions(st, args)
	default:
		return fmt.Errorf("unknown sessions subcommand: %s", args.Sub)
	}
}

func listSessions(st *store.Store, args Args) error {
	sessions := st.Sessions()

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println(infoStyle.Render("No sessions yet. Run echo to start chatting."))
		return nil
	}

	activeID := st.ActiveSessionID()
	fmt.Println(headerStyle.Render("Sessions"))
	for _, s := range sessions {
		marker := "  "
		if s.ID == activeID {
			marker = okStyle.Render("* ")
		}
		preview := s.Preview(48)
		if preview == "" {
			preview = "(empty)"
		}
		fmt.Printf("%s%s  %s\n", marker, s.Name, labelStyle.Render(shortID(s.ID)))
		fmt.Printf("    %s\n", infoStyle.Render(
			fmt.Sprintf("%d messages, %s", s.MessageCount(), preview)))
	}
	return nil
}

func exportSession(st *store.Store, args Args) error {
	if len(args.SubArgs) == 0 {
		return fmt.Errorf("usage: echo sessions export <id> [--json]")
	}

	sess, err := resolveSession(st, args.SubArgs[0])
	if err != nil {
		return err
	}

	format := export.FormatMarkdown
	if args.JSON {
		format = export.FormatJSON
	}
	for _, extra := range args.SubArgs[1:] {
		if f, err := export.ParseFormat(extra); err == nil {
			format = f
		}
	}

	exporter, err := export.ForFormat(format, export.DefaultOptions())
	if err != nil {
		return err
	}
	out, err := exporter.Export(sess)
	if err != nil {
		return err
	}

	name := export.FileName(sess, format)
	if err := util.AtomicWriteFile(name, out, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if !args.Quiet {
		fmt.Println(okStyle.Render("Exported ") + name)
	}
	return nil
}

func searchSessions(st *store.Store, dataDir string, args Args) error {
	if len(args.SubArgs) == 0 {
		return fmt.Errorf("usage: echo sessions search <query>")
	}
	query := strings.Join(args.SubArgs, " ")

	arc, err := archive.Open(filepath.Join(dataDir, "archive.db"))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer arc.Close()

	// Index from current state before searching, so results never lag
	// behind what the TUI has written.
	ctx := context.Background()
	if err := arc.IndexAll(ctx, st.Sessions()); err != nil {
		return fmt.Errorf("index sessions: %w", err)
	}

	hits, err := arc.Search(ctx, query, 0)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(hits)
	}
	if len(hits) == 0 {
		fmt.Println(infoStyle.Render("No matches."))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d matches", len(hits))))
	for _, h := range hits {
		sender := h.Sender.DisplayName()
		fmt.Printf("%s %s %s\n",
			labelStyle.Render(shortID(h.SessionID)),
			promptStyle.Render(h.SessionName),
			labelStyle.Render("#"+fmt.Sprint(h.Seq)))
		fmt.Printf("  %s: %s\n", sender, h.Snippet)
	}
	return nil
}

func renameSession(st *store.Store, args Args) error {
	if len(args.SubArgs) < 2 {
		return fmt.Errorf("usage: echo sessions rename <id> <name>")
	}
	sess, err := resolveSession(st, args.SubArgs[0])
	if err != nil {
		return err
	}
	name := strings.Join(args.SubArgs[1:], " ")
	st.RenameSession(sess.ID, name)
	if !args.Quiet {
		fmt.Println(okStyle.Render("Renamed to ") + name)
	}
	return nil
}

func deleteSession(st *store.Store, args Args) error {
	if len(args.SubArgs) == 0 {
		return fmt.Errorf("usage: echo sessions delete <id>")
	}
	sess, err := resolveSession(st, args.SubArgs[0])
	if err != nil {
		return err
	}
	st.DeleteSession(sess.ID)
	if !args.Quiet {
		fmt.Println(okStyle.Render("Deleted ") + sess.Name)
	}
	return nil
}

func clearSessions(st *store.Store, args Args) error {
	count := st.SessionCount()
	st.ClearSessions()
	if !args.Quiet {
		fmt.Println(okStyle.Render(fmt.Sprintf("Deleted %d sessions", count)))
	}
	return nil
}

// resolveSession finds a session by full ID or unique prefix.
func resolveSession(st *store.Store, id string) (*model.Session, error) {
	if s := st.Session(id); s != nil {
		return s, nil
	}

	var match *model.Session
	for _, s := range st.Sessions() {
		if strings.HasPrefix(s.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("session ID %q is ambiguous", id)
			}
			match = s
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no session with ID %q", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
