// echo - a terminal chat client for the Echo backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/echoml/echo-tui/internal/cli"
	"github.com/echoml/echo-tui/internal/config"
	"github.com/echoml/echo-tui/internal/storage"
	"github.com/echoml/echo-tui/internal/store"
	"github.com/echoml/echo-tui/internal/transport"
	"github.com/echoml/echo-tui/internal/ui/chat"
	"github.com/echoml/echo-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cli.PrintUsage()
		os.Exit(2)
	}

	switch args.Command {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	app, err := newApp(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := app.run(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wiring shared by every command: configuration, the
// persistent store, and the backend client.
type app struct {
	cfg     *config.Config
	dataDir string
	local   *storage.LocalStore
	store   *store.Store
	client  *transport.Client
}

func newApp(args cli.Args) (*app, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if args.BackendURL != "" {
		cfg.Backend.URL = args.BackendURL
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	local, err := storage.NewLocalStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open state directory: %w", err)
	}

	client := transport.NewClientWithConfig(&transport.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})

	st := store.New(local)
	st.PreselectModel(cfg.Backend.Model)

	return &app{
		cfg:     cfg,
		dataDir: dataDir,
		local:   local,
		store:   st,
		client:  client,
	}, nil
}

func (a *app) run(args cli.Args) error {
	switch args.Command {
	case cli.CmdTUI:
		return a.runTUI(args)
	case cli.CmdChat:
		return a.runPlainChat(args)
	case cli.CmdSessions:
		return cli.RunSessions(a.store, a.dataDir, args)
	case cli.CmdModels:
		return cli.RunModels(a.client, args)
	case cli.CmdReset:
		return a.runReset(args)
	default:
		cli.PrintUsage()
		return nil
	}
}

func (a *app) runTUI(args cli.Args) error {
	// The alternate screen owns the terminal; route log output to a
	// file so warnings do not tear the UI.
	if f, err := os.OpenFile(
		filepath.Join(a.dataDir, "echo.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600,
	); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	theme := a.resolveTheme()
	m := chat.New(a.store, a.client, a.local, theme)

	watcher := a.watchConfig()
	if watcher != nil {
		defer watcher.Close()
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// resolveTheme prefers the last toggled theme over the config default.
func (a *app) resolveTheme() *styles.Theme {
	mode := a.local.LoadTheme()
	if mode == "" {
		mode = a.cfg.UI.Theme
	}
	return styles.NewTheme(styles.Mode(mode))
}

// watchConfig reloads backend settings when the config file changes on
// disk. Returns nil when the file does not exist yet.
func (a *app) watchConfig() *config.Watcher {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	w, err := config.Watch(path, func(cfg *config.Config) {
		a.client.SetBaseURL(cfg.Backend.URL)
	})
	if err != nil {
		log.Printf("CONFIG: watch failed | path=%s error=%v", path, err)
		return nil
	}
	return w
}

func (a *app) runPlainChat(args cli.Args) error {
	repl := cli.NewPlainChat(a.store, a.client, args.Quiet)
	defer repl.Close()
	return repl.Run(context.Background())
}

func (a *app) runReset(args cli.Args) error {
	count := a.store.SessionCount()
	a.store.ClearSessions()

	if err := a.client.Reset(context.Background()); err != nil {
		return fmt.Errorf("local state cleared, backend reset failed: %w", err)
	}
	if !args.Quiet {
		fmt.Printf("Cleared %d sessions and backend state.\n", count)
	}
	return nil
}
