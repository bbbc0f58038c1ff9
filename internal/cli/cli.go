// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - argument parsing and command dispatch for echo.
package cli

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies what the invocation asks for.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdSessions
	CmdModels
	CmdReset
	CmdVersion
	CmdHelp
)

// Args holds the parsed invocation.
type Args struct {
	Command Command

	// Global flags
	BackendURL string
	ConfigPath string
	JSON       bool
	Quiet      bool

	// Subcommand and its trailing arguments, e.g. "search" and the
	// query words for "echo sessions search ...".
	Sub     string
	SubArgs []string
}

// Parse interprets args (without the program name). Unknown commands
// and malformed flags return an error; the caller prints usage.
func Parse(args []string) (Args, error) {
	parsed := Args{Command: CmdTUI}

	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--json":
			parsed.JSON = true
		case arg == "-q" || arg == "--quiet":
			parsed.Quiet = true
		case arg == "--backend":
			if i+1 >= len(args) {
				return parsed, fmt.Errorf("--backend requires a URL")
			}
			i++
			parsed.BackendURL = args[i]
		case strings.HasPrefix(arg, "--backend="):
			parsed.BackendURL = strings.TrimPrefix(arg, "--backend=")
		case arg == "--config":
			if i+1 >= len(args) {
				return parsed, fmt.Errorf("--config requires a path")
			}
			i++
			parsed.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "-h" || arg == "--help":
			parsed.Command = CmdHelp
			return parsed, nil
		case arg == "-V" || arg == "--version":
			parsed.Command = CmdVersion
			return parsed, nil
		case strings.HasPrefix(arg, "-"):
			return parsed, fmt.Errorf("unknown flag: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return parsed, nil
	}

	switch positional[0] {
	case "tui":
		parsed.Command = CmdTUI
	case "chat":
		parsed.Command = CmdChat
	case "sessions":
		parsed.Command = CmdSessions
	case "models":
		parsed.Command = CmdModels
	case "reset":
		parsed.Command = CmdReset
	case "version":
		parsed.Command = CmdVersion
	case "help":
		parsed.Command = CmdHelp
	default:
		return parsed, fmt.Errorf("unknown command: %s", positional[0])
	}

	if len(positional) > 1 {
		parsed.Sub = positional[1]
		parsed.SubArgs = positional[2:]
	}
	return parsed, nil
}

// PrintVersion writes the version block.
func PrintVersion() {
	fmt.Printf("echo %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
	fmt.Printf("  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// PrintUsage writes the top-level help text.
func PrintUsage() {
	fmt.Print(`echo - terminal chat client for the Echo backend

Usage:
  echo [command] [flags]

Commands:
  tui                    Open the full-screen chat interface (default)
  chat                   Line-mode chat without the full-screen UI
  sessions list          List saved sessions
  sessions export <id>   Export a session as Markdown (--json for JSON)
  sessions search <q>    Search archived messages
  sessions rename <id> <name>
                         Rename a session
  sessions delete <id>   Delete a session
  sessions clear         Delete all sessions
  models list            List registered models
  models add             Register a model (interactive)
  models remove <id>     Unregister a model
  reset                  Clear all local sessions and backend state
  version                Print version information
  help                   Show this help

Flags:
      --backend URL      Backend base URL (overrides config)
      --config PATH      Config file path
      --json             Machine-readable output where supported
  -q, --quiet            Minimal output
  -h, --help             Show help
  -V, --version          Print version

Examples:
  echo                           Open the TUI
  echo chat --backend http://localhost:9000
  echo sessions search "regression"
  echo models add
`)
}
