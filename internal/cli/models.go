// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - the "echo models" command family.
//
// Command: models
// Short:   Inspect and manage the backend model registry
//
// Examples:
//   echo models list
//   echo models add
//   echo models remove anthropic_2
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/echoml/echo-tui/internal/model"
	"github.com/echoml/echo-tui/internal/transport"
)

// RunModels dispatches the models subcommands against the backend.
func RunModels(client *transport.Client, args Args) error {
	ctx := context.Background()
	switch args.Sub {
	case "", "list":
		return listModels(ctx, client, args)
	case "add":
		return addModel(ctx, client, args)
	case "remove":
		return removeModel(ctx, client, args)
	default:
		return fmt.Errorf("unknown models subcommand: %s", args.Sub)
	}
}

func listModels(ctx context.Context, client *transport.Client, args Args) error {
	models, err := client.FetchModels(ctx)
	if err != nil {
		return fmt.Errorf("backend at %s is unreachable: %w", client.BaseURL(), err)
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(models)
	}
	if len(models) == 0 {
		fmt.Println(infoStyle.Render("No models registered. Run echo models add."))
		return nil
	}

	fmt.Println(headerStyle.Render("Models"))
	for _, m := range models {
		builtin := ""
		if m.Builtin() {
			builtin = labelStyle.Render("  (builtin)")
		}
		fmt.Printf("  %s  %s%s\n", m.Name, labelStyle.Render(m.ID), builtin)
		fmt.Printf("    %s\n", infoStyle.Render(
			m.Type.DisplayName()+", "+m.ModelIdentifier))
	}
	return nil
}

// addModel walks through registration interactively. The API key is
// read without echo and sent once; it never lands in history or state.
func addModel(ctx context.Context, client *transport.Client, args Args) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	name, err := promptRequired(line, "Display name: ")
	if err != nil {
		return err
	}

	providerInput, err := promptRequired(line, "Provider (anthropic/huggingface): ")
	if err != nil {
		return err
	}
	provider := model.ProviderType(strings.ToLower(providerInput))
	if !provider.Valid() {
		return fmt.Errorf("unknown provider: %s", providerInput)
	}

	identifier, err := promptRequired(line, "Model identifier: ")
	if err != nil {
		return err
	}

	draft := model.Model{
		Name:            name,
		Type:            provider,
		ModelIdentifier: identifier,
	}

	if provider.RequiresAPIKey() {
		fmt.Print("API key: ")
		key, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("read API key: %w", err)
		}
		draft.APIKey = strings.TrimSpace(string(key))

		if org, _ := line.Prompt("Organization (optional): "); strings.TrimSpace(org) != "" {
			draft.Organization = strings.TrimSpace(org)
		}
		if proj, _ := line.Prompt("Project ID (optional): "); strings.TrimSpace(proj) != "" {
			draft.ProjectID = strings.TrimSpace(proj)
		}
	}

	registered, err := client.RegisterModel(ctx, draft)
	if err != nil {
		if transport.IsValidation(err) {
			return fmt.Errorf("invalid model: %w", err)
		}
		return fmt.Errorf("register model: %w", err)
	}

	if !args.Quiet {
		fmt.Println(okStyle.Render("Registered ") + registered.Name +
			labelStyle.Render("  "+registered.ID))
	}
	return nil
}

func removeModel(ctx context.Context, client *transport.Client, args Args) error {
	if len(args.SubArgs) == 0 {
		return fmt.Errorf("usage: echo models remove <id>")
	}
	id := args.SubArgs[0]

	if err := client.UnregisterModel(ctx, id); err != nil {
		if transport.IsValidation(err) {
			return fmt.Errorf("cannot remove %s: %w", id, err)
		}
		return fmt.Errorf("unregister model: %w", err)
	}
	if !args.Quiet {
		fmt.Println(okStyle.Render("Removed ") + id)
	}
	return nil
}

func promptRequired(line *liner.State, prompt string) (string, error) {
	for {
		value, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				return "", fmt.Errorf("aborted")
			}
			return "", err
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value, nil
		}
		fmt.Println(warnStyle.Render("A value is required."))
	}
}
