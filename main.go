// refchat - chat with an AI assistant about your reference documents.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/refchat/internal/catalog"
	chatctl "github.com/jeranaias/refchat/internal/chat"
	"github.com/jeranaias/refchat/internal/cli"
	"github.com/jeranaias/refchat/internal/config"
	"github.com/jeranaias/refchat/internal/llm"
	"github.com/jeranaias/refchat/internal/selection"
	"github.com/jeranaias/refchat/internal/server"
	"github.com/jeranaias/refchat/internal/session"
	uichat "github.com/jeranaias/refchat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse()
	if err != nil {
		fatal(err)
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdModels:
		cli.HandleModels(os.Stdout)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	applyArgOverrides(cfg, args)
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	controller := buildController(cfg)
	provider := catalog.Provider(cfg.DefaultProvider)
	modelName := cfg.DefaultModel
	if modelName == "" {
		modelName = catalog.DefaultModel(provider)
	}

	switch cmd {
	case cli.CmdTUI:
		runTUI(controller, provider, modelName, cfg.UI.Markdown)

	case cli.CmdAsk:
		if err := cli.HandleAsk(os.Stdout, controller, provider, modelName, args.Query); err != nil {
			fatal(err)
		}

	case cli.CmdServe:
		runServer(controller, cfg.Server.Port)

	case cli.CmdConfig:
		if err := cli.HandleConfig(os.Stdout, cfg, args.Subcommand); err != nil {
			fatal(err)
		}
	}
}

// applyArgOverrides lets CLI flags win over file and environment config.
func applyArgOverrides(cfg *config.Config, args *cli.Args) {
	if args.Provider != "" {
		cfg.DefaultProvider = args.Provider
		// A provider switch without an explicit model would otherwise
		// keep the old provider's model ID.
		if args.Model == "" {
			cfg.DefaultModel = catalog.DefaultModel(catalog.Provider(args.Provider))
		}
	}
	if args.Model != "" {
		cfg.DefaultModel = args.Model
	}
	if args.Port > 0 {
		cfg.Server.Port = args.Port
	}
}

// buildController wires the completion client, credential source, and
// selection context into a chat controller over a fresh in-memory store.
func buildController(cfg *config.Config) *chatctl.Controller {
	controller := chatctl.NewController(
		session.NewStore(),
		llm.NewClient(),
		config.NewCredentials(cfg),
	)
	if cfg.Context.SelectionFile != "" {
		controller = controller.WithContextSource(selection.NewFileSource(cfg.Context.SelectionFile))
	}
	return controller
}

func runTUI(controller *chatctl.Controller, provider catalog.Provider, modelName string, markdown bool) {
	m := uichat.New(controller, provider, modelName, markdown)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func runServer(controller *chatctl.Controller, port int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(controller, port)
	if err := srv.Start(ctx); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "refchat: %v\n", err)
	os.Exit(1)
}
