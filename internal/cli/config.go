// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config inspection commands.
package cli

import (
	"fmt"
	"io"

	"github.com/jeranaias/refchat/internal/config"
)

// HandleConfig handles `refchat config [show|path]`.
func HandleConfig(w io.Writer, cfg *config.Config, subcommand string) error {
	switch subcommand {
	case "", "show":
		fmt.Fprintf(w, "provider:       %s\n", cfg.DefaultProvider)
		fmt.Fprintf(w, "model:          %s\n", cfg.DefaultModel)
		fmt.Fprintf(w, "selection file: %s\n", orUnset(cfg.Context.SelectionFile))
		fmt.Fprintf(w, "server port:    %d\n", cfg.Server.Port)
		fmt.Fprintf(w, "markdown:       %t\n", cfg.UI.Markdown)
		fmt.Fprintf(w, "openai key:     %s\n", maskKey(cfg.Providers.OpenAI.APIKey))
		fmt.Fprintf(w, "openrouter key: %s\n", maskKey(cfg.Providers.OpenRouter.APIKey))
		return nil

	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil

	default:
		return fmt.Errorf("config: unknown subcommand %q (want show or path)", subcommand)
	}
}

// maskKey shows only enough of a key to identify it.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
