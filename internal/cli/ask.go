// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question handler.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/refchat/internal/catalog"
	"github.com/jeranaias/refchat/internal/chat"
	"github.com/jeranaias/refchat/internal/llm"
)

// HandleAsk sends a single question through the controller and prints
// the reply. It uses a throwaway session so nothing lingers afterwards.
func HandleAsk(w io.Writer, controller *chat.Controller, provider catalog.Provider, model, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("ask: empty question")
	}

	reply, err := controller.Send(context.Background(), chat.SendRequest{
		SessionID: uuid.NewString(),
		Provider:  provider,
		Model:     model,
		Text:      query,
	})
	if err != nil {
		return describeError(err)
	}

	fmt.Fprintln(w, reply)
	return nil
}

// describeError rewraps provider errors with a short actionable hint.
func describeError(err error) error {
	var cfgErr *llm.ConfigError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("%w\nhint: set %s or add the key to ~/.refchat/config.toml", err, keyEnvHint(cfgErr.Provider))
	}

	var httpErr *llm.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 401 || httpErr.StatusCode == 403 {
			return fmt.Errorf("%w\nhint: the API key was rejected; check %s", err, keyEnvHint(httpErr.Provider))
		}
		if httpErr.StatusCode == 429 {
			return fmt.Errorf("%w\nhint: rate limited; wait a moment and retry", err)
		}
	}
	return err
}

func keyEnvHint(p catalog.Provider) string {
	switch p {
	case catalog.OpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}
