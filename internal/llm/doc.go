// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm implements the provider-agnostic chat-completion client.
//
// # Key Types
//
//   - Client: stateless non-streaming completion client
//   - Request: one completion call (provider, key, model, transcript)
//   - ConfigError, HTTPError, MalformedResponseError: the error taxonomy
//
// # Usage
//
//	client := llm.NewClient()
//	reply, err := client.Complete(ctx, llm.Request{
//	    Provider: catalog.OpenAI,
//	    APIKey:   key,
//	    Model:    "gpt-4o-mini",
//	    Messages: transcript,
//	})
//
// The client performs exactly one request/response round trip per call:
// no retries, no streaming, no client-side timeout. Use the context to
// bound or cancel a call.
package llm
