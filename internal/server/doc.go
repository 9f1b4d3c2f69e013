// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the chat controller over a localhost JSON API.
//
// The server is a thin host-integration boundary: request validation,
// JSON mapping, and status codes. All chat semantics live in the chat
// controller.
//
// # Error mapping
//
//   - llm.ConfigError            -> 400 configuration_error
//   - llm.HTTPError              -> 502 provider_error
//   - llm.MalformedResponseError -> 502 malformed_response
//   - anything else              -> 500 internal_error
package server
