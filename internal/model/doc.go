// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages.
//
// # Key Types
//
//   - Role: message sender (system, user, assistant)
//   - Message: a single transcript entry, immutable once created
//
// Messages serialize to the chat-completions wire format used by
// OpenAI-compatible providers, so the same value flows from the session
// store into provider request bodies without conversion.
package model
