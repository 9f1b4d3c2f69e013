// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog defines the closed set of chat-completion providers and
// the static model catalog exposed to selection UIs.
//
// # Key Types
//
//   - Provider: enumerated provider identifier (openai, openrouter)
//   - ModelOption: display label plus wire model identifier
//   - ProviderInfo: one provider's catalog entry
//
// The catalog is pure data with no failure modes. Base endpoints are fixed
// per provider and not configurable at runtime.
package catalog
