// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and the credential source
// for refchat.
//
// # Key Types
//
//   - Config: the complete refchat configuration
//   - Credentials: chat.CredentialSource backed by the loaded config
//
// # Configuration sources, in order of precedence
//
//   - Environment variables (OPENAI_API_KEY, OPENROUTER_API_KEY,
//     REFCHAT_MODEL, REFCHAT_PROVIDER, REFCHAT_SELECTION_FILE, ...)
//   - ~/.refchat/config.toml
//   - Built-in defaults
package config
