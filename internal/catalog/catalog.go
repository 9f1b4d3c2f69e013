// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog defines the closed set of chat-completion providers and
// the static model catalog exposed to selection UIs.
package catalog

// =============================================================================
// PROVIDER TYPE
// =============================================================================

// Provider identifies an external chat-completion service.
// The set is closed; adding a provider means adding a constant here,
// a base URL, and a catalog entry.
type Provider string

const (
	// OpenAI is the OpenAI platform API.
	OpenAI Provider = "openai"

	// OpenRouter is the OpenRouter aggregation API.
	OpenRouter Provider = "openrouter"
)

// String returns the provider identifier.
func (p Provider) String() string {
	return string(p)
}

// Known reports whether p is a supported provider.
func Known(p Provider) bool {
	_, ok := baseURLs[p]
	return ok
}

// baseURLs maps each provider to its fixed API base URL.
// Endpoints are not configurable at runtime.
var baseURLs = map[Provider]string{
	OpenAI:     "https://api.openai.com/v1",
	OpenRouter: "https://openrouter.ai/api/v1",
}

// BaseURL returns the fixed API base URL for a provider, or "" if the
// provider is unknown.
func BaseURL(p Provider) string {
	return baseURLs[p]
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

// ModelOption pairs a human-friendly label with the provider-specific
// model identifier passed on the wire.
type ModelOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ProviderInfo describes one provider's catalog entry.
type ProviderInfo struct {
	Provider Provider      `json:"provider"`
	Label    string        `json:"label"`
	Models   []ModelOption `json:"models"`
}

// List returns the static model catalog.
//
// The catalog is hardcoded for now; it exists only to populate selection
// UIs. The completion client never consults it for routing.
func List() []ProviderInfo {
	return []ProviderInfo{
		{
			Provider: OpenAI,
			Label:    "OpenAI",
			Models: []ModelOption{
				{Label: "GPT-4o mini", Value: "gpt-4o-mini"},
				{Label: "GPT-4o", Value: "gpt-4o"},
			},
		},
		{
			Provider: OpenRouter,
			Label:    "OpenRouter",
			Models: []ModelOption{
				{Label: "Claude 3.5 Sonnet", Value: "anthropic/claude-3.5-sonnet"},
				{Label: "Claude 3 Haiku", Value: "anthropic/claude-3-haiku"},
			},
		},
	}
}

// DefaultModel returns the first catalog model for a provider, or "" if
// the provider has no entry.
func DefaultModel(p Provider) string {
	for _, info := range List() {
		if info.Provider == p && len(info.Models) > 0 {
			return info.Models[0].Value
		}
	}
	return ""
}
