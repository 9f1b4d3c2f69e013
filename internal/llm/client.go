// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm implements the provider-agnostic chat-completion client.
//
// Both supported providers (OpenAI and OpenRouter) speak the same
// chat-completions wire format; this package encapsulates the per-provider
// endpoint and header differences behind a single Complete call so callers
// stay provider-blind.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jeranaias/refchat/internal/catalog"
	"github.com/jeranaias/refchat/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTemperature is the sampling temperature used when a request
	// does not specify one.
	DefaultTemperature = 0.2

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// userAgent identifies refchat to the provider.
	userAgent = "refchat/0.1.0"

	// OpenRouter attribution headers. Optional, cosmetic: OpenRouter uses
	// them to attribute traffic in dashboards.
	attributionReferer = "https://github.com/jeranaias/refchat"
	attributionTitle   = "refchat"
)

// =============================================================================
// ERRORS
// =============================================================================

// ConfigError indicates the request could not be attempted because of
// missing or invalid configuration. No network call is made.
type ConfigError struct {
	Provider catalog.Provider
	Reason   string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Provider, e.Reason)
}

// HTTPError indicates the provider answered with a non-2xx status.
type HTTPError struct {
	Provider   catalog.Provider
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("chat completion failed (%s): %s: %s", e.Provider, e.Status, e.Body)
	}
	return fmt.Sprintf("chat completion failed (%s): %s", e.Provider, e.Status)
}

// MalformedResponseError indicates a 2xx response whose body did not
// contain a usable assistant message.
type MalformedResponseError struct {
	Provider catalog.Provider
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("invalid chat completion response from %s", e.Provider)
}

// =============================================================================
// REQUEST / WIRE TYPES
// =============================================================================

// Request holds everything needed for one completion call. It is
// constructed per call and not retained by the client.
type Request struct {
	Provider catalog.Provider
	APIKey   string
	Model    string
	Messages []model.Message

	// Temperature is the sampling temperature. Zero means "use
	// DefaultTemperature".
	Temperature float64
}

// chatRequest is the JSON request body for the chat completions endpoint.
type chatRequest struct {
	Model       string          `json:"model"`
	Messages    []model.Message `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// chatResponse is the JSON response body. Only the fields the client
// extracts are declared; providers send more.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues non-streaming chat-completion requests. It is stateless
// between calls: no retries, no caching, no cross-call memory. The zero
// timeout is intentional; cancellation is governed by the caller's context.
type Client struct {
	httpClient *http.Client

	// baseOverrides replaces a provider's fixed endpoint, for tests.
	baseOverrides map[catalog.Provider]string
}

// NewClient creates a new completion client.
func NewClient() *Client {
	return &Client{
		httpClient:    &http.Client{},
		baseOverrides: make(map[catalog.Provider]string),
	}
}

// WithHTTPClient sets a custom HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithBaseURL overrides the base URL for a provider. Intended for tests;
// production endpoints are fixed in the catalog.
func (c *Client) WithBaseURL(p catalog.Provider, url string) *Client {
	c.baseOverrides[p] = strings.TrimSuffix(url, "/")
	return c
}

// baseURL resolves the effective base URL for a provider.
func (c *Client) baseURL(p catalog.Provider) string {
	if override, ok := c.baseOverrides[p]; ok {
		return override
	}
	return catalog.BaseURL(p)
}

// setHeaders sets the headers for a completion request. All providers use
// bearer-token authorization; OpenRouter additionally receives the
// attribution headers it recommends.
func setHeaders(req *http.Request, provider catalog.Provider, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if provider == catalog.OpenRouter {
		req.Header.Set("HTTP-Referer", attributionReferer)
		req.Header.Set("X-Title", attributionTitle)
	}
}

// Complete sends one chat-completion request and returns the assistant's
// reply text verbatim.
//
// Failure modes, in detection order:
//   - *ConfigError for a missing API key or unknown provider, before any
//     network I/O
//   - *HTTPError for a non-2xx response, carrying status and a best-effort
//     body snippet
//   - *MalformedResponseError for a 2xx response with no usable content
func (c *Client) Complete(ctx context.Context, r Request) (string, error) {
	if strings.TrimSpace(r.APIKey) == "" {
		return "", &ConfigError{Provider: r.Provider, Reason: "missing API key"}
	}
	if !catalog.Known(r.Provider) {
		return "", &ConfigError{Provider: r.Provider, Reason: "unsupported provider"}
	}

	temperature := r.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	bodyBytes, err := json.Marshal(chatRequest{
		Model:       r.Model,
		Messages:    r.Messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL(r.Provider) + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	setHeaders(req, r.Provider, r.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed (%s): %w", r.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Best-effort body read for diagnostics: a read failure yields an
		// empty body string rather than masking the HTTP error.
		body, readErr := readResponse(resp)
		if readErr != nil {
			body = nil
		}
		return "", &HTTPError{
			Provider:   r.Provider,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := readResponse(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read response (%s): %w", r.Provider, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &MalformedResponseError{Provider: r.Provider}
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", &MalformedResponseError{Provider: r.Provider}
	}

	// Verbatim: no trimming or transformation of the reply.
	return chatResp.Choices[0].Message.Content, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
