// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the controller that sequences one chat turn:
// credential resolution, system-prompt priming, context injection, history
// mutation, and provider dispatch.
package chat

import (
	"context"
	"sync"

	"github.com/jeranaias/refchat/internal/catalog"
	"github.com/jeranaias/refchat/internal/llm"
	"github.com/jeranaias/refchat/internal/model"
	"github.com/jeranaias/refchat/internal/session"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultSystemPrompt is the system message inserted as the first entry of
// every session.
const DefaultSystemPrompt = "You are a helpful research assistant. " +
	"You answer questions about academic papers and reference documents. " +
	"Be concise and precise, and say so when you are unsure rather than guessing."

// Labels for folding externally supplied context into the user turn.
// These are fixed; ComposeUserContent documents the full template.
const (
	contextLabel  = "Selected PDF text:\n"
	questionLabel = "\n\nUser questions:\n"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Completer dispatches one completion request. *llm.Client satisfies it;
// tests substitute stubs.
type Completer interface {
	Complete(ctx context.Context, r llm.Request) (string, error)
}

// CredentialSource resolves the API key for a provider. Implementations
// return *llm.ConfigError when the key is required and absent. The
// controller never reads environment or configuration directly.
type CredentialSource interface {
	APIKey(p catalog.Provider) (string, error)
}

// ContextSource supplies externally selected text (for example, the
// current selection in a document viewer). Implementations must never
// fail: internal errors are swallowed and reported as empty context.
type ContextSource interface {
	SelectedText(ctx context.Context) string
}

// noContext is the default ContextSource: always empty.
type noContext struct{}

func (noContext) SelectedText(context.Context) string { return "" }

// =============================================================================
// CONTROLLER
// =============================================================================

// SendRequest is one chat turn as submitted by a presentation layer.
type SendRequest struct {
	SessionID string
	Provider  catalog.Provider
	Model     string
	Text      string
}

// Controller orchestrates chat turns against the session store and the
// completion client. It owns the per-session ordering invariants: the
// system prompt is always the first message, and sends to the same session
// are serialized so transcripts never interleave.
type Controller struct {
	store       *session.Store
	completer   Completer
	credentials CredentialSource
	contextSrc  ContextSource
	prompt      string

	// mu guards sessionLocks; each session's lock serializes Send calls
	// for that session while leaving other sessions free to proceed.
	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

// NewController creates a controller over the given collaborators.
func NewController(store *session.Store, completer Completer, credentials CredentialSource) *Controller {
	return &Controller{
		store:        store,
		completer:    completer,
		credentials:  credentials,
		contextSrc:   noContext{},
		prompt:       DefaultSystemPrompt,
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

// WithContextSource sets the external context source.
func (c *Controller) WithContextSource(src ContextSource) *Controller {
	if src != nil {
		c.contextSrc = src
	}
	return c
}

// WithSystemPrompt overrides the default system prompt for new sessions.
func (c *Controller) WithSystemPrompt(prompt string) *Controller {
	if prompt != "" {
		c.prompt = prompt
	}
	return c
}

// sessionLock returns the mutex serializing sends for one session.
// Locks are created lazily and retained for the life of the controller.
func (c *Controller) sessionLock(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.sessionLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.sessionLocks[id] = lock
	}
	return lock
}

// =============================================================================
// SEND
// =============================================================================

// Send performs one end-to-end chat turn and returns the assistant's reply.
//
// Sequence: resolve the credential, prime the session with the system
// prompt if it is empty, fetch optional selected-text context, append the
// (possibly context-augmented) user turn, dispatch the full transcript to
// the provider, append and return the reply.
//
// On a completion failure the error propagates unwrapped and the user turn
// stays in the transcript with no assistant entry: a failed call still
// records that the user asked something, so a resend reuses the history.
func (c *Controller) Send(ctx context.Context, req SendRequest) (string, error) {
	lock := c.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	apiKey, err := c.credentials.APIKey(req.Provider)
	if err != nil {
		return "", err
	}

	// Prime with the system prompt exactly once per session lifetime.
	// The emptiness check is the intended guard, not an incidental one: a
	// reset empties the session, and the next send re-primes it.
	if len(c.store.Get(req.SessionID)) == 0 {
		c.store.Append(req.SessionID, model.NewSystemMessage(c.prompt))
	}

	selected := c.contextSrc.SelectedText(ctx)
	c.store.Append(req.SessionID, model.NewUserMessage(ComposeUserContent(selected, req.Text)))

	// The entire transcript is sent every time; no windowing.
	reply, err := c.completer.Complete(ctx, llm.Request{
		Provider: req.Provider,
		APIKey:   apiKey,
		Model:    req.Model,
		Messages: c.store.Get(req.SessionID),
	})
	if err != nil {
		return "", err
	}

	c.store.Append(req.SessionID, model.NewAssistantMessage(reply))
	return reply, nil
}

// ComposeUserContent builds the effective user message content. With
// non-empty selected context the template is
//
//	"Selected PDF text:\n" + selected + "\n\nUser questions:\n" + text
//
// and with empty context the text passes through unchanged.
func ComposeUserContent(selected, text string) string {
	if selected == "" {
		return text
	}
	return contextLabel + selected + questionLabel + text
}

// =============================================================================
// SESSION / CATALOG PASS-THROUGH
// =============================================================================

// History returns a snapshot of the session transcript.
func (c *Controller) History(sessionID string) []model.Message {
	return c.store.Get(sessionID)
}

// ResetSession deletes the session's history. The next Send re-primes the
// session with the system prompt.
//
// The session's lock entry is dropped along with the transcript so a
// long-running process does not accumulate one mutex per session ID ever
// seen. The lock is an ordering aid only; a Send racing the reset may
// finish under the old lock, which is no worse than it finishing before
// the reset.
func (c *Controller) ResetSession(sessionID string) {
	c.store.Reset(sessionID)

	c.mu.Lock()
	delete(c.sessionLocks, sessionID)
	c.mu.Unlock()
}

// SessionIDs returns the live session identifiers in sorted order.
func (c *Controller) SessionIDs() []string {
	return c.store.IDs()
}

// Models returns the static provider/model catalog for selection UIs.
func (c *Controller) Models() []catalog.ProviderInfo {
	return catalog.List()
}
