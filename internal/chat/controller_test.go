// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/refchat/internal/catalog"
	"github.com/jeranaias/refchat/internal/llm"
	"github.com/jeranaias/refchat/internal/model"
	"github.com/jeranaias/refchat/internal/session"
)

// stubCompleter returns canned replies or a canned error, recording every
// request it sees.
type stubCompleter struct {
	mu       sync.Mutex
	requests []llm.Request
	reply    string
	err      error
}

func (s *stubCompleter) Complete(_ context.Context, r llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubCompleter) lastRequest(t *testing.T) llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests)
	return s.requests[len(s.requests)-1]
}

// stubCredentials resolves every provider to one key, or fails.
type stubCredentials struct {
	key string
	err error
}

func (s stubCredentials) APIKey(catalog.Provider) (string, error) {
	return s.key, s.err
}

// stubContext returns fixed selected text.
type stubContext struct{ text string }

func (s stubContext) SelectedText(context.Context) string { return s.text }

func newTestController(completer Completer) *Controller {
	return NewController(session.NewStore(), completer, stubCredentials{key: "sk-test"})
}

func TestSendPrimesAndAppendsTranscript(t *testing.T) {
	completer := &stubCompleter{reply: "X is ..."}
	ctl := newTestController(completer)

	reply, err := ctl.Send(context.Background(), SendRequest{
		SessionID: "s1",
		Provider:  catalog.OpenAI,
		Model:     "gpt-4o-mini",
		Text:      "What is X?",
	})
	require.NoError(t, err)
	assert.Equal(t, "X is ...", reply)

	transcript := ctl.History("s1")
	require.Len(t, transcript, 3)
	assert.Equal(t, model.NewSystemMessage(DefaultSystemPrompt), transcript[0])
	assert.Equal(t, model.NewUserMessage("What is X?"), transcript[1])
	assert.Equal(t, model.NewAssistantMessage("X is ..."), transcript[2])

	// The full transcript was dispatched, system prompt included.
	sent := completer.lastRequest(t)
	assert.Equal(t, catalog.OpenAI, sent.Provider)
	assert.Equal(t, "sk-test", sent.APIKey)
	assert.Equal(t, "gpt-4o-mini", sent.Model)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, model.RoleSystem, sent.Messages[0].Role)
	assert.Equal(t, model.RoleUser, sent.Messages[1].Role)
}

func TestSendPrimesOnlyOnce(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	ctl := newTestController(completer)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := ctl.Send(ctx, SendRequest{SessionID: "s1", Provider: catalog.OpenAI, Model: "gpt-4o-mini", Text: text})
		require.NoError(t, err)
	}

	transcript := ctl.History("s1")
	require.Len(t, transcript, 7)
	assert.Equal(t, model.RoleSystem, transcript[0].Role)
	for i, msg := range transcript[1:] {
		// Alternating user/assistant after the system prompt; a system
		// message never appears at a non-zero index.
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, msg.Role)
		} else {
			assert.Equal(t, model.RoleAssistant, msg.Role)
		}
	}
}

func TestSendFailureKeepsUserTurn(t *testing.T) {
	completer := &stubCompleter{reply: "X is ..."}
	ctl := newTestController(completer)
	ctx := context.Background()

	_, err := ctl.Send(ctx, SendRequest{SessionID: "s1", Provider: catalog.OpenAI, Model: "gpt-4o-mini", Text: "What is X?"})
	require.NoError(t, err)

	// Provider now fails with HTTP 500.
	completer.err = &llm.HTTPError{
		Provider:   catalog.OpenAI,
		StatusCode: http.StatusInternalServerError,
		Status:     "500 Internal Server Error",
	}
	_, err = ctl.Send(ctx, SendRequest{SessionID: "s1", Provider: catalog.OpenAI, Model: "gpt-4o-mini", Text: "And Y?"})

	var httpErr *llm.HTTPError
	require.ErrorAs(t, err, &httpErr, "the provider error propagates unwrapped")

	transcript := ctl.History("s1")
	require.Len(t, transcript, 4)
	assert.Equal(t, model.RoleSystem, transcript[0].Role)
	assert.Equal(t, "What is X?", transcript[1].Content)
	assert.Equal(t, "X is ...", transcript[2].Content)
	assert.Equal(t, model.NewUserMessage("And Y?"), transcript[3], "failed turn keeps the user entry, no assistant entry")
}

func TestSendCredentialErrorLeavesSessionUntouched(t *testing.T) {
	ctl := NewController(session.NewStore(), &stubCompleter{reply: "ok"}, stubCredentials{
		err: &llm.ConfigError{Provider: catalog.OpenAI, Reason: "missing API key"},
	})

	_, err := ctl.Send(context.Background(), SendRequest{SessionID: "s1", Provider: catalog.OpenAI, Model: "gpt-4o-mini", Text: "hi"})

	var cfgErr *llm.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, ctl.History("s1"), "credential failure happens before any session mutation")
}

func TestResetRePrimes(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	ctl := newTestController(completer)
	ctx := context.Background()

	_, err := ctl.Send(ctx, SendRequest{SessionID: "s1", Provider: catalog.OpenAI, Model: "gpt-4o-mini", Text: "hi"})
	require.NoError(t, err)

	ctl.ResetSession("s1")
	assert.Empty(t, ctl.History("s1"))

	_, err = ctl.Send(ctx, SendRequest{SessionID: "s1", Provider: catalog.OpenAI, Model: "gpt-4o-mini", Text: "again"})
	require.NoError(t, err)

	transcript := ctl.History("s1")
	require.Len(t, transcript, 3)
	assert.Equal(t, model.RoleSystem, transcript[0].Role, "reset then send re-primes the system prompt")
}

func TestComposeUserContent(t *testing.T) {
	assert.Equal(t, "Explain", ComposeUserContent("", "Explain"))

	got := ComposeUserContent("Figure 3 shows...", "Explain")
	want := "Selected PDF text:\nFigure 3 shows...\n\nUser questions:\nExplain"
	assert.Equal(t, want, got)
}

func TestSendFoldsSelectedContext(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	ctl := newTestController(completer).WithContextSource(stubContext{text: "Figure 3 shows..."})

	_, err := ctl.Send(context.Background(), SendRequest{SessionID: "s1", Provider: catalog.OpenRouter, Model: "anthropic/claude-3-haiku", Text: "Explain"})
	require.NoError(t, err)

	transcript := ctl.History("s1")
	require.Len(t, transcript, 3)
	assert.Equal(t, "Selected PDF text:\nFigure 3 shows...\n\nUser questions:\nExplain", transcript[1].Content)
}

func TestConcurrentSendsToOneSessionDoNotInterleave(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	ctl := newTestController(completer)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ctl.Send(ctx, SendRequest{SessionID: "s1", Provider: catalog.OpenAI, Model: "gpt-4o-mini", Text: "q"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	transcript := ctl.History("s1")
	require.Len(t, transcript, 41) // system + 20 * (user, assistant)
	assert.Equal(t, model.RoleSystem, transcript[0].Role)
	for i := 1; i < len(transcript); i += 2 {
		assert.Equal(t, model.RoleUser, transcript[i].Role)
		assert.Equal(t, model.RoleAssistant, transcript[i+1].Role)
	}
}

func TestModels(t *testing.T) {
	ctl := newTestController(&stubCompleter{reply: "ok"})
	providers := ctl.Models()
	require.Len(t, providers, 2)
	assert.Equal(t, catalog.OpenAI, providers[0].Provider)
}

func TestResetSessionDropsLockEntry(t *testing.T) {
	ctl := newTestController(&stubCompleter{reply: "ok"})

	_, err := ctl.Send(context.Background(), SendRequest{
		SessionID: "s1",
		Provider:  catalog.OpenAI,
		Model:     "gpt-4o-mini",
		Text:      "hello",
	})
	require.NoError(t, err)

	ctl.mu.Lock()
	require.Len(t, ctl.sessionLocks, 1)
	ctl.mu.Unlock()

	ctl.ResetSession("s1")

	ctl.mu.Lock()
	assert.Empty(t, ctl.sessionLocks)
	ctl.mu.Unlock()

	// The session still works after the lock entry is gone.
	_, err = ctl.Send(context.Background(), SendRequest{
		SessionID: "s1",
		Provider:  catalog.OpenAI,
		Model:     "gpt-4o-mini",
		Text:      "again",
	})
	require.NoError(t, err)
	assert.Len(t, ctl.History("s1"), 3)
}

func TestSessionIDs(t *testing.T) {
	ctl := newTestController(&stubCompleter{reply: "ok"})

	for _, id := range []string{"b", "a"} {
		_, err := ctl.Send(context.Background(), SendRequest{
			SessionID: id,
			Provider:  catalog.OpenAI,
			Model:     "gpt-4o-mini",
			Text:      "hello",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b"}, ctl.SessionIDs())
}
