package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameehj/junior/pkg/agent"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	t.Logf("Complete should post system and user messages with bearer auth")
	var got openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "junior/dev", r.Header.Get("User-Agent"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"gpt-4o-mini-2024","choices":[{"message":{"role":"assistant","content":"{\"explanation\":\"ok\",\"actions\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "", WithEndpoint(srv.URL))
	resp, err := c.Complete(context.Background(), agent.CompletionRequest{
		Prompt:    "system text",
		MaxTokens: 300,
		Messages: []agent.CompletionMessage{
			{Role: "user", Content: "context"},
			{Role: "human", Content: "do it"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"explanation":"ok","actions":[]}`, resp.Content)
	assert.Equal(t, "gpt-4o-mini-2024", resp.Model)
	assert.Equal(t, "stop", resp.StopReason)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 300, got.MaxTokens)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, openAIMessage{Role: "system", Content: "system text"}, got.Messages[0])
	assert.Equal(t, openAIMessage{Role: "user", Content: "context"}, got.Messages[1])
	assert.Equal(t, openAIMessage{Role: "user", Content: "do it"}, got.Messages[2])
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "gpt-4o", WithEndpoint(srv.URL))
	_, err := c.Complete(context.Background(), agent.CompletionRequest{Prompt: "p"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", "", WithEndpoint(srv.URL))
	_, err := c.Complete(context.Background(), agent.CompletionRequest{Prompt: "p"})
	assert.ErrorContains(t, err, "empty response")
}

func TestCompleteMissingAPIKey(t *testing.T) {
	c := NewOpenAIClient("", "")
	_, err := c.Complete(context.Background(), agent.CompletionRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
