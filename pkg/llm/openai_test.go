package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompatibleGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		assert.Equal(t, 1000, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "print 5", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "` + "```" + `cpp\\nint main() {}\\n` + "```" + `"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46}
		}`))
	}))
	defer srv.Close()

	c := NewOpenAICompatible("test-key", srv.URL)
	result, err := c.Generate(context.Background(), Request{
		Model:     "llama-3.3-70b-versatile",
		Prompt:    "print 5",
		MaxTokens: 1000,
	})
	require.NoError(t, err)

	assert.Contains(t, result.Text, "int main() {}")
	assert.Equal(t, 12, result.Usage.PromptTokens)
	assert.Equal(t, 34, result.Usage.CompletionTokens)
	assert.Greater(t, result.Latency.Nanoseconds(), int64(0))
}

func TestOpenAICompatibleNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-1", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	c := NewOpenAICompatible("test-key", srv.URL)
	_, err := c.Generate(context.Background(), Request{Model: "m", Prompt: "p", MaxTokens: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAICompatibleAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompatible("bad-key", srv.URL)
	_, err := c.Generate(context.Background(), Request{Model: "m", Prompt: "p", MaxTokens: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm: chat completion")
}
