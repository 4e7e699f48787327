package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// openaiClient implements Client against any OpenAI-compatible chat
// completion endpoint (OpenAI itself, Groq, local inference servers).
type openaiClient struct {
	client   *openai.Client
	provider string
}

// NewOpenAICompatible creates a Client for an OpenAI-compatible endpoint.
// An empty baseURL uses the OpenAI default.
func NewOpenAICompatible(apiKey, baseURL string) Client {
	cfg := openai.DefaultConfig(apiKey)
	provider := ProviderOpenAI
	if baseURL != "" {
		cfg.BaseURL = baseURL
		if baseURL == GroqBaseURL {
			provider = ProviderGroq
		}
	}
	return &openaiClient{client: openai.NewClientWithConfig(cfg), provider: provider}
}

func (c *openaiClient) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: chat completion")
	}
	latency := time.Since(start)

	if len(resp.Choices) == 0 {
		return nil, eris.New("llm: chat completion returned no choices")
	}

	result := &Result{
		Text:    resp.Choices[0].Message.Content,
		Latency: latency,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}
	logGeneration(c.provider, req.Model, result)
	return result, nil
}
