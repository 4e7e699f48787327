package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// Client is the generation provider boundary: one prompt in, one text
// blob out, plus the measured wall-clock latency of the call.
type Client interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Request is a single generation request.
type Request struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// Result is the provider's response.
type Result struct {
	Text    string
	Latency time.Duration
	Usage   Usage
}

// Usage reports token consumption for cost attribution.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Provider names accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
)

// New creates a Client for the named provider. Groq and OpenAI share the
// same wire protocol; baseURL selects the endpoint (empty means the
// provider's default).
func New(provider, apiKey, baseURL string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropic(apiKey), nil
	case ProviderGroq:
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAICompatible(apiKey, baseURL), nil
	case ProviderOpenAI:
		return NewOpenAICompatible(apiKey, baseURL), nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", provider)
	}
}
