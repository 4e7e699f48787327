package llm

import (
	"context"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// anthropicClient implements Client using the official anthropic-sdk-go.
type anthropicClient struct {
	client sdk.Client
}

// NewAnthropic creates an Anthropic-backed Client. Extra request options
// (custom base URL, HTTP client) are passed through to the SDK.
func NewAnthropic(apiKey string, opts ...option.RequestOption) Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &anthropicClient{client: sdk.NewClient(opts...)}
}

func (c *anthropicClient) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: anthropic create message")
	}
	latency := time.Since(start)

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	result := &Result{
		Text:    text.String(),
		Latency: latency,
		Usage: Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
		},
	}
	logGeneration("anthropic", req.Model, result)
	return result, nil
}

func logGeneration(provider, model string, r *Result) {
	zap.L().Debug("generation complete",
		zap.String("provider", provider),
		zap.String("model", model),
		zap.Duration("latency", r.Latency),
		zap.Int("prompt_tokens", r.Usage.PromptTokens),
		zap.Int("completion_tokens", r.Usage.CompletionTokens),
	)
}
