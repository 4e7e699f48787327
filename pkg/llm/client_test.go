package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnownProviders(t *testing.T) {
	for _, provider := range []string{ProviderAnthropic, ProviderGroq, ProviderOpenAI} {
		c, err := New(provider, "test-key", "")
		require.NoError(t, err, "provider %s", provider)
		assert.NotNil(t, c)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("carrier-pigeon", "key", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "carrier-pigeon"`)
}

// countingClient records calls for limiter tests.
type countingClient struct {
	calls int
}

func (c *countingClient) Generate(_ context.Context, _ Request) (*Result, error) {
	c.calls++
	return &Result{Text: "ok", Latency: time.Millisecond}, nil
}

func TestLimitedDisabledReturnsInner(t *testing.T) {
	inner := &countingClient{}
	assert.Same(t, Client(inner), Limited(inner, 0))
	assert.Same(t, Client(inner), Limited(inner, -1))
}

func TestLimitedPassesThrough(t *testing.T) {
	inner := &countingClient{}
	c := Limited(inner, 6000)

	result, err := c.Generate(context.Background(), Request{Model: "m", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
	assert.Equal(t, 1, inner.calls)
}

func TestLimitedHonorsContextCancellation(t *testing.T) {
	inner := &countingClient{}
	// One request per minute with the burst consumed: the second call
	// must block until the context gives up.
	c := Limited(inner, 1)

	_, err := c.Generate(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Generate(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
