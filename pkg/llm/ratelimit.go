package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// limited throttles an inner Client to a requests-per-minute ceiling.
// Hosted inference APIs enforce RPM quotas; waiting locally is cheaper
// than burning an attempt on a 429.
type limited struct {
	inner Client
	lim   *rate.Limiter
}

// Limited wraps client with an RPM limiter. rpm <= 0 disables limiting.
func Limited(client Client, rpm int) Client {
	if rpm <= 0 {
		return client
	}
	return &limited{
		inner: client,
		lim:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

func (l *limited) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := l.lim.Wait(ctx); err != nil {
		return nil, err
	}
	return l.inner.Generate(ctx, req)
}
