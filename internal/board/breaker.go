package board

import (
	"context"

	"finance-board/internal/resilience"
)

// BreakerClient wraps a CompletionClient with a shared circuit breaker so a
// dying provider fails fast across every concurrent pipeline instead of each
// one separately exhausting its retries.
type BreakerClient struct {
	inner   CompletionClient
	breaker *resilience.Breaker
}

// NewBreakerClient wraps client with a circuit breaker.
func NewBreakerClient(client CompletionClient, cfg resilience.BreakerConfig) *BreakerClient {
	return &BreakerClient{
		inner:   client,
		breaker: resilience.NewBreaker(cfg),
	}
}

// Complete runs the inner completion under the breaker.
func (c *BreakerClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.breaker.Allow(); err != nil {
		return "", err
	}
	out, err := c.inner.Complete(ctx, prompt)
	c.breaker.Record(err)
	return out, err
}

// CompleteJSON runs the inner JSON completion under the breaker.
func (c *BreakerClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.breaker.Allow(); err != nil {
		return "", err
	}
	out, err := c.inner.CompleteJSON(ctx, systemPrompt, userPrompt)
	c.breaker.Record(err)
	return out, err
}

// BreakerStats exposes the underlying breaker counters.
func (c *BreakerClient) BreakerStats() resilience.Stats {
	return c.breaker.Stats()
}
