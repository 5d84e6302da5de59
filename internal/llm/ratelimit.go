package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimit throttles Predict to rps requests per second with the given
// burst. rps <= 0 disables limiting.
func RateLimit(rps float64, burst int) Middleware {
	return func(next LLMClient) LLMClient {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		return &rateLimited{next: next, rl: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	next LLMClient
	rl   *rate.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }
func (c *rateLimited) Predict(ctx context.Context, prompt string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	return c.next.Predict(ctx, prompt)
}
