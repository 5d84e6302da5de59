package llm

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes successful answers by prompt text. Failures are never
// cached. size <= 0 disables caching.
func Cache(size int) Middleware {
	return func(next LLMClient) LLMClient {
		if size <= 0 {
			return next
		}
		c, err := lru.New[string, string](size)
		if err != nil {
			return next
		}
		return &caching{next: next, cache: c}
	}
}

type caching struct {
	next  LLMClient
	cache *lru.Cache[string, string]
}

func (c *caching) Name() string { return c.next.Name() }
func (c *caching) Close() error {
	c.cache.Purge()
	return c.next.Close()
}

func (c *caching) Predict(ctx context.Context, prompt string) (string, error) {
	if v, ok := c.cache.Get(prompt); ok {
		return v, nil
	}
	resp, err := c.next.Predict(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Add(prompt, resp)
	return resp, nil
}
