package llm

import (
	"context"
	"log/slog"
	"time"

	llmclient "intellic/internal/llmClient"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, retries, logging, caching, metrics).
type Middleware func(LLMClient) LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner LLMClient, mws ...Middleware) LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			out = mws[i](out)
		}
	}
	return out
}

// -------- Retry with exponential backoff --------

// Retry retries Predict up to maxAttempts with exponential backoff starting
// at baseDelay. Permanent errors and context cancellation stop immediately.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next LLMClient) LLMClient {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next LLMClient
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) Predict(ctx context.Context, prompt string) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.Predict(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		if llmclient.IsPermanent(err) {
			return "", err
		}
		last = err
		if i == r.max-1 {
			break
		}
		timer := time.NewTimer(r.base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", last
}

// -------- Per-call deadline --------

// DefaultTimeout bounds a single oracle call when nothing else is configured.
const DefaultTimeout = 30 * time.Second

// Timeout gives every Predict call its own deadline. d <= 0 disables it.
func Timeout(d time.Duration) Middleware {
	return func(next LLMClient) LLMClient {
		if d <= 0 {
			return next
		}
		return &timeouting{next: next, d: d}
	}
}

type timeouting struct {
	next LLMClient
	d    time.Duration
}

func (t *timeouting) Name() string { return t.next.Name() }
func (t *timeouting) Close() error { return t.next.Close() }
func (t *timeouting) Predict(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Predict(ctx, prompt)
}

// -------- Logging --------

// WithLogging logs request size, latency and errors. A nil logger uses
// slog.Default().
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next LLMClient) LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next LLMClient
	log  *slog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) Predict(ctx context.Context, prompt string) (string, error) {
	phase := PhaseFrom(ctx)
	start := time.Now()
	l.log.Debug("llm request", "client", l.next.Name(), "phase", phase, "bytes", len(prompt))
	resp, err := l.next.Predict(ctx, prompt)
	if err != nil {
		l.log.Warn("llm error", "client", l.next.Name(), "phase", phase, "elapsed", time.Since(start), "error", err)
		return resp, err
	}
	l.log.Debug("llm response", "client", l.next.Name(), "phase", phase, "elapsed", time.Since(start), "bytes", len(resp))
	return resp, nil
}
