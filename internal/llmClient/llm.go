package llmclient

import (
	"context"
	"errors"
)

// LLMClient is the oracle capability: free-text prompt in, free-text answer out.
// Cross-cutting concerns (retries, rate limiting, caching, logging) are
// layered on top as middleware by package llm.
type LLMClient interface {
	Name() string
	Predict(ctx context.Context, prompt string) (string, error)
	Close() error
}

var ErrEmptyResponse = errors.New("empty response from LLM")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err (or anything it wraps) is a PermanentError.
func IsPermanent(err error) bool {
	var pErr *PermanentError
	return errors.As(err, &pErr)
}
