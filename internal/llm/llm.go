// Package llm wraps oracle clients with middleware and turns their answers
// into Results that callers can embed in reports without failing.
package llm

import (
	"context"
	"errors"
	"fmt"

	llmclient "intellic/internal/llmClient"
)

// LLMClient is re-exported so callers only need this package.
type LLMClient = llmclient.LLMClient

var ErrNoClient = errors.New("no LLM client configured")

// Result is either the oracle's text or the reason it could not answer.
// It lets callers tell "the oracle said X" apart from "the call failed"
// while still having printable text for reports.
type Result struct {
	Text string
	Err  error
}

func (r Result) OK() bool { return r.Err == nil }

// String is the text to show in place of the answer: the answer itself, or
// a diagnostic payload when the call failed.
func (r Result) String() string {
	if r.Err != nil {
		return "oracle unavailable: " + r.Err.Error()
	}
	return r.Text
}

// Ask calls c and converts every failure, panics included, into a Result.
func Ask(ctx context.Context, c LLMClient, prompt string) (res Result) {
	if c == nil {
		return Result{Err: ErrNoClient}
	}
	defer func() {
		if p := recover(); p != nil {
			res = Result{Err: fmt.Errorf("llm client %T panicked: %v", c, p)}
		}
	}()
	text, err := c.Predict(ctx, prompt)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Text: text}
}
