package llm

import (
	"context"
	"sync"
)

// FakeClient is a deterministic offline oracle: it echoes the prompt as
// LLM_OUTPUT(<prompt>). Setting Fail makes every call return that error.
type FakeClient struct {
	Fail error

	mu      sync.Mutex
	prompts []string
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Predict(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Fail != nil {
		return "", f.Fail
	}
	return "LLM_OUTPUT(" + prompt + ")", nil
}

// Prompts returns every prompt received so far, in call order.
func (f *FakeClient) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
