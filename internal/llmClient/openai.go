package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultSystemPrompt = "You are an expert software engineer who converts and improves source code. Answer with code and brief notes only."

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
// (OpenAI itself, Groq, Ollama, vLLM).
type OpenAIClient struct {
	cli      *openai.Client
	provider string
	model    string
	system   string
}

// NewOpenAIClient builds a client. baseURL may be empty for api.openai.com.
func NewOpenAIClient(provider, apiKey, baseURL, model string) (*OpenAIClient, error) {
	if provider == "" {
		provider = ProviderOpenAI
	}
	if model == "" {
		if info, ok := Lookup(provider); ok {
			model = info.DefaultModel
		}
	}
	if model == "" {
		return nil, fmt.Errorf("llmclient: %s: model is required", provider)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &OpenAIClient{
		cli:      openai.NewClientWithConfig(cfg),
		provider: provider,
		model:    model,
		system:   defaultSystemPrompt,
	}, nil
}

func (o *OpenAIClient) Name() string { return o.provider + ":" + o.model }
func (o *OpenAIClient) Close() error { return nil }

func (o *OpenAIClient) Predict(ctx context.Context, prompt string) (string, error) {
	resp, err := o.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", NewPermanentError(ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError marks client-side failures (bad key, bad model, bad
// request) as permanent. Rate limiting and server errors stay retryable.
func classifyOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout {
		return NewPermanentError(err)
	}
	return err
}
