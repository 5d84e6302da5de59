package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	llmclient "intellic/internal/llmClient"
)

var ErrUnknownProvider = errors.New("unknown llm provider")

// Config selects a provider and tunes the middleware stack around it.
type Config struct {
	Provider  string        `koanf:"provider" yaml:"provider"`
	Model     string        `koanf:"model" yaml:"model"`
	APIKey    string        `koanf:"api_key" yaml:"api_key"`
	BaseURL   string        `koanf:"base_url" yaml:"base_url"`
	RPS       float64       `koanf:"rps" yaml:"rps"`
	Burst     int           `koanf:"burst" yaml:"burst"`
	Retries   int           `koanf:"retries" yaml:"retries"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout"`
	CacheSize int           `koanf:"cache_size" yaml:"cache_size"`
}

// DefaultConfig runs fully offline.
func DefaultConfig() Config {
	return Config{
		Provider:  llmclient.ProviderFake,
		RPS:       2,
		Burst:     2,
		Retries:   3,
		Timeout:   DefaultTimeout,
		CacheSize: 256,
	}
}

// New builds the provider client named by cfg.Provider and wraps it as
// logging -> metrics -> cache -> retry -> ratelimit -> timeout -> provider,
// so retries are throttled and each attempt gets its own deadline.
func New(ctx context.Context, cfg Config, logger *slog.Logger, reg prometheus.Registerer) (LLMClient, error) {
	base, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rps := cfg.RPS
	if _, fake := base.(*FakeClient); fake {
		rps = 0
	}
	return Wrap(base,
		WithLogging(logger),
		WithMetrics(reg),
		Cache(cfg.CacheSize),
		Retry(cfg.Retries, 0),
		RateLimit(rps, cfg.Burst),
		Timeout(cfg.Timeout),
	), nil
}

func newProvider(ctx context.Context, cfg Config) (LLMClient, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = llmclient.ProviderFake
	}
	info, ok := llmclient.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProvider, cfg.Provider, strings.Join(llmclient.Providers(), ", "))
	}
	model := firstNonEmpty(cfg.Model, info.DefaultModel)
	key := cfg.APIKey
	if key == "" && info.APIKeyEnv != "" {
		key = os.Getenv(info.APIKeyEnv)
	}
	switch name {
	case llmclient.ProviderFake:
		return NewFakeClient(), nil
	case llmclient.ProviderGemini:
		if key == "" {
			return nil, fmt.Errorf("gemini: api key missing (set llm.api_key or %s)", info.APIKeyEnv)
		}
		return llmclient.NewGeminiClient(ctx, key, model)
	case llmclient.ProviderOllama:
		return llmclient.NewOpenAIClient(name, firstNonEmpty(key, "ollama"), firstNonEmpty(cfg.BaseURL, info.BaseURL), model)
	default:
		if key == "" {
			return nil, fmt.Errorf("%s: api key missing (set llm.api_key or %s)", name, info.APIKeyEnv)
		}
		return llmclient.NewOpenAIClient(name, key, firstNonEmpty(cfg.BaseURL, info.BaseURL), model)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
