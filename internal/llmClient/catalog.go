package llmclient

import (
	"sort"
	"strings"
)

const (
	ProviderFake   = "fake"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderOllama = "ollama"
)

// ProviderInfo describes how to reach one oracle backend when the caller
// supplies nothing but the provider name.
type ProviderInfo struct {
	Name         string
	DefaultModel string
	// BaseURL is only meaningful for OpenAI-compatible endpoints.
	BaseURL string
	// APIKeyEnv is consulted when no key is configured explicitly.
	APIKeyEnv string
}

var catalog = map[string]ProviderInfo{
	ProviderFake:   {Name: ProviderFake, DefaultModel: "fake"},
	ProviderGemini: {Name: ProviderGemini, DefaultModel: "gemini-2.5-flash", APIKeyEnv: "GEMINI_API_KEY"},
	ProviderOpenAI: {Name: ProviderOpenAI, DefaultModel: "gpt-4o-mini", APIKeyEnv: "OPENAI_API_KEY"},
	ProviderGroq: {
		Name:         ProviderGroq,
		DefaultModel: "llama-3.3-70b-versatile",
		BaseURL:      "https://api.groq.com/openai/v1",
		APIKeyEnv:    "GROQ_API_KEY",
	},
	ProviderOllama: {Name: ProviderOllama, DefaultModel: "llama3.1", BaseURL: "http://localhost:11434/v1"},
}

// Lookup is case and whitespace insensitive.
func Lookup(provider string) (ProviderInfo, bool) {
	info, ok := catalog[strings.ToLower(strings.TrimSpace(provider))]
	return info, ok
}

// Providers lists the known provider names, sorted.
func Providers() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
