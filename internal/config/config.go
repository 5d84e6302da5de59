// Package config layers defaults, intellic.yaml, INTELLIC_* environment
// variables and explicitly set CLI flags into one Config.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"intellic/internal/llm"
	"intellic/internal/scan"
	"intellic/internal/security"
	"intellic/internal/transpile"
	"intellic/internal/version"
)

const (
	DefaultFile = "intellic.yaml"
	EnvPrefix   = "INTELLIC_"
)

type Config struct {
	LLM       llm.Config         `koanf:"llm"`
	Transpile TranspileConfig    `koanf:"transpile"`
	Versions  version.Table      `koanf:"versions"`
	Overrides []version.Override `koanf:"overrides"`
	Security  SecurityConfig     `koanf:"security"`
	Store     StoreConfig        `koanf:"store"`
	S3        transpile.S3Config `koanf:"s3"`
	Output    string             `koanf:"output"`
	Metrics   string             `koanf:"metrics_file"`
	Verbose   bool               `koanf:"verbose"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

type TranspileConfig struct {
	Workers    int      `koanf:"workers"`
	SkipDirs   []string `koanf:"skip_dirs"`
	Extensions []string `koanf:"extensions"`
	Ignore     []string `koanf:"ignore"`
}

// FilterOptions leaves unset lists nil so the scan defaults apply.
func (t TranspileConfig) FilterOptions() scan.Options {
	return scan.Options{SkipDirs: t.SkipDirs, Extensions: t.Extensions, Ignore: t.Ignore}
}

type SecurityConfig struct {
	Rules []security.RuleConfig `koanf:"rules"`
}

type StoreConfig struct {
	Path string `koanf:"path"`
	DSN  string `koanf:"dsn"`
}

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// command arguments, not configuration.
var flagKeys = map[string]string{
	"config":       "",
	"provider":     "llm.provider",
	"model":        "llm.model",
	"base-url":     "llm.base_url",
	"rps":          "llm.rps",
	"workers":      "transpile.workers",
	"output":       "output",
	"metrics-file": "metrics_file",
	"store":        "store.path",
	"store-dsn":    "store.dsn",
	"verbose":      "verbose",
}

func defaults() map[string]any {
	d := llm.DefaultConfig()
	return map[string]any{
		"llm.provider":      d.Provider,
		"llm.rps":           d.RPS,
		"llm.burst":         d.Burst,
		"llm.retries":       d.Retries,
		"llm.timeout":       d.Timeout.String(),
		"llm.cache_size":    d.CacheSize,
		"transpile.workers": transpile.DefaultWorkers,
		"s3.region":         "us-east-1",
		"output":            "text",
		"verbose":           false,
	}
}

// Load reads .env (if present) and builds the layered configuration.
// Precedence, lowest first: defaults, config file, environment, flags.
// An explicit cfgFile must exist; intellic.yaml in the working directory
// is read when present.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// INTELLIC_LLM__PROVIDER -> llm.provider
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key := flagKeys[f.Name]
			if !f.Changed || key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = llm.DefaultTimeout
	}
	cfg.applyEnvFallbacks()
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// applyEnvFallbacks fills credentials from the conventional variables when
// the layered config left them empty.
func (c *Config) applyEnvFallbacks() {
	c.S3.Endpoint = firstNonEmpty(c.S3.Endpoint, os.Getenv("ARTIFACT_S3_ENDPOINT"))
	c.S3.AccessKey = firstNonEmpty(c.S3.AccessKey, os.Getenv("ARTIFACT_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER"))
	c.S3.SecretKey = firstNonEmpty(c.S3.SecretKey, os.Getenv("ARTIFACT_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD"))
}

// Validate checks values the type system cannot.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output) {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output: unsupported format %q (want text, json or yaml)", c.Output)
	}
	if c.Transpile.Workers < 1 {
		return fmt.Errorf("transpile.workers must be at least 1, got %d", c.Transpile.Workers)
	}
	if c.LLM.RPS < 0 {
		return fmt.Errorf("llm.rps must not be negative")
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
