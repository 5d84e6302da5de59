package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellic/internal/security"
	"intellic/internal/version"
)

// inEmptyDir runs the test from a fresh directory so no stray
// intellic.yaml or .env is picked up.
func inEmptyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	inEmptyDir(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "fake", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retries)
	assert.Equal(t, 4, cfg.Transpile.Workers)
	assert.Equal(t, "text", cfg.Output)
	assert.Nil(t, cfg.Versions)
	assert.Nil(t, cfg.Transpile.SkipDirs)
	assert.Empty(t, cfg.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := inEmptyDir(t)
	write(t, dir, DefaultFile, `
llm:
  provider: groq
  model: llama-3.1-8b-instant
  timeout: 5s
transpile:
  workers: 2
  extensions: [".rs", ".zig"]
  ignore: ["**/generated/**"]
versions:
  go: ["1.22", "1.23"]
overrides:
  - language: go
    flag: uses_iterators
    version: "1.23"
security:
  rules:
    - name: FORMAT_STRING
      flag: printf
store:
  path: history.json
output: yaml
`)
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultFile, cfg.File)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.Transpile.Workers)
	assert.Equal(t, []string{".rs", ".zig"}, cfg.Transpile.FilterOptions().Extensions)
	assert.Nil(t, cfg.Transpile.FilterOptions().SkipDirs)
	assert.Equal(t, version.Table{"go": {"1.22", "1.23"}}, cfg.Versions)
	assert.Equal(t, []version.Override{{Language: "go", Flag: "uses_iterators", Version: "1.23"}}, cfg.Overrides)
	assert.Equal(t, []security.RuleConfig{{Name: "FORMAT_STRING", Flag: "printf"}}, cfg.Security.Rules)
	assert.Equal(t, "history.json", cfg.Store.Path)
	assert.Equal(t, "yaml", cfg.Output)
}

func TestLoad_Precedence(t *testing.T) {
	dir := inEmptyDir(t)
	cfgFile := write(t, dir, "custom.yaml", "llm:\n  provider: groq\n  model: from-file\noutput: yaml\n")
	t.Setenv("INTELLIC_LLM__PROVIDER", "openai")
	t.Setenv("INTELLIC_LLM__MODEL", "from-env")
	t.Setenv("INTELLIC_TRANSPILE__WORKERS", "8")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("provider", "fake", "")
	flags.String("model", "", "")
	flags.Int("workers", 99, "")
	flags.String("lang", "go", "")
	require.NoError(t, flags.Parse([]string{"--provider", "ollama", "--lang", "rust"}))

	cfg, err := Load(cfgFile, flags)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider, "flag beats env")
	assert.Equal(t, "from-env", cfg.LLM.Model, "env beats file")
	assert.Equal(t, 8, cfg.Transpile.Workers, "unchanged flag keeps env value")
	assert.Equal(t, "yaml", cfg.Output, "file beats defaults")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	inEmptyDir(t)
	_, err := Load("nope.yaml", nil)
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := inEmptyDir(t)
	t.Setenv("INTELLIC_OUTPUT", "")
	require.NoError(t, os.Unsetenv("INTELLIC_OUTPUT"))
	write(t, dir, ".env", "INTELLIC_OUTPUT=json\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_S3Fallbacks(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("ARTIFACT_S3_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_ROOT_USER", "minio")
	t.Setenv("MINIO_ROOT_PASSWORD", "minio123")
	t.Setenv("INTELLIC_S3__ACCESS_KEY", "explicit")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", cfg.S3.Endpoint)
	assert.Equal(t, "explicit", cfg.S3.AccessKey)
	assert.Equal(t, "minio123", cfg.S3.SecretKey)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
}

func TestValidate(t *testing.T) {
	inEmptyDir(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)

	bad := *cfg
	bad.Output = "xml"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Transpile.Workers = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.LLM.RPS = -1
	assert.Error(t, bad.Validate())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "llm.api_key", envKey("INTELLIC_LLM__API_KEY"))
	assert.Equal(t, "metrics_file", envKey("INTELLIC_METRICS_FILE"))
}
