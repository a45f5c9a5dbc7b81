package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"glmocr/internal/config"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
api_key: sk-test
api_endpoint: https://api.example.com/ocr
model_name: glm-ocr
max_concurrency: 4
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "sk-test", cfg.APIKey)
	require.Equal(t, "https://api.example.com/ocr", cfg.APIEndpoint)
	require.Equal(t, "glm-ocr", cfg.ModelName)
	require.Equal(t, 4, cfg.MaxConcurrency)
	require.Equal(t, config.DefaultTimeoutSecs, cfg.TimeoutSeconds)
	require.Equal(t, "zhipu", cfg.Provider)
}

func TestLoadJSONFormat(t *testing.T) {
	path := write(t, `{"api_key": "sk-test", "api_endpoint": "https://api.example.com/ocr"}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "sk-test", cfg.APIKey)
	require.Equal(t, config.DefaultConcurrency, cfg.MaxConcurrency)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMissingKey(t *testing.T) {
	path := write(t, `api_endpoint: https://api.example.com/ocr`)

	_, err := config.Load(path)
	require.ErrorContains(t, err, "api_key")
}

func TestLoadMissingEndpoint(t *testing.T) {
	path := write(t, `api_key: sk-test`)

	_, err := config.Load(path)
	require.ErrorContains(t, err, "api_endpoint")
}

func TestLoadGeminiNeedsNoEndpoint(t *testing.T) {
	path := write(t, "api_key: sk-test\nprovider: gemini\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "gemini", cfg.Provider)
}
