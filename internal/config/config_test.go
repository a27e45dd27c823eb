package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	cfg, err := Load("unit-test")
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.BackendCfg.Url)
	assert.Equal(t, "/upload", cfg.BackendCfg.UploadEndpoint)
	assert.Equal(t, "/ask", cfg.BackendCfg.AskEndpoint)
	assert.Equal(t, "/fit-score", cfg.BackendCfg.FitScoreEndpoint)
	assert.Equal(t, time.Duration(0), cfg.BackendCfg.RequestTimeout)
	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, int64(32<<20), cfg.WebCfg.MaxUploadSize)
	assert.Equal(t, uint(3), cfg.TelegramCfg.Retry.Attempts)
	assert.Equal(t, "unit-test", cfg.Environment)
}

func TestLoad_BackendURLPrecedence(t *testing.T) {
	t.Cleanup(func() { BuildBackendURL = "" })

	t.Setenv("BACKEND_URL", "")
	BuildBackendURL = "https://build.example.com"

	cfg, err := Load("unit-test")
	require.NoError(t, err)
	assert.Equal(t, "https://build.example.com", cfg.BackendCfg.Url)

	t.Setenv("BACKEND_URL", "http://env.example.com:9000")

	cfg, err = Load("unit-test")
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com:9000", cfg.BackendCfg.Url)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("BACKEND_URL", "localhost:8000")
	t.Setenv("WEB_MAX_UPLOAD_SIZE", "0")

	_, err := Load("unit-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_URL")
	assert.Contains(t, err.Error(), "WEB_MAX_UPLOAD_SIZE")
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}

func TestTelegramConfig_Validate(t *testing.T) {
	cfg, err := Load("unit-test")
	require.NoError(t, err)

	tg := cfg.TelegramCfg
	tg.BotToken = ""
	err = tg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")

	tg.BotToken = "123:abc"
	assert.NoError(t, tg.Validate())

	tg.Retry.Attempts = 0
	assert.ErrorContains(t, tg.Validate(), "TELEGRAM_RETRY_ATTEMPTS")
}
