package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpfile.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
storage:
  db_path: "./data/lottoracle.db"

provider:
  base_url: "https://lotto.example.com/api"
  mock: false
  timeout: 10s
  max_retries: 5
  retry_delay_base: 1s
  requests_per_second: 0.5
  history_months: 12

watch:
  poll_interval: 30m

server:
  addr: "127.0.0.1:9090"

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./data/lottoracle.db", cfg.Storage.DBPath)
	assert.Equal(t, "https://lotto.example.com/api", cfg.Provider.BaseURL)
	assert.False(t, cfg.Provider.Mock)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 5, cfg.Provider.MaxRetries)
	assert.Equal(t, 0.5, cfg.Provider.RequestsPerSecond)
	assert.Equal(t, 12, cfg.Provider.HistoryMonths)
	assert.Equal(t, 30*time.Minute, cfg.Watch.PollInterval)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "default")
	assert.Equal(t, 3, cfg.Telegram.MaxRetries, "default")
	assert.Equal(t, "debug", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Provider.Mock)
	assert.Equal(t, 6, cfg.Provider.HistoryMonths)
	assert.Equal(t, time.Hour, cfg.Watch.PollInterval)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LOTTORACLE_TELEGRAM_CHAT_ID", "98765")
	t.Setenv("LOTTORACLE_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "98765", cfg.Telegram.ChatID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/lottoracle.yaml")
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Mock:           true,
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			RetryDelayBase: time.Second,
			HistoryMonths:  6,
		},
		Watch:   WatchConfig{PollInterval: time.Hour},
		Server:  ServerConfig{Addr: ":8080", ReadTimeout: time.Second, WriteTimeout: time.Second},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing base url without mock", func(c *Config) { c.Provider.Mock = false }},
		{"short timeout", func(c *Config) { c.Provider.Timeout = time.Millisecond }},
		{"no retries", func(c *Config) { c.Provider.MaxRetries = 0 }},
		{"negative rate", func(c *Config) { c.Provider.RequestsPerSecond = -1 }},
		{"history months out of range", func(c *Config) { c.Provider.HistoryMonths = 0 }},
		{"poll interval too short", func(c *Config) { c.Watch.PollInterval = time.Second }},
		{"missing server addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }},
		{"missing telegram token when enabled", func(c *Config) {
			c.Telegram = TelegramConfig{Enabled: true, ChatID: "1"}
		}},
		{"missing telegram chat when enabled", func(c *Config) {
			c.Telegram = TelegramConfig{Enabled: true, BotToken: "x"}
		}},
		{"invalid log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	require.NoError(t, validConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
