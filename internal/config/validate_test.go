package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Database.Local.Path = "vitrine.db"
	cfg.Interpreter.Provider = "gemini"
	cfg.Interpreter.Temperature = 0.1
	cfg.Interpreter.MaxOutputTokens = 150
	cfg.Interpreter.MinQueryLength = 2
	cfg.Interpreter.CatalogLimit = 100
	cfg.Search.CacheSize = 100
	cfg.Server.Port = 8080
	cfg.Redis.Address = "localhost:6379"
	cfg.Worker.Concurrency = 5
	cfg.Worker.Queues = map[string]int{"analytics": 1}
	return cfg
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"No Storage Configured", func(c *Config) { c.Database.Local.Path = "" }},
		{"Unknown Provider", func(c *Config) { c.Interpreter.Provider = "mistral" }},
		{"Temperature Out Of Range", func(c *Config) { c.Interpreter.Temperature = 3 }},
		{"Negative Debounce", func(c *Config) { c.Search.DebounceMs = -1 }},
		{"Zero Cache Size", func(c *Config) { c.Search.CacheSize = 0 }},
		{"Bad Port", func(c *Config) { c.Server.Port = 0 }},
		{"Missing Redis", func(c *Config) { c.Redis.Address = "" }},
		{"No Queues", func(c *Config) { c.Worker.Queues = nil }},
		{"Bad Queue Priority", func(c *Config) { c.Worker.Queues = map[string]int{"analytics": 0} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_PostgresOnlyIsEnough(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Local.Path = ""
	cfg.Database.Primary.DSN = "postgres://localhost/vitrine"
	assert.NoError(t, cfg.Validate())
}
