package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	// Storage: either a Postgres DSN or a sqlite path must be configured.
	if c.Database.Primary.DSN == "" && c.Database.Local.Path == "" {
		return errors.New("either database.primary.DSN or database.local.path is required")
	}

	// Interpreter config
	switch c.Interpreter.Provider {
	case "gemini", "openai", "none", "":
	default:
		return fmt.Errorf("interpreter.provider must be 'gemini', 'openai' or 'none', got '%s'", c.Interpreter.Provider)
	}
	if c.Interpreter.Temperature < 0 || c.Interpreter.Temperature > 2 {
		return errors.New("interpreter.temperature must be between 0 and 2")
	}
	if c.Interpreter.MaxOutputTokens < 0 {
		return errors.New("interpreter.max_output_tokens must not be negative")
	}
	if c.Interpreter.MinQueryLength < 0 {
		return errors.New("interpreter.min_query_length must not be negative")
	}
	if c.Interpreter.CatalogLimit < 0 {
		return errors.New("interpreter.catalog_limit must not be negative")
	}

	// Search config
	if c.Search.DebounceMs < 0 {
		return errors.New("search.debounce_ms must not be negative")
	}
	if c.Search.CacheSize <= 0 {
		return errors.New("search.cache_size must be a positive integer")
	}

	// Server config
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number, got %d", c.Server.Port)
	}

	// Redis config
	if c.Redis.Address == "" {
		return errors.New("redis.address is required")
	}

	// Worker config
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	if len(c.Worker.Queues) == 0 {
		return errors.New("worker.queues must define at least one queue")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}

	return nil
}
