package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Primary struct {
			DSN string
		}
		// Local sqlite store, used when no Postgres DSN is configured.
		Local struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"local"`
	}

	Interpreter struct {
		Provider        string  `mapstructure:"provider"` // "gemini" or "openai"
		GoogleApiKey    string  `mapstructure:"google_api_key"`
		OpenaiApiKey    string  `mapstructure:"openai_api_key"`
		Model           string  `mapstructure:"model"`
		Temperature     float32 `mapstructure:"temperature"`
		TemperatureSet  bool    `mapstructure:"temperature_set"` // distinguishes an explicit 0 from "use default"
		MaxOutputTokens int32   `mapstructure:"max_output_tokens"`
		MinQueryLength  int     `mapstructure:"min_query_length"`
		CatalogLimit    int     `mapstructure:"catalog_limit"`
		PromptTemplate  string  `mapstructure:"prompt_template"` // Path to prompt template file, empty for built-in
	} `mapstructure:"interpreter"`

	Search struct {
		DefaultLimit int  `mapstructure:"default_limit"`
		DebounceMs   int  `mapstructure:"debounce_ms"`
		DebounceSet  bool `mapstructure:"debounce_set"` // distinguishes an explicit 0 from "use default"
		CacheSize    int  `mapstructure:"cache_size"`
	} `mapstructure:"search"`

	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Redis struct {
		Address  string
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	}
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // Look for config.yaml in the current directory

	// --- Environment Variable Binding ---
	viper.AutomaticEnv()

	// Explicitly bind the provider API key environment variables to the config
	// fields, so the keys never have to live in config.yaml.
	viper.BindEnv("interpreter.google_api_key", "GEMINI_API_KEY")
	viper.BindEnv("interpreter.openai_api_key", "OPENAI_API_KEY")
	// --- End Environment Variable Binding ---

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist, Viper might rely solely on env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed, relying on defaults/env vars.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Search.DebounceSet = viper.IsSet("search.debounce_ms")
	config.Interpreter.TemperatureSet = viper.IsSet("interpreter.temperature")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.local.path", "vitrine.db")
	viper.SetDefault("interpreter.provider", "gemini")
	// No temperature default here: the interpreter applies its own, and a
	// viper default would make an explicit 0 indistinguishable from unset.
	viper.SetDefault("interpreter.max_output_tokens", 150)
	viper.SetDefault("interpreter.min_query_length", 2)
	viper.SetDefault("interpreter.catalog_limit", 100)
	viper.SetDefault("search.default_limit", 50)
	viper.SetDefault("search.cache_size", 100)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("worker.concurrency", 5)
	viper.SetDefault("worker.queues", map[string]int{"analytics": 1})
}
