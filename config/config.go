package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration, loaded from file and environment.
// There is no ambient global state: every collaborator receives its settings
// explicitly at construction time.
type Config struct {
	Port               int    `mapstructure:"port"`
	DatabaseURL        string `mapstructure:"database_url"`
	LogLevel           string `mapstructure:"log_level"`
	AllowedOrigins     []string `mapstructure:"allowed_origins"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"` // Graceful shutdown wait

	// Embeddings provider
	ProviderBaseURL string `mapstructure:"provider_base_url"`
	ProviderToken   string `mapstructure:"provider_token"`
	ProviderModel   string `mapstructure:"provider_model"`
	ChatModel       string `mapstructure:"chat_model"`
	EmbeddingDims   int    `mapstructure:"embedding_dims"` // Must match the provider/model pair

	// Text policy
	MinTextLength int  `mapstructure:"min_text_length"`
	IncludeNotes  bool `mapstructure:"include_notes"` // Append notes to summary before validation/embedding

	// Ticket source
	SourceBaseURL  string `mapstructure:"source_base_url"`
	SourceUsername string `mapstructure:"source_username"`
	SourcePassword string `mapstructure:"source_password"`
	SourceFilter   string `mapstructure:"source_filter"` // Collaborator-defined filter predicate
	PageSize       int    `mapstructure:"page_size"`

	// Search
	SearchLimit int `mapstructure:"search_limit"`
}

// Load reads configuration from config.yaml (working directory or
// /etc/ticketvec) and TICKETVEC_* environment variables, applying defaults.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/ticketvec/")
	viper.AddConfigPath(".")

	// Defaults
	viper.SetDefault("port", 8080)
	viper.SetDefault("database_url", "postgres://localhost/ticketvec?sslmode=disable")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("shutdown_timeout_sec", 15)
	viper.SetDefault("provider_base_url", "http://localhost:11434/v1")
	viper.SetDefault("provider_token", "none")
	viper.SetDefault("provider_model", "text-embedding-3-small")
	viper.SetDefault("chat_model", "gpt-4o-mini")
	viper.SetDefault("embedding_dims", 1536)
	viper.SetDefault("min_text_length", 10)
	viper.SetDefault("include_notes", false)
	viper.SetDefault("source_filter", "state=closed^stage!=cancelled")
	viper.SetDefault("page_size", 1000)
	viper.SetDefault("search_limit", 5)

	// Environment variables
	viper.SetEnvPrefix("TICKETVEC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
