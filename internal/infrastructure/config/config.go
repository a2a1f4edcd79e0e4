package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/eslsoft/lingodrill/internal/llm"
)

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      llm.Config     `mapstructure:"llm"`
	Batch    BatchConfig    `mapstructure:"batch"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	HTTPPort int    `mapstructure:"http_port"`
}

// DatabaseConfig holds database configuration. Driver selects the
// backend: "sqlite3" uses Path, "postgres" uses the remaining fields.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BatchConfig sizes the pre-generated prompt batches.
type BatchConfig struct {
	TopicSize int `mapstructure:"topic_size"`
	VocabSize int `mapstructure:"vocab_size"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.path", "data/lingodrill.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "lingodrill")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	// Completion provider defaults
	llmDefaults := llm.DefaultConfig()
	viper.SetDefault("llm.provider", llmDefaults.Provider)
	viper.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	viper.SetDefault("llm.retry.max_attempts", llmDefaults.Retry.MaxAttempts)
	viper.SetDefault("llm.retry.initial_wait", llmDefaults.Retry.InitialWait)
	viper.SetDefault("llm.retry.max_wait", llmDefaults.Retry.MaxWait)
	viper.SetDefault("llm.retry.multiplier", llmDefaults.Retry.Multiplier)
	viper.SetDefault("llm.timeout", llmDefaults.Timeout)

	// Batch defaults
	viper.SetDefault("batch.topic_size", 5)
	viper.SetDefault("batch.vocab_size", 20)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
