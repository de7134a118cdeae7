package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samvad-hq/aboutme-client/pkg/aboutme"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIKey            string `mapstructure:"aboutme_key"`
	APIVersion        string `mapstructure:"aboutme_version"`
	APIFormat         string `mapstructure:"aboutme_format"`
	APITimeoutSeconds int    `mapstructure:"aboutme_timeout"`
	APIBaseURL        string `mapstructure:"aboutme_base_url"`

	PublishersFile string `mapstructure:"publishers_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "aboutme")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("aboutme_key", "")
	v.SetDefault("aboutme_version", aboutme.DefaultVersion)
	v.SetDefault("aboutme_format", aboutme.DefaultFormat)
	v.SetDefault("aboutme_timeout", aboutme.DefaultTimeoutSeconds) // seconds
	v.SetDefault("aboutme_base_url", aboutme.DefaultBaseURL)
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/aboutme.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finalize() error {
	if c.APITimeoutSeconds <= 0 {
		return fmt.Errorf("invalid aboutme_timeout (must be positive seconds)")
	}
	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second
	return nil
}

// ClientConfig maps the API settings onto the client configuration.
func (c *Config) ClientConfig() aboutme.Config {
	return aboutme.Config{
		Key:            c.APIKey,
		Version:        c.APIVersion,
		Format:         c.APIFormat,
		TimeoutSeconds: c.APITimeoutSeconds,
		BaseURL:        c.APIBaseURL,
	}
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "***"
	}
	return c
}
