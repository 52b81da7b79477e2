package config

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Env           string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	MaxPhotoBytes int    `mapstructure:"MAX_PHOTO_BYTES"`
	PasswordCost  int    `mapstructure:"PASSWORD_COST"`
	Prompt        string `mapstructure:"PROMPT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_PHOTO_BYTES", 1<<20)
	v.SetDefault("PASSWORD_COST", bcrypt.DefaultCost)
	v.SetDefault("PROMPT", "staff> ")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("MAX_PHOTO_BYTES")
	v.BindEnv("PASSWORD_COST")
	v.BindEnv("PROMPT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the console is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Level returns the parsed LOG_LEVEL, falling back to info when it is unset.
func (c *Config) Level() zerolog.Level {
	if c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !c.IsDev() && !c.IsProduction() {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL is not a valid level: %w", err)
		}
	}
	if c.MaxPhotoBytes <= 0 {
		return fmt.Errorf("MAX_PHOTO_BYTES must be positive, got %d", c.MaxPhotoBytes)
	}
	if c.PasswordCost < bcrypt.MinCost || c.PasswordCost > bcrypt.MaxCost {
		return fmt.Errorf("PASSWORD_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.PasswordCost)
	}
	// A bcrypt cost below the default is only acceptable for local work.
	if c.IsProduction() && c.PasswordCost < bcrypt.DefaultCost {
		return fmt.Errorf("PASSWORD_COST must be at least %d in production", bcrypt.DefaultCost)
	}
	return nil
}
