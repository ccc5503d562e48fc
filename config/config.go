package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"mahjong-seisan/internal/settlement"
	"mahjong-seisan/internal/settlement/presets"
)

type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Server
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// Database, empty keeps sessions in memory
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Sessions
	SessionTTL  time.Duration `mapstructure:"SESSION_TTL"`
	DefaultLang string        `mapstructure:"DEFAULT_LANG"`

	// Table defaults for new sessions
	StartingPoints int    `mapstructure:"STARTING_POINTS"`
	ReturnPoints   int    `mapstructure:"RETURN_POINTS"`
	UmaPreset      string `mapstructure:"UMA_PRESET"`
	Rate           int    `mapstructure:"RATE"`
}

var keys = []string{
	"ENVIRONMENT", "LOG_LEVEL", "PORT", "SHUTDOWN_TIMEOUT", "DATABASE_URL",
	"SESSION_TTL", "DEFAULT_LANG", "STARTING_POINTS", "RETURN_POINTS",
	"UMA_PRESET", "RATE",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables take precedence
	v.AutomaticEnv()
	// Unmarshal only sees env vars for keys viper already knows about
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	// Set defaults
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_TIMEOUT", time.Second*30)
	v.SetDefault("SESSION_TTL", time.Hour*24)
	v.SetDefault("DEFAULT_LANG", "ja")
	v.SetDefault("STARTING_POINTS", settlement.DefaultStartingPoints)
	v.SetDefault("RETURN_POINTS", settlement.DefaultReturnPoints)
	v.SetDefault("UMA_PRESET", presets.DefaultPresetID)
	v.SetDefault("RATE", presets.DefaultRate)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK if we're using env vars
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Port <= 0 {
		return nil, fmt.Errorf("PORT must be positive")
	}
	if config.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if _, err := config.Settings(); err != nil {
		return nil, err
	}

	return config, nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether cookies should be marked Secure
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Settings returns the table rules new sessions start with
func (c *Config) Settings() (settlement.Settings, error) {
	settings := settlement.DefaultSettings()
	settings.StartingPoints = c.StartingPoints
	settings.ReturnPoints = c.ReturnPoints
	settings.Rate = c.Rate

	settings, err := settings.WithPreset(c.UmaPreset)
	if err != nil {
		return settings, fmt.Errorf("UMA_PRESET: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid table defaults: %w", err)
	}
	return settings, nil
}
