// Package config loads simdrive settings from config.yaml, SIMDRIVE_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds simdrive settings.
type Config struct {
	Xcrun     string       `mapstructure:"xcrun"`
	DeviceSet string       `mapstructure:"device_set"`
	LogLevel  string       `mapstructure:"log_level"`
	Output    string       `mapstructure:"output"`
	Launch    LaunchConfig `mapstructure:"launch"`
}

// LaunchConfig tunes how long launch waits for the app's pid.
type LaunchConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Output formats understood by the presenters.
var outputFormats = []string{"table", "json", "yaml"}

// Load reads configuration. An explicit file must exist; otherwise
// config.yaml is searched in $HOME/.simdrive and the working directory and
// its absence is not an error.
func Load(explicitFile string) (*Config, error) {
	v := viper.New()

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".simdrive"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SIMDRIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("xcrun", "xcrun")
	v.SetDefault("device_set", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("output", "table")
	v.SetDefault("launch.poll_interval", 500*time.Millisecond)
	v.SetDefault("launch.timeout", 10*time.Second)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !validOutput(c.Output) {
		return fmt.Errorf("output must be one of %s, got %q", strings.Join(outputFormats, ", "), c.Output)
	}
	if c.Launch.PollInterval <= 0 || c.Launch.Timeout <= 0 {
		return fmt.Errorf("launch.poll_interval and launch.timeout must be positive")
	}
	return nil
}

func validOutput(s string) bool {
	for _, f := range outputFormats {
		if s == f {
			return true
		}
	}
	return false
}

// SlogLevel maps log_level to a slog level, defaulting to Warn.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
