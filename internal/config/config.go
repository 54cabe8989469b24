package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	dataFileName  = ".pharm.json"
	configDirName = "pharm"
	envPrefix     = "PHARM"
)

// Config holds the runtime settings for the CLI and the daemon.
type Config struct {
	DataFile     string        `mapstructure:"data_file" yaml:"data_file"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	Notifier     string        `mapstructure:"notifier" yaml:"notifier"`
	Urgency      string        `mapstructure:"urgency" yaml:"urgency"`
	HistoryDays  int           `mapstructure:"history_days" yaml:"history_days"`
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string        `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultDataFile returns ~/.pharm.json, or ./.pharm.json when the home
// directory cannot be determined.
func DefaultDataFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, dataFileName)
}

// ConfigDir returns the directory searched for config.yaml
// ($XDG_CONFIG_HOME/pharm or ~/.config/pharm).
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, configDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(home, ".config", configDirName)
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DataFile:     DefaultDataFile(),
		PollInterval: 60 * time.Second,
		Notifier:     "desktop",
		Urgency:      "normal",
		HistoryDays:  30,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads configuration from .env, config.yaml and PHARM_* environment
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	return load(".", ConfigDir())
}

func load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	def := Default()
	v.SetDefault("data_file", def.DataFile)
	v.SetDefault("poll_interval", def.PollInterval)
	v.SetDefault("notifier", def.Notifier)
	v.SetDefault("urgency", def.Urgency)
	v.SetDefault("history_days", def.HistoryDays)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.DataFile = expandHome(cfg.DataFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("config: data_file is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive, got %s", c.PollInterval)
	}
	switch c.Notifier {
	case "desktop", "log":
	default:
		return fmt.Errorf("config: notifier %q is invalid (must be desktop or log)", c.Notifier)
	}
	switch c.Urgency {
	case "low", "normal", "critical":
	default:
		return fmt.Errorf("config: urgency %q is invalid (must be low, normal or critical)", c.Urgency)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format %q is invalid (must be text or json)", c.LogFormat)
	}
	if c.HistoryDays < 1 {
		c.HistoryDays = 30
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
