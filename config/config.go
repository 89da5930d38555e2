package config

import (
	"agent-staffing/logger"
	"agent-staffing/models"
	"agent-staffing/parser"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the process-wide configuration shared by the CLI and the web server.
// The engine never reads it directly; callers pass the values they need.
type Config struct {
	Input       string  `mapstructure:"input"`
	Timezone    string  `mapstructure:"timezone"`
	Utilization float64 `mapstructure:"utilization"`
	Addr        string  `mapstructure:"addr"`
	Port        int     `mapstructure:"port"`
	Debug       bool    `mapstructure:"debug"`
	LogLevel    string  `mapstructure:"log_level"`
	LogFormat   string  `mapstructure:"log_format"`
	MetricsAddr string  `mapstructure:"metrics_addr"`
	PushURL     string  `mapstructure:"push_url"`
}

// ListenAddr returns the host:port the web server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// Load reads configuration with priority order:
// 1. Environment variables (SCHEDULER_*, plus PORT and DEBUG)
// 2. Configuration file (scheduler.yaml, or configFile when given)
// 3. Default values
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("scheduler")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/agent-staffing/")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("SCHEDULER")
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if config.Debug && config.LogLevel == "info" {
		config.LogLevel = "debug"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "input.csv")
	v.SetDefault("timezone", models.DefaultTimezone)
	v.SetDefault("utilization", 1.0)
	v.SetDefault("addr", "")
	v.SetDefault("port", 5000)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("push_url", "")
}

// bindLegacyEnv accepts the unprefixed PORT and DEBUG variables used by
// container platforms. The prefixed names take precedence.
func bindLegacyEnv(v *viper.Viper) error {
	if err := v.BindEnv("port", "SCHEDULER_PORT", "PORT"); err != nil {
		return err
	}
	return v.BindEnv("debug", "SCHEDULER_DEBUG", "DEBUG")
}

func validateConfig(config *Config) error {
	if err := parser.ValidateUtilization(config.Utilization); err != nil {
		return err
	}
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", config.Port)
	}
	if _, err := logger.ParseLevel(config.LogLevel); err != nil {
		return err
	}
	if config.LogFormat != "json" && config.LogFormat != "console" {
		return fmt.Errorf("log_format must be json or console, got %q", config.LogFormat)
	}
	if _, err := parser.ValidateTimezone(config.Timezone); err != nil {
		return err
	}
	return nil
}

// Watch reloads configFile whenever it changes and passes each valid result to
// onChange. Invalid edits are logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, configFile string, log logger.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched.
	path := filepath.Clean(configFile)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch config file: %w", err)
	}
	log.Info("Configuration watcher started", "configPath", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Info("Configuration file changed, reloading", "file", event.Name)
			cfg, err := Load(path)
			if err != nil {
				log.Error("Failed to reload configuration", "error", err)
				continue
			}
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Configuration watcher error", "error", err)

		case <-ctx.Done():
			log.Info("Configuration watcher stopping")
			return nil
		}
	}
}
