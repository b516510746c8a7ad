package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete DevBoot configuration
type Config struct {
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
	TUI        TUIConfig        `mapstructure:"tui"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Paths      PathsConfig      `mapstructure:"paths"`
}

// SupervisorConfig controls process supervision timing
type SupervisorConfig struct {
	// PollIntervalMs is how often the crash monitor checks a child's exit
	// status (in milliseconds, default: 500)
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	// RestartBackoffMs is the fixed delay before a crash-triggered respawn
	// (in milliseconds, default: 2000)
	RestartBackoffMs int `mapstructure:"restart_backoff_ms"`
	// RestartDelayMs is the stop-to-start gap for an explicit restart
	// (in milliseconds, default: 500)
	RestartDelayMs int `mapstructure:"restart_delay_ms"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// SidebarWidth is the width of the project sidebar in columns
	// (default: 32, min: 20, max: 60)
	SidebarWidth int `mapstructure:"sidebar_width"`
	// FollowLogs keeps the log viewport pinned to the newest line when new
	// output arrives (default: true)
	FollowLogs bool `mapstructure:"follow_logs"`
}

// LoggingConfig controls diagnostic (not scrollback) logging behavior
type LoggingConfig struct {
	// Enabled controls whether the diagnostic log file is written (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// PathsConfig controls where DevBoot stores data
type PathsConfig struct {
	// DataDir is the directory holding the project store and diagnostic
	// logs. If empty, defaults to the config directory. Supports ~ for
	// home directory expansion.
	DataDir string `mapstructure:"data_dir"`
}

// ResolveDataDir returns the resolved data directory path.
// If DataDir is empty, it returns the config directory. A leading ~ expands
// to the user's home directory.
func (p *PathsConfig) ResolveDataDir() string {
	if p.DataDir == "" {
		return ConfigDir()
	}

	path := p.DataDir
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}
	return path
}

// PollInterval returns the monitor poll interval as a time.Duration
func (c *SupervisorConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// RestartBackoff returns the crash-respawn backoff as a time.Duration
func (c *SupervisorConfig) RestartBackoff() time.Duration {
	return time.Duration(c.RestartBackoffMs) * time.Millisecond
}

// RestartDelay returns the explicit-restart gap as a time.Duration
func (c *SupervisorConfig) RestartDelay() time.Duration {
	return time.Duration(c.RestartDelayMs) * time.Millisecond
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Supervisor: SupervisorConfig{
			PollIntervalMs:   500,
			RestartBackoffMs: 2000,
			RestartDelayMs:   500,
		},
		TUI: TUIConfig{
			SidebarWidth: 32,
			FollowLogs:   true,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
		Paths: PathsConfig{
			DataDir: "", // Empty means use the config directory
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Supervisor defaults
	viper.SetDefault("supervisor.poll_interval_ms", defaults.Supervisor.PollIntervalMs)
	viper.SetDefault("supervisor.restart_backoff_ms", defaults.Supervisor.RestartBackoffMs)
	viper.SetDefault("supervisor.restart_delay_ms", defaults.Supervisor.RestartDelayMs)

	// TUI defaults
	viper.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)
	viper.SetDefault("tui.follow_logs", defaults.TUI.FollowLogs)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)

	// Paths defaults
	viper.SetDefault("paths.data_dir", defaults.Paths.DataDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "devboot")
	}
	// Fall back to ~/.config/devboot
	home, err := os.UserHomeDir()
	if err != nil {
		return ".devboot"
	}
	return filepath.Join(home, ".config", "devboot")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
