// Package config loads keepawayk settings from defaults, an optional config
// file, KEEPAWAYK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/stigoleg/keepawayk/internal/action"
	"github.com/stigoleg/keepawayk/internal/hotkey"
	"github.com/stigoleg/keepawayk/internal/input"
	"github.com/stigoleg/keepawayk/internal/util"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "KEEPAWAYK"

type Config struct {
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Input  InputConfig  `mapstructure:"input" yaml:"input"`
	Hotkey HotkeyConfig `mapstructure:"hotkey" yaml:"hotkey"`
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
}

// EngineConfig holds the scheduler settings. Interval, Duration and Until are
// kept as text so that "2.5", "90s" and "22:00" all read naturally in YAML.
type EngineConfig struct {
	Interval         string   `mapstructure:"interval" yaml:"interval"`
	Enabled          []string `mapstructure:"enabled" yaml:"enabled"`
	FirstTickExclude []string `mapstructure:"first_tick_exclude" yaml:"first_tick_exclude"`
	Duration         string   `mapstructure:"duration" yaml:"duration"`
	Until            string   `mapstructure:"until" yaml:"until"`
}

type InputConfig struct {
	Backend      string `mapstructure:"backend" yaml:"backend"`
	ScreenWidth  int    `mapstructure:"screen_width" yaml:"screen_width"`
	ScreenHeight int    `mapstructure:"screen_height" yaml:"screen_height"`
}

type HotkeyConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Combo   string `mapstructure:"combo" yaml:"combo"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine.interval", "5s")
	v.SetDefault("engine.enabled", action.Names(action.AllEnabled()))
	v.SetDefault("engine.first_tick_exclude", []string{})
	v.SetDefault("engine.duration", "")
	v.SetDefault("engine.until", "")

	v.SetDefault("input.backend", input.BackendAuto)
	v.SetDefault("input.screen_width", 0)
	v.SetDefault("input.screen_height", 0)

	v.SetDefault("hotkey.enabled", true)
	v.SetDefault("hotkey.combo", hotkey.DefaultCombo)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", DefaultLogFile())
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
}

// NewDefaultConfig returns the configuration with nothing overridden.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Decode(v)
	if err != nil {
		panic(fmt.Sprintf("failed to decode default config: %v", err))
	}
	return cfg
}

// Init points v at cfgFile, or at keepawayk.yaml in the working directory
// or $XDG_CONFIG_HOME/keepawayk, and enables environment overrides. A missing
// default config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("keepawayk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "keepawayk")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "keepawayk")
	}
	return ""
}

// DefaultLogFile is keepawayk.log under $XDG_STATE_HOME/keepawayk, or
// ~/.local/state/keepawayk, falling back to the system temp dir.
func DefaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "keepawayk.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "keepawayk", "keepawayk.log")
}

// Decode unmarshals and validates the current state of v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks every field that can be checked without touching the host.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if !validBackend(c.Input.Backend) {
		return fmt.Errorf("input.backend %q is not one of %s", c.Input.Backend, strings.Join(input.Backends(), ", "))
	}
	if c.Input.ScreenWidth < 0 || c.Input.ScreenHeight < 0 {
		return errors.New("input.screen_width and input.screen_height must not be negative")
	}
	if c.Hotkey.Enabled {
		if _, err := hotkey.ParseCombo(c.Hotkey.Combo); err != nil {
			return fmt.Errorf("hotkey.combo: %w", err)
		}
	}
	return nil
}

func validBackend(b string) bool {
	for _, known := range input.Backends() {
		if b == known {
			return true
		}
	}
	return false
}

// Validate checks the engine section.
func (e EngineConfig) Validate() error {
	d, err := e.IntervalDuration()
	if err != nil {
		return fmt.Errorf("engine.interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("engine.interval must be positive, got %s", d)
	}
	if _, err := e.Categories(); err != nil {
		return fmt.Errorf("engine.enabled: %w", err)
	}
	if _, err := e.FirstTickExclusions(); err != nil {
		return fmt.Errorf("engine.first_tick_exclude: %w", err)
	}
	if e.Duration != "" && e.Until != "" {
		return errors.New("engine.duration and engine.until are mutually exclusive")
	}
	if _, err := e.RunDuration(time.Now()); err != nil {
		return err
	}
	return nil
}

// IntervalDuration parses Interval.
func (e EngineConfig) IntervalDuration() (time.Duration, error) {
	return util.ParseInterval(e.Interval)
}

// Categories parses Enabled. Entries may themselves be comma separated, which
// is how a KEEPAWAYK_ENGINE_ENABLED value arrives.
func (e EngineConfig) Categories() (map[action.Category]bool, error) {
	return action.ParseCategories(splitList(e.Enabled))
}

// FirstTickExclusions parses FirstTickExclude.
func (e EngineConfig) FirstTickExclusions() (map[action.Category]bool, error) {
	return action.ParseCategories(splitList(e.FirstTickExclude))
}

// RunDuration returns how long a run should last, or zero for no limit.
func (e EngineConfig) RunDuration(now time.Time) (time.Duration, error) {
	switch {
	case e.Duration != "":
		d, err := util.ParseDuration(e.Duration)
		if err != nil {
			return 0, err
		}
		if d <= 0 {
			return 0, fmt.Errorf("engine.duration must be positive, got %s", d)
		}
		return d, nil
	case e.Until != "":
		return util.UntilClock(e.Until, now)
	default:
		return 0, nil
	}
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
