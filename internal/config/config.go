// Package config loads dump's settings. DUMP_* environment variables win
// over config.yaml, which wins over the defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "DUMP"
	DefaultDir     = "~/dumps"
	DefaultTimeout = 30 * time.Second
)

var logLevels = []interface{}{"debug", "info", "warn", "error"}

// Config is the resolved configuration.
type Config struct {
	// Dir is the journal directory, already ~-expanded.
	Dir string `mapstructure:"dir"`

	// Editor is the fallback external editor when neither $VISUAL nor
	// $EDITOR is set.
	Editor string `mapstructure:"editor"`

	AutoSync bool   `mapstructure:"autosync"`
	LogLevel string `mapstructure:"log_level"`
	NoColor  bool   `mapstructure:"no_color"`

	// Glyphs selects the bullet set: "unicode" or "ascii".
	Glyphs string     `mapstructure:"glyphs"`
	Sync   SyncConfig `mapstructure:"sync"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type SyncConfig struct {
	Remote  string        `mapstructure:"remote"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In(logLevels...)),
		validation.Field(&c.Glyphs, validation.In("unicode", "ascii")),
	); err != nil {
		return err
	}
	return c.Sync.Validate()
}

func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
	)
}

// Level maps LogLevel onto slog.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// Options tweak where Load looks.
type Options struct {
	// ConfigFile is an explicit file path; empty means search ConfigDirs.
	ConfigFile string
	// ConfigDirs overrides the default search path.
	ConfigDirs []string
}

// Load reads the configuration. A missing config file is not an error.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	v.SetDefault("dir", DefaultDir)
	v.SetDefault("editor", "")
	v.SetDefault("autosync", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("no_color", false)
	v.SetDefault("glyphs", "unicode")
	v.SetDefault("sync.remote", "origin")
	v.SetDefault("sync.timeout", DefaultTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := opts.ConfigFile
	if file == "" {
		file = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // .yaml is implicit
		v.SetConfigType("yaml")
		dirs := opts.ConfigDirs
		if dirs == nil {
			dirs = DefaultConfigDirs()
		}
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Glyphs = strings.ToLower(strings.TrimSpace(cfg.Glyphs))
	cfg.Sync.Remote = strings.TrimSpace(cfg.Sync.Remote)

	dir, err := ExpandDir(cfg.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// ExpandDir expands a leading ~ and makes dir absolute.
func ExpandDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", dir, err)
	}
	return filepath.Abs(expanded)
}

// DefaultConfigDirs is $XDG_CONFIG_HOME/dump, then ~/.config/dump.
func DefaultConfigDirs() []string {
	var dirs []string
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "dump"))
	}
	if home, err := homedir.Dir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "dump"))
	}
	return dirs
}
