// Package config loads ambience settings from flags, the environment and an
// optional ambience.yaml, and watches the file for live changes.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/intuitionamiga/ambience"
)

const (
	EnvPrefix = "AMBIENCE"
	FileName  = "ambience"
)

// Config holds every user-tunable setting.
type Config struct {
	SampleRate   int      `mapstructure:"sample_rate"`
	Backend      string   `mapstructure:"backend"`
	BufferMS     int      `mapstructure:"buffer_ms"`
	NoiseSeconds float64  `mapstructure:"noise_seconds"`
	Seed         uint64   `mapstructure:"seed"` // 0 picks a fresh seed each run
	Volume       float64  `mapstructure:"volume"`
	Muted        bool     `mapstructure:"muted"`
	LogLevel     string   `mapstructure:"log_level"`
	Sounds       []string `mapstructure:"sounds"` // Played by `ambience play` with no arguments
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		SampleRate:   ambience.DEFAULT_SAMPLE_RATE,
		Backend:      "oto",
		BufferMS:     int(ambience.DEFAULT_BUFFER_DURATION / time.Millisecond),
		NoiseSeconds: ambience.DEFAULT_NOISE_SECONDS,
		Volume:       ambience.DEFAULT_VOLUME,
		LogLevel:     "warn",
		Sounds:       []string{string(ambience.SoundRain)},
	}
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate < ambience.MIN_SAMPLE_RATE || c.SampleRate > ambience.MAX_SAMPLE_RATE {
		errs = append(errs, fmt.Errorf("sample_rate %d outside %d..%d",
			c.SampleRate, ambience.MIN_SAMPLE_RATE, ambience.MAX_SAMPLE_RATE))
	}
	if _, err := ambience.ParseBackend(c.Backend); err != nil {
		errs = append(errs, fmt.Errorf("backend: %w", err))
	}
	if c.BufferMS < 5 || c.BufferMS > 1000 {
		errs = append(errs, fmt.Errorf("buffer_ms %d outside 5..1000", c.BufferMS))
	}
	if c.NoiseSeconds <= 0 || c.NoiseSeconds > ambience.MAX_NOISE_SECONDS {
		errs = append(errs, fmt.Errorf("noise_seconds %v outside (0, %v]", c.NoiseSeconds, ambience.MAX_NOISE_SECONDS))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %v outside 0..1", c.Volume))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	for _, s := range c.Sounds {
		if _, err := ambience.ParseSoundID(s); err != nil {
			errs = append(errs, fmt.Errorf("sounds: %w", err))
		}
	}
	return errors.Join(errs...)
}

// EngineConfig maps the settings onto an engine configuration. Logger,
// scheduler and output are left for the caller.
func (c Config) EngineConfig() (ambience.Config, error) {
	backend, err := ambience.ParseBackend(c.Backend)
	if err != nil {
		return ambience.Config{}, err
	}
	ec := ambience.DefaultConfig()
	ec.SampleRate = c.SampleRate
	ec.Backend = backend
	ec.BufferDuration = time.Duration(c.BufferMS) * time.Millisecond
	ec.NoiseSeconds = c.NoiseSeconds
	ec.Seed = c.Seed
	ec.Volume = c.Volume
	ec.Muted = c.Muted
	return ec, nil
}

// SoundIDs returns the configured default sounds, validated.
func (c Config) SoundIDs() ([]ambience.SoundID, error) {
	ids := make([]ambience.SoundID, 0, len(c.Sounds))
	for _, s := range c.Sounds {
		id, err := ambience.ParseSoundID(s)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ParseLevel maps a log_level setting to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: want debug, info, warn or error", s)
	}
	return l, nil
}

func defaultValues() map[string]any {
	d := Defaults()
	return map[string]any{
		"sample_rate":   d.SampleRate,
		"backend":       d.Backend,
		"buffer_ms":     d.BufferMS,
		"noise_seconds": d.NoiseSeconds,
		"seed":          d.Seed,
		"volume":        d.Volume,
		"muted":         d.Muted,
		"log_level":     d.LogLevel,
		"sounds":        d.Sounds,
	}
}

// DefaultDir is $XDG_CONFIG_HOME/ambience, falling back to ~/.config/ambience.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, FileName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, FileName)
	}
	return ""
}

// Loader resolves settings with precedence flags > environment > file > defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader. An empty path searches the working directory
// and DefaultDir for ambience.yaml. A .env file in the working directory is
// read into the environment first, without overriding variables already set.
func NewLoader(path string, flags *pflag.FlagSet) (*Loader, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	for key, val := range defaultValues() {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		// Flags use dashes, settings use underscores
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := defaultValues()[key]; !ok {
				return
			}
			if err := v.BindPFlag(key, f); err != nil {
				bindErr = errors.Join(bindErr, err)
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := DefaultDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return &Loader{v: v}, nil
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Load decodes and validates the current settings.
func (l *Loader) Load() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Watch calls fn with the reloaded settings each time the config file is
// written. Invalid edits are reported through onErr and otherwise ignored.
// Does nothing when no file is in use.
func (l *Loader) Watch(fn func(Config), onErr func(error)) {
	if l.File() == "" {
		return
	}
	l.v.OnConfigChange(func(ev fsnotify.Event) {
		if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.Load()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(cfg)
	})
	l.v.WatchConfig()
}
