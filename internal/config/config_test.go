package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/ambience"
)

// writeConfig writes yaml to a fresh ambience.yaml and returns its path.
func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ambience.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestLoader_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	l, err := NewLoader("", nil)
	require.NoError(t, err)
	assert.Empty(t, l.File())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoader_ReadsFile(t *testing.T) {
	path := writeConfig(t, `
sample_rate: 48000
backend: "null"
buffer_ms: 20
seed: 7
volume: 0.5
muted: true
log_level: debug
sounds: [ocean, crickets]
`)
	l, err := NewLoader(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, l.File())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, "null", cfg.Backend)
	assert.Equal(t, 20, cfg.BufferMS)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 0.5, cfg.Volume)
	assert.True(t, cfg.Muted)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"ocean", "crickets"}, cfg.Sounds)
	assert.Equal(t, ambience.DEFAULT_NOISE_SECONDS, cfg.NoiseSeconds, "unset keys keep their defaults")
}

func TestLoader_Precedence(t *testing.T) {
	path := writeConfig(t, "volume: 0.5\nbackend: ebiten\nseed: 3\n")
	t.Setenv("AMBIENCE_VOLUME", "0.3")
	t.Setenv("AMBIENCE_SEED", "9")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("volume", 0.8, "")
	flags.String("backend", "oto", "")
	flags.String("unrelated-flag", "", "")
	require.NoError(t, flags.Set("volume", "0.1"))

	l, err := NewLoader(path, flags)
	require.NoError(t, err)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.Volume, "flag beats env and file")
	assert.Equal(t, uint64(9), cfg.Seed, "env beats file")
	assert.Equal(t, "ebiten", cfg.Backend, "unchanged flag does not beat file")
}

func TestLoader_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	unsetEnv(t, "AMBIENCE_LOG_LEVEL")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AMBIENCE_LOG_LEVEL=error\n"), 0644))

	l, err := NewLoader("", nil)
	require.NoError(t, err)
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoader_RejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, "volume: 4\nbackend: alsa\nsounds: [thunder]\n")
	l, err := NewLoader(path, nil)
	require.NoError(t, err)

	_, err = l.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ambience.ErrUnknownBackend)
	assert.ErrorIs(t, err, ambience.ErrUnknownSound)
	assert.Contains(t, err.Error(), "volume 4")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sample rate", func(c *Config) { c.SampleRate = 100 }},
		{"sample rate aliases recipes", func(c *Config) { c.SampleRate = 8000 }},
		{"sample rate too high", func(c *Config) { c.SampleRate = 384000 }},
		{"buffer", func(c *Config) { c.BufferMS = 0 }},
		{"noise", func(c *Config) { c.NoiseSeconds = ambience.MAX_NOISE_SECONDS + 1 }},
		{"volume", func(c *Config) { c.Volume = -0.1 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_SampleRateCoversRecipes(t *testing.T) {
	cfg := Defaults()
	cfg.SampleRate = ambience.MIN_SAMPLE_RATE
	require.NoError(t, cfg.Validate())
	nyquist := float64(cfg.SampleRate) / 2
	assert.Less(t, ambience.BIRD_MAX_FREQ+ambience.BIRD_SWEEP, nyquist)
	assert.Less(t, ambience.CRICKET_MAX_FREQ, nyquist)
}

func TestConfig_EngineConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Backend = "null"
	cfg.BufferMS = 25
	cfg.Seed = 11
	cfg.Muted = true

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, ambience.AUDIO_BACKEND_NULL, ec.Backend)
	assert.Equal(t, 25*time.Millisecond, ec.BufferDuration)
	assert.Equal(t, uint64(11), ec.Seed)
	assert.True(t, ec.Muted)
	assert.Equal(t, cfg.Volume, ec.Volume)
}

func TestConfig_SoundIDsDeduplicates(t *testing.T) {
	cfg := Defaults()
	cfg.Sounds = []string{"Rain", "wind", "rain"}
	ids, err := cfg.SoundIDs()
	require.NoError(t, err)
	assert.Equal(t, []ambience.SoundID{ambience.SoundRain, ambience.SoundWind}, ids)
}

func TestLoader_WatchReloads(t *testing.T) {
	path := writeConfig(t, "volume: 0.5\n")
	l, err := NewLoader(path, nil)
	require.NoError(t, err)

	changes := make(chan Config, 8)
	l.Watch(func(c Config) { changes <- c }, nil)
	require.NoError(t, os.WriteFile(path, []byte("volume: 0.25\nmuted: true\n"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			// Editors may produce several events; wait for the final content
			if c.Volume == 0.25 && c.Muted {
				return
			}
		case <-deadline:
			t.Fatal("no reload after editing the config file")
		}
	}
}
