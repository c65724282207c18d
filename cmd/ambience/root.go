/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/ambience
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/intuitionamiga/ambience"
	"github.com/intuitionamiga/ambience/internal/config"
)

var (
	cfgFile string
	loader  *config.Loader
	cfg     config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ambience",
	Short: "Procedural ambient soundscapes",
	Long: `ambience synthesizes looping ambient textures (rain, ocean, forest birds,
wind, fire and night crickets) from noise and oscillators, with no recorded
samples. Any subset can play at once under a shared master volume.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	d := config.Defaults()
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./ambience.yaml or $XDG_CONFIG_HOME/ambience/ambience.yaml)")
	pf.String("backend", d.Backend, "audio backend: oto, ebiten or null")
	pf.Int("sample-rate", d.SampleRate, "output sample rate in Hz")
	pf.Int("buffer-ms", d.BufferMS, "device buffer length in milliseconds")
	pf.Float64("noise-seconds", d.NoiseSeconds, "length of the shared noise loop")
	pf.Uint64("seed", d.Seed, "random seed, 0 for a fresh one each run")
	pf.Float64("volume", d.Volume, "master volume 0..1")
	pf.Bool("muted", d.Muted, "start muted")
	pf.String("log-level", d.LogLevel, "debug, info, warn or error")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	loader, err = config.NewLoader(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err = loader.Load()
	if err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if f := loader.File(); f != "" {
		logger.Debug("config loaded", "file", f)
	}
	return nil
}

// newEngine builds and initializes an engine from the loaded settings.
func newEngine() (*ambience.Engine, error) {
	ec, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	ec.Logger = logger
	e := ambience.NewEngine(ec)
	if err := e.Init(); err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	return e, nil
}

func shutdown(e *ambience.Engine) {
	if err := e.Shutdown(); err != nil {
		logger.Warn("shutdown", "err", err)
	}
}

// parseSounds resolves command arguments, falling back to the configured
// default set.
func parseSounds(args []string) ([]ambience.SoundID, error) {
	if len(args) == 0 {
		return cfg.SoundIDs()
	}
	ids := make([]ambience.SoundID, 0, len(args))
	for _, arg := range args {
		id, err := ambience.ParseSoundID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
