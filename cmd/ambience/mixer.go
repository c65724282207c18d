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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/ambience"
	"github.com/intuitionamiga/ambience/internal/config"
)

const (
	VOLUME_STEP     = 0.05
	STATUS_INTERVAL = 200 * time.Millisecond
)

var errQuit = errors.New("quit")

var mixerCmd = &cobra.Command{
	Use:   "mixer [sound...]",
	Short: "Interactive mixer",
	Long: `Toggle textures from the keyboard:

  1-6  toggle a sound        +/-  volume up/down
  m    mute/unmute           s    stop everything
  h    hide (silence now)    q    quit

Toggling a sound that is still fading out brings it back.
Switching away from the terminal window also silences everything.
Edits to the config file's volume and muted settings apply live.`,
	RunE: runMixer,
}

func init() {
	rootCmd.AddCommand(mixerCmd)
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#73F59F"))
	styleOn      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#54A0FF"))
	styleFading  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FECA57"))
	styleOff     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	styleVolume  = lipgloss.NewStyle().Foreground(lipgloss.Color("#BBBBBB"))
	mixerSounds  = ambience.Sounds()
	clearLineSeq = "\r\x1b[K"
)

const (
	focusReportOn  = "\x1b[?1004h"
	focusReportOff = "\x1b[?1004l"
)

// mixer maps key presses onto engine calls.
type mixer struct {
	e   *ambience.Engine
	esc int // progress through an ESC [ I/O focus report
}

// handleKey applies one key press. Returns errQuit on q or Ctrl-C.
// A terminal focus-out report silences everything at once.
func (m *mixer) handleKey(k byte) error {
	switch {
	case k == 0x1b:
		m.esc = 1
		return nil
	case m.esc == 1 && k == '[':
		m.esc = 2
		return nil
	case m.esc == 2:
		m.esc = 0
		if k == 'O' {
			m.e.ForceTeardown()
		}
		return nil
	}
	m.esc = 0

	switch {
	case k >= '1' && k <= '9':
		i := int(k - '1')
		if i >= len(mixerSounds) {
			return nil
		}
		id := mixerSounds[i].ID
		switch m.e.State(id) {
		case ambience.VoiceStarting, ambience.VoicePlaying:
			m.e.Stop(id)
			return nil
		case ambience.VoiceStopping:
			m.e.Resume(id)
			return nil
		}
		return m.e.Play(id)
	case k == '+' || k == '=':
		m.e.SetVolume(m.e.Volume().Level + VOLUME_STEP)
	case k == '-' || k == '_':
		m.e.SetVolume(m.e.Volume().Level - VOLUME_STEP)
	case k == 'm':
		m.e.SetMuted(!m.e.Volume().Muted)
	case k == 's':
		m.e.StopAll()
	case k == 'h':
		m.e.ForceTeardown()
	case k == 'q' || k == 3: // 3 is Ctrl-C in raw mode
		return errQuit
	}
	return nil
}

// status renders a one-line view of every texture and the master volume.
func (m *mixer) status() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("ambience"))
	for i, def := range mixerSounds {
		label := fmt.Sprintf(" %d:%s", i+1, def.ID)
		switch m.e.State(def.ID) {
		case ambience.VoiceStarting, ambience.VoicePlaying:
			b.WriteString(styleOn.Render(label))
		case ambience.VoiceStopping:
			b.WriteString(styleFading.Render(label))
		default:
			b.WriteString(styleOff.Render(label))
		}
	}
	vol := m.e.Volume()
	if vol.Muted {
		b.WriteString(styleMuted.Render("  muted"))
	} else {
		b.WriteString(styleVolume.Render(fmt.Sprintf("  vol %3.0f%%", vol.Level*100)))
	}
	return b.String()
}

func (m *mixer) draw(w io.Writer) {
	fmt.Fprint(w, clearLineSeq+m.status())
}

func runMixer(cmd *cobra.Command, args []string) error {
	ids, err := parseSounds(args)
	if err != nil {
		return err
	}
	e, err := newEngine()
	if err != nil {
		return err
	}
	defer shutdown(e)
	for _, id := range ids {
		if err := e.Play(id); err != nil {
			return err
		}
	}

	keys := NewKeyReader()
	if err := keys.Start(); err != nil {
		return err
	}
	defer keys.Stop()

	m := &mixer{e: e}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, focusReportOn)
	defer fmt.Fprint(out, focusReportOff)
	loader.Watch(func(c config.Config) {
		e.SetVolume(c.Volume)
		e.SetMuted(c.Muted)
	}, func(err error) {
		logger.Warn("config reload rejected", "err", err)
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(STATUS_INTERVAL)
		defer ticker.Stop()
		for {
			m.draw(out)
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case k, ok := <-keys.Keys():
				if !ok {
					return nil
				}
				if err := m.handleKey(k); err != nil {
					return err
				}
				m.draw(out)
			}
		}
	})

	err = g.Wait()
	e.ForceTeardown()
	fmt.Fprint(out, clearLineSeq)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
