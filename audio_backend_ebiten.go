//go:build !headless

// audio_backend_ebiten.go - Ebiten audio output implementation

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

package ambience

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// EbitenPlayer routes the mono render through Ebiten's stereo float32
// player. Useful when the host application already owns an Ebiten audio
// context, since a process may only open one.
type EbitenPlayer struct {
	ctx            *audio.Context
	player         *audio.Player
	bufferDuration time.Duration
	src            atomic.Pointer[SampleSource]
	sampleBuf      []float32
	started        bool
	mutex          sync.Mutex
}

func NewEbitenPlayer(sampleRate int, bufferDuration time.Duration) (*EbitenPlayer, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	if ctx.SampleRate() != sampleRate {
		return nil, fmt.Errorf("ebiten: audio context runs at %d Hz, want %d Hz", ctx.SampleRate(), sampleRate)
	}
	return &EbitenPlayer{ctx: ctx, bufferDuration: bufferDuration}, nil
}

func (ep *EbitenPlayer) SetupPlayer(src SampleSource) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	ep.src.Store(&src)
	ep.sampleBuf = make([]float32, 1024)
}

// Read emits interleaved stereo float32 frames, 8 bytes each.
func (ep *EbitenPlayer) Read(p []byte) (int, error) {
	frames := len(p) / 8
	src := ep.src.Load()
	if src == nil {
		clear(p[:frames*8])
		return frames * 8, nil
	}
	if len(ep.sampleBuf) < frames {
		ep.sampleBuf = make([]float32, frames)
	}
	samples := ep.sampleBuf[:frames]
	(*src).ReadSamples(samples)
	for i, s := range samples {
		bits := math.Float32bits(s)
		binary.LittleEndian.PutUint32(p[i*8:], bits)
		binary.LittleEndian.PutUint32(p[i*8+4:], bits)
	}
	return frames * 8, nil
}

func (ep *EbitenPlayer) Start() error {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.player == nil {
		player, err := ep.ctx.NewPlayerF32(ep)
		if err != nil {
			return fmt.Errorf("ebiten: %w", err)
		}
		if ep.bufferDuration > 0 {
			player.SetBufferSize(ep.bufferDuration)
		}
		ep.player = player
	}
	if !ep.started {
		ep.player.Play()
		ep.started = true
	}
	return nil
}

func (ep *EbitenPlayer) Stop() {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	if ep.started && ep.player != nil {
		ep.player.Pause()
		ep.started = false
	}
}

func (ep *EbitenPlayer) Close() error {
	ep.Stop()
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	if ep.player == nil {
		return nil
	}
	err := ep.player.Close()
	ep.player = nil
	ep.src.Store(nil)
	return err
}

func (ep *EbitenPlayer) IsStarted() bool {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	return ep.started
}
