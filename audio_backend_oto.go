//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

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

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process
var (
	otoOnce    sync.Once
	otoCtx     *oto.Context
	otoRate    int
	otoInitErr error
)

func otoContext(sampleRate int, bufferDuration time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			BufferSize:   bufferDuration,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	if otoInitErr != nil {
		return nil, fmt.Errorf("oto: %w", otoInitErr)
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("oto: context already open at %d Hz, want %d Hz", otoRate, sampleRate)
	}
	return otoCtx, nil
}

type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	src       atomic.Pointer[SampleSource] // Atomic for lock-free Read()
	sampleBuf []float32                    // Pre-allocated sample buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate int, bufferDuration time.Duration) (*OtoPlayer, error) {
	ctx, err := otoContext(sampleRate, bufferDuration)
	if err != nil {
		return nil, err
	}
	return &OtoPlayer{ctx: ctx}, nil
}

func (op *OtoPlayer) SetupPlayer(src SampleSource) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.src.Store(&src)
	op.player = op.ctx.NewPlayer(op)
	// Pre-allocate for typical oto reads (4096 bytes = 1024 float32 samples)
	op.sampleBuf = make([]float32, 1024)
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	src := op.src.Load()
	numSamples := len(p) / 4
	if src == nil {
		clear(p[:numSamples*4])
		return numSamples * 4, nil
	}

	// Only the oto goroutine touches sampleBuf after SetupPlayer
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]
	(*src).ReadSamples(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return numSamples * 4, nil
}

func (op *OtoPlayer) Start() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player == nil {
		return fmt.Errorf("oto: %w", ErrNoOutput)
	}
	if err := op.ctx.Resume(); err != nil {
		return fmt.Errorf("oto: resume: %w", err)
	}
	if !op.started {
		op.player.Play()
		op.started = true
	}
	return nil
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() error {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player == nil {
		return nil
	}
	err := op.player.Close()
	op.player = nil
	op.src.Store(nil)
	return err
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
