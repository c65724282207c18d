// engine.go - Voice registry, lifecycle and master volume for the ambience engine

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
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"sync"
	"time"
)

// Config carries everything an Engine needs. Zero numeric fields take
// defaults, except Volume: 0 is a valid level and is kept. Start from
// DefaultConfig for the default master level.
type Config struct {
	SampleRate     int
	Backend        int
	BufferDuration time.Duration
	NoiseSeconds   float64
	Seed           uint64 // 0 seeds from the clock
	Volume         float64
	Muted          bool

	Logger    *slog.Logger
	Scheduler Scheduler
	// Output overrides backend selection. Tests use it to inject sinks.
	Output OutputFactory
}

func DefaultConfig() Config {
	return Config{
		SampleRate:     DEFAULT_SAMPLE_RATE,
		Backend:        AUDIO_BACKEND_OTO,
		BufferDuration: DEFAULT_BUFFER_DURATION,
		NoiseSeconds:   DEFAULT_NOISE_SECONDS,
		Volume:         DEFAULT_VOLUME,
	}
}

// Engine plays any subset of the built-in textures at once. It is safe for
// use from multiple goroutines; public calls and scheduler callbacks are
// serialized on one mutex, and the device render path only ever contends
// with them for a single quantum at a time.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	log    *slog.Logger
	sched  Scheduler
	rng    *rand.Rand
	noise  *NoiseBuffer
	ctx    *AudioContext
	voices map[SoundID]*Voice
	volume MasterVolume

	initialized bool
	closed      bool
}

// NewEngine creates an engine. Nothing is allocated until Init.
func NewEngine(cfg Config) *Engine {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DEFAULT_SAMPLE_RATE
	}
	if cfg.BufferDuration <= 0 {
		cfg.BufferDuration = DEFAULT_BUFFER_DURATION
	}
	if cfg.NoiseSeconds == 0 {
		cfg.NoiseSeconds = DEFAULT_NOISE_SECONDS
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewClockScheduler()
	}
	if cfg.Output == nil {
		backend, bufferDuration := cfg.Backend, cfg.BufferDuration
		cfg.Output = func(sampleRate int, src SampleSource) (AudioOutput, error) {
			return NewAudioOutput(backend, sampleRate, bufferDuration, src)
		}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Engine{
		cfg:    cfg,
		log:    cfg.Logger,
		sched:  cfg.Scheduler,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		voices: make(map[SoundID]*Voice),
		volume: MasterVolume{Level: clampLevel(cfg.Volume), Muted: cfg.Muted},
	}
}

// Init builds the shared noise buffer. Without it no texture can sound, so a
// failure here is returned rather than degraded.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.initialized {
		return nil
	}
	noise, err := NewNoiseBuffer(e.cfg.SampleRate, e.cfg.NoiseSeconds, e.rng)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}
	e.noise = noise
	e.initialized = true
	e.log.Debug("engine initialized",
		"backend", BackendName(e.cfg.Backend),
		"sample_rate", e.cfg.SampleRate,
		"noise_seconds", noise.Duration())
	return nil
}

// Shutdown tears down every voice and releases the audio device. The engine
// cannot be used afterwards.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.teardownLocked()
	e.closed = true
	if e.ctx == nil {
		return nil
	}
	if err := e.ctx.Close(); err != nil {
		return fmt.Errorf("shutdown engine: %w", err)
	}
	return nil
}

// Play starts a texture with a fade-in. Any sound that already has a voice,
// fading out included, is left alone.
func (e *Engine) Play(id SoundID) error {
	def, err := lookupSound(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if !e.initialized {
		return ErrNotInitialized
	}

	if _, ok := e.voices[id]; ok {
		return nil
	}

	ctx := e.ensureContext()
	v := newVoice(id, ctx)
	e.voices[id] = v
	def.recipe(&kit{e: e, v: v, ctx: ctx})
	v.output.Connect(ctx.Destination())
	e.startFade(v)
	e.log.Debug("voice started", "sound", id, "voice", v.id, "nodes", len(v.nodes))
	return nil
}

// Resume brings back a voice that is fading out: its teardown is cancelled
// and the fade-in restarts from the current gain. Reports whether a voice was
// revived.
func (e *Engine) Resume(id SoundID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.voices[id]
	if !ok || v.state != VoiceStopping || e.closed {
		return false
	}
	e.startFade(v)
	e.log.Debug("voice resumed", "sound", id, "voice", v.id)
	return true
}

// startFade ramps the voice output to the master level and marks it Playing
// once the ramp is done.
func (e *Engine) startFade(v *Voice) {
	v.state = VoiceStarting
	v.fadeEnd = fadeIn(v.output.Gain, e.ctx.CurrentTime(), e.volume.Effective())
	v.setPending(e.sched.After(secondsToDuration(FADE_IN_SECONDS), e.guard(v, func() {
		if v.state == VoiceStarting {
			v.state = VoicePlaying
		}
	})))
}

// Stop fades a texture out and disposes of it after the teardown delay.
// Unknown or already stopping sounds are ignored.
func (e *Engine) Stop(id SoundID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.voices[id]; ok {
		e.stopLocked(v)
	}
}

// StopAll fades out every voice.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.voices {
		e.stopLocked(v)
	}
}

func (e *Engine) stopLocked(v *Voice) {
	if v.state == VoiceStopping || v.state == VoiceDisposed {
		return
	}
	v.state = VoiceStopping
	fadeOut(v.output.Gain, e.ctx.CurrentTime())
	v.setPending(e.sched.After(TEARDOWN_DELAY, e.guard(v, func() {
		delete(e.voices, v.sound)
		v.dispose()
		e.log.Debug("voice disposed", "sound", v.sound, "voice", v.id)
	})))
	e.log.Debug("voice stopping", "sound", v.sound, "voice", v.id)
}

// ForceTeardown silences everything at once: no fades, every voice disposed
// and the device suspended. Used when the listener goes away.
func (e *Engine) ForceTeardown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
}

func (e *Engine) teardownLocked() {
	for id, v := range e.voices {
		v.dispose()
		delete(e.voices, id)
	}
	if e.ctx != nil {
		e.ctx.Suspend()
	}
}

// SetVolume sets the master level, clamped to [0, 1].
func (e *Engine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume.Level = clampLevel(level)
	e.applyVolume()
}

func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume.Muted = muted
	e.applyVolume()
}

// applyVolume moves every fading-in or playing voice to the new level.
// Fading-out voices keep heading for silence.
func (e *Engine) applyVolume() {
	if e.ctx == nil {
		return
	}
	target := e.volume.Effective()
	now := e.ctx.CurrentTime()
	for _, v := range e.voices {
		switch v.state {
		case VoiceStarting:
			end := max(now+VOLUME_SMOOTH_SECONDS, v.fadeEnd)
			retarget(v.output.Gain, now, target, end)
			v.fadeEnd = end
		case VoicePlaying:
			retarget(v.output.Gain, now, target, now+VOLUME_SMOOTH_SECONDS)
		}
	}
}

func (e *Engine) Volume() MasterVolume {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// IsPlaying reports whether a voice is registered for id, fading out included.
func (e *Engine) IsPlaying(id SoundID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.voices[id]
	return ok
}

// State returns the lifecycle state of id's voice, VoiceIdle when there is none.
func (e *Engine) State(id SoundID) VoiceState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.voices[id]; ok {
		return v.state
	}
	return VoiceIdle
}

// Active lists the registered sounds in sorted order.
func (e *Engine) Active() []SoundID {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]SoundID, 0, len(e.voices))
	for id := range e.voices {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Context returns the audio context, or nil before the first Play.
func (e *Engine) Context() *AudioContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// ensureContext creates the audio context on first use and makes sure it is
// running. A missing or failing device is logged and the engine carries on
// silently; voices still register and their timers still run.
func (e *Engine) ensureContext() *AudioContext {
	if e.ctx == nil {
		e.ctx = NewAudioContext(e.cfg.SampleRate, e.log)
	}
	if !e.ctx.hasOutput() {
		out, err := e.cfg.Output(e.cfg.SampleRate, e.ctx)
		if err != nil {
			e.log.Warn("audio output unavailable", "err", err)
			return e.ctx
		}
		e.ctx.attachOutput(out)
	}
	if e.ctx.State() != ContextRunning {
		if err := e.ctx.Resume(); err != nil {
			e.log.Warn("audio output did not resume", "err", err)
		}
	}
	return e.ctx
}

// guard wraps a scheduler callback so it runs under the engine mutex and only
// while v is still the registered voice for its sound.
func (e *Engine) guard(v *Voice, fn func()) func() {
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if v.state == VoiceDisposed || e.voices[v.sound] != v {
			return
		}
		fn()
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
