// audio_graph.go - Pull-model signal graph and the shared audio output context

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
	"slices"
	"sync"
	"sync/atomic"
)

// RENDER_QUANTUM is the number of frames rendered per graph pass. Control-rate
// parameters (filter cutoff, Q) are evaluated once per quantum.
const RENDER_QUANTUM = 128

const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

// ContextState tracks whether the device output is pulling samples.
type ContextState int32

const (
	ContextSuspended ContextState = iota
	ContextRunning
	ContextClosed
)

func (s ContextState) String() string {
	switch s {
	case ContextSuspended:
		return "suspended"
	case ContextRunning:
		return "running"
	case ContextClosed:
		return "closed"
	}
	return fmt.Sprintf("ContextState(%d)", int32(s))
}

// Node is a unit in the signal graph. Nodes are created through an
// AudioContext and rendered by pulling from the destination bus.
type Node interface {
	// Connect feeds this node's output into dst.
	Connect(dst Node)
	// ConnectParam adds this node's output to p's automation value.
	ConnectParam(p *Param)
	// Disconnect detaches the node from every destination and parameter.
	Disconnect()

	base() *nodeBase
	render(frames int) []float32
}

type nodeBase struct {
	ctx     *AudioContext
	self    Node
	inputs  []Node
	outputs []Node
	params  []*Param
	quantum uint64
	buf     []float32
	mix     []float32
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) Connect(dst Node) {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	d := dst.base()
	if slices.Contains(d.inputs, b.self) {
		return
	}
	d.inputs = append(d.inputs, b.self)
	b.outputs = append(b.outputs, dst)
}

func (b *nodeBase) ConnectParam(p *Param) {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	if slices.Contains(p.modulators, b.self) {
		return
	}
	p.modulators = append(p.modulators, b.self)
	b.params = append(b.params, p)
}

func (b *nodeBase) Disconnect() {
	b.ctx.mu.Lock()
	defer b.ctx.mu.Unlock()
	for _, dst := range b.outputs {
		d := dst.base()
		d.inputs = slices.DeleteFunc(d.inputs, func(n Node) bool { return n == b.self })
	}
	for _, p := range b.params {
		p.modulators = slices.DeleteFunc(p.modulators, func(n Node) bool { return n == b.self })
	}
	b.outputs = nil
	b.params = nil
}

// cached returns the output buffer for the current quantum and whether it has
// already been rendered. A node pulled twice in one quantum renders once.
func (b *nodeBase) cached(frames int) ([]float32, bool) {
	if cap(b.buf) < frames {
		b.buf = make([]float32, RENDER_QUANTUM)
	}
	if b.quantum == b.ctx.quantum {
		return b.buf[:frames], true
	}
	b.quantum = b.ctx.quantum
	return b.buf[:frames], false
}

// mixInputs sums every input into a scratch buffer.
func (b *nodeBase) mixInputs(frames int) []float32 {
	if cap(b.mix) < frames {
		b.mix = make([]float32, RENDER_QUANTUM)
	}
	mix := b.mix[:frames]
	clear(mix)
	for _, in := range b.inputs {
		out := in.render(frames)
		for i := range mix {
			mix[i] += out[i]
		}
	}
	return mix
}

// AudioContext owns the render clock, the master bus and the device output.
// Graph topology and parameter automation are guarded by mu, which the
// render path holds for one quantum at a time.
type AudioContext struct {
	mu          sync.Mutex
	sampleRate  int
	frames      atomic.Uint64
	quantum     uint64
	destination *GainNode
	output      AudioOutput
	state       atomic.Int32
	log         *slog.Logger
}

// NewAudioContext creates a suspended context with a unity-gain master bus.
func NewAudioContext(sampleRate int, logger *slog.Logger) *AudioContext {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := &AudioContext{sampleRate: sampleRate, log: logger}
	ctx.destination = ctx.NewGain(1.0)
	return ctx
}

func (c *AudioContext) SampleRate() int { return c.sampleRate }

// CurrentTime is the audio clock in seconds: frames rendered so far.
func (c *AudioContext) CurrentTime() float64 { return c.currentTime() }

func (c *AudioContext) currentTime() float64 {
	return float64(c.frames.Load()) / float64(c.sampleRate)
}

// Destination is the master bus every voice feeds.
func (c *AudioContext) Destination() *GainNode { return c.destination }

func (c *AudioContext) State() ContextState { return ContextState(c.state.Load()) }

// attachOutput sets the device sink. The context takes ownership.
func (c *AudioContext) attachOutput(out AudioOutput) {
	c.mu.Lock()
	c.output = out
	c.mu.Unlock()
}

func (c *AudioContext) hasOutput() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output != nil
}

// Resume starts the device output. A context without an output stays
// suspended and reports an error.
func (c *AudioContext) Resume() error {
	if c.State() == ContextClosed {
		return ErrClosed
	}
	c.mu.Lock()
	out := c.output
	c.mu.Unlock()
	if out == nil {
		return fmt.Errorf("resume audio context: %w", ErrNoOutput)
	}
	if err := out.Start(); err != nil {
		return fmt.Errorf("resume audio context: %w", err)
	}
	c.state.Store(int32(ContextRunning))
	c.log.Debug("audio context running", "sample_rate", c.sampleRate)
	return nil
}

// Suspend pauses the device output; the graph is left untouched.
func (c *AudioContext) Suspend() {
	if c.State() != ContextRunning {
		return
	}
	c.mu.Lock()
	out := c.output
	c.mu.Unlock()
	if out != nil {
		out.Stop()
	}
	c.state.Store(int32(ContextSuspended))
	c.log.Debug("audio context suspended", "time", c.currentTime())
}

// Close releases the device output. The context cannot be resumed afterwards.
func (c *AudioContext) Close() error {
	if c.State() == ContextClosed {
		return nil
	}
	c.state.Store(int32(ContextClosed))
	c.mu.Lock()
	out := c.output
	c.output = nil
	c.mu.Unlock()
	if out == nil {
		return nil
	}
	out.Stop()
	return out.Close()
}

// ReadSamples renders len(dst) mono frames from the master bus. It is the
// SampleSource the device backends pull from and advances the audio clock.
func (c *AudioContext) ReadSamples(dst []float32) {
	for off := 0; off < len(dst); off += RENDER_QUANTUM {
		n := min(RENDER_QUANTUM, len(dst)-off)
		c.mu.Lock()
		c.quantum++
		out := c.destination.render(n)
		for i, s := range out {
			dst[off+i] = max(MIN_SAMPLE, min(MAX_SAMPLE, s))
		}
		c.frames.Add(uint64(n))
		c.mu.Unlock()
	}
}

// Render is ReadSamples without a device, used for offline rendering.
func (c *AudioContext) Render(frames int) []float32 {
	out := make([]float32, frames)
	c.ReadSamples(out)
	return out
}
