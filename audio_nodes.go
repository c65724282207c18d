// audio_nodes.go - Sources, filters and gain stages for the signal graph

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
	"math"
)

const (
	MIN_FILTER_FREQ = 10.0
	MAX_FILTER_Q    = 30.0
	MIN_FILTER_Q    = 0.05
	MAX_GAIN        = 1000.0

	// Butterworth Q, used where a recipe does not specify one
	DEFAULT_Q = math.Sqrt2 / 2
)

// FilterType selects the biquad response.
type FilterType int

const (
	FilterLowpass FilterType = iota
	FilterHighpass
	FilterBandpass
)

func (f FilterType) String() string {
	switch f {
	case FilterLowpass:
		return "lowpass"
	case FilterHighpass:
		return "highpass"
	case FilterBandpass:
		return "bandpass"
	}
	return "unknown"
}

// ---- Gain -----------------------------------------------------------------

// GainNode multiplies the sum of its inputs by an audio-rate gain parameter.
type GainNode struct {
	nodeBase
	Gain  *Param
	curve []float32
}

func (c *AudioContext) NewGain(gain float64) *GainNode {
	g := &GainNode{}
	g.ctx = c
	g.self = g
	g.Gain = newParam(c, gain, 0, MAX_GAIN)
	return g
}

func (g *GainNode) render(frames int) []float32 {
	out, done := g.cached(frames)
	if done {
		return out
	}
	in := g.mixInputs(frames)
	if cap(g.curve) < frames {
		g.curve = make([]float32, RENDER_QUANTUM)
	}
	curve := g.curve[:frames]
	g.Gain.fill(curve, g.ctx.currentTime(), 1/float64(g.ctx.sampleRate))
	for i := range out {
		out[i] = in[i] * curve[i]
	}
	return out
}

// ---- Biquad filter --------------------------------------------------------

// BiquadFilter is an RBJ-cookbook second-order filter. Frequency and Q are
// evaluated once per render quantum.
type BiquadFilter struct {
	nodeBase
	Type      FilterType
	Frequency *Param
	Q         *Param

	lastFreq, lastQ    float64
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func (c *AudioContext) NewBiquadFilter(kind FilterType, freq, q float64) *BiquadFilter {
	f := &BiquadFilter{Type: kind}
	f.ctx = c
	f.self = f
	f.Frequency = newParam(c, freq, MIN_FILTER_FREQ, float64(c.sampleRate)*0.49)
	f.Q = newParam(c, q, MIN_FILTER_Q, MAX_FILTER_Q)
	return f
}

func (f *BiquadFilter) updateCoefficients(freq, q float64) {
	if freq == f.lastFreq && q == f.lastQ {
		return
	}
	f.lastFreq, f.lastQ = freq, q

	w0 := 2 * math.Pi * freq / float64(f.ctx.sampleRate)
	cosW, sinW := math.Cos(w0), math.Sin(w0)
	alpha := sinW / (2 * q)
	a0 := 1 + alpha

	var b0, b1, b2 float64
	switch f.Type {
	case FilterLowpass:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = b0
	case FilterHighpass:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = b0
	case FilterBandpass:
		// Constant 0 dB peak gain
		b0 = alpha
		b1 = 0
		b2 = -alpha
	}
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1 = -2 * cosW / a0
	f.a2 = (1 - alpha) / a0
}

func (f *BiquadFilter) render(frames int) []float32 {
	out, done := f.cached(frames)
	if done {
		return out
	}
	in := f.mixInputs(frames)
	t0 := f.ctx.currentTime()
	f.updateCoefficients(f.Frequency.kValue(t0, frames), f.Q.kValue(t0, frames))

	for i, s := range in {
		x := float64(s)
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		out[i] = float32(y)
	}
	// Flush denormals once the input has gone quiet
	if math.Abs(f.y1) < 1e-15 && math.Abs(f.y2) < 1e-15 {
		f.y1, f.y2 = 0, 0
	}
	return out
}

// ---- Scheduled sources ----------------------------------------------------

// scheduled holds the start/stop window shared by oscillators and buffer players.
type scheduled struct {
	startAt float64
	stopAt  float64
	started bool
}

func (s *scheduled) active(t float64) bool {
	return s.started && t >= s.startAt && t < s.stopAt
}

// Oscillator is a sine source with an audio-rate frequency parameter.
type Oscillator struct {
	nodeBase
	scheduled
	Frequency *Param
	phase     float64
	freqs     []float32
}

func (c *AudioContext) NewOscillator(freq float64) *Oscillator {
	o := &Oscillator{}
	o.ctx = c
	o.self = o
	o.stopAt = math.Inf(1)
	o.Frequency = newParam(c, freq, -float64(c.sampleRate)/2, float64(c.sampleRate)/2)
	return o
}

// Start begins output at audio time t.
func (o *Oscillator) Start(t float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	o.started = true
	o.startAt = t
}

// Stop silences the oscillator from audio time t onwards. An earlier stop time wins.
func (o *Oscillator) Stop(t float64) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	o.stopAt = math.Min(o.stopAt, t)
}

// Ended reports whether the oscillator has passed its stop time.
func (o *Oscillator) Ended() bool {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()
	return o.ctx.currentTime() >= o.stopAt
}

func (o *Oscillator) render(frames int) []float32 {
	out, done := o.cached(frames)
	if done {
		return out
	}
	t0 := o.ctx.currentTime()
	dt := 1 / float64(o.ctx.sampleRate)
	if !o.started || t0+float64(frames)*dt <= o.startAt || t0 >= o.stopAt {
		clear(out)
		return out
	}
	if cap(o.freqs) < frames {
		o.freqs = make([]float32, RENDER_QUANTUM)
	}
	freqs := o.freqs[:frames]
	o.Frequency.fill(freqs, t0, dt)
	for i := range out {
		if !o.active(t0 + float64(i)*dt) {
			out[i] = 0
			continue
		}
		out[i] = float32(math.Sin(o.phase))
		o.phase += 2 * math.Pi * float64(freqs[i]) * dt
		if o.phase >= 2*math.Pi {
			o.phase -= 2 * math.Pi
		} else if o.phase < 0 {
			o.phase += 2 * math.Pi
		}
	}
	return out
}

// BufferSource plays a shared noise buffer, looping, from its own read position.
type BufferSource struct {
	nodeBase
	scheduled
	buffer *NoiseBuffer
	pos    int
	loop   bool
}

func (c *AudioContext) NewBufferSource(buf *NoiseBuffer, offset int) *BufferSource {
	s := &BufferSource{buffer: buf, loop: true}
	s.ctx = c
	s.self = s
	s.stopAt = math.Inf(1)
	if n := buf.Len(); n > 0 {
		s.pos = ((offset % n) + n) % n
	}
	return s
}

func (s *BufferSource) Start(t float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.started = true
	s.startAt = t
}

func (s *BufferSource) Stop(t float64) {
	s.ctx.mu.Lock()
	defer s.ctx.mu.Unlock()
	s.stopAt = math.Min(s.stopAt, t)
}

func (s *BufferSource) render(frames int) []float32 {
	out, done := s.cached(frames)
	if done {
		return out
	}
	samples := s.buffer.samples
	t0 := s.ctx.currentTime()
	dt := 1 / float64(s.ctx.sampleRate)
	for i := range out {
		if !s.active(t0+float64(i)*dt) || s.pos >= len(samples) {
			out[i] = 0
			continue
		}
		out[i] = samples[s.pos]
		s.pos++
		if s.pos >= len(samples) && s.loop {
			s.pos = 0
		}
	}
	return out
}
