// audio_param.go - Automatable node parameters for the ambience signal graph

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
	"slices"
)

const (
	autoSetValue = iota
	autoLinearRamp
	autoSetTarget
)

type autoEvent struct {
	kind  int
	time  float64 // Audio-clock seconds
	value float64 // Value, ramp end value or target
	tau   float64 // Time constant for autoSetTarget
}

// Param is a node parameter whose value follows a timeline of automation
// events on the audio clock, plus the summed output of any modulator nodes
// connected to it. All methods are safe to call while the context renders.
type Param struct {
	ctx        *AudioContext
	def        float64
	minValue   float64
	maxValue   float64
	events     []autoEvent
	modulators []Node
	modBuf     []float32
}

func newParam(ctx *AudioContext, def, minValue, maxValue float64) *Param {
	return &Param{
		ctx:      ctx,
		def:      def,
		minValue: minValue,
		maxValue: maxValue,
	}
}

// Value returns the automation value at the context's current time.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.clamp(p.valueAt(p.ctx.currentTime()))
}

// ValueAt returns the automation value (modulators excluded) at time t.
func (p *Param) ValueAt(t float64) float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.clamp(p.valueAt(t))
}

// SetValueAtTime jumps to v at time t.
func (p *Param) SetValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(autoEvent{kind: autoSetValue, time: t, value: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to v, arriving at t.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(autoEvent{kind: autoLinearRamp, time: t, value: v})
}

// SetTargetAtTime starts an exponential approach towards target at time t.
func (p *Param) SetTargetAtTime(target, t, tau float64) {
	if tau <= 0 {
		p.SetValueAtTime(target, t)
		return
	}
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	p.insert(autoEvent{kind: autoSetTarget, time: t, value: target, tau: tau})
}

// CancelAndHoldAtTime freezes the parameter at whatever value it has at t,
// discarding any ramp in flight and everything scheduled after it. Returns the
// held value.
func (p *Param) CancelAndHoldAtTime(t float64) float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()
	return p.holdAt(t)
}

// holdAt requires ctx.mu.
func (p *Param) holdAt(t float64) float64 {
	v := p.valueAt(t)
	// Rendering never looks behind the current time, so the held value fully
	// describes the past as well.
	p.events = append(p.events[:0], autoEvent{kind: autoSetValue, time: t, value: v})
	return v
}

func (p *Param) insert(ev autoEvent) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time > ev.time {
		i--
	}
	p.events = slices.Insert(p.events, i, ev)
}

func (p *Param) clamp(v float64) float64 {
	return math.Max(p.minValue, math.Min(p.maxValue, v))
}

// valueAt evaluates the automation timeline at time x. Requires ctx.mu.
func (p *Param) valueAt(x float64) float64 {
	v := p.def // Value at the start of the current segment
	t := 0.0   // Start time of the current segment
	kind := autoSetValue
	target, tau := 0.0, 0.0

	for _, ev := range p.events {
		if ev.time > x {
			if ev.kind == autoLinearRamp && ev.time > t {
				return v + (ev.value-v)*(x-t)/(ev.time-t)
			}
			break
		}
		if kind == autoSetTarget {
			v = target + (v-target)*math.Exp(-(ev.time-t)/tau)
		}
		switch ev.kind {
		case autoSetValue, autoLinearRamp:
			v = ev.value
		case autoSetTarget:
			target, tau = ev.value, ev.tau
		}
		kind = ev.kind
		t = ev.time
	}

	if kind == autoSetTarget {
		return target + (v-target)*math.Exp(-(x-t)/tau)
	}
	return v
}

// fill writes per-sample values for a quantum starting at t0. Requires ctx.mu.
func (p *Param) fill(dst []float32, t0, dt float64) {
	constant := true
	if n := len(p.events); n > 0 {
		last := p.events[n-1]
		constant = last.time <= t0 && last.kind != autoSetTarget
	}
	if constant {
		v := float32(p.valueAt(t0))
		for i := range dst {
			dst[i] = v
		}
	} else {
		for i := range dst {
			dst[i] = float32(p.valueAt(t0 + float64(i)*dt))
		}
	}
	p.addModulation(dst)
	lo, hi := float32(p.minValue), float32(p.maxValue)
	for i, v := range dst {
		dst[i] = max(lo, min(hi, v))
	}
}

// kValue returns the control-rate value for a quantum starting at t0. Requires ctx.mu.
func (p *Param) kValue(t0 float64, frames int) float64 {
	v := p.valueAt(t0)
	if len(p.modulators) > 0 {
		if cap(p.modBuf) < frames {
			p.modBuf = make([]float32, frames)
		}
		buf := p.modBuf[:frames]
		clear(buf)
		p.addModulation(buf)
		v += float64(buf[0])
	}
	return p.clamp(v)
}

func (p *Param) addModulation(dst []float32) {
	for _, m := range p.modulators {
		out := m.render(len(dst))
		for i := range dst {
			dst[i] += out[i]
		}
	}
}
