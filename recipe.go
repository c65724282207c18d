// recipe.go - Building blocks shared by the texture recipes

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

import "time"

const (
	REAP_RETRY   = 50 * time.Millisecond
	REAP_RETRIES = 4
)

// kit hands a recipe the context it builds into and records everything it
// allocates on the voice. Recipes and the callbacks they schedule always run
// with the engine mutex held.
type kit struct {
	e   *Engine
	v   *Voice
	ctx *AudioContext
}

func (k *kit) now() float64 { return k.ctx.CurrentTime() }

func (k *kit) rand() float64 { return k.e.rng.Float64() }

// noise starts a looping player over the shared noise buffer at a random
// offset, so two textures never phase-align on the same samples.
func (k *kit) noise() *BufferSource {
	src := k.ctx.NewBufferSource(k.e.noise, k.e.rng.IntN(k.e.noise.Len()))
	src.Start(k.now())
	k.v.own(src)
	return src
}

func (k *kit) filter(kind FilterType, freq, q float64) *BiquadFilter {
	f := k.ctx.NewBiquadFilter(kind, freq, q)
	k.v.own(f)
	return f
}

func (k *kit) gain(g float64) *GainNode {
	n := k.ctx.NewGain(g)
	k.v.own(n)
	return n
}

// osc returns an oscillator that has not been started yet.
func (k *kit) osc(freq float64) *Oscillator {
	o := k.ctx.NewOscillator(freq)
	k.v.own(o)
	return o
}

// chain connects nodes in series and feeds the last one into the voice output.
func (k *kit) chain(nodes ...Node) {
	for i := 0; i+1 < len(nodes); i++ {
		nodes[i].Connect(nodes[i+1])
	}
	if len(nodes) > 0 {
		nodes[len(nodes)-1].Connect(k.v.output)
	}
}

// every runs fn on the control side for as long as the voice is registered.
func (k *kit) every(d time.Duration, fn func()) {
	k.v.ownTimer(k.e.sched.Every(d, k.e.guard(k.v, fn)))
}

// after runs fn once, unless the voice has gone by then.
func (k *kit) after(d time.Duration, fn func()) {
	var t Timer
	t = k.e.sched.After(d, k.e.guard(k.v, func() {
		k.v.forget(t)
		fn()
	}))
	k.v.ownTimer(t)
}

// reap releases a transient source, and the nodes it feeds, once the source
// has passed its stop time on the audio clock. The control clock can run
// ahead of the device, so an unfinished source is checked again a few times
// before it is released regardless.
func (k *kit) reap(d time.Duration, src *Oscillator, nodes ...Node) {
	tries := 0
	var check func()
	check = func() {
		if !src.Ended() && tries < REAP_RETRIES {
			tries++
			k.after(REAP_RETRY, check)
			return
		}
		k.v.release(append([]Node{src}, nodes...)...)
	}
	k.after(d, check)
}
