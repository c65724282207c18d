// voice.go - One playing texture and everything it owns

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
	"slices"

	"github.com/google/uuid"
)

// VoiceState is the lifecycle position of a voice.
type VoiceState int

const (
	VoiceIdle VoiceState = iota
	VoiceStarting
	VoicePlaying
	VoiceStopping
	VoiceDisposed
)

func (s VoiceState) String() string {
	switch s {
	case VoiceIdle:
		return "idle"
	case VoiceStarting:
		return "starting"
	case VoicePlaying:
		return "playing"
	case VoiceStopping:
		return "stopping"
	case VoiceDisposed:
		return "disposed"
	}
	return fmt.Sprintf("VoiceState(%d)", int(s))
}

// stopper is implemented by the scheduled sources.
type stopper interface {
	Stop(t float64)
}

// Voice is the running instance of one sound. It owns every node and timer
// its recipe created; dispose is the only path that releases them. All fields
// are guarded by the engine mutex.
type Voice struct {
	id     uuid.UUID
	sound  SoundID
	state  VoiceState
	output *GainNode

	nodes   []Node
	timers  []Timer
	pending Timer   // Fade-in completion or deferred teardown
	fadeEnd float64 // Audio time the current fade-in arrives

	// Recipe state
	phase  float64
	bursts int
}

func newVoice(sound SoundID, ctx *AudioContext) *Voice {
	return &Voice{
		id:     uuid.New(),
		sound:  sound,
		state:  VoiceIdle,
		output: ctx.NewGain(0),
	}
}

func (v *Voice) own(n Node) {
	v.nodes = append(v.nodes, n)
}

func (v *Voice) ownTimer(t Timer) {
	v.timers = append(v.timers, t)
}

func (v *Voice) forget(t Timer) {
	v.timers = slices.DeleteFunc(v.timers, func(x Timer) bool { return x == t })
}

// release tears down transient nodes, such as a finished chirp, before the
// voice itself goes.
func (v *Voice) release(nodes ...Node) {
	for _, n := range nodes {
		teardown(n)
	}
	v.nodes = slices.DeleteFunc(v.nodes, func(n Node) bool { return slices.Contains(nodes, n) })
}

func teardown(n Node) {
	if s, ok := n.(stopper); ok {
		s.Stop(0)
	}
	n.Disconnect()
}

func (v *Voice) setPending(t Timer) {
	if v.pending != nil {
		v.pending.Cancel()
	}
	v.pending = t
}

// dispose stops sources, cancels timers and disconnects every owned node.
// Runs once; later calls do nothing.
func (v *Voice) dispose() {
	if v.state == VoiceDisposed {
		return
	}
	v.state = VoiceDisposed
	v.setPending(nil)
	for _, t := range v.timers {
		t.Cancel()
	}
	v.timers = nil
	for _, n := range v.nodes {
		teardown(n)
	}
	v.nodes = nil
	v.output.Disconnect()
}
