// envelope.go - Click-free gain ramps on each voice's output stage

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
	FADE_IN_SECONDS       = 0.5
	FADE_OUT_SECONDS      = 0.3
	VOLUME_SMOOTH_SECONDS = 0.1

	// Teardown waits a little past the fade-out so the ramp reaches zero
	// before the nodes are disconnected.
	TEARDOWN_DELAY = 400 * time.Millisecond
)

// fadeIn ramps gain from wherever it currently is to target over the fade-in
// window. Returns the audio time the ramp ends.
func fadeIn(gain *Param, now, target float64) float64 {
	end := now + FADE_IN_SECONDS
	retarget(gain, now, target, end)
	return end
}

// fadeOut freezes gain at its current value and ramps it to zero.
func fadeOut(gain *Param, now float64) {
	retarget(gain, now, 0, now+FADE_OUT_SECONDS)
}

// retarget drops whatever the gain was doing and ramps linearly from its held
// value to target, arriving at end. Hold and ramp happen under one lock so the
// render path never sees the gap between them.
func retarget(gain *Param, now, target, end float64) {
	gain.ctx.mu.Lock()
	defer gain.ctx.mu.Unlock()
	gain.holdAt(now)
	gain.insert(autoEvent{kind: autoLinearRamp, time: end, value: target})
}
