// recipe_crickets.go - Pulsed high tones at irregular intervals

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
	CRICKET_MIN_GAP  = 350 * time.Millisecond
	CRICKET_MAX_GAP  = 550 * time.Millisecond
	CRICKET_MIN_FREQ = 3800.0
	CRICKET_MAX_FREQ = 4600.0
	CRICKET_PULSES   = 6
	CRICKET_LEVEL    = 0.15

	cricketPulse    = 0.02 // On and off time of each pulse
	cricketEdge     = 0.002
	cricketLifetime = 0.3
)

// buildCrickets chains one-shot timers so every gap is drawn fresh.
func buildCrickets(k *kit) {
	scheduleCricket(k)
}

func scheduleCricket(k *kit) {
	gap := CRICKET_MIN_GAP + time.Duration(k.rand()*float64(CRICKET_MAX_GAP-CRICKET_MIN_GAP))
	k.after(gap, func() {
		k.v.bursts++
		cricketBurst(k)
		scheduleCricket(k)
	})
}

func cricketBurst(k *kit) {
	t := k.now()
	osc := k.osc(CRICKET_MIN_FREQ + k.rand()*(CRICKET_MAX_FREQ-CRICKET_MIN_FREQ))

	env := k.gain(0)
	for i := range CRICKET_PULSES {
		on := t + float64(i)*2*cricketPulse
		env.Gain.SetValueAtTime(0, on)
		env.Gain.LinearRampToValueAtTime(CRICKET_LEVEL, on+cricketEdge)
		env.Gain.SetValueAtTime(CRICKET_LEVEL, on+cricketPulse-cricketEdge)
		env.Gain.LinearRampToValueAtTime(0, on+cricketPulse)
	}

	k.chain(osc, env)
	osc.Start(t)
	osc.Stop(t + cricketLifetime)

	k.reap(time.Duration(cricketLifetime*float64(time.Second))+50*time.Millisecond, osc, env)
}
