// recipe_birds.go - Sparse chirps, one short-lived oscillator each

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
	BIRD_TICK     = 600 * time.Millisecond
	BIRD_CHANCE   = 0.7
	BIRD_MIN_FREQ = 2500.0
	BIRD_MAX_FREQ = 4500.0
	BIRD_SWEEP    = 800.0 // Hz above base at the top of the chirp
	BIRD_SETTLE   = 200.0 // Hz above base at the end
	BIRD_LEVEL    = 0.2

	birdRise     = 0.08
	birdSettle   = 0.15
	birdAttack   = 0.02
	birdDecay    = 0.2
	birdLifetime = 0.25
)

func buildBirds(k *kit) {
	k.every(BIRD_TICK, func() {
		if k.rand() >= BIRD_CHANCE {
			return
		}
		k.v.bursts++
		chirp(k)
	})
}

func chirp(k *kit) {
	t := k.now()
	base := BIRD_MIN_FREQ + k.rand()*(BIRD_MAX_FREQ-BIRD_MIN_FREQ)

	osc := k.osc(base)
	osc.Frequency.SetValueAtTime(base, t)
	osc.Frequency.LinearRampToValueAtTime(base+BIRD_SWEEP, t+birdRise)
	osc.Frequency.LinearRampToValueAtTime(base+BIRD_SETTLE, t+birdSettle)

	env := k.gain(0)
	env.Gain.SetValueAtTime(0, t)
	env.Gain.LinearRampToValueAtTime(BIRD_LEVEL, t+birdAttack)
	env.Gain.LinearRampToValueAtTime(0, t+birdDecay)

	k.chain(osc, env)
	osc.Start(t)
	osc.Stop(t + birdLifetime)

	k.reap(time.Duration(birdLifetime*float64(time.Second))+50*time.Millisecond, osc, env)
}
