// noise_source.go - Shared white-noise buffer for the noise-based textures

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
	"math"
	"math/rand/v2"
)

const (
	DEFAULT_NOISE_SECONDS = 2.0
	MAX_NOISE_SECONDS     = 60.0
)

// NoiseBuffer is a block of independent uniform samples in [-1, 1]. It is
// built once per engine and only ever read afterwards, so every voice can
// loop it from its own position without copying.
type NoiseBuffer struct {
	samples    []float32
	sampleRate int
}

// NewNoiseBuffer fills seconds of noise at sampleRate from rng.
func NewNoiseBuffer(sampleRate int, seconds float64, rng *rand.Rand) (*NoiseBuffer, error) {
	if sampleRate <= 0 || seconds <= 0 || seconds > MAX_NOISE_SECONDS || math.IsNaN(seconds) {
		return nil, fmt.Errorf("%w: %.3fs at %d Hz", ErrNoiseBuffer, seconds, sampleRate)
	}
	n := int(math.Round(seconds * float64(sampleRate)))
	if n <= 0 {
		return nil, fmt.Errorf("%w: %.3fs at %d Hz is empty", ErrNoiseBuffer, seconds, sampleRate)
	}

	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(rng.Float64()*2 - 1)
	}
	return &NoiseBuffer{samples: samples, sampleRate: sampleRate}, nil
}

func (b *NoiseBuffer) Len() int { return len(b.samples) }

// Duration returns the loop length in seconds.
func (b *NoiseBuffer) Duration() float64 {
	return float64(len(b.samples)) / float64(b.sampleRate)
}
