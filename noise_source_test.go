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
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestNoiseBuffer_LengthAndRange(t *testing.T) {
	buf, err := NewNoiseBuffer(44100, 2, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("NewNoiseBuffer: %v", err)
	}
	if buf.Len() != 88200 {
		t.Fatalf("Len() = %d, want 88200", buf.Len())
	}
	if buf.Duration() != 2 {
		t.Fatalf("Duration() = %v, want 2", buf.Duration())
	}

	var sum, sumSq float64
	for _, s := range buf.samples {
		if s < -1 || s > 1 {
			t.Fatalf("sample %v outside [-1, 1]", s)
		}
		sum += float64(s)
		sumSq += float64(s) * float64(s)
	}
	n := float64(buf.Len())
	if mean := sum / n; math.Abs(mean) > 0.01 {
		t.Errorf("mean = %v, want ~0", mean)
	}
	// Uniform on [-1, 1] has variance 1/3
	if variance := sumSq / n; math.Abs(variance-1.0/3) > 0.01 {
		t.Errorf("variance = %v, want ~0.333", variance)
	}
}

func TestNoiseBuffer_SameSeedSameNoise(t *testing.T) {
	a, _ := NewNoiseBuffer(8000, 0.5, rand.New(rand.NewPCG(7, 7)))
	b, _ := NewNoiseBuffer(8000, 0.5, rand.New(rand.NewPCG(7, 7)))
	for i := range a.samples {
		if a.samples[i] != b.samples[i] {
			t.Fatalf("sample %d differs between identical seeds", i)
		}
	}
}


func TestNoiseBuffer_RejectsBadSizes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	cases := []struct {
		name       string
		sampleRate int
		seconds    float64
	}{
		{"zero rate", 0, 2},
		{"negative length", 44100, -1},
		{"zero length", 44100, 0},
		{"oversized", 44100, MAX_NOISE_SECONDS + 1},
		{"NaN", 44100, math.NaN()},
		{"rounds to empty", 44100, 1e-9},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewNoiseBuffer(c.sampleRate, c.seconds, rng)
			if !errors.Is(err, ErrNoiseBuffer) {
				t.Fatalf("err = %v, want ErrNoiseBuffer", err)
			}
		})
	}
}
