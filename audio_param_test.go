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
	"testing"
)

func newTestContext() *AudioContext {
	return NewAudioContext(testSampleRate, nil)
}

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestParam_DefaultValue(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 0.7, 0, 1)
	if got := p.Value(); got != 0.7 {
		t.Fatalf("default value = %v, want 0.7", got)
	}
}

func TestParam_SetValueAndLinearRamp(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 0, 0, 10)
	p.SetValueAtTime(2, 1)
	p.LinearRampToValueAtTime(6, 3)

	cases := []struct {
		t, want float64
	}{
		{0.5, 0},
		{1, 2},
		{2, 4},
		{3, 6},
		{10, 6},
	}
	for _, c := range cases {
		if got := p.ValueAt(c.t); !approx(got, c.want, 1e-9) {
			t.Errorf("ValueAt(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestParam_RampWithoutPriorEventStartsFromDefault(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 1, 0, 1)
	p.LinearRampToValueAtTime(0, 2)
	if got := p.ValueAt(1); !approx(got, 0.5, 1e-9) {
		t.Fatalf("ValueAt(1) = %v, want 0.5", got)
	}
}

func TestParam_SetTargetApproachesExponentially(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 0, 0, 1)
	p.SetTargetAtTime(1, 0, 0.5)

	if got, want := p.ValueAt(0.5), 1-math.Exp(-1); !approx(got, want, 1e-9) {
		t.Errorf("after one tau = %v, want %v", got, want)
	}
	if got := p.ValueAt(5); got < 0.9999 {
		t.Errorf("after ten tau = %v, want ~1", got)
	}
}

func TestParam_SetTargetWithZeroTauJumps(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 0, 0, 1)
	p.SetTargetAtTime(0.4, 1, 0)
	if got := p.ValueAt(1); got != 0.4 {
		t.Fatalf("ValueAt(1) = %v, want 0.4", got)
	}
}

func TestParam_CancelAndHoldFreezesRamp(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 0, 0, 1)
	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, 1)

	held := p.CancelAndHoldAtTime(0.25)
	if !approx(held, 0.25, 1e-9) {
		t.Fatalf("held = %v, want 0.25", held)
	}
	if got := p.ValueAt(0.9); !approx(got, 0.25, 1e-9) {
		t.Fatalf("value after hold = %v, want 0.25", got)
	}
}

func TestParam_ValueIsClamped(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 0, 0, 1)
	p.SetValueAtTime(5, 0)
	if got := p.Value(); got != 1 {
		t.Fatalf("Value() = %v, want clamp to 1", got)
	}
}

func TestParam_FillFollowsRampPerSample(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 0, 0, 1)
	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, float64(RENDER_QUANTUM)/testSampleRate)

	buf := make([]float32, RENDER_QUANTUM)
	ctx.mu.Lock()
	p.fill(buf, 0, 1.0/testSampleRate)
	ctx.mu.Unlock()

	for i := 1; i < len(buf); i++ {
		if buf[i] <= buf[i-1] {
			t.Fatalf("sample %d = %v not above %v", i, buf[i], buf[i-1])
		}
	}
}

func TestParam_ModulatorIsSummed(t *testing.T) {
	ctx := newTestContext()
	p := newParam(ctx, 100, 0, 1000)
	dc := ctx.NewBufferSource(&NoiseBuffer{samples: []float32{1}, sampleRate: testSampleRate}, 0)
	dc.Start(0)
	depth := ctx.NewGain(50)
	dc.Connect(depth)
	depth.ConnectParam(p)

	ctx.mu.Lock()
	ctx.quantum++
	got := p.kValue(0, RENDER_QUANTUM)
	ctx.mu.Unlock()
	if !approx(got, 150, 1e-6) {
		t.Fatalf("modulated value = %v, want 150", got)
	}

	depth.Disconnect()
	ctx.mu.Lock()
	ctx.quantum++
	got = p.kValue(0, RENDER_QUANTUM)
	ctx.mu.Unlock()
	if got != 100 {
		t.Fatalf("value after disconnect = %v, want 100", got)
	}
}
