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

func rms(buf []float32) float64 {
	var sum float64
	for _, s := range buf {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(buf)))
}

// toneThrough renders a sine of freq through a filter and returns the output
// level once the filter has settled.
func toneThrough(kind FilterType, cutoff, freq float64) float64 {
	ctx := newTestContext()
	osc := ctx.NewOscillator(freq)
	filter := ctx.NewBiquadFilter(kind, cutoff, DEFAULT_Q)
	osc.Connect(filter)
	filter.Connect(ctx.Destination())
	osc.Start(0)
	ctx.Render(testSampleRate / 4)
	return rms(ctx.Render(testSampleRate / 4))
}

func TestBiquad_Lowpass(t *testing.T) {
	pass := toneThrough(FilterLowpass, 1000, 100)
	stop := toneThrough(FilterLowpass, 1000, 6000)
	if pass < 0.6 {
		t.Errorf("passband level = %.3f, want ~0.707", pass)
	}
	if stop > 0.05 {
		t.Errorf("stopband level = %.3f, want strongly attenuated", stop)
	}
}

func TestBiquad_Highpass(t *testing.T) {
	pass := toneThrough(FilterHighpass, 1000, 6000)
	stop := toneThrough(FilterHighpass, 1000, 50)
	if pass < 0.6 {
		t.Errorf("passband level = %.3f, want ~0.707", pass)
	}
	if stop > 0.01 {
		t.Errorf("stopband level = %.3f, want strongly attenuated", stop)
	}
}

func TestBiquad_BandpassPeaksAtCenter(t *testing.T) {
	center := toneThrough(FilterBandpass, 1000, 1000)
	low := toneThrough(FilterBandpass, 1000, 50)
	high := toneThrough(FilterBandpass, 1000, 7000)
	if !approx(center, math.Sqrt2/2, 0.02) {
		t.Errorf("center level = %.3f, want unity gain", center)
	}
	if low > center/4 || high > center/4 {
		t.Errorf("skirts not attenuated: low %.3f high %.3f center %.3f", low, high, center)
	}
}

func TestBiquad_FrequencyClampedBelowNyquist(t *testing.T) {
	ctx := newTestContext()
	f := ctx.NewBiquadFilter(FilterLowpass, 1e6, DEFAULT_Q)
	if got := f.Frequency.Value(); got >= testSampleRate/2 {
		t.Fatalf("cutoff %v not clamped below Nyquist", got)
	}
}

func TestGain_ScalesInput(t *testing.T) {
	ctx := newTestContext()
	osc := ctx.NewOscillator(440)
	g := ctx.NewGain(0.25)
	osc.Connect(g)
	g.Connect(ctx.Destination())
	osc.Start(0)

	got := rms(ctx.Render(testSampleRate / 2))
	if !approx(got, 0.25*math.Sqrt2/2, 0.01) {
		t.Fatalf("level = %.4f, want %.4f", got, 0.25*math.Sqrt2/2)
	}
}

func TestOscillator_StartStopWindow(t *testing.T) {
	ctx := newTestContext()
	osc := ctx.NewOscillator(440)
	osc.Connect(ctx.Destination())
	osc.Start(0.1)
	osc.Stop(0.2)

	out := ctx.Render(testSampleRate * 3 / 10)
	before := out[:testSampleRate/10]
	during := out[testSampleRate/10 : testSampleRate*2/10]
	after := out[testSampleRate*2/10+1:] // The boundary sample may round either way
	if rms(before) != 0 || rms(after) != 0 {
		t.Fatalf("oscillator sounded outside its window")
	}
	if rms(during) < 0.5 {
		t.Fatalf("oscillator silent inside its window")
	}
	if !osc.Ended() {
		t.Fatalf("Ended() = false after stop time")
	}
}

func TestOscillator_EarlierStopWins(t *testing.T) {
	ctx := newTestContext()
	osc := ctx.NewOscillator(440)
	osc.Stop(0.1)
	osc.Stop(0.5)
	ctx.Render(testSampleRate / 5)
	if !osc.Ended() {
		t.Fatalf("later Stop overrode the earlier one")
	}
}

func TestBufferSource_LoopsFromOffset(t *testing.T) {
	ctx := newTestContext()
	buf := &NoiseBuffer{samples: []float32{0.1, 0.2, 0.3, 0.4}, sampleRate: testSampleRate}
	src := ctx.NewBufferSource(buf, 2)
	src.Connect(ctx.Destination())
	src.Start(0)

	out := ctx.Render(6)
	want := []float32{0.3, 0.4, 0.1, 0.2, 0.3, 0.4}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestBufferSource_NegativeOffsetWraps(t *testing.T) {
	ctx := newTestContext()
	buf := &NoiseBuffer{samples: []float32{0.1, 0.2, 0.3}, sampleRate: testSampleRate}
	src := ctx.NewBufferSource(buf, -1)
	if src.pos != 2 {
		t.Fatalf("pos = %d, want 2", src.pos)
	}
}

func TestNode_SharedInputRendersOncePerQuantum(t *testing.T) {
	ctx := newTestContext()
	buf := &NoiseBuffer{samples: []float32{0.1, 0.2, 0.3, 0.4}, sampleRate: testSampleRate}
	src := ctx.NewBufferSource(buf, 0)
	a, b := ctx.NewGain(1), ctx.NewGain(1)
	src.Connect(a)
	src.Connect(b)
	a.Connect(ctx.Destination())
	b.Connect(ctx.Destination())
	src.Start(0)

	out := ctx.Render(4)
	want := []float32{0.2, 0.4, 0.6, 0.8}
	for i := range want {
		if !approx(float64(out[i]), float64(want[i]), 1e-6) {
			t.Fatalf("out = %v, want %v (source advanced twice?)", out, want)
		}
	}
}

func TestNode_DuplicateConnectIgnored(t *testing.T) {
	ctx := newTestContext()
	g := ctx.NewGain(1)
	g.Connect(ctx.Destination())
	g.Connect(ctx.Destination())
	if n := len(ctx.Destination().inputs); n != 1 {
		t.Fatalf("destination has %d inputs, want 1", n)
	}
	g.Disconnect()
	if n := len(ctx.Destination().inputs); n != 0 {
		t.Fatalf("destination has %d inputs after disconnect, want 0", n)
	}
}

func TestAudioContext_OutputIsClamped(t *testing.T) {
	ctx := newTestContext()
	buf := &NoiseBuffer{samples: []float32{1}, sampleRate: testSampleRate}
	src := ctx.NewBufferSource(buf, 0)
	loud := ctx.NewGain(4)
	src.Connect(loud)
	loud.Connect(ctx.Destination())
	src.Start(0)

	for _, s := range ctx.Render(RENDER_QUANTUM + 7) {
		if s != MAX_SAMPLE {
			t.Fatalf("sample %v, want clamp to %v", s, MAX_SAMPLE)
		}
	}
	if got := ctx.CurrentTime(); !approx(got, float64(RENDER_QUANTUM+7)/testSampleRate, 1e-12) {
		t.Fatalf("clock = %v after partial quantum", got)
	}
}

func TestAudioContext_Lifecycle(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.Resume(); err == nil {
		t.Fatalf("Resume without output succeeded")
	}
	out := &fakeOutput{}
	ctx.attachOutput(out)
	if err := ctx.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if ctx.State() != ContextRunning || !out.IsStarted() {
		t.Fatalf("state %v, started %v", ctx.State(), out.IsStarted())
	}
	ctx.Suspend()
	if ctx.State() != ContextSuspended || out.IsStarted() {
		t.Fatalf("suspend left output running")
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := ctx.Resume(); err != ErrClosed {
		t.Fatalf("Resume after close = %v, want ErrClosed", err)
	}
}
