package script

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/ambience"
)

type fakeController struct {
	mu      sync.Mutex
	calls   []string
	playing map[ambience.SoundID]bool
	volume  float64
	muted   bool
}

func newFakeController() *fakeController {
	return &fakeController{playing: map[ambience.SoundID]bool{}}
}

func (f *fakeController) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeController) Play(id ambience.SoundID) error {
	f.record("play " + string(id))
	f.playing[id] = true
	return nil
}

func (f *fakeController) Stop(id ambience.SoundID) {
	f.record("stop " + string(id))
	delete(f.playing, id)
}

func (f *fakeController) StopAll() {
	f.record("stop_all")
	clear(f.playing)
}

func (f *fakeController) SetVolume(level float64) {
	f.record("volume")
	f.volume = level
}

func (f *fakeController) SetMuted(muted bool) {
	f.record("muted")
	f.muted = muted
}

func (f *fakeController) IsPlaying(id ambience.SoundID) bool { return f.playing[id] }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// recordSleeps returns a sleep that only records durations.
func recordSleeps(into *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*into = append(*into, d)
		return nil
	}
}

func TestRunner_Timeline(t *testing.T) {
	ctrl := newFakeController()
	var sleeps []time.Duration
	r := NewRunner(ctrl, quietLogger()).WithSleep(recordSleeps(&sleeps))

	err := r.Run(context.Background(), "timeline", `
play("rain")
set_volume(0.6)
sleep(1.5)
if is_playing("rain") then
  play("Crickets")
end
set_muted(true)
stop("rain")
sleep(2)
stop_all()
`)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"play rain", "volume", "play crickets", "muted", "stop rain", "stop_all",
	}, ctrl.calls)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 2 * time.Second}, sleeps)
	assert.Equal(t, 0.6, ctrl.volume)
	assert.True(t, ctrl.muted)
}

func TestRunner_SoundsTable(t *testing.T) {
	ctrl := newFakeController()
	r := NewRunner(ctrl, quietLogger())
	err := r.Run(context.Background(), "sounds", `
for _, id in ipairs(sounds()) do
  play(id)
end
`)
	require.NoError(t, err)
	assert.Len(t, ctrl.calls, len(ambience.Sounds()))
}

func TestRunner_UnknownSoundFails(t *testing.T) {
	r := NewRunner(newFakeController(), quietLogger())
	err := r.Run(context.Background(), "bad", `play("thunder")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thunder")
}

func TestRunner_NoFilesystemAccess(t *testing.T) {
	r := NewRunner(newFakeController(), quietLogger())
	err := r.Run(context.Background(), "escape", `io.open("/etc/passwd")`)
	require.Error(t, err)
}

func TestRunner_CancelInterruptsSleep(t *testing.T) {
	r := NewRunner(newFakeController(), quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	err := r.Run(ctx, "long", `sleep(60)`)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunner_RunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.lua")
	require.NoError(t, os.WriteFile(path, []byte(`play("ocean")`), 0644))

	ctrl := newFakeController()
	require.NoError(t, NewRunner(ctrl, quietLogger()).RunFile(context.Background(), path))
	assert.Equal(t, []string{"play ocean"}, ctrl.calls)

	err := NewRunner(ctrl, quietLogger()).RunFile(context.Background(), path+".missing")
	require.Error(t, err)
}

// TestRunner_DrivesEngine runs a script against a real engine whose timers
// advance with the script's sleeps.
func TestRunner_DrivesEngine(t *testing.T) {
	sched := ambience.NewManualScheduler()
	cfg := ambience.DefaultConfig()
	cfg.SampleRate = 8000
	cfg.Seed = 1
	cfg.Scheduler = sched
	cfg.Logger = quietLogger()
	cfg.Output = func(sampleRate int, src ambience.SampleSource) (ambience.AudioOutput, error) {
		return ambience.NewNullPlayer(sampleRate, time.Hour, src), nil
	}
	e := ambience.NewEngine(cfg)
	require.NoError(t, e.Init())
	t.Cleanup(func() { _ = e.Shutdown() })

	r := NewRunner(e, quietLogger()).WithSleep(func(_ context.Context, d time.Duration) error {
		sched.Advance(d)
		return nil
	})
	err := r.Run(context.Background(), "engine", `
play("birds")
play("ocean")
sleep(1)
stop("ocean")
sleep(1)
assert(is_playing("birds"), "birds stopped")
assert(not is_playing("ocean"), "ocean still registered")
`)
	require.NoError(t, err)
	assert.Equal(t, []ambience.SoundID{ambience.SoundBirds}, e.Active())
}
