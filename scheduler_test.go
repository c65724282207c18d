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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualScheduler_FiresInDueOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []string
	s.After(300*time.Millisecond, func() { order = append(order, "c") })
	s.After(100*time.Millisecond, func() { order = append(order, "a") })
	s.After(100*time.Millisecond, func() { order = append(order, "b") })

	assert.Equal(t, 0, s.Advance(99*time.Millisecond))
	assert.Equal(t, 3, s.Advance(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, s.Pending())
	assert.Equal(t, 1099*time.Millisecond, s.Now())
}

func TestManualScheduler_EveryRepeatsUntilCancelled(t *testing.T) {
	s := NewManualScheduler()
	var ticks int
	timer := s.Every(100*time.Millisecond, func() { ticks++ })

	s.Advance(time.Second)
	assert.Equal(t, 10, ticks)

	timer.Cancel()
	timer.Cancel()
	s.Advance(time.Second)
	assert.Equal(t, 10, ticks)
	assert.Zero(t, s.Pending())
}

func TestManualScheduler_CallbackSeesItsDueTime(t *testing.T) {
	s := NewManualScheduler()
	var seen []time.Duration
	s.Every(250*time.Millisecond, func() { seen = append(seen, s.Now()) })
	s.Advance(time.Second)
	assert.Equal(t, []time.Duration{
		250 * time.Millisecond, 500 * time.Millisecond, 750 * time.Millisecond, time.Second,
	}, seen)
}

func TestManualScheduler_CallbacksMayScheduleAndCancel(t *testing.T) {
	s := NewManualScheduler()
	var fired []time.Duration
	var chain func()
	chain = func() {
		fired = append(fired, s.Now())
		if len(fired) < 3 {
			s.After(200*time.Millisecond, chain)
		}
	}
	s.After(200*time.Millisecond, chain)

	var victim Timer
	s.After(100*time.Millisecond, func() { victim.Cancel() })
	victim = s.After(150*time.Millisecond, func() { t.Error("cancelled timer fired") })

	s.Advance(time.Second)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond, 600 * time.Millisecond}, fired)
}

func TestClockScheduler_AfterAndCancel(t *testing.T) {
	s := NewClockScheduler()
	done := make(chan struct{})
	s.After(5*time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("After never fired")
	}

	var late atomic.Bool
	timer := s.After(50*time.Millisecond, func() { late.Store(true) })
	timer.Cancel()
	time.Sleep(100 * time.Millisecond)
	assert.False(t, late.Load(), "cancelled After fired")
}

func TestClockScheduler_EveryStopsOnCancel(t *testing.T) {
	s := NewClockScheduler()
	var ticks atomic.Int32
	timer := s.Every(5*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, time.Millisecond)
	timer.Cancel()
	timer.Cancel()
	time.Sleep(20 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, ticks.Load(), "ticks continued after Cancel")
}
