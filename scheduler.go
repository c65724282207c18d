// scheduler.go - Control-side timers driving modulation that has no audio-rate source

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
	"slices"
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback. Cancel is idempotent and never
// waits for a callback that is already running.
type Timer interface {
	Cancel()
}

// Scheduler runs callbacks on the control side. Ocean swell, bird chirps and
// cricket bursts are driven from here; the engine wraps every callback so it
// is dropped once its voice is gone.
type Scheduler interface {
	// Every calls fn every interval until cancelled. The first call happens
	// one interval from now.
	Every(interval time.Duration, fn func()) Timer
	// After calls fn once, delay from now.
	After(delay time.Duration, fn func()) Timer
}

// ---- Wall clock -----------------------------------------------------------

// ClockScheduler schedules on the wall clock. Callbacks run on their own
// goroutines.
type ClockScheduler struct{}

func NewClockScheduler() *ClockScheduler { return &ClockScheduler{} }

type tickerTimer struct {
	stop chan struct{}
	once sync.Once
}

func (t *tickerTimer) Cancel() {
	t.once.Do(func() { close(t.stop) })
}

func (ClockScheduler) Every(interval time.Duration, fn func()) Timer {
	t := &tickerTimer{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				// A cancel racing the tick wins
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

type afterTimer struct {
	t *time.Timer
}

func (a *afterTimer) Cancel() { a.t.Stop() }

func (ClockScheduler) After(delay time.Duration, fn func()) Timer {
	return &afterTimer{t: time.AfterFunc(delay, fn)}
}

// ---- Manual clock ---------------------------------------------------------

// ManualScheduler is a deterministic clock for tests and offline rendering.
// Nothing fires until Advance is called; callbacks then run synchronously on
// the caller's goroutine, in due-time order.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	s        *ManualScheduler
	due      time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.add(interval, interval, fn)
}

func (s *ManualScheduler) After(delay time.Duration, fn func()) Timer {
	return s.add(max(delay, 0), 0, fn)
}

func (s *ManualScheduler) add(delay, interval time.Duration, fn func()) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, due: s.now + delay, interval: interval, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.timers = slices.DeleteFunc(t.s.timers, func(x *manualTimer) bool { return x == t })
}

// Now returns the elapsed manual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of live timers.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves the clock forward by d, firing everything that falls due.
// Returns the number of callbacks run.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return fired
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			s.timers = slices.DeleteFunc(s.timers, func(x *manualTimer) bool { return x == next })
		}
		s.mu.Unlock()

		next.fn()
		fired++
	}
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	var next *manualTimer
	for _, t := range s.timers {
		if t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}
