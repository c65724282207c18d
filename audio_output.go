// audio_output.go - Device output abstraction shared by every audio backend

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
	"strings"
	"sync"
	"time"
)

const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_EBITEN
	AUDIO_BACKEND_NULL
)

const (
	DEFAULT_SAMPLE_RATE     = 44100
	MAX_SAMPLE_RATE         = 192000
	// Keeps the highest recipe frequency, the top of a bird sweep, below Nyquist
	MIN_SAMPLE_RATE = 16000
	DEFAULT_BUFFER_DURATION = 40 * time.Millisecond
)

// SampleSource produces mono float32 frames on demand. AudioContext is the
// only implementation outside of tests.
type SampleSource interface {
	ReadSamples(dst []float32)
}

// AudioOutput is a device sink pulling from a SampleSource.
type AudioOutput interface {
	Start() error
	Stop()
	Close() error
	IsStarted() bool
}

// OutputFactory acquires a device sink for src.
type OutputFactory func(sampleRate int, src SampleSource) (AudioOutput, error)

// ParseBackend maps a backend name to its AUDIO_BACKEND_* constant.
func ParseBackend(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "oto":
		return AUDIO_BACKEND_OTO, nil
	case "ebiten":
		return AUDIO_BACKEND_EBITEN, nil
	case "null", "none":
		return AUDIO_BACKEND_NULL, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// BackendName is the inverse of ParseBackend.
func BackendName(backend int) string {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return "oto"
	case AUDIO_BACKEND_EBITEN:
		return "ebiten"
	case AUDIO_BACKEND_NULL:
		return "null"
	}
	return "unknown"
}

// NullPlayer drains its source in real time without a device, so the audio
// clock and every scheduled ramp progress exactly as they would on hardware.
type NullPlayer struct {
	src     SampleSource
	period  time.Duration
	frames  int
	mutex   sync.Mutex
	started bool
	stopCh  chan struct{}
	done    chan struct{}
}

func NewNullPlayer(sampleRate int, period time.Duration, src SampleSource) *NullPlayer {
	if period <= 0 {
		period = DEFAULT_BUFFER_DURATION
	}
	return &NullPlayer{
		src:    src,
		period: period,
		frames: max(1, int(float64(sampleRate)*period.Seconds())),
	}
}

func (np *NullPlayer) Start() error {
	np.mutex.Lock()
	defer np.mutex.Unlock()
	if np.started {
		return nil
	}
	np.started = true
	np.stopCh = make(chan struct{})
	np.done = make(chan struct{})
	go np.drain(np.stopCh, np.done)
	return nil
}

func (np *NullPlayer) drain(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	buf := make([]float32, np.frames)
	ticker := time.NewTicker(np.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			np.src.ReadSamples(buf)
		}
	}
}

func (np *NullPlayer) Stop() {
	np.mutex.Lock()
	if !np.started {
		np.mutex.Unlock()
		return
	}
	np.started = false
	close(np.stopCh)
	done := np.done
	np.mutex.Unlock()
	<-done
}

func (np *NullPlayer) Close() error {
	np.Stop()
	return nil
}

func (np *NullPlayer) IsStarted() bool {
	np.mutex.Lock()
	defer np.mutex.Unlock()
	return np.started
}
