//go:build !windows

// terminal.go - Raw-mode keyboard input for the interactive mixer

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

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// KeyReader puts stdin into raw mode and delivers single key presses on a
// channel. Stop must be called to restore the terminal.
type KeyReader struct {
	keys         chan byte
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewKeyReader() *KeyReader {
	return &KeyReader{
		keys:   make(chan byte, 16),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Keys is closed when the reader stops or stdin fails.
func (k *KeyReader) Keys() <-chan byte { return k.keys }

// Start switches the terminal to raw, non-blocking mode and begins reading.
func (k *KeyReader) Start() error {
	k.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(k.fd) {
		close(k.done)
		close(k.keys)
		return fmt.Errorf("mixer needs an interactive terminal")
	}

	oldState, err := term.MakeRaw(k.fd)
	if err != nil {
		close(k.done)
		close(k.keys)
		return fmt.Errorf("set raw mode: %w", err)
	}
	k.oldTermState = oldState

	if err := syscall.SetNonblock(k.fd, true); err != nil {
		_ = term.Restore(k.fd, k.oldTermState)
		k.oldTermState = nil
		close(k.done)
		close(k.keys)
		return fmt.Errorf("set nonblocking stdin: %w", err)
	}
	k.nonblockSet = true

	go k.read()
	return nil
}

func (k *KeyReader) read() {
	defer close(k.done)
	defer close(k.keys)
	buf := make([]byte, 1)

	for {
		select {
		case <-k.stopCh:
			return
		default:
		}

		n, err := syscall.Read(k.fd, buf)
		if n > 0 {
			select {
			case k.keys <- buf[0]:
			case <-k.stopCh:
				return
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Stop ends reading and restores stdin to its original mode.
func (k *KeyReader) Stop() {
	k.stopped.Do(func() {
		close(k.stopCh)
	})
	<-k.done
	if k.nonblockSet {
		_ = syscall.SetNonblock(k.fd, false)
		k.nonblockSet = false
	}
	if k.oldTermState != nil {
		_ = term.Restore(k.fd, k.oldTermState)
		k.oldTermState = nil
	}
}
