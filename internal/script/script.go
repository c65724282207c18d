// Package script runs Lua session scripts against an ambience engine.
//
// A script is a timeline of mixer actions:
//
//	play("rain")
//	set_volume(0.6)
//	sleep(30)
//	play("crickets")
//	sleep(60)
//	stop_all()
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/ambience"
)

// Controller is the part of the engine a script can drive. *ambience.Engine
// implements it.
type Controller interface {
	Play(id ambience.SoundID) error
	Stop(id ambience.SoundID)
	StopAll()
	SetVolume(level float64)
	SetMuted(muted bool)
	IsPlaying(id ambience.SoundID) bool
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Runner executes scripts one at a time.
type Runner struct {
	ctrl  Controller
	log   *slog.Logger
	sleep SleepFunc
}

func NewRunner(ctrl Controller, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{ctrl: ctrl, log: logger, sleep: wallSleep}
}

// WithSleep replaces the wall-clock sleep, e.g. with one that advances a
// manual scheduler.
func (r *Runner) WithSleep(fn SleepFunc) *Runner {
	r.sleep = fn
	return r
}

func wallSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RunFile runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.Run(ctx, path, string(src))
}

// Run executes src. Cancelling ctx interrupts the script, including a
// pending sleep.
func (r *Runner) Run(ctx context.Context, name, src string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	if err := openLibs(L); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	L.SetContext(ctx)
	r.register(L)

	r.log.Debug("script started", "script", name)
	if err := L.DoString(src); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("script %s: %w", name, ctxErr)
		}
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("script %s: %s", name, apiErr.Object.String())
		}
		return fmt.Errorf("script %s: %w", name, err)
	}
	r.log.Debug("script finished", "script", name)
	return nil
}

// openLibs loads the safe subset of the standard libraries: no io, os or
// debug.
func openLibs(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("open %s: %w", lib.name, err)
		}
	}
	return nil
}

func (r *Runner) register(L *lua.LState) {
	fns := map[string]lua.LGFunction{
		"play":       r.luaPlay,
		"stop":       r.luaStop,
		"stop_all":   r.luaStopAll,
		"set_volume": r.luaSetVolume,
		"set_muted":  r.luaSetMuted,
		"is_playing": r.luaIsPlaying,
		"sleep":      r.luaSleep,
		"sounds":     r.luaSounds,
		"log":        r.luaLog,
	}
	for name, fn := range fns {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func checkSound(L *lua.LState, n int) ambience.SoundID {
	id, err := ambience.ParseSoundID(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return id
}

func (r *Runner) luaPlay(L *lua.LState) int {
	id := checkSound(L, 1)
	if err := r.ctrl.Play(id); err != nil {
		L.RaiseError("play %s: %v", id, err)
	}
	return 0
}

func (r *Runner) luaStop(L *lua.LState) int {
	r.ctrl.Stop(checkSound(L, 1))
	return 0
}

func (r *Runner) luaStopAll(L *lua.LState) int {
	r.ctrl.StopAll()
	return 0
}

func (r *Runner) luaSetVolume(L *lua.LState) int {
	r.ctrl.SetVolume(float64(L.CheckNumber(1)))
	return 0
}

func (r *Runner) luaSetMuted(L *lua.LState) int {
	r.ctrl.SetMuted(L.CheckBool(1))
	return 0
}

func (r *Runner) luaIsPlaying(L *lua.LState) int {
	L.Push(lua.LBool(r.ctrl.IsPlaying(checkSound(L, 1))))
	return 1
}

// luaSleep takes seconds.
func (r *Runner) luaSleep(L *lua.LState) int {
	secs := float64(L.CheckNumber(1))
	if secs < 0 {
		L.ArgError(1, "negative sleep")
	}
	if err := r.sleep(L.Context(), time.Duration(secs*float64(time.Second))); err != nil {
		L.RaiseError("sleep: %v", err)
	}
	return 0
}

func (r *Runner) luaSounds(L *lua.LState) int {
	tbl := L.NewTable()
	for _, def := range ambience.Sounds() {
		tbl.Append(lua.LString(def.ID))
	}
	L.Push(tbl)
	return 1
}

func (r *Runner) luaLog(L *lua.LState) int {
	r.log.Info(L.CheckString(1), "source", "script")
	return 0
}
