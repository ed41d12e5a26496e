// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package rtimer

import (
	"sync"
	"time"

	"github.com/intuitivelabs/timestamp"
)

// Runner drives an RTimer context from a periodic time.Ticker, taking
// care of the serialization the bare context leaves to the embedder:
// all context operations go through an internal lock and the timer
// callbacks run in the tick goroutine, with the lock held.
// Callbacks should therefore execute fast, never block and use only
// rt.Set() on their own timer (re-arm); all the other Runner operations
// would deadlock if called from inside a callback.
type Runner struct {
	lock sync.Mutex
	rt   RTimer

	tickDuration time.Duration
	lastTickT    timestamp.TS // last time we updated the ticks
	badTime      uint32       // count time going backwards

	wg     sync.WaitGroup
	cancel chan struct{}
}

// Init initialises the runner and its timer context, with td as tick
// duration. Note that tick durations that are too low would cause high
// cpu usage when idle (too many wakeups).
func (r *Runner) Init(td time.Duration) error {
	if td < time.Microsecond {
		return ErrTickTooSmall
	} else if td > (time.Hour * 24) {
		// probably an error
		return ErrTickTooBig
	}
	r.tickDuration = td
	return r.rt.Init()
}

// Now returns the current time in ticks.
func (r *Runner) Now() Ticks {
	r.lock.Lock()
	crt := r.rt.Now()
	r.lock.Unlock()
	return crt
}

// Ticks returns the duration d converted to Ticks (round-down) and
// the rest (if the passed duration is not an integer number of ticks).
func (r *Runner) Ticks(d time.Duration) (Ticks, time.Duration) {
	if r.tickDuration != 0 {
		t := d / r.tickDuration
		return NewTicks(uint64(t)), d % r.tickDuration
	}
	return NewTicks(0), d
}

// Duration converts a tick number to a time.Duration
// (according to the runner tick length).
func (r *Runner) Duration(t Ticks) time.Duration {
	return time.Duration(t.Val()) * r.tickDuration
}

// TicksRoundUp converts a duration into a ticks number. A duration of
// less then 1 tick becomes 1 tick. Otherwise the whole ticks are rounded
// up if the remainder is >= 0.5 ticks and rounded down if it is smaller
// (so the result can be up to half a tick shorter than d).
// This is also the way Add() converts durations to ticks.
func (r *Runner) TicksRoundUp(d time.Duration) Ticks {
	dticks, rest := r.Ticks(d)
	if dticks.Val() == 0 || rest >= 50*r.tickDuration/100 {
		// round-up if smaller then 1 tick or if value between ticks
		return dticks.AddUint64(1)
	}
	return dticks
}

// Add initialises and arms a new one-shot timer that will run
// f(rt, tl, arg) after the specified time.Duration (converted to ticks
// with TicksRoundUp()).
// tl is a pointer to a caller-owned Timer structure.
func (r *Runner) Add(tl *Timer, d time.Duration,
	f TimerHandlerF, arg interface{}) error {
	return r.AddTicks(tl, r.TicksRoundUp(d), f, arg)
}

// AddTicks initialises and arms a new one-shot timer that will run
// f(rt, tl, arg) after delta ticks.
func (r *Runner) AddTicks(tl *Timer, delta Ticks,
	f TimerHandlerF, arg interface{}) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.rt.InitTimer(tl, f, arg); err != nil {
		return err
	}
	return r.rt.Set(tl, delta)
}

// Del removes an armed timer before it fires.
// It must not be called from inside a timer callback.
func (r *Runner) Del(tl *Timer) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.rt.Del(tl)
}

// advanceTimeTo advances the internal time to the passed value, running
// all the timers that expire on the way.
// It must never be called in parallel.
func (r *Runner) advanceTimeTo(t Ticks) {
	r.lock.Lock()
	if r.rt.Now().GT(t) {
		BUG("advancing backwards: %d ticks, current %d\n",
			t.Val(), r.rt.Now().Val())
	}
	for r.rt.Now().NE(t) {
		r.rt.Tick()
	}
	r.lock.Unlock()
}

// Start will start the runner tick goroutine.
// No timers will be run if Start() was not called.
// In most cases it should be used right after Init().
func (r *Runner) Start() {
	r.cancel = make(chan struct{})
	r.lastTickT = timestamp.Now()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if DBGon() {
			DBG("starting ticker with %s at %s\n", r.tickDuration, time.Now())
		}
		r.lastTickT = timestamp.Now()
		ticker := time.NewTicker(r.tickDuration)
	loop:
		for {
			select {
			case <-r.cancel:
				DBG("canceled\n")
				break loop
			case _, ok := <-ticker.C:
				if !ok {
					break loop
				}
				r.ticker()
			}
		}
		ticker.Stop()
	}()
}

// Shutdown will signal the tick goroutine to stop and will wait for it
// to finish. Armed timers stay armed (use Flush() on the context if the
// runner is to be re-used from scratch).
func (r *Runner) Shutdown() {
	if r.cancel != nil {
		close(r.cancel)
	}
	r.wg.Wait()
}
