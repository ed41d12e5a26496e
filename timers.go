// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package rtimer

// A TimerHandlerF is a callback called when a timer expires.
// The parameters passed are a pointer to the timer context to which the
// timer belongs (RTimer), the handler of the expired timer and an opaque
// parameter passed when the timer was initialised.
// When the callback runs the timer is already un-armed (it fired), so the
// handler may re-arm it with rt.Set(tl, ...), including from inside the
// callback itself. Re-arming is the only timer operation allowed on tl
// from inside the callback; rt.Del(tl) on the firing timer will fail
// harmlessly with ErrInactiveTimer.
// Timers re-armed from a callback are never run during the same Tick()
// call, even if they land in the queue currently being processed.
type TimerHandlerF func(rt *RTimer, tl *Timer, arg interface{})

// flags for timers
const (
	fHead   = 1 // this is the list head (debugging)
	fActive = 2 // timer is armed (linked on a queue)
)

// A Timer is the handle used for registering one-shot timers.
// Its storage is owned by the caller and must outlive any queue it is
// linked on; the timer context only links it in and out of queues.
// The high performance way of using timers is making a Timer part of
// your own data structure and initialising it with InitTimer() (no
// allocation on any timer operation).
type Timer struct {
	next   *Timer
	prev   *Timer
	expire Ticks // absolute expire "time" in ticks
	info   tInfo // internal information (queue no, flags)

	f   TimerHandlerF // callback function
	arg interface{}   // callback function parameter
}

// Detached checks if the Timer entry is part of a list and returns true
// if not.
func (tl *Timer) Detached() bool {
	return tl == tl.next || (tl.next == nil && tl.prev == nil)
}

// Armed returns true if the timer is currently armed (waiting to fire).
func (tl *Timer) Armed() bool {
	return tl.info.flags()&fActive != 0
}

// Exp returns the set expire "time" in ticks (debugging use)
func (tl *Timer) Exp() Ticks {
	return tl.expire
}
