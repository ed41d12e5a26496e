// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package rtimer provides a radix timer wheel: one-shot timers kept in a
// small number of bucketed queues, with O(1) arming and O(log delay)
// amortised cost per timer, intended for driving lots of timers from a
// periodic tick with strictly bounded per-operation work.
//
// Timers are distributed between NQueues intrusive queues according to
// the most significant bit differing between the current tick counter
// and the timer expire. On each tick exactly one queue has to be
// examined: the one named by the top bit changed by the counter
// increment. A timer can not expire before all the bits differing
// between the counter and its expire flip, so timers in the examined
// queue either fire (no differing bits left) or move to the queue of
// their new top differing bit, which only ever decreases (except in the
// last, "far future" queue).
//
// The RTimer context itself does no locking, allocation or I/O: all
// operations on one context must be serialized by the caller (see Runner
// for a driver that does this and feeds ticks from a time.Ticker).
// Distinct contexts are fully independent.
package rtimer

const NAME = "rtimer"

// RTimer is a radix timer wheel context.
// It owns the subscriber queues and the tick counter, but not the timers:
// those are caller-owned and only linked in and out of the queues.
// The zero value is not usable, Init() must be called first.
type RTimer struct {
	queues [NQueues]timerLst
	ticks  Ticks
}

// Init initialises the timer context: the tick counter starts at 0 and
// all the subscriber queues are emptied.
// It must not be called on a context that still has armed timers
// (use Flush() first).
func (rt *RTimer) Init() error {
	rt.ticks = NewTicks(0)
	for i := 0; i < len(rt.queues); i++ {
		rt.queues[i].init(uint8(i))
	}
	return nil
}

// Now returns the current context time in ticks.
func (rt *RTimer) Now() Ticks {
	return rt.ticks
}

// InitTimer initialises a Timer handle before use, binding the callback
// and its opaque argument. It does not arm the timer (see Set()).
// Note: never call it on an armed timer, only on new or expired ones.
func (rt *RTimer) InitTimer(tl *Timer, f TimerHandlerF, arg interface{}) error {
	if tl == nil || f == nil {
		return ErrInvalidParameters
	}
	if tl.next != nil || tl.prev != nil {
		return ErrActiveTimer
	}
	*tl = Timer{}
	tl.info.setAll(0, qNone)
	tl.f = f
	tl.arg = arg
	return nil
}

// setSanityChecks performs sanity checks for the Set() parameters.
func (rt *RTimer) setSanityChecks(tl *Timer, delta Ticks) error {
	if tl == nil {
		ERR("Set called with nil timer\n")
		return ErrInvalidParameters
	}
	if tl.f == nil {
		ERR("Set called with 0 callback\n")
		return ErrInvalidParameters
	}
	if tl.info.flags()&fActive != 0 {
		if DBGon() {
			f, q := tl.info.getAll()
			DBG("Set called on active timer %p 0x%0x queue: %d"+
				" n: %p p: %p\n",
				tl, f, q, tl.next, tl.prev)
		}
		return ErrActiveTimer
	}
	if tl.next != nil || tl.prev != nil {
		f, q := tl.info.getAll()
		BUG("Set called with linked timer: %p flags 0x%x on queue %d"+
			" n: %p p: %p\n",
			tl, f, q, tl.next, tl.prev)
		return ErrInvalidTimer
	}
	if q := tl.info.queue(); q != qNone {
		BUG("Set called on non-init or bad timer: %p flags 0x%x on queue %d"+
			" n: %p p: %p\n",
			tl, tl.info.flags(), q, tl.next, tl.prev)
		return ErrInvalidTimer
	}
	if delta.Val() == 0 {
		return ErrInvalidParameters
	}
	if delta.diffWrap() {
		// the delta would flip the "sign" bit of the counter difference
		return ErrTicksTooHigh
	}
	return nil
}

// Set arms an initialised, un-armed timer to fire after delta ticks
// (0 < delta < MaxTicksDiff).
// When the delta is added to the current tick counter, some bits of the
// latter change. The timer will not expire until all the differing bits
// flip, so it is appended to the queue corresponding to the most
// significant one. O(1).
func (rt *RTimer) Set(tl *Timer, delta Ticks) error {
	if err := rt.setSanityChecks(tl, delta); err != nil {
		return err
	}
	tl.expire = rt.ticks.Add(delta)
	q := diffMSB(uint32(rt.ticks.Val()), uint32(tl.expire.Val()))
	tl.info.setFlags(fActive)
	rt.queues[q].append(tl)
	return nil
}

// Del removes an armed timer before it fires. O(1).
// It must be serialized with Tick() and Set() by the caller.
// Calling it on the currently firing timer from inside its own callback
// returns ErrInactiveTimer (the timer is already detached there and may
// only be re-armed).
func (rt *RTimer) Del(tl *Timer) error {
	if tl == nil {
		return ErrInvalidParameters
	}
	flags, q := tl.info.getAll()
	if flags&fActive == 0 || q == qNone {
		return ErrInactiveTimer
	}
	if q >= NQueues || tl.next == nil || tl.prev == nil || tl.Detached() {
		BUG("Del called on invalid timer: %p flags 0x%x queue %d"+
			" n: %p p: %p\n",
			tl, flags, q, tl.next, tl.prev)
		return ErrInvalidTimer
	}
	rt.queues[q].rm(tl)
	tl.next = nil
	tl.prev = nil
	tl.info.resetFlags(fActive)
	return nil
}

// Flush removes all the armed timers from the context, without running
// them. It returns the number of timers removed.
// Like Del(), it must be serialized with Tick() and Set().
func (rt *RTimer) Flush() int {
	n := 0
	for i := 0; i < len(rt.queues); i++ {
		rt.queues[i].forEachSafeRm(func(lst *timerLst, e *Timer) bool {
			lst.rm(e)
			e.next = nil
			e.prev = nil
			e.info.resetFlags(fActive)
			n++
			return true
		})
	}
	return n
}

// Tick advances the context time by one tick and runs every timer that
// expires on the new tick. It should be called once per tick period by
// the tick source and must never be called in parallel with itself or
// with any other operation on the same context.
//
// Only the queue named by the most significant bit changed by the
// counter increment has to be examined. Timers in it either expire now
// (their expire equals the new counter value) or are re-distributed to
// the queue of their remaining top differing bit. Since timers with
// large expires may be re-inserted into the same (last) queue, only the
// timers which were present when the call started are handled.
func (rt *RTimer) Tick() {
	old := rt.ticks
	rt.ticks = rt.ticks.AddUint64(1)
	now := rt.ticks
	q := diffMSB(uint32(old.Val()), uint32(now.Val()))
	lst := &rt.queues[q]
	if lst.isEmpty() {
		return
	}
	last := lst.last()

	for !lst.isEmpty() {
		tl := lst.first()
		lst.rm(tl)
		tl.next = nil
		tl.prev = nil

		if tl.expire.EQ(now) {
			tl.info.resetFlags(fActive)
			tl.f(rt, tl, tl.arg)
		} else {
			qnext := diffMSB(uint32(tl.expire.Val()), uint32(now.Val()))
			rt.queues[qnext].append(tl)
		}

		if tl == last {
			break
		}
	}
}

// armedCount walks all the queues and returns the number of linked
// timers (debugging / tests).
func (rt *RTimer) armedCount() int {
	n := 0
	for i := 0; i < len(rt.queues); i++ {
		rt.queues[i].forEach(func(e *Timer) bool {
			n++
			return true
		})
	}
	return n
}
