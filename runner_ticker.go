// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package rtimer

import (
	"github.com/intuitivelabs/timestamp"
)

// ticker is called on each time.Ticker event and advances the context
// time with the number of whole ticks that really elapsed since the
// last update (the go runtime gives no guarantee that ticker events are
// not delayed or coalesced, so counting events would drift).
// It _must_ not ever be called in parallel.
// Returns the number of ticks the context time advanced with.
func (r *Runner) ticker() uint64 {
	now := timestamp.Now()
	if now.Before(r.lastTickT) {
		// time going backwards!!
		r.badTime++
		if r.badTime > 10 {
			// re-init
			if ERRon() {
				ERR("trying to recover after time going backward %d times"+
					" with %s\n",
					r.badTime, r.lastTickT.Sub(now))
			}
			r.lastTickT = now
		} else if DBGon() {
			DBG("ticker: time going backward with %s (%d times)\n",
				r.lastTickT.Sub(now), r.badTime)
		}
		return 0
	}
	r.badTime = 0

	diff := now.Sub(r.lastTickT)
	if diff < r.tickDuration {
		// too little time has passed
		return 0
	}
	ticks, rest := r.Ticks(diff)
	if DBGon() && ticks.Val() > 1 {
		DBG("ticker: catching up %d ticks (%s late)\n",
			ticks.Val(), diff-r.tickDuration)
	}

	r.lastTickT = now.Add(-rest)
	r.advanceTimeTo(r.Now().Add(ticks))
	return ticks.Val()
}
