// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package rtimer

import (
	"math/bits"
)

const (
	// NQueues is the number of subscriber queues.
	// Timers are distributed between queues according to the most
	// significant differing bit between the tick counter and their expire,
	// so queue i holds timers whose top differing bit is i, with the last
	// queue collecting everything at bit NQueues-1 and above.
	// Must be in 1..TicksBits. Larger values increase the worst case
	// per-tick work but reduce the re-distribution churn for timers with
	// very large expires.
	NQueues = 10

	qLowMask = (1 << NQueues) - 1
)

// diffMSB returns the index of the most significant bit which is different
// between the old and the new counter value, if the bit is in range
// 0..NQueues-1. Otherwise it returns the maximum index NQueues-1.
// oldv must be different from newv.
func diffMSB(oldv, newv uint32) uint8 {
	if oldv == newv {
		BUG("diffMSB called with equal values: 0x%x\n", oldv)
		return NQueues - 1
	}
	diff := oldv ^ newv
	if diff & ^uint32(qLowMask) != 0 {
		// some bit above the tracked range changed
		return NQueues - 1
	}
	return uint8(bits.Len32(diff&qLowMask) - 1)
}
