// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package rtimer

type timerLst struct {
	head Timer // used only as list head (only next & prev)
	qno  uint8 // mostly for debugging
}

// init initialises a list head (circular list).
func (lst *timerLst) init(qno uint8) {
	lst.forceEmpty()
	lst.qno = qno
	lst.head.info.setFlags(fHead)
	lst.head.info.setQueue(qno)
}

// forceEmpty will completely empty the list (re-init the list head).
func (lst *timerLst) forceEmpty() {
	lst.head.next = &lst.head
	lst.head.prev = &lst.head
}

// isEmpty returns true if the list is empty.
func (lst *timerLst) isEmpty() bool {
	return lst.head.next == &lst.head
}

// first returns the first entry of the list (undefined if empty).
func (lst *timerLst) first() *Timer {
	return lst.head.next
}

// last returns the last entry of the list (undefined if empty).
func (lst *timerLst) last() *Timer {
	return lst.head.prev
}

// append adds a Timer entry at the end of the list.
// There's no internal locking.
func (lst *timerLst) append(e *Timer) {
	// DBG checks:
	if !isDetached(e) {
		q := e.info.queue()
		PANIC("timerLst append called on an entry not detached: "+
			" t queue %d, lst queue %d next %p prev %p\n",
			q, lst.qno, e.next, e.prev)
	}

	e.prev = lst.head.prev
	e.next = &lst.head
	e.prev.next = e
	lst.head.prev = e

	// DBG checks:
	if q := e.info.queue(); q != qNone {
		PANIC("timerLst append called on an entry already on a diff. list: "+
			" t queue %d, lst queue %d\n",
			q, lst.qno)
	}
	e.info.setQueue(lst.qno)
}

// rm removes a Timer entry from the list.
// There's no internal locking.
func (lst *timerLst) rm(e *Timer) {
	if e == nil || e.next == nil || e.prev == nil {
		PANIC("called with nil-detached element %p\n", e)
	}
	if e.next == e || e.prev == e {
		if e == &lst.head {
			PANIC("trying to rm list head %p\n", e)
		} else {
			PANIC("called with detached element %p:"+
				" expire %s %s\n",
				e, e.expire, e.info)
		}
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	// "mark" e as detached
	e.next = e
	e.prev = e

	// DBG checks:
	if q := e.info.queue(); q != lst.qno {
		PANIC("timerLst rm called on an entry from a different list: "+
			" t queue %d, lst queue %d\n",
			q, lst.qno)
	}
	e.info.setQueue(qNone)
}

// forEach iterates on the entire list calling f(e) for each element.
// It stops immediately if f() returns false.
// WARNING: it does not support removing the current list element
// from f(), use forEachSafeRm() for that.
func (lst *timerLst) forEach(f func(e *Timer) bool) {
	cont := true
	for v := lst.head.next; v != &lst.head && cont; v = v.next {
		cont = f(v)
	}
}

// forEachSafeRm is similar to forEach(), but supports removing the
// current list element from the callback function (f).
// It does not support removing other list elements (e.g. e->next).
func (lst *timerLst) forEachSafeRm(f func(l *timerLst, e *Timer) bool) {
	cont := true
	s := lst.head.next
	for v, nxt := s, s.next; v != &lst.head && cont; v, nxt = nxt, nxt.next {
		cont = f(lst, v)
	}
}

// isDetached checks if the Timer entry is part of a list and returns true
// if not.
func isDetached(e *Timer) bool {
	return e.Detached()
}
