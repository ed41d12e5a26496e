// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package rtimer

import (
	"github.com/intuitivelabs/slog"
)

// Log is the generic package logger.
// It can be reconfigured before use (e.g. slog.SetLevel(&rtimer.Log, ...)).
var Log slog.Log

func init() {
	slog.SetLevel(&Log, slog.LNOTICE)
}

// quick log level check functions

func DBGon() bool {
	return Log.DBGon()
}

func INFOon() bool {
	return Log.INFOon()
}

func WARNon() bool {
	return Log.WARNon()
}

func ERRon() bool {
	return Log.ERRon()
}

// quick log functions

func DBG(f string, a ...interface{}) {
	Log.DBG(f, a...)
}

func INFO(f string, a ...interface{}) {
	Log.INFO(f, a...)
}

func WARN(f string, a ...interface{}) {
	Log.WARN(f, a...)
}

func ERR(f string, a ...interface{}) {
	Log.ERR(f, a...)
}

func BUG(f string, a ...interface{}) {
	Log.BUG(f, a...)
}

func PANIC(f string, a ...interface{}) {
	Log.PANIC(f, a...)
}
