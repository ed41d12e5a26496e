// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/intuitivelabs/rtimer"
)

// timerSpec is one timer entry of a scenario file.
type timerSpec struct {
	Name  string `yaml:"name"`
	Delay uint32 `yaml:"delay"` // in ticks
}

// scenarioFile is the on-disk YAML scenario format, e.g.:
//
//	tick: 10ms
//	timers:
//	  - name: ping
//	    delay: 100
type scenarioFile struct {
	Tick   string      `yaml:"tick"`
	Timers []timerSpec `yaml:"timers"`
}

type scenario struct {
	tick   time.Duration
	timers []timerSpec
}

// loadScenario builds the run scenario from the optional YAML file at
// path plus the command line delay arguments. The tick flag value is
// used unless the file overrides it.
func loadScenario(path string, tick time.Duration,
	args []string) (*scenario, error) {
	scn := &scenario{tick: tick}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading scenario: %w", err)
		}
		var f scenarioFile
		if err = yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
		}
		if f.Tick != "" {
			if scn.tick, err = time.ParseDuration(f.Tick); err != nil {
				return nil, fmt.Errorf("parsing scenario %s: tick: %w",
					path, err)
			}
		}
		scn.timers = f.Timers
	}

	for i, a := range args {
		d, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid delay %q: %w", a, err)
		}
		scn.timers = append(scn.timers,
			timerSpec{Name: fmt.Sprintf("timer%d", i+1), Delay: uint32(d)})
	}

	if len(scn.timers) == 0 {
		return nil, errors.New(
			"no timers: pass delay arguments or a scenario file")
	}
	for i := range scn.timers {
		tc := &scn.timers[i]
		if tc.Name == "" {
			tc.Name = fmt.Sprintf("timer%d", i+1)
		}
		if tc.Delay == 0 || uint64(tc.Delay) >= rtimer.MaxTicksDiff {
			return nil, fmt.Errorf("timer %q: delay must be in 1..%d ticks",
				tc.Name, uint64(rtimer.MaxTicksDiff)-1)
		}
	}
	return scn, nil
}
