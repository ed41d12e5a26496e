// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// rtimerd is a small demo driver for the rtimer radix timer wheel:
// it arms one-shot timers given on the command line (or in a YAML
// scenario file), pumps the wheel at the configured tick period and
// prints every expire.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/intuitivelabs/rtimer"
)

var (
	tickFlag = 10 * time.Millisecond
	cfgFile  string
)

var rootCmd = &cobra.Command{
	Use:   "rtimerd [flags] [delay-ticks...]",
	Short: "radix timer wheel demo driver",
	Long: `rtimerd arms one-shot timers with the tick delays given as arguments
(or listed in a YAML scenario file), runs them off a periodic tick and
prints each expire. It exits once every timer fired.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().DurationVar(&tickFlag, "tick", tickFlag,
		"tick period")
	rootCmd.Flags().StringVar(&cfgFile, "config", "",
		"YAML scenario file")
}

func run(cmd *cobra.Command, args []string) error {
	scn, err := loadScenario(cfgFile, tickFlag, args)
	if err != nil {
		return err
	}

	var r rtimer.Runner
	if err = r.Init(scn.tick); err != nil {
		return fmt.Errorf("runner init: %w", err)
	}

	timers := make([]rtimer.Timer, len(scn.timers))
	left := len(scn.timers)
	done := make(chan struct{})
	start := time.Now()

	// callbacks run in the tick goroutine, serialized with each other
	onExpire := func(rt *rtimer.RTimer, tl *rtimer.Timer, arg interface{}) {
		fmt.Printf("%s: fired at tick %d (%s)\n",
			arg, rt.Now().Val(), time.Since(start).Round(time.Millisecond))
		left--
		if left == 0 {
			close(done)
		}
	}

	r.Start()
	for i, tc := range scn.timers {
		err = r.AddTicks(&timers[i], rtimer.NewTicks(uint64(tc.Delay)),
			onExpire, tc.Name)
		if err != nil {
			r.Shutdown()
			return fmt.Errorf("arming timer %q (delay %d): %w",
				tc.Name, tc.Delay, err)
		}
	}
	<-done
	r.Shutdown()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rtimerd: %s\n", err)
		os.Exit(1)
	}
}
