// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing devices and benches.
//
package hwtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/db47h/hwvip"
)

type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// Logger returns a logger writing to tb.Log. Only errors are logged unless the
// tests run in verbose mode.
//
func Logger(tb testing.TB) *hwvip.Logger {
	level := hwvip.LevelError
	if testing.Verbose() {
		level = hwvip.LevelInfo
	}
	return hwvip.NewLogger(tbWriter{tb}, level)
}

// NewSim returns a simulation logging to tb and disposed of at the end of the
// test.
//
func NewSim(tb testing.TB) *hwvip.Sim {
	tb.Helper()
	s := hwvip.NewSim(hwvip.WithLogger(Logger(tb)))
	tb.Cleanup(s.Dispose)
	return s
}

// Run runs fn as a task and fails the test if it is not done within
// maxCycles or if the simulation fails. It returns the number of cycles the
// task took.
//
func Run(tb testing.TB, s *hwvip.Sim, maxCycles uint64, fn hwvip.TaskFunc) uint64 {
	tb.Helper()
	var start, end uint64
	h := s.Go("test", func(t *hwvip.Task) error {
		start = t.Cycle()
		err := fn(t)
		end = t.Cycle()
		return err
	})
	if err := s.RunUntil(context.Background(), h, maxCycles); err != nil {
		tb.Fatal(err)
	}
	return end - start
}

// Settle runs s for n more cycles, giving monitors and scoreboards time to
// see the last transactions, and fails the test on error.
//
func Settle(tb testing.TB, s *hwvip.Sim, n uint64) {
	tb.Helper()
	if err := s.Run(context.Background(), n); err != nil {
		tb.Fatal(err)
	}
}

// Throughput logs the simulation speed since start.
//
func Throughput(tb testing.TB, s *hwvip.Sim, start time.Time) {
	elapsed := time.Since(start)
	tb.Logf("%d steps in %v. %d clock ticks => %.2f Hz", s.Steps(), elapsed, s.Cycle(), float64(s.Cycle())/elapsed.Seconds())
}

// Parallel runs fn for i in [0, n) with at most limit concurrent calls. The
// context passed to fn is cancelled on the first error, which is returned.
//
// A simulation is not safe for concurrent use: every fn must build its own
// Sim.
//
func Parallel(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(ctx, i) })
	}
	return g.Wait()
}
