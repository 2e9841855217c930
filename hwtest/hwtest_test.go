// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/hwlib"
	"github.com/db47h/hwvip/hwtest"
)

func TestCompareModel(t *testing.T) {
	s := hwtest.NewSim(t)
	dff, p, err := hwlib.DFF(s, "r", 16)
	if err != nil {
		t.Fatal(err)
	}
	s.Add(dff)
	hwtest.CompareModel(t, s, 500, rand.New(rand.NewPCG(1, 2)),
		[]*hwvip.Wire{p.In}, []*hwvip.Wire{p.Out},
		func(in []uint64) []uint64 { return in })
}

func TestRun(t *testing.T) {
	s := hwtest.NewSim(t)
	n := hwtest.Run(t, s, 10, func(t *hwvip.Task) error { return t.Cycles(4) })
	if n != 4 {
		t.Fatalf("expected 4 cycles, got %d", n)
	}
	// the harness completes the cycle in which the task ended
	hwtest.Settle(t, s, 3)
	if s.Cycle() != 8 {
		t.Fatalf("expected cycle 8, got %d", s.Cycle())
	}
}

func TestParallel(t *testing.T) {
	var total atomic.Uint64
	err := hwtest.Parallel(context.Background(), 8, 3, func(ctx context.Context, i int) error {
		s := hwvip.NewSim()
		defer s.Dispose()
		if err := s.Run(ctx, uint64(i+1)); err != nil {
			return err
		}
		total.Add(s.Cycle())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if total.Load() != 36 {
		t.Fatalf("expected 36 cycles in total, got %d", total.Load())
	}

	errBad := errors.New("bad")
	err = hwtest.Parallel(context.Background(), 4, 0, func(ctx context.Context, i int) error {
		if i == 2 {
			return errBad
		}
		return nil
	})
	if err != errBad {
		t.Fatalf("expected %v, got %v", errBad, err)
	}
}
