// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwvip_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/db47h/hwvip"
)

func newWire(t *testing.T, s *hwvip.Sim, name string, width uint) *hwvip.Wire {
	t.Helper()
	w, err := s.Wire(name, width)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestWire_frames(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()
	a := newWire(t, s, "a", 8)

	a.Set(0x1ff)
	if a.Get() != 0 {
		t.Fatalf("value visible before commit: %x", a.Get())
	}
	if a.Pending() != 0xff {
		t.Fatalf("bad masking: expected 0xff, got %x", a.Pending())
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if a.Get() != 0xff {
		t.Fatalf("expected 0xff after commit, got %x", a.Get())
	}
	// sticky
	if err := s.TickTock(); err != nil {
		t.Fatal(err)
	}
	if a.Get() != 0xff {
		t.Fatalf("value not sticky: %x", a.Get())
	}
}

func TestSim_Wire(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	a := newWire(t, s, "a", 4)
	if b := newWire(t, s, "a", 4); a != b {
		t.Fatal("same name returned different wires")
	}
	if _, err := s.Wire("a", 5); err == nil {
		t.Fatal("expected width mismatch error")
	}
	if _, err := s.Wire("z", 0); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := s.Wire("z", 65); err == nil {
		t.Fatal("expected error for width 65")
	}

	ws, err := s.Declare("apb", "paddr[32], psel, penable")
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 3 || ws[0].Name() != "apb_paddr" || ws[0].Width() != 32 || ws[2].Width() != 1 {
		t.Fatalf("bad declared wires: %v", ws)
	}
	_, err = s.Declare("apb", "paddr[16], psel")
	if err == nil || !strings.Contains(err.Error(), "declare paddr[16], psel") {
		t.Fatalf("expected declaration in error, got %v", err)
	}
	if w, ok := s.Lookup("apb_psel"); !ok || w != ws[1] {
		t.Fatal("lookup of apb_psel failed")
	}
	if n := len(s.Wires()); n != 4 {
		t.Fatalf("expected 4 wires, got %d", n)
	}
}

func TestSim_component(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()
	c := newWire(t, s, "count", 8)
	s.Add(func(*hwvip.Sim) { c.Set(c.Get() + 1) })

	for i := 1; i <= 300; i++ {
		if err := s.TickTock(); err != nil {
			t.Fatal(err)
		}
		if c.Get() != uint64(i)&0xff {
			t.Fatalf("cycle %d: expected count %d, got %d", i, i&0xff, c.Get())
		}
	}
}

func TestSim_TickTock(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	if s.Edge() != hwvip.Rising {
		t.Fatal("simulation must start on a rising edge")
	}
	s.Tick()
	if s.Steps() != 1 || s.Edge() != hwvip.Falling {
		t.Fatalf("after Tick: steps=%d, edge=%v", s.Steps(), s.Edge())
	}
	s.Tick()
	if s.Steps() != 3 {
		t.Fatalf("Tick from falling edge: expected 3 steps, got %d", s.Steps())
	}
	s.Tock()
	if s.Steps() != 4 || s.Cycle() != 2 {
		t.Fatalf("after Tock: steps=%d, cycle=%d", s.Steps(), s.Cycle())
	}
}

func TestTask_Rising(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	var cycles []uint64
	h := s.Go("t", func(t *hwvip.Task) error {
		for i := 0; i < 3; i++ {
			cycles = append(cycles, t.Cycle())
			if err := t.Rising(); err != nil {
				return err
			}
		}
		return nil
	})
	if err := s.RunUntil(context.Background(), h, 10); err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 3 || cycles[0] != 0 || cycles[1] != 1 || cycles[2] != 2 {
		t.Fatalf("bad wake up cycles: %v", cycles)
	}
}

func TestTask_Falling(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	var steps []uint64
	h := s.Go("t", func(t *hwvip.Task) error {
		for i := 0; i < 2; i++ {
			if err := t.Falling(); err != nil {
				return err
			}
			steps = append(steps, t.Sim().Steps())
		}
		return nil
	})
	if err := s.RunUntil(context.Background(), h, 10); err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 || steps[0] != 1 || steps[1] != 3 {
		t.Fatalf("bad wake up steps: %v", steps)
	}
}

func TestTask_Until(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()
	c := newWire(t, s, "count", 8)
	s.Add(func(*hwvip.Sim) { c.Set(c.Get() + 1) })

	var at uint64
	h := s.Go("wait", func(t *hwvip.Task) error {
		if err := t.Until(func() bool { return c.Get() >= 3 }); err != nil {
			return err
		}
		at = t.Cycle()
		return nil
	})
	if err := s.RunUntil(context.Background(), h, 10); err != nil {
		t.Fatal(err)
	}
	if at != 3 {
		t.Fatalf("expected wake up at cycle 3, got %d", at)
	}
}

func TestTask_Join(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	var at uint64
	var names []string
	h := s.Go("parent", func(t *hwvip.Task) error {
		a := t.Go("a", func(t *hwvip.Task) error { return t.Cycles(1) })
		b := t.Go("b", func(t *hwvip.Task) error { return t.Cycles(3) })
		names = append(names, a.Name(), b.Name())
		if err := t.Join(a, b); err != nil {
			return err
		}
		at = t.Cycle()
		return nil
	})
	if err := s.RunUntil(context.Background(), h, 10); err != nil {
		t.Fatal(err)
	}
	if at != 3 {
		t.Fatalf("join must resume in the step of the last child, got cycle %d", at)
	}
	if names[0] != "parent.a" || names[1] != "parent.b" {
		t.Fatalf("bad child names: %v", names)
	}
}

func TestTask_JoinError(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	errBoom := errors.New("boom")
	var joinErr error
	s.Go("parent", func(t *hwvip.Task) error {
		c := t.Go("child", func(t *hwvip.Task) error {
			t.Cycles(1)
			return errBoom
		})
		joinErr = t.Join(c)
		return nil
	})
	err := s.Run(context.Background(), 5)
	if errors.Cause(err) != errBoom {
		t.Fatalf("expected run to fail with boom, got %v", err)
	}
	if joinErr != errBoom {
		t.Fatalf("expected join to return boom, got %v", joinErr)
	}
}

func TestTask_cancel(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	h := s.Go("loop", func(t *hwvip.Task) error {
		for {
			if err := t.Rising(); err != nil {
				return err
			}
		}
	})
	if err := s.Tick(); err != nil {
		t.Fatal(err)
	}
	h.Cancel()
	// next step is a falling edge: the task must exit anyway.
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-h.Done():
	default:
		t.Fatal("cancelled task still running after one edge")
	}
	if !hwvip.IsCanceled(h.Err()) {
		t.Fatalf("expected cancellation error, got %v", h.Err())
	}
	if s.Err() != nil {
		t.Fatalf("cancellation must not fail the simulation: %v", s.Err())
	}
}

func TestSim_Stop(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	h := s.Go("loop", func(t *hwvip.Task) error {
		for {
			if err := t.Rising(); err != nil {
				return err
			}
		}
	})
	if err := s.Run(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(context.Background(), h, 1); err != nil {
		t.Fatal(err)
	}

	// a task that ignores cancellation
	var release bool
	h = s.Go("stubborn", func(t *hwvip.Task) error {
		for !release {
			t.Rising()
		}
		return nil
	})
	s.TickTock()
	if err := s.Stop(context.Background(), h, 3); err == nil {
		t.Fatal("expected an error for a task ignoring cancellation")
	}
	release = true
	s.TickTock()
}

func TestSim_RunUntil(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	h := s.Go("forever", func(t *hwvip.Task) error {
		return t.Until(func() bool { return false })
	})
	err := s.RunUntil(context.Background(), h, 5)
	if err == nil || !strings.Contains(err.Error(), "not done after 5 cycles") {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if s.Cycle() != 5 {
		t.Fatalf("expected 5 cycles, got %d", s.Cycle())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err = s.RunUntil(ctx, h, 5); !hwvip.IsCanceled(err) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestSim_taskError(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	errBoom := errors.New("boom")
	s.Go("bad", func(t *hwvip.Task) error {
		t.Cycles(2)
		return errBoom
	})
	err := s.Run(context.Background(), 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Cause(err) != errBoom || !strings.Contains(err.Error(), "task bad: boom") {
		t.Fatalf("bad error: %v", err)
	}
	if s.Cycle() != 2 {
		t.Fatalf("run must stop in the failing cycle, stopped at %d", s.Cycle())
	}
	if err = s.Step(); errors.Cause(err) != errBoom {
		t.Fatalf("failed simulation must not step: %v", err)
	}
}

func TestSim_taskPanic(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()

	s.Go("p", func(t *hwvip.Task) error {
		panic("oops")
	})
	err := s.Run(context.Background(), 2)
	if err == nil || !strings.Contains(err.Error(), "panic: oops") {
		t.Fatalf("expected recovered panic, got %v", err)
	}
}

func TestSim_Dispose(t *testing.T) {
	s := hwvip.NewSim()

	var hs []*hwvip.Handle
	for i := 0; i < 10; i++ {
		hs = append(hs, s.Go("loop", func(t *hwvip.Task) error {
			for {
				if err := t.Rising(); err != nil {
					return err
				}
			}
		}))
	}
	s.Run(context.Background(), 2)
	// never started
	hs = append(hs, s.Go("late", func(t *hwvip.Task) error { return nil }))
	s.Dispose()
	for _, h := range hs {
		select {
		case <-h.Done():
		default:
			t.Fatalf("task %s still running after Dispose", h.Name())
		}
	}
}
