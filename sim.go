// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwvip

import (
	"context"

	"github.com/pkg/errors"
)

// A Component is a clocked model (typically a device under test) updated on
// every rising edge. It must only read wires with Get and write them with Set.
//
type Component func(s *Sim)

// Edge identifies a clock edge.
//
type Edge uint8

// Clock edges.
//
const (
	Rising Edge = iota
	Falling
)

func (e Edge) String() string {
	if e == Rising {
		return "rising"
	}
	return "falling"
}

// Sim is a runnable simulation: a set of wires, clocked components and
// cooperative tasks sharing a single clock.
//
type Sim struct {
	cur   []uint64 // wire states frame #0
	next  []uint64 // wire states frame #1
	wires []*Wire
	names map[string]*Wire
	cs    []Component
	step  uint64 // half clock cycles

	tasks   []*Task
	spawned []*Task
	queue   []*Task
	yield   chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	err     error

	log *Logger
}

// An Option configures a Sim.
//
type Option func(*Sim)

// WithLogger sets the root logger of the simulation.
//
func WithLogger(l *Logger) Option {
	return func(s *Sim) {
		s.log = l
	}
}

// NewSim returns a new, empty simulation.
//
// Callers must make sure to call Dispose() once the simulation is no longer
// needed in order to release task goroutines.
//
func NewSim(opts ...Option) *Sim {
	s := &Sim{
		names: make(map[string]*Wire),
		yield: make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = Discard()
	}
	s.log = s.log.withClock(s.Cycle)
	return s
}

// Logger returns a logger for the named component.
//
func (s *Sim) Logger(name string) *Logger {
	return s.log.Named(name)
}

// Add adds clocked components to the simulation.
//
func (s *Sim) Add(cs ...Component) {
	s.cs = append(s.cs, cs...)
}

// Steps returns the value of the half cycle step counter.
//
func (s *Sim) Steps() uint64 {
	return s.step
}

// Cycle returns the current clock cycle.
//
func (s *Sim) Cycle() uint64 {
	return s.step / 2
}

// Edge returns the edge processed by the next step.
//
func (s *Sim) Edge() Edge {
	return Edge(s.step & 1)
}

// Err returns the first error returned by a task, if any.
//
func (s *Sim) Err() error {
	return s.err
}

// Step advances the simulation by one half clock cycle.
//
func (s *Sim) Step() error {
	if s.err != nil {
		return s.err
	}
	e := s.Edge()
	if e == Rising {
		for _, c := range s.cs {
			c(s)
		}
	}
	s.runTasks(e)
	copy(s.cur, s.next)
	s.step++
	return s.err
}

// Tick runs the simulation up to and including the next rising edge.
//
func (s *Sim) Tick() error {
	if s.Edge() != Rising {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return s.Step()
}

// Tock runs the simulation up to and including the next falling edge.
//
func (s *Sim) Tock() error {
	if s.Edge() != Falling {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return s.Step()
}

// TickTock runs the simulation for a whole clock cycle.
//
func (s *Sim) TickTock() error {
	if err := s.Step(); err != nil {
		return err
	}
	return s.Step()
}

// Run runs the simulation for the given number of clock cycles.
//
func (s *Sim) Run(ctx context.Context, cycles uint64) error {
	for i := uint64(0); i < cycles; i++ {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		if err := s.TickTock(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil runs the simulation until the task behind h is done. It returns an
// error if the task is still running after maxCycles clock cycles. Drivers
// never time out by themselves; this is the harness level guard against a
// stalled handshake.
//
func (s *Sim) RunUntil(ctx context.Context, h *Handle, maxCycles uint64) error {
	for i := uint64(0); !h.isDone(); i++ {
		if i >= maxCycles {
			return errors.Errorf("task %s not done after %d cycles", h.name, maxCycles)
		}
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		if err := s.TickTock(); err != nil {
			return err
		}
	}
	if err := h.Err(); err != nil && !IsCanceled(err) {
		return err
	}
	return nil
}

// Stop cancels the task behind h and runs the simulation for at most edges
// rising edges until it is done.
//
func (s *Sim) Stop(ctx context.Context, h *Handle, edges int) error {
	h.Cancel()
	for i := 0; i < edges && !h.isDone(); i++ {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		if err := s.Tick(); err != nil {
			return err
		}
	}
	if !h.isDone() {
		return errors.Errorf("task %s still running %d edges after stop", h.name, edges)
	}
	return nil
}

// Dispose cancels all tasks and waits for their goroutines to exit.
//
func (s *Sim) Dispose() {
	s.cancel()
	for round := 0; round < 64; round++ {
		s.adopt()
		live := s.tasks[:0]
		for _, t := range s.tasks {
			if t.wait != waitDone {
				s.resume(t)
			}
			if t.wait != waitDone {
				live = append(live, t)
			}
		}
		s.tasks = live
		if len(s.tasks) == 0 && len(s.spawned) == 0 {
			return
		}
	}
	s.log.Warnf("%d tasks ignored cancellation", len(s.tasks))
}
