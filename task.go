// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwvip

import (
	"context"

	"github.com/pkg/errors"
)

// A TaskFunc is the body of a task. It must only block through the
// suspension methods of t.
//
type TaskFunc func(t *Task) error

type waitState uint8

const (
	waitStart waitState = iota
	waitRising
	waitFalling
	waitJoin
	waitDone
)

// Task is a cooperative simulation task. Tasks run one at a time, so they can
// read and write wires without locking.
//
type Task struct {
	s      *Sim
	h      *Handle
	wake   chan struct{}
	wait   waitState
	joins  []*Handle
	queued bool
	log    *Logger
}

// Handle controls a running task.
//
type Handle struct {
	name    string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	joiners []*Task
}

// IsCanceled returns true if err was caused by task cancellation.
//
func IsCanceled(err error) bool {
	c := errors.Cause(err)
	return c == context.Canceled || c == context.DeadlineExceeded
}

// Go starts a new task. When called from outside a running step, the task
// body starts on the next simulation step.
//
func (s *Sim) Go(name string, fn TaskFunc) *Handle {
	return s.spawn(s.ctx, name, fn)
}

func (s *Sim) spawn(parent context.Context, name string, fn TaskFunc) *Handle {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{name: name, ctx: ctx, cancel: cancel, done: make(chan struct{})}
	t := &Task{s: s, h: h, wake: make(chan struct{}), log: s.Logger(name)}
	s.spawned = append(s.spawned, t)
	go t.run(fn)
	return h
}

func (t *Task) run(fn TaskFunc) {
	<-t.wake
	var err error
	if err = t.h.ctx.Err(); err != nil {
		err = errors.WithStack(err)
	} else {
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("panic: %v", r)
				}
			}()
			err = fn(t)
		}()
	}
	t.h.err = err
	t.h.cancel()
	t.wait = waitDone
	close(t.h.done)
	t.s.yield <- struct{}{}
}

// resume hands control to t until it suspends or returns.
//
func (s *Sim) resume(t *Task) {
	t.queued = false
	t.wake <- struct{}{}
	<-s.yield
}

// adopt moves newly spawned tasks into the task list and returns them.
//
func (s *Sim) adopt() []*Task {
	if len(s.spawned) == 0 {
		return nil
	}
	ts := s.spawned
	s.spawned = nil
	s.tasks = append(s.tasks, ts...)
	return ts
}

func (s *Sim) enqueue(t *Task) {
	if t.queued || t.wait == waitDone {
		return
	}
	t.queued = true
	s.queue = append(s.queue, t)
}

func (s *Sim) runTasks(e Edge) {
	want := waitRising
	if e == Falling {
		want = waitFalling
	}
	s.queue = s.queue[:0]
	for _, t := range s.tasks {
		// cancelled tasks are woken on any edge so that they exit quickly.
		if t.wait == want || t.wait != waitDone && t.h.ctx.Err() != nil {
			s.enqueue(t)
		}
	}
	for _, t := range s.adopt() {
		s.enqueue(t)
	}

	for i := 0; i < len(s.queue); i++ {
		t := s.queue[i]
		if t.wait == waitDone {
			continue
		}
		s.resume(t)
		for _, n := range s.adopt() {
			s.enqueue(n)
		}
		if t.wait == waitDone {
			s.taskDone(t)
		}
	}

	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.wait != waitDone {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

func (s *Sim) taskDone(t *Task) {
	h := t.h
	if h.err != nil && !IsCanceled(h.err) {
		t.log.Errorf("%v", h.err)
		if s.err == nil {
			s.err = errors.Wrapf(h.err, "task %s", h.name)
		}
	}
	for _, j := range h.joiners {
		if j.wait == waitJoin && j.joinReady() {
			s.enqueue(j)
		}
	}
	h.joiners = nil
}

func (t *Task) joinReady() bool {
	for _, h := range t.joins {
		if !h.isDone() {
			return false
		}
	}
	return true
}

func (t *Task) suspend(w waitState) error {
	t.wait = w
	t.s.yield <- struct{}{}
	<-t.wake
	if err := t.h.ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Name returns the task name.
//
func (t *Task) Name() string { return t.h.name }

// Context returns the task context. It is done once the task is cancelled.
//
func (t *Task) Context() context.Context { return t.h.ctx }

// Sim returns the simulation running t.
//
func (t *Task) Sim() *Sim { return t.s }

// Cycle returns the current clock cycle.
//
func (t *Task) Cycle() uint64 { return t.s.Cycle() }

// Logger returns the task logger.
//
func (t *Task) Logger() *Logger { return t.log }

// Rising suspends the task until the next rising clock edge.
//
func (t *Task) Rising() error {
	return t.suspend(waitRising)
}

// Falling suspends the task until the next falling clock edge.
//
func (t *Task) Falling() error {
	return t.suspend(waitFalling)
}

// Cycles suspends the task for n rising edges.
//
func (t *Task) Cycles(n int) error {
	for i := 0; i < n; i++ {
		if err := t.Rising(); err != nil {
			return err
		}
	}
	return nil
}

// Until suspends the task until cond returns true. The condition is checked
// once per rising edge, starting with the next one.
//
func (t *Task) Until(cond func() bool) error {
	for {
		if err := t.Rising(); err != nil {
			return err
		}
		if cond() {
			return nil
		}
	}
}

// Go starts a child task. The child is cancelled together with t and its body
// starts running within the current step.
//
func (t *Task) Go(name string, fn TaskFunc) *Handle {
	return t.s.spawn(t.h.ctx, t.h.name+"."+name, fn)
}

// Join suspends the task until all tasks behind hs are done. The task resumes
// in the same step as the last one finishes. It returns the first task error
// other than a cancellation.
//
func (t *Task) Join(hs ...*Handle) error {
	t.joins = hs
	if !t.joinReady() {
		for _, h := range hs {
			if !h.isDone() {
				h.joiners = append(h.joiners, t)
			}
		}
		if err := t.suspend(waitJoin); err != nil {
			t.joins = nil
			return err
		}
	}
	t.joins = nil
	for _, h := range hs {
		if err := h.err; err != nil && !IsCanceled(err) {
			return err
		}
	}
	return nil
}

// Stop cancels the task behind h and waits at most edges rising edges for it to
// exit.
//
func (t *Task) Stop(h *Handle, edges int) error {
	h.Cancel()
	for i := 0; i < edges && !h.isDone(); i++ {
		if err := t.Rising(); err != nil {
			return err
		}
	}
	if !h.isDone() {
		return errors.Errorf("task %s still running %d edges after stop", h.name, edges)
	}
	return nil
}

// Name returns the task name.
//
func (h *Handle) Name() string { return h.name }

// Cancel requests cancellation of the task. The task exits at its next
// suspension point, which is at most one edge away.
//
func (h *Handle) Cancel() { h.cancel() }

// Done returns a channel closed when the task is done.
//
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the error returned by the task. It is only meaningful once the
// task is done.
//
func (h *Handle) Err() error {
	if !h.isDone() {
		return nil
	}
	return h.err
}

func (h *Handle) isDone() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
