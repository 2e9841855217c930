// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwvip

// Unlimited is the capacity of a queue without bound.
//
const Unlimited = -1

// Queue is a FIFO used to hand transactions from a monitor to its consumers.
// It is not safe for concurrent use; tasks of a Sim never run concurrently.
//
type Queue[T any] struct {
	name     string
	capacity int
	items    []T
	pushed   uint64
	dropped  uint64
}

// NewQueue returns an empty queue. A negative capacity means unlimited.
//
func NewQueue[T any](name string, capacity int) *Queue[T] {
	return &Queue[T]{name: name, capacity: capacity}
}

// Name returns the queue name.
//
func (q *Queue[T]) Name() string { return q.name }

// Len returns the number of queued items.
//
func (q *Queue[T]) Len() int { return len(q.items) }

// Pushed returns the number of items accepted since the queue was created.
//
func (q *Queue[T]) Pushed() uint64 { return q.pushed }

// Dropped returns the number of items rejected because the queue was full.
//
func (q *Queue[T]) Dropped() uint64 { return q.dropped }

// Push appends an item. It returns false if the queue is full.
//
func (q *Queue[T]) Push(item T) bool {
	if q.capacity >= 0 && len(q.items) >= q.capacity {
		q.dropped++
		return false
	}
	q.items = append(q.items, item)
	q.pushed++
	return true
}

// Peek returns the item at the front of the queue.
//
func (q *Queue[T]) Peek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// Pop removes and returns the item at the front of the queue.
//
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

// Drain pops all items in order and passes them to fn. It stops at the first
// error.
//
func (q *Queue[T]) Drain(fn func(T) error) error {
	for len(q.items) > 0 {
		item, _ := q.Pop()
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

// Items returns a copy of the queued items.
//
func (q *Queue[T]) Items() []T {
	return append([]T(nil), q.items...)
}

// Fanout pushes items to a fixed list of queues.
//
type Fanout[T any] []*Queue[T]

// Push pushes item to every queue. It returns false if any queue was full.
//
func (f Fanout[T]) Push(item T) bool {
	ok := true
	for _, q := range f {
		if !q.Push(item) {
			ok = false
		}
	}
	return ok
}

// Consume starts a task that drains q into fn on every rising edge. The task
// ends with the first error returned by fn. Items already queued when the
// task is cancelled are still passed to fn.
//
func Consume[T any](s *Sim, name string, q *Queue[T], fn func(T) error) *Handle {
	return s.Go(name, func(t *Task) error {
		for {
			if err := q.Drain(fn); err != nil {
				return err
			}
			if err := t.Rising(); err != nil {
				if IsCanceled(err) {
					if derr := q.Drain(fn); derr != nil {
						return derr
					}
				}
				return err
			}
		}
	})
}
