// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scoreboard

import (
	"fmt"
	"sort"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/noc"
	"github.com/db47h/hwvip/txn"
)

// Routed is an expected-queue scoreboard. Expected items are queued per key,
// the key being predicted by the reference model when the item is sent.
// Observed items are matched against the head of the queue for their own key.
// Items of a given key are expected in order, while there is no ordering
// between keys.
//
type Routed[K comparable, T any] struct {
	name     string
	s        *hwvip.Sim
	predict  func(T) K
	key      func(T) K
	equal    func(a, b T) bool
	cfg      config
	log      *hwvip.Logger
	queues   map[K][]T
	sent     uint64
	received uint64
	failures []error
}

// NewRouted returns a routed scoreboard. The predict function returns the
// expected key of a sent item, key returns the actual key of an observed one,
// and equal compares an expected item with an observed one.
//
func NewRouted[K comparable, T any](s *hwvip.Sim, name string, predict, key func(T) K, equal func(a, b T) bool, opts ...Option) *Routed[K, T] {
	return &Routed[K, T]{
		name:    name,
		s:       s,
		predict: predict,
		key:     key,
		equal:   equal,
		cfg:     newConfig(opts),
		log:     s.Logger(name),
		queues:  make(map[K][]T),
	}
}

// Expect queues v as expected on its predicted key, which is returned.
//
func (r *Routed[K, T]) Expect(v T) K {
	k := r.predict(v)
	r.queues[k] = append(r.queues[k], v)
	r.sent++
	r.log.Debugf("expect %v on %v", v, k)
	return k
}

// Observe matches an observed item with the oldest expected item for its key.
//
func (r *Routed[K, T]) Observe(v T) error {
	r.received++
	k := r.key(v)
	q := r.queues[k]
	if len(q) == 0 {
		return r.fail(&UnexpectedError{Scoreboard: r.name, Key: fmt.Sprint(k), Got: v, Cycle: r.s.Cycle()})
	}
	exp := q[0]
	if len(q) == 1 {
		delete(r.queues, k)
	} else {
		r.queues[k] = q[1:]
	}
	if !r.equal(exp, v) {
		return r.fail(&MismatchError{Scoreboard: r.name, Key: fmt.Sprint(k), Expected: exp, Got: v, Cycle: r.s.Cycle()})
	}
	r.log.Debugf("match %v on %v", v, k)
	return nil
}

func (r *Routed[K, T]) fail(err error) error {
	r.failures = append(r.failures, err)
	r.log.Errorf("%v", err)
	if r.cfg.failFast {
		return err
	}
	return nil
}

// Outstanding returns the number of items still expected on key k.
//
func (r *Routed[K, T]) Outstanding(k K) int { return len(r.queues[k]) }

// Missing returns, for every key with outstanding items, a description of the
// items that were never observed.
//
func (r *Routed[K, T]) Missing() []string {
	var ms []string
	for k, q := range r.queues {
		for _, v := range q {
			ms = append(ms, fmt.Sprintf("%v: %v", k, v))
		}
	}
	sort.Strings(ms)
	return ms
}

// Failures returns the mismatch and unexpected errors recorded so far.
//
func (r *Routed[K, T]) Failures() []error { return r.failures }

// Report returns the scoreboard summary. Outstanding items are counted as
// missing and as errors. Report has no side effects.
//
func (r *Routed[K, T]) Report() Report {
	var missing uint64
	for _, q := range r.queues {
		missing += uint64(len(q))
	}
	n := uint64(len(r.failures)) + missing
	return Report{
		Name:     r.name,
		Kind:     KindRouted,
		Sent:     r.sent,
		Received: r.received,
		Missing:  missing,
		Errors:   n,
		Status:   status(n),
	}
}

// NewStream returns an in-order packet scoreboard.
//
func NewStream(s *hwvip.Sim, name string, opts ...Option) *Routed[struct{}, txn.Packet] {
	same := func(txn.Packet) struct{} { return struct{}{} }
	return NewRouted(s, name, same, same, txn.Packet.Equal, opts...)
}

// NewRouter returns a scoreboard for a router: expected packets are queued on
// the port returned by route for their destination, observed packets are
// matched on the port they were seen on, with l.Equal.
//
func NewRouter(s *hwvip.Sim, name string, route model.RouteFunc, l noc.Layout, opts ...Option) *Routed[model.Port, noc.Packet] {
	return NewRouted(s, name,
		func(p noc.Packet) model.Port { return route(p.Dst) },
		func(p noc.Packet) model.Port { return p.Port },
		l.Equal, opts...)
}
