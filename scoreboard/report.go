// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package scoreboard checks observed transactions against reference models.
//
// Scoreboards accumulate errors by default: Observe records a mismatch and
// returns nil, and the verdict is read from Report once the run is over. With
// the FailFast option, Observe returns the mismatch error instead, which
// aborts the run when returned from a task. A Checker always fails fast.
//
package scoreboard

import (
	"fmt"

	"github.com/db47h/hwvip"
)

// Status is the verdict of a scoreboard.
//
type Status uint8

// Verdicts.
//
const (
	Pass Status = iota
	Fail
)

func (s Status) String() string {
	if s == Pass {
		return "PASS"
	}
	return "FAIL"
}

// Kind identifies the scoreboard flavor that produced a report.
//
type Kind uint8

// Scoreboard kinds.
//
const (
	KindChecker Kind = iota
	KindRegisters
	KindRouted
)

// Report is a scoreboard summary.
//
type Report struct {
	Name string
	Kind Kind
	// Writes counts writes for register scoreboards and checks for a
	// Checker.
	Writes uint64
	Reads  uint64
	// Errors includes mismatches, unexpected transactions and missing ones.
	Errors   uint64
	Sent     uint64
	Received uint64
	Missing  uint64
	Status   Status
}

func status(errors uint64) Status {
	if errors == 0 {
		return Pass
	}
	return Fail
}

// Passed returns true if the scoreboard found no error.
//
func (r Report) Passed() bool { return r.Status == Pass }

func (r Report) String() string {
	switch r.Kind {
	case KindChecker:
		return fmt.Sprintf("%s: %d checks, %d errors - %v", r.Name, r.Writes, r.Errors, r.Status)
	case KindRouted:
		return fmt.Sprintf("%s: %d sent, %d received, %d missing, %d errors - %v",
			r.Name, r.Sent, r.Received, r.Missing, r.Errors, r.Status)
	}
	return fmt.Sprintf("%s: %d writes, %d reads, %d errors - %v", r.Name, r.Writes, r.Reads, r.Errors, r.Status)
}

// Log writes r to l, at info level on success, at error level otherwise.
//
func (r Report) Log(l *hwvip.Logger) {
	if r.Passed() {
		l.Infof("%v", r)
	} else {
		l.Errorf("%v", r)
	}
}

// Verdict returns Pass if all reports passed.
//
func Verdict(rs ...Report) Status {
	for _, r := range rs {
		if !r.Passed() {
			return Fail
		}
	}
	return Pass
}

// A Reporter produces a report.
//
type Reporter interface {
	Report() Report
}

// Option configures a scoreboard.
//
type Option func(*config)

type config struct {
	failFast bool
}

// FailFast makes Observe return mismatch errors.
//
func FailFast() Option {
	return func(c *config) {
		c.failFast = true
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}
