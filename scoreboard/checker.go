// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scoreboard

import "github.com/db47h/hwvip"

// Checker compares single values, like a device output against the output of a
// cycle accurate model. A mismatch is always returned as an error.
//
type Checker struct {
	name   string
	s      *hwvip.Sim
	log    *hwvip.Logger
	checks uint64
	errors uint64
}

// NewChecker returns a new Checker.
//
func NewChecker(s *hwvip.Sim, name string) *Checker {
	return &Checker{name: name, s: s, log: s.Logger(name)}
}

// Check compares expected and got.
//
func (c *Checker) Check(expected, got uint64) error {
	c.checks++
	if expected == got {
		return nil
	}
	c.errors++
	err := &MismatchError{Scoreboard: c.name, Key: "value", Expected: expected, Got: got, Cycle: c.s.Cycle()}
	c.log.Errorf("%v", err)
	return err
}

// Report returns the checker summary.
//
func (c *Checker) Report() Report {
	return Report{Name: c.name, Kind: KindChecker, Writes: c.checks, Errors: c.errors, Status: status(c.errors)}
}
