// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package model

// Counter models a width bits wrap-around counter with an enable input.
//
type Counter struct {
	mask  uint64
	value uint64
}

// NewCounter returns a counter model of the given width.
//
func NewCounter(width uint) *Counter {
	m := ^uint64(0)
	if width < 64 {
		m = 1<<width - 1
	}
	return &Counter{mask: m}
}

// Reset clears the counter.
//
func (c *Counter) Reset() { c.value = 0 }

// Tick advances the model by one clock cycle.
//
func (c *Counter) Tick(enable bool) {
	if enable {
		c.value = (c.value + 1) & c.mask
	}
}

// Value returns the expected counter value.
//
func (c *Counter) Value() uint64 { return c.value }
