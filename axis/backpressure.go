// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axis

// Backpressure decides the tready value driven by an active monitor.
//
// Ready is called once when the monitor starts, with accepted set to false,
// then once per rising edge, with accepted set to true if a beat was
// transferred on that edge. It returns the tready value for the next cycle.
//
type Backpressure interface {
	Ready(accepted bool) bool
}

// BackpressureFunc adapts a function to the Backpressure interface.
//
type BackpressureFunc func(accepted bool) bool

// Ready implements Backpressure.
//
func (f BackpressureFunc) Ready(accepted bool) bool { return f(accepted) }

// AlwaysReady keeps tready high.
//
func AlwaysReady() Backpressure {
	return BackpressureFunc(func(bool) bool { return true })
}

// HoldOff withholds tready for the first n cycles, then keeps it high.
//
func HoldOff(n int) Backpressure {
	var seen int
	return BackpressureFunc(func(bool) bool {
		seen++
		return seen > n
	})
}

// Latency withholds tready for n cycles after every accepted beat.
//
func Latency(n int) Backpressure {
	var wait int
	return BackpressureFunc(func(accepted bool) bool {
		if accepted {
			wait = n
		}
		if wait > 0 {
			wait--
			return false
		}
		return true
	})
}
