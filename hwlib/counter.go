// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwvip"

// CounterPort is the signal binding of a Counter.
//
type CounterPort struct {
	RstN   *hwvip.Wire `vip:"rst_n"`
	Enable *hwvip.Wire `vip:"enable"`
	Count  *hwvip.Wire `vip:"count[8]"`
}

// Counter returns a wrap-around counter with an active low synchronous reset.
//
//	Inputs: rst_n, enable
//	Outputs: count[width]
//	Function: count(t) = 0 if !rst_n(t-1),
//	          count(t-1)+1 if enable(t-1),
//	          count(t-1) otherwise.
//
func Counter(s *hwvip.Sim, prefix string, width uint) (hwvip.Component, *CounterPort, error) {
	var p CounterPort
	if err := hwvip.Bind(s, prefix, &p, hwvip.Width("count", width)); err != nil {
		return nil, nil, err
	}
	return func(*hwvip.Sim) {
		switch {
		case !p.RstN.Bool():
			p.Count.Set(0)
		case p.Enable.Bool():
			p.Count.Set(p.Count.Get() + 1)
		}
	}, &p, nil
}
