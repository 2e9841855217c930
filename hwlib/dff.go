// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "github.com/db47h/hwvip"

// DFFPort is the signal binding of a DFF.
//
type DFFPort struct {
	In  *hwvip.Wire `vip:"d"`
	Out *hwvip.Wire `vip:"q"`
}

// DFF returns a width bits clocked data flip flop bound to prefix_d and
// prefix_q.
//
//	Inputs: d[width]
//	Outputs: q[width]
//	Function: q(t) = d(t-1) // where t is the current clock cycle.
//
func DFF(s *hwvip.Sim, prefix string, width uint) (hwvip.Component, *DFFPort, error) {
	var p DFFPort
	if err := hwvip.Bind(s, prefix, &p, hwvip.Width("d", width), hwvip.Width("q", width)); err != nil {
		return nil, nil, err
	}
	return func(*hwvip.Sim) {
		p.Out.Set(p.In.Get())
	}, &p, nil
}
