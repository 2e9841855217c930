// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package axis implements an AXI4-Stream verification component: framed
// packet driver, passive or draining monitor with configurable back-pressure
// and a FIFO device model.
//
package axis

import (
	"github.com/db47h/hwvip"
)

// Bus is the signal binding of an AXI4-Stream interface. tdata defaults to 32
// bits; use hwvip.Width("tdata", n) to change it.
//
type Bus struct {
	Tdata  *hwvip.Wire `vip:"tdata[32]"`
	Tvalid *hwvip.Wire `vip:"tvalid"`
	Tready *hwvip.Wire `vip:"tready"`
	Tlast  *hwvip.Wire `vip:"tlast"`
}

// NewBus binds an AXI4-Stream interface named prefix.
//
func NewBus(s *hwvip.Sim, prefix string, opts ...hwvip.BindOption) (*Bus, error) {
	var b Bus
	if err := hwvip.Bind(s, prefix, &b, opts...); err != nil {
		return nil, err
	}
	return &b, nil
}

// Fire reports whether a beat is transferred on the current edge.
//
func (b *Bus) Fire() bool {
	return b.Tvalid.Bool() && b.Tready.Bool()
}
