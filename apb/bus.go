// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package apb implements an APB4 verification component: signal binding,
// master driver, passive monitor and a register slave model.
//
// Transfers follow the two phase protocol: one Setup cycle with psel high and
// penable low, then Access cycles with penable high until the slave raises
// pready.
//
package apb

import (
	"github.com/db47h/hwvip"
)

// Bus is the signal binding of an APB interface.
//
type Bus struct {
	Psel    *hwvip.Wire `vip:"psel"`
	Penable *hwvip.Wire `vip:"penable"`
	Pwrite  *hwvip.Wire `vip:"pwrite"`
	Paddr   *hwvip.Wire `vip:"paddr[32]"`
	Pwdata  *hwvip.Wire `vip:"pwdata[32]"`
	Pstrb   *hwvip.Wire `vip:"pstrb[4]"`
	Prdata  *hwvip.Wire `vip:"prdata[32]"`
	Pready  *hwvip.Wire `vip:"pready"`
	Pslverr *hwvip.Wire `vip:"pslverr"`
}

// NewBus binds an APB interface named prefix. Wires are named prefix_psel,
// prefix_paddr and so on.
//
func NewBus(s *hwvip.Sim, prefix string, opts ...hwvip.BindOption) (*Bus, error) {
	var b Bus
	if err := hwvip.Bind(s, prefix, &b, opts...); err != nil {
		return nil, err
	}
	return &b, nil
}

// setup reports whether the bus is in the Setup phase.
//
func (b *Bus) setup() bool {
	return b.Psel.Bool() && !b.Penable.Bool()
}

// access reports whether the bus is in the Access phase.
//
func (b *Bus) access() bool {
	return b.Psel.Bool() && b.Penable.Bool()
}
