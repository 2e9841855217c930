// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package axil implements an AXI4-Lite verification component.
//
// Each of the five channels (AW, W, B, AR, R) has its own valid/ready
// handshake. A transfer happens on a rising edge where both valid and ready
// are sampled high.
//
package axil

import (
	"github.com/db47h/hwvip"
)

// Bus is the signal binding of an AXI4-Lite interface.
//
type Bus struct {
	Awaddr  *hwvip.Wire `vip:"awaddr[32]"`
	Awvalid *hwvip.Wire `vip:"awvalid"`
	Awready *hwvip.Wire `vip:"awready"`

	Wdata  *hwvip.Wire `vip:"wdata[32]"`
	Wstrb  *hwvip.Wire `vip:"wstrb[4]"`
	Wvalid *hwvip.Wire `vip:"wvalid"`
	Wready *hwvip.Wire `vip:"wready"`

	Bresp  *hwvip.Wire `vip:"bresp[2]"`
	Bvalid *hwvip.Wire `vip:"bvalid"`
	Bready *hwvip.Wire `vip:"bready"`

	Araddr  *hwvip.Wire `vip:"araddr[32]"`
	Arvalid *hwvip.Wire `vip:"arvalid"`
	Arready *hwvip.Wire `vip:"arready"`

	Rdata  *hwvip.Wire `vip:"rdata[32]"`
	Rresp  *hwvip.Wire `vip:"rresp[2]"`
	Rvalid *hwvip.Wire `vip:"rvalid"`
	Rready *hwvip.Wire `vip:"rready"`
}

// NewBus binds an AXI4-Lite interface named prefix.
//
func NewBus(s *hwvip.Sim, prefix string, opts ...hwvip.BindOption) (*Bus, error) {
	var b Bus
	if err := hwvip.Bind(s, prefix, &b, opts...); err != nil {
		return nil, err
	}
	return &b, nil
}

func fire(valid, ready *hwvip.Wire) bool {
	return valid.Bool() && ready.Bool()
}

// handshake asserts valid and holds it until ready is sampled high.
//
func handshake(t *hwvip.Task, valid, ready *hwvip.Wire) error {
	valid.Set(1)
	if err := t.Until(ready.Bool); err != nil {
		return err
	}
	valid.Set(0)
	return nil
}
