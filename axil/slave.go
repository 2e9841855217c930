// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axil

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/txn"
)

// Latency holds per channel slave latencies in clock cycles. For AW, W and
// AR, it is the delay between valid being sampled and ready being raised. For
// B and R, it is the delay between the request being complete and the
// response valid being raised.
//
type Latency struct {
	AW, W, B, AR, R int
}

// sink drives the ready side of a request channel.
//
type sink struct {
	valid, ready *hwvip.Wire
	lat          int
	cnt          int
}

// update returns true on a handshake.
//
func (c *sink) update() bool {
	if fire(c.valid, c.ready) {
		c.ready.Set(0)
		c.cnt = 0
		return true
	}
	if c.valid.Bool() && !c.ready.Bool() {
		if c.cnt < c.lat {
			c.cnt++
		} else {
			c.ready.Set(1)
		}
	}
	return false
}

type pending struct {
	data uint32
	resp txn.Resp
}

// source drives the valid side of a response channel.
//
type source struct {
	valid, ready *hwvip.Wire
	lat          int
	cnt          int
	busy         bool
	q            []pending
	put          func(pending)
}

func (c *source) update() {
	if c.busy {
		if fire(c.valid, c.ready) {
			c.valid.Set(0)
			c.busy = false
		}
		return
	}
	if len(c.q) == 0 {
		return
	}
	if c.cnt < c.lat {
		c.cnt++
		return
	}
	c.cnt = 0
	c.put(c.q[0])
	c.q = c.q[1:]
	c.valid.Set(1)
	c.busy = true
}

// Slave is an AXI4-Lite register file. It owns the ready signals of the
// request channels and the B and R channels.
//
//	Function: a write is performed once both its address and data have been
//	          accepted, merging wdata according to wstrb. Accesses outside
//	          the register map get an SLVERR response.
//
type Slave struct {
	bus  *Bus
	regs *model.Mirror
	log  *hwvip.Logger

	aw, w, ar sink
	b, r      source
	addrs     []uint32
	data      []pending
	strb      []uint8
}

// NewSlave returns a register slave backed by regs and adds it to s.
//
func NewSlave(s *hwvip.Sim, name string, bus *Bus, regs *model.Mirror, lat Latency) *Slave {
	sl := &Slave{
		bus:  bus,
		regs: regs,
		log:  s.Logger(name),
		aw:   sink{valid: bus.Awvalid, ready: bus.Awready, lat: lat.AW},
		w:    sink{valid: bus.Wvalid, ready: bus.Wready, lat: lat.W},
		ar:   sink{valid: bus.Arvalid, ready: bus.Arready, lat: lat.AR},
		b: source{valid: bus.Bvalid, ready: bus.Bready, lat: lat.B,
			put: func(p pending) { bus.Bresp.Set(uint64(p.resp)) }},
		r: source{valid: bus.Rvalid, ready: bus.Rready, lat: lat.R,
			put: func(p pending) {
				bus.Rdata.Set(uint64(p.data))
				bus.Rresp.Set(uint64(p.resp))
			}},
	}
	s.Add(sl.Update)
	return sl
}

// Regs returns the register storage of the slave.
//
func (sl *Slave) Regs() *model.Mirror { return sl.regs }

// Update is the slave clocked process.
//
func (sl *Slave) Update(*hwvip.Sim) {
	b := sl.bus
	if sl.aw.update() {
		sl.addrs = append(sl.addrs, uint32(b.Awaddr.Get()))
	}
	if sl.w.update() {
		sl.data = append(sl.data, pending{data: uint32(b.Wdata.Get())})
		sl.strb = append(sl.strb, uint8(b.Wstrb.Get()))
	}
	for len(sl.addrs) > 0 && len(sl.data) > 0 {
		addr := sl.addrs[0]
		resp := sl.regs.Write(addr, sl.data[0].data, sl.strb[0])
		if resp != txn.Okay {
			sl.log.Warnf("write error at %#x", addr)
		}
		sl.addrs, sl.data, sl.strb = sl.addrs[1:], sl.data[1:], sl.strb[1:]
		sl.b.q = append(sl.b.q, pending{resp: resp})
	}
	sl.b.update()

	if sl.ar.update() {
		addr := uint32(b.Araddr.Get())
		v, resp := sl.regs.Read(addr)
		if resp != txn.Okay {
			sl.log.Warnf("read error at %#x", addr)
		}
		sl.r.q = append(sl.r.q, pending{data: v, resp: resp})
	}
	sl.r.update()
}
