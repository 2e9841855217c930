// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package apb

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/txn"
)

// Slave is a registered APB register file. It owns prdata, pready and
// pslverr.
//
//	Function: after waits Access cycles, pready is raised for one cycle.
//	          Writes merge pwdata into the register at paddr according to
//	          pstrb. Accesses outside the register map raise pslverr.
//
type Slave struct {
	bus   *Bus
	regs  *model.Mirror
	waits int
	cnt   int
	log   *hwvip.Logger
}

// A SlaveOption configures a Slave.
//
type SlaveOption func(*Slave)

// WaitStates sets the number of wait states inserted in every transfer.
//
func WaitStates(n int) SlaveOption {
	return func(s *Slave) {
		s.waits = n
	}
}

// NewSlave returns a register slave backed by regs and adds it to s.
//
func NewSlave(s *hwvip.Sim, name string, bus *Bus, regs *model.Mirror, opts ...SlaveOption) *Slave {
	sl := &Slave{bus: bus, regs: regs, log: s.Logger(name)}
	for _, o := range opts {
		o(sl)
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
	if b.Pready.Bool() {
		// transfer completed on this edge
		b.Pready.Set(0)
		b.Pslverr.Set(0)
		return
	}
	if !b.access() {
		sl.cnt = 0
		return
	}
	if sl.cnt < sl.waits {
		sl.cnt++
		return
	}
	sl.cnt = 0

	addr := uint32(b.Paddr.Get())
	var resp txn.Resp
	if b.Pwrite.Bool() {
		resp = sl.regs.Write(addr, uint32(b.Pwdata.Get()), uint8(b.Pstrb.Get()))
	} else {
		var v uint32
		v, resp = sl.regs.Read(addr)
		b.Prdata.Set(uint64(v))
	}
	if resp != txn.Okay {
		sl.log.Warnf("access error at %#x", addr)
	}
	b.Pslverr.SetBool(resp != txn.Okay)
	b.Pready.Set(1)
}
