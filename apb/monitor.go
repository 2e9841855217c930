// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package apb

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// Monitor is a passive APB observer. It never drives any bus signal.
//
type Monitor struct {
	bus   *Bus
	out   hwvip.Fanout[txn.Bus]
	count uint64
}

// NewMonitor returns a monitor pushing the observed transfers to every queue
// in out.
//
func NewMonitor(bus *Bus, out ...*hwvip.Queue[txn.Bus]) *Monitor {
	return &Monitor{bus: bus, out: out}
}

// Count returns the number of transfers observed so far.
//
func (m *Monitor) Count() uint64 { return m.count }

// Run is the monitor task.
//
//	s.Go("apb.mon", mon.Run)
//
// A transfer is picked up in its Setup cycle and emitted in the cycle where
// psel, penable and pready are all high.
//
func (m *Monitor) Run(t *hwvip.Task) error {
	b := m.bus
	for {
		if err := t.Rising(); err != nil {
			return err
		}
		if !b.setup() {
			continue
		}
		tr := txn.Bus{Dir: txn.Read, Addr: uint32(b.Paddr.Get())}
		if b.Pwrite.Bool() {
			tr.Dir = txn.Write
			tr.Data = uint32(b.Pwdata.Get())
			tr.Strb = uint8(b.Pstrb.Get())
		}
		if err := t.Until(func() bool { return b.access() && b.Pready.Bool() }); err != nil {
			return err
		}
		if !tr.IsWrite() {
			tr.Data = uint32(b.Prdata.Get())
		}
		if b.Pslverr.Bool() {
			tr.Resp = txn.SlaveError
		}
		m.count++
		t.Logger().Debugf("observed %v", tr)
		if !m.out.Push(tr) {
			t.Logger().Warnf("queue full, dropped %v", tr)
		}
	}
}
