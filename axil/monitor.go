// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axil

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// Monitor is a passive AXI4-Lite observer. Write address and data are
// captured at their own handshakes and the write is emitted on the B
// handshake. Reads are emitted on the R handshake.
//
type Monitor struct {
	bus    *Bus
	out    hwvip.Fanout[txn.Bus]
	count  uint64
	orphan uint64
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

// Orphans returns the number of responses seen without a matching request.
//
func (m *Monitor) Orphans() uint64 { return m.orphan }

// Run is the monitor task. It observes the write and read channels in two
// child tasks.
//
func (m *Monitor) Run(t *hwvip.Task) error {
	return t.Join(t.Go("write", m.writes), t.Go("read", m.reads))
}

func (m *Monitor) emit(t *hwvip.Task, tr txn.Bus) {
	m.count++
	t.Logger().Debugf("observed %v", tr)
	if !m.out.Push(tr) {
		t.Logger().Warnf("queue full, dropped %v", tr)
	}
}

func (m *Monitor) writes(t *hwvip.Task) error {
	b := m.bus
	var addrs []uint32
	var data []txn.Bus
	for {
		if err := t.Rising(); err != nil {
			return err
		}
		if fire(b.Awvalid, b.Awready) {
			addrs = append(addrs, uint32(b.Awaddr.Get()))
		}
		if fire(b.Wvalid, b.Wready) {
			data = append(data, txn.Bus{Data: uint32(b.Wdata.Get()), Strb: uint8(b.Wstrb.Get())})
		}
		if !fire(b.Bvalid, b.Bready) {
			continue
		}
		if len(addrs) == 0 || len(data) == 0 {
			m.orphan++
			t.Logger().Errorf("write response without address or data")
			continue
		}
		tr := data[0]
		tr.Dir = txn.Write
		tr.Addr = addrs[0]
		tr.Resp = txn.Resp(b.Bresp.Get())
		addrs, data = addrs[1:], data[1:]
		m.emit(t, tr)
	}
}

func (m *Monitor) reads(t *hwvip.Task) error {
	b := m.bus
	var addrs []uint32
	for {
		if err := t.Rising(); err != nil {
			return err
		}
		if fire(b.Arvalid, b.Arready) {
			addrs = append(addrs, uint32(b.Araddr.Get()))
		}
		if !fire(b.Rvalid, b.Rready) {
			continue
		}
		if len(addrs) == 0 {
			m.orphan++
			t.Logger().Errorf("read data without address")
			continue
		}
		tr := txn.Bus{
			Dir:  txn.Read,
			Addr: addrs[0],
			Data: uint32(b.Rdata.Get()),
			Resp: txn.Resp(b.Rresp.Get()),
		}
		addrs = addrs[1:]
		m.emit(t, tr)
	}
}
