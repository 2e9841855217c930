// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axil

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// Driver is an AXI4-Lite master. It owns the AW, W and AR channels together
// with bready and rready.
//
type Driver struct {
	bus *Bus
	log *hwvip.Logger
}

// NewDriver returns a new driver for bus.
//
func NewDriver(s *hwvip.Sim, name string, bus *Bus) *Driver {
	return &Driver{bus: bus, log: s.Logger(name)}
}

// Reset drives all master outputs to their idle value: valids low, full write
// strobes, bready and rready high.
//
func (d *Driver) Reset() {
	b := d.bus
	b.Awaddr.Set(0)
	b.Awvalid.Set(0)
	b.Wdata.Set(0)
	b.Wstrb.Set(txn.FullStrobe)
	b.Wvalid.Set(0)
	b.Bready.Set(1)
	b.Araddr.Set(0)
	b.Arvalid.Set(0)
	b.Rready.Set(1)
}

// Drive runs one transfer and returns it completed with the slave response.
//
// Writes run the AW and W handshakes as two concurrent child tasks, then wait
// for the B handshake. Reads run the AR handshake then wait for R.
// There is no timeout.
//
func (d *Driver) Drive(t *hwvip.Task, tr txn.Bus) (txn.Bus, error) {
	var err error
	tr.Addr = txn.Align(tr.Addr)
	if tr.IsWrite() {
		tr.Resp, err = d.write(t, tr.Addr, tr.Data, tr.Strb)
	} else {
		tr.Data, tr.Resp, err = d.read(t, tr.Addr)
	}
	if err != nil {
		return tr, err
	}
	d.log.Debugf("drove %v", tr)
	return tr, nil
}

func (d *Driver) write(t *hwvip.Task, addr, data uint32, strb uint8) (txn.Resp, error) {
	b := d.bus
	b.Bready.Set(1)
	aw := t.Go("aw", func(t *hwvip.Task) error {
		b.Awaddr.Set(uint64(addr))
		return handshake(t, b.Awvalid, b.Awready)
	})
	w := t.Go("w", func(t *hwvip.Task) error {
		b.Wdata.Set(uint64(data))
		b.Wstrb.Set(uint64(strb))
		return handshake(t, b.Wvalid, b.Wready)
	})
	if err := t.Join(aw, w); err != nil {
		return txn.Okay, err
	}
	if err := t.Until(b.Bvalid.Bool); err != nil {
		return txn.Okay, err
	}
	return txn.Resp(b.Bresp.Get()), nil
}

func (d *Driver) read(t *hwvip.Task, addr uint32) (uint32, txn.Resp, error) {
	b := d.bus
	b.Rready.Set(1)
	b.Araddr.Set(uint64(addr))
	if err := handshake(t, b.Arvalid, b.Arready); err != nil {
		return 0, txn.Okay, err
	}
	if err := t.Until(b.Rvalid.Bool); err != nil {
		return 0, txn.Okay, err
	}
	return uint32(b.Rdata.Get()), txn.Resp(b.Rresp.Get()), nil
}
