// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package apb

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// Driver is an APB master. It owns psel, penable, pwrite, paddr, pwdata and
// pstrb.
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

// Reset drives the bus to idle.
//
func (d *Driver) Reset() {
	b := d.bus
	b.Psel.Set(0)
	b.Penable.Set(0)
	b.Pwrite.Set(0)
	b.Paddr.Set(0)
	b.Pwdata.Set(0)
	b.Pstrb.Set(0)
}

// Drive runs one transfer. It returns once the slave has raised pready and
// leaves the bus idle, unless the caller starts another transfer in the same
// cycle.
//
// There is no timeout: a slave that never raises pready stalls the task until
// it is cancelled.
//
func (d *Driver) Drive(t *hwvip.Task, tr txn.Bus) (txn.Bus, error) {
	b := d.bus
	tr.Addr = txn.Align(tr.Addr)

	// Setup
	b.Psel.Set(1)
	b.Penable.Set(0)
	b.Paddr.Set(uint64(tr.Addr))
	b.Pwrite.SetBool(tr.IsWrite())
	if tr.IsWrite() {
		b.Pwdata.Set(uint64(tr.Data))
		b.Pstrb.Set(uint64(tr.Strb))
	} else {
		b.Pstrb.Set(0)
	}
	if err := t.Rising(); err != nil {
		return tr, err
	}

	// Access
	b.Penable.Set(1)
	if err := t.Until(b.Pready.Bool); err != nil {
		return tr, err
	}
	if !tr.IsWrite() {
		tr.Data = uint32(b.Prdata.Get())
	}
	tr.Resp = txn.Okay
	if b.Pslverr.Bool() {
		tr.Resp = txn.SlaveError
	}
	b.Psel.Set(0)
	b.Penable.Set(0)
	d.log.Debugf("drove %v", tr)
	return tr, nil
}
