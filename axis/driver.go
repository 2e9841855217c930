// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axis

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// Driver is an AXI4-Stream master. It owns tdata, tvalid and tlast.
//
type Driver struct {
	bus   *Bus
	log   *hwvip.Logger
	idle  int
	beats uint64
}

// A DriverOption configures a Driver.
//
type DriverOption func(*Driver)

// Idle inserts n idle cycles with tvalid low between the beats of a packet.
//
func Idle(n int) DriverOption {
	return func(d *Driver) {
		d.idle = n
	}
}

// NewDriver returns a new driver for bus.
//
func NewDriver(s *hwvip.Sim, name string, bus *Bus, opts ...DriverOption) *Driver {
	d := &Driver{bus: bus, log: s.Logger(name)}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Beats returns the number of beats sent.
//
func (d *Driver) Beats() uint64 { return d.beats }

// Reset drives the bus to idle.
//
func (d *Driver) Reset() {
	d.bus.Tvalid.Set(0)
	d.bus.Tdata.Set(0)
	d.bus.Tlast.Set(0)
}

// Beat sends a single beat and returns once it has been accepted.
//
func (d *Driver) Beat(t *hwvip.Task, b txn.Beat) error {
	bus := d.bus
	bus.Tdata.Set(b.Data)
	bus.Tlast.SetBool(b.Last)
	bus.Tvalid.Set(1)
	if err := t.Until(bus.Tready.Bool); err != nil {
		return err
	}
	// cleared unless the next beat is presented in the same cycle
	bus.Tvalid.Set(0)
	bus.Tlast.Set(0)
	d.beats++
	return nil
}

// Send sends all beats of p, raising tlast with the final one.
//
func (d *Driver) Send(t *hwvip.Task, p txn.Packet) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, b := range p.Beats() {
		if err := d.Beat(t, b); err != nil {
			return err
		}
		if d.idle > 0 && !b.Last {
			if err := t.Cycles(d.idle); err != nil {
				return err
			}
		}
	}
	d.log.Debugf("sent %v", p)
	return nil
}
