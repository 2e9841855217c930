// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package noc

import (
	"strings"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/axis"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/txn"
)

// Ports binds the stream interfaces of the five router ports for the given
// direction suffix, "in" or "out". Interfaces are named prefix_local_in,
// prefix_north_in and so on.
//
func Ports(s *hwvip.Sim, prefix, dir string, l Layout) ([model.NumPorts]*axis.Bus, error) {
	var bs [model.NumPorts]*axis.Bus
	for _, p := range model.Ports() {
		name := hwvip.JoinName(prefix, strings.ToLower(p.String())+"_"+dir)
		b, err := axis.NewBus(s, name, hwvip.Width("tdata", l.Width()))
		if err != nil {
			return bs, err
		}
		bs[p] = b
	}
	return bs, nil
}

// Driver injects packets into a router input port. Each packet is a single
// beat with tlast set.
//
type Driver struct {
	d      *axis.Driver
	layout Layout
	log    *hwvip.Logger
}

// NewDriver returns a new driver for bus.
//
func NewDriver(s *hwvip.Sim, name string, bus *axis.Bus, l Layout) *Driver {
	return &Driver{d: axis.NewDriver(s, name, bus), layout: l, log: s.Logger(name)}
}

// Reset drives the port to idle.
//
func (d *Driver) Reset() { d.d.Reset() }

// Send sends p and returns once the router has accepted it.
//
func (d *Driver) Send(t *hwvip.Task, p Packet) error {
	if err := d.d.Beat(t, txn.Beat{Data: d.layout.Encode(p), Last: true}); err != nil {
		return err
	}
	d.log.Debugf("sent %v", p)
	return nil
}

// Monitor observes the packets leaving a router output port. Observed packets
// have their Port field set to the monitored port.
//
type Monitor struct {
	bus    *axis.Bus
	port   model.Port
	layout Layout
	bp     axis.Backpressure
	out    hwvip.Fanout[Packet]
	count  uint64
}

// NewMonitor returns a passive monitor for the given port.
//
func NewMonitor(bus *axis.Bus, port model.Port, l Layout, out ...*hwvip.Queue[Packet]) *Monitor {
	return &Monitor{bus: bus, port: port, layout: l, out: out}
}

// Drain makes m also act as the port receiver, driving tready according to bp.
//
func (m *Monitor) Drain(bp axis.Backpressure) *Monitor {
	m.bp = bp
	return m
}

// Count returns the number of packets observed.
//
func (m *Monitor) Count() uint64 { return m.count }

// Run is the monitor task.
//
func (m *Monitor) Run(t *hwvip.Task) error {
	b := m.bus
	if m.bp != nil {
		b.Tready.SetBool(m.bp.Ready(false))
	}
	for {
		if err := t.Rising(); err != nil {
			if m.bp != nil {
				b.Tready.Set(0)
			}
			return err
		}
		fire := b.Fire()
		if fire {
			p := m.layout.Decode(b.Tdata.Get())
			p.Port = m.port
			m.count++
			t.Logger().Debugf("observed %v", p)
			if !m.out.Push(p) {
				t.Logger().Warnf("queue full, dropped %v", p)
			}
		}
		if m.bp != nil {
			b.Tready.SetBool(m.bp.Ready(fire))
		}
	}
}
