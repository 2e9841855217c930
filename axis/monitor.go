// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axis

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// Monitor reassembles packets from the beats transferred on a stream. A packet
// is emitted with the beat carrying tlast.
//
// A passive monitor drives nothing. An active monitor (see Drain) also acts
// as the stream sink and drives tready.
//
type Monitor struct {
	bus     *Bus
	out     hwvip.Fanout[txn.Packet]
	bp      Backpressure
	cur     []uint64
	beats   uint64
	packets uint64
}

// NewMonitor returns a passive monitor pushing the observed packets to every
// queue in out.
//
func NewMonitor(bus *Bus, out ...*hwvip.Queue[txn.Packet]) *Monitor {
	return &Monitor{bus: bus, out: out}
}

// Drain makes m an active monitor driving tready according to bp.
//
func (m *Monitor) Drain(bp Backpressure) *Monitor {
	m.bp = bp
	return m
}

// Beats returns the number of beats observed.
//
func (m *Monitor) Beats() uint64 { return m.beats }

// Packets returns the number of packets emitted.
//
func (m *Monitor) Packets() uint64 { return m.packets }

// Pending returns the number of beats received for a packet not yet
// terminated.
//
func (m *Monitor) Pending() int { return len(m.cur) }

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
			m.beats++
			m.cur = append(m.cur, b.Tdata.Get())
			if b.Tlast.Bool() {
				p := txn.Packet{Data: m.cur}
				m.cur = nil
				m.packets++
				t.Logger().Debugf("observed %v", p)
				if !m.out.Push(p) {
					t.Logger().Warnf("queue full, dropped %v", p)
				}
			}
		}
		if m.bp != nil {
			b.Tready.SetBool(m.bp.Ready(fire))
		}
	}
}
