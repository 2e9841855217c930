// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axis_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/axis"
	"github.com/db47h/hwvip/txn"
)

var packets = []txn.Packet{
	txn.NewPacket(0x11, 0x12),
	txn.NewPacket(0x21),
	txn.NewPacket(0x31, 0x32, 0x33),
}

func send(d *axis.Driver, ps []txn.Packet) hwvip.TaskFunc {
	return func(t *hwvip.Task) error {
		d.Reset()
		for _, p := range ps {
			if err := d.Send(t, p); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestFIFO_passThrough(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()
	in, err := axis.NewBus(s, "s_axis")
	require.NoError(t, err)
	out, err := axis.NewBus(s, "m_axis")
	require.NoError(t, err)

	fifo := axis.NewFIFO(s, in, out, 2)
	drv := axis.NewDriver(s, "drv", in)
	inQ := hwvip.NewQueue[txn.Packet]("in", hwvip.Unlimited)
	outQ := hwvip.NewQueue[txn.Packet]("out", hwvip.Unlimited)
	inMon := axis.NewMonitor(in, inQ)
	outMon := axis.NewMonitor(out, outQ).Drain(axis.Latency(1))
	s.Go("in.mon", inMon.Run)
	s.Go("out.mon", outMon.Run)

	h := s.Go("drv", send(drv, packets))
	require.NoError(t, s.RunUntil(context.Background(), h, 100))
	require.NoError(t, s.Run(context.Background(), 20))

	assert.Equal(t, packets, inQ.Items())
	assert.Equal(t, packets, outQ.Items())
	assert.Equal(t, uint64(6), inMon.Beats())
	assert.Equal(t, uint64(3), outMon.Packets())
	assert.Zero(t, outMon.Pending())
	assert.Zero(t, fifo.Len())
	assert.Equal(t, uint64(6), drv.Beats())
}

// sendTo sends ps to an active monitor and returns the cycle at which the
// driver is done, with the observed packets.
//
func sendTo(t *testing.T, bp axis.Backpressure, ps []txn.Packet, opts ...axis.DriverOption) (uint64, []txn.Packet) {
	t.Helper()
	s := hwvip.NewSim()
	defer s.Dispose()
	bus, err := axis.NewBus(s, "axis", hwvip.Width("tdata", 64))
	require.NoError(t, err)
	q := hwvip.NewQueue[txn.Packet]("obs", hwvip.Unlimited)
	s.Go("sink", axis.NewMonitor(bus, q).Drain(bp).Run)

	var done uint64
	drv := axis.NewDriver(s, "drv", bus, opts...)
	h := s.Go("drv", func(tk *hwvip.Task) error {
		if err := send(drv, ps)(tk); err != nil {
			return err
		}
		done = tk.Cycle()
		return nil
	})
	require.NoError(t, s.RunUntil(context.Background(), h, 1000))
	return done, q.Items()
}

func TestMonitor_backpressure(t *testing.T) {
	base, ref := sendTo(t, axis.AlwaysReady(), packets)
	assert.Equal(t, uint64(6), base, "beats must be transferred back to back")
	assert.Equal(t, packets, ref)

	for _, n := range []int{1, 3, 10} {
		c, got := sendTo(t, axis.HoldOff(n), packets)
		assert.Equal(t, base+uint64(n), c, "hold off %d", n)
		assert.Equal(t, ref, got, "hold off %d", n)
	}

	// 6 beats, 5 gaps
	c, got := sendTo(t, axis.Latency(2), packets)
	assert.Equal(t, base+5*2, c)
	assert.Equal(t, ref, got)
}

func TestDriver_idle(t *testing.T) {
	ps := []txn.Packet{txn.NewPacket(1, 2, 3)}
	c, got := sendTo(t, axis.AlwaysReady(), ps, axis.Idle(2))
	assert.Equal(t, uint64(7), c)
	assert.Equal(t, ps, got)
}

func TestDriver_wideData(t *testing.T) {
	ps := []txn.Packet{txn.NewPacket(0xfedcba9876543210)}
	_, got := sendTo(t, axis.AlwaysReady(), ps)
	assert.Equal(t, ps, got)
}

func TestDriver_emptyPacket(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()
	bus, err := axis.NewBus(s, "axis")
	require.NoError(t, err)
	drv := axis.NewDriver(s, "drv", bus)
	h := s.Go("drv", func(tk *hwvip.Task) error {
		return drv.Send(tk, txn.Packet{})
	})
	assert.Error(t, s.RunUntil(context.Background(), h, 10))
}

func TestMonitor_queueFull(t *testing.T) {
	var buf bytes.Buffer
	s := hwvip.NewSim(hwvip.WithLogger(hwvip.NewLogger(&buf, hwvip.LevelWarn)))
	defer s.Dispose()
	bus, err := axis.NewBus(s, "axis")
	require.NoError(t, err)
	q := hwvip.NewQueue[txn.Packet]("obs", 1)
	mon := axis.NewMonitor(bus, q).Drain(axis.AlwaysReady())
	s.Go("mon", mon.Run)
	h := s.Go("drv", send(axis.NewDriver(s, "drv", bus), packets[:2]))
	require.NoError(t, s.RunUntil(context.Background(), h, 100))
	require.NoError(t, s.Run(context.Background(), 2))

	assert.Equal(t, packets[:1], q.Items())
	assert.Equal(t, uint64(2), mon.Packets())
	assert.Equal(t, uint64(1), q.Dropped())
	assert.True(t, strings.Contains(buf.String(), "W mon: queue full, dropped [0x21]"), buf.String())
}
