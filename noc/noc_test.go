// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package noc_test

import (
	"context"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/axis"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/noc"
)

func TestLayoutA(t *testing.T) {
	p := noc.Packet{
		Type:    noc.WriteReq,
		Src:     model.Coord{X: 1, Y: 2},
		Dst:     model.Coord{X: 3, Y: 4},
		Payload: 0xabc,
	}
	f := noc.LayoutA.Encode(p)
	if f != 0x2123400000000abc {
		t.Fatalf("bad encoding: %#016x", f)
	}
	if q := noc.LayoutA.Decode(f); q != p {
		t.Fatalf("expected %v, got %v", p, q)
	}

	rt := func(typ, sx, sy, dx, dy uint8, payload uint64) bool {
		p := noc.Packet{
			Type:    noc.Type(typ & 0xf),
			Src:     model.Coord{X: sx & 0xf, Y: sy & 0xf},
			Dst:     model.Coord{X: dx & 0xf, Y: dy & 0xf},
			Payload: payload & (1<<44 - 1),
		}
		q := noc.LayoutA.Decode(noc.LayoutA.Encode(p))
		return q == p && noc.LayoutA.Equal(p, q)
	}
	if err := quick.Check(rt, nil); err != nil {
		t.Fatal(err)
	}
}

func TestLayoutB(t *testing.T) {
	p := noc.Packet{
		Src:     model.Coord{X: 1, Y: 2},
		Dst:     model.Coord{X: 3, Y: 4},
		Payload: 0xbeef,
	}
	f := noc.LayoutB.Encode(p)
	if f != 0x3412beef {
		t.Fatalf("bad encoding: %#08x", f)
	}
	if q := noc.LayoutB.Decode(f); q != p {
		t.Fatalf("expected %v, got %v", p, q)
	}
	// the type field is not carried
	p.Type = noc.Ack
	if q := noc.LayoutB.Decode(noc.LayoutB.Encode(p)); q.Type != 0 {
		t.Fatalf("type must not be encoded, got %v", q.Type)
	}
	quickB := func(sx, sy, dx, dy uint8, payload uint16) bool {
		p := noc.Packet{
			Src:     model.Coord{X: sx & 0xf, Y: sy & 0xf},
			Dst:     model.Coord{X: dx & 0xf, Y: dy & 0xf},
			Payload: uint64(payload),
		}
		return noc.LayoutB.Decode(noc.LayoutB.Encode(p)) == p
	}
	if err := quick.Check(quickB, nil); err != nil {
		t.Fatal(err)
	}
}

func TestLayout_Equal(t *testing.T) {
	a := noc.Packet{Type: noc.ReadReq, Src: model.Coord{X: 1}, Dst: model.Coord{X: 2, Y: 2}, Payload: 5}
	b := a
	b.Src = model.Coord{X: 3}
	b.Port = model.East
	assert.False(t, noc.LayoutA.Equal(a, b), "layout A compares the source")
	assert.True(t, noc.LayoutB.Equal(a, b), "layout B ignores the source")
	b.Payload = 6
	assert.False(t, noc.LayoutB.Equal(a, b))
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "READ", noc.ReadReq.String())
	assert.Equal(t, "WRITE", noc.WriteReq.String())
	assert.Equal(t, "RESP", noc.Response.String())
	assert.Equal(t, "ACK", noc.Ack.String())
	assert.Equal(t, "0x3", noc.Type(3).String())
}

type bench struct {
	s      *hwvip.Sim
	router *noc.Router
	drv    [model.NumPorts]*noc.Driver
	mon    [model.NumPorts]*noc.Monitor
	obs    *hwvip.Queue[noc.Packet]
}

func newBench(t *testing.T, l noc.Layout, at model.XY) *bench {
	t.Helper()
	s := hwvip.NewSim()
	t.Cleanup(s.Dispose)
	in, err := noc.Ports(s, "", "in", l)
	require.NoError(t, err)
	out, err := noc.Ports(s, "", "out", l)
	require.NoError(t, err)
	b := &bench{
		s:      s,
		router: noc.NewRouter(s, "router", in, out, l, at.Route, 8),
		obs:    hwvip.NewQueue[noc.Packet]("obs", hwvip.Unlimited),
	}
	for _, p := range model.Ports() {
		b.drv[p] = noc.NewDriver(s, p.String()+".drv", in[p], l)
		b.mon[p] = noc.NewMonitor(out[p], p, l, b.obs).Drain(axis.AlwaysReady())
		s.Go(p.String()+".mon", b.mon[p].Run)
	}
	return b
}

func (b *bench) send(t *testing.T, port model.Port, ps ...noc.Packet) {
	t.Helper()
	h := b.s.Go("send", func(tk *hwvip.Task) error {
		for _, p := range ps {
			if err := b.drv[port].Send(tk, p); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, b.s.RunUntil(context.Background(), h, 100))
	require.NoError(t, b.s.Run(context.Background(), 10))
}

func TestRouter_xy(t *testing.T) {
	b := newBench(t, noc.LayoutA, model.XY{X: 0, Y: 0})
	data := []struct {
		dst  model.Coord
		port model.Port
	}{
		{model.Coord{X: 2, Y: 0}, model.East},
		{model.Coord{X: 0, Y: 2}, model.South},
		{model.Coord{X: 0, Y: 0}, model.Local},
		{model.Coord{X: 2, Y: 3}, model.East},
	}
	var ps []noc.Packet
	for i, d := range data {
		ps = append(ps, noc.Packet{Type: noc.WriteReq, Dst: d.dst, Payload: uint64(i)})
	}
	b.send(t, model.Local, ps...)

	got := b.obs.Items()
	require.Len(t, got, len(data))
	for i, p := range got {
		assert.Equal(t, data[i].port, p.Port, "packet %d", i)
		assert.True(t, noc.LayoutA.Equal(ps[i], p), "packet %d", i)
	}
	assert.Equal(t, uint64(2), b.router.Routed(model.East))
	assert.Equal(t, uint64(2), b.mon[model.East].Count())
}

func TestRouter_allInputs(t *testing.T) {
	b := newBench(t, noc.LayoutB, model.XY{X: 1, Y: 1})
	var hs []*hwvip.Handle
	dsts := []model.Coord{{X: 1, Y: 0}, {X: 1, Y: 2}, {X: 2, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	for _, in := range model.Ports() {
		hs = append(hs, b.s.Go("send", func(tk *hwvip.Task) error {
			for i, d := range dsts {
				p := noc.Packet{Src: model.Coord{X: uint8(in)}, Dst: d, Payload: uint64(in)<<8 | uint64(i)}
				if err := b.drv[in].Send(tk, p); err != nil {
					return err
				}
			}
			return nil
		}))
	}
	for _, h := range hs {
		require.NoError(t, b.s.RunUntil(context.Background(), h, 200))
	}
	require.NoError(t, b.s.Run(context.Background(), 20))

	got := b.obs.Items()
	require.Len(t, got, len(dsts)*model.NumPorts)
	exp := []model.Port{model.North, model.South, model.East, model.West, model.Local}
	for _, p := range got {
		i := p.Payload & 0xff
		assert.Equal(t, exp[i], p.Port, "%v", p)
	}
	for _, p := range model.Ports() {
		assert.Equal(t, uint64(model.NumPorts), b.mon[p].Count(), "port %v", p)
	}
}

func TestMonitor_stopReleasesReady(t *testing.T) {
	s := hwvip.NewSim()
	defer s.Dispose()
	bus, err := axis.NewBus(s, "north_out", hwvip.Width("tdata", noc.LayoutA.Width()))
	require.NoError(t, err)
	q := hwvip.NewQueue[noc.Packet]("obs", hwvip.Unlimited)
	h := s.Go("mon", noc.NewMonitor(bus, model.North, noc.LayoutA, q).Drain(axis.AlwaysReady()).Run)
	require.NoError(t, s.Run(context.Background(), 2))
	require.True(t, bus.Tready.Bool())

	require.NoError(t, s.Stop(context.Background(), h, 1))
	assert.False(t, bus.Tready.Bool(), "tready must drop once the monitor is stopped")
}
