// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/apb"
	"github.com/db47h/hwvip/axil"
	"github.com/db47h/hwvip/axis"
	"github.com/db47h/hwvip/hwlib"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/noc"
	"github.com/db47h/hwvip/ral"
	"github.com/db47h/hwvip/scoreboard"
	"github.com/db47h/hwvip/seq"
	"github.com/db47h/hwvip/txn"
)

// drainCycles is the number of cycles run after the stimulus is done so that
// monitors and scoreboards see the last transactions.
//
const drainCycles = 50

// Scenario is a named bench.
//
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, s *hwvip.Sim, cfg *Config) ([]scoreboard.Report, error)
}

var scenarios = []Scenario{
	{"counter", "8 bits counter checked cycle by cycle against its model", runCounter},
	{"apb", "APB register slave with wait states, register scoreboard", runAPB},
	{"axil", "AXI-Lite register slave with channel latencies, register scoreboard", runAXIL},
	{"axis", "AXI-Stream FIFO with sink back-pressure, in-order stream scoreboard", runAXIS},
	{"noc", "five port XY router, routed packet scoreboard", runNoC},
	{"ral", "register abstraction layer over APB with mirror checks", runRAL},
}

// Scenarios returns all available scenarios.
//
func Scenarios() []Scenario { return scenarios }

// ScenarioByName returns the named scenario.
//
func ScenarioByName(name string) (Scenario, bool) {
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

func newRand(cfg *Config, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(cfg.Seed, stream))
}

// complete runs s until all handles are done, then drains it.
//
func complete(ctx context.Context, s *hwvip.Sim, cfg *Config, hs ...*hwvip.Handle) error {
	for _, h := range hs {
		if err := s.RunUntil(ctx, h, cfg.Cycles); err != nil {
			return err
		}
	}
	return s.Run(ctx, drainCycles)
}

func runCounter(ctx context.Context, s *hwvip.Sim, cfg *Config) ([]scoreboard.Report, error) {
	cnt, p, err := hwlib.Counter(s, "counter", 8)
	if err != nil {
		return nil, err
	}
	s.Add(cnt)
	m := model.NewCounter(8)
	c := scoreboard.NewChecker(s, "counter")
	rnd := newRand(cfg, 0)
	h := s.Go("check", func(t *hwvip.Task) error {
		// hold reset for a few cycles
		if err := t.Cycles(4); err != nil {
			return err
		}
		p.RstN.Set(1)
		en := false
		for i := 0; i < cfg.Transactions*10; i++ {
			if err := t.Rising(); err != nil {
				return err
			}
			m.Tick(en)
			if err := t.Falling(); err != nil {
				return err
			}
			if err := c.Check(m.Value(), p.Count.Get()); err != nil {
				return err
			}
			en = rnd.IntN(4) != 0
			p.Enable.SetBool(en)
		}
		return nil
	})
	err = complete(ctx, s, cfg, h)
	return []scoreboard.Report{c.Report()}, err
}

func busStimulus(cfg *Config, stream uint64) iter.Seq[txn.Bus] {
	if cfg.stim != nil && len(cfg.stim.Bus) > 0 {
		return slices.Values(cfg.stim.Bus)
	}
	return seq.FullTest(newRand(cfg, stream), cfg.Transactions)
}

// registerBench plays the bus stimulus with d, with a register scoreboard
// fed by a queue filled by a monitor.
//
func registerBench(ctx context.Context, s *hwvip.Sim, cfg *Config, name string, d txn.BusDriver, obs *hwvip.Queue[txn.Bus], stream uint64) ([]scoreboard.Report, error) {
	sb := scoreboard.NewRegisters(s, name, model.NewMirror(model.Words(4)...))
	hwvip.Consume(s, "sb", obs, sb.Observe)
	h := s.Go("seq", seq.Play(d, busStimulus(cfg, stream), nil))
	err := complete(ctx, s, cfg, h)
	return []scoreboard.Report{sb.Report()}, err
}

func runAPB(ctx context.Context, s *hwvip.Sim, cfg *Config) ([]scoreboard.Report, error) {
	bus, err := apb.NewBus(s, "apb")
	if err != nil {
		return nil, err
	}
	apb.NewSlave(s, "dut", bus, model.NewMirror(model.Words(4)...), apb.WaitStates(cfg.APBWaitStates))
	drv := apb.NewDriver(s, "drv", bus)
	drv.Reset()
	obs := hwvip.NewQueue[txn.Bus]("obs", hwvip.Unlimited)
	s.Go("mon", apb.NewMonitor(bus, obs).Run)
	return registerBench(ctx, s, cfg, "apb", drv, obs, 1)
}

func runAXIL(ctx context.Context, s *hwvip.Sim, cfg *Config) ([]scoreboard.Report, error) {
	bus, err := axil.NewBus(s, "axil")
	if err != nil {
		return nil, err
	}
	n := cfg.AXILatency
	axil.NewSlave(s, "dut", bus, model.NewMirror(model.Words(4)...), axil.Latency{AW: n, W: n, B: n, AR: n, R: n})
	drv := axil.NewDriver(s, "drv", bus)
	drv.Reset()
	obs := hwvip.NewQueue[txn.Bus]("obs", hwvip.Unlimited)
	s.Go("mon", axil.NewMonitor(bus, obs).Run)
	return registerBench(ctx, s, cfg, "axil", drv, obs, 2)
}

func runAXIS(ctx context.Context, s *hwvip.Sim, cfg *Config) ([]scoreboard.Report, error) {
	in, err := axis.NewBus(s, "s_axis")
	if err != nil {
		return nil, err
	}
	out, err := axis.NewBus(s, "m_axis")
	if err != nil {
		return nil, err
	}
	axis.NewFIFO(s, in, out, 4)
	drv := axis.NewDriver(s, "drv", in)
	drv.Reset()
	obs := hwvip.NewQueue[txn.Packet]("obs", hwvip.Unlimited)
	s.Go("mon", axis.NewMonitor(out, obs).Drain(axis.Latency(cfg.StreamLatency)).Run)
	sb := scoreboard.NewStream(s, "axis")
	hwvip.Consume(s, "sb", obs, sb.Observe)

	stim := seq.Packets(newRand(cfg, 3), cfg.Transactions, 8, in.Tdata.Width())
	if cfg.stim != nil && len(cfg.stim.Packets) > 0 {
		stim = slices.Values(cfg.stim.Packets)
	}
	h := s.Go("seq", seq.Send(drv.Send, stim, func(p txn.Packet) { sb.Expect(p) }))
	err = complete(ctx, s, cfg, h)
	return []scoreboard.Report{sb.Report()}, err
}

// tagged sets the input port number in bits 8 to 15 of the payload of flits.
//
func tagged(flits iter.Seq[noc.Packet], p model.Port) iter.Seq[noc.Packet] {
	return func(yield func(noc.Packet) bool) {
		for f := range flits {
			f.Payload = f.Payload&0xff | uint64(p)<<8
			if !yield(f) {
				return
			}
		}
	}
}

func runNoC(ctx context.Context, s *hwvip.Sim, cfg *Config) ([]scoreboard.Report, error) {
	l := cfg.layout
	xy := model.XY{X: uint8(cfg.RouterX), Y: uint8(cfg.RouterY)}
	in, err := noc.Ports(s, "", "in", l)
	if err != nil {
		return nil, err
	}
	out, err := noc.Ports(s, "", "out", l)
	if err != nil {
		return nil, err
	}
	noc.NewRouter(s, "router", in, out, l, xy.Route, 8)
	sb := scoreboard.NewRouter(s, "noc", xy.Route, l)
	obs := hwvip.NewQueue[noc.Packet]("obs", hwvip.Unlimited)
	hwvip.Consume(s, "sb", obs, sb.Observe)

	grid := model.Coord{X: min(max(xy.X, 1)*2, maxCoord), Y: min(max(xy.Y, 1)*2, maxCoord)}
	var hs []*hwvip.Handle
	for _, p := range model.Ports() {
		name := p.String()
		s.Go(name+".mon", noc.NewMonitor(out[p], p, l, obs).Drain(axis.Latency(cfg.StreamLatency)).Run)
		drv := noc.NewDriver(s, name+".drv", in[p], l)
		drv.Reset()
		stim := tagged(seq.Flits(newRand(cfg, 4+uint64(p)), model.Coord(xy), grid, cfg.Transactions), p)
		if p == model.Local && cfg.stim != nil && len(cfg.stim.Flits) > 0 {
			stim = slices.Values(cfg.stim.Flits)
		}
		hs = append(hs, s.Go(name+".seq", seq.Send(drv.Send, stim, func(f noc.Packet) { sb.Expect(f) })))
	}
	err = complete(ctx, s, cfg, hs...)
	return []scoreboard.Report{sb.Report()}, err
}

func runRAL(ctx context.Context, s *hwvip.Sim, cfg *Config) ([]scoreboard.Report, error) {
	bus, err := apb.NewBus(s, "apb")
	if err != nil {
		return nil, err
	}
	apb.NewSlave(s, "dut", bus, model.NewMirror(model.Words(4)...), apb.WaitStates(cfg.APBWaitStates))
	drv := apb.NewDriver(s, "drv", bus)
	drv.Reset()
	obs := hwvip.NewQueue[txn.Bus]("obs", hwvip.Unlimited)
	s.Go("mon", apb.NewMonitor(bus, obs).Run)
	sb := scoreboard.NewRegisters(s, "ral", model.NewMirror(model.Words(4)...))
	hwvip.Consume(s, "sb", obs, sb.Observe)

	blk := ral.NewWords(s, "regs", ral.BusAdapter(drv), 4)
	rnd := newRand(cfg, 10)
	h := s.Go("seq", func(t *hwvip.Task) error {
		for i := 0; i < cfg.Transactions; i++ {
			r := blk.Registers()[rnd.IntN(len(blk.Registers()))]
			if rnd.IntN(2) == 0 {
				if err := blk.Write(t, r, rnd.Uint32()); err != nil {
					return err
				}
			} else if _, err := blk.Read(t, r); err != nil {
				return err
			}
		}
		return blk.CheckAll(t)
	})
	err = complete(ctx, s, cfg, h)
	return []scoreboard.Report{sb.Report()}, err
}
