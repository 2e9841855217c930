// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"flag"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/noc"
	"github.com/db47h/hwvip/seq"
)

// Defaults.
//
const (
	DefaultCycles       = 100000
	DefaultTransactions = 100
	DefaultLevel        = "info"
	maxCoord            = 15
)

// Config is the vipsim configuration.
//
type Config struct {
	Scenarios     []string
	Cycles        uint64 // per scenario budget
	Seed          uint64
	LogLevel      string
	Transactions  int // random transactions per scenario, or per router port
	APBWaitStates int
	AXILatency    int
	StreamLatency int
	RouterX       int
	RouterY       int
	Layout        string
	Parallel      int
	Script        string

	level  hwvip.Level
	layout noc.Layout
	stim   *seq.Script
}

// Validate checks c and applies defaults.
//
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Scenarios) == 0 {
		for _, sc := range Scenarios() {
			c.Scenarios = append(c.Scenarios, sc.Name)
		}
	}
	for _, n := range c.Scenarios {
		if _, ok := ScenarioByName(n); !ok {
			return errors.Errorf("unknown scenario %q", n)
		}
	}
	if c.Cycles == 0 {
		c.Cycles = DefaultCycles
	}
	if c.Transactions < 0 {
		return errors.Errorf("transactions must be non-negative, got %d", c.Transactions)
	}
	if c.Transactions == 0 {
		c.Transactions = DefaultTransactions
	}
	if c.APBWaitStates < 0 {
		return errors.Errorf("APB wait states must be non-negative, got %d", c.APBWaitStates)
	}
	if c.AXILatency < 0 {
		return errors.Errorf("AXI-Lite latency must be non-negative, got %d", c.AXILatency)
	}
	if c.StreamLatency < 0 {
		return errors.Errorf("stream latency must be non-negative, got %d", c.StreamLatency)
	}
	if c.RouterX < 0 || c.RouterX > maxCoord || c.RouterY < 0 || c.RouterY > maxCoord {
		return errors.Errorf("router coordinates (%d,%d) out of range [0,%d]", c.RouterX, c.RouterY, maxCoord)
	}
	switch strings.ToLower(c.Layout) {
	case "", "a":
		c.layout = noc.LayoutA
	case "b":
		c.layout = noc.LayoutB
	default:
		return errors.Errorf("unknown flit layout %q", c.Layout)
	}
	if c.Parallel <= 0 {
		c.Parallel = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLevel
	}
	l, err := hwvip.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	c.level = l
	return nil
}

// loadScript loads the Lua stimulus script, if any.
//
func (c *Config) loadScript() error {
	if c.Script == "" {
		return nil
	}
	src, err := os.ReadFile(c.Script)
	if err != nil {
		return errors.WithStack(err)
	}
	c.stim, err = seq.LoadScript(c.Script, string(src))
	return err
}

func parseFlags(args []string, out io.Writer) (*Config, error) {
	var c Config
	var scenarios string
	fs := flag.NewFlagSet("vipsim", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&scenarios, "run", "", "comma separated list of scenarios to run (default all)")
	fs.Uint64Var(&c.Cycles, "cycles", DefaultCycles, "cycle budget per scenario")
	fs.Uint64Var(&c.Seed, "seed", 1, "random seed")
	fs.StringVar(&c.LogLevel, "log", DefaultLevel, "log level: error, warn, info or debug")
	fs.IntVar(&c.Transactions, "n", DefaultTransactions, "random transactions per scenario")
	fs.IntVar(&c.APBWaitStates, "apb-wait", 0, "APB slave wait states")
	fs.IntVar(&c.AXILatency, "axil-latency", 1, "AXI-Lite slave latency on every channel")
	fs.IntVar(&c.StreamLatency, "axis-latency", 0, "AXI-Stream sink latency after every beat")
	fs.IntVar(&c.RouterX, "x", 1, "router X coordinate")
	fs.IntVar(&c.RouterY, "y", 1, "router Y coordinate")
	fs.StringVar(&c.Layout, "layout", "a", "flit layout: a (64 bits) or b (32 bits)")
	fs.IntVar(&c.Parallel, "j", 0, "number of scenarios run concurrently (default number of CPUs)")
	fs.StringVar(&c.Script, "script", "", "Lua stimulus script")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if scenarios != "" {
		for _, n := range strings.Split(scenarios, ",") {
			if n = strings.TrimSpace(n); n != "" {
				c.Scenarios = append(c.Scenarios, n)
			}
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.loadScript(); err != nil {
		return nil, err
	}
	return &c, nil
}
