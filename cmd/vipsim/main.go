// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command vipsim runs the example verification benches and prints their
// scoreboard reports.
//
// Usage:
//
//	vipsim [flags]
//
// Run vipsim -h for the list of flags. The exit status is 0 if every scenario
// passed, 1 if any failed and 2 on usage errors.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/scoreboard"
)

type result struct {
	name    string
	reports []scoreboard.Report
	err     error
	cycles  uint64
	elapsed time.Duration
}

func (r *result) passed() bool {
	return r.err == nil && len(r.reports) > 0 && scoreboard.Verdict(r.reports...) == scoreboard.Pass
}

const (
	green = "\x1b[32m"
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

func paint(s string, st scoreboard.Status, color bool) string {
	if !color {
		return s
	}
	c := green
	if st != scoreboard.Pass {
		c = red
	}
	tag := st.String()
	if !strings.HasSuffix(s, tag) {
		return c + s + reset
	}
	return strings.TrimSuffix(s, tag) + c + tag + reset
}

func runScenario(ctx context.Context, cfg *Config, root *hwvip.Logger, sc Scenario) *result {
	start := time.Now()
	s := hwvip.NewSim(hwvip.WithLogger(root.Named(sc.Name)))
	defer s.Dispose()
	rs, err := sc.Run(ctx, s, cfg)
	return &result{name: sc.Name, reports: rs, err: err, cycles: s.Cycle(), elapsed: time.Since(start)}
}

// run runs the configured scenarios and writes the reports to w. It returns
// true if all scenarios passed.
//
func run(ctx context.Context, cfg *Config, w io.Writer, logw io.Writer, color bool) bool {
	root := hwvip.NewLogger(logw, cfg.level)
	results := make([]*result, len(cfg.Scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i, name := range cfg.Scenarios {
		sc, _ := ScenarioByName(name)
		g.Go(func() error {
			results[i] = runScenario(ctx, cfg, root, sc)
			return nil
		})
	}
	// scenario errors are reported with their result
	_ = g.Wait()

	ok := true
	for _, r := range results {
		for _, rep := range r.reports {
			if rep.Name != r.name {
				rep.Name = r.name + "/" + rep.Name
			}
			fmt.Fprintln(w, paint(rep.String(), rep.Status, color))
		}
		if r.err != nil {
			fmt.Fprintln(w, paint(fmt.Sprintf("%s: %v", r.name, r.err), scoreboard.Fail, color))
		}
		if !r.passed() {
			ok = false
		}
		root.Infof("%s: %d cycles in %v", r.name, r.cycles, r.elapsed)
	}
	verdict := scoreboard.Pass
	if !ok {
		verdict = scoreboard.Fail
	}
	fmt.Fprintln(w, paint(fmt.Sprintf("%d scenarios - %v", len(results), verdict), verdict, color))
	return ok
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "vipsim:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	color := term.IsTerminal(int(os.Stdout.Fd()))
	if !run(ctx, cfg, os.Stdout, os.Stderr, color) {
		stop()
		os.Exit(1)
	}
}
