// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/db47h/hwvip"
)

func errString(in []*hwvip.Wire, sampled []uint64, out *hwvip.Wire, ex, got uint64) string {
	var b strings.Builder
	for i, w := range in {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%#x", w.Name(), sampled[i])
	}
	return fmt.Sprintf("\nExpected %s => %s=%#x\nGot %#x", b.String(), out.Name(), ex, got)
}

// CompareModel compares the outputs of the clocked components of s with those
// of a cycle model given the same random inputs.
//
// On every cycle, random values are driven on the input wires and step is
// called with the input values sampled by the components on that rising edge.
// It must return the expected values of the output wires after the edge.
//
func CompareModel(t testing.TB, s *hwvip.Sim, cycles int, rnd *rand.Rand, in, out []*hwvip.Wire, step func(in []uint64) []uint64) {
	t.Helper()

	start := time.Now()
	sampled := make([]uint64, len(in))
	for i := 0; i < cycles; i++ {
		for k, w := range in {
			sampled[k] = w.Get()
			w.Set(rnd.Uint64())
		}
		if err := s.TickTock(); err != nil {
			t.Fatal(err)
		}
		exp := step(sampled)
		for k, w := range out {
			if got := w.Get(); got != exp[k] {
				t.Fatalf("cycle %d: %s", s.Cycle(), errString(in, sampled, w, exp[k], got))
			}
		}
	}
	Throughput(t, s, start)
}
