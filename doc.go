// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwvip provides a cycle based simulation kernel for bus verification
components: drivers that turn transactions into timed signal assertions,
monitors that rebuild transactions from signal transitions and the
scoreboards that check them against reference models.

Wires are double buffered. During a simulation step every active task and
every clocked component reads the current frame with Get and writes the next
frame with Set. The next frame is committed at the end of the step, so a
value written on rising edge k is seen by clocked components on rising edge
k+1, no matter in which order tasks ran. Each wire must have a single writer.

Tasks are cooperative. They run one at a time and suspend only at clock edges
(Rising, Falling, Cycles, Until) or while joining other tasks (Join):

	s := hwvip.NewSim()
	defer s.Dispose()

	var bus struct {
		Valid *hwvip.Wire `vip:"valid"`
		Data  *hwvip.Wire `vip:"data[32]"`
	}
	if err := hwvip.Bind(s, "in", &bus); err != nil {
		// handle error
	}
	h := s.Go("producer", func(t *hwvip.Task) error {
		bus.Data.Set(42)
		bus.Valid.Set(1)
		return t.Rising()
	})
	err := s.RunUntil(context.Background(), h, 10)

Protocol families live in sub packages: apb, axil (AXI-Lite), axis
(AXI-Stream) and noc (network on chip). Reference models and scoreboards are
in the model and scoreboard packages.
*/
package hwvip
