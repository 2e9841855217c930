// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package seq provides stimulus sequences. A sequence is an iter.Seq of
// transactions; Play and Send turn a sequence into a task feeding a driver.
//
package seq

import (
	"iter"
	"math/rand/v2"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/noc"
	"github.com/db47h/hwvip/txn"
)

// Registers is the register set exercised by FullTest.
//
var Registers = []uint32{0x00, 0x04, 0x08, 0x0c}

var fullTestData = []uint32{0xdeadbeef, 0xcafebabe, 0x12345678, 0xaaaabbbb}

// WriteRead writes data at addr, then reads it back.
//
func WriteRead(addr, data uint32) iter.Seq[txn.Bus] {
	return func(yield func(txn.Bus) bool) {
		if yield(txn.NewWrite(addr, data)) {
			yield(txn.NewRead(addr))
		}
	}
}

// FullTest writes fixed patterns to the four Registers, reads them all back,
// then issues n random transactions over the same registers.
//
func FullTest(rnd *rand.Rand, n int) iter.Seq[txn.Bus] {
	return func(yield func(txn.Bus) bool) {
		for i, a := range Registers {
			if !yield(txn.NewWrite(a, fullTestData[i])) {
				return
			}
		}
		for _, a := range Registers {
			if !yield(txn.NewRead(a)) {
				return
			}
		}
		for tr := range Random(rnd, Registers, n) {
			if !yield(tr) {
				return
			}
		}
	}
}

// Random returns n uniformly random reads and writes over addrs.
//
func Random(rnd *rand.Rand, addrs []uint32, n int) iter.Seq[txn.Bus] {
	return func(yield func(txn.Bus) bool) {
		for i := 0; i < n; i++ {
			a := addrs[rnd.IntN(len(addrs))]
			tr := txn.NewRead(a)
			if rnd.IntN(2) == 1 {
				tr = txn.NewWrite(a, rnd.Uint32())
			}
			if !yield(tr) {
				return
			}
		}
	}
}

// Packets returns n random packets of 1 to maxLen beats with data truncated to
// width bits.
//
func Packets(rnd *rand.Rand, n, maxLen int, width uint) iter.Seq[txn.Packet] {
	mask := ^uint64(0)
	if width < 64 {
		mask = 1<<width - 1
	}
	return func(yield func(txn.Packet) bool) {
		for i := 0; i < n; i++ {
			data := make([]uint64, 1+rnd.IntN(maxLen))
			for k := range data {
				data[k] = rnd.Uint64() & mask
			}
			if !yield(txn.NewPacket(data...)) {
				return
			}
		}
	}
}

// Flits returns n random write requests from src to destinations in the
// rectangle from (0, 0) to grid included. Payloads are numbered from 0.
//
func Flits(rnd *rand.Rand, src, grid model.Coord, n int) iter.Seq[noc.Packet] {
	return func(yield func(noc.Packet) bool) {
		for i := 0; i < n; i++ {
			p := noc.Packet{
				Type:    noc.WriteReq,
				Src:     src,
				Dst:     model.Coord{X: uint8(rnd.IntN(int(grid.X) + 1)), Y: uint8(rnd.IntN(int(grid.Y) + 1))},
				Payload: uint64(i),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Play returns a task driving every transaction of items with d. If done is
// not nil, it is called with every completed transaction and the task stops
// at the first error it returns.
//
func Play(d txn.BusDriver, items iter.Seq[txn.Bus], done func(txn.Bus) error) hwvip.TaskFunc {
	return func(t *hwvip.Task) error {
		for tr := range items {
			r, err := d.Drive(t, tr)
			if err != nil {
				return err
			}
			t.Logger().Debugf("%v", r)
			if done != nil {
				if err = done(r); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

// Send returns a task sending every item with send. If expect is not nil, it
// is called with each item right before it is sent.
//
func Send[T any](send func(*hwvip.Task, T) error, items iter.Seq[T], expect func(T)) hwvip.TaskFunc {
	return func(t *hwvip.Task) error {
		for v := range items {
			if expect != nil {
				expect(v)
			}
			if err := send(t, v); err != nil {
				return err
			}
		}
		return nil
	}
}
