// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package axis

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// FIFO is a stream FIFO device model. It is the sink of its input stream and
// the source of its output stream.
//
//	Inputs: in_tdata, in_tvalid, in_tlast, out_tready
//	Outputs: in_tready, out_tdata, out_tvalid, out_tlast
//	Function: beats accepted on in are presented on out in the same order.
//	          in_tready is low while the FIFO is full.
//
type FIFO struct {
	in, out *Bus
	depth   int
	q       []txn.Beat
}

// NewFIFO returns a FIFO of the given depth and adds it to s.
//
func NewFIFO(s *hwvip.Sim, in, out *Bus, depth int) *FIFO {
	if depth < 1 {
		depth = 1
	}
	f := &FIFO{in: in, out: out, depth: depth}
	s.Add(f.Update)
	return f
}

// Len returns the number of buffered beats.
//
func (f *FIFO) Len() int { return len(f.q) }

// Update is the FIFO clocked process.
//
func (f *FIFO) Update(*hwvip.Sim) {
	if f.out.Fire() {
		f.q = f.q[1:]
	}
	if f.in.Fire() {
		f.q = append(f.q, txn.Beat{Data: f.in.Tdata.Get(), Last: f.in.Tlast.Bool()})
	}
	if len(f.q) > 0 {
		f.out.Tdata.Set(f.q[0].Data)
		f.out.Tlast.SetBool(f.q[0].Last)
		f.out.Tvalid.Set(1)
	} else {
		f.out.Tvalid.Set(0)
		f.out.Tlast.Set(0)
	}
	f.in.Tready.SetBool(len(f.q) < f.depth)
}
