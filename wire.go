// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwvip

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/db47h/hwvip/internal/decl"
)

// A Wire is a named unsigned signal of a fixed bit width. Wires are created by
// a Sim and are only valid for that Sim.
//
type Wire struct {
	s     *Sim
	n     int
	name  string
	width uint
	mask  uint64
}

// Name returns the full name of the wire.
//
func (w *Wire) Name() string { return w.name }

// Width returns the wire width in bits.
//
func (w *Wire) Width() uint { return w.width }

// Get returns the value of the wire in the current frame.
//
func (w *Wire) Get() uint64 {
	return w.s.cur[w.n]
}

// Bool returns true if the current value of the wire is not zero.
//
func (w *Wire) Bool() bool {
	return w.s.cur[w.n] != 0
}

// Set sets the value of the wire for the next frame. Bits above the wire
// width are dropped.
//
func (w *Wire) Set(v uint64) {
	w.s.next[w.n] = v & w.mask
}

// SetBool sets the wire to 1 if b is true, 0 otherwise.
//
func (w *Wire) SetBool(b bool) {
	if b {
		w.s.next[w.n] = 1
	} else {
		w.s.next[w.n] = 0
	}
}

// Pending returns the value the wire will have in the next frame.
//
func (w *Wire) Pending() uint64 {
	return w.s.next[w.n]
}

func (w *Wire) String() string {
	return w.name + "[" + strconv.Itoa(int(w.width)) + "]=" + strconv.FormatUint(w.Get(), 16)
}

func widthMask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<width - 1
}

// Wire returns the wire with the given name, creating it if necessary. It
// returns an error if the wire already exists with a different width.
//
func (s *Sim) Wire(name string, width uint) (*Wire, error) {
	if width == 0 || width > decl.MaxWidth {
		return nil, errors.Errorf("wire %s: invalid width %d", name, width)
	}
	if w, ok := s.names[name]; ok {
		if w.width != width {
			return nil, errors.Errorf("wire %s: width %d does not match declared width %d", name, width, w.width)
		}
		return w, nil
	}
	w := &Wire{s: s, n: len(s.cur), name: name, width: width, mask: widthMask(width)}
	s.cur = append(s.cur, 0)
	s.next = append(s.next, 0)
	s.wires = append(s.wires, w)
	s.names[name] = w
	return w, nil
}

// Lookup returns the wire with the given name.
//
func (s *Sim) Lookup(name string) (*Wire, bool) {
	w, ok := s.names[name]
	return w, ok
}

// Declare creates or checks the wires listed in the declaration string
// (for example "addr[32], sel, enable") under the given prefix.
//
func (s *Sim) Declare(prefix string, signals string) ([]*Wire, error) {
	sigs, err := decl.Parse(signals)
	if err != nil {
		return nil, err
	}
	ws := make([]*Wire, 0, len(sigs))
	for _, sig := range sigs {
		w, err := s.Wire(JoinName(prefix, sig.Name), sig.Width)
		if err != nil {
			return nil, errors.Wrapf(err, "declare %s", decl.Join(sigs))
		}
		ws = append(ws, w)
	}
	return ws, nil
}

// Wires returns all wires in declaration order.
//
func (s *Sim) Wires() []*Wire {
	return append([]*Wire(nil), s.wires...)
}

// JoinName returns the full wire name for a signal of a bus instance.
//
func JoinName(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "_" + suffix
}
