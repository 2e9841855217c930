// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package txn

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Beat is one transfer of a framed stream.
//
type Beat struct {
	Data uint64
	Last bool
}

// Packet is a non-empty ordered sequence of stream beats. Only the final beat
// carries Last.
//
type Packet struct {
	Data []uint64
}

// NewPacket returns a packet with the given beat data.
//
func NewPacket(data ...uint64) Packet {
	return Packet{Data: append([]uint64(nil), data...)}
}

// Len returns the number of beats in p.
//
func (p Packet) Len() int { return len(p.Data) }

// Validate returns an error if p is empty.
//
func (p Packet) Validate() error {
	if len(p.Data) == 0 {
		return errors.New("empty packet")
	}
	return nil
}

// Beats returns the beats of p, with Last set on the final one.
//
func (p Packet) Beats() []Beat {
	bs := make([]Beat, len(p.Data))
	for i, d := range p.Data {
		bs[i] = Beat{Data: d, Last: i == len(p.Data)-1}
	}
	return bs
}

// FromBeats rebuilds a packet from its beats. Exactly the final beat must have
// Last set.
//
func FromBeats(bs []Beat) (Packet, error) {
	if len(bs) == 0 {
		return Packet{}, errors.New("empty packet")
	}
	p := Packet{Data: make([]uint64, len(bs))}
	for i, b := range bs {
		if b.Last != (i == len(bs)-1) {
			return Packet{}, errors.Errorf("beat %d of %d: bad last flag %v", i, len(bs), b.Last)
		}
		p.Data[i] = b.Data
	}
	return p, nil
}

// Equal compares the beat data of two packets in order.
//
func (p Packet) Equal(o Packet) bool {
	if len(p.Data) != len(o.Data) {
		return false
	}
	for i := range p.Data {
		if p.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

func (p Packet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, d := range p.Data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%#x", d)
	}
	b.WriteByte(']')
	return b.String()
}
