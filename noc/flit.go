// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package noc implements single flit packet verification for a five port mesh
// router: flit codecs, driver and monitor over AXI4-Stream ports, and an XY
// router device model.
//
// Two flit layouts are supported. They are not interchangeable: a deployment
// picks one and uses it for every port.
//
//	Layout A, 64 bits: type[63:60] src_x[59:56] src_y[55:52] dst_x[51:48] dst_y[47:44] payload[43:0]
//	Layout B, 32 bits: dst_x[31:28] dst_y[27:24] src_x[23:20] src_y[19:16] payload[15:0]
//
package noc

import (
	"fmt"

	"github.com/db47h/hwvip/model"
)

// Type is a packet type code.
//
type Type uint8

// Packet types.
//
const (
	ReadReq  Type = 0x1
	WriteReq Type = 0x2
	Response Type = 0x4
	Ack      Type = 0x8
)

func (t Type) String() string {
	switch t {
	case ReadReq:
		return "READ"
	case WriteReq:
		return "WRITE"
	case Response:
		return "RESP"
	case Ack:
		return "ACK"
	}
	return fmt.Sprintf("%#x", uint8(t))
}

// Packet is a single flit network packet.
//
// Port is not part of the flit: it is the port the packet was observed on,
// or the port it is expected on.
//
type Packet struct {
	Type    Type
	Src     model.Coord
	Dst     model.Coord
	Payload uint64
	Port    model.Port
}

func (p Packet) String() string {
	return fmt.Sprintf("%v src=%v dst=%v payload=%#x port=%v", p.Type, p.Src, p.Dst, p.Payload, p.Port)
}

// Layout is a flit bit layout.
//
type Layout interface {
	// Width returns the flit width in bits.
	Width() uint
	// Encode packs p into a flit. Fields are truncated to their width.
	Encode(p Packet) uint64
	// Decode unpacks a flit.
	Decode(flit uint64) Packet
	// Equal compares the fields of two packets carried by the layout.
	Equal(a, b Packet) bool
}

// LayoutA is the 64 bits layout with a type field. All fields take part in
// packet equality.
//
var LayoutA Layout = layoutA{}

// LayoutB is the compact 32 bits layout. Packets are equal when their
// destination and payload are equal.
//
var LayoutB Layout = layoutB{}

const (
	payloadA = 1<<44 - 1
	payloadB = 1<<16 - 1
)

type layoutA struct{}

func (layoutA) Width() uint { return 64 }

func (layoutA) Encode(p Packet) uint64 {
	return uint64(p.Type&0xf)<<60 |
		uint64(p.Src.X&0xf)<<56 |
		uint64(p.Src.Y&0xf)<<52 |
		uint64(p.Dst.X&0xf)<<48 |
		uint64(p.Dst.Y&0xf)<<44 |
		p.Payload&payloadA
}

func (layoutA) Decode(f uint64) Packet {
	return Packet{
		Type:    Type((f >> 60) & 0xf),
		Src:     model.Coord{X: uint8((f >> 56) & 0xf), Y: uint8((f >> 52) & 0xf)},
		Dst:     model.Coord{X: uint8((f >> 48) & 0xf), Y: uint8((f >> 44) & 0xf)},
		Payload: f & payloadA,
	}
}

func (layoutA) Equal(a, b Packet) bool {
	return a.Type == b.Type && a.Src == b.Src && a.Dst == b.Dst && a.Payload == b.Payload
}

type layoutB struct{}

func (layoutB) Width() uint { return 32 }

func (layoutB) Encode(p Packet) uint64 {
	return uint64(p.Dst.X&0xf)<<28 |
		uint64(p.Dst.Y&0xf)<<24 |
		uint64(p.Src.X&0xf)<<20 |
		uint64(p.Src.Y&0xf)<<16 |
		p.Payload&payloadB
}

func (layoutB) Decode(f uint64) Packet {
	return Packet{
		Dst:     model.Coord{X: uint8((f >> 28) & 0xf), Y: uint8((f >> 24) & 0xf)},
		Src:     model.Coord{X: uint8((f >> 20) & 0xf), Y: uint8((f >> 16) & 0xf)},
		Payload: f & payloadB,
	}
}

func (layoutB) Equal(a, b Packet) bool {
	return a.Dst == b.Dst && a.Payload == b.Payload
}
