// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package txn defines the transactions exchanged between drivers, monitors and
// scoreboards, together with the small capability interfaces that connect
// them.
//
package txn

import (
	"fmt"

	"github.com/db47h/hwvip"
)

// Direction is the direction of a register bus transaction.
//
type Direction uint8

// Directions. None is used for stream beats.
//
const (
	None Direction = iota
	Read
	Write
)

func (d Direction) String() string {
	switch d {
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	}
	return "NONE"
}

// Resp is a register bus response code as carried on APB pslverr and on AXI
// bresp/rresp.
//
type Resp uint8

// Response codes.
//
const (
	Okay        Resp = 0
	ExOkay      Resp = 1
	SlaveError  Resp = 2
	DecodeError Resp = 3
)

func (r Resp) String() string {
	switch r {
	case Okay:
		return "OKAY"
	case ExOkay:
		return "EXOKAY"
	case SlaveError:
		return "SLVERR"
	}
	return "DECERR"
}

// FullStrobe enables all four byte lanes of a 32 bits word.
//
const FullStrobe = 0xf

// Align returns addr aligned down to a 32 bits word boundary.
//
func Align(addr uint32) uint32 {
	return addr &^ 3
}

// StrobeMask expands byte enables into a bit mask. Bit i of strb enables bits
// [8i+7:8i] of the mask.
//
func StrobeMask(strb uint8) uint32 {
	var m uint32
	for i := uint(0); i < 4; i++ {
		if strb&(1<<i) != 0 {
			m |= 0xff << (8 * i)
		}
	}
	return m
}

// Bus is a single APB or AXI-Lite register access.
//
// For writes, Data holds the write data. For reads, Data holds the read data
// once the transaction has completed.
//
type Bus struct {
	Dir  Direction
	Addr uint32
	Data uint32
	Strb uint8
	Resp Resp
}

// NewWrite returns a full word write transaction.
//
func NewWrite(addr, data uint32) Bus {
	return Bus{Dir: Write, Addr: Align(addr), Data: data, Strb: FullStrobe}
}

// NewWriteStrb returns a partial write transaction.
//
func NewWriteStrb(addr, data uint32, strb uint8) Bus {
	return Bus{Dir: Write, Addr: Align(addr), Data: data, Strb: strb & FullStrobe}
}

// NewRead returns a read transaction.
//
func NewRead(addr uint32) Bus {
	return Bus{Dir: Read, Addr: Align(addr)}
}

// IsWrite returns true for write transactions.
//
func (b Bus) IsWrite() bool { return b.Dir == Write }

// Equal compares the request part of two transactions: direction, address and,
// for writes, data and strobes.
//
func (b Bus) Equal(o Bus) bool {
	if b.Dir != o.Dir || b.Addr != o.Addr {
		return false
	}
	if b.Dir == Write {
		return b.Data == o.Data && b.Strb == o.Strb
	}
	return true
}

func (b Bus) String() string {
	if b.Dir == Write {
		return fmt.Sprintf("WRITE addr=%#02x data=%#08x strb=%#x resp=%v", b.Addr, b.Data, b.Strb, b.Resp)
	}
	return fmt.Sprintf("%v addr=%#02x data=%#08x resp=%v", b.Dir, b.Addr, b.Data, b.Resp)
}

// A BusDriver plays register transactions on a bus. Drive blocks the calling
// task until the handshake completes and returns the transaction with Resp and,
// for reads, Data filled in. It only fails on cancellation.
//
type BusDriver interface {
	Drive(t *hwvip.Task, b Bus) (Bus, error)
}

// A StreamDriver sends packets on a stream interface.
//
type StreamDriver interface {
	Send(t *hwvip.Task, p Packet) error
}

// An Observer consumes transactions reconstructed by a monitor.
//
type Observer[T any] interface {
	Observe(v T) error
}
