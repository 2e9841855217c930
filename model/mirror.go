// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package model provides the timing free reference models used by
// scoreboards and by the device models of the protocol packages.
//
package model

import (
	"sort"

	"github.com/db47h/hwvip/txn"
)

// Reg declares a register address and its reset value.
//
type Reg struct {
	Addr  uint32
	Reset uint32
}

// Mirror is a register mirror: a map of word aligned addresses to 32 bits
// values.
//
// A Mirror created without declared registers accepts any address and reads 0
// from never written locations. Once registers are declared, accesses outside
// the declared set fail with txn.SlaveError and leave the mirror untouched.
//
type Mirror struct {
	regs  map[uint32]uint32
	reset map[uint32]uint32
}

// NewMirror returns a mirror with the given registers at their reset values.
//
func NewMirror(regs ...Reg) *Mirror {
	m := &Mirror{regs: make(map[uint32]uint32)}
	if len(regs) > 0 {
		m.reset = make(map[uint32]uint32, len(regs))
		for _, r := range regs {
			m.reset[txn.Align(r.Addr)] = r.Reset
		}
	}
	m.Reset()
	return m
}

// Words returns a register set of n zero reset registers at addresses 0, 4, 8...
//
func Words(n int) []Reg {
	rs := make([]Reg, n)
	for i := range rs {
		rs[i].Addr = uint32(i) * 4
	}
	return rs
}

// Reset sets all registers back to their reset value.
//
func (m *Mirror) Reset() {
	clear(m.regs)
	for a, v := range m.reset {
		m.regs[a] = v
	}
}

// Valid returns true if addr maps to a register.
//
func (m *Mirror) Valid(addr uint32) bool {
	if m.reset == nil {
		return true
	}
	_, ok := m.reset[txn.Align(addr)]
	return ok
}

// Write merges data into the register at addr. Only the bytes enabled in strb
// are updated.
//
func (m *Mirror) Write(addr, data uint32, strb uint8) txn.Resp {
	addr = txn.Align(addr)
	if !m.Valid(addr) {
		return txn.SlaveError
	}
	mask := txn.StrobeMask(strb)
	m.regs[addr] = m.regs[addr]&^mask | data&mask
	return txn.Okay
}

// Read returns the value of the register at addr.
//
func (m *Mirror) Read(addr uint32) (uint32, txn.Resp) {
	addr = txn.Align(addr)
	if !m.Valid(addr) {
		return 0, txn.SlaveError
	}
	return m.regs[addr], txn.Okay
}

// Apply plays b against the mirror and returns the expected completed
// transaction.
//
func (m *Mirror) Apply(b txn.Bus) txn.Bus {
	switch b.Dir {
	case txn.Write:
		b.Resp = m.Write(b.Addr, b.Data, b.Strb)
	case txn.Read:
		b.Data, b.Resp = m.Read(b.Addr)
	}
	return b
}

// Addrs returns the sorted addresses of all known registers.
//
func (m *Mirror) Addrs() []uint32 {
	as := make([]uint32, 0, len(m.regs))
	for a := range m.regs {
		as = append(as, a)
	}
	sort.Slice(as, func(i, j int) bool { return as[i] < as[j] })
	return as
}

// Snapshot returns a copy of the mirror contents.
//
func (m *Mirror) Snapshot() map[uint32]uint32 {
	s := make(map[uint32]uint32, len(m.regs))
	for a, v := range m.regs {
		s[a] = v
	}
	return s
}
