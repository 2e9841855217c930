// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ral is a register abstraction layer: registers are accessed by name
// through a bus adapter while the layer keeps a mirror of the expected device
// state, made of named fields.
//
package ral

import "fmt"

// Access is the software access policy of a field.
//
type Access uint8

// Access policies.
//
const (
	RW Access = iota
	RO
	WO
)

func (a Access) String() string {
	switch a {
	case RW:
		return "RW"
	case RO:
		return "RO"
	case WO:
		return "WO"
	}
	return fmt.Sprintf("Access(%d)", uint8(a))
}

func (a Access) writable() bool { return a != RO }
func (a Access) readable() bool { return a != WO }

// Field is a bit field of a register.
//
type Field struct {
	Name   string
	Width  uint
	LSB    uint
	Reset  uint32
	Access Access
	value  uint32
}

// NewField returns a new field at its reset value.
//
func NewField(name string, width, lsb uint, reset uint32, access Access) *Field {
	f := &Field{Name: name, Width: width, LSB: lsb, Reset: reset, Access: access}
	f.value = reset & f.Mask()
	return f
}

// Mask returns the field mask, before shifting to the field position.
//
func (f *Field) Mask() uint32 {
	return uint32(uint64(1)<<f.Width - 1)
}

func (f *Field) regMask() uint32 { return f.Mask() << f.LSB }

// Set sets the mirrored field value, truncated to the field width.
//
func (f *Field) Set(v uint32) { f.value = v & f.Mask() }

// Get returns the mirrored field value.
//
func (f *Field) Get() uint32 { return f.value }

// ResetValue sets the field back to its reset value.
//
func (f *Field) ResetValue() { f.value = f.Reset & f.Mask() }

func (f *Field) String() string {
	return fmt.Sprintf("%s[%d:%d] %v = %#x", f.Name, f.LSB+f.Width-1, f.LSB, f.Access, f.value)
}
