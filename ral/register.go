// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ral

import (
	"github.com/pkg/errors"
)

// Register is a 32 bits register made of fields.
//
type Register struct {
	name   string
	addr   uint32
	fields []*Field
}

// NewRegister returns a register at the given address. Without fields, the
// register has a single 32 bits RW field named DATA.
//
func NewRegister(name string, addr uint32, fields ...*Field) (*Register, error) {
	if addr&3 != 0 {
		return nil, errors.Errorf("register %s: unaligned address %#x", name, addr)
	}
	if len(fields) == 0 {
		fields = []*Field{NewField("DATA", 32, 0, 0, RW)}
	}
	var used uint32
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Width == 0 || f.LSB+f.Width > 32 {
			return nil, errors.Errorf("register %s: field %s does not fit in 32 bits", name, f.Name)
		}
		if names[f.Name] {
			return nil, errors.Errorf("register %s: duplicate field %s", name, f.Name)
		}
		if used&f.regMask() != 0 {
			return nil, errors.Errorf("register %s: field %s overlaps another field", name, f.Name)
		}
		names[f.Name] = true
		used |= f.regMask()
	}
	return &Register{name: name, addr: addr, fields: fields}, nil
}

// Name returns the register name.
//
func (r *Register) Name() string { return r.name }

// Addr returns the register address.
//
func (r *Register) Addr() uint32 { return r.addr }

// Fields returns the register fields.
//
func (r *Register) Fields() []*Field { return r.fields }

// Field returns the named field or nil.
//
func (r *Register) Field(name string) *Field {
	for _, f := range r.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Value returns the mirrored register value, composed from its fields.
//
func (r *Register) Value() uint32 {
	var v uint32
	for _, f := range r.fields {
		v |= f.value << f.LSB
	}
	return v
}

// SetValue sets all fields from v.
//
func (r *Register) SetValue(v uint32) {
	for _, f := range r.fields {
		f.Set(v >> f.LSB)
	}
}

// ReadMask returns the mask of the bits that can be read back from the
// device.
//
func (r *Register) ReadMask() uint32 {
	var m uint32
	for _, f := range r.fields {
		if f.Access.readable() {
			m |= f.regMask()
		}
	}
	return m
}

// predict updates the fields for which the filter returns true.
//
func (r *Register) predict(v uint32, filter func(Access) bool) {
	for _, f := range r.fields {
		if filter(f.Access) {
			f.Set(v >> f.LSB)
		}
	}
}

// Reset sets all fields back to their reset value.
//
func (r *Register) Reset() {
	for _, f := range r.fields {
		f.ResetValue()
	}
}
