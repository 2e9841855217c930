// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ral

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/txn"
)

// Adapter performs register accesses on a bus.
//
type Adapter interface {
	Write(t *hwvip.Task, addr, data uint32) (txn.Resp, error)
	Read(t *hwvip.Task, addr uint32) (uint32, txn.Resp, error)
}

type busAdapter struct {
	d txn.BusDriver
}

// BusAdapter returns an Adapter using a register bus driver.
//
func BusAdapter(d txn.BusDriver) Adapter {
	return busAdapter{d}
}

func (a busAdapter) Write(t *hwvip.Task, addr, data uint32) (txn.Resp, error) {
	tr, err := a.d.Drive(t, txn.NewWrite(addr, data))
	return tr.Resp, err
}

func (a busAdapter) Read(t *hwvip.Task, addr uint32) (uint32, txn.Resp, error) {
	tr, err := a.d.Drive(t, txn.NewRead(addr))
	return tr.Data, tr.Resp, err
}

// MirrorError reports a device register value that differs from the mirror.
//
type MirrorError struct {
	Reg    string
	DUT    uint32
	Mirror uint32
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("mirror mismatch for %s: DUT=%#08x, mirror=%#08x", e.Reg, e.DUT, e.Mirror)
}

// Block is a set of registers accessed through an adapter.
//
// The mirror is only updated by accesses that complete with an OKAY response.
//
type Block struct {
	name    string
	adapter Adapter
	regs    []*Register
	byName  map[string]*Register
	byAddr  map[uint32]*Register
	log     *hwvip.Logger
}

// NewBlock returns an empty register block.
//
func NewBlock(s *hwvip.Sim, name string, a Adapter) *Block {
	return &Block{
		name:    name,
		adapter: a,
		byName:  make(map[string]*Register),
		byAddr:  make(map[uint32]*Register),
		log:     s.Logger(name),
	}
}

// NewWords returns a block of n registers REG0, REG1... at addresses 0, 4...
// with a single 32 bits RW field.
//
func NewWords(s *hwvip.Sim, name string, a Adapter, n int) *Block {
	b := NewBlock(s, name, a)
	for i := 0; i < n; i++ {
		r, err := NewRegister(fmt.Sprintf("REG%d", i), uint32(i)*4)
		if err != nil {
			panic(err)
		}
		if err = b.AddRegister(r); err != nil {
			panic(err)
		}
	}
	return b
}

// AddRegister adds a register to the block.
//
func (b *Block) AddRegister(r *Register) error {
	if _, ok := b.byName[r.name]; ok {
		return errors.Errorf("block %s: duplicate register %s", b.name, r.name)
	}
	if o, ok := b.byAddr[r.addr]; ok {
		return errors.Errorf("block %s: register %s at %#x already used by %s", b.name, r.name, r.addr, o.name)
	}
	b.regs = append(b.regs, r)
	b.byName[r.name] = r
	b.byAddr[r.addr] = r
	return nil
}

// Register returns the named register or nil.
//
func (b *Block) Register(name string) *Register { return b.byName[name] }

// Registers returns the registers in the order they were added.
//
func (b *Block) Registers() []*Register { return b.regs }

func respError(op string, r *Register, resp txn.Resp) error {
	return errors.Errorf("%s %s at %#02x: %v response", op, r.name, r.addr, resp)
}

// Write writes v to r.
//
func (b *Block) Write(t *hwvip.Task, r *Register, v uint32) error {
	resp, err := b.adapter.Write(t, r.addr, v)
	if err != nil {
		return err
	}
	if resp != txn.Okay {
		return respError("write", r, resp)
	}
	r.predict(v, Access.writable)
	b.log.Debugf("write %s = %#08x", r.name, v)
	return nil
}

// Update writes the mirrored value of r to the device, typically after
// setting some of its fields.
//
func (b *Block) Update(t *hwvip.Task, r *Register) error {
	return b.Write(t, r, r.Value())
}

// Read reads r from the device and updates the readable fields of the
// mirror.
//
func (b *Block) Read(t *hwvip.Task, r *Register) (uint32, error) {
	v, resp, err := b.adapter.Read(t, r.addr)
	if err != nil {
		return 0, err
	}
	if resp != txn.Okay {
		return 0, respError("read", r, resp)
	}
	r.predict(v, Access.readable)
	b.log.Debugf("read %s = %#08x", r.name, v)
	return v, nil
}

// Check reads r from the device and compares its readable bits with the
// mirror. The mirror is left untouched. A mismatch is returned as a
// *MirrorError.
//
func (b *Block) Check(t *hwvip.Task, r *Register) error {
	v, resp, err := b.adapter.Read(t, r.addr)
	if err != nil {
		return err
	}
	if resp != txn.Okay {
		return respError("check", r, resp)
	}
	m := r.ReadMask()
	if v&m != r.Value()&m {
		err := &MirrorError{Reg: r.name, DUT: v & m, Mirror: r.Value() & m}
		b.log.Errorf("%v", err)
		return err
	}
	b.log.Debugf("check %s ok", r.name)
	return nil
}

// CheckAll checks every register and returns the first error.
//
func (b *Block) CheckAll(t *hwvip.Task) error {
	for _, r := range b.regs {
		if err := b.Check(t, r); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the mirror.
//
func (b *Block) Reset() {
	for _, r := range b.regs {
		r.Reset()
	}
}
