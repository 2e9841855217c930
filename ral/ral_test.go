// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ral_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/apb"
	"github.com/db47h/hwvip/axil"
	"github.com/db47h/hwvip/hwtest"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/ral"
)

// newBench returns a simulation with a register slave on the named bus and
// an adapter driving it.
//
func newBench(t *testing.T, bus string, dut *model.Mirror) (*hwvip.Sim, ral.Adapter) {
	t.Helper()
	s := hwtest.NewSim(t)
	switch bus {
	case "apb":
		b, err := apb.NewBus(s, "apb")
		require.NoError(t, err)
		apb.NewSlave(s, "dut", b, dut)
		d := apb.NewDriver(s, "drv", b)
		d.Reset()
		return s, ral.BusAdapter(d)
	case "axil":
		b, err := axil.NewBus(s, "axil")
		require.NoError(t, err)
		axil.NewSlave(s, "dut", b, dut, axil.Latency{AW: 1, R: 1})
		d := axil.NewDriver(s, "drv", b)
		d.Reset()
		return s, ral.BusAdapter(d)
	}
	t.Fatalf("unknown bus %s", bus)
	return nil, nil
}

var buses = []string{"apb", "axil"}

func TestBlock_writeRead(t *testing.T) {
	data := []uint32{0xdeadbeef, 0xcafebabe, 0x12345678, 0xaaaabbbb}
	for _, bus := range buses {
		t.Run(bus, func(t *testing.T) {
			s, a := newBench(t, bus, model.NewMirror(model.Words(4)...))
			blk := ral.NewWords(s, "regs", a, 4)
			got := make([]uint32, len(data))
			hwtest.Run(t, s, 1000, func(tk *hwvip.Task) error {
				for i, d := range data {
					if err := blk.Write(tk, blk.Registers()[i], d); err != nil {
						return err
					}
				}
				for i := range data {
					v, err := blk.Read(tk, blk.Register(fmt.Sprintf("REG%d", i)))
					if err != nil {
						return err
					}
					got[i] = v
				}
				return blk.CheckAll(tk)
			})
			assert.Equal(t, data, got)
			assert.Equal(t, uint32(0xcafebabe), blk.Register("REG1").Value())
		})
	}
}

func TestBlock_fields(t *testing.T) {
	s, a := newBench(t, "apb", model.NewMirror(model.Reg{Addr: 0, Reset: 0x00000500}))
	ctrl, err := ral.NewRegister("CTRL", 0,
		ral.NewField("MODE", 2, 0, 0, ral.RW),
		ral.NewField("STATUS", 4, 8, 0, ral.RO),
		ral.NewField("KEY", 8, 16, 0, ral.WO),
		ral.NewField("ENABLE", 1, 31, 0, ral.RW),
	)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x80000f03), ctrl.ReadMask())

	blk := ral.NewBlock(s, "regs", a)
	require.NoError(t, blk.AddRegister(ctrl))

	ctrl.Field("ENABLE").Set(1)
	ctrl.Field("MODE").Set(7)
	assert.Equal(t, uint32(3), ctrl.Field("MODE").Get())
	assert.Equal(t, uint32(0x80000003), ctrl.Value())

	hwtest.Run(t, s, 1000, func(tk *hwvip.Task) error {
		// the STATUS bits of the device differ from the mirror
		if err := blk.Check(tk, ctrl); err == nil {
			return errors.New("expected a mirror mismatch")
		}
		if _, err := blk.Read(tk, ctrl); err != nil {
			return err
		}
		if v := ctrl.Field("STATUS").Get(); v != 5 {
			return errors.Errorf("STATUS = %d, expected 5", v)
		}
		// reads update the mirror with the device value
		if v := ctrl.Field("ENABLE").Get(); v != 0 {
			return errors.Errorf("ENABLE = %d, expected 0", v)
		}
		ctrl.Field("ENABLE").Set(1)
		ctrl.Field("MODE").Set(1)
		ctrl.Field("KEY").Set(0xa5)
		if err := blk.Update(tk, ctrl); err != nil {
			return err
		}
		return blk.Check(tk, ctrl)
	})
	assert.Equal(t, uint32(0x80a50501), ctrl.Value())

	blk.Reset()
	assert.Zero(t, ctrl.Value())
}

func TestBlock_mirrorError(t *testing.T) {
	for _, bus := range buses {
		t.Run(bus, func(t *testing.T) {
			dut := model.NewMirror(model.Reg{Addr: 0}, model.Reg{Addr: 4, Reset: 0x55})
			s, a := newBench(t, bus, dut)
			blk := ral.NewWords(s, "regs", a, 2)
			var err error
			hwtest.Run(t, s, 1000, func(tk *hwvip.Task) error {
				err = blk.CheckAll(tk)
				return nil
			})
			var me *ral.MirrorError
			require.True(t, errors.As(err, &me), "got %v", err)
			assert.Equal(t, "REG1", me.Reg)
			assert.Equal(t, uint32(0x55), me.DUT)
			assert.Equal(t, uint32(0), me.Mirror)
			assert.Equal(t, "mirror mismatch for REG1: DUT=0x00000055, mirror=0x00000000", me.Error())
		})
	}
}

func TestBlock_slaveError(t *testing.T) {
	s, a := newBench(t, "axil", model.NewMirror(model.Words(1)...))
	blk := ral.NewWords(s, "regs", a, 2)
	r := blk.Register("REG1")
	var werr, rerr error
	hwtest.Run(t, s, 1000, func(tk *hwvip.Task) error {
		werr = blk.Write(tk, r, 0x1234)
		_, rerr = blk.Read(tk, r)
		return nil
	})
	require.Error(t, werr)
	assert.Contains(t, werr.Error(), "SLVERR")
	require.Error(t, rerr)
	// failed accesses leave the mirror untouched
	assert.Zero(t, r.Value())
}

func TestNewRegister_errors(t *testing.T) {
	data := []struct {
		name   string
		addr   uint32
		fields []*ral.Field
		err    string
	}{
		{"unaligned", 2, nil, "unaligned"},
		{"wide", 0, []*ral.Field{ral.NewField("A", 8, 28, 0, ral.RW)}, "does not fit"},
		{"empty", 0, []*ral.Field{ral.NewField("A", 0, 0, 0, ral.RW)}, "does not fit"},
		{"overlap", 0, []*ral.Field{ral.NewField("A", 4, 0, 0, ral.RW), ral.NewField("B", 4, 3, 0, ral.RO)}, "overlaps"},
		{"duplicate", 0, []*ral.Field{ral.NewField("A", 4, 0, 0, ral.RW), ral.NewField("A", 4, 4, 0, ral.RO)}, "duplicate"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := ral.NewRegister("R", d.addr, d.fields...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), d.err)
		})
	}

	r, err := ral.NewRegister("R", 0)
	require.NoError(t, err)
	require.Len(t, r.Fields(), 1)
	assert.Equal(t, "DATA", r.Fields()[0].Name)
	r.SetValue(0xffffffff)
	assert.Equal(t, uint32(0xffffffff), r.Value())

	blk := ral.NewBlock(hwtest.NewSim(t), "b", nil)
	require.NoError(t, blk.AddRegister(r))
	assert.Error(t, blk.AddRegister(r))
	other, _ := ral.NewRegister("S", 0)
	assert.Error(t, blk.AddRegister(other))
}

func TestAccess_String(t *testing.T) {
	assert.Equal(t, "RW", ral.RW.String())
	assert.Equal(t, "RO", ral.RO.String())
	assert.Equal(t, "WO", ral.WO.String())
	assert.Equal(t, "Access(7)", ral.Access(7).String())
	f := ral.NewField("MODE", 2, 4, 2, ral.RW)
	assert.Equal(t, "MODE[5:4] RW = 0x2", f.String())
}
