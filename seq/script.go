// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package seq

import (
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/noc"
	"github.com/db47h/hwvip/txn"
)

// Script is stimulus produced by a Lua script. The script runs to completion
// when loaded, so that it never runs concurrently with a simulation. It sees
// the base, table, string and math libraries plus the following functions:
//
//	write(addr, data [, strb])     register write
//	read(addr)                     register read
//	packet(d0, d1, ...)            stream packet, or packet{d0, d1, ...}
//	flit{type=, src={x, y}, dst={x, y}, payload=}
//	                               router packet; type is one of "read",
//	                               "write", "resp" or "ack", default "write"
//
type Script struct {
	Bus     []txn.Bus
	Packets []txn.Packet
	Flits   []noc.Packet
}

// LoadScript runs the given Lua source. Name is used in error messages.
//
func LoadScript(name, src string) (*Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return nil, errors.Wrapf(err, "%s: open %s", name, lib.name)
		}
	}

	sc := new(Script)
	L.SetGlobal("write", L.NewFunction(sc.write))
	L.SetGlobal("read", L.NewFunction(sc.read))
	L.SetGlobal("packet", L.NewFunction(sc.packet))
	L.SetGlobal("flit", L.NewFunction(sc.flit))
	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	L.Push(fn)
	if err = L.PCall(0, 0, nil); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return sc, nil
}

func checkUint32(L *lua.LState, n int) uint32 {
	v := L.CheckNumber(n)
	if v < 0 || v > 0xffffffff || v != lua.LNumber(uint64(v)) {
		L.ArgError(n, "not a 32 bits unsigned integer")
	}
	return uint32(v)
}

func checkUint64(L *lua.LState, v lua.LValue, what string) uint64 {
	n, ok := v.(lua.LNumber)
	if !ok || n < 0 || n >= 1<<64 || n != lua.LNumber(uint64(n)) {
		L.RaiseError("%s: not an unsigned integer: %v", what, v)
	}
	return uint64(n)
}

func (sc *Script) write(L *lua.LState) int {
	addr := checkUint32(L, 1)
	data := checkUint32(L, 2)
	strb := uint8(txn.FullStrobe)
	if L.GetTop() >= 3 {
		strb = uint8(checkUint32(L, 3) & txn.FullStrobe)
	}
	sc.Bus = append(sc.Bus, txn.NewWriteStrb(addr, data, strb))
	return 0
}

func (sc *Script) read(L *lua.LState) int {
	sc.Bus = append(sc.Bus, txn.NewRead(checkUint32(L, 1)))
	return 0
}

func (sc *Script) packet(L *lua.LState) int {
	var data []uint64
	if t, ok := L.Get(1).(*lua.LTable); ok {
		for i := 1; i <= t.Len(); i++ {
			data = append(data, checkUint64(L, t.RawGetInt(i), "packet"))
		}
	} else {
		for i := 1; i <= L.GetTop(); i++ {
			data = append(data, checkUint64(L, L.Get(i), "packet"))
		}
	}
	p := txn.NewPacket(data...)
	if err := p.Validate(); err != nil {
		L.RaiseError("%v", err)
	}
	sc.Packets = append(sc.Packets, p)
	return 0
}

var flitTypes = map[string]noc.Type{
	"read":  noc.ReadReq,
	"write": noc.WriteReq,
	"resp":  noc.Response,
	"ack":   noc.Ack,
}

func coord(L *lua.LState, v lua.LValue, what string) model.Coord {
	t, ok := v.(*lua.LTable)
	if !ok {
		L.RaiseError("flit: %s must be a {x, y} table", what)
	}
	x := checkUint64(L, t.RawGetInt(1), what+".x")
	y := checkUint64(L, t.RawGetInt(2), what+".y")
	if x > 15 || y > 15 {
		L.RaiseError("flit: %s out of range", what)
	}
	return model.Coord{X: uint8(x), Y: uint8(y)}
}

func (sc *Script) flit(L *lua.LState) int {
	t := L.CheckTable(1)
	p := noc.Packet{Type: noc.WriteReq}
	if v := t.RawGetString("type"); v != lua.LNil {
		typ, ok := flitTypes[v.String()]
		if !ok {
			L.RaiseError("flit: unknown type %q", v.String())
		}
		p.Type = typ
	}
	if v := t.RawGetString("src"); v != lua.LNil {
		p.Src = coord(L, v, "src")
	}
	p.Dst = coord(L, t.RawGetString("dst"), "dst")
	if v := t.RawGetString("payload"); v != lua.LNil {
		p.Payload = checkUint64(L, v, "payload")
	}
	sc.Flits = append(sc.Flits, p)
	return 0
}
