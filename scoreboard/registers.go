// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scoreboard

import (
	"fmt"

	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/model"
	"github.com/db47h/hwvip/txn"
)

// Registers checks register bus transactions against a register mirror.
// Writes update the mirror, reads are compared with it.
//
type Registers struct {
	name     string
	s        *hwvip.Sim
	mirror   *model.Mirror
	cfg      config
	log      *hwvip.Logger
	writes   uint64
	reads    uint64
	failures []error
}

// NewRegisters returns a register scoreboard using m as reference model.
//
func NewRegisters(s *hwvip.Sim, name string, m *model.Mirror, opts ...Option) *Registers {
	return &Registers{name: name, s: s, mirror: m, cfg: newConfig(opts), log: s.Logger(name)}
}

// Mirror returns the reference model.
//
func (r *Registers) Mirror() *model.Mirror { return r.mirror }

// Failures returns all recorded errors.
//
func (r *Registers) Failures() []error { return r.failures }

func (r *Registers) fail(err error) error {
	r.failures = append(r.failures, err)
	r.log.Errorf("%v", err)
	if r.cfg.failFast {
		return err
	}
	return nil
}

// Observe checks an observed transaction.
//
func (r *Registers) Observe(tr txn.Bus) error {
	key := fmt.Sprintf("%#02x", tr.Addr)
	switch tr.Dir {
	case txn.Write:
		r.writes++
		resp := r.mirror.Write(tr.Addr, tr.Data, tr.Strb)
		if tr.Resp != resp {
			return r.fail(&MismatchError{Scoreboard: r.name, Key: key, Expected: resp, Got: tr.Resp, Cycle: r.s.Cycle()})
		}
		r.log.Debugf("write %s = %#08x", key, tr.Data)
	case txn.Read:
		r.reads++
		exp := r.mirror.Apply(tr)
		if tr.Resp != exp.Resp {
			return r.fail(&MismatchError{Scoreboard: r.name, Key: key, Expected: exp.Resp, Got: tr.Resp, Cycle: r.s.Cycle()})
		}
		if exp.Resp == txn.Okay && tr.Data != exp.Data {
			return r.fail(&MismatchError{
				Scoreboard: r.name, Key: key,
				Expected: fmt.Sprintf("%#08x", exp.Data), Got: fmt.Sprintf("%#08x", tr.Data),
				Cycle: r.s.Cycle(),
			})
		}
		r.log.Debugf("read %s = %#08x ok", key, tr.Data)
	default:
		return r.fail(&UnexpectedError{Scoreboard: r.name, Key: key, Got: tr, Cycle: r.s.Cycle()})
	}
	return nil
}

// Report returns the scoreboard summary.
//
func (r *Registers) Report() Report {
	n := uint64(len(r.failures))
	return Report{Name: r.name, Kind: KindRegisters, Writes: r.writes, Reads: r.reads, Errors: n, Status: status(n)}
}
