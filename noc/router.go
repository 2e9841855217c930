// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package noc

import (
	"github.com/db47h/hwvip"
	"github.com/db47h/hwvip/axis"
	"github.com/db47h/hwvip/model"
)

// Router is a five port router device model with one FIFO per output port.
//
//	Inputs: <port>_in_tdata, <port>_in_tvalid, <port>_out_tready
//	Outputs: <port>_in_tready, <port>_out_tdata, <port>_out_tvalid, <port>_out_tlast
//	Function: every accepted flit is pushed to the FIFO of the output port
//	          selected by the route function. Flits accepted on the same
//	          cycle are queued in input port order. Inputs are ready while
//	          every FIFO can take one flit from each input.
//
type Router struct {
	in, out [model.NumPorts]*axis.Bus
	layout  Layout
	route   model.RouteFunc
	depth   int
	q       [model.NumPorts][]uint64
	routed  [model.NumPorts]uint64
	log     *hwvip.Logger
}

// NewRouter returns a router and adds it to s. The FIFO depth is at least
// model.NumPorts.
//
func NewRouter(s *hwvip.Sim, name string, in, out [model.NumPorts]*axis.Bus, l Layout, route model.RouteFunc, depth int) *Router {
	if depth < model.NumPorts {
		depth = model.NumPorts
	}
	r := &Router{in: in, out: out, layout: l, route: route, depth: depth, log: s.Logger(name)}
	s.Add(r.Update)
	return r
}

// Routed returns the number of flits routed to port p.
//
func (r *Router) Routed(p model.Port) uint64 { return r.routed[p] }

// Update is the router clocked process.
//
func (r *Router) Update(*hwvip.Sim) {
	for p, o := range r.out {
		if o.Fire() {
			r.q[p] = r.q[p][1:]
		}
	}
	for i, in := range r.in {
		if !in.Fire() {
			continue
		}
		f := in.Tdata.Get()
		pkt := r.layout.Decode(f)
		p := r.route(pkt.Dst)
		if int(p) >= model.NumPorts {
			r.log.Errorf("flit from %v to %v: bad route %v, dropped", model.Port(i), pkt.Dst, p)
			continue
		}
		r.q[p] = append(r.q[p], f)
		r.routed[p]++
	}
	free := r.depth
	for p, o := range r.out {
		if n := r.depth - len(r.q[p]); n < free {
			free = n
		}
		if len(r.q[p]) > 0 {
			o.Tdata.Set(r.q[p][0])
			o.Tlast.Set(1)
			o.Tvalid.Set(1)
		} else {
			o.Tvalid.Set(0)
			o.Tlast.Set(0)
		}
	}
	for _, in := range r.in {
		in.Tready.SetBool(free >= model.NumPorts)
	}
}
