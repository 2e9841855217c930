// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwvip

import (
	"reflect"
	"sort"

	"github.com/pkg/errors"

	"github.com/db47h/hwvip/internal/decl"
)

// W maps signal suffixes as declared in a binding struct to the suffixes used
// by a particular bus instance.
//
type W map[string]string

type bindConfig struct {
	rename W
	width  map[string]uint
}

// A BindOption changes how Bind resolves wire names.
//
type BindOption func(*bindConfig)

// Rename maps declared suffixes to different ones. For example,
// Rename(W{"awaddr": "aw_addr"}) binds the Awaddr field to wire
// prefix_aw_addr.
//
func Rename(w W) BindOption {
	return func(c *bindConfig) {
		for k, v := range w {
			c.rename[k] = v
		}
	}
}

// Width overrides the declared width of a signal.
//
func Width(suffix string, bits uint) BindOption {
	return func(c *bindConfig) {
		c.width[suffix] = bits
	}
}

var wireType = reflect.TypeOf((*Wire)(nil))

// Bind connects the *Wire fields of the struct pointed to by v to wires of s.
//
// Fields are selected by a `vip` tag holding a signal declaration: the
// signal suffix optionally followed by its width, like `vip:"awaddr[32]"`.
// The wire name is prefix_suffix, or just suffix if prefix is empty.
// Missing wires are created; existing wires must have the same width.
//
// Bind checks the whole binding when called and returns an error for
// malformed tags, width mismatches or options naming unknown signals.
//
func Bind(s *Sim, prefix string, v interface{}, opts ...BindOption) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("bind %s: need a non-nil pointer to struct, got %T", prefix, v)
	}
	cfg := bindConfig{rename: make(W), width: make(map[string]uint)}
	for _, o := range opts {
		o(&cfg)
	}

	e := rv.Elem()
	typ := e.Type()
	known := make(map[string]bool)
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("vip")
		if !ok {
			continue
		}
		if f.PkgPath != "" {
			return errors.Errorf("bind %s: unexported field %s.%s", prefix, typ.Name(), f.Name)
		}
		if f.Type != wireType {
			return errors.Errorf("bind %s: field %s.%s must be a *hwvip.Wire, got %s", prefix, typ.Name(), f.Name, f.Type)
		}
		sigs, err := decl.Parse(tag)
		if err != nil {
			return errors.Wrapf(err, "bind %s: field %s.%s", prefix, typ.Name(), f.Name)
		}
		if len(sigs) != 1 {
			return errors.Errorf("bind %s: field %s.%s must declare exactly one signal", prefix, typ.Name(), f.Name)
		}
		sig := sigs[0]
		known[sig.Name] = true
		suffix, width := sig.Name, sig.Width
		if r, ok := cfg.rename[sig.Name]; ok {
			suffix = r
		}
		if bits, ok := cfg.width[sig.Name]; ok {
			width = bits
		}
		w, err := s.Wire(JoinName(prefix, suffix), width)
		if err != nil {
			return errors.Wrapf(err, "bind %s: field %s.%s", prefix, typ.Name(), f.Name)
		}
		e.Field(i).Set(reflect.ValueOf(w))
	}

	var unknown []string
	for k := range cfg.rename {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	for k := range cfg.width {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return errors.Errorf("bind %s: unknown signal %q in options", prefix, unknown[0])
	}
	return nil
}
