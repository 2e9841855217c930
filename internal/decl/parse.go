// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package decl parses signal declaration strings.
//
// A declaration is a comma separated list of signal names, each optionally
// followed by a bit width in brackets:
//
//	awaddr[32], awvalid, awready
//
// A signal without a width is one bit wide.
//
package decl

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// MaxWidth is the widest signal that can be declared.
//
const MaxWidth = 64

// Signal is a single declared signal.
//
type Signal struct {
	Name  string
	Width uint
	Pos   int // byte offset of the name in the input
}

type scanner struct {
	in  string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.in) && unicode.IsSpace(rune(s.in[s.pos])) {
		s.pos++
	}
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.in) {
		return 0
	}
	return s.in[s.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || '0' <= c && c <= '9'
}

func (s *scanner) ident() (string, error) {
	start := s.pos
	if !isIdentStart(s.peek()) {
		return "", parseError(s.in, s.pos, "expected signal name")
	}
	for s.pos < len(s.in) && isIdent(s.in[s.pos]) {
		s.pos++
	}
	return s.in[start:s.pos], nil
}

func (s *scanner) number() (uint, error) {
	start := s.pos
	var n uint
	for s.pos < len(s.in) && '0' <= s.in[s.pos] && s.in[s.pos] <= '9' {
		n = n*10 + uint(s.in[s.pos]-'0')
		if n > MaxWidth {
			return 0, parseError(s.in, start, "signal width out of range")
		}
		s.pos++
	}
	if s.pos == start {
		return 0, parseError(s.in, s.pos, "missing signal width")
	}
	return n, nil
}

// Parse parses a declaration string. Duplicate names are rejected.
//
func Parse(in string) ([]Signal, error) {
	var out []Signal
	seen := make(map[string]bool)
	s := &scanner{in: in}

	s.skipSpace()
	if s.peek() == 0 {
		return nil, nil
	}
	for {
		s.skipSpace()
		pos := s.pos
		name, err := s.ident()
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, parseError(in, pos, "duplicate signal "+name)
		}
		seen[name] = true
		sig := Signal{Name: name, Width: 1, Pos: pos}
		s.skipSpace()
		if s.peek() == '[' {
			s.pos++
			s.skipSpace()
			w, err := s.number()
			if err != nil {
				return nil, err
			}
			if w == 0 {
				return nil, parseError(in, pos, "zero width signal "+name)
			}
			s.skipSpace()
			if s.peek() != ']' {
				return nil, parseError(in, s.pos, "missing close bracket")
			}
			s.pos++
			sig.Width = w
		}
		out = append(out, sig)
		s.skipSpace()
		switch s.peek() {
		case 0:
			return out, nil
		case ',':
			s.pos++
		default:
			return nil, parseError(in, s.pos, "expected comma or end of input")
		}
	}
}

// Join formats signals back into a declaration string.
//
func Join(sigs []Signal) string {
	var b strings.Builder
	for i, s := range sigs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.Name)
		if s.Width != 1 {
			b.WriteByte('[')
			b.WriteString(strconv.FormatUint(uint64(s.Width), 10))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
