// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package model

import "strconv"

// Port is a router port.
//
type Port uint8

// Router ports. The numbering matches the router port indices of the
// five-port mesh router.
//
const (
	Local Port = iota
	North
	South
	East
	West
)

// NumPorts is the number of router ports.
//
const NumPorts = 5

var portNames = [...]string{"LOCAL", "NORTH", "SOUTH", "EAST", "WEST"}

func (p Port) String() string {
	if int(p) < len(portNames) {
		return portNames[p]
	}
	return "Port(" + strconv.Itoa(int(p)) + ")"
}

// Ports returns all router ports in index order.
//
func Ports() []Port {
	return []Port{Local, North, South, East, West}
}

// Coord is a mesh coordinate. Y grows towards the south.
//
type Coord struct {
	X, Y uint8
}

func (c Coord) String() string {
	return "(" + strconv.Itoa(int(c.X)) + "," + strconv.Itoa(int(c.Y)) + ")"
}

// RouteFunc selects the output port for a packet bound to dst.
//
type RouteFunc func(dst Coord) Port

// XY is the dimension ordered routing model of the router at coordinates
// (X, Y): the X offset is resolved before the Y offset.
//
type XY Coord

// Route returns the output port for a packet with destination dst.
//
func (r XY) Route(dst Coord) Port {
	switch {
	case dst.X > r.X:
		return East
	case dst.X < r.X:
		return West
	case dst.Y > r.Y:
		return South
	case dst.Y < r.Y:
		return North
	}
	return Local
}
