// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package scoreboard

import "fmt"

// MismatchError reports an observed value that differs from the reference
// model prediction.
//
type MismatchError struct {
	Scoreboard string
	Key        string
	Expected   interface{}
	Got        interface{}
	Cycle      uint64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: cycle %d: mismatch on %s: expected %v, got %v", e.Scoreboard, e.Cycle, e.Key, e.Expected, e.Got)
}

// UnexpectedError reports a transaction observed with no outstanding
// expectation.
//
type UnexpectedError struct {
	Scoreboard string
	Key        string
	Got        interface{}
	Cycle      uint64
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: cycle %d: unexpected on %s: %v", e.Scoreboard, e.Cycle, e.Key, e.Got)
}
