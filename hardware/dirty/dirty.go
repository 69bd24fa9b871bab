// This file is part of Gophersynth.
//
// Gophersynth is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gophersynth is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gophersynth.  If not, see <https://www.gnu.org/licenses/>.

// Package dirty is the lock-free accumulator for "something changed" signals
// published by the driving goroutine. Flags are set with an atomic OR and
// drained with an atomic swap, so a consumer polling from any goroutine never
// blocks the producer and never loses a flag set between two drains.
package dirty

import (
	"strings"
	"sync/atomic"
)

// Flags is a bitmask of changed device components.
type Flags uint32

// List of dirty flags.
const (
	Lcd Flags = 1 << iota
	LcdCgRam
	Leds
	Buttons
	Single
	Multi
	Global
	Mode
)

// None is the empty set of flags.
const None Flags = 0

// Has returns true if all the flags in f are set.
func (d Flags) Has(f Flags) bool {
	return d&f == f && f != None
}

func (d Flags) String() string {
	if d == None {
		return "none"
	}

	names := []string{"lcd", "cgram", "leds", "buttons", "single", "multi", "global", "mode"}

	s := make([]string, 0, len(names))
	for i, n := range names {
		if d&(1<<i) != 0 {
			s = append(s, n)
		}
	}
	return strings.Join(s, "|")
}

// Publisher is implemented by types that accept dirty flags.
type Publisher interface {
	Publish(f Flags)
}

// Accumulator collects flags from any number of goroutines. The zero value is
// ready to use.
type Accumulator struct {
	flags atomic.Uint32
}

// Publish implements the Publisher interface.
func (a *Accumulator) Publish(f Flags) {
	a.flags.Or(uint32(f))
}

// Peek returns the current flags without clearing them.
func (a *Accumulator) Peek() Flags {
	return Flags(a.flags.Load())
}

// Drain returns the current flags and clears them in one atomic operation.
func (a *Accumulator) Drain() Flags {
	return Flags(a.flags.Swap(0))
}
