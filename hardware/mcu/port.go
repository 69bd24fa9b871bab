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

package mcu

import "fmt"

// Port is an 8-bit I/O port. Bits set in the direction register are
// outputs. Every write increments the write counter.
type Port struct {
	name      string
	direction uint8
	latch     uint8
	input     uint8
	writes    uint32
}

func (p *Port) String() string {
	return fmt.Sprintf("%s: dir=%08b latch=%08b in=%08b writes=%d", p.name, p.direction, p.latch, p.input, p.writes)
}

// SetDirection writes the direction register.
func (p *Port) SetDirection(v uint8) {
	p.direction = v
}

// Write sets the output latch.
func (p *Port) Write(v uint8) {
	p.latch = v
	p.writes++
}

// Read returns the output latch for output bits and the input latch for
// input bits.
func (p *Port) Read() uint8 {
	return (p.latch & p.direction) | (p.input &^ p.direction)
}

// WriteCounter implements the panel.Port interface.
func (p *Port) WriteCounter() uint32 {
	return p.writes
}

// Latch implements the panel.Port interface.
func (p *Port) Latch() uint8 {
	return p.latch
}

// SetInput implements the panel.Port interface.
func (p *Port) SetInput(v uint8) {
	p.input = v
}

// SetInputBit implements the panel.Port interface.
func (p *Port) SetInputBit(bit int, set bool) {
	if set {
		p.input |= 1 << bit
	} else {
		p.input &^= 1 << bit
	}
}
