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

package panel

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// ScanAddress is one of the four logical banks read by the control unit.
type ScanAddress int

// List of valid ScanAddress values.
const (
	Buttons0 ScanAddress = iota
	Buttons1
	Encoders0
	Encoders1

	NumScanAddresses
)

// Bits of port E. The chip selects are active low. The power bit reads low
// while the power button is held.
const (
	PortEPower      = 2
	PortEButtons0CS = 4
	PortEButtons1CS = 5
	PortEEncoders0  = 6
	PortEEncoders1  = 7
)

// ChipSelect returns the port E bit that selects the scan address.
func (a ScanAddress) ChipSelect() int {
	switch a {
	case Buttons0:
		return PortEButtons0CS
	case Buttons1:
		return PortEButtons1CS
	case Encoders0:
		return PortEEncoders0
	case Encoders1:
		return PortEEncoders1
	}
	panic(fmt.Sprintf("panel: unknown scan address (%d)", a))
}

// grayCode is the output of an encoder for each of its four phases. positive
// rotation advances through the table.
var grayCode = [4]uint8{0b00, 0b10, 0b11, 0b01}

// Port is the view of an I/O port required by Process().
type Port interface {
	// number of times the control unit has written to the port
	WriteCounter() uint32

	// the value most recently written by the control unit
	Latch() uint8

	// set the value the control unit will read from the port
	SetInput(v uint8)

	// set or clear one bit of the value the control unit will read
	SetInputBit(bit int, set bool)
}

// Panel is the button matrix and encoder bank.
type Panel struct {
	buttons [NumButtons]atomic.Bool

	// rotation not yet consumed by a scan
	pending [NumEncoders]atomic.Int32

	// phase counter of each encoder. only the bottom two bits are meaningful
	phase [NumEncoders]atomic.Uint32

	// write counter of port E at the previous call to Process(). driving
	// goroutine only
	writeCounter uint32
}

// NewPanel is the preferred method of initialisation for the Panel type.
func NewPanel() *Panel {
	return &Panel{}
}

func (pan *Panel) String() string {
	s := strings.Builder{}
	s.WriteString("held=")
	held := false
	for b := range NumButtons {
		if pan.buttons[b].Load() {
			if held {
				s.WriteString("+")
			}
			s.WriteString(b.String())
			held = true
		}
	}
	if !held {
		s.WriteString("none")
	}
	for e := range NumEncoders {
		if p := pan.pending[e].Load(); p != 0 {
			s.WriteString(fmt.Sprintf(", %s=%+d", e, p))
		}
	}
	return s.String()
}

// SetButton changes the state of a button. Returns false if the button does
// not exist.
func (pan *Panel) SetButton(b Button, pressed bool) bool {
	if b < 0 || b >= NumButtons {
		return false
	}
	pan.buttons[b].Store(pressed)
	return true
}

// ButtonState returns true if the button is held. Unknown buttons are never
// held.
func (pan *Panel) ButtonState(b Button) bool {
	if b < 0 || b >= NumButtons {
		return false
	}
	return pan.buttons[b].Load()
}

// ButtonMask returns the state of all buttons as a bitmask. Bit N is set if
// button N is held.
func (pan *Panel) ButtonMask() uint32 {
	var m uint32
	for b := range NumButtons {
		if pan.buttons[b].Load() {
			m |= 1 << b
		}
	}
	return m
}

// Rotate queues rotation steps for an encoder. Positive values are clockwise.
// Returns false if the encoder does not exist.
func (pan *Panel) Rotate(e Encoder, delta int) bool {
	if e < 0 || e >= NumEncoders {
		return false
	}
	pan.pending[e].Add(int32(delta))
	return true
}

// Pending returns the rotation steps not yet consumed by a scan.
func (pan *Panel) Pending(e Encoder) int {
	if e < 0 || e >= NumEncoders {
		return 0
	}
	return int(pan.pending[e].Load())
}

// Phase returns the current 2-bit Gray code output of an encoder.
func (pan *Panel) Phase(e Encoder) uint8 {
	if e < 0 || e >= NumEncoders {
		return 0
	}
	return grayCode[pan.phase[e].Load()&3]
}

// step consumes one pending step of rotation, if there is one.
func (pan *Panel) step(e Encoder) {
	for {
		p := pan.pending[e].Load()
		if p == 0 {
			return
		}

		dir := int32(1)
		if p < 0 {
			dir = -1
		}

		// rotation may be added by another goroutine between the load and
		// the swap
		if pan.pending[e].CompareAndSwap(p, p-dir) {
			pan.phase[e].Add(uint32(dir))
			return
		}
	}
}

// Scan returns the value read from a bank. If due is true then each encoder
// in an encoder bank consumes at most one step of pending rotation before its
// phase is reported. Each encoder occupies two bits.
func (pan *Panel) Scan(addr ScanAddress, due bool) uint8 {
	var v uint8

	switch addr {
	case Buttons0, Buttons1:
		first := Button(int(addr-Buttons0) * buttonsPerBank)
		for i := range buttonsPerBank {
			if pan.buttons[first+Button(i)].Load() {
				v |= 1 << i
			}
		}

	case Encoders0, Encoders1:
		first := Encoder(int(addr-Encoders0) * encodersPerBank)
		for i := range encodersPerBank {
			e := first + Encoder(i)
			if due {
				pan.step(e)
			}
			v |= pan.Phase(e) << (i * 2)
		}
	}

	return v
}

// Process services the panel's side of the bus. The power button is
// reflected on port E and, if a bank is selected by the value written to port
// E, that bank is scanned and the result made available on port GP.
//
// Encoders step only if port E has been written to since the previous call.
// Returns true if a bank was selected.
func (pan *Panel) Process(gp Port, e Port) bool {
	w := e.WriteCounter()
	due := w != pan.writeCounter
	pan.writeCounter = w

	e.SetInputBit(PortEPower, !pan.buttons[ButtonPower].Load())

	cs := e.Latch()
	for addr := range NumScanAddresses {
		if cs&(1<<addr.ChipSelect()) == 0 {
			gp.SetInput(pan.Scan(addr, due))
			return true
		}
	}

	return false
}
