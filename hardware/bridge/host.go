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

package bridge

// Bits of the interface control register written by the control side.
const (
	ICRHF0 uint8 = 1 << 3
	ICRHF1 uint8 = 1 << 4
)

// Bits of the interface status register read by the control side.
const (
	ISRRXDF uint8 = 1 << 0
	ISRTXDE uint8 = 1 << 1
	ISRHF2  uint8 = 1 << 3
	ISRHF3  uint8 = 1 << 4
)

// HostFlagMask selects the host flag bits of the control and status
// registers.
const HostFlagMask uint8 = 0x18

// HostPort is the control side of the link.
type HostPort struct {
	icr uint8
	isr uint8
	rx  uint32
}

// NewHostPort is the preferred method of initialisation for the HostPort
// type.
func NewHostPort() *HostPort {
	return &HostPort{
		isr: ISRTXDE,
	}
}

// ICR returns the interface control register.
func (h *HostPort) ICR() uint8 {
	return h.icr
}

// SetICR writes the interface control register.
func (h *HostPort) SetICR(v uint8) {
	h.icr = v
}

// SetHostFlag sets or clears HF0 or HF1.
func (h *HostPort) SetHostFlag(flag uint8, on bool) {
	if on {
		h.icr |= flag & HostFlagMask
	} else {
		h.icr &^= flag & HostFlagMask
	}
}

// CanReceive returns true if the receive register is empty.
func (h *HostPort) CanReceive() bool {
	return h.isr&ISRRXDF == 0
}

func (h *HostPort) write(word uint32) {
	h.rx = word
	h.isr |= ISRRXDF
}

// Read takes the word from the receive register. The second return value is
// false if the register is empty.
func (h *HostPort) Read() (uint32, bool) {
	if h.isr&ISRRXDF == 0 {
		return 0, false
	}
	h.isr &^= ISRRXDF
	return h.rx, true
}

func (h *HostPort) reset() {
	h.isr = ISRTXDE
	h.rx = 0
}
