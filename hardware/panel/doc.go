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

// Package panel emulates the front panel of the device: sixteen buttons
// arranged as two banks of eight, a power button, eight rotary encoders
// arranged as two banks of four, and the LEDs.
//
// The control unit reads the panel by selecting one of the four banks with
// an active-low chip select on port E and reading the result from port GP.
// Process() is the bus-level entry point. Scan() is the same operation for a
// bank chosen directly.
//
// Encoders are quadrature devices. A rotation requested with Rotate() is not
// applied immediately. Instead, each scan of the encoder's bank consumes at
// most one step of the pending rotation, and only if the control unit has
// written to port E since the previous scan. The encoder's 2-bit phase
// follows the Gray code sequence 00, 10, 11, 01 for positive rotation and the
// reverse for negative rotation. N queued steps therefore produce exactly N
// phase transitions over N qualifying scans.
//
// Button state and pending rotation can be changed from any goroutine. Scans
// are performed by the driving goroutine only.
package panel
