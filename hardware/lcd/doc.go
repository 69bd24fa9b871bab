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

// Package lcd emulates the 2x20 character display of the device. The
// controller is HD44780 compatible and the emulation is of its internal
// memory and command set, not of its pixels.
//
// The display is driven through the single Exec() function, which models
// one access to the controller's bus: the register select line chooses
// between the instruction register and the data register, and the read line
// chooses the direction of the transfer.
//
// Display memory is 40 characters, twenty for each line. The controller's
// address counter uses the usual HD44780 layout of 0x00 to 0x27 for the first
// line and 0x40 to 0x67 for the second. Only the first twenty addresses of
// each line are visible. Writes to addresses beyond the twentieth column are
// clamped to the last visible column of the same line.
//
// Custom character memory is 64 bytes, eight bytes for each of the eight
// custom characters.
//
// State changes are published through a dirty.Publisher. Every state
// changing access publishes dirty.Lcd. Writes to custom character memory also
// publish dirty.LcdCgRam.
package lcd
