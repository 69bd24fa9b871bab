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

// Package state is the device's parameter memory and the state machine that
// reads and writes it through system exclusive messages.
//
// Parameters are held as dumps, fixed size byte buffers in exactly the form
// they are sent over MIDI. There are four types of dump. A Single is one
// sound, a Multi is an arrangement of eight Singles, Global holds device wide
// settings and Mode holds the play mode. The layout of each dump type is
// described by the Dumps table and all dump handling is driven by that table.
//
// The device holds 256 ROM Singles (two banks of 128), 128 ROM Multis, eight
// Single edit buffers for the parts of a multi, one Single edit buffer for
// single mode, one Multi edit buffer, and one each of Global and Mode.
//
// Every stored buffer carries its own location in its header and a correct
// checksum. A dump returned by RequestDump() can therefore be passed back to
// Parse() and will be written back to the same buffer, unchanged.
//
// Malformed messages and out of range addresses are ignored. They never
// produce a response and never mutate a buffer.
package state
