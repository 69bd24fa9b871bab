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

// Package midiport connects a device to the outside world. Two transports are
// provided: Ports, which uses the rtmidi driver to open the MIDI ports of the
// host system, and Serial, which reads and writes a raw MIDI byte stream on a
// tty.
//
// Both transports implement the Transport interface. Messages are delivered
// to the listener whole: a system exclusive message arrives as a single
// message, from the begin byte to the end byte.
package midiport
