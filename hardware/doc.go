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

// Package hardware is the base package for the synthesizer emulation. It and
// its sub-packages contain everything required for a headless emulation.
//
// The Device type is the root of the emulation. It owns the display, the
// front panel, the parameter memory, the control unit and the link to the
// signal-processing peer.
//
// Two goroutines drive a Device. The control unit runs continuously in a
// goroutine started by NewDevice(). The caller drives the audio by calling
// Process() regularly, from an audio callback or a timer. The control unit
// waits on the peer and the peer only advances when audio is processed, so
// a device whose audio is not being processed will eventually stop making
// progress.
//
// Changes made by the control unit are published as dirty flags, which can
// be collected with DrainDirtyFlags() or DrainMidiOut().
package hardware
