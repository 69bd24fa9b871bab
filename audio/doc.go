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

// Package audio contains the drivers of the audio-rate context of a device.
//
// Pump calls the device's Process() function from a timer, at roughly the rate
// that real audio hardware would. Player calls it from the callback of the oto
// library, and so plays the output of the device through the sound card of the
// host. Only one driver should be used with a device at any one time.
//
// Both drivers read their input from an Input, which can be loaded from a WAV
// or MP3 file with LoadInput(), and pass their output to an optional Sink.
// The wavwriter package provides a Sink.
package audio
