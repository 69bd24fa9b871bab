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

// Package prefs facilitates the storage of preferential values. Values are
// of the types Bool, Int, Float or String. Each type stores its value
// atomically so it is safe to Get() from one goroutine while another Set()s.
//
// Values are collated by a Disk instance which saves and loads them as
// key/value pairs, one per line:
//
//	hardware.deviceid :: 0
//	hardware.samplerate :: 44100
//
// Keys in the file that are not registered with the Disk are preserved when
// the Disk is saved. This allows more than one Disk to share the same file.
//
// Preferences can also be overridden from the command line with the
// PushCommandLineStack() function. A Disk consults the top of the stack when
// it loads.
package prefs
