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

// Package romloader supplies the factory images used to initialise the
// parameter memory of a device. An image is a series of sysex dump frames,
// stored either as a raw sysex file or as the sysex events of a Standard MIDI
// File.
//
// Load() chooses the format from the file extension. Save() writes an image
// in either format and is used to create an init image from
// state.InitImage().
package romloader
