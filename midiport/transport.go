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

package midiport

// Transport is implemented by the types in the midiport package.
type Transport interface {
	// Listen starts delivering inbound messages to the function. The
	// function is called from a goroutine owned by the transport
	Listen(func(msg []byte)) error

	// Send writes one complete message
	Send(msg []byte) error

	// Close stops listening and releases the transport
	Close() error

	String() string
}

// Error patterns returned by the midiport package.
const (
	NoSuchPort    = "midiport: no such port: %s"
	PortError     = "midiport: %v"
	AlreadyListen = "midiport: already listening"
)
