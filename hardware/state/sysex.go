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

package state

// Envelope bytes and manufacturer/product identification.
const (
	SysexBegin = 0xf0
	SysexEnd   = 0xf7

	IDWaldorf = 0x3e
	IDProduct = 0x0e
)

// Indexes into a system exclusive message.
const (
	IdxSysexBegin = 0
	IdxIDWaldorf  = 1
	IdxIDProduct  = 2
	IdxDeviceID   = 3
	IdxCommand    = 4
	IdxBuffer     = 5
	IdxLocation   = 6
)

// MinMessageSize is the size of the smallest message that can be
// interpreted. Anything shorter is malformed.
const MinMessageSize = 5

// Command is the command byte of a message.
type Command uint8

// List of commands understood by the state machine.
const (
	SingleRequest Command = 0x00
	MultiRequest  Command = 0x01
	GlobalRequest Command = 0x04
	ModeRequest   Command = 0x07

	SingleDump Command = 0x10
	MultiDump  Command = 0x11
	GlobalDump Command = 0x14
	ModeDump   Command = 0x17

	SingleParameterChange Command = 0x20
	MultiParameterChange  Command = 0x21
	GlobalParameterChange Command = 0x24
	ModeParameterChange   Command = 0x27
)

// Buffer selectors found at IdxBuffer of Single and Multi dumps and requests.
const (
	BufferRomA = 0x00
	BufferRomB = 0x01

	// the edit buffer used in single mode. for Multi dumps this is the Multi
	// edit buffer
	BufferEdit = 0x20

	// the Single edit buffers of the eight parts of the multi. the location
	// byte is the part number
	BufferMultiEdit = 0x30
)

// Location addresses one Single or Multi buffer.
type Location struct {
	Buffer uint8
	Index  uint8
}

// Header returns the first bytes of a message for the command.
func Header(deviceID uint8, cmd Command) []byte {
	return []byte{SysexBegin, IDWaldorf, IDProduct, deviceID & 0x7f, uint8(cmd)}
}

// IsOurs returns true if the message has the correct framing and
// manufacturer/product bytes.
func IsOurs(msg []byte) bool {
	if len(msg) < MinMessageSize {
		return false
	}
	return msg[IdxSysexBegin] == SysexBegin && msg[IdxIDWaldorf] == IDWaldorf && msg[IdxIDProduct] == IDProduct
}

// Request builds a dump request message. The location is ignored for Global
// and Mode requests.
func Request(deviceID uint8, typ DumpType, loc Location) []byte {
	d := Dumps[typ]
	m := Header(deviceID, d.CmdRequest)
	if d.addressed() {
		m = append(m, loc.Buffer&0x7f, loc.Index&0x7f)
	}
	return append(m, SysexEnd)
}

// ParameterChange builds a parameter change message. The part is only used
// by Single parameter changes, where it selects the part of the multi.
func ParameterChange(deviceID uint8, typ DumpType, part uint8, index int, value uint8) []byte {
	d := Dumps[typ]
	m := Header(deviceID, d.CmdParamChange)
	if typ == Single {
		m = append(m, part&0x7f)
	}
	m = append(m, uint8(index>>7)&0x7f, uint8(index)&0x7f, value&0x7f)
	return append(m, SysexEnd)
}
