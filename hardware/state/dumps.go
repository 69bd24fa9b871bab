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

// DumpType is one of the four types of parameter dump.
type DumpType int

// List of valid DumpType values.
const (
	Single DumpType = iota
	Multi
	Global
	Mode

	NumDumpTypes
)

func (t DumpType) String() string {
	switch t {
	case Single:
		return "single"
	case Multi:
		return "multi"
	case Global:
		return "global"
	case Mode:
		return "mode"
	}
	return "unknown"
}

// DumpTypeFromString returns the dump type with the specified name.
func DumpTypeFromString(s string) (DumpType, bool) {
	for t := range NumDumpTypes {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// Marker describes how a buffer is recognised as valid.
type Marker int

// List of valid Marker values.
const (
	// the first byte must be SysexBegin
	MarkerFirst Marker = iota

	// the last byte must be SysexEnd
	MarkerLast
)

// Dump describes the layout of one dump type.
type Dump struct {
	Type DumpType

	CmdRequest     Command
	CmdDump        Command
	CmdParamChange Command

	// index of the first parameter in the dump
	FirstParam int

	// indexes of the parameter index (high and low seven bits) and value in
	// a parameter change message
	IdxParamH     int
	IdxParamL     int
	IdxParamValue int

	Size int

	// Mode dumps carry no checksum
	Checksummed bool

	Marker Marker
}

// Dumps is the table of dump layouts, indexed by DumpType.
var Dumps = [NumDumpTypes]Dump{
	{Type: Single, CmdRequest: SingleRequest, CmdDump: SingleDump, CmdParamChange: SingleParameterChange,
		FirstParam: 7, IdxParamH: 6, IdxParamL: 7, IdxParamValue: 8, Size: SingleSize, Checksummed: true, Marker: MarkerFirst},
	{Type: Multi, CmdRequest: MultiRequest, CmdDump: MultiDump, CmdParamChange: MultiParameterChange,
		FirstParam: 7, IdxParamH: 5, IdxParamL: 6, IdxParamValue: 7, Size: MultiSize, Checksummed: true, Marker: MarkerFirst},
	{Type: Global, CmdRequest: GlobalRequest, CmdDump: GlobalDump, CmdParamChange: GlobalParameterChange,
		FirstParam: 5, IdxParamH: 5, IdxParamL: 6, IdxParamValue: 7, Size: GlobalSize, Checksummed: true, Marker: MarkerLast},
	{Type: Mode, CmdRequest: ModeRequest, CmdDump: ModeDump, CmdParamChange: ModeParameterChange,
		FirstParam: 5, IdxParamH: 5, IdxParamL: 6, IdxParamValue: 7, Size: ModeSize, Checksummed: false, Marker: MarkerFirst},
}

// Dump sizes in bytes.
const (
	SingleSize = 265
	MultiSize  = 265
	GlobalSize = 39
	ModeSize   = 7
)

// ChecksumIdx is the index of the checksum byte. Only meaningful if the dump
// is checksummed.
func (d Dump) ChecksumIdx() int {
	return d.Size - 2
}

// NumParams is the number of parameter bytes in the dump.
func (d Dump) NumParams() int {
	end := d.Size - 1
	if d.Checksummed {
		end = d.ChecksumIdx()
	}
	return end - d.FirstParam
}

// addressed returns true if dumps of this type carry a location.
func (d Dump) addressed() bool {
	return d.Type == Single || d.Type == Multi
}

// IsRequest returns true if msg is a complete request for the dump type.
// Addressed requests must carry both location bytes.
func (d Dump) IsRequest(msg []byte) bool {
	n := IdxCommand + 2
	if d.addressed() {
		n = IdxLocation + 2
	}
	return framed(msg, n)
}

// IsParamChange returns true if msg is a complete parameter change message
// for the dump type.
func (d Dump) IsParamChange(msg []byte) bool {
	return framed(msg, d.IdxParamValue+2)
}

// framed returns true if msg is at least n bytes long, begins and ends with
// the sysex framing bytes and carries only 7-bit data in between.
func framed(msg []byte, n int) bool {
	if len(msg) < n || msg[0] != SysexBegin || msg[len(msg)-1] != SysexEnd {
		return false
	}
	for _, b := range msg[1 : len(msg)-1] {
		if b&0x80 != 0 {
			return false
		}
	}
	return true
}

// IsValid checks the framing marker of a buffer.
func (d Dump) IsValid(buf []byte) bool {
	if len(buf) != d.Size {
		return false
	}
	if d.Marker == MarkerLast {
		return buf[len(buf)-1] == SysexEnd
	}
	return buf[0] == SysexBegin
}

// Checksum returns the 7-bit sum of the bytes from the command byte to the
// byte before the checksum.
func Checksum(buf []byte) uint8 {
	var c uint8
	for _, b := range buf[IdxCommand : len(buf)-2] {
		c += b
	}
	return c & 0x7f
}

// UpdateChecksum recomputes the checksum of a buffer. Calling it more than
// once has no further effect.
func (d Dump) UpdateChecksum(buf []byte) {
	if !d.Checksummed || len(buf) != d.Size {
		return
	}
	buf[d.ChecksumIdx()] = Checksum(buf)
}

// VerifyChecksum returns true if the checksum byte of a buffer is correct.
// Buffers of types that are not checksummed always verify.
func (d Dump) VerifyChecksum(buf []byte) bool {
	if !d.Checksummed {
		return true
	}
	if len(buf) != d.Size {
		return false
	}
	return buf[d.ChecksumIdx()] == Checksum(buf)
}

// DumpForCommand returns the dump layout that uses the command. The second
// return value is false if the command is not a dump command.
func DumpForCommand(cmd Command) (Dump, bool) {
	for _, d := range Dumps {
		if d.CmdDump == cmd {
			return d, true
		}
	}
	return Dump{}, false
}

// NewDump builds a valid dump of the specified type. The parameter bytes are
// copied to the parameter area of the dump and any parameters not supplied
// are zero. The location is ignored for Global and Mode dumps.
func NewDump(deviceID uint8, typ DumpType, loc Location, params []byte) []byte {
	d := Dumps[typ]

	buf := make([]byte, d.Size)
	copy(buf, Header(deviceID, d.CmdDump))
	if d.addressed() {
		buf[IdxBuffer] = loc.Buffer
		buf[IdxLocation] = loc.Index
	}

	n := min(len(params), d.NumParams())
	copy(buf[d.FirstParam:d.FirstParam+n], params)

	buf[d.Size-1] = SysexEnd
	d.UpdateChecksum(buf)

	return buf
}
