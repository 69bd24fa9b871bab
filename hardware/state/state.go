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

import (
	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/logger"
	"github.com/jetsetilly/gophersynth/notifications"
)

// Origin is the side a message arrived from.
type Origin int

// List of valid Origin values.
const (
	// the message came from outside the device. for example, an editor
	// connected to the MIDI input
	External Origin = iota

	// the message was produced by the device itself
	Device
)

func (o Origin) String() string {
	if o == Device {
		return "device"
	}
	return "external"
}

// Number of buffers of each kind.
const (
	NumRomSingles   = 256
	NumRomMultis    = 128
	NumMultiSingles = 8
	BankSize        = 128
)

// Forwarder receives parameter changes and edit buffer dumps that arrived
// from outside the device so that they can be passed on to the control
// unit.
type Forwarder interface {
	Forward(msg []byte)
}

// State is the parameter memory of the device. It is not safe for concurrent
// use. The owning device serialises access.
type State struct {
	env *environment.Environment
	pub dirty.Publisher
	fwd Forwarder

	romSingles       [NumRomSingles][SingleSize]byte
	romMultis        [NumRomMultis][MultiSize]byte
	multiSingles     [NumMultiSingles][SingleSize]byte
	instrumentSingle [SingleSize]byte
	multi            [MultiSize]byte
	global           [GlobalSize]byte
	mode             [ModeSize]byte
}

// NewState is the preferred method of initialisation for the State type.
// The state is empty until Initialise() is called with factory images. The
// publisher and forwarder can both be nil.
func NewState(env *environment.Environment, pub dirty.Publisher, fwd Forwarder) *State {
	return &State{
		env: env,
		pub: pub,
		fwd: fwd,
	}
}

func (st *State) publish(f dirty.Flags) {
	if st.pub != nil {
		st.pub.Publish(f)
	}
}

func (st *State) deviceID() uint8 {
	return uint8(st.env.Prefs.DeviceID.Get().(int))
}

// IsMultiMode returns true if the device is in multi mode.
func (st *State) IsMultiMode() bool {
	return st.mode[Dumps[Mode].FirstParam+int(ModePlayMode)] != 0
}

// single returns the Single buffer at the location or nil if the location
// is not mapped.
func (st *State) single(loc Location) []byte {
	switch loc.Buffer {
	case BufferRomA:
		if loc.Index < BankSize {
			return st.romSingles[loc.Index][:]
		}
	case BufferRomB:
		if loc.Index < BankSize {
			return st.romSingles[BankSize+int(loc.Index)][:]
		}
	case BufferEdit:
		return st.instrumentSingle[:]
	case BufferMultiEdit:
		if loc.Index < NumMultiSingles {
			return st.multiSingles[loc.Index][:]
		}
	}
	return nil
}

func (st *State) multiBuffer(loc Location) []byte {
	switch loc.Buffer {
	case BufferRomA:
		if loc.Index < NumRomMultis {
			return st.romMultis[loc.Index][:]
		}
	case BufferEdit:
		return st.multi[:]
	}
	return nil
}

// buffer returns the stored buffer for the dump type and location. The
// location is ignored for Global and Mode.
func (st *State) buffer(typ DumpType, loc Location) []byte {
	switch typ {
	case Single:
		return st.single(loc)
	case Multi:
		return st.multiBuffer(loc)
	case Global:
		return st.global[:]
	case Mode:
		return st.mode[:]
	}
	return nil
}

// activeSingle returns the Single edit buffer that is currently being
// played by the part. In single mode the part is ignored.
func (st *State) activeSingle(part uint8) []byte {
	if !st.IsMultiMode() {
		return st.instrumentSingle[:]
	}
	if part >= NumMultiSingles {
		return nil
	}
	return st.multiSingles[part][:]
}

// ActiveSingles returns the locations of the Single edit buffers that are
// currently being played.
func (st *State) ActiveSingles() []Location {
	if !st.IsMultiMode() {
		return []Location{{Buffer: BufferEdit}}
	}
	locs := make([]Location, NumMultiSingles)
	for i := range locs {
		locs[i] = Location{Buffer: BufferMultiEdit, Index: uint8(i)}
	}
	return locs
}

// RequestDump returns a copy of the addressed buffer, ready to send. The
// second return value is false if the location is not mapped or if the
// buffer has never been filled.
func (st *State) RequestDump(typ DumpType, loc Location) ([]byte, bool) {
	if typ < 0 || typ >= NumDumpTypes {
		return nil, false
	}

	d := Dumps[typ]

	buf := st.buffer(typ, loc)
	if buf == nil || !d.IsValid(buf) {
		return nil, false
	}

	d.UpdateChecksum(buf)

	resp := make([]byte, len(buf))
	copy(resp, buf)
	return resp, true
}

// Parse accepts a complete dump and writes it to the buffer addressed by the
// dump. It returns false, without changing anything, if the length, framing
// marker or checksum is wrong or if the addressed location is not mapped.
func (st *State) Parse(typ DumpType, data []byte, origin Origin) bool {
	if typ < 0 || typ >= NumDumpTypes {
		return false
	}

	d := Dumps[typ]

	if !d.IsValid(data) {
		return false
	}
	if !d.VerifyChecksum(data) {
		logger.Logf(st.env, "state", "%s dump: bad checksum", typ)
		return false
	}

	var loc Location
	if d.addressed() {
		loc = Location{Buffer: data[IdxBuffer], Index: data[IdxLocation]}
	}

	buf := st.buffer(typ, loc)
	if buf == nil {
		logger.Logf(st.env, "state", "%s dump: unmapped location %02x:%02x", typ, loc.Buffer, loc.Index)
		return false
	}

	multiMode := st.IsMultiMode()
	copy(buf, data)
	st.committed(typ, multiMode)

	if origin == External && st.isEditBuffer(typ, loc) && st.fwd != nil {
		st.fwd.Forward(data)
	}

	return true
}

func (st *State) isEditBuffer(typ DumpType, loc Location) bool {
	switch typ {
	case Single:
		return loc.Buffer == BufferEdit || loc.Buffer == BufferMultiEdit
	case Multi:
		return loc.Buffer == BufferEdit
	}
	return true
}

// committed is called after any change to a buffer of the dump type.
func (st *State) committed(typ DumpType, wasMultiMode bool) {
	switch typ {
	case Single:
		st.publish(dirty.Single)
	case Multi:
		st.publish(dirty.Multi)
	case Global:
		st.publish(dirty.Global)
	case Mode:
		st.publish(dirty.Mode)
		if wasMultiMode != st.IsMultiMode() {
			logger.Logf(st.env, "state", "play mode: multi=%v", st.IsMultiMode())
			err := st.env.Notice(notifications.NotifyPlayModeChanged)
			if err != nil {
				logger.Log(st.env, "state", err.Error())
			}
		}
	}
}

// SetParameter changes one byte of the parameter area of a buffer. The
// index is relative to the first parameter of the dump. Returns false, with
// no change, if the location is not mapped or the index is out of range.
func (st *State) SetParameter(typ DumpType, loc Location, index int, value uint8) bool {
	if typ < 0 || typ >= NumDumpTypes {
		return false
	}
	return st.setParameter(typ, st.buffer(typ, loc), index, value)
}

func (st *State) setParameter(typ DumpType, buf []byte, index int, value uint8) bool {
	d := Dumps[typ]

	if buf == nil || !d.IsValid(buf) {
		return false
	}
	if index < 0 || index >= d.NumParams() {
		return false
	}

	multiMode := st.IsMultiMode()
	buf[d.FirstParam+index] = value
	d.UpdateChecksum(buf)
	st.committed(typ, multiMode)

	return true
}

// ApplyParameterChange interprets a parameter change message. Single
// parameter changes are applied to the active Single edit buffer of the
// part given in the message. Returns false if the message was not applied.
func (st *State) ApplyParameterChange(typ DumpType, msg []byte, origin Origin) bool {
	if typ < 0 || typ >= NumDumpTypes {
		return false
	}

	d := Dumps[typ]

	if !d.IsParamChange(msg) {
		logger.Logf(st.env, "state", "%s parameter change: malformed", typ)
		return false
	}

	index := int(msg[d.IdxParamH])<<7 | int(msg[d.IdxParamL])
	value := msg[d.IdxParamValue]

	var buf []byte
	switch typ {
	case Single:
		buf = st.activeSingle(msg[IdxBuffer])
	default:
		buf = st.buffer(typ, Location{Buffer: BufferEdit})
	}

	if !st.setParameter(typ, buf, index, value) {
		logger.Logf(st.env, "state", "%s parameter change: index %d ignored", typ, index)
		return false
	}

	if origin == External && st.fwd != nil {
		st.fwd.Forward(msg)
	}

	return true
}

// Receive is the entry point for system exclusive messages addressed to the
// state machine. It returns zero or more responses and whether the message
// was understood.
//
// Malformed messages are not understood and change nothing. Requests for
// unmapped locations are understood but produce no response.
func (st *State) Receive(msg []byte, origin Origin) ([][]byte, bool) {
	if !IsOurs(msg) || msg[len(msg)-1] != SysexEnd {
		return nil, false
	}

	cmd := Command(msg[IdxCommand])

	for _, d := range Dumps {
		switch cmd {
		case d.CmdRequest:
			if !d.IsRequest(msg) {
				return nil, false
			}
			var loc Location
			if d.addressed() {
				loc = Location{Buffer: msg[IdxBuffer], Index: msg[IdxLocation]}
			}
			resp, ok := st.RequestDump(d.Type, loc)
			if !ok {
				return nil, true
			}
			return [][]byte{resp}, true

		case d.CmdDump:
			return nil, st.Parse(d.Type, msg, origin)

		case d.CmdParamChange:
			if !d.IsParamChange(msg) {
				return nil, false
			}
			st.ApplyParameterChange(d.Type, msg, origin)
			return nil, true
		}
	}

	return nil, false
}
