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
	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/logger"
)

// MissingImage is the error pattern returned by Initialise() when a required
// factory image is not present.
const MissingImage = "state: factory image missing: %s"

// Initialise resets the state and fills it from the factory images. Frames
// that are not dumps are ignored.
//
// The Global and Mode dumps, the first Single of ROM bank A and the first
// Multi are required. Any buffer not supplied by the images is filled with a
// copy of the first Single or the first Multi, as appropriate.
func (st *State) Initialise(frames [][]byte) error {
	*st = State{env: st.env, pub: st.pub, fwd: st.fwd}

	var parsed int
	for _, f := range frames {
		if !IsOurs(f) {
			continue
		}
		d, ok := DumpForCommand(Command(f[IdxCommand]))
		if !ok {
			continue
		}
		if st.Parse(d.Type, f, Device) {
			parsed++
		}
	}

	logger.Logf(st.env, "state", "%d of %d factory frames accepted", parsed, len(frames))

	if !Dumps[Global].IsValid(st.global[:]) {
		return curated.Errorf(MissingImage, Global)
	}
	if !Dumps[Mode].IsValid(st.mode[:]) {
		return curated.Errorf(MissingImage, Mode)
	}
	if !Dumps[Single].IsValid(st.romSingles[0][:]) {
		return curated.Errorf(MissingImage, "first single of rom bank a")
	}
	if !Dumps[Multi].IsValid(st.romMultis[0][:]) {
		return curated.Errorf(MissingImage, "first multi")
	}

	for i := range st.romSingles {
		loc := Location{Buffer: BufferRomA, Index: uint8(i)}
		if i >= BankSize {
			loc = Location{Buffer: BufferRomB, Index: uint8(i - BankSize)}
		}
		st.fill(Single, st.romSingles[i][:], st.romSingles[0][:], loc)
	}
	for i := range st.romMultis {
		st.fill(Multi, st.romMultis[i][:], st.romMultis[0][:], Location{Buffer: BufferRomA, Index: uint8(i)})
	}
	for i := range st.multiSingles {
		st.fill(Single, st.multiSingles[i][:], st.romSingles[i][:], Location{Buffer: BufferMultiEdit, Index: uint8(i)})
	}
	st.fill(Single, st.instrumentSingle[:], st.romSingles[0][:], Location{Buffer: BufferEdit})
	st.fill(Multi, st.multi[:], st.romMultis[0][:], Location{Buffer: BufferEdit})

	return nil
}

// fill copies src to dst if dst has not been filled. The copy is relocated
// so that the header addresses dst.
func (st *State) fill(typ DumpType, dst []byte, src []byte, loc Location) {
	d := Dumps[typ]
	if d.IsValid(dst) {
		return
	}
	copy(dst, src)
	dst[IdxBuffer] = loc.Buffer
	dst[IdxLocation] = loc.Index
	d.UpdateChecksum(dst)
}

// InitImage returns a complete set of factory frames containing init sounds.
// Every ROM location is filled.
func InitImage(deviceID uint8) [][]byte {
	frames := make([][]byte, 0, NumRomSingles+NumRomMultis+2)

	for i := range NumRomSingles {
		loc := Location{Buffer: BufferRomA, Index: uint8(i)}
		if i >= BankSize {
			loc = Location{Buffer: BufferRomB, Index: uint8(i - BankSize)}
		}
		frames = append(frames, NewDump(deviceID, Single, loc, nil))
	}

	for i := range NumRomMultis {
		frames = append(frames, NewDump(deviceID, Multi, Location{Buffer: BufferRomA, Index: uint8(i)}, nil))
	}

	global := make([]byte, Dumps[Global].NumParams())
	global[GlobalTuning] = 64
	global[GlobalMidiChannel] = 1
	global[GlobalSysExDeviceID] = deviceID & 0x7f
	global[GlobalLocalControl] = 1
	global[GlobalPopupTime] = 20
	global[GlobalLabelTime] = 20
	global[GlobalDisplayContrast] = 64
	frames = append(frames, NewDump(deviceID, Global, Location{}, global))

	frames = append(frames, NewDump(deviceID, Mode, Location{}, nil))

	return frames
}
