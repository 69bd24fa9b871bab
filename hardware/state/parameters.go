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

// GlobalParameter is the index of a named parameter in the Global dump.
type GlobalParameter int

// List of named Global parameters. Indexes not named here are reserved.
const (
	GlobalVersion           GlobalParameter = 0
	GlobalTuning            GlobalParameter = 5
	GlobalTranspose         GlobalParameter = 6
	GlobalControllerSend    GlobalParameter = 7
	GlobalControllerReceive GlobalParameter = 8
	GlobalArpSend           GlobalParameter = 15
	GlobalClock             GlobalParameter = 19
	GlobalMidiChannel       GlobalParameter = 24
	GlobalSysExDeviceID     GlobalParameter = 25
	GlobalLocalControl      GlobalParameter = 26
	GlobalPopupTime         GlobalParameter = 27
	GlobalLabelTime         GlobalParameter = 28
	GlobalDisplayContrast   GlobalParameter = 29
)

var globalNames = map[GlobalParameter]string{
	GlobalVersion:           "version",
	GlobalTuning:            "tuning",
	GlobalTranspose:         "transpose",
	GlobalControllerSend:    "controller send",
	GlobalControllerReceive: "controller receive",
	GlobalArpSend:           "arp send",
	GlobalClock:             "clock",
	GlobalMidiChannel:       "midi channel",
	GlobalSysExDeviceID:     "sysex device id",
	GlobalLocalControl:      "local control",
	GlobalPopupTime:         "popup time",
	GlobalLabelTime:         "label time",
	GlobalDisplayContrast:   "display contrast",
}

func (p GlobalParameter) String() string {
	if n, ok := globalNames[p]; ok {
		return n
	}
	return "reserved"
}

// ModeParameter is the index of a named parameter in the Mode dump.
type ModeParameter int

// The Mode dump has only one parameter. Non-zero means multi mode.
const ModePlayMode ModeParameter = 0

// Global returns the value of a named Global parameter.
func (st *State) Global(p GlobalParameter) uint8 {
	return st.global[Dumps[Global].FirstParam+int(p)]
}

// SetGlobal changes a named Global parameter.
func (st *State) SetGlobal(p GlobalParameter, v uint8) bool {
	return st.setParameter(Global, st.global[:], int(p), v)
}

// Mode returns the value of a named Mode parameter.
func (st *State) Mode(p ModeParameter) uint8 {
	return st.mode[Dumps[Mode].FirstParam+int(p)]
}

// SetMode changes a named Mode parameter. Changing between single and multi
// mode raises the play mode notice.
func (st *State) SetMode(p ModeParameter, v uint8) bool {
	return st.setParameter(Mode, st.mode[:], int(p), v)
}

// SetMultiMode switches between single and multi mode.
func (st *State) SetMultiMode(multi bool) bool {
	var v uint8
	if multi {
		v = 1
	}
	return st.SetMode(ModePlayMode, v)
}
