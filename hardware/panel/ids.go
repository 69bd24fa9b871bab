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

package panel

// Button identifies a button on the front panel.
type Button int

// List of buttons. The first eight are bank zero and the next eight are bank
// one. The power button is not part of either bank.
const (
	ButtonMulti Button = iota
	ButtonEdit
	ButtonSound
	ButtonGlobal
	ButtonShift
	ButtonPlay
	ButtonPeek
	ButtonStore

	ButtonLeft
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonInst1
	ButtonInst2
	ButtonInst3
	ButtonInst4

	ButtonPower

	NumButtons
)

// number of buttons in each scanned bank.
const buttonsPerBank = 8

var buttonNames = [NumButtons]string{
	"MULTI", "EDIT", "SOUND", "GLOBAL", "SHIFT", "PLAY", "PEEK", "STORE",
	"LEFT", "RIGHT", "UP", "DOWN", "INST1", "INST2", "INST3", "INST4",
	"POWER",
}

func (b Button) String() string {
	if b < 0 || b >= NumButtons {
		return "unknown button"
	}
	return buttonNames[b]
}

// ButtonFromString returns the button with the specified name. Case
// sensitive.
func ButtonFromString(s string) (Button, bool) {
	for i, n := range buttonNames {
		if n == s {
			return Button(i), true
		}
	}
	return 0, false
}

// Encoder identifies a rotary encoder on the front panel.
type Encoder int

// List of encoders. The first four are bank zero and the next four are bank
// one.
const (
	EncoderMatrix1 Encoder = iota
	EncoderMatrix2
	EncoderMatrix3
	EncoderMatrix4
	EncoderLcdLeft
	EncoderLcdRight
	EncoderValue
	EncoderMaster

	NumEncoders
)

// number of encoders in each scanned bank.
const encodersPerBank = 4

var encoderNames = [NumEncoders]string{
	"MATRIX1", "MATRIX2", "MATRIX3", "MATRIX4", "LCDLEFT", "LCDRIGHT", "VALUE", "MASTER",
}

func (e Encoder) String() string {
	if e < 0 || e >= NumEncoders {
		return "unknown encoder"
	}
	return encoderNames[e]
}

// EncoderFromString returns the encoder with the specified name. Case
// sensitive.
func EncoderFromString(s string) (Encoder, bool) {
	for i, n := range encoderNames {
		if n == s {
			return Encoder(i), true
		}
	}
	return 0, false
}

// Led identifies an LED on the front panel.
type Led int

// List of LEDs.
const (
	LedPower Led = iota
	LedMulti
	LedEdit
	LedSound
	LedGlobal
	LedShift
	LedPlay
	LedPeek
	LedStore
	LedInst1
	LedInst2
	LedInst3
	LedInst4
	LedMidiIn
	LedMidiOut

	NumLeds
)

var ledNames = [NumLeds]string{
	"POWER", "MULTI", "EDIT", "SOUND", "GLOBAL", "SHIFT", "PLAY", "PEEK", "STORE",
	"INST1", "INST2", "INST3", "INST4", "MIDIIN", "MIDIOUT",
}

func (l Led) String() string {
	if l < 0 || l >= NumLeds {
		return "unknown led"
	}
	return ledNames[l]
}

// LedForButton returns the LED that belongs to a button. Not every button
// has an LED.
func LedForButton(b Button) (Led, bool) {
	switch b {
	case ButtonMulti:
		return LedMulti, true
	case ButtonEdit:
		return LedEdit, true
	case ButtonSound:
		return LedSound, true
	case ButtonGlobal:
		return LedGlobal, true
	case ButtonShift:
		return LedShift, true
	case ButtonPlay:
		return LedPlay, true
	case ButtonPeek:
		return LedPeek, true
	case ButtonStore:
		return LedStore, true
	case ButtonInst1:
		return LedInst1, true
	case ButtonInst2:
		return LedInst2, true
	case ButtonInst3:
		return LedInst3, true
	case ButtonInst4:
		return LedInst4, true
	}
	return 0, false
}
