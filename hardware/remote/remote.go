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

// Package remote implements the remote-control protocol. The protocol lets a
// front end that has no access to the emulation read the display, the LEDs
// and the buttons, and press buttons, using system exclusive messages over
// the same MIDI connection as everything else.
//
// Messages use the same envelope as parameter dumps:
//
//	F0 3E 0E <device id> <command> [payload] F7
//
// Bitmasks are sent as groups of seven bits, most significant group first,
// so that every payload byte is a valid data byte.
package remote

import (
	"fmt"

	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
	"gitlab.com/gomidi/midi/v2"
)

// Command is a remote-control command byte.
type Command uint8

// List of remote-control commands.
const (
	EmuLCD       Command = 0x50
	EmuLEDs      Command = 0x51
	EmuButtons   Command = 0x52
	EmuRotaries  Command = 0x53
	EmuLCDCGData Command = 0x54
)

func (c Command) String() string {
	switch c {
	case EmuLCD:
		return "lcd"
	case EmuLEDs:
		return "leds"
	case EmuButtons:
		return "buttons"
	case EmuRotaries:
		return "rotaries"
	case EmuLCDCGData:
		return "cgdata"
	}
	return fmt.Sprintf("command(%02x)", uint8(c))
}

// Payload sizes of the reports.
const (
	ButtonsPayload = 3
	LedsPayload    = 4
)

// Remote is the remote-control dispatcher.
type Remote struct {
	env   *environment.Environment
	lcd   *lcd.LCD
	panel *panel.Panel
	leds  *panel.Leds
}

// NewRemote is the preferred method of initialisation for the Remote type.
func NewRemote(env *environment.Environment, disp *lcd.LCD, pan *panel.Panel, leds *panel.Leds) *Remote {
	return &Remote{
		env:   env,
		lcd:   disp,
		panel: pan,
		leds:  leds,
	}
}

// pack7 splits the bottom n*7 bits of v into n data bytes.
func pack7(v uint32, n int) []byte {
	b := make([]byte, n)
	for i := range n {
		b[n-1-i] = uint8(v>>(i*7)) & 0x7f
	}
	return b
}

// Unpack7 is the inverse of the packing used for bitmask reports.
func Unpack7(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<7 | uint32(c&0x7f)
	}
	return v
}

// Message builds a remote-control message.
func Message(deviceID uint8, cmd Command, payload ...byte) []byte {
	data := make([]byte, 0, 4+len(payload))
	data = append(data, state.IDWaldorf, state.IDProduct, deviceID&0x7f, uint8(cmd))
	data = append(data, payload...)
	return midi.SysEx(data)
}

func (r *Remote) message(cmd Command, payload []byte) []byte {
	return Message(uint8(r.env.Prefs.DeviceID.Get().(int)), cmd, payload...)
}

func (r *Remote) reportLCD() []byte {
	mem := r.lcd.Snapshot()
	for i := range mem {
		mem[i] &= 0x7f
	}
	return r.message(EmuLCD, mem[:])
}

func (r *Remote) reportCGData() []byte {
	cg := r.lcd.CgRam()
	return r.message(EmuLCDCGData, cg[:])
}

func (r *Remote) reportLeds() []byte {
	return r.message(EmuLEDs, pack7(r.leds.Mask(), LedsPayload))
}

func (r *Remote) reportButtons() []byte {
	return r.message(EmuButtons, pack7(r.panel.ButtonMask(), ButtonsPayload))
}

// Receive handles one inbound message. It returns the responses and whether
// the message was a remote-control message. Malformed messages and messages
// for other devices are not handled and produce no responses.
func (r *Remote) Receive(msg []byte) ([][]byte, bool) {
	if len(msg) < state.MinMessageSize || msg[len(msg)-1] != state.SysexEnd {
		return nil, false
	}

	var data []byte
	if !midi.Message(msg).GetSysEx(&data) || len(data) < 4 {
		return nil, false
	}
	if data[0] != state.IDWaldorf || data[1] != state.IDProduct {
		return nil, false
	}

	cmd := Command(data[3])
	payload := data[4:]

	switch cmd {
	case EmuLCD:
		return [][]byte{r.reportLCD()}, true

	case EmuLCDCGData:
		return [][]byte{r.reportCGData()}, true

	case EmuLEDs:
		return [][]byte{r.reportLeds()}, true

	case EmuButtons:
		// the set form carries the button and its state
		if len(payload) >= 2 {
			b := panel.Button(payload[0])
			if !r.panel.SetButton(b, payload[1] != 0) {
				logger.Logf(r.env, "remote", "no such button (%d)", payload[0])
			}
			return nil, true
		}
		return [][]byte{r.reportButtons()}, true

	case EmuRotaries:
		// reserved. the wire format has never been settled
		return nil, false
	}

	return nil, false
}

// HandleDirtyFlags returns the reports for the changes indicated by the
// flags. The reports are identical to the responses to the equivalent
// queries.
func (r *Remote) HandleDirtyFlags(flags dirty.Flags) [][]byte {
	var out [][]byte
	if flags.Has(dirty.Lcd) {
		out = append(out, r.reportLCD())
	}
	if flags.Has(dirty.LcdCgRam) {
		out = append(out, r.reportCGData())
	}
	if flags.Has(dirty.Leds) {
		out = append(out, r.reportLeds())
	}
	if flags.Has(dirty.Buttons) {
		out = append(out, r.reportButtons())
	}
	return out
}
