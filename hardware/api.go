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

package hardware

import (
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
	"gitlab.com/gomidi/midi/v2"
)

// DisplaySnapshot returns the contents of display memory.
func (dev *Device) DisplaySnapshot() [lcd.MemorySize]byte {
	return dev.LCD.Snapshot()
}

// DisplayLines returns the visible text of the display.
func (dev *Device) DisplayLines() [lcd.Lines]string {
	return dev.LCD.Lines()
}

// CustomCharacter returns the rows of a custom character. Returns false if
// the index is out of range.
func (dev *Device) CustomCharacter(idx int) ([lcd.CharHeight]byte, bool) {
	return dev.LCD.CustomCharacter(idx)
}

// ButtonState returns true if the button is held.
func (dev *Device) ButtonState(b panel.Button) bool {
	return dev.Panel.ButtonState(b)
}

// SetButtonState presses or releases a button.
func (dev *Device) SetButtonState(b panel.Button, pressed bool) bool {
	return dev.Panel.SetButton(b, pressed)
}

// RotateEncoder queues rotation of an encoder. The rotation is consumed by
// the control unit one step per scan.
func (dev *Device) RotateEncoder(e panel.Encoder, delta int) bool {
	return dev.Panel.Rotate(e, delta)
}

// LedState returns true if the LED is lit.
func (dev *Device) LedState(l panel.Led) bool {
	return dev.Leds.State(l)
}

// SubmitInboundMidi delivers a message arriving at the device's MIDI input
// and returns any immediate responses.
//
// System exclusive messages go to the remote-control dispatcher, if it is
// enabled, and then to the state machine. Everything else is queued for the
// control unit.
func (dev *Device) SubmitInboundMidi(msg []byte) [][]byte {
	if len(msg) == 0 {
		return nil
	}

	var data []byte
	if !midi.Message(msg).GetSysEx(&data) {
		if !isChannelMessage(msg) {
			logger.Logf(dev.env, "device", "malformed midi message (% 02x)", msg)
			return nil
		}
		c := make([]byte, len(msg))
		copy(c, msg)
		if !dev.MCU.QueueMidi(c) {
			logger.Log(dev.env, "device", "midi queue full. message dropped")
		}
		return nil
	}

	dev.crit.Lock()
	defer dev.crit.Unlock()

	if dev.env.Prefs.RemoteControl.Get().(bool) {
		if resp, ok := dev.Remote.Receive(msg); ok {
			return resp
		}
	}

	resp, ok := dev.State.Receive(msg, state.External)
	if !ok {
		logger.Logf(dev.env, "device", "unhandled sysex (%d bytes)", len(msg))
	}
	return resp
}

// isChannelMessage returns true if the message is a complete channel voice
// message.
func isChannelMessage(msg []byte) bool {
	status := msg[0]
	if status < 0x80 || status >= 0xf0 {
		return false
	}
	n := 3
	if status&0xf0 == 0xc0 || status&0xf0 == 0xd0 {
		n = 2
	}
	if len(msg) != n {
		return false
	}
	for _, b := range msg[1:] {
		if b&0x80 != 0 {
			return false
		}
	}
	return true
}

// DrainDirtyFlags returns and clears the flags for everything that has
// changed since the previous call.
func (dev *Device) DrainDirtyFlags() dirty.Flags {
	return dev.dirty.Drain()
}

// DrainMidiOut is an alternative to DrainDirtyFlags() for front ends
// connected over MIDI. As well as the flags it returns the remote-control
// reports for the changes, if the dispatcher is enabled.
func (dev *Device) DrainMidiOut() ([][]byte, dirty.Flags) {
	flags := dev.dirty.Drain()
	if flags == dirty.None || !dev.env.Prefs.RemoteControl.Get().(bool) {
		return nil, flags
	}
	return dev.Remote.HandleDirtyFlags(flags), flags
}

// RequestDump returns a copy of a stored dump. Returns false if the location
// is not mapped.
func (dev *Device) RequestDump(typ state.DumpType, loc state.Location) ([]byte, bool) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return dev.State.RequestDump(typ, loc)
}

// ApplyDump writes a complete dump to the location it addresses. Returns
// false if the dump is malformed or addresses a location that is not mapped.
func (dev *Device) ApplyDump(msg []byte) bool {
	if !state.IsOurs(msg) {
		return false
	}
	d, ok := state.DumpForCommand(state.Command(msg[state.IdxCommand]))
	if !ok {
		return false
	}

	dev.crit.Lock()
	defer dev.crit.Unlock()
	return dev.State.Parse(d.Type, msg, state.External)
}

// IsMultiMode returns true if the device is in multi mode.
func (dev *Device) IsMultiMode() bool {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	return dev.State.IsMultiMode()
}

// Inspection is a summary of the device's state. It is intended for
// diagnostics.
type Inspection struct {
	Display [lcd.Lines]string
	Panel   string
	Leds    string
	MCU     string
	Link    string
	Peer    string
}

// Inspect returns a summary of the device. The summary of the control unit
// and the link is only reliable once the device has been closed.
func (dev *Device) Inspect() Inspection {
	ins := Inspection{
		Display: dev.LCD.Lines(),
		Panel:   dev.Panel.String(),
		Leds:    dev.Leds.String(),
	}

	select {
	case <-dev.done:
		ins.MCU = dev.MCU.String()
		ins.Link = dev.Bridge.Link().String()
	default:
	}

	if s, ok := dev.peer.(interface{ String() string }); ok {
		ins.Peer = s.String()
	}

	return ins
}
