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

package mcu_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/hardware/bridge"
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/dsp"
	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/mcu"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/notifications"
	"github.com/jetsetilly/gophersynth/test"
	"gitlab.com/gomidi/midi/v2"
)

type notices struct {
	received []notifications.Notice
}

func (n *notices) Notify(notice notifications.Notice) error {
	n.received = append(n.received, notice)
	return nil
}

type fixture struct {
	acc   *dirty.Accumulator
	disp  *lcd.LCD
	pan   *panel.Panel
	leds  *panel.Leds
	host  *bridge.HostPort
	peer  *dsp.Peer
	br    *bridge.Bridge
	m     *mcu.MCU
	notes *notices
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, err := environment.NewEnvironment(environment.MainDevice, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	f := &fixture{
		acc:   &dirty.Accumulator{},
		pan:   panel.NewPanel(),
		host:  bridge.NewHostPort(),
		peer:  dsp.NewPeer(),
		notes: &notices{},
	}
	env.Notify = f.notes

	f.disp = lcd.NewLCD(f.acc)
	f.leds = panel.NewLeds(f.acc)
	f.br = bridge.NewBridge(f.host, f.peer)
	f.br.SetYield(f.peer.Step)
	f.m = mcu.NewMCU(env, f.acc, f.disp, f.pan, f.leds, f.host, f.br)

	return f
}

// run the control unit and the peer in lockstep
func (f *fixture) run(n int) {
	for range n {
		f.m.Process()
		f.peer.Step()
	}
}

func TestBoot(t *testing.T) {
	f := newFixture(t)
	test.ExpectFailure(t, f.m.Booted())

	f.run(1)
	test.ExpectSuccess(t, f.m.Booted())
	test.ExpectEquality(t, strings.TrimRight(f.disp.Lines()[0], " "), mcu.Banner)
	test.ExpectEquality(t, len(f.disp.Lines()[0]), lcd.Columns)
	test.ExpectSuccess(t, f.disp.DisplayOn())
	test.ExpectSuccess(t, f.leds.State(panel.LedPower))
	test.ExpectEquality(t, f.host.ICR()&bridge.ICRHF0, bridge.ICRHF0)

	test.DemandEquality(t, len(f.notes.received), 1)
	test.ExpectEquality(t, f.notes.received[0], notifications.NotifyDeviceReady)

	d := f.acc.Drain()
	test.ExpectSuccess(t, d.Has(dirty.Lcd|dirty.Leds))
	test.ExpectFailure(t, d.Has(dirty.Buttons))

	// nothing changed on the panel so nothing is sent
	f.run(16)
	test.ExpectEquality(t, f.m.Replies(), 0)
	test.ExpectEquality(t, len(f.notes.received), 1)
}

func TestButtons(t *testing.T) {
	f := newFixture(t)
	f.run(1)
	f.acc.Drain()

	f.pan.SetButton(panel.ButtonEdit, true)
	f.run(8)
	test.ExpectSuccess(t, f.leds.State(panel.LedEdit))
	test.ExpectSuccess(t, f.acc.Drain().Has(dirty.Buttons|dirty.Leds))
	test.ExpectEquality(t, f.br.Link().LastSent, bridge.MakeWord(bridge.KindButton, uint8(panel.ButtonEdit), 1))
	test.ExpectEquality(t, f.m.Replies(), 1)

	// release does not change the LED
	f.pan.SetButton(panel.ButtonEdit, false)
	f.run(8)
	test.ExpectSuccess(t, f.leds.State(panel.LedEdit))
	test.ExpectEquality(t, f.br.Link().LastSent, bridge.MakeWord(bridge.KindButton, uint8(panel.ButtonEdit), 0))
	test.ExpectEquality(t, f.m.Replies(), 2)

	// second press toggles the LED off
	f.pan.SetButton(panel.ButtonEdit, true)
	f.run(8)
	test.ExpectFailure(t, f.leds.State(panel.LedEdit))

	// power has no LED but is still reported
	f.pan.SetButton(panel.ButtonPower, true)
	f.run(8)
	test.ExpectEquality(t, f.br.Link().LastSent, bridge.MakeWord(bridge.KindButton, uint8(panel.ButtonPower), 1))
	test.ExpectSuccess(t, f.leds.State(panel.LedPower))
}

func TestEncoders(t *testing.T) {
	f := newFixture(t)
	f.run(1)

	test.ExpectEquality(t, f.m.EncoderValue(panel.EncoderValue), uint8(64))

	f.pan.Rotate(panel.EncoderValue, 3)
	f.run(32)
	test.ExpectEquality(t, f.pan.Pending(panel.EncoderValue), 0)
	test.ExpectEquality(t, f.m.EncoderValue(panel.EncoderValue), uint8(67))
	test.ExpectEquality(t, strings.TrimRight(f.disp.Lines()[1], " "), "VALUE     67")

	f.pan.Rotate(panel.EncoderValue, -5)
	f.run(64)
	test.ExpectEquality(t, f.m.EncoderValue(panel.EncoderValue), uint8(62))

	// values are limited to seven bits
	f.pan.Rotate(panel.EncoderMatrix1, 70)
	f.run(400)
	test.ExpectEquality(t, f.pan.Pending(panel.EncoderMatrix1), 0)
	test.ExpectEquality(t, f.m.EncoderValue(panel.EncoderMatrix1), uint8(127))

	// the master encoder sets the gain of the peer
	f.pan.Rotate(panel.EncoderMaster, -64)
	f.run(400)
	test.ExpectEquality(t, f.m.EncoderValue(panel.EncoderMaster), uint8(0))
	test.ExpectEquality(t, f.peer.Gain(), float32(0))
}

func TestPlayInterrupt(t *testing.T) {
	f := newFixture(t)
	f.run(1)
	test.ExpectFailure(t, f.leds.State(panel.LedPlay))

	f.pan.SetButton(panel.ButtonPlay, true)
	f.run(8)
	test.ExpectSuccess(t, f.leds.State(panel.LedPlay))
	test.ExpectEquality(t, f.br.ReadStatus()&bridge.ISRHF2, bridge.ISRHF2)

	f.pan.SetButton(panel.ButtonPlay, false)
	f.run(8)
	test.ExpectSuccess(t, f.leds.State(panel.LedPlay))

	f.pan.SetButton(panel.ButtonPlay, true)
	f.run(8)
	test.ExpectFailure(t, f.leds.State(panel.LedPlay))
}

func TestMidi(t *testing.T) {
	f := newFixture(t)
	f.run(1)

	test.ExpectSuccess(t, f.m.QueueMidi(midi.NoteOn(0, 60, 100)))
	f.run(4)
	test.ExpectSuccess(t, f.leds.State(panel.LedMidiIn))
	test.ExpectEquality(t, f.br.Link().LastSent, bridge.MakeWord(bridge.KindNote, 60, 100))

	f.m.QueueMidi(midi.ControlChange(1, 74, 20))
	f.run(4)
	test.ExpectFailure(t, f.leds.State(panel.LedMidiIn))
	test.ExpectEquality(t, f.br.Link().LastSent, bridge.MakeWord(bridge.KindController, 74, 20))

	// forwarded parameter changes
	f.m.Forward(state.ParameterChange(0, state.Global, 0, int(state.GlobalTuning), 70))
	f.run(4)
	test.ExpectEquality(t, f.br.Link().LastSent, bridge.MakeWord(bridge.KindParam, uint8(state.GlobalTuning), 70))

	// a parameter change without its value byte is not passed on
	f.m.Forward([]byte{0xf0, 0x3e, 0x0e, 0x00, uint8(state.GlobalParameterChange), 0x00, 0x05, 0xf7})
	f.run(4)
	test.ExpectEquality(t, f.br.Link().LastSent, bridge.MakeWord(bridge.KindParam, uint8(state.GlobalTuning), 70))

	// the queue is bounded
	for range 256 {
		f.m.QueueMidi(midi.NoteOff(0, 60))
	}
	test.ExpectFailure(t, f.m.QueueMidi(midi.NoteOff(0, 60)))
}
