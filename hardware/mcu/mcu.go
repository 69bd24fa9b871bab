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

// Package mcu is a behavioural model of the control unit. It is not an
// instruction set emulation. It does what the firmware does with the
// peripherals: it drives the display, scans the panel, lights LEDs and talks
// to the signal-processing peer over the bridge.
//
// The model is stepped by calling Process() from a single goroutine. Other
// goroutines only interact with it through QueueMidi() and Forward().
package mcu

import (
	"fmt"

	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/hardware/bridge"
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
	"github.com/jetsetilly/gophersynth/notifications"
	"gitlab.com/gomidi/midi/v2"
)

// Banner is printed on the first line of the display at boot.
const Banner = "GOPHERSYNTH"

// the maximum number of MIDI messages waiting to be processed. messages
// arriving when the queue is full are dropped
const midiQueueLen = 256

// the interrupt raised by the PLAY button
const playInterrupt = 0

// the first value of each encoder
const encoderCentre = 64

// position of each Gray code value in the sequence
var phasePosition = [4]int{0b00: 0, 0b10: 1, 0b11: 2, 0b01: 3}

// MCU is the control unit.
type MCU struct {
	env *environment.Environment
	pub dirty.Publisher

	lcd   *lcd.LCD
	panel *panel.Panel
	leds  *panel.Leds

	host   *bridge.HostPort
	bridge *bridge.Bridge

	GP Port
	E  Port

	booted bool

	// the next panel bank to scan and the value of each bank at the previous
	// scan
	scanAddr panel.ScanAddress
	previous [panel.NumScanAddresses]uint8
	power    bool

	encoders [panel.NumEncoders]uint8

	// words waiting to be sent to the peer
	outgoing      []uint32
	awaitingReply bool
	lastReply     uint32
	replies       int

	midi chan []byte

	cycles uint64
}

// NewMCU is the preferred method of initialisation for the MCU type.
func NewMCU(env *environment.Environment, pub dirty.Publisher, disp *lcd.LCD, pan *panel.Panel, leds *panel.Leds, host *bridge.HostPort, br *bridge.Bridge) *MCU {
	m := &MCU{
		env:    env,
		pub:    pub,
		lcd:    disp,
		panel:  pan,
		leds:   leds,
		host:   host,
		bridge: br,
		GP:     Port{name: "GP"},
		E:      Port{name: "E"},
		midi:   make(chan []byte, midiQueueLen),
	}

	// port E drives the chip selects. bits 0 to 3 and the power bit are
	// inputs
	m.E.SetDirection(0xf0)
	m.E.Write(0xff)
	m.E.SetInputBit(panel.PortEPower, true)

	for i := range m.encoders {
		m.encoders[i] = encoderCentre
	}

	return m
}

func (m *MCU) String() string {
	return fmt.Sprintf("cycles=%d queued=%d awaiting=%v replies=%d last=%06x", m.cycles, len(m.outgoing), m.awaitingReply, m.replies, m.lastReply)
}

// Reset returns the control unit to its power-on state. The boot sequence
// runs again on the next call to Process(). Queued MIDI messages are
// discarded. The last scanned value of each panel bank is kept because the
// panel itself is not reset.
func (m *MCU) Reset() {
	m.booted = false
	m.scanAddr = panel.Buttons0
	for i := range m.encoders {
		m.encoders[i] = encoderCentre
	}
	m.outgoing = m.outgoing[:0]
	m.awaitingReply = false

	for {
		select {
		case <-m.midi:
		default:
			return
		}
	}
}

// Booted returns true once the boot sequence has run.
func (m *MCU) Booted() bool {
	return m.booted
}

// Replies returns the number of replies received from the peer.
func (m *MCU) Replies() int {
	return m.replies
}

// EncoderValue returns the value the firmware holds for an encoder.
func (m *MCU) EncoderValue(e panel.Encoder) uint8 {
	if e < 0 || e >= panel.NumEncoders {
		return 0
	}
	return m.encoders[e]
}

// QueueMidi adds a MIDI message to the queue of messages to be processed.
// Safe to call from any goroutine. Returns false if the queue is full.
func (m *MCU) QueueMidi(msg []byte) bool {
	select {
	case m.midi <- msg:
		return true
	default:
		return false
	}
}

// Forward implements the state.Forwarder interface.
func (m *MCU) Forward(msg []byte) {
	m.QueueMidi(msg)
}

// Process runs the control unit for one step.
func (m *MCU) Process() {
	if !m.booted {
		m.boot()
	}

	m.cycles++
	m.scan()
	m.service()
	m.drainMidi()
}

func (m *MCU) boot() {
	m.booted = true

	// 8-bit, two lines
	m.lcd.Exec(false, false, 0x38)
	// display on
	m.lcd.Exec(false, false, 0x0c)
	// clear
	m.lcd.Exec(false, false, 0x01)
	// entry mode increment
	m.lcd.Exec(false, false, 0x06)

	m.print(0, Banner)

	m.leds.Set(panel.LedPower, true)
	m.host.SetHostFlag(bridge.ICRHF0, true)

	logger.Log(m.env, "mcu", "boot complete")

	err := m.env.Notice(notifications.NotifyDeviceReady)
	if err != nil {
		logger.Log(m.env, "mcu", err.Error())
	}
}

// print writes the string to the display at the start of the line. The
// line is padded with spaces.
func (m *MCU) print(line int, s string) {
	addr := uint8(0x80)
	if line > 0 {
		addr |= 0x40
	}
	m.lcd.Exec(false, false, addr)

	for i := range lcd.Columns {
		c := uint8(' ')
		if i < len(s) {
			c = s[i]
		}
		m.lcd.Exec(true, false, c)
	}
}

func (m *MCU) queue(kind bridge.Kind, a uint8, b uint8) {
	m.outgoing = append(m.outgoing, bridge.MakeWord(kind, a, b))
}

// scan selects the next panel bank, reads it and acts on anything that has
// changed since the previous scan of the same bank.
func (m *MCU) scan() {
	addr := m.scanAddr
	m.scanAddr = (addr + 1) % panel.NumScanAddresses

	m.E.Write(0xff &^ (1 << addr.ChipSelect()))
	m.panel.Process(&m.GP, &m.E)
	v := m.GP.Read()

	power := m.E.Read()&(1<<panel.PortEPower) == 0
	if power != m.power {
		m.power = power
		m.button(panel.ButtonPower, power)
	}

	prev := m.previous[addr]
	m.previous[addr] = v
	if v == prev {
		return
	}

	switch addr {
	case panel.Buttons0, panel.Buttons1:
		first := int(addr-panel.Buttons0) * 8
		for i := range 8 {
			bit := uint8(1) << i
			if (v^prev)&bit != 0 {
				m.button(panel.Button(first+i), v&bit != 0)
			}
		}

	case panel.Encoders0, panel.Encoders1:
		first := int(addr-panel.Encoders0) * 4
		for i := range 4 {
			o := phasePosition[(prev>>(i*2))&0x03]
			n := phasePosition[(v>>(i*2))&0x03]
			switch (n - o + 4) % 4 {
			case 1:
				m.encoder(panel.Encoder(first+i), 1)
			case 3:
				m.encoder(panel.Encoder(first+i), -1)
			}
		}
	}
}

func (m *MCU) button(b panel.Button, pressed bool) {
	m.pub.Publish(dirty.Buttons)

	var p uint8
	if pressed {
		p = 1
	}
	m.queue(bridge.KindButton, uint8(b), p)

	if !pressed {
		return
	}

	if b == panel.ButtonPlay {
		m.bridge.RaiseInterrupt(playInterrupt)
		return
	}

	if led, ok := panel.LedForButton(b); ok {
		m.leds.Toggle(led)
	}
}

func (m *MCU) encoder(e panel.Encoder, dir int) {
	v := int(m.encoders[e]) + dir
	if v < 0 || v > 127 {
		return
	}
	m.encoders[e] = uint8(v)
	m.print(1, fmt.Sprintf("%-8s %3d", e, v))
	m.queue(bridge.KindEncoder, uint8(e), uint8(v))
}

// service steps the bridge, collects a reply from the peer and sends the
// next word.
func (m *MCU) service() {
	m.bridge.Step()

	// the play LED mirrors HF2
	m.leds.Set(panel.LedPlay, m.bridge.ReadStatus()&bridge.ISRHF2 == bridge.ISRHF2)

	if m.awaitingReply {
		w, ok := m.bridge.Receive(true)
		if !ok {
			return
		}
		m.awaitingReply = false
		m.lastReply = w
		m.replies++
	}

	if len(m.outgoing) > 0 && m.bridge.Queue(m.outgoing[0]) {
		m.outgoing = m.outgoing[1:]
		m.awaitingReply = true
	}
}

// drainMidi processes at most one waiting MIDI message.
func (m *MCU) drainMidi() {
	var b []byte
	select {
	case b = <-m.midi:
	default:
		return
	}

	m.leds.Toggle(panel.LedMidiIn)

	msg := midi.Message(b)

	var ch, key, vel, ctl, val, prog uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		m.queue(bridge.KindNote, key, vel)
	case msg.GetNoteEnd(&ch, &key):
		m.queue(bridge.KindNote, key, 0)
	case msg.GetControlChange(&ch, &ctl, &val):
		m.queue(bridge.KindController, ctl, val)
	case msg.GetProgramChange(&ch, &prog):
		m.queue(bridge.KindProgram, prog, 0)
	default:
		m.sysex(b)
	}
}

// sysex handles parameter changes and dumps forwarded from the state
// machine.
func (m *MCU) sysex(b []byte) {
	if !state.IsOurs(b) {
		return
	}

	cmd := state.Command(b[state.IdxCommand])
	for _, d := range state.Dumps {
		switch cmd {
		case d.CmdParamChange:
			if d.IsParamChange(b) {
				m.queue(bridge.KindParam, b[d.IdxParamL], b[d.IdxParamValue])
			}
			return
		case d.CmdDump:
			var loc uint8
			if len(b) > state.IdxLocation {
				loc = b[state.IdxLocation]
			}
			m.queue(bridge.KindDump, uint8(d.Type), loc)
			return
		}
	}
}
