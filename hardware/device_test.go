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

package hardware_test

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/govern"
	"github.com/jetsetilly/gophersynth/hardware"
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/dsp"
	"github.com/jetsetilly/gophersynth/hardware/mcu"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/remote"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/notifications"
	"github.com/jetsetilly/gophersynth/test"
)

// notices can be sent from the driving goroutine
type notices struct {
	ch chan notifications.Notice
}

func (n *notices) Notify(notice notifications.Notice) error {
	select {
	case n.ch <- notice:
	default:
	}
	return nil
}

type fixture struct {
	env   *environment.Environment
	peer  *dsp.Peer
	dev   *hardware.Device
	notes *notices
}

func newEnvironment(t *testing.T) *environment.Environment {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, err := environment.NewEnvironment(environment.MainDevice, nil)
	test.DemandSuccess(t, err)
	env.Normalise()
	return env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		env:   newEnvironment(t),
		peer:  dsp.NewPeer(),
		notes: &notices{ch: make(chan notifications.Notice, 16)},
	}
	f.env.Notify = f.notes

	var err error
	f.dev, err = hardware.NewDevice(f.env, f.peer, state.InitImage(0))
	test.DemandSuccess(t, err)
	t.Cleanup(f.dev.Close)

	return f
}

// wait for a notice. audio is processed while waiting
func (f *fixture) waitNotice(t *testing.T, notice notifications.Notice) {
	t.Helper()
	out := make([]float32, 128)
	timeout := time.After(5 * time.Second)
	for {
		select {
		case n := <-f.notes.ch:
			if n == notice {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", notice)
		default:
			f.dev.Process(nil, out)
			time.Sleep(100 * time.Microsecond)
		}
	}
}

// process audio until the condition is true
func (f *fixture) pump(t *testing.T, in []float32, out []float32, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out")
		}
		f.dev.Process(in, out)
		time.Sleep(100 * time.Microsecond)
	}
}

func TestConstruction(t *testing.T) {
	env := newEnvironment(t)

	dev, err := hardware.NewDevice(env, nil, nil)
	test.ExpectSuccess(t, curated.Is(err, hardware.ResourceUnavailable))
	test.ExpectFailure(t, dev.IsValid())

	// an image without the global dump
	var images [][]byte
	for _, f := range state.InitImage(0) {
		if state.Command(f[state.IdxCommand]) != state.GlobalDump {
			images = append(images, f)
		}
	}
	dev, err = hardware.NewDevice(env, nil, images)
	test.ExpectSuccess(t, curated.Is(err, hardware.ResourceUnavailable))
	test.ExpectSuccess(t, curated.Has(err, state.MissingImage))
	test.ExpectFailure(t, dev.IsValid())
}

func TestBootAndClose(t *testing.T) {
	f := newFixture(t)
	test.ExpectSuccess(t, f.dev.IsValid())

	f.waitNotice(t, notifications.NotifyDeviceReady)
	f.pump(t, nil, make([]float32, 128), func() bool {
		return f.dev.GovernState() == govern.Running
	})
	test.ExpectEquality(t, f.dev.DisplayLines()[0][:len(mcu.Banner)], mcu.Banner)
	test.ExpectSuccess(t, f.dev.LedState(panel.LedPower))
	test.ExpectSuccess(t, f.dev.DrainDirtyFlags().Has(dirty.Lcd|dirty.Leds))

	f.dev.Close()
	test.ExpectEquality(t, f.dev.GovernState(), govern.Ended)
	test.ExpectFailure(t, f.dev.IsValid())
	test.ExpectEquality(t, <-f.notes.ch, notifications.NotifyDeviceEnding)

	ins := f.dev.Inspect()
	test.ExpectInequality(t, ins.MCU, "")
	test.ExpectInequality(t, ins.Link, "")

	// closing twice is harmless
	f.dev.Close()
}

func TestButtonQueryScenario(t *testing.T) {
	f := newFixture(t)
	f.dev.SetButtonState(panel.Button(3), true)

	out := f.dev.SubmitInboundMidi([]byte{0xf0, 0x3e, 0x0e, 0x00, uint8(remote.EmuButtons), 0xf7})
	test.DemandEquality(t, len(out), 1)
	test.ExpectSuccess(t, bytes.Equal(out[0][5:5+remote.ButtonsPayload], []byte{0x00, 0x00, 0x08}))
	test.ExpectEquality(t, out[0][len(out[0])-1], uint8(0xf7))
}

func TestSingleRequestScenario(t *testing.T) {
	f := newFixture(t)
	loc := state.Location{Buffer: state.BufferRomA, Index: 0}

	out := f.dev.SubmitInboundMidi(state.Request(0, state.Single, loc))
	test.DemandEquality(t, len(out), 1)

	resp := out[0]
	test.DemandEquality(t, len(resp), 265)
	test.ExpectEquality(t, resp[0], uint8(0xf0))
	test.ExpectEquality(t, resp[263], state.Checksum(resp))
	test.ExpectEquality(t, resp[264], uint8(0xf7))

	edit, _ := f.dev.RequestDump(state.Single, state.Location{Buffer: state.BufferEdit})
	romB, _ := f.dev.RequestDump(state.Single, state.Location{Buffer: state.BufferRomB})

	test.ExpectSuccess(t, f.dev.ApplyDump(resp))

	again, _ := f.dev.RequestDump(state.Single, loc)
	test.ExpectSuccess(t, bytes.Equal(again, resp))
	e, _ := f.dev.RequestDump(state.Single, state.Location{Buffer: state.BufferEdit})
	test.ExpectSuccess(t, bytes.Equal(e, edit))
	b, _ := f.dev.RequestDump(state.Single, state.Location{Buffer: state.BufferRomB})
	test.ExpectSuccess(t, bytes.Equal(b, romB))
}

func TestMalformedScenario(t *testing.T) {
	f := newFixture(t)
	f.waitNotice(t, notifications.NotifyDeviceReady)
	f.dev.DrainDirtyFlags()

	test.ExpectEquality(t, len(f.dev.SubmitInboundMidi([]byte{0xf0, 0x3e, 0xf7})), 0)
	test.ExpectEquality(t, len(f.dev.SubmitInboundMidi([]byte{0x90, 0x40, 0xf7})), 0)
	test.ExpectEquality(t, len(f.dev.SubmitInboundMidi([]byte{0x90, 0x40})), 0)

	// a global parameter change without its value byte
	global, _ := f.dev.RequestDump(state.Global, state.Location{})
	test.ExpectEquality(t, len(f.dev.SubmitInboundMidi([]byte{0xf0, 0x3e, 0x0e, 0x00, 0x24, 0x00, 0x05, 0xf7})), 0)
	test.ExpectEquality(t, len(f.dev.SubmitInboundMidi([]byte{0xf0, 0x3e, 0x0e, 0x00, 0x27, 0x00, 0x00, 0xf7})), 0)
	after, _ := f.dev.RequestDump(state.Global, state.Location{})
	test.ExpectSuccess(t, bytes.Equal(global, after))
	test.ExpectFailure(t, f.dev.IsMultiMode())

	// give the driving goroutine a chance to do something it shouldn't
	out := make([]float32, 128)
	for range 100 {
		f.dev.Process(nil, out)
	}
	time.Sleep(10 * time.Millisecond)

	test.ExpectEquality(t, f.dev.DrainDirtyFlags(), dirty.None)
}

func TestPanelToPeer(t *testing.T) {
	f := newFixture(t)
	f.waitNotice(t, notifications.NotifyDeviceReady)

	in := make([]float32, 128)
	for i := range in {
		in[i] = 1.0
	}
	out := make([]float32, 128)

	f.dev.Process(in, out)
	test.ExpectEquality(t, out[0], float32(1.0))

	// the master encoder controls the gain of the peer
	f.dev.RotateEncoder(panel.EncoderMaster, -64)
	f.pump(t, in, out, func() bool {
		return out[len(out)-1] == 0
	})
	test.ExpectEquality(t, f.peer.Gain(), float32(0))

	// pressing a button lights its LED and is reported
	f.dev.DrainDirtyFlags()
	f.dev.SetButtonState(panel.ButtonEdit, true)
	f.pump(t, in, out, func() bool {
		return f.dev.LedState(panel.LedEdit)
	})

	msgs, flags := f.dev.DrainMidiOut()
	test.ExpectSuccess(t, flags.Has(dirty.Leds))
	var found bool
	for _, m := range msgs {
		if remote.Command(m[4]) == remote.EmuLEDs {
			found = true
			test.ExpectEquality(t, remote.Unpack7(m[5:5+remote.LedsPayload])&(1<<panel.LedEdit), uint32(1<<panel.LedEdit))
		}
	}
	test.ExpectSuccess(t, found)
}

func TestPlayModeThroughDevice(t *testing.T) {
	f := newFixture(t)
	f.waitNotice(t, notifications.NotifyDeviceReady)
	test.ExpectFailure(t, f.dev.IsMultiMode())

	test.ExpectSuccess(t, f.dev.ApplyDump(state.NewDump(0, state.Mode, state.Location{}, []byte{1})))
	test.ExpectSuccess(t, f.dev.IsMultiMode())
	f.waitNotice(t, notifications.NotifyPlayModeChanged)

	// not a dump
	test.ExpectFailure(t, f.dev.ApplyDump(state.Request(0, state.Mode, state.Location{})))

	test.DemandSuccess(t, f.dev.Reset())
	test.ExpectFailure(t, f.dev.IsMultiMode())
}

// bootWatch records the state of the driving goroutine when the control unit
// reports that it has booted
type bootWatch struct {
	dev   atomic.Pointer[hardware.Device]
	ready chan govern.State
}

func (w *bootWatch) Notify(notice notifications.Notice) error {
	if notice != notifications.NotifyDeviceReady {
		return nil
	}
	if dev := w.dev.Load(); dev != nil {
		select {
		case w.ready <- dev.GovernState():
		default:
		}
	}
	return nil
}

func TestReset(t *testing.T) {
	env := newEnvironment(t)
	w := &bootWatch{ready: make(chan govern.State, 1)}
	env.Notify = w

	dev, err := hardware.NewDevice(env, nil, state.InitImage(0))
	test.DemandSuccess(t, err)
	w.dev.Store(dev)
	t.Cleanup(dev.Close)

	out := make([]float32, 128)
	running := func() {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for dev.GovernState() != govern.Running {
			if time.Now().After(deadline) {
				t.Fatalf("timed out")
			}
			dev.Process(nil, out)
			time.Sleep(100 * time.Microsecond)
		}
	}

	running()
	select {
	case <-w.ready:
	default:
	}

	test.ExpectSuccess(t, dev.ApplyDump(state.NewDump(0, state.Mode, state.Location{}, []byte{1})))
	test.ExpectSuccess(t, dev.IsMultiMode())

	test.DemandSuccess(t, dev.Reset())
	test.ExpectFailure(t, dev.IsMultiMode())

	// the control unit boots again and the device is not running until it
	// has done so
	running()
	select {
	case s := <-w.ready:
		test.ExpectEquality(t, s, govern.Initialising)
	default:
		t.Fatalf("control unit did not boot after reset")
	}
	test.ExpectEquality(t, dev.DisplayLines()[0][:len(mcu.Banner)], mcu.Banner)
	test.ExpectSuccess(t, dev.LedState(panel.LedPower))

	dev.Close()
	err = dev.Reset()
	test.ExpectSuccess(t, curated.Is(err, hardware.ResetFailed))
	test.ExpectEquality(t, dev.GovernState(), govern.Ended)
}
