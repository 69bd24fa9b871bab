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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/govern"
	"github.com/jetsetilly/gophersynth/hardware/bridge"
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/dsp"
	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/mcu"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/remote"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
	"github.com/jetsetilly/gophersynth/notifications"
)

// ResourceUnavailable is the error pattern returned by NewDevice() when the
// device cannot be constructed.
const ResourceUnavailable = "device: resource unavailable: %v"

// ResetFailed is the error pattern returned by Reset().
const ResetFailed = "device: reset failed: %v"

// Peer is the signal-processing unit attached to the device.
type Peer interface {
	bridge.Peer

	// ProcessAudio advances the peer and produces audio. Input and output are
	// interleaved stereo
	ProcessAudio(in []float32, out []float32)
}

// Device is the root of the emulation. It owns every component and runs the
// control unit in its own goroutine.
//
// Components are reached through the Device's methods. The exported
// component fields are for inspection and for the tests of the components.
type Device struct {
	env *environment.Environment

	dirty dirty.Accumulator

	LCD    *lcd.LCD
	Panel  *panel.Panel
	Leds   *panel.Leds
	State  *state.State
	Host   *bridge.HostPort
	Bridge *bridge.Bridge
	MCU    *mcu.MCU
	Remote *remote.Remote

	peer Peer

	// the factory images used to initialise the state. kept for Reset()
	images [][]byte

	// the coarse lock. held for audio processing and for any access to the
	// state from outside the driving goroutine
	crit sync.Mutex

	// ctrl serialises Reset() and Close()
	ctrl sync.Mutex

	destroy atomic.Bool
	done    chan struct{}
	govern  atomic.Int32

	// halt parks the driving goroutine. it acknowledges on halted and waits
	// on resume
	halt   atomic.Bool
	halted chan struct{}
	resume chan struct{}
}

// NewDevice is the preferred method of initialisation for the Device type.
// If peer is nil then the reference peer from the dsp package is used.
//
// The images are the factory dumps used to initialise the parameter memory.
// The device starts running before the function returns.
func NewDevice(env *environment.Environment, peer Peer, images [][]byte) (*Device, error) {
	if env == nil {
		return nil, curated.Errorf(ResourceUnavailable, "no environment")
	}
	if len(images) == 0 {
		return nil, curated.Errorf(ResourceUnavailable, "no factory images")
	}
	if peer == nil {
		peer = dsp.NewPeer()
	}

	dev := &Device{
		env:    env,
		peer:   peer,
		images: images,
		done:   make(chan struct{}),
		halted: make(chan struct{}),
		resume: make(chan struct{}),
	}
	dev.govern.Store(int32(govern.Initialising))

	dev.LCD = lcd.NewLCD(&dev.dirty)
	dev.Panel = panel.NewPanel()
	dev.Leds = panel.NewLeds(&dev.dirty)
	dev.Host = bridge.NewHostPort()
	dev.Bridge = bridge.NewBridge(dev.Host, dev.peer)
	dev.MCU = mcu.NewMCU(env, &dev.dirty, dev.LCD, dev.Panel, dev.Leds, dev.Host, dev.Bridge)
	dev.State = state.NewState(env, &dev.dirty, dev.MCU)
	dev.Remote = remote.NewRemote(env, dev.LCD, dev.Panel, dev.Leds)

	err := dev.State.Initialise(images)
	if err != nil {
		return nil, curated.Errorf(ResourceUnavailable, err)
	}

	// nothing that happened during initialisation is of interest
	dev.dirty.Drain()

	go dev.run()

	return dev, nil
}

func (dev *Device) String() string {
	return fmt.Sprintf("%s [%s]", dev.GovernState(), dev.Panel)
}

// the number of times the control unit is stepped between checks of the
// destroy flag. the inner loop is unrolled by eight
const batches = 32

func (dev *Device) run() {
	defer close(dev.done)

	logger.Log(dev.env, "device", "driving goroutine started")

	for {
		dev.drive()
		if dev.destroy.Load() {
			break // for loop
		}

		// parked by Reset()
		dev.halted <- struct{}{}
		<-dev.resume
	}

	dev.govern.Store(int32(govern.Ended))
	logger.Log(dev.env, "device", "driving goroutine ended")
}

// drive steps the control unit until the device is closed or halted.
func (dev *Device) drive() {
	// the control unit boots on its first step. Close() may have moved the
	// state on already
	dev.MCU.Process()
	dev.govern.CompareAndSwap(int32(govern.Initialising), int32(govern.Running))

	for !dev.destroy.Load() && !dev.halt.Load() {
		for range batches {
			dev.MCU.Process()
			dev.MCU.Process()
			dev.MCU.Process()
			dev.MCU.Process()
			dev.MCU.Process()
			dev.MCU.Process()
			dev.MCU.Process()
			dev.MCU.Process()
		}
	}
}

// GovernState returns the state of the driving goroutine.
func (dev *Device) GovernState() govern.State {
	return govern.State(dev.govern.Load())
}

// IsValid returns true if the device can be driven. A device that failed
// construction or that has been closed is not valid.
func (dev *Device) IsValid() bool {
	if dev == nil {
		return false
	}
	return !dev.destroy.Load()
}

// Env returns the environment the device was created with.
func (dev *Device) Env() *environment.Environment {
	return dev.env
}

// Process advances the device by one audio quantum. Input and output are
// interleaved stereo and the number of frames is len(out)/2. The input can
// be nil.
//
// Process must be called regularly. The control unit waits on the
// signal-processing peer and the peer only advances when Process is called.
func (dev *Device) Process(in []float32, out []float32) {
	dev.crit.Lock()
	defer dev.crit.Unlock()
	dev.peer.ProcessAudio(in, out)
}

// Close stops the driving goroutine. Audio is processed, and discarded,
// until the driving goroutine has seen the request. Close does not return
// until the driving goroutine has ended.
func (dev *Device) Close() {
	dev.ctrl.Lock()
	defer dev.ctrl.Unlock()

	if !dev.destroy.CompareAndSwap(false, true) {
		return
	}

	dev.govern.Store(int32(govern.Ending))
	err := dev.env.Notice(notifications.NotifyDeviceEnding)
	if err != nil {
		logger.Log(dev.env, "device", err.Error())
	}

	dev.processUntil(dev.done)
}

// processUntil processes, and discards, audio until the channel can be
// received from. The driving goroutine may be waiting on the peer and the
// peer only advances when audio is processed.
func (dev *Device) processUntil(ch <-chan struct{}) {
	out := make([]float32, dev.env.Prefs.BlockSize.Get().(int)*2)
	for {
		select {
		case <-ch:
			return
		default:
			dev.Process(nil, out)
		}
	}
}

// Reset reinitialises the device as if it had been switched off and on. The
// driving goroutine is stopped, the link between the control unit and the
// peer is resynchronised, the parameter memory is reloaded from the factory
// images and the control unit boots again.
//
// This is the only way to recover a link that has lost synchronisation.
func (dev *Device) Reset() error {
	dev.ctrl.Lock()
	defer dev.ctrl.Unlock()

	if dev.destroy.Load() {
		return curated.Errorf(ResetFailed, "device is closed")
	}

	dev.halt.Store(true)
	dev.processUntil(dev.halted)
	dev.govern.Store(int32(govern.Initialising))

	dev.crit.Lock()
	dev.Bridge.Resync()
	dev.MCU.Reset()
	err := dev.State.Initialise(dev.images)
	dev.crit.Unlock()

	dev.dirty.Drain()
	logger.Log(dev.env, "device", "reset")

	dev.halt.Store(false)
	dev.resume <- struct{}{}

	if err != nil {
		return curated.Errorf(ResetFailed, err)
	}
	return nil
}

// Wait blocks until the driving goroutine has ended.
func (dev *Device) Wait() {
	<-dev.done
}
