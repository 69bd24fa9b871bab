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

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/gophersynth/audio"
	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/hardware"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
	"github.com/jetsetilly/gophersynth/macro"
	"github.com/jetsetilly/gophersynth/midiport"
	"github.com/jetsetilly/gophersynth/modalflag"
	"github.com/jetsetilly/gophersynth/prefs"
	"github.com/jetsetilly/gophersynth/romloader"
	"github.com/jetsetilly/gophersynth/statsview"
	"github.com/jetsetilly/gophersynth/tui"
	"github.com/jetsetilly/gophersynth/version"
	"github.com/jetsetilly/gophersynth/wavwriter"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AdditionalHelp(version.Banner())
	md.AddSubModes("RUN", "PANEL", "BRIDGE", "DUMP", "INITROM", "PORTS")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "PANEL":
		err = frontPanel(md)

	case "BRIDGE":
		err = bridge(md)

	case "DUMP":
		err = dump(md)

	case "INITROM":
		err = initROM(md)

	case "PORTS":
		err = ports(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// common options for modes that create a device
type deviceOptions struct {
	rom   *string
	prefs *string
	log   *bool
}

func addDeviceOptions(md *modalflag.Modes) deviceOptions {
	return deviceOptions{
		rom:   md.AddString("rom", "", "factory image (.syx or .mid). an init image is used if not specified"),
		prefs: md.AddString("prefs", "", "preferences for this session (eg. \"hardware.deviceid::1\")"),
		log:   md.AddBool("log", false, "echo debugging log to stdout"),
	}
}

// newDevice creates the main device. The device is running when the function
// returns but it may not have finished booting. Wait on the ready channel of
// the notifier for that.
func newDevice(opts deviceOptions) (*hardware.Device, *notifier, error) {
	if *opts.log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if *opts.prefs != "" {
		prefs.PushCommandLineStack(*opts.prefs)
	}

	env, err := environment.NewEnvironment(environment.MainDevice, nil)
	if err != nil {
		return nil, nil, err
	}
	ntf := newNotifier()
	env.Notify = ntf

	var images [][]byte
	if *opts.rom == "" {
		images = state.InitImage(uint8(env.Prefs.DeviceID.Get().(int)))
	} else {
		images, err = romloader.Load(env, *opts.rom)
		if err != nil {
			return nil, nil, err
		}
	}

	dev, err := hardware.NewDevice(env, nil, images)
	if err != nil {
		return nil, nil, err
	}

	return dev, ntf, nil
}

// audio driver started by startAudio()
type audioDriver interface {
	stop() error
}

type pumpDriver struct{ *audio.Pump }

func (p pumpDriver) stop() error { return p.Stop() }

type playerDriver struct{ *audio.Player }

func (p playerDriver) stop() error { return p.Close() }

// startAudio drives the audio-rate context of the device with either the oto
// player or the timer driven pump.
func startAudio(dev *hardware.Device, play bool, in *audio.Input, sink audio.Sink) (audioDriver, error) {
	rate := dev.Env().Prefs.SampleRate.Get().(int)
	frames := dev.Env().Prefs.BlockSize.Get().(int)

	if play {
		pl, err := audio.NewPlayer(dev, rate, frames, in, sink)
		if err != nil {
			return nil, err
		}
		pl.Start()
		return playerDriver{pl}, nil
	}

	p := audio.NewPump(dev, rate, frames, in, sink)
	p.Start()
	return pumpDriver{p}, nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	opts := addDeviceOptions(md)
	seconds := md.AddFloat64("seconds", 0, "number of seconds to run for. zero runs until interrupted or the macro ends")
	wav := md.AddString("wav", "", "record audio to wav file")
	input := md.AddString("input", "", "audio input (.wav or .mp3)")
	macroFile := md.AddString("macro", "", "macro file to be run")
	play := md.AddBool("play", false, "play audio through the sound card")
	memvizOut := md.AddString("memviz", "", "write a graph of the device state to file on exit")
	var stats *bool
	if statsview.Available() {
		stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if stats != nil && *stats {
		statsview.Launch(os.Stdout)
	}

	dev, ntf, err := newDevice(opts)
	if err != nil {
		return err
	}
	env := dev.Env()
	rate := env.Prefs.SampleRate.Get().(int)

	var in *audio.Input
	if *input != "" {
		in, err = audio.LoadInput(env, *input, rate)
		if err != nil {
			dev.Close()
			return err
		}
		in.Loop = true
	}

	var sink audio.Sink
	var aw *wavwriter.WavWriter
	if *wav != "" {
		aw, err = wavwriter.New(env, *wav, rate, audio.Channels)
		if err != nil {
			dev.Close()
			return err
		}
		sink = aw
	}

	drv, err := startAudio(dev, *play, in, sink)
	if err != nil {
		dev.Close()
		return err
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Reset(os.Interrupt)

	var timeout <-chan time.Time
	if *seconds > 0 {
		timeout = time.After(time.Duration(*seconds * float64(time.Second)))
	}

	var mcrDone <-chan bool
	if *macroFile != "" {
		select {
		case <-ntf.ready:
		case <-intChan:
			return shutdown(dev, drv, aw, *memvizOut)
		}

		mcr, err := macro.NewMacro(env, *macroFile, dev, func(b []byte) {
			logger.Logf(env, "macro", "% x", b)
		})
		if err != nil {
			_ = shutdown(dev, drv, aw, *memvizOut)
			return err
		}
		mcr.Run()
		defer mcr.Quit()

		// without a time limit the session lasts as long as the macro
		if timeout == nil {
			mcrDone = mcr.Done()
		}
	}

	select {
	case <-intChan:
		fmt.Print("\r")
	case <-timeout:
	case <-mcrDone:
	}

	return shutdown(dev, drv, aw, *memvizOut)
}

// shutdown stops the audio driver and the device, writes any recorded audio
// and prints a summary of the device.
func shutdown(dev *hardware.Device, drv audioDriver, aw *wavwriter.WavWriter, memvizOut string) error {
	err := drv.stop()
	dev.Close()

	msgs, flags := dev.DrainMidiOut()
	for _, m := range msgs {
		logger.Logf(dev.Env(), "device", "midi out: % x", m)
	}
	logger.Logf(dev.Env(), "device", "dirty flags at exit: %s", flags)

	if aw != nil {
		if e := aw.Close(); err == nil {
			err = e
		}
	}

	ins := dev.Inspect()
	for _, l := range ins.Display {
		fmt.Println(l)
	}

	if memvizOut != "" {
		f, e := os.Create(memvizOut)
		if e != nil {
			if err == nil {
				err = e
			}
		} else {
			memviz.Map(f, &ins)
			if e := f.Close(); err == nil {
				err = e
			}
		}
	}

	return err
}

func frontPanel(md *modalflag.Modes) error {
	md.NewMode()

	opts := addDeviceOptions(md)
	play := md.AddBool("play", false, "play audio through the sound card")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// the log would interfere with the front panel
	*opts.log = false

	dev, _, err := newDevice(opts)
	if err != nil {
		return err
	}

	drv, err := startAudio(dev, *play, nil, nil)
	if err != nil {
		dev.Close()
		return err
	}

	err = tui.Run(dev)

	if e := drv.stop(); err == nil {
		err = e
	}
	dev.Close()

	return err
}

// how often outbound MIDI is collected from the device in BRIDGE mode
const midiOutPeriod = 5 * time.Millisecond

func bridge(md *modalflag.Modes) error {
	md.NewMode()

	opts := addDeviceOptions(md)
	inPort := md.AddString("in", "", "MIDI input port (name or number)")
	outPort := md.AddString("out", "", "MIDI output port (name or number)")
	serial := md.AddString("serial", "", "serial device to use instead of MIDI ports")
	baud := md.AddInt("baud", midiport.DefaultBaud, "speed of serial device")
	play := md.AddBool("play", false, "play audio through the sound card")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var t midiport.Transport
	if *serial != "" {
		t, err = midiport.NewSerial(*serial, *baud)
	} else {
		if *inPort == "" && *outPort == "" {
			return fmt.Errorf("at least one of -in, -out or -serial is required for %s mode", md)
		}
		t, err = midiport.NewPorts(*inPort, *outPort)
		defer midiport.CloseDriver()
	}
	if err != nil {
		return err
	}

	dev, _, err := newDevice(opts)
	if err != nil {
		_ = t.Close()
		return err
	}
	env := dev.Env()

	logger.Logf(env, "midiport", "bridging %s", t)

	send := func(msgs [][]byte) {
		for _, m := range msgs {
			if err := t.Send(m); err != nil {
				logger.Log(env, "midiport", err.Error())
			}
		}
	}

	if *inPort != "" || *serial != "" {
		err = t.Listen(func(msg []byte) {
			send(dev.SubmitInboundMidi(msg))
		})
		if err != nil {
			_ = t.Close()
			dev.Close()
			return err
		}
	}

	drv, err := startAudio(dev, *play, nil, nil)
	if err != nil {
		_ = t.Close()
		dev.Close()
		return err
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Reset(os.Interrupt)

	tck := time.NewTicker(midiOutPeriod)
	defer tck.Stop()

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Print("\r")
			done = true
		case <-tck.C:
			msgs, _ := dev.DrainMidiOut()
			send(msgs)
		}
	}

	err = drv.stop()
	dev.Close()
	if e := t.Close(); err == nil {
		err = e
	}

	return err
}

func dump(md *modalflag.Modes) error {
	md.NewMode()

	opts := addDeviceOptions(md)
	typ := md.AddString("type", "single", "dump type: single, multi, global, mode")
	buffer := md.AddInt("buffer", 0, "buffer number")
	loc := md.AddInt("loc", 0, "location within the buffer")
	out := md.AddString("o", "", "write the dump to file. printed as hex if not specified")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	dt, ok := state.DumpTypeFromString(strings.ToLower(*typ))
	if !ok {
		return fmt.Errorf("unrecognised dump type: %s", *typ)
	}
	if *buffer < 0 || *buffer > 0x7f || *loc < 0 || *loc > 0x7f {
		return fmt.Errorf("buffer and location must be in the range 0 to 127")
	}

	dev, _, err := newDevice(opts)
	if err != nil {
		return err
	}
	defer dev.Close()

	d, ok := dev.RequestDump(dt, state.Location{Buffer: uint8(*buffer), Index: uint8(*loc)})
	if !ok {
		return fmt.Errorf("no %s dump at %d:%d", dt, *buffer, *loc)
	}

	if *out == "" {
		fmt.Print(hex.Dump(d))
		return nil
	}

	return romloader.Save(*out, [][]byte{d})
}

func initROM(md *modalflag.Modes) error {
	md.NewMode()

	out := md.AddString("o", "init.syx", "file to write (.syx or .mid)")
	deviceID := md.AddInt("deviceid", 0, "device id placed in the dumps")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *deviceID < 0 || *deviceID > 0x7f {
		return fmt.Errorf("device id must be in the range 0 to 127")
	}

	img := state.InitImage(uint8(*deviceID))
	err = romloader.Save(*out, img)
	if err != nil {
		return err
	}

	fmt.Printf("%d frames written to %s\n", len(img), *out)
	return nil
}

func ports(md *modalflag.Modes) error {
	md.NewMode()

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	defer midiport.CloseDriver()

	ins, outs, err := midiport.List()
	if err != nil {
		return err
	}

	fmt.Println("inputs:")
	for i, n := range ins {
		fmt.Printf("  %d: %s\n", i, n)
	}
	fmt.Println("outputs:")
	for i, n := range outs {
		fmt.Printf("  %d: %s\n", i, n)
	}

	return nil
}
