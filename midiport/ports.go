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

package midiport

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/jetsetilly/gophersynth/curated"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	// registers the rtmidi driver with the drivers package
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// size of the buffer used for inbound system exclusive messages. large enough
// for the biggest dump with room to spare
const sysexBufferSize = 4096

// List returns the names of the input and output ports of the host system.
func List() ([]string, []string, error) {
	ins, err := drivers.Ins()
	if err != nil {
		return nil, nil, curated.Errorf(PortError, err)
	}
	outs, err := drivers.Outs()
	if err != nil {
		return nil, nil, curated.Errorf(PortError, err)
	}

	var inNames, outNames []string
	for _, p := range ins {
		inNames = append(inNames, p.String())
	}
	for _, p := range outs {
		outNames = append(outNames, p.String())
	}

	return inNames, outNames, nil
}

// CloseDriver releases the rtmidi driver. It should be called once, after
// every Ports instance has been closed.
func CloseDriver() {
	midi.CloseDriver()
}

// matchPort decides whether the port is the one named by the user. The name
// can be the port number or a case insensitive substring of the port name.
func matchPort(name string, number int, portName string) bool {
	if n, err := strconv.Atoi(name); err == nil {
		return n == number
	}
	return strings.Contains(strings.ToLower(portName), strings.ToLower(name))
}

// Ports is a Transport using the MIDI ports of the host system.
type Ports struct {
	crit sync.Mutex

	in   drivers.In
	out  drivers.Out
	stop func()
}

// NewPorts is the preferred method of initialisation for the Ports type. Either
// name can be empty, in which case that direction is not connected.
func NewPorts(inName string, outName string) (*Ports, error) {
	p := &Ports{}

	if inName != "" {
		ins, err := drivers.Ins()
		if err != nil {
			return nil, curated.Errorf(PortError, err)
		}
		for _, in := range ins {
			if matchPort(inName, in.Number(), in.String()) {
				p.in = in
				break // for loop
			}
		}
		if p.in == nil {
			return nil, curated.Errorf(NoSuchPort, inName)
		}
	}

	if outName != "" {
		outs, err := drivers.Outs()
		if err != nil {
			return nil, curated.Errorf(PortError, err)
		}
		for _, out := range outs {
			if matchPort(outName, out.Number(), out.String()) {
				p.out = out
				break // for loop
			}
		}
		if p.out == nil {
			return nil, curated.Errorf(NoSuchPort, outName)
		}
		if err := p.out.Open(); err != nil {
			return nil, curated.Errorf(PortError, err)
		}
	}

	return p, nil
}

func (p *Ports) String() string {
	in := "none"
	if p.in != nil {
		in = p.in.String()
	}
	out := "none"
	if p.out != nil {
		out = p.out.String()
	}
	return fmt.Sprintf("in: %s, out: %s", in, out)
}

// Listen implements the Transport interface.
func (p *Ports) Listen(f func(msg []byte)) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.in == nil {
		return curated.Errorf(NoSuchPort, "no input port")
	}
	if p.stop != nil {
		return curated.Errorf(AlreadyListen)
	}

	stop, err := midi.ListenTo(p.in, func(msg midi.Message, _ int32) {
		f(msg.Bytes())
	}, midi.UseSysEx(), midi.SysExBufferSize(sysexBufferSize))
	if err != nil {
		return curated.Errorf(PortError, err)
	}
	p.stop = stop

	return nil
}

// Send implements the Transport interface. Messages sent to a Ports instance
// with no output port are discarded.
func (p *Ports) Send(msg []byte) error {
	if p.out == nil {
		return nil
	}
	if err := p.out.Send(msg); err != nil {
		return curated.Errorf(PortError, err)
	}
	return nil
}

// Close implements the Transport interface.
func (p *Ports) Close() error {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.stop != nil {
		p.stop()
		p.stop = nil
	}

	var err error
	if p.in != nil && p.in.IsOpen() {
		err = p.in.Close()
	}
	if p.out != nil && p.out.IsOpen() {
		if e := p.out.Close(); err == nil {
			err = e
		}
	}

	if err != nil {
		return curated.Errorf(PortError, err)
	}
	return nil
}
