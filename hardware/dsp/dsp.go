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

// Package dsp is a reference signal-processing peer for the bridge. It does
// not emulate a DSP. It implements just enough of one for the control unit
// to have something to talk to: it acknowledges every word it receives,
// services interrupts and scales audio by a gain taken from the master
// encoder.
//
// The peer only advances when ProcessAudio() is called. Anything waiting on
// the peer therefore waits on audio being produced.
package dsp

import (
	"fmt"
	"sync"

	"github.com/jetsetilly/gophersynth/hardware/bridge"
)

// host flag bits
const (
	hf0 = 1 << 3
	hf1 = 1 << 4
	hf2 = 1 << 3
	hf3 = 1 << 4
)

// GainEncoder is the encoder id whose words set the output gain.
const GainEncoder = 7

var _ bridge.Peer = (*Peer)(nil)

// Peer is the reference signal-processing peer.
type Peer struct {
	crit sync.Mutex

	rx    uint32
	hasRX bool
	tx    uint32
	hasTX bool

	reply    uint32
	hasReply bool

	external  []uint8
	txPending bool

	rxIntEnabled bool
	txIntEnabled bool

	pendingHF01 uint8
	hf01        uint8

	// HF2 and HF3
	cr uint8

	gain float32

	// statistics
	received int
	serviced int
}

// NewPeer is the preferred method of initialisation for the Peer type.
func NewPeer() *Peer {
	return &Peer{
		gain: 1.0,
	}
}

func (p *Peer) String() string {
	p.crit.Lock()
	defer p.crit.Unlock()
	return fmt.Sprintf("rx=%v tx=%v hf=%02x cr=%02x gain=%.2f recv=%d irq=%d",
		p.hasRX, p.hasTX, p.hf01, p.cr, p.gain, p.received, p.serviced)
}

// HasPendingInterrupts implements the bridge.Peer interface.
func (p *Peer) HasPendingInterrupts() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return len(p.external) > 0 || p.txPending
}

// InjectExternalInterrupt implements the bridge.Peer interface.
func (p *Peer) InjectExternalInterrupt(id uint8) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.external = append(p.external, id)
}

// WriteRX implements the bridge.Peer interface.
func (p *Peer) WriteRX(word uint32) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.rx = word
	p.hasRX = true
}

// HasRXData implements the bridge.Peer interface.
func (p *Peer) HasRXData() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.hasRX
}

// RXInterruptEnabled implements the bridge.Peer interface.
func (p *Peer) RXInterruptEnabled() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.rxIntEnabled
}

// HasTX implements the bridge.Peer interface.
func (p *Peer) HasTX() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.hasTX
}

// ReadTX implements the bridge.Peer interface.
func (p *Peer) ReadTX() uint32 {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.hasTX = false
	return p.tx
}

// TXInterruptEnabled implements the bridge.Peer interface.
func (p *Peer) TXInterruptEnabled() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.txIntEnabled
}

// InjectTXInterrupt implements the bridge.Peer interface. The interrupt is
// only raised if the transmit interrupt is enabled.
func (p *Peer) InjectTXInterrupt() {
	p.crit.Lock()
	defer p.crit.Unlock()
	if p.txIntEnabled {
		p.txPending = true
	}
}

// ReadControlRegister implements the bridge.Peer interface.
func (p *Peer) ReadControlRegister() uint8 {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.cr
}

// SetPendingHostFlags01 implements the bridge.Peer interface.
func (p *Peer) SetPendingHostFlags01(flags uint8) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.pendingHF01 = flags & (hf0 | hf1)
}

// Gain returns the current output gain.
func (p *Peer) Gain() float32 {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.gain
}

// step runs the peer's program once. must be called with the critical
// section held.
func (p *Peer) step() {
	// HF0 enables the receive interrupt. HF1 is echoed back as HF3
	p.hf01 = p.pendingHF01
	p.rxIntEnabled = p.hf01&hf0 == hf0
	if p.hf01&hf1 == hf1 {
		p.cr |= hf3
	} else {
		p.cr &^= hf3
	}

	// one reply is outstanding at most
	if p.hasRX && !p.hasReply {
		w := p.rx
		p.hasRX = false
		p.received++
		p.consume(w)
	}

	switch {
	case len(p.external) > 0:
		p.external = p.external[1:]
		p.cr ^= hf2
		p.serviced++
	case p.txPending:
		p.txPending = false
		p.serviced++
		if p.hasReply && !p.hasTX {
			p.tx = p.reply
			p.hasTX = true
			p.hasReply = false
		}
		// nothing more to send
		if !p.hasReply {
			p.txIntEnabled = false
		}
	}
}

func (p *Peer) consume(w uint32) {
	kind, a, b := bridge.SplitWord(w)
	if kind == bridge.KindEncoder && a == GainEncoder {
		p.gain = float32(b) / 127
	}

	p.reply = w | bridge.AckBit
	p.hasReply = true
	p.txIntEnabled = true
}

// Step advances the peer once without producing audio.
func (p *Peer) Step() {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.step()
}

// ProcessAudio advances the peer once per frame. Input and output are
// interleaved stereo. The input can be nil.
func (p *Peer) ProcessAudio(in []float32, out []float32) {
	p.crit.Lock()
	defer p.crit.Unlock()

	frames := len(out) / 2
	for f := range frames {
		p.step()
		for c := range 2 {
			i := f*2 + c
			if i < len(in) {
				out[i] = in[i] * p.gain
			} else {
				out[i] = 0
			}
		}
	}
}
