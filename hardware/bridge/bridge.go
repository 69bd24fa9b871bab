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

package bridge

import (
	"fmt"
	"math/bits"
	"runtime"
)

// Peer is the signal-processing side of the link.
type Peer interface {
	HasPendingInterrupts() bool
	InjectExternalInterrupt(id uint8)

	// the peer's receive path
	WriteRX(word uint32)
	HasRXData() bool
	RXInterruptEnabled() bool

	// the peer's transmit path
	HasTX() bool
	ReadTX() uint32
	TXInterruptEnabled() bool
	InjectTXInterrupt()

	// HF2 and HF3 are returned in bits 3 and 4
	ReadControlRegister() uint8

	// HF0 and HF1 in bits 3 and 4. the flags become visible to the peer the
	// next time it runs
	SetPendingHostFlags01(flags uint8)
}

// Link is the transient state of the link. It is discarded by Resync().
type Link struct {
	// host flags last forwarded to the peer
	HostFlags uint8

	// word waiting to be written to the peer
	PendingWord    uint32
	HasPendingWord bool

	// external interrupts waiting to be delivered. one bit per interrupt
	PendingIRQ uint8

	// the most recent word in each direction
	LastSent     uint32
	LastReceived uint32
}

func (l Link) String() string {
	s := fmt.Sprintf("hf=%02x irq=%08b sent=%06x recv=%06x", l.HostFlags, l.PendingIRQ, l.LastSent, l.LastReceived)
	if l.HasPendingWord {
		s = fmt.Sprintf("%s pending=%06x", s, l.PendingWord)
	}
	return s
}

// Bridge moves words, host flags and interrupts between a HostPort and a
// Peer.
type Bridge struct {
	host  *HostPort
	peer  Peer
	link  Link
	yield func()
}

// NewBridge is the preferred method of initialisation for the Bridge type.
func NewBridge(host *HostPort, peer Peer) *Bridge {
	return &Bridge{
		host:  host,
		peer:  peer,
		yield: runtime.Gosched,
	}
}

// SetYield changes the function called while waiting for the peer. The
// default is runtime.Gosched().
func (b *Bridge) SetYield(yield func()) {
	if yield == nil {
		yield = runtime.Gosched
	}
	b.yield = yield
}

// Link returns a copy of the current link state.
func (b *Bridge) Link() Link {
	return b.link
}

// Resync discards the link state and empties the host's receive register.
// The host flags will be forwarded again on the next call to
// TransferHostFlags().
func (b *Bridge) Resync() {
	b.link = Link{}
	b.host.reset()
	b.peer.SetPendingHostFlags01(b.host.ICR() & HostFlagMask)
}

func (b *Bridge) yieldWhile(cond func() bool) {
	for cond() {
		b.yield()
	}
}

func (b *Bridge) waitPeerRxEmpty() {
	b.yieldWhile(func() bool {
		return (b.peer.HasRXData() && b.peer.RXInterruptEnabled()) || b.peer.HasPendingInterrupts()
	})
}

// TransferHostFlags forwards HF0 and HF1 to the peer if they have changed
// since they were last forwarded.
func (b *Bridge) TransferHostFlags() {
	hf01 := b.host.ICR() & HostFlagMask
	if hf01 == b.link.HostFlags {
		return
	}
	b.waitPeerRxEmpty()
	b.link.HostFlags = hf01
	b.peer.SetPendingHostFlags01(hf01)
}

// ReadStatus returns the interface status register with HF2 and HF3 taken
// from the peer.
func (b *Bridge) ReadStatus() uint8 {
	return (b.host.isr &^ HostFlagMask) | (b.peer.ReadControlRegister() & HostFlagMask)
}

// TransferToControl moves a word from the peer to the host if the peer has
// one and the host can receive it.
func (b *Bridge) TransferToControl() bool {
	if !b.host.CanReceive() || !b.peer.HasTX() {
		return false
	}
	w := b.peer.ReadTX()
	b.host.write(w)
	b.link.LastReceived = w
	return true
}

// TransferToPeer writes a word to the peer. The peer's receive path must be
// empty.
func (b *Bridge) TransferToPeer(word uint32) {
	b.peer.WriteRX(word)
	b.link.LastSent = word
}

// RxEmpty tells the peer that the host's receive register is empty. If the
// host needs more data it waits until the peer has either serviced all its
// interrupts and has a word ready, or has disabled its transmit interrupt.
func (b *Bridge) RxEmpty(needMore bool) {
	b.peer.InjectTXInterrupt()
	if needMore {
		b.yieldWhile(func() bool {
			return b.peer.HasPendingInterrupts() || (b.peer.TXInterruptEnabled() && !b.peer.HasTX())
		})
	}
	b.TransferToControl()
}

// SendInterrupt delivers an external interrupt to the peer and waits for
// the peer to service it.
func (b *Bridge) SendInterrupt(id uint8) {
	b.waitPeerRxEmpty()
	b.peer.InjectExternalInterrupt(id)
	b.yieldWhile(b.peer.HasPendingInterrupts)
	b.TransferToControl()
}

// Queue sets the word to be written to the peer. Returns false if a word is
// already waiting.
func (b *Bridge) Queue(word uint32) bool {
	if b.link.HasPendingWord {
		return false
	}
	b.link.PendingWord = word
	b.link.HasPendingWord = true
	return true
}

// RaiseInterrupt marks an external interrupt for delivery. Interrupt ids
// are 0 to 7.
func (b *Bridge) RaiseInterrupt(id uint8) {
	b.link.PendingIRQ |= 1 << (id & 0x07)
}

// Receive takes a word from the host's receive register. If the register is
// empty the peer is told so and, if needMore is true, the call waits for
// the peer.
func (b *Bridge) Receive(needMore bool) (uint32, bool) {
	if b.host.CanReceive() {
		b.RxEmpty(needMore)
	}
	return b.host.Read()
}

// Step services the link once. Host flags are forwarded, one pending
// interrupt is delivered, a waiting word from the peer is moved to the host
// and the pending word is written to the peer if the peer's receive path is
// empty.
func (b *Bridge) Step() {
	b.TransferHostFlags()

	if b.link.PendingIRQ != 0 {
		id := uint8(bits.TrailingZeros8(b.link.PendingIRQ))
		b.link.PendingIRQ &^= 1 << id
		b.SendInterrupt(id)
	}

	b.TransferToControl()

	if b.link.HasPendingWord && !b.peer.HasRXData() {
		b.TransferToPeer(b.link.PendingWord)
		b.link.HasPendingWord = false
	}
}
