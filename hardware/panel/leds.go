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

package panel

import (
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/gophersynth/hardware/dirty"
)

// Leds is the state of the front panel LEDs. LEDs are set by the control
// unit and read from any goroutine.
type Leds struct {
	pub  dirty.Publisher
	mask atomic.Uint32
}

// NewLeds is the preferred method of initialisation for the Leds type. The
// publisher can be nil.
func NewLeds(pub dirty.Publisher) *Leds {
	return &Leds{pub: pub}
}

func (l *Leds) String() string {
	s := strings.Builder{}
	for led := range NumLeds {
		if l.State(led) {
			if s.Len() > 0 {
				s.WriteString(" ")
			}
			s.WriteString(led.String())
		}
	}
	return s.String()
}

// Set changes the state of an LED. dirty.Leds is published if the state
// changes. Returns false if the LED does not exist.
func (l *Leds) Set(led Led, on bool) bool {
	if led < 0 || led >= NumLeds {
		return false
	}

	bit := uint32(1) << led
	for {
		old := l.mask.Load()
		nw := old &^ bit
		if on {
			nw |= bit
		}
		if nw == old {
			return true
		}
		if l.mask.CompareAndSwap(old, nw) {
			break // for loop
		}
	}

	if l.pub != nil {
		l.pub.Publish(dirty.Leds)
	}
	return true
}

// Toggle inverts the state of an LED.
func (l *Leds) Toggle(led Led) bool {
	return l.Set(led, !l.State(led))
}

// State returns true if the LED is lit. Unknown LEDs are never lit.
func (l *Leds) State(led Led) bool {
	if led < 0 || led >= NumLeds {
		return false
	}
	return l.mask.Load()&(1<<led) != 0
}

// Mask returns the state of all LEDs. Bit N is set if LED N is lit.
func (l *Leds) Mask() uint32 {
	return l.mask.Load()
}
