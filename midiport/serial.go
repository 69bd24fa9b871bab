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
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/logger"
	"github.com/pkg/term"
)

// DefaultBaud is the speed of a standard MIDI serial line.
const DefaultBaud = 31250

// how long a read of the tty waits before checking whether the Serial has
// been closed
const readTimeout = 100 * time.Millisecond

// Serial is a Transport using a raw MIDI byte stream on a tty.
type Serial struct {
	name string
	t    *term.Term

	crit      sync.Mutex
	listening bool
	quit      atomic.Bool
	done      chan struct{}
}

// NewSerial is the preferred method of initialisation for the Serial type.
// The tty is put into raw mode at the specified speed.
func NewSerial(name string, baud int) (*Serial, error) {
	t, err := term.Open(name, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, curated.Errorf(PortError, err)
	}
	err = t.SetReadTimeout(readTimeout)
	if err != nil {
		_ = t.Close()
		return nil, curated.Errorf(PortError, err)
	}
	return &Serial{
		name: name,
		t:    t,
		done: make(chan struct{}),
	}, nil
}

func (s *Serial) String() string {
	return fmt.Sprintf("serial: %s", s.name)
}

// Listen implements the Transport interface.
func (s *Serial) Listen(f func(msg []byte)) error {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.listening {
		return curated.Errorf(AlreadyListen)
	}
	s.listening = true

	go func() {
		defer close(s.done)
		err := ReadStream(s.t, s.quit.Load, f)
		if err != nil {
			logger.Logf(logger.Allow, "midiport", "%s: %v", s.name, err)
		}
	}()

	return nil
}

// ReadStream frames the MIDI byte stream read from r and calls f with each
// complete message. The message passed to f is a copy and can be retained.
//
// ReadStream returns when stop() returns true or when the reader fails. A
// read that returns io.EOF with no data is a read timeout on a tty and is not
// a failure.
func ReadStream(r io.Reader, stop func() bool, f func(msg []byte)) error {
	var fr Framer
	buf := make([]byte, 256)
	deliver := func(msg []byte) {
		f(append([]byte(nil), msg...))
	}

	for !stop() {
		n, err := r.Read(buf)
		if n > 0 {
			fr.Write(buf[:n], deliver)
		}
		if err != nil {
			if errors.Is(err, io.EOF) && n == 0 {
				continue // for loop
			}
			return err
		}
	}

	return nil
}

// Send implements the Transport interface.
func (s *Serial) Send(msg []byte) error {
	_, err := s.t.Write(msg)
	if err != nil {
		return curated.Errorf(PortError, err)
	}
	return nil
}

// Close implements the Transport interface.
func (s *Serial) Close() error {
	s.quit.Store(true)

	s.crit.Lock()
	listening := s.listening
	s.crit.Unlock()

	if listening {
		<-s.done
	}

	err := s.t.Close()

	if err != nil {
		return curated.Errorf(PortError, err)
	}
	return nil
}
