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

// Framer assembles a raw MIDI byte stream into complete messages. Running
// status is honoured and realtime bytes are delivered as soon as they arrive,
// even in the middle of another message.
type Framer struct {
	running uint8
	pending []byte
	need    int
	sysex   bool
}

// dataLength returns the number of data bytes that follow a status byte. A
// negative value means the status is not one that starts a fixed length
// message.
func dataLength(status uint8) int {
	switch status & 0xf0 {
	case 0x80, 0x90, 0xa0, 0xb0, 0xe0:
		return 2
	case 0xc0, 0xd0:
		return 1
	}

	switch status {
	case 0xf1, 0xf3:
		return 1
	case 0xf2:
		return 2
	case 0xf6:
		return 0
	}

	return -1
}

// Write adds bytes to the stream. The function is called once for each
// message completed by the new bytes. The message passed to the function is
// not retained by the Framer.
func (fr *Framer) Write(data []byte, f func(msg []byte)) {
	for _, b := range data {
		// realtime
		if b >= 0xf8 {
			f([]byte{b})
			continue // for loop
		}

		if fr.sysex {
			if b == 0xf7 {
				fr.pending = append(fr.pending, b)
				f(fr.pending)
				fr.reset()
				continue // for loop
			}
			if b&0x80 == 0 {
				fr.pending = append(fr.pending, b)
				continue // for loop
			}

			// any other status byte terminates the sysex message. the
			// incomplete message is dropped and the status byte is processed
			// normally
			fr.reset()
		}

		if b&0x80 != 0 {
			fr.status(b, f)
			continue // for loop
		}

		// data byte with no status to attach it to
		if fr.running == 0 && len(fr.pending) == 0 {
			continue // for loop
		}

		// start of a message using running status
		if len(fr.pending) == 0 {
			fr.pending = append(fr.pending, fr.running)
			fr.need = dataLength(fr.running)
		}

		fr.pending = append(fr.pending, b)
		fr.need--
		if fr.need == 0 {
			f(fr.pending)
			fr.pending = fr.pending[:0]
		}
	}
}

func (fr *Framer) status(b uint8, f func(msg []byte)) {
	fr.pending = fr.pending[:0]

	if b == 0xf0 {
		fr.sysex = true
		fr.running = 0
		fr.pending = append(fr.pending, b)
		return
	}

	n := dataLength(b)
	if n < 0 {
		// undefined status or an end byte outside of a sysex message
		fr.running = 0
		return
	}

	// only channel messages set running status. system common messages
	// clear it
	if b < 0xf0 {
		fr.running = b
	} else {
		fr.running = 0
	}

	if n == 0 {
		f([]byte{b})
		return
	}

	fr.pending = append(fr.pending, b)
	fr.need = n
}

func (fr *Framer) reset() {
	fr.pending = fr.pending[:0]
	fr.sysex = false
	fr.need = 0
}
