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

package lcd

import (
	"strings"
	"sync"

	"github.com/jetsetilly/gophersynth/hardware/dirty"
)

// Display geometry.
const (
	Columns    = 20
	Lines      = 2
	MemorySize = Columns * Lines

	// the range of addresses for one line in the address counter
	lineAddresses = 0x28
	secondLine    = 0x40
)

// Custom character memory geometry.
const (
	CgRamSize        = 0x40
	CharHeight       = 8
	NumCustomChars   = CgRamSize / CharHeight
	cgramAddressMask = CgRamSize - 1
)

// FontTable selects one of the four character sets of the controller.
type FontTable int

// List of valid FontTable values.
const (
	EnglishJapanese FontTable = iota
	WesternEuropean1
	EnglishRussian
	WesternEuropean2
)

// DataLength is the width of the controller's data bus.
type DataLength int

// List of valid DataLength values.
const (
	Bit8 DataLength = iota
	Bit4
)

type addressMode int

const (
	ddram addressMode = iota
	cgram
)

// Instruction bits. the highest set bit selects the instruction.
const (
	instClear       = 0x01
	instHome        = 0x02
	instEntryMode   = 0x04
	instDisplay     = 0x08
	instShift       = 0x10
	instFunctionSet = 0x20
	instSetCgAddr   = 0x40
	instSetDdAddr   = 0x80
)

// LCD is the display controller. It is driven from the driving goroutine and
// read from any goroutine through the snapshot functions.
type LCD struct {
	pub dirty.Publisher

	// crit protects the memory arrays and the fields used by the snapshot
	// functions. Exec() takes the write lock.
	crit sync.RWMutex

	ddram [MemorySize]byte
	cgram [CgRamSize]byte

	ddAddr uint8
	cgAddr uint8
	mode   addressMode

	// entry mode
	increment   bool
	shiftOnData bool

	// display control
	displayOn   bool
	cursorOn    bool
	cursorBlink bool

	// display shift offset in columns. positive values are shifts to the
	// right
	shift int

	// function set
	dataLength DataLength
	twoLines   bool
	font       FontTable

	// in 4-bit mode the first write of a pair is latched here
	nibblePending bool
	nibble        uint8
}

// NewLCD is the preferred method of initialisation for the LCD type. The
// publisher can be nil.
func NewLCD(pub dirty.Publisher) *LCD {
	l := &LCD{
		pub:       pub,
		increment: true,
		displayOn: true,
		twoLines:  true,
	}
	for i := range l.ddram {
		l.ddram[i] = ' '
	}
	return l
}

func (l *LCD) publish(f dirty.Flags) {
	if l.pub != nil {
		l.pub.Publish(f)
	}
}

// Exec performs one bus access. When registerSelect is false the value is an
// instruction, when it is true the value is data for display or custom
// character memory, depending on which address was most recently set.
//
// A read returns the value and true. A write returns false. An instruction
// read returns the current address counter. A data read returns the byte at
// the current address and does not advance the address counter.
func (l *LCD) Exec(registerSelect bool, read bool, value uint8) (uint8, bool) {
	l.crit.Lock()
	defer l.crit.Unlock()

	if read {
		if !registerSelect {
			if l.mode == cgram {
				return l.cgAddr, true
			}
			return l.ddAddr, true
		}
		if l.mode == cgram {
			return l.cgram[l.cgAddr], true
		}
		return l.ddram[memoryIndex(l.ddAddr)], true
	}

	// a 4-bit bus transfers each byte as two writes, high nibble first
	if l.dataLength == Bit4 {
		if !l.nibblePending {
			l.nibblePending = true
			l.nibble = value & 0xf0
			return 0, false
		}
		l.nibblePending = false
		value = l.nibble | (value >> 4)
	}

	if registerSelect {
		l.writeData(value)
	} else {
		l.instruction(value)
	}

	return 0, false
}

func (l *LCD) writeData(value uint8) {
	delta := -1
	if l.increment {
		delta = 1
	}

	if l.mode == cgram {
		l.cgram[l.cgAddr] = value
		l.cgAddr = uint8(int(l.cgAddr)+delta) & cgramAddressMask
		l.publish(dirty.Lcd | dirty.LcdCgRam)
		return
	}

	l.ddram[memoryIndex(l.ddAddr)] = value
	l.ddAddr = stepAddress(l.ddAddr, delta)
	if l.shiftOnData {
		l.shift -= delta
	}
	l.publish(dirty.Lcd)
}

func (l *LCD) instruction(value uint8) {
	switch {
	case value&instSetDdAddr != 0:
		l.ddAddr = value &^ instSetDdAddr
		l.mode = ddram

	case value&instSetCgAddr != 0:
		l.cgAddr = value & cgramAddressMask
		l.mode = cgram

	case value&instFunctionSet != 0:
		if value&0x10 != 0 {
			l.dataLength = Bit8
		} else {
			l.dataLength = Bit4
		}
		l.twoLines = value&0x08 != 0
		l.font = FontTable(value & 0x03)
		l.nibblePending = false

	case value&instShift != 0:
		delta := -1
		if value&0x04 != 0 {
			delta = 1
		}
		if value&0x08 != 0 {
			l.shift += delta
		} else {
			l.ddAddr = stepAddress(l.ddAddr, delta)
			l.mode = ddram
		}

	case value&instDisplay != 0:
		l.displayOn = value&0x04 != 0
		l.cursorOn = value&0x02 != 0
		l.cursorBlink = value&0x01 != 0

	case value&instEntryMode != 0:
		l.increment = value&0x02 != 0
		l.shiftOnData = value&0x01 != 0

	case value&instHome != 0:
		l.ddAddr = 0
		l.shift = 0
		l.mode = ddram

	case value&instClear != 0:
		for i := range l.ddram {
			l.ddram[i] = ' '
		}
		l.ddAddr = 0
		l.shift = 0
		l.increment = true
		l.mode = ddram

	default:
		// 0x00 is not an instruction
		return
	}

	l.publish(dirty.Lcd)
}

// memoryIndex converts an address counter value to an index into display
// memory. columns beyond the visible area are clamped to the last column of
// the same line.
func memoryIndex(addr uint8) int {
	line := 0
	if addr&secondLine != 0 {
		line = 1
	}
	col := int(addr & 0x3f)
	if col >= Columns {
		col = Columns - 1
	}
	return line*Columns + col
}

// stepAddress moves the address counter by delta. the counter wraps within
// the address range of the current line and never moves to the other line.
func stepAddress(addr uint8, delta int) uint8 {
	line := addr & secondLine
	col := int(addr&0x3f) + delta

	if col >= lineAddresses {
		col = 0
	} else if col < 0 {
		col = lineAddresses - 1
	}

	return line | uint8(col)
}

// Snapshot returns a copy of display memory. The first twenty bytes are the
// first line.
func (l *LCD) Snapshot() [MemorySize]byte {
	l.crit.RLock()
	defer l.crit.RUnlock()
	return l.ddram
}

// CgRam returns a copy of custom character memory.
func (l *LCD) CgRam() [CgRamSize]byte {
	l.crit.RLock()
	defer l.crit.RUnlock()
	return l.cgram
}

// CustomCharacter returns the eight rows of the indexed custom character.
// Returns false if the index is out of range.
func (l *LCD) CustomCharacter(idx int) ([CharHeight]byte, bool) {
	var c [CharHeight]byte
	if idx < 0 || idx >= NumCustomChars {
		return c, false
	}

	l.crit.RLock()
	defer l.crit.RUnlock()
	copy(c[:], l.cgram[idx*CharHeight:])
	return c, true
}

// DisplayOn returns the state of the display on/off flag.
func (l *LCD) DisplayOn() bool {
	l.crit.RLock()
	defer l.crit.RUnlock()
	return l.displayOn
}

// Shift returns the display shift offset in columns.
func (l *LCD) Shift() int {
	l.crit.RLock()
	defer l.crit.RUnlock()
	return l.shift
}

// Lines returns the visible text of each line. Custom characters and other
// non-printable values are shown as '#'.
func (l *LCD) Lines() [Lines]string {
	mem := l.Snapshot()
	return [Lines]string{printable(mem[:Columns]), printable(mem[Columns:])}
}

func (l *LCD) String() string {
	s := l.Lines()
	return strings.Join(s[:], "\n")
}

func printable(b []byte) string {
	s := strings.Builder{}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			s.WriteByte('#')
		} else {
			s.WriteByte(c)
		}
	}
	return s.String()
}
