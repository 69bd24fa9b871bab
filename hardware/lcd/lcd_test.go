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

package lcd_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/test"
)

// counter records every publish so that the number of notifications can be
// tested as well as the flags.
type counter struct {
	calls []dirty.Flags
}

func (c *counter) Publish(f dirty.Flags) {
	c.calls = append(c.calls, f)
}

func (c *counter) count(f dirty.Flags) int {
	n := 0
	for _, d := range c.calls {
		if d.Has(f) {
			n++
		}
	}
	return n
}

func instruction(l *lcd.LCD, v uint8) {
	l.Exec(false, false, v)
}

func write(l *lcd.LCD, s string) {
	for _, c := range []byte(s) {
		l.Exec(true, false, c)
	}
}

func TestClearAndWrite(t *testing.T) {
	c := &counter{}
	l := lcd.NewLCD(c)

	instruction(l, 0x38) // function set: 8-bit, two lines
	instruction(l, 0x0c) // display on
	instruction(l, 0x01) // clear
	instruction(l, 0x06) // entry mode: increment
	test.ExpectEquality(t, c.count(dirty.Lcd), 4)

	write(l, "gophersynth")
	test.ExpectEquality(t, c.count(dirty.Lcd), 4+11)
	test.ExpectEquality(t, c.count(dirty.LcdCgRam), 0)

	lines := l.Lines()
	test.ExpectEquality(t, lines[0], "gophersynth         ")
	test.ExpectEquality(t, lines[1], "                    ")
}

func TestNullInstruction(t *testing.T) {
	c := &counter{}
	l := lcd.NewLCD(c)
	instruction(l, 0x00)
	test.ExpectEquality(t, len(c.calls), 0)
}

func TestAddressing(t *testing.T) {
	tests := []struct {
		addr uint8
		text string
		idx  int
	}{
		{addr: 0x00, text: "abc", idx: 0},
		{addr: 0x05, text: "hello", idx: 5},
		{addr: 0x40, text: "line two", idx: 20},
		{addr: 0x4a, text: "xyz", idx: 30},
	}

	for _, tt := range tests {
		l := lcd.NewLCD(nil)
		instruction(l, 0x80|tt.addr)
		write(l, tt.text)

		mem := l.Snapshot()
		test.ExpectEquality(t, string(mem[tt.idx:tt.idx+len(tt.text)]), tt.text, tt.addr)

		// read back at consecutive addresses. reads do not advance the
		// address counter so the address is set before each read
		for i := range len(tt.text) {
			instruction(l, 0x80|(tt.addr+uint8(i)))
			v, ok := l.Exec(true, true, 0)
			test.ExpectSuccess(t, ok)
			test.ExpectEquality(t, v, tt.text[i], tt.addr, i)
		}
	}
}

func TestReadDoesNotAdvance(t *testing.T) {
	l := lcd.NewLCD(nil)
	instruction(l, 0x80|0x03)
	write(l, "A")

	// address counter is now 0x04
	a, ok := l.Exec(false, true, 0)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, a, uint8(0x04))

	l.Exec(true, true, 0)
	l.Exec(true, true, 0)
	a, _ = l.Exec(false, true, 0)
	test.ExpectEquality(t, a, uint8(0x04))
}

func TestClampToLine(t *testing.T) {
	l := lcd.NewLCD(nil)

	// fill the second line with a marker
	instruction(l, 0x80|0x40)
	write(l, "--------------------")

	// write 25 characters to the first line
	instruction(l, 0x80|0x00)
	write(l, "0123456789abcdefghijKLMNO")

	lines := l.Lines()
	test.ExpectEquality(t, lines[0], "0123456789abcdefghiO")
	test.ExpectEquality(t, lines[1], "--------------------")
}

func TestDecrement(t *testing.T) {
	l := lcd.NewLCD(nil)
	instruction(l, 0x04) // entry mode: decrement
	instruction(l, 0x80|0x42)
	write(l, "abc")

	mem := l.Snapshot()
	test.ExpectEquality(t, string(mem[20:23]), "cba")

	// decrementing past the start of the second line wraps to the end of
	// the same line's address range, which is clamped to the last visible
	// column of that line
	write(l, "Z")
	mem = l.Snapshot()
	test.ExpectEquality(t, mem[39], byte('Z'))
	test.ExpectEquality(t, mem[19], byte(' '))
}

func TestWrapWithinLine(t *testing.T) {
	l := lcd.NewLCD(nil)
	instruction(l, 0x80|0x27)
	write(l, "!x")

	mem := l.Snapshot()
	test.ExpectEquality(t, mem[19], byte('!'))
	test.ExpectEquality(t, mem[0], byte('x'))
	test.ExpectEquality(t, mem[20], byte(' '))

	instruction(l, 0x80|0x67)
	write(l, "?y")

	mem = l.Snapshot()
	test.ExpectEquality(t, mem[39], byte('?'))
	test.ExpectEquality(t, mem[20], byte('y'))
	test.ExpectEquality(t, mem[0], byte('x'))

	// running past the end of the first line never reaches the second
	instruction(l, 0x01)
	instruction(l, 0x80|0x00)
	write(l, strings.Repeat("#", lcd.MemorySize*2))
	lines := l.Lines()
	test.ExpectEquality(t, lines[1], strings.Repeat(" ", lcd.Columns))
}

func TestCursorShift(t *testing.T) {
	l := lcd.NewLCD(nil)
	instruction(l, 0x80|0x05)
	instruction(l, 0x14) // cursor right
	instruction(l, 0x14) // cursor right
	instruction(l, 0x10) // cursor left
	write(l, "q")

	mem := l.Snapshot()
	test.ExpectEquality(t, mem[6], byte('q'))

	instruction(l, 0x1c) // display right
	instruction(l, 0x1c) // display right
	instruction(l, 0x18) // display left
	test.ExpectEquality(t, l.Shift(), 1)

	instruction(l, 0x02) // home
	test.ExpectEquality(t, l.Shift(), 0)
}

func TestDisplayControl(t *testing.T) {
	l := lcd.NewLCD(nil)
	instruction(l, 0x08)
	test.ExpectFailure(t, l.DisplayOn())
	instruction(l, 0x0c)
	test.ExpectSuccess(t, l.DisplayOn())
}

func TestCustomCharacters(t *testing.T) {
	c := &counter{}
	l := lcd.NewLCD(c)

	glyph := []byte{0x1f, 0x11, 0x11, 0x11, 0x11, 0x11, 0x1f, 0x00}

	instruction(l, 0x40|(2*lcd.CharHeight))
	for _, g := range glyph {
		l.Exec(true, false, g)
	}
	test.ExpectEquality(t, c.count(dirty.LcdCgRam), len(glyph))
	test.ExpectEquality(t, c.count(dirty.Lcd), len(glyph)+1)

	ch, ok := l.CustomCharacter(2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, string(ch[:]), string(glyph))

	_, ok = l.CustomCharacter(lcd.NumCustomChars)
	test.ExpectFailure(t, ok)
	_, ok = l.CustomCharacter(-1)
	test.ExpectFailure(t, ok)

	// display memory is unaffected by custom character writes
	lines := l.Lines()
	test.ExpectEquality(t, lines[0], "                    ")

	cg := l.CgRam()
	test.ExpectEquality(t, cg[2*lcd.CharHeight], uint8(0x1f))
}

func TestFourBit(t *testing.T) {
	l := lcd.NewLCD(nil)

	// function set with DL=0 arrives as a single 8-bit write
	instruction(l, 0x28)

	// the following bytes arrive as pairs of nibbles, high nibble first
	nibbles := func(rs bool, v uint8) {
		l.Exec(rs, false, v&0xf0)
		l.Exec(rs, false, v<<4)
	}

	nibbles(false, 0x80|0x40)
	nibbles(true, 'H')
	nibbles(true, 'i')

	lines := l.Lines()
	test.ExpectEquality(t, lines[1][:2], "Hi")
}
