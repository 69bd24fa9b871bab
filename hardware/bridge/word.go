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

import "fmt"

// Kind is the type of a word sent over the link. Words are 24 bits. The kind
// is in the top eight bits and the remaining sixteen bits are two bytes of
// payload.
type Kind uint8

// List of word kinds.
const (
	KindButton     Kind = 1
	KindEncoder    Kind = 2
	KindNote       Kind = 3
	KindParam      Kind = 4
	KindController Kind = 5
	KindProgram    Kind = 6
	KindDump       Kind = 7
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindEncoder:
		return "encoder"
	case KindNote:
		return "note"
	case KindParam:
		return "param"
	case KindController:
		return "controller"
	case KindProgram:
		return "program"
	case KindDump:
		return "dump"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// AckBit is set by the peer in the reply to a word.
const AckBit = 0x800000

// MakeWord packs a kind and two bytes of payload.
func MakeWord(kind Kind, a uint8, b uint8) uint32 {
	return uint32(kind&0x7f)<<16 | uint32(a)<<8 | uint32(b)
}

// SplitWord is the inverse of MakeWord. The ack bit is ignored.
func SplitWord(w uint32) (Kind, uint8, uint8) {
	return Kind((w >> 16) & 0x7f), uint8(w >> 8), uint8(w)
}
