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

// Package macro implements an input system that processes instructions from a
// macro script.
//
// The first line of a macro file must be "gophersynthmacro" and the second
// line is a version string, which is currently ignored.
//
// The macro language is very simple and does not implement any flow control
// except basic loops.
//
//	DO loopCt [loopName]
//		...
//	LOOP
//
// The 'loopName' parameter is optional. When a loop is named the current
// counter value can be referenced as a variable with the % symbol, in place
// of a number in the ROTATE and DUMP instructions. Loops can be nested.
//
// The WAIT instruction pauses the execution of the macro for the specified
// number of milliseconds. If no value is given the wait defaults to 100ms.
//
// The panel is controlled with the following instructions. Button and encoder
// names are those used by the panel package (eg. PLAY, INST1, MASTER).
//
//	PRESS button
//	RELEASE button
//	ROTATE encoder delta
//
// Inbound MIDI can be sent to the device. The bytes are written in hex,
// separated by spaces.
//
//	SYSEX F0 3E 0E 00 52 F7
//
// A dump can be requested from the parameter memory. The dump type is one of
// single, multi, global or mode.
//
//	DUMP single 0 5
//
// The responses to SYSEX and DUMP instructions are passed to the output
// function given to NewMacro().
//
// The LCD instruction writes the contents of the display to the log. The
// RESET instruction switches the device off and on again.
//
// Any errors in a macro script will result in a log entry and the termination
// of the macro execution.
//
// Lines can be commented by prefixing the line with two dashes (--). Leading
// and trailing white space is ignored.
package macro
