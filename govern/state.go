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

// Package govern defines the states a device's driving goroutine moves
// through.
package govern

// State indicates the device's state.
type State int

// List of possible device states. States advance in this order, except that
// a reset returns a running device to Initialising.
//
// Initialising is the state from construction, or from a reset, until the
// control unit has booted.
const (
	Initialising State = iota
	Running
	Ending
	Ended
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "Initialising"
	case Running:
		return "Running"
	case Ending:
		return "Ending"
	case Ended:
		return "Ended"
	}
	return ""
}
