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

// Package notifications allows the device to tell the rest of the program
// about events that are not part of its regular outputs.
package notifications

// Notice describes events that somehow change the presentation of the
// device.
type Notice string

// List of defined notifications.
const (
	// the mode buffer has switched between single and multi mode. the set of
	// active single edit buffers has changed
	NotifyPlayModeChanged Notice = "NotifyPlayModeChanged"

	// the control unit has finished booting
	NotifyDeviceReady Notice = "NotifyDeviceReady"

	// the device has been asked to shut down
	NotifyDeviceEnding Notice = "NotifyDeviceEnding"
)

// Notify is used for direct communication between the hardware and the rest
// of the program. Implementations must not block and may be called from the
// driving goroutine.
type Notify interface {
	Notify(notice Notice) error
}
