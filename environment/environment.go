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

// Package environment is used to provide context for a device instance.
package environment

import (
	"github.com/jetsetilly/gophersynth/hardware/preferences"
	"github.com/jetsetilly/gophersynth/notifications"
)

// Label is used to name the environment.
type Label string

// MainDevice is the label of the environment for the device the user sees.
// Other devices, for example those created by tests or by the DUMP mode,
// should use a different label.
const MainDevice = Label("")

// Environment is used to provide context for a device. Particularly useful
// when using more than one device.
type Environment struct {
	Label Label

	// the device preferences
	Prefs *preferences.Preferences

	// notifications from the device. can be nil
	Notify notifications.Notify
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type.
//
// The prefs argument can be nil, in which case a new Preferences instance is
// created. Providing a non-nil value allows the preferences of more than one
// device to be synchronised.
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label: label,
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	env.Prefs = prefs

	return env, nil
}

// Normalise ensures the environment is in a known default state. Useful for
// testing where the initial state must be the same for every run.
func (env *Environment) Normalise() {
	env.Prefs.SetDefaults()
}

// IsMainDevice returns true if the environment is intended for the main
// device in the system.
func (env *Environment) IsMainDevice() bool {
	return env.Label == MainDevice
}

// AllowLogging implements the logger.Permission interface. Only the main
// device is allowed to log.
func (env *Environment) AllowLogging() bool {
	return env.IsMainDevice()
}

// Notice forwards the notice to the Notify implementation, if there is one.
func (env *Environment) Notice(notice notifications.Notice) error {
	if env.Notify == nil {
		return nil
	}
	return env.Notify.Notify(notice)
}
