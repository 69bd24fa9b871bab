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

package preferences

import (
	"fmt"

	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/paths"
	"github.com/jetsetilly/gophersynth/prefs"
)

// Preferences defines and collates all the preference values used by the
// device.
type Preferences struct {
	dsk *prefs.Disk

	// the device id placed in outbound dumps
	DeviceID prefs.Int

	// sample rate of the audio-rate context
	SampleRate prefs.Int

	// number of frames processed by one call to the audio-rate context
	BlockSize prefs.Int

	// whether the remote control commands are answered
	RemoteControl prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	p.DeviceID.SetHookPre(func(v prefs.Value) error {
		if id := v.(int); id < 0 || id > 0x7f {
			return fmt.Errorf("preferences: device id out of range (%d)", id)
		}
		return nil
	})

	p.BlockSize.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return fmt.Errorf("preferences: block size must be positive")
		}
		return nil
	})

	pth, err := paths.ResourcePath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("hardware.deviceid", &p.DeviceID)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.samplerate", &p.SampleRate)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.blocksize", &p.BlockSize)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.remotecontrol", &p.RemoteControl)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(false)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.DeviceID.Set(0)
	p.SampleRate.Set(44100)
	p.BlockSize.Set(64)
	p.RemoteControl.Set(true)
}

// Load current device preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current device preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
