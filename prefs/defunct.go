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

package prefs

// keys written by earlier versions of the preferences file. they are dropped
// when the file is next saved.
var retired = map[string]bool{
	"hardware.batchsize":   true,
	"hardware.midichannel": true,
	"hardware.emurotaries": true,
}

func isDefunct(key string) bool {
	return retired[key]
}
