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

package romloader

import (
	"path/filepath"
	"strings"
)

// FileExtensions is the list of file extensions that are recognised by the
// romloader package.
var FileExtensions = [...]string{".SYX", ".MID", ".MIDI", ".SMF"}

type format int

const (
	formatUnknown format = iota
	formatSysEx
	formatSMF
)

func formatFromFilename(filename string) format {
	switch strings.ToUpper(filepath.Ext(filename)) {
	case ".SYX":
		return formatSysEx
	case ".MID", ".MIDI", ".SMF":
		return formatSMF
	}
	return formatUnknown
}
