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

// Package paths contains functions to prepare paths for gophersynth resources.
//
// The ResourcePath() function returns the correct path to the named resource.
// Resources live in the .gophersynth directory of the current working
// directory if it exists, otherwise in the gophersynth directory of the
// user's configuration directory (as reported by os.UserConfigDir()).
//
// The base directory is created if it does not exist.
package paths
