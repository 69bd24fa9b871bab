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

package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is used in help text and in the command line banner.
const ApplicationName = "Gophersynth"

// set by the linker for release builds
var number string

var (
	version  string
	revision string
)

// Version returns the version and the vcs revision. The third value is true
// for a release build.
//
// A build from a checkout without a release number is "unreleased". A build
// without any vcs information, such as with "go run .", is "local". The
// revision is suffixed with "+dirty" if the checkout had been modified.
func Version() (string, string, bool) {
	return version, revision, version == number
}

// Banner returns the application name and version in a form suitable for the
// first line of command line output.
func Banner() string {
	v, r, release := Version()
	if release {
		return fmt.Sprintf("%s %s", ApplicationName, v)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, v, r)
}

// buildSettings returns whether vcs information is present in the build, the
// revision and whether the checkout was modified.
func buildSettings() (bool, string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return false, "", false
	}

	var vcs, modified bool
	var rev string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs":
			vcs = true
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return vcs, rev, modified
}

func init() {
	vcs, rev, modified := buildSettings()

	switch {
	case rev == "":
		revision = "no revision information"
	case modified:
		revision = rev + "+dirty"
	default:
		revision = rev
	}

	switch {
	case number != "":
		version = number
	case vcs:
		version = "unreleased"
	default:
		version = "local"
	}
}
