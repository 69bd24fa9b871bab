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

// Package curated is a helper package for the plain Go language error type.
// Curated errors are created with Errorf() using a pattern string. The pattern
// is kept with the error so that the error can later be identified with the
// Is() and Has() functions, without resorting to string comparison of the
// formatted message.
//
// Packages that raise curated errors export the patterns they use as string
// constants. For example, the hardware package exports ResourceUnavailable
// which is raised when a device cannot be constructed because a factory
// image is missing:
//
//	dev, err := hardware.NewDevice(env, peer, images)
//	if curated.Is(err, hardware.ResourceUnavailable) {
//		...
//	}
//
// Chained errors are supported by passing a curated error as one of the
// values. Has() will search the chain for a matching pattern. Error() removes
// duplicate adjacent parts of the chain so that messages like "state: state:
// bad dump" read as "state: bad dump".
package curated
