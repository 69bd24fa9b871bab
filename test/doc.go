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

// Package test contains helper functions to remove common boilerplate from
// tests.
//
// The Expect functions report a test error and allow the test to continue.
// The Demand functions stop the test immediately. Use the Demand functions
// when subsequent tests depend on the value being correct, for example, when
// checking the length of a slice before iterating over it.
//
// Success and failure are interpreted according to the type of the value:
//
//	bool -> true is success
//	error -> nil is success
//	nil -> success
//
// The nil case is not obvious. Because a nil error is the usual indication of
// success, an untyped nil is also considered a success.
//
// CompareWriter implements io.Writer and should be used to capture output
// for comparison against expected strings.
package test
