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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// At its simplest it can be used as a replacement for the flag package, with
// some differences. Whereas with the flag package you call Parse() with the
// array of strings as the only argument, with the modalflag package you
// first initialise the arguments list with NewArgs() and then call Parse():
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "PANEL", "DUMP")
//	p, err := md.Parse()
//
// The first sub-mode is the default. After a successful Parse() the selected
// mode is available with Mode(). Flags for the selected mode are added after
// a call to NewMode() and a second call to Parse():
//
//	md.NewMode()
//	rom := md.AddString("rom", "", "factory image")
//	p, err = md.Parse()
//
// Help is handled automatically. If the -help flag is given then Parse()
// prints the flags and sub-modes for the current mode and returns ParseHelp.
package modalflag
