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

// Package logger is the central log for the application. Entries are added
// with Log() and Logf(). Each call takes a Permission which decides whether
// the entry should be made at all. This is useful when more than one device
// exists in the program and only the main device should write to the log.
//
// Identical consecutive entries are collapsed into one entry with a repeat
// count. The log holds a fixed number of entries, older entries being
// discarded as new ones arrive.
//
// The log is safe to use from any goroutine.
package logger
