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

// Package bridge connects the control unit to the signal-processing peer.
//
// The two sides share one data register in each direction and a control
// register of four host flags. HF0 and HF1 are written by the control side,
// HF2 and HF3 by the peer. Flags written by the control side are forwarded
// only when they change.
//
// The control side never buffers more than one outgoing word, held in the
// Link until the peer's receive path is empty. Interrupts are only delivered
// once the peer's receive path is empty so that data and interrupts strictly
// alternate.
//
// Waiting is done by repeatedly calling a yield function while a condition
// holds. There is no timeout. If the peer never makes progress the calling
// goroutine never returns. This is the same as the real hardware, where a
// stuck link requires a reset.
package bridge
