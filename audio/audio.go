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

package audio

// Processor is the audio-rate interface of a device. Buffers are interleaved
// stereo.
type Processor interface {
	Process(in []float32, out []float32)
}

// Sink receives the output of every call to Process(). The buffer is reused
// after the function returns.
type Sink interface {
	Samples(out []float32) error
}

// Channels is the number of interleaved channels in every buffer.
const Channels = 2

// block is the buffer pair used for a single call to Process().
type block struct {
	in  []float32
	out []float32
}

func newBlock(frames int) block {
	return block{
		in:  make([]float32, frames*Channels),
		out: make([]float32, frames*Channels),
	}
}

// process fills the input buffer from the Input and calls the Processor. The
// Input can be nil, in which case the input buffer is silent.
func (b block) process(p Processor, in *Input) {
	if in != nil {
		in.Read(b.in)
	} else {
		clear(b.in)
	}
	p.Process(b.in, b.out)
}
