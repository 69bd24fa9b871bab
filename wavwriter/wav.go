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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirity, and written to disk
// when the WavWriter is closed. It is therefore probably only suitable for
// testing and for short renders.
package wavwriter

import (
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/logger"
)

// bit depth of the written file
const bitDepth = 16

// wav format tag for integer PCM
const pcmFormat = 1

// WavWriter implements the audio.Sink interface.
type WavWriter struct {
	perm       logger.Permission
	filename   string
	sampleRate int
	channels   int

	crit   sync.Mutex
	buffer []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(perm logger.Permission, filename string, sampleRate int, channels int) (*WavWriter, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, curated.Errorf("wavwriter: %v", "bad parameters for wav encoding")
	}

	aw := &WavWriter{
		perm:       perm,
		filename:   filename,
		sampleRate: sampleRate,
		channels:   channels,
		buffer:     make([]int, 0),
	}

	return aw, nil
}

// Samples implements the audio.Sink interface. Samples are clipped to the
// range -1.0 to 1.0.
func (aw *WavWriter) Samples(out []float32) error {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	const peak = 1<<(bitDepth-1) - 1

	for _, s := range out {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		aw.buffer = append(aw.buffer, int(s*peak))
	}

	return nil
}

// Frames returns the number of frames buffered so far.
func (aw *WavWriter) Frames() int {
	aw.crit.Lock()
	defer aw.crit.Unlock()
	return len(aw.buffer) / aw.channels
}

// Close writes the buffered audio to disk.
func (aw *WavWriter) Close() (rerr error) {
	aw.crit.Lock()
	defer aw.crit.Unlock()

	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.sampleRate, bitDepth, aw.channels, pcmFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: aw.channels,
			SampleRate:  aw.sampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	logger.Logf(aw.perm, "wavwriter", "writing audio to %s", aw.filename)

	err = enc.Write(buf)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	// closing the encoder writes the final sizes to the header
	err = enc.Close()
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
