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

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/logger"
)

// UnsupportedInput is the error pattern returned by LoadInput() for files
// that are not WAV or MP3 files.
const UnsupportedInput = "audio: unsupported input file: %s"

// Input is a stereo recording fed to the audio inputs of a device.
type Input struct {
	crit sync.Mutex

	// interleaved stereo samples in the range -1.0 to 1.0
	data []float32
	idx  int

	// loop to the start of the recording when the end is reached
	Loop bool

	SampleRate int
}

// NewInput creates an Input from interleaved stereo samples.
func NewInput(data []float32, sampleRate int) *Input {
	return &Input{
		data:       data,
		SampleRate: sampleRate,
	}
}

// Len returns the number of frames in the recording.
func (in *Input) Len() int {
	return len(in.data) / Channels
}

// Read fills the buffer with the next samples of the recording. The buffer is
// filled with silence once the end of the recording is reached, unless Loop
// is true.
func (in *Input) Read(buf []float32) {
	in.crit.Lock()
	defer in.crit.Unlock()

	n := 0
	for n < len(buf) {
		if in.idx >= len(in.data) {
			if !in.Loop || len(in.data) == 0 {
				clear(buf[n:])
				return
			}
			in.idx = 0
		}
		c := copy(buf[n:], in.data[in.idx:])
		n += c
		in.idx += c
	}
}

// LoadInput reads a WAV or MP3 file. A mono recording is copied to both
// channels. The recording is not resampled, a difference in the sample rate
// of the file and of the device is logged.
func LoadInput(perm logger.Permission, filename string, sampleRate int) (*Input, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	defer f.Close()

	var in *Input

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		in, err = decodeWAV(f)
	case ".mp3":
		in, err = decodeMP3(f)
	default:
		return nil, curated.Errorf(UnsupportedInput, filename)
	}
	if err != nil {
		return nil, err
	}

	logger.Logf(perm, "audio", "%s: %d frames at %dHz", filename, in.Len(), in.SampleRate)
	if in.SampleRate != sampleRate {
		logger.Logf(perm, "audio", "%s: sample rate differs from device (%dHz)", filename, sampleRate)
	}

	return in, nil
}

func decodeWAV(r io.ReadSeeker) (*Input, error) {
	dec := wav.NewDecoder(r)
	if dec == nil {
		return nil, fmt.Errorf("wav: error decoding")
	}

	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	floatBuf := buf.AsFloat32Buffer()

	// the float buffer holds the integer sample values. scale them to the
	// range of the device
	if dec.BitDepth == 0 || dec.NumChans == 0 {
		return nil, fmt.Errorf("wav: unsupported format")
	}
	scale := float32(int(1) << (dec.BitDepth - 1))
	chans := int(dec.NumChans)

	frames := len(floatBuf.Data) / chans
	data := make([]float32, 0, frames*Channels)
	for i := 0; i < frames; i++ {
		l := floatBuf.Data[i*chans] / scale
		r := l
		if chans > 1 {
			r = floatBuf.Data[i*chans+1] / scale
		}
		data = append(data, l, r)
	}

	return NewInput(data, int(dec.SampleRate)), nil
}

func decodeMP3(r io.Reader) (*Input, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	// the decoded stream is always 16bit little endian stereo, even if the
	// source is a single channel file
	var size int
	if l := dec.Length(); l > 0 {
		size = int(l / 2)
	}
	data := make([]float32, 0, size)

	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n; i += 2 {
			s := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			data = append(data, float32(s)/32768)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break // for loop
		}
		if err != nil {
			return nil, fmt.Errorf("mp3: %w", err)
		}
	}

	// trim a partial frame
	data = data[:len(data)-len(data)%Channels]

	return NewInput(data, dec.SampleRate()), nil
}
