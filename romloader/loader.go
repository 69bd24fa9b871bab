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

package romloader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Error patterns returned by the romloader package.
const (
	UnsupportedFormat = "romloader: unsupported file format: %s"
	NotSysEx          = "romloader: not a sysex image: %v"
	NoFrames          = "romloader: no sysex frames in image: %s"
)

// Load reads the factory image from the named file. Each entry in the
// returned slice is one complete sysex frame, including the begin and end
// bytes.
func Load(perm logger.Permission, filename string) ([][]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("romloader: %w", err)
	}
	defer f.Close()

	var frames [][]byte

	switch formatFromFilename(filename) {
	case formatSysEx:
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("romloader: %w", err)
		}
		frames, err = SplitSysEx(data)
		if err != nil {
			return nil, err
		}
	case formatSMF:
		frames, err = ReadSMF(f)
		if err != nil {
			return nil, err
		}
	default:
		return nil, curated.Errorf(UnsupportedFormat, filename)
	}

	if len(frames) == 0 {
		return nil, curated.Errorf(NoFrames, filename)
	}

	logger.Logf(perm, "romloader", "%s: %d frames", filename, len(frames))

	return frames, nil
}

// SplitSysEx divides raw data into sysex frames. Bytes outside of a frame are
// an error, as is a frame that is not terminated.
func SplitSysEx(data []byte) ([][]byte, error) {
	var frames [][]byte

	for len(data) > 0 {
		if data[0] != state.SysexBegin {
			return nil, curated.Errorf(NotSysEx, fmt.Sprintf("unexpected byte %#02x", data[0]))
		}

		end := bytes.IndexByte(data, state.SysexEnd)
		if end == -1 {
			return nil, curated.Errorf(NotSysEx, "unterminated frame")
		}

		// a begin byte inside a frame means the previous frame was truncated
		if bytes.IndexByte(data[1:end], state.SysexBegin) != -1 {
			return nil, curated.Errorf(NotSysEx, "truncated frame")
		}

		frame := make([]byte, end+1)
		copy(frame, data)
		frames = append(frames, frame)
		data = data[end+1:]
	}

	return frames, nil
}

// ReadSMF returns the sysex events of every track of a Standard MIDI File, in
// track order. All other events are ignored.
func ReadSMF(r io.Reader) ([][]byte, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, curated.Errorf(NotSysEx, err)
	}

	var frames [][]byte

	for _, tr := range s.Tracks {
		for _, ev := range tr {
			raw := []byte(ev.Message)
			if len(raw) == 0 || raw[0] != state.SysexBegin {
				continue // for loop
			}

			// the body is stored without the envelope so that the frame is
			// rebuilt the same way whether or not the file carried the end byte
			body := raw[1:]
			if len(body) > 0 && body[len(body)-1] == state.SysexEnd {
				body = body[:len(body)-1]
			}
			frames = append(frames, []byte(midi.SysEx(body)))
		}
	}

	return frames, nil
}

// Save writes the frames to the named file in the format indicated by the
// file extension.
func Save(filename string, frames [][]byte) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("romloader: %w", err)
	}

	switch formatFromFilename(filename) {
	case formatSysEx:
		err = WriteSysEx(f, frames)
	case formatSMF:
		err = WriteSMF(f, frames)
	default:
		err = curated.Errorf(UnsupportedFormat, filename)
	}

	if err != nil {
		_ = f.Close()
		_ = os.Remove(filename)
		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("romloader: %w", err)
	}

	return nil
}

// WriteSysEx writes the frames one after the other.
func WriteSysEx(w io.Writer, frames [][]byte) error {
	for _, fr := range frames {
		if _, err := w.Write(fr); err != nil {
			return fmt.Errorf("romloader: %w", err)
		}
	}
	return nil
}

// WriteSMF writes the frames as the events of a single track Standard MIDI
// File. Each frame follows the previous one by one tick.
func WriteSMF(w io.Writer, frames [][]byte) error {
	var tr smf.Track
	for i, fr := range frames {
		if len(fr) < 2 || fr[0] != state.SysexBegin || fr[len(fr)-1] != state.SysexEnd {
			return curated.Errorf(NotSysEx, fmt.Sprintf("frame %d", i))
		}
		delta := uint32(1)
		if i == 0 {
			delta = 0
		}
		tr.Add(delta, fr)
	}
	tr.Close(0)

	s := smf.New()
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("romloader: %w", err)
	}

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("romloader: %w", err)
	}

	return nil
}
