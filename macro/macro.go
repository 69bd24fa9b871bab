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

package macro

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
)

// Device is the part of the device used by a macro.
type Device interface {
	SetButtonState(b panel.Button, pressed bool) bool
	RotateEncoder(e panel.Encoder, delta int) bool
	SubmitInboundMidi(msg []byte) [][]byte
	RequestDump(typ state.DumpType, loc state.Location) ([]byte, bool)
	DisplayLines() [lcd.Lines]string
	Reset() error
}

// Macro is a type that allows control of a device from a series of
// instructions.
type Macro struct {
	perm   logger.Permission
	device Device
	output func([]byte)

	filename     string
	instructions []string

	// how long to wait after a panel instruction. gives the control unit the
	// chance to see the change
	Settle time.Duration

	quit     chan bool
	quitOnce sync.Once
	done     chan bool

	crit sync.Mutex
	err  error
}

const (
	headerLineID = iota
	headerLineVersion
	headerNumLines
)

const headerID = "gophersynthmacro"

// default wait in milliseconds
const defaultWait = 100

// NewMacro is the preferred method of initialisation for the Macro type. The
// output function receives the responses to SYSEX and DUMP instructions. It
// can be nil, in which case the responses are logged.
func NewMacro(perm logger.Permission, filename string, device Device, output func([]byte)) (*Macro, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}
	defer f.Close()
	return NewMacroFromReader(perm, filename, f, device, output)
}

// NewMacroFromReader is like NewMacro() except that the script is read from
// an io.Reader. The name is used in log entries.
func NewMacroFromReader(perm logger.Permission, name string, r io.Reader, device Device, output func([]byte)) (*Macro, error) {
	mcr := &Macro{
		perm:     perm,
		device:   device,
		output:   output,
		filename: name,
		Settle:   10 * time.Millisecond,
		quit:     make(chan bool),
		done:     make(chan bool),
	}

	buffer, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}

	// convert file contents to an array of lines
	mcr.instructions = strings.Split(strings.ReplaceAll(string(buffer), "\r\n", "\n"), "\n")
	if len(mcr.instructions) < headerNumLines {
		return nil, fmt.Errorf("macro: %s: not a macro file", name)
	}
	if strings.TrimSpace(mcr.instructions[headerLineID]) != headerID {
		return nil, fmt.Errorf("macro: %s: not a macro file", name)
	}

	// ignore version string for now

	// we no longer need the header
	mcr.instructions = mcr.instructions[headerNumLines:]

	return mcr, nil
}

// Err returns the error that ended the macro, if there was one. Should be
// called after Wait() has returned.
func (mcr *Macro) Err() error {
	mcr.crit.Lock()
	defer mcr.crit.Unlock()
	return mcr.err
}

// Wait blocks until the macro has ended.
func (mcr *Macro) Wait() {
	<-mcr.done
}

// Done returns a channel that is closed when the macro has ended.
func (mcr *Macro) Done() <-chan bool {
	return mcr.done
}

// Quit forces a running macro (ie. one that has been triggered) to end. The
// macro stops at the next WAIT, LOOP or panel instruction. Safe to call more
// than once.
func (mcr *Macro) Quit() {
	mcr.quitOnce.Do(func() {
		close(mcr.quit)
	})
}

// convertValue parses a number. Hex values can be indicated with either $ or
// 0x.
func convertValue(s string, bits int) (uint64, error) {
	if len(s) > 0 && s[0] == '$' {
		s = fmt.Sprintf("0x%s", s[1:])
	}
	return strconv.ParseUint(s, 0, bits)
}

type loop struct {
	line int

	// loop counters count upwards because it is more natural when
	// referencing the counter value to think of the counter as counting
	// upwards
	count    int
	countEnd int

	// if loop counter has been named then we need to know it so that we can
	// update the entry in the variables table
	countName string
}

// Run a macro to completion. The macro runs in its own goroutine and Run()
// returns immediately.
func (mcr *Macro) Run() {
	go func() {
		defer close(mcr.done)
		err := mcr.run()
		if err != nil {
			logger.Logf(mcr.perm, "macro", "%v", err)
			mcr.crit.Lock()
			mcr.err = err
			mcr.crit.Unlock()
		}
	}()
}

// wait returns true if the macro has been asked to quit.
func (mcr *Macro) wait(d time.Duration) bool {
	select {
	case <-time.After(d):
		return false
	case <-mcr.quit:
		return true
	}
}

func (mcr *Macro) emit(msgs ...[]byte) {
	for _, m := range msgs {
		if mcr.output != nil {
			mcr.output(m)
		} else {
			logger.Logf(mcr.perm, "macro", "% x", m)
		}
	}
}

func (mcr *Macro) run() error {
	errf := func(ln int, format string, args ...any) error {
		return fmt.Errorf("macro: %s: %d: %s", mcr.filename, ln+headerNumLines+1, fmt.Sprintf(format, args...))
	}

	var loops []loop
	variables := make(map[string]int)

	// number returns the value of a variable reference or a literal number
	number := func(s string) (int, error) {
		if len(s) > 0 && s[0] == '%' {
			v, ok := variables[s[1:]]
			if !ok {
				return 0, fmt.Errorf("variable '%s' does not exist", s[1:])
			}
			return v, nil
		}
		if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
			return strconv.Atoi(s)
		}
		v, err := convertValue(s, 32)
		return int(v), err
	}

	for ln := 0; ln < len(mcr.instructions); ln++ {
		toks := strings.Fields(mcr.instructions[ln])
		if len(toks) == 0 {
			continue // for loop
		}

		switch toks[0] {
		default:
			return errf(ln, "unrecognised command: %s", toks[0])

		case "--":
			// ignore comment lines

		case "DO":
			tl := len(toks)
			switch tl {
			case 1:
				return errf(ln, "too few arguments for DO")
			case 2, 3:
				ct, err := strconv.Atoi(toks[1])
				if err != nil {
					return errf(ln, "%v", err)
				}
				lp := loop{
					line:     ln,
					countEnd: ct,
				}
				if tl == 3 {
					lp.countName = toks[2]
					variables[lp.countName] = lp.count
				}
				loops = append(loops, lp)
			default:
				return errf(ln, "too many arguments for DO")
			}

		case "LOOP":
			if len(toks) > 1 {
				return errf(ln, "too many arguments for LOOP")
			}

			// check for a quit signal but don't wait for it
			select {
			case <-mcr.quit:
				return nil
			default:
			}

			idx := len(loops) - 1
			if idx == -1 {
				return errf(ln, "LOOP without a DO")
			}

			lp := &loops[idx]
			lp.count++

			if lp.count < lp.countEnd {
				// loop is ongoing so return to start of loop
				ln = lp.line

				// update named variable
				if lp.countName != "" {
					variables[lp.countName] = lp.count
				}
			} else {
				// loop has ended. remove from loop stack and delete variable name
				loops = loops[:idx]
				delete(variables, lp.countName)
			}

		case "WAIT":
			w := defaultWait

			switch len(toks) {
			case 2:
				var err error
				w, err = number(toks[1])
				if err != nil {
					return errf(ln, "%v", err)
				}
				fallthrough

			case 1:
				if mcr.wait(time.Duration(w) * time.Millisecond) {
					return nil
				}

			default:
				return errf(ln, "too many arguments for WAIT")
			}

		case "PRESS", "RELEASE":
			if len(toks) != 2 {
				return errf(ln, "wrong number of arguments for %s", toks[0])
			}
			b, ok := panel.ButtonFromString(strings.ToUpper(toks[1]))
			if !ok {
				return errf(ln, "unrecognised button: %s", toks[1])
			}
			mcr.device.SetButtonState(b, toks[0] == "PRESS")
			if mcr.wait(mcr.Settle) {
				return nil
			}

		case "ROTATE":
			if len(toks) != 3 {
				return errf(ln, "wrong number of arguments for ROTATE")
			}
			e, ok := panel.EncoderFromString(strings.ToUpper(toks[1]))
			if !ok {
				return errf(ln, "unrecognised encoder: %s", toks[1])
			}
			d, err := number(toks[2])
			if err != nil {
				return errf(ln, "%v", err)
			}
			mcr.device.RotateEncoder(e, d)
			if mcr.wait(mcr.Settle) {
				return nil
			}

		case "SYSEX":
			if len(toks) < 2 {
				return errf(ln, "too few arguments for SYSEX")
			}
			msg := make([]byte, 0, len(toks)-1)
			for _, t := range toks[1:] {
				v, err := strconv.ParseUint(strings.TrimPrefix(t, "0x"), 16, 8)
				if err != nil {
					return errf(ln, "bad byte for SYSEX: %s", t)
				}
				msg = append(msg, uint8(v))
			}
			mcr.emit(mcr.device.SubmitInboundMidi(msg)...)

		case "DUMP":
			if len(toks) != 4 {
				return errf(ln, "wrong number of arguments for DUMP")
			}
			typ, ok := state.DumpTypeFromString(strings.ToLower(toks[1]))
			if !ok {
				return errf(ln, "unrecognised dump type: %s", toks[1])
			}
			buf, err := number(toks[2])
			if err != nil {
				return errf(ln, "%v", err)
			}
			idx, err := number(toks[3])
			if err != nil {
				return errf(ln, "%v", err)
			}
			dump, ok := mcr.device.RequestDump(typ, state.Location{Buffer: uint8(buf), Index: uint8(idx)})
			if !ok {
				logger.Logf(mcr.perm, "macro", "%s: no %s dump at %d:%d", mcr.filename, typ, buf, idx)
			} else {
				mcr.emit(dump)
			}

		case "LCD":
			if len(toks) > 1 {
				return errf(ln, "too many arguments for LCD")
			}
			for _, l := range mcr.device.DisplayLines() {
				logger.Logf(mcr.perm, "macro", "lcd: %s", l)
			}

		case "RESET":
			if len(toks) > 1 {
				return errf(ln, "too many arguments for RESET")
			}
			if err := mcr.device.Reset(); err != nil {
				return errf(ln, "%v", err)
			}
		}
	}

	return nil
}
