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

package macro_test

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/panel"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/logger"
	"github.com/jetsetilly/gophersynth/macro"
	"github.com/jetsetilly/gophersynth/test"
)

type mockDevice struct {
	crit  sync.Mutex
	calls []string
}

func (d *mockDevice) record(s string) {
	d.crit.Lock()
	defer d.crit.Unlock()
	d.calls = append(d.calls, s)
}

func (d *mockDevice) SetButtonState(b panel.Button, pressed bool) bool {
	d.record(fmt.Sprintf("button %s %v", b, pressed))
	return true
}

func (d *mockDevice) RotateEncoder(e panel.Encoder, delta int) bool {
	d.record(fmt.Sprintf("rotate %s %d", e, delta))
	return true
}

func (d *mockDevice) SubmitInboundMidi(msg []byte) [][]byte {
	d.record(fmt.Sprintf("midi % x", msg))
	return [][]byte{{0xf0, 0x01, 0xf7}}
}

func (d *mockDevice) RequestDump(typ state.DumpType, loc state.Location) ([]byte, bool) {
	d.record(fmt.Sprintf("dump %s %d %d", typ, loc.Buffer, loc.Index))
	return []byte{0xf0, 0x02, 0xf7}, loc.Buffer == 0
}

func (d *mockDevice) DisplayLines() [lcd.Lines]string {
	d.record("lcd")
	return [lcd.Lines]string{"GOPHERSYNTH", ""}
}

func (d *mockDevice) Reset() error {
	d.record("reset")
	return nil
}

func run(t *testing.T, script string) (*mockDevice, [][]byte, error) {
	t.Helper()

	var dev mockDevice
	var out [][]byte

	mcr, err := macro.NewMacroFromReader(logger.Allow, "test", strings.NewReader(script), &dev,
		func(b []byte) {
			out = append(out, b)
		})
	if err != nil {
		return nil, nil, err
	}
	mcr.Settle = 0
	mcr.Run()
	mcr.Wait()

	return &dev, out, mcr.Err()
}

func TestHeader(t *testing.T) {
	_, _, err := run(t, "notamacro\n1\n")
	test.ExpectFailure(t, err)

	_, _, err = run(t, "gophersynthmacro")
	test.ExpectFailure(t, err)
}

func TestPanel(t *testing.T) {
	dev, _, err := run(t, "gophersynthmacro\n1\n-- comment\nPRESS PLAY\nRELEASE play\nROTATE MASTER -3\nRESET\n")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.Join(dev.calls, "|"), "button PLAY true|button PLAY false|rotate MASTER -3|reset")
}

func TestLoops(t *testing.T) {
	script := `gophersynthmacro
1
DO 2 a
  DO 2 b
    ROTATE VALUE %a
    ROTATE VALUE %b
  LOOP
LOOP
`
	dev, _, err := run(t, script)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.Join(dev.calls, "|"),
		"rotate VALUE 0|rotate VALUE 0|rotate VALUE 0|rotate VALUE 1|"+
			"rotate VALUE 1|rotate VALUE 0|rotate VALUE 1|rotate VALUE 1")
}

func TestMidiAndDumps(t *testing.T) {
	script := `gophersynthmacro
1
SYSEX F0 3E 0E 00 52 F7
DUMP single 0 $05
DUMP multi 1 0
LCD
`
	dev, out, err := run(t, script)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, strings.Join(dev.calls, "|"),
		"midi f0 3e 0e 00 52 f7|dump single 0 5|dump multi 1 0|lcd")

	// the second dump request fails and produces no output
	test.DemandEquality(t, len(out), 2)
	test.ExpectSuccess(t, bytes.Equal(out[0], []byte{0xf0, 0x01, 0xf7}))
	test.ExpectSuccess(t, bytes.Equal(out[1], []byte{0xf0, 0x02, 0xf7}))
}

func TestErrors(t *testing.T) {
	for _, s := range []string{
		"FOO",
		"PRESS NOSUCHBUTTON",
		"ROTATE MASTER",
		"ROTATE MASTER %x",
		"SYSEX F0 ZZ",
		"DUMP patch 0 0",
		"LOOP",
		"DO",
	} {
		_, _, err := run(t, "gophersynthmacro\n1\n"+s+"\n")
		test.ExpectFailure(t, err, s)
	}
}

func TestQuit(t *testing.T) {
	var dev mockDevice
	mcr, err := macro.NewMacroFromReader(logger.Allow, "test",
		strings.NewReader("gophersynthmacro\n1\nWAIT 60000\nPRESS PLAY\n"), &dev, nil)
	test.DemandSuccess(t, err)

	mcr.Run()
	mcr.Quit()
	mcr.Quit()

	select {
	case <-mcr.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("macro did not quit")
	}

	test.ExpectSuccess(t, mcr.Err())
	test.ExpectEquality(t, len(dev.calls), 0)
}
