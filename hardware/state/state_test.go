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

package state_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/gophersynth/curated"
	"github.com/jetsetilly/gophersynth/environment"
	"github.com/jetsetilly/gophersynth/hardware/dirty"
	"github.com/jetsetilly/gophersynth/hardware/state"
	"github.com/jetsetilly/gophersynth/notifications"
	"github.com/jetsetilly/gophersynth/test"
)

type notices struct {
	received []notifications.Notice
}

func (n *notices) Notify(notice notifications.Notice) error {
	n.received = append(n.received, notice)
	return nil
}

type forwarded struct {
	msgs [][]byte
}

func (f *forwarded) Forward(msg []byte) {
	f.msgs = append(f.msgs, msg)
}

type fixture struct {
	st    *state.State
	acc   *dirty.Accumulator
	notes *notices
	fwd   *forwarded
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, err := environment.NewEnvironment(environment.MainDevice, nil)
	test.DemandSuccess(t, err)
	env.Normalise()

	f := fixture{
		acc:   &dirty.Accumulator{},
		notes: &notices{},
		fwd:   &forwarded{},
	}
	env.Notify = f.notes

	f.st = state.NewState(env, f.acc, f.fwd)
	test.DemandSuccess(t, f.st.Initialise(state.InitImage(0)))
	f.acc.Drain()
	f.notes.received = nil

	return f
}

// snapshot of every addressable buffer
func everything(st *state.State) [][]byte {
	var all [][]byte
	add := func(typ state.DumpType, loc state.Location) {
		b, _ := st.RequestDump(typ, loc)
		all = append(all, b)
	}
	for i := range state.BankSize {
		add(state.Single, state.Location{Buffer: state.BufferRomA, Index: uint8(i)})
		add(state.Single, state.Location{Buffer: state.BufferRomB, Index: uint8(i)})
		add(state.Multi, state.Location{Buffer: state.BufferRomA, Index: uint8(i)})
	}
	for i := range state.NumMultiSingles {
		add(state.Single, state.Location{Buffer: state.BufferMultiEdit, Index: uint8(i)})
	}
	add(state.Single, state.Location{Buffer: state.BufferEdit})
	add(state.Multi, state.Location{Buffer: state.BufferEdit})
	add(state.Global, state.Location{})
	add(state.Mode, state.Location{})
	return all
}

func TestDumpTable(t *testing.T) {
	for _, tc := range []struct {
		typ       state.DumpType
		size      int
		numParams int
		request   state.Command
		dump      state.Command
		change    state.Command
	}{
		{state.Single, 265, 256, 0x00, 0x10, 0x20},
		{state.Multi, 265, 256, 0x01, 0x11, 0x21},
		{state.Global, 39, 32, 0x04, 0x14, 0x24},
		{state.Mode, 7, 1, 0x07, 0x17, 0x27},
	} {
		d := state.Dumps[tc.typ]
		test.ExpectEquality(t, d.Type, tc.typ)
		test.ExpectEquality(t, d.Size, tc.size, tc.typ)
		test.ExpectEquality(t, d.NumParams(), tc.numParams, tc.typ)
		test.ExpectEquality(t, d.CmdRequest, tc.request, tc.typ)
		test.ExpectEquality(t, d.CmdDump, tc.dump, tc.typ)
		test.ExpectEquality(t, d.CmdParamChange, tc.change, tc.typ)

		typ, ok := state.DumpTypeFromString(tc.typ.String())
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, typ, tc.typ)
	}
}

func TestChecksum(t *testing.T) {
	buf := state.NewDump(0, state.Single, state.Location{}, []byte{1, 2, 3, 0x7f})
	d := state.Dumps[state.Single]

	test.ExpectEquality(t, buf[0], uint8(state.SysexBegin))
	test.ExpectEquality(t, buf[len(buf)-1], uint8(state.SysexEnd))

	// 0x10 (command) + 1 + 2 + 3 + 0x7f
	test.ExpectEquality(t, buf[d.ChecksumIdx()], uint8((0x10+1+2+3+0x7f)&0x7f))
	test.ExpectSuccess(t, d.VerifyChecksum(buf))

	// idempotent
	d.UpdateChecksum(buf)
	test.ExpectEquality(t, buf[d.ChecksumIdx()], state.Checksum(buf))

	// corrupting any payload byte is detected
	for i := state.IdxCommand; i < d.ChecksumIdx(); i++ {
		c := bytes.Clone(buf)
		c[i] ^= 0x01
		test.ExpectFailure(t, d.VerifyChecksum(c), i)
	}

	// mode dumps have no checksum
	m := state.NewDump(0, state.Mode, state.Location{}, []byte{1})
	test.ExpectEquality(t, len(m), state.ModeSize)
	test.ExpectEquality(t, m[5], uint8(1))
	test.ExpectEquality(t, m[6], uint8(state.SysexEnd))
	test.ExpectSuccess(t, state.Dumps[state.Mode].VerifyChecksum(m))
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)

	locs := []struct {
		typ state.DumpType
		loc state.Location
	}{
		{state.Single, state.Location{Buffer: state.BufferRomA, Index: 0}},
		{state.Single, state.Location{Buffer: state.BufferRomA, Index: 127}},
		{state.Single, state.Location{Buffer: state.BufferRomB, Index: 64}},
		{state.Single, state.Location{Buffer: state.BufferEdit}},
		{state.Single, state.Location{Buffer: state.BufferMultiEdit, Index: 7}},
		{state.Multi, state.Location{Buffer: state.BufferRomA, Index: 100}},
		{state.Multi, state.Location{Buffer: state.BufferEdit}},
		{state.Global, state.Location{}},
		{state.Mode, state.Location{}},
	}

	for _, l := range locs {
		before := everything(f.st)

		resp, ok := f.st.RequestDump(l.typ, l.loc)
		test.DemandSuccess(t, ok, l.typ, l.loc)
		test.ExpectEquality(t, len(resp), state.Dumps[l.typ].Size)

		test.ExpectSuccess(t, f.st.Parse(l.typ, resp, state.Device), l.typ, l.loc)

		again, ok := f.st.RequestDump(l.typ, l.loc)
		test.DemandSuccess(t, ok)
		test.ExpectSuccess(t, bytes.Equal(resp, again), l.typ, l.loc)

		after := everything(f.st)
		for i := range before {
			test.ExpectSuccess(t, bytes.Equal(before[i], after[i]), l.typ, l.loc, i)
		}
	}
}

func TestSingleRequestRomA(t *testing.T) {
	f := newFixture(t)

	req := state.Request(0, state.Single, state.Location{Buffer: state.BufferRomA, Index: 0})
	test.ExpectEquality(t, len(req), 8)

	resp, ok := f.st.Receive(req, state.External)
	test.ExpectSuccess(t, ok)
	test.DemandEquality(t, len(resp), 1)

	r := resp[0]
	test.DemandEquality(t, len(r), 265)
	test.ExpectEquality(t, r[0], uint8(0xf0))
	test.ExpectEquality(t, r[263], state.Checksum(r))
	test.ExpectEquality(t, r[264], uint8(0xf7))

	before := everything(f.st)
	_, ok = f.st.Receive(r, state.Device)
	test.ExpectSuccess(t, ok)
	after := everything(f.st)
	for i := range before {
		test.ExpectSuccess(t, bytes.Equal(before[i], after[i]), i)
	}
}

func TestUnmapped(t *testing.T) {
	f := newFixture(t)

	_, ok := f.st.RequestDump(state.Single, state.Location{Buffer: state.BufferRomA, Index: 128})
	test.ExpectFailure(t, ok)
	_, ok = f.st.RequestDump(state.Single, state.Location{Buffer: 0x05})
	test.ExpectFailure(t, ok)
	_, ok = f.st.RequestDump(state.Single, state.Location{Buffer: state.BufferMultiEdit, Index: 8})
	test.ExpectFailure(t, ok)
	_, ok = f.st.RequestDump(state.Multi, state.Location{Buffer: state.BufferRomB})
	test.ExpectFailure(t, ok)

	// understood but produces no response
	resp, ok := f.st.Receive(state.Request(0, state.Multi, state.Location{Buffer: 0x10}), state.External)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, len(resp), 0)
}

func TestMalformed(t *testing.T) {
	f := newFixture(t)
	before := everything(f.st)

	good := state.NewDump(0, state.Single, state.Location{Buffer: state.BufferRomA, Index: 3}, []byte{0x55})

	for i, msg := range [][]byte{
		{0xf0, 0x3e, 0xf7},
		{0xf0, 0x3e, 0x0f, 0x00, 0x00, 0x00, 0x00, 0xf7},
		{0xf0, 0x40, 0x0e, 0x00, 0x00, 0x00, 0x00, 0xf7},
		{0xf0, 0x3e, 0x0e, 0x00, 0x10, 0x00, 0x00, 0xf7},
		{0xf0, 0x3e, 0x0e, 0x00, 0x7e, 0xf7},
		good[:len(good)-1],
		append(bytes.Clone(good[:len(good)-2]), 0x00, 0xf7),

		// parameter changes without a value byte
		{0xf0, 0x3e, 0x0e, 0x00, 0x20, 0x00, 0x00, 0x05, 0xf7},
		{0xf0, 0x3e, 0x0e, 0x00, 0x21, 0x00, 0x05, 0xf7},
		{0xf0, 0x3e, 0x0e, 0x00, 0x24, 0x00, 0x05, 0xf7},
		{0xf0, 0x3e, 0x0e, 0x00, 0x27, 0x00, 0x00, 0xf7},

		// value byte is not 7-bit
		{0xf0, 0x3e, 0x0e, 0x00, 0x24, 0x00, 0x05, 0x80, 0xf7},

		// requests without a complete location
		{0xf0, 0x3e, 0x0e, 0x00, 0x00, 0x20, 0xf7},
		{0xf0, 0x3e, 0x0e, 0x00, 0x01, 0xf7},
	} {
		_, ok := f.st.Receive(msg, state.External)
		test.ExpectFailure(t, ok, i)
	}

	after := everything(f.st)
	for i := range before {
		test.ExpectSuccess(t, bytes.Equal(before[i], after[i]), i)
	}
	test.ExpectEquality(t, f.acc.Peek(), dirty.None)
	test.ExpectEquality(t, len(f.fwd.msgs), 0)
	test.ExpectEquality(t, len(f.notes.received), 0)
	test.ExpectFailure(t, f.st.IsMultiMode())
}

func TestParameterChange(t *testing.T) {
	f := newFixture(t)

	// single mode. part is ignored
	msg := state.ParameterChange(0, state.Single, 5, 130, 0x33)
	_, ok := f.st.Receive(msg, state.External)
	test.ExpectSuccess(t, ok)

	b, _ := f.st.RequestDump(state.Single, state.Location{Buffer: state.BufferEdit})
	test.ExpectEquality(t, b[state.Dumps[state.Single].FirstParam+130], uint8(0x33))
	test.ExpectSuccess(t, state.Dumps[state.Single].VerifyChecksum(b))
	test.ExpectEquality(t, f.acc.Drain(), dirty.Single)
	test.ExpectEquality(t, len(f.fwd.msgs), 1)

	// device originated changes are not forwarded
	_, ok = f.st.Receive(state.ParameterChange(0, state.Global, 0, int(state.GlobalTuning), 70), state.Device)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, f.st.Global(state.GlobalTuning), uint8(70))
	test.ExpectEquality(t, f.acc.Drain(), dirty.Global)
	test.ExpectEquality(t, len(f.fwd.msgs), 1)

	// out of range index is ignored
	before := everything(f.st)
	_, ok = f.st.Receive(state.ParameterChange(0, state.Single, 0, 256, 1), state.External)
	test.ExpectSuccess(t, ok)
	test.ExpectFailure(t, f.st.SetParameter(state.Global, state.Location{}, 32, 1))
	test.ExpectFailure(t, f.st.SetParameter(state.Mode, state.Location{}, 1, 1))
	test.ExpectFailure(t, f.st.ApplyParameterChange(state.Multi, []byte{0xf0, 0x3e, 0x0e, 0x00, 0x21, 0x00}, state.External))
	test.ExpectFailure(t, f.st.ApplyParameterChange(state.Global, []byte{0xf0, 0x3e, 0x0e, 0x00, 0x24, 0x00, 0x05, 0xf7}, state.External))
	test.ExpectFailure(t, f.st.ApplyParameterChange(state.Mode, []byte{0xf0, 0x3e, 0x0e, 0x00, 0x27, 0x00, 0x00, 0xf7}, state.External))
	after := everything(f.st)
	for i := range before {
		test.ExpectSuccess(t, bytes.Equal(before[i], after[i]), i)
	}
	test.ExpectEquality(t, f.acc.Peek(), dirty.None)
}

func TestPlayMode(t *testing.T) {
	f := newFixture(t)

	test.ExpectFailure(t, f.st.IsMultiMode())
	test.ExpectEquality(t, len(f.st.ActiveSingles()), 1)

	_, ok := f.st.Receive(state.ParameterChange(0, state.Mode, 0, 0, 1), state.External)
	test.ExpectSuccess(t, ok)
	test.ExpectSuccess(t, f.st.IsMultiMode())
	test.ExpectEquality(t, len(f.st.ActiveSingles()), 8)
	test.DemandEquality(t, len(f.notes.received), 1)
	test.ExpectEquality(t, f.notes.received[0], notifications.NotifyPlayModeChanged)
	test.ExpectEquality(t, f.acc.Drain(), dirty.Mode)

	// no toggle, no notice
	test.ExpectSuccess(t, f.st.SetMode(state.ModePlayMode, 2))
	test.ExpectEquality(t, len(f.notes.received), 1)

	// single parameter changes now address the parts of the multi
	_, ok = f.st.Receive(state.ParameterChange(0, state.Single, 3, 10, 0x44), state.External)
	test.ExpectSuccess(t, ok)
	b, _ := f.st.RequestDump(state.Single, state.Location{Buffer: state.BufferMultiEdit, Index: 3})
	test.ExpectEquality(t, b[state.Dumps[state.Single].FirstParam+10], uint8(0x44))
	b, _ = f.st.RequestDump(state.Single, state.Location{Buffer: state.BufferEdit})
	test.ExpectEquality(t, b[state.Dumps[state.Single].FirstParam+10], uint8(0x00))

	// part out of range
	test.ExpectFailure(t, f.st.ApplyParameterChange(state.Single, state.ParameterChange(0, state.Single, 8, 10, 1), state.External))

	// a mode dump switching back raises the notice
	test.ExpectSuccess(t, f.st.Parse(state.Mode, state.NewDump(0, state.Mode, state.Location{}, []byte{0}), state.Device))
	test.ExpectFailure(t, f.st.IsMultiMode())
	test.ExpectEquality(t, len(f.notes.received), 2)
}

func TestInitialise(t *testing.T) {
	f := newFixture(t)

	// global and mode are required
	image := state.InitImage(0)
	err := f.st.Initialise(image[:len(image)-1])
	test.ExpectSuccess(t, curated.Is(err, state.MissingImage))

	// a partial image is completed from the first single and multi
	partial := [][]byte{
		state.NewDump(0, state.Single, state.Location{Buffer: state.BufferRomA}, []byte{9, 9, 9}),
		state.NewDump(0, state.Multi, state.Location{Buffer: state.BufferRomA}, []byte{8}),
		state.NewDump(0, state.Global, state.Location{}, nil),
		state.NewDump(0, state.Mode, state.Location{}, nil),
		{0x90, 0x40, 0x7f},
	}
	test.DemandSuccess(t, f.st.Initialise(partial))

	loc := state.Location{Buffer: state.BufferRomB, Index: 5}
	b, ok := f.st.RequestDump(state.Single, loc)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, b[state.IdxBuffer], loc.Buffer)
	test.ExpectEquality(t, b[state.IdxLocation], loc.Index)
	test.ExpectEquality(t, b[state.Dumps[state.Single].FirstParam], uint8(9))
	test.ExpectSuccess(t, state.Dumps[state.Single].VerifyChecksum(b))

	b, ok = f.st.RequestDump(state.Multi, state.Location{Buffer: state.BufferEdit})
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, b[state.Dumps[state.Multi].FirstParam], uint8(8))
}
