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
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// bytes per sample in the stream read by oto
const sampleSize = 4

// Player drives a Processor from the oto library. The output of the device is
// played through the sound card of the host.
type Player struct {
	ctx    *oto.Context
	player *oto.Player

	// crit protects the fields below, which are used by the oto goroutine
	crit  sync.Mutex
	proc  Processor
	input *Input
	sink  Sink
	blk   block

	// index of the next unread sample in blk.out
	pos int

	err error
}

// NewPlayer is the preferred method of initialisation for the Player type. The
// input and the sink can be nil.
//
// Only one Player can be created by a program because the oto library allows
// only one context.
func NewPlayer(proc Processor, sampleRate int, frames int, input *Input, sink Sink) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	<-ready

	pl := &Player{
		ctx:   ctx,
		proc:  proc,
		input: input,
		sink:  sink,
		blk:   newBlock(frames),
	}
	pl.pos = len(pl.blk.out)
	pl.player = ctx.NewPlayer(pl)

	return pl, nil
}

// Read implements the io.Reader interface. It is called by oto.
func (pl *Player) Read(p []byte) (int, error) {
	pl.crit.Lock()
	defer pl.crit.Unlock()

	n := len(p) - len(p)%sampleSize
	for i := 0; i < n; i += sampleSize {
		if pl.pos >= len(pl.blk.out) {
			pl.blk.process(pl.proc, pl.input)
			pl.pos = 0

			if pl.sink != nil && pl.err == nil {
				pl.err = pl.sink.Samples(pl.blk.out)
			}
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(pl.blk.out[pl.pos]))
		pl.pos++
	}

	return n, nil
}

// Start playback.
func (pl *Player) Start() {
	pl.player.Play()
}

// Close stops playback. Returns the error from the sink if there was one.
func (pl *Player) Close() error {
	err := pl.player.Close()

	pl.crit.Lock()
	defer pl.crit.Unlock()

	if pl.err != nil {
		return pl.err
	}
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	return nil
}
