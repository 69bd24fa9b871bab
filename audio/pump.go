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
	"sync"
	"sync/atomic"
	"time"
)

// Pump drives a Processor from a timer. It is used when there is no need to
// hear the device, for example when rendering to a WAV file or when running
// the device headless.
type Pump struct {
	proc   Processor
	input  *Input
	sink   Sink
	blk    block
	period time.Duration

	// number of frames processed
	frames atomic.Int64

	crit    sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	// the first error returned by the sink. the pump stops when the sink
	// returns an error
	err error
}

// NewPump is the preferred method of initialisation for the Pump type. The
// input and the sink can be nil.
func NewPump(proc Processor, sampleRate int, frames int, input *Input, sink Sink) *Pump {
	return &Pump{
		proc:   proc,
		input:  input,
		sink:   sink,
		blk:    newBlock(frames),
		period: time.Duration(frames) * time.Second / time.Duration(sampleRate),
	}
}

// Frames returns the number of frames processed by the pump.
func (p *Pump) Frames() int64 {
	return p.frames.Load()
}

// step processes one block. Returns false if the sink returned an error.
func (p *Pump) step() bool {
	p.blk.process(p.proc, p.input)
	p.frames.Add(int64(len(p.blk.out) / Channels))

	if p.sink != nil {
		if err := p.sink.Samples(p.blk.out); err != nil {
			p.err = err
			return false
		}
	}
	return true
}

// Run processes blocks until at least the specified number of frames have
// been processed. The timer is not used and the function returns as soon as
// the work is done. Must not be called while the pump is started.
func (p *Pump) Run(frames int) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	target := p.frames.Load() + int64(frames)
	for p.frames.Load() < target {
		if !p.step() {
			return p.err
		}
	}
	return nil
}

// Start processing blocks in real time. Has no effect if the pump is already
// started.
func (p *Pump) Start() {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.quit = make(chan struct{})
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		tck := time.NewTicker(p.period)
		defer tck.Stop()

		for {
			select {
			case <-p.quit:
				return
			case <-tck.C:
				if !p.step() {
					return
				}
			}
		}
	}()
}

// Stop processing blocks. Returns the error from the sink if there was one.
func (p *Pump) Stop() error {
	p.crit.Lock()
	defer p.crit.Unlock()

	if p.running {
		close(p.quit)
		<-p.done
		p.running = false
	}

	return p.err
}
