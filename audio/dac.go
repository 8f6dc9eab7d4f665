// Package audio turns latched register frames into sound.
package audio

import (
	"math"
	"sync/atomic"
)

// DAC models the analog stage behind the register: every sample byte of a
// latched frame drives one 8-bit DAC and the outputs are summed. The last
// byte of each frame is the aux byte, which drives the indicator LEDs.
type DAC struct {
	level  atomic.Uint32 // float32 bits
	aux    atomic.Uint32
	frames atomic.Uint64
}

// NewDAC creates a DAC resting at the midpoint
func NewDAC() *DAC {
	return &DAC{}
}

// Latch takes one frame from the register. It runs in tick context.
func (d *DAC) Latch(frame []byte) {
	if len(frame) == 0 {
		return
	}
	samples := frame[:len(frame)-1]
	var v float32
	if len(samples) > 0 {
		sum := 0
		for _, s := range samples {
			sum += int(s)
		}
		v = ToFloat(float64(sum) / float64(len(samples)))
	}
	d.level.Store(math.Float32bits(v))
	d.aux.Store(uint32(frame[len(frame)-1]))
	d.frames.Add(1)
}

// Level returns the current analog output in [-1, 1]
func (d *DAC) Level() float32 {
	return math.Float32frombits(d.level.Load())
}

// Aux returns the last aux byte
func (d *DAC) Aux() uint8 {
	return uint8(d.aux.Load())
}

// Frames returns the number of frames latched
func (d *DAC) Frames() uint64 {
	return d.frames.Load()
}

// ToFloat maps an 8-bit amplitude onto [-1, 1]
func ToFloat(v float64) float32 {
	return float32((v - 127.5) / 127.5)
}
