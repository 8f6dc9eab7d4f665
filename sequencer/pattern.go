package sequencer

import (
	"fmt"
	"sync/atomic"
)

// MaxChannels is the number of tone channels a PatternStep carries
const MaxChannels = 2

// MaxPatternLength is the number of steps in a full pattern
const MaxPatternLength = 64

// PatternStep holds one tone per channel
type PatternStep [MaxChannels]Tone

// pack encodes a step as one word so it can be swapped atomically
func (s PatternStep) pack() uint64 {
	var w uint64
	for ch, t := range s {
		w |= (uint64(t.Divisor)<<16 | uint64(t.Multiplier)) << (32 * ch)
	}
	return w
}

func unpack(w uint64) PatternStep {
	var s PatternStep
	for ch := range s {
		v := uint32(w >> (32 * ch))
		s[ch] = Tone{Divisor: uint16(v >> 16), Multiplier: uint16(v)}
	}
	return s
}

// Pattern is a circular sequence of steps shared between the editor and
// both ticks. Every step is replaced and read as a whole, so no reader can
// see one channel's divisor paired with another write's multiplier.
type Pattern struct {
	steps []atomic.Uint64
}

// NewPattern creates a pattern of n silent steps
func NewPattern(n int) (*Pattern, error) {
	if n < 1 || n > MaxPatternLength {
		return nil, fmt.Errorf("%w: pattern length %d outside 1..%d", ErrConfig, n, MaxPatternLength)
	}
	return &Pattern{steps: make([]atomic.Uint64, n)}, nil
}

// Len returns the number of steps
func (p *Pattern) Len() int {
	return len(p.steps)
}

// Load returns the step at index i (taken modulo the length)
func (p *Pattern) Load(i int) PatternStep {
	return unpack(p.steps[wrap(i, len(p.steps))].Load())
}

// Store atomically replaces the step at index i (taken modulo the length)
func (p *Pattern) Store(i int, s PatternStep) {
	p.steps[wrap(i, len(p.steps))].Store(s.pack())
}

// Steps returns a copy of every step, for display
func (p *Pattern) Steps() []PatternStep {
	out := make([]PatternStep, len(p.steps))
	for i := range p.steps {
		out[i] = unpack(p.steps[i].Load())
	}
	return out
}
