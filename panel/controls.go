// Package panel turns raw control readings into engine parameters and
// pattern edits.
package panel

import (
	"sync"

	"go-stepsynth/sequencer"
)

// ADCMax is the largest raw potentiometer reading
const ADCMax = 1023

// Range linearly maps raw readings in [InLo, InHi] to [OutLo, OutHi].
// OutLo may exceed OutHi for a reversed knob.
type Range struct {
	InLo  int `json:"inLo"`
	InHi  int `json:"inHi"`
	OutLo int `json:"outLo"`
	OutHi int `json:"outHi"`
}

// Map converts a raw reading, clamping it to the input range first
func (r Range) Map(raw int) int {
	if r.InHi == r.InLo {
		return r.OutLo
	}
	lo, hi := min(r.InLo, r.InHi), max(r.InLo, r.InHi)
	raw = max(lo, min(hi, raw))
	return (raw-r.InLo)*(r.OutHi-r.OutLo)/(r.InHi-r.InLo) + r.OutLo
}

// Invert returns the raw reading whose mapped value is closest to out
func (r Range) Invert(out int) int {
	lo, hi := min(r.InLo, r.InHi), max(r.InLo, r.InHi)
	best, bestDist := lo, -1
	for raw := lo; raw <= hi; raw++ {
		d := r.Map(raw) - out
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = raw, d
		}
	}
	return best
}

// Ranges holds the mapping of every knob
type Ranges struct {
	Tempo Range `json:"tempo"`
	Scale Range `json:"scale"`
	Note  Range `json:"note"`
}

// DefaultRanges maps 10-bit readings: tempo 1000..50 slow ticks per step
// (clockwise is faster), scale divisor 1..8, note 0..15.
func DefaultRanges() Ranges {
	return Ranges{
		Tempo: Range{InLo: 0, InHi: ADCMax, OutLo: 1000, OutHi: 50},
		Scale: Range{InLo: 0, InHi: ADCMax, OutLo: sequencer.MinScale, OutHi: sequencer.MaxScale},
		Note:  Range{InLo: 0, InHi: ADCMax, OutLo: 0, OutHi: sequencer.NumNotes - 1},
	}
}

// Reading is one poll of every input. Digital lines are levels: true is
// high, and every switch is active low.
type Reading struct {
	Tempo int
	Scale int
	Note  int

	ForwardLine  bool
	BackwardLine bool
	RecordLines  [sequencer.MaxChannels]bool
}

// IdleReading has every knob at its low end and no switch closed
func IdleReading() Reading {
	r := Reading{ForwardLine: true, BackwardLine: true}
	for i := range r.RecordLines {
		r.RecordLines[i] = true
	}
	return r
}

// SelectorDirection decodes the 3-position direction switch
func SelectorDirection(forwardLine, backwardLine bool) sequencer.Direction {
	fwd, back := !forwardLine, !backwardLine
	switch {
	case fwd && !back:
		return sequencer.Forward
	case back && !fwd:
		return sequencer.Backward
	}
	// centre position, or both closed which the switch cannot do
	return sequencer.Halted
}

// Pot identifies a potentiometer
type Pot int

const (
	PotTempo Pot = iota
	PotScale
	PotNote
)

// Panel holds the latest reading from one or more input sources. Sources
// may write from any goroutine; the editor reads snapshots.
type Panel struct {
	mu sync.Mutex
	r  Reading
}

// New creates a panel in the idle state
func New() *Panel {
	return &Panel{r: IdleReading()}
}

// Snapshot returns a copy of the current reading
func (p *Panel) Snapshot() Reading {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r
}

// SetPot stores a raw potentiometer reading, clamped to 0..ADCMax
func (p *Panel) SetPot(pot Pot, raw int) {
	raw = max(0, min(ADCMax, raw))
	p.mu.Lock()
	defer p.mu.Unlock()
	switch pot {
	case PotTempo:
		p.r.Tempo = raw
	case PotScale:
		p.r.Scale = raw
	case PotNote:
		p.r.Note = raw
	}
}

// NudgePot moves a potentiometer by delta
func (p *Panel) NudgePot(pot Pot, delta int) {
	r := p.Snapshot()
	switch pot {
	case PotTempo:
		p.SetPot(pot, r.Tempo+delta)
	case PotScale:
		p.SetPot(pot, r.Scale+delta)
	case PotNote:
		p.SetPot(pot, r.Note+delta)
	}
}

// SetSelector moves the direction switch to d
func (p *Panel) SetSelector(d sequencer.Direction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.r.ForwardLine = d != sequencer.Forward
	p.r.BackwardLine = d != sequencer.Backward
}

// SetRecord presses or releases a record button
func (p *Panel) SetRecord(ch int, pressed bool) {
	if ch < 0 || ch >= sequencer.MaxChannels {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.r.RecordLines[ch] = !pressed
}

// ToggleRecord flips a record button and returns whether it is now pressed
func (p *Panel) ToggleRecord(ch int) bool {
	if ch < 0 || ch >= sequencer.MaxChannels {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.r.RecordLines[ch] = !p.r.RecordLines[ch]
	return !p.r.RecordLines[ch]
}
