package sequencer

import (
	"errors"
	"math"
)

// ErrConfig reports an engine configuration that cannot run
var ErrConfig = errors.New("invalid engine config")

// Tone is one channel's pitch encoding: the channel holds for Divisor+1 fast
// ticks, then advances Multiplier table steps. Divisor 0 is silence.
type Tone struct {
	Divisor    uint16 `json:"divisor"`
	Multiplier uint16 `json:"multiplier"`
}

// Rest is the silent tone
var Rest = Tone{}

// Silent reports whether the tone produces no output
func (t Tone) Silent() bool {
	return t.Divisor == 0
}

// HoldTicks returns the number of fast ticks between phase advances
func (t Tone) HoldTicks() int {
	return int(t.Divisor) + 1
}

// Frequency returns the frequency the tone actually plays
func (t Tone) Frequency(tickRate float64, tableLen int) float64 {
	if t.Silent() || tableLen <= 0 {
		return 0
	}
	stepsPerTick := float64(t.Multiplier) / float64(t.HoldTicks())
	return stepsPerTick * tickRate / float64(tableLen)
}

// ToneFor converts a frequency in Hz to the Tone that best approximates it
// on a table of tableLen samples stepped at tickRate Hz. The played period,
// tableLen*(Divisor+1)/Multiplier ticks, is the closest the encoding can get
// to tickRate/freq; for audible notes that is within one tick.
func ToneFor(freq, tickRate float64, tableLen int) Tone {
	// rest must short-circuit before any division
	if freq <= 0 || tickRate <= 0 || tableLen <= 0 {
		return Rest
	}

	// target waveform period in ticks
	period := tickRate / freq
	l := float64(tableLen)

	// advancing more than half the table per step folds the waveform back
	maxMult := min(max(1, tableLen/2), math.MaxUint16)

	best, bestErr := Rest, math.Inf(1)
	for m := 1; m <= maxMult; m++ {
		// divisor 0 is reserved for silence, so the shortest hold is 2 ticks
		hold := math.Round(float64(m) * period / l)
		hold = math.Max(2, math.Min(hold, math.MaxUint16+1))

		// ties keep the smaller multiplier
		err := math.Abs(l*hold/float64(m) - period)
		if err < bestErr {
			best = Tone{Divisor: uint16(hold - 1), Multiplier: uint16(m)}
			bestErr = err
		}
	}
	return best
}

// NumNotes is the size of the note table
const NumNotes = 16

// Scale divisor bounds
const (
	MinScale = 1
	MaxScale = 8
)

// Notes holds note frequencies in Hz. Index 0 is Rest.
var Notes = [NumNotes]float64{
	0,       // rest
	261.63,  // C4
	293.66,  // D4
	329.63,  // E4
	349.23,  // F4
	392.00,  // G4
	440.00,  // A4
	493.88,  // B4
	523.25,  // C5
	587.33,  // D5
	659.25,  // E5
	698.46,  // F5
	783.99,  // G5
	880.00,  // A5
	987.77,  // B5
	1046.50, // C6
}

// NoteFrequency returns the frequency for a note index divided by a scale
// divisor. Out-of-range notes clamp to the table; note 0 is always 0.
func NoteFrequency(note, scale int) float64 {
	note = max(0, min(NumNotes-1, note))
	scale = max(MinScale, min(MaxScale, scale))
	return Notes[note] / float64(scale)
}
