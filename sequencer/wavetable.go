package sequencer

import (
	"fmt"
	"math"
)

// Shape selects a generated waveform
type Shape string

const (
	ShapeSquare   Shape = "square"
	ShapeSine     Shape = "sine"
	ShapeTriangle Shape = "triangle"
	ShapeSaw      Shape = "saw"
)

// DefaultTableLength is the number of samples in one generated cycle
const DefaultTableLength = 32

// Wavetable is a read-only cycle of 8-bit amplitude samples
type Wavetable struct {
	samples  []uint8
	baseline uint8
}

// NewWavetable wraps samples as a table. The baseline (the value a silent
// channel outputs) is the midpoint of the smallest and largest sample.
func NewWavetable(samples []uint8) (*Wavetable, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty wavetable", ErrConfig)
	}
	if len(samples) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: wavetable length %d exceeds %d", ErrConfig, len(samples), math.MaxUint16)
	}
	lo, hi := samples[0], samples[0]
	for _, s := range samples {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	t := &Wavetable{
		samples:  append([]uint8(nil), samples...),
		baseline: uint8((int(lo) + int(hi) + 1) / 2),
	}
	return t, nil
}

// Generate builds a table of the given shape and length
func Generate(shape Shape, length int) (*Wavetable, error) {
	if length < 2 {
		return nil, fmt.Errorf("%w: wavetable length %d too short", ErrConfig, length)
	}
	samples := make([]uint8, length)
	for i := range samples {
		// phase in [0, 1)
		ph := float64(i) / float64(length)
		var v float64 // -1..1
		switch shape {
		case ShapeSquare:
			v = 1
			if i >= length/2 {
				v = -1
			}
		case ShapeSine:
			v = math.Sin(2 * math.Pi * ph)
		case ShapeTriangle:
			switch {
			case ph < 0.25:
				v = 4 * ph
			case ph < 0.75:
				v = 2 - 4*ph
			default:
				v = 4*ph - 4
			}
		case ShapeSaw:
			v = 2*ph - 1
		default:
			return nil, fmt.Errorf("%w: unknown waveform %q", ErrConfig, shape)
		}
		samples[i] = toByte(v)
	}
	t, err := NewWavetable(samples)
	if err != nil {
		return nil, err
	}
	// generated shapes are symmetric around the 8-bit midpoint
	t.baseline = 128
	return t, nil
}

func toByte(v float64) uint8 {
	x := math.Round(127.5 + 127.5*v)
	return uint8(max(0, min(255, x)))
}

// Len returns the number of samples in one cycle
func (t *Wavetable) Len() int {
	return len(t.samples)
}

// At returns the sample at position i, which must be in [0, Len())
func (t *Wavetable) At(i int) uint8 {
	return t.samples[i]
}

// Baseline returns the zero-crossing value output by silent channels
func (t *Wavetable) Baseline() uint8 {
	return t.baseline
}
