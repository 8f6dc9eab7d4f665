// Package shiftreg sends frames to chained serial-in/parallel-out shift
// registers over a data, clock and latch line protocol.
package shiftreg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWiring reports an invalid line assignment or bit order
var ErrWiring = errors.New("invalid wiring")

// Pin is one digital output line
type Pin interface {
	Set(high bool)
}

// PinFunc adapts a function to a Pin
type PinFunc func(high bool)

func (f PinFunc) Set(high bool) { f(high) }

// BitOrder is the order bits of each byte are shifted out. It has no usable
// zero value: every deployment must state its order.
type BitOrder uint8

const (
	LSBFirst BitOrder = iota + 1
	MSBFirst
)

func (o BitOrder) String() string {
	switch o {
	case LSBFirst:
		return "lsb"
	case MSBFirst:
		return "msb"
	}
	return fmt.Sprintf("BitOrder(%d)", uint8(o))
}

// MarshalText implements encoding.TextMarshaler
func (o BitOrder) MarshalText() ([]byte, error) {
	if o != LSBFirst && o != MSBFirst {
		return nil, fmt.Errorf("%w: bit order %d", ErrWiring, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *BitOrder) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "lsb", "lsbfirst", "lsb-first":
		*o = LSBFirst
	case "msb", "msbfirst", "msb-first":
		*o = MSBFirst
	default:
		return fmt.Errorf("%w: bit order %q", ErrWiring, b)
	}
	return nil
}

// bit returns the index of the i-th bit shifted out of a byte
func (o BitOrder) bit(i int) int {
	if o == MSBFirst {
		return 7 - i
	}
	return i
}

// Wiring is the line assignment of one deployment
type Wiring struct {
	Data  []Pin
	Clock Pin
	Latch Pin

	// Assignment maps frame byte i to data line Assignment[i]. Nil sends
	// every byte on line 0.
	Assignment []int
}

// slots returns, per data line, the frame byte indices in send order
func slots(lines int, assignment []int, width int) ([][]int, error) {
	if lines < 1 {
		return nil, fmt.Errorf("%w: no data lines", ErrWiring)
	}
	if width < 1 {
		return nil, fmt.Errorf("%w: frame width %d", ErrWiring, width)
	}
	if assignment != nil && len(assignment) != width {
		return nil, fmt.Errorf("%w: assignment covers %d bytes, frame has %d", ErrWiring, len(assignment), width)
	}
	out := make([][]int, lines)
	for i := 0; i < width; i++ {
		line := 0
		if assignment != nil {
			line = assignment[i]
		}
		if line < 0 || line >= lines {
			return nil, fmt.Errorf("%w: byte %d on line %d, have %d lines", ErrWiring, i, line, lines)
		}
		out[line] = append(out[line], i)
	}
	return out, nil
}

func depth(s [][]int) int {
	d := 0
	for _, line := range s {
		d = max(d, len(line))
	}
	return d
}
