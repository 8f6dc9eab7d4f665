package shiftreg

import (
	"fmt"
	"math/bits"
)

// Register models the external register assembly: one chain of 8-bit
// serial-in/parallel-out chips per data line, a shared clock that shifts on
// its rising edge, and a shared latch that copies every chain to the
// outputs on its rising edge.
type Register struct {
	order  BitOrder // order the downstream DAC is wired for
	slots  [][]int
	chains [][]byte
	data   []bool
	clock  bool
	latch  bool
	frame  []byte
	frames int

	// OnLatch, if set, receives the frame as the register's outputs present
	// it. The slice is reused between calls.
	OnLatch func(frame []byte)
}

// NewRegister builds a register for frames of width bytes carried on lines
// data lines. assignment and order describe how the hardware is wired and
// must match the transmitter for frames to arrive intact.
func NewRegister(lines int, assignment []int, order BitOrder, width int) (*Register, error) {
	if order != LSBFirst && order != MSBFirst {
		return nil, fmt.Errorf("%w: bit order must be set explicitly", ErrWiring)
	}
	s, err := slots(lines, assignment, width)
	if err != nil {
		return nil, err
	}
	r := &Register{
		order:  order,
		slots:  s,
		chains: make([][]byte, lines),
		data:   make([]bool, lines),
		frame:  make([]byte, width),
	}
	for line, idx := range s {
		r.chains[line] = make([]byte, len(idx))
	}
	return r, nil
}

// Wiring returns a Wiring connected to this register's inputs
func (r *Register) Wiring(assignment []int) Wiring {
	w := Wiring{
		Clock:      PinFunc(r.setClock),
		Latch:      PinFunc(r.setLatch),
		Assignment: assignment,
	}
	for line := range r.data {
		w.Data = append(w.Data, r.DataPin(line))
	}
	return w
}

// DataPin returns the input pin of one data line
func (r *Register) DataPin(line int) Pin {
	return PinFunc(func(high bool) { r.data[line] = high })
}

func (r *Register) setClock(high bool) {
	rising := high && !r.clock
	r.clock = high
	if !rising {
		return
	}
	for line, chain := range r.chains {
		var carry byte
		if r.data[line] {
			carry = 1
		}
		for i := range chain {
			out := chain[i] >> 7
			chain[i] = chain[i]<<1 | carry
			carry = out
		}
	}
}

func (r *Register) setLatch(high bool) {
	rising := high && !r.latch
	r.latch = high
	if !rising {
		return
	}
	for line, idx := range r.slots {
		chain := r.chains[line]
		for j, fi := range idx {
			// the first byte shifted in travels to the far end of the chain
			v := chain[len(chain)-1-j]
			if r.order == LSBFirst {
				v = bits.Reverse8(v)
			}
			r.frame[fi] = v
		}
	}
	r.frames++
	if r.OnLatch != nil {
		r.OnLatch(r.frame)
	}
}

// Frame returns a copy of the last latched frame
func (r *Register) Frame() []byte {
	return append([]byte(nil), r.frame...)
}

// Frames returns the number of latch pulses seen
func (r *Register) Frames() int {
	return r.frames
}
