package shiftreg

import "fmt"

// Transmitter shifts fixed-width frames out over a Wiring. It is fire and
// forget: there is no acknowledgement or flow control.
type Transmitter struct {
	data  []Pin
	clock Pin
	latch Pin
	order BitOrder
	slots [][]int
	depth int
	width int
}

// NewTransmitter validates the wiring for frames of width bytes
func NewTransmitter(w Wiring, order BitOrder, width int) (*Transmitter, error) {
	if order != LSBFirst && order != MSBFirst {
		return nil, fmt.Errorf("%w: bit order must be set explicitly", ErrWiring)
	}
	if w.Clock == nil || w.Latch == nil {
		return nil, fmt.Errorf("%w: clock and latch lines are required", ErrWiring)
	}
	for i, p := range w.Data {
		if p == nil {
			return nil, fmt.Errorf("%w: data line %d not connected", ErrWiring, i)
		}
	}
	s, err := slots(len(w.Data), w.Assignment, width)
	if err != nil {
		return nil, err
	}
	return &Transmitter{
		data:  w.Data,
		clock: w.Clock,
		latch: w.Latch,
		order: order,
		slots: s,
		depth: depth(s),
		width: width,
	}, nil
}

// Width returns the frame width in bytes
func (t *Transmitter) Width() int {
	return t.width
}

// Order returns the configured bit order
func (t *Transmitter) Order() BitOrder {
	return t.order
}

// Send shifts one frame out and latches it. Bytes missing from frame are
// sent as zero; extra bytes are ignored.
func (t *Transmitter) Send(frame []byte) {
	for slot := 0; slot < t.depth; slot++ {
		for i := 0; i < 8; i++ {
			bit := t.order.bit(i)
			for line, idx := range t.slots {
				// shorter lines are padded at the front so their bytes
				// end up in the chips nearest the input
				j := slot - (t.depth - len(idx))
				var v byte
				if j >= 0 && idx[j] < len(frame) {
					v = frame[idx[j]]
				}
				t.data[line].Set(v>>bit&1 == 1)
			}
			t.clock.Set(true)
			t.clock.Set(false)
		}
	}
	t.latch.Set(true)
	t.latch.Set(false)
}
