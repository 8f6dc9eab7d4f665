package sequencer

// Channel is the phase accumulator for one voice. It is owned by the fast
// tick; nothing else may touch it while the engine runs.
type Channel struct {
	Divisor    uint16
	Multiplier uint16
	Counter    uint16 // always in [0, Divisor]
	Phase      int    // always in [0, table length)
}

// SetTone loads new pitch parameters. The phase is kept so steps join
// without a click; the counter restarts a full hold.
func (c *Channel) SetTone(t Tone) {
	c.Divisor = t.Divisor
	c.Multiplier = t.Multiplier
	c.Counter = t.Divisor
}

// Tone returns the channel's current pitch parameters
func (c *Channel) Tone() Tone {
	return Tone{Divisor: c.Divisor, Multiplier: c.Multiplier}
}

// Tick advances the channel by one fast tick and reports whether its
// sample changed. A silent channel never changes.
func (c *Channel) Tick(tableLen int) bool {
	if c.Divisor == 0 {
		return false
	}
	if c.Counter > 0 {
		c.Counter--
		return false
	}
	// underflow
	c.Counter = c.Divisor
	c.Phase = (c.Phase + int(c.Multiplier)) % tableLen
	return true
}

// Sample returns the channel's current output value
func (c *Channel) Sample(t *Wavetable) uint8 {
	if c.Divisor == 0 {
		return t.Baseline()
	}
	return t.At(c.Phase)
}
