package panel

// Debouncer filters an active-low button. The output only changes after
// Threshold consecutive polls agree on the new level.
type Debouncer struct {
	Threshold int

	pressed bool
	run     int
}

// Poll feeds one line level and returns the debounced pressed state
func (d *Debouncer) Poll(line bool) bool {
	raw := !line
	if raw == d.pressed {
		d.run = 0
		return d.pressed
	}
	d.run++
	if d.run >= max(1, d.Threshold) {
		d.pressed = raw
		d.run = 0
	}
	return d.pressed
}

// Pressed returns the debounced state without polling
func (d *Debouncer) Pressed() bool {
	return d.pressed
}
