package sequencer

import "fmt"

// Direction is the tempo-direction selector position
type Direction int8

const (
	Backward Direction = -1
	Halted   Direction = 0
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "FWD"
	case Backward:
		return "REV"
	case Halted:
		return "HALT"
	}
	return fmt.Sprintf("Direction(%d)", int8(d))
}

// ParseDirection parses "forward", "backward" or "halted"
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward", "fwd":
		return Forward, nil
	case "backward", "reverse", "rev":
		return Backward, nil
	case "halted", "halt", "":
		return Halted, nil
	}
	return Halted, fmt.Errorf("%w: unknown direction %q", ErrConfig, s)
}

// Tempo is the pattern sequencer state. It is owned by the slow tick.
type Tempo struct {
	Index     int // always in [0, Length)
	Length    int
	Direction Direction
	Period    int // slow ticks between advances, >= 1
	Counter   int
}

// Tick counts down one slow tick. On expiry it reloads the counter and
// returns true; the caller then loads Pattern[Index] and calls Advance.
// A fresh Tempo expires on its first tick.
func (t *Tempo) Tick() bool {
	t.Counter--
	if t.Counter > 0 {
		return false
	}
	t.Counter = max(1, t.Period)
	return true
}

// Advance moves the index by the direction, wrapping in both directions
func (t *Tempo) Advance() {
	t.Index = wrap(t.Index+int(t.Direction), t.Length)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
