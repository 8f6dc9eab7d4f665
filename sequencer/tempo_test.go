package sequencer

import (
	"errors"
	"testing"
)

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func TestTempoAdvanceWraps(t *testing.T) {
	for n := 1; n <= MaxPatternLength; n++ {
		for _, d := range []Direction{Backward, Halted, Forward} {
			tp := Tempo{Length: n, Direction: d}
			seen := []int{tp.Index}
			for i := 0; i < 3*n; i++ {
				prev := tp.Index
				tp.Advance()
				if tp.Index < 0 || tp.Index >= n {
					t.Fatalf("n=%d d=%v: index %d out of range", n, d, tp.Index)
				}
				if want := ((prev+int(d))%n + n) % n; tp.Index != want {
					t.Fatalf("n=%d d=%v: %d -> %d, want %d", n, d, prev, tp.Index, want)
				}
				seen = append(seen, tp.Index)
			}
			if d == Halted {
				continue
			}
			step := int(d)
			if step < 0 {
				step = -step
			}
			period := n / gcd(n, step)
			for i := period; i < len(seen); i++ {
				if seen[i] != seen[i-period] {
					t.Fatalf("n=%d d=%v: sequence not periodic with period %d", n, d, period)
				}
			}
			// and no shorter period
			for p := 1; p < period; p++ {
				if seen[p] == seen[0] {
					t.Fatalf("n=%d d=%v: returned to start after %d steps", n, d, p)
				}
			}
		}
	}
}

func TestBackwardWrapsToEnd(t *testing.T) {
	tp := Tempo{Length: 64, Direction: Backward}
	tp.Advance()
	if tp.Index != 63 {
		t.Errorf("index = %d, want 63", tp.Index)
	}
}

func TestTempoExpiry(t *testing.T) {
	tp := Tempo{Length: 4, Period: 3}
	var expired []int
	for tick := 1; tick <= 10; tick++ {
		if tp.Tick() {
			expired = append(expired, tick)
		}
		if tp.Counter < 0 || tp.Counter > tp.Period {
			t.Fatalf("counter %d out of range", tp.Counter)
		}
	}
	want := []int{1, 4, 7, 10}
	if len(expired) != len(want) {
		t.Fatalf("expired at %v, want %v", expired, want)
	}
	for i := range want {
		if expired[i] != want[i] {
			t.Fatalf("expired at %v, want %v", expired, want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"forward": Forward, "rev": Backward, "halted": Halted, "": Halted} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrConfig) {
		t.Errorf("err = %v", err)
	}
}
