package clock

import (
	"math"
	"time"
)

type virtualTask struct {
	rate  float64
	fn    func()
	fired uint64 // calls so far; the next call is due at fired/rate
}

func (t *virtualTask) due() float64 {
	return float64(t.fired) / t.rate
}

// Virtual is a deterministic scheduler. Time only moves when Advance is
// called, and callbacks fire in due-time order on the caller's goroutine.
// Ties go to the task registered first.
type Virtual struct {
	tasks []*virtualTask
	now   float64 // seconds
}

// NewVirtual creates a virtual clock at time zero
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Every registers fn. Its first call is due at the current time.
func (v *Virtual) Every(rate float64, fn func()) {
	if rate <= 0 || fn == nil {
		return
	}
	t := &virtualTask{rate: rate, fn: fn}
	// start at the current time, not at zero
	t.fired = uint64(math.Ceil(v.now * rate))
	v.tasks = append(v.tasks, t)
}

// Now returns the virtual time elapsed
func (v *Virtual) Now() time.Duration {
	return time.Duration(v.now * float64(time.Second))
}

// AdvanceSeconds runs every callback due before now+dt, then moves the
// clock to now+dt.
func (v *Virtual) AdvanceSeconds(dt float64) {
	v.AdvanceTo(v.now + dt)
}

// AdvanceTo runs every callback due before end, then moves the clock to
// end. Times in the past are ignored.
func (v *Virtual) AdvanceTo(end float64) {
	if end < v.now {
		return
	}
	for {
		var next *virtualTask
		for _, t := range v.tasks {
			if t.due() < end && (next == nil || t.due() < next.due()) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.fired++
		next.fn()
	}
	v.now = end
}

// Advance moves the clock forward by d
func (v *Virtual) Advance(d time.Duration) {
	v.AdvanceSeconds(d.Seconds())
}

// Fire runs n calls of the fastest task, along with whatever other tasks
// fall due in that time.
func (v *Virtual) Fire(n int) {
	if len(v.tasks) == 0 || n <= 0 {
		return
	}
	fastest := v.tasks[0]
	for _, t := range v.tasks[1:] {
		if t.rate > fastest.rate {
			fastest = t
		}
	}
	// land exactly between the n-th and (n+1)-th due times
	target := (float64(fastest.fired+uint64(n)) - 0.5) / fastest.rate
	v.AdvanceTo(target)
}
