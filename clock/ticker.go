package clock

import (
	"context"
	"sync"
	"time"

	"go-stepsynth/debug"
)

// Resolution is the wake-up period of Ticker loops. Rates above
// 1/Resolution are served in catch-up bursts.
const Resolution = time.Millisecond

// maxBurst bounds the calls made in one wake-up so a stalled process does
// not replay seconds of backlog.
const maxBurst = 4096

type tickerTask struct {
	rate float64
	fn   func()
}

// Ticker runs each registered callback on its own goroutine against the
// wall clock, the way two hardware timer interrupts run independently.
type Ticker struct {
	mu      sync.Mutex
	tasks   []tickerTask
	started bool
	wg      sync.WaitGroup
}

// NewTicker creates a wall-clock scheduler
func NewTicker() *Ticker {
	return &Ticker{}
}

// Every registers fn. Registration after Start is ignored.
func (t *Ticker) Every(rate float64, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || rate <= 0 || fn == nil {
		return
	}
	t.tasks = append(t.tasks, tickerTask{rate: rate, fn: fn})
}

// Start launches one loop per callback. Loops exit when ctx is done.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true

	t0 := time.Now()
	for _, task := range t.tasks {
		t.wg.Add(1)
		go func(task tickerTask) {
			defer t.wg.Done()
			run(ctx, t0, task)
		}(task)
	}
}

// Wait blocks until every loop has exited
func (t *Ticker) Wait() {
	t.wg.Wait()
}

func run(ctx context.Context, t0 time.Time, task tickerTask) {
	period := time.Duration(float64(time.Second) / task.rate)
	wake := max(Resolution, period)

	ticker := time.NewTicker(wake)
	defer ticker.Stop()

	var fired uint64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			owed := uint64(now.Sub(t0).Seconds()*task.rate) + 1
			if owed <= fired {
				continue
			}
			n := owed - fired
			if n > maxBurst {
				debug.LogEvery(100, "clock", "overrun at %.0fHz: dropped %d ticks", task.rate, n-maxBurst)
				fired += n - maxBurst
				n = maxBurst
			}
			for ; n > 0; n-- {
				task.fn()
				fired++
			}
		}
	}
}
