//go:build headless

package audio

import (
	"sync"
	"sync/atomic"
	"time"
)

// Monitor paces a Source against the wall clock without a sound device,
// so the engine keeps running on machines with no audio output.
type Monitor struct {
	rate    int
	src     atomic.Pointer[Source]
	started bool
	stop    chan struct{}
	done    chan struct{}
	mutex   sync.Mutex
}

// NewMonitor creates a silent monitor at sampleRate
func NewMonitor(sampleRate int) (*Monitor, error) {
	return &Monitor{rate: sampleRate}, nil
}

// Attach sets the source to pace
func (m *Monitor) Attach(src *Source) {
	m.src.Store(src)
}

// Read renders len(p)/4 samples and discards them
func (m *Monitor) Read(p []byte) (n int, err error) {
	if src := m.src.Load(); src != nil {
		src.Render(make([]float32, len(p)/4))
	}
	return len(p), nil
}

// Start begins pacing
func (m *Monitor) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.loop(m.stop, m.done)
}

func (m *Monitor) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	buf := make([]byte, m.rate/100*4)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.Read(buf)
		}
	}
}

// Stop halts pacing
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if !m.started {
		return
	}
	close(m.stop)
	<-m.done
	m.started = false
}

// Close stops the monitor
func (m *Monitor) Close() {
	m.Stop()
}

// IsStarted reports whether pacing is running
func (m *Monitor) IsStarted() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.started
}
