//go:build !headless

package audio

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"go-stepsynth/debug"
)

// Monitor plays a Source through the system audio device
type Monitor struct {
	ctx       *oto.Context
	player    *oto.Player
	src       atomic.Pointer[Source] // Atomic for lock-free Read()
	sampleBuf []float32              // Pre-allocated sample buffer
	started   bool
	mutex     sync.Mutex // Only for setup/control operations
}

// NewMonitor opens the audio device at sampleRate
func NewMonitor(sampleRate int) (*Monitor, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	debug.Log("audio", "oto context ready at %dHz", sampleRate)
	return &Monitor{ctx: ctx}, nil
}

// Attach sets the source the player pulls from
func (m *Monitor) Attach(src *Source) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.src.Store(src)
	if m.player == nil {
		m.player = m.ctx.NewPlayer(m)
	}
	// 4096 bytes = 1024 float32 samples, the usual oto request
	m.sampleBuf = make([]float32, 1024)
}

// Read implements io.Reader for the oto player
func (m *Monitor) Read(p []byte) (n int, err error) {
	src := m.src.Load()
	if src == nil {
		clear(p)
		return len(p), nil
	}

	numSamples := len(p) / 4
	if len(m.sampleBuf) < numSamples {
		m.sampleBuf = make([]float32, numSamples)
	}
	samples := m.sampleBuf[:numSamples]
	src.Render(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	return numSamples * 4, nil
}

// Start begins playback
func (m *Monitor) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.started && m.player != nil {
		m.player.Play()
		m.started = true
	}
}

// Stop halts playback; the engine stops ticking with it
func (m *Monitor) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.started && m.player != nil {
		m.player.Pause()
		m.started = false
	}
}

// Close releases the player
func (m *Monitor) Close() {
	m.Stop()
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.player != nil {
		m.player.Close()
		m.player = nil
	}
}

// IsStarted reports whether playback is running
func (m *Monitor) IsStarted() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.started
}
