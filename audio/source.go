package audio

import (
	"sync"

	"go-stepsynth/clock"
)

// Source renders DAC output at an audio sample rate. Each output sample
// advances the virtual clock by one sample period, so whoever pulls from
// the source is the hardware timer that drives the ticks.
type Source struct {
	mu    sync.Mutex
	clk   *clock.Virtual
	dac   *DAC
	rate  int
	count uint64 // samples rendered
}

// NewSource wraps a virtual clock and the DAC it feeds
func NewSource(clk *clock.Virtual, dac *DAC, sampleRate int) *Source {
	return &Source{
		clk:  clk,
		dac:  dac,
		rate: sampleRate,
	}
}

// SampleRate returns the output rate in Hz
func (s *Source) SampleRate() int {
	return s.rate
}

// Render fills out with consecutive samples
func (s *Source) Render(out []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range out {
		// absolute sample times keep long runs from drifting
		s.count++
		s.clk.AdvanceTo(float64(s.count) / float64(s.rate))
		out[i] = s.dac.Level()
	}
}
