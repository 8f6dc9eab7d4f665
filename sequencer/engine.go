package sequencer

import (
	"fmt"
	"sync/atomic"

	"go-stepsynth/clock"
)

// Mix selects how channel samples are combined into a frame
type Mix string

const (
	MixSeparate  Mix = "separate"  // one byte per channel
	MixAverage   Mix = "average"   // one byte, mean of the channels
	MixMultiplex Mix = "multiplex" // one byte, channels alternate per frame
)

// Aux selects what the auxiliary frame byte carries
type Aux string

const (
	AuxIndex Aux = "index" // raw pattern index
	AuxLED   Aux = "led"   // one-hot position of the index on an 8-LED bar
	AuxNone  Aux = "none"
)

// Sender transmits one frame to the external register. It is called from
// the fast tick and must not block.
type Sender interface {
	Send(frame []byte)
}

// Config holds the fixed engine parameters
type Config struct {
	TickRate      float64 // fast ticks per second
	SlowRate      float64 // slow ticks per second
	Shape         Shape
	TableLength   int
	Channels      int
	PatternLength int
	Mix           Mix
	Aux           Aux
	TempoPeriod   int // slow ticks per pattern step
	Direction     Direction
}

// DefaultConfig returns a two-channel square-wave engine at 31.25kHz
func DefaultConfig() Config {
	return Config{
		TickRate:      31250,
		SlowRate:      1000,
		Shape:         ShapeSquare,
		TableLength:   DefaultTableLength,
		Channels:      2,
		PatternLength: MaxPatternLength,
		Mix:           MixSeparate,
		Aux:           AuxIndex,
		TempoPeriod:   125,
		Direction:     Forward,
	}
}

// Validate checks the config for values the engine cannot run with
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %v", ErrConfig, c.TickRate)
	case c.SlowRate <= 0 || c.SlowRate > c.TickRate:
		return fmt.Errorf("%w: slow rate %v must be in (0, %v]", ErrConfig, c.SlowRate, c.TickRate)
	case c.Channels < 1 || c.Channels > MaxChannels:
		return fmt.Errorf("%w: %d channels, want 1..%d", ErrConfig, c.Channels, MaxChannels)
	case c.PatternLength < 1 || c.PatternLength > MaxPatternLength:
		return fmt.Errorf("%w: pattern length %d, want 1..%d", ErrConfig, c.PatternLength, MaxPatternLength)
	case c.TempoPeriod < 1:
		return fmt.Errorf("%w: tempo period %d", ErrConfig, c.TempoPeriod)
	case c.Direction < Backward || c.Direction > Forward:
		return fmt.Errorf("%w: direction %d", ErrConfig, c.Direction)
	}
	switch c.Mix {
	case MixSeparate, MixAverage, MixMultiplex:
	default:
		return fmt.Errorf("%w: unknown mix %q", ErrConfig, c.Mix)
	}
	switch c.Aux {
	case AuxIndex, AuxLED, AuxNone:
	default:
		return fmt.Errorf("%w: unknown aux %q", ErrConfig, c.Aux)
	}
	return nil
}

// FrameWidth returns the number of bytes in every transmitted frame
func (c Config) FrameWidth() int {
	if c.Mix == MixSeparate {
		return c.Channels + 1
	}
	return 2
}

// Engine is the single-instance synthesis and sequencing aggregate. FastTick
// and SlowTick may run on different goroutines; the Pattern Editor runs on
// a third and only touches the pattern and the atomic external parameters.
type Engine struct {
	cfg     Config
	table   *Wavetable
	pattern *Pattern
	tx      Sender

	// fast tick
	channels [MaxChannels]Channel
	frame    []byte
	aux      uint8
	mux      int

	// slow tick
	tempo Tempo

	// slow -> fast
	handoff atomic.Pointer[loadedStep]
	playing atomic.Int32

	// editor -> slow
	direction atomic.Int32
	period    atomic.Int32
}

// loadedStep is a step and its pattern index, published together so the
// fast tick never pairs a new step with the previous index
type loadedStep struct {
	step  PatternStep
	index int
}

// New builds an engine that transmits through tx. The pattern starts with
// the default sequence.
func New(cfg Config, tx Sender) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: nil sender", ErrConfig)
	}
	table, err := Generate(cfg.Shape, cfg.TableLength)
	if err != nil {
		return nil, err
	}
	pattern, err := NewPattern(cfg.PatternLength)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		table:   table,
		pattern: pattern,
		tx:      tx,
		frame:   make([]byte, cfg.FrameWidth()),
		tempo: Tempo{
			Length:    cfg.PatternLength,
			Direction: cfg.Direction,
			Period:    cfg.TempoPeriod,
		},
	}
	e.direction.Store(int32(cfg.Direction))
	e.period.Store(int32(cfg.TempoPeriod))
	e.LoadDefaultPattern()
	return e, nil
}

// Register attaches both tick handlers to a scheduler
func (e *Engine) Register(s clock.Scheduler) {
	s.Every(e.cfg.TickRate, e.FastTick)
	s.Every(e.cfg.SlowRate, e.SlowTick)
}

// FastTick runs one waveform update and transmits a frame if any output
// changed.
func (e *Engine) FastTick() {
	changed := false
	if l := e.handoff.Swap(nil); l != nil {
		for ch := 0; ch < e.cfg.Channels; ch++ {
			e.channels[ch].SetTone(l.step[ch])
		}
		e.aux = e.auxValue(l.index)
		// new aux value and any newly silenced channel must reach the register
		changed = true
	}

	n := e.table.Len()
	for ch := 0; ch < e.cfg.Channels; ch++ {
		if e.channels[ch].Tick(n) {
			changed = true
		}
	}
	if changed {
		e.emit()
	}
}

func (e *Engine) emit() {
	w := 0
	switch e.cfg.Mix {
	case MixSeparate:
		for ch := 0; ch < e.cfg.Channels; ch++ {
			e.frame[w] = e.channels[ch].Sample(e.table)
			w++
		}
	case MixAverage:
		sum := 0
		for ch := 0; ch < e.cfg.Channels; ch++ {
			sum += int(e.channels[ch].Sample(e.table))
		}
		e.frame[w] = uint8(sum / e.cfg.Channels)
		w++
	case MixMultiplex:
		e.frame[w] = e.channels[e.mux].Sample(e.table)
		e.mux = (e.mux + 1) % e.cfg.Channels
		w++
	}
	e.frame[w] = e.aux
	e.tx.Send(e.frame)
}

func (e *Engine) auxValue(index int) uint8 {
	switch e.cfg.Aux {
	case AuxIndex:
		return uint8(index)
	case AuxLED:
		return 1 << (index % 8)
	}
	return 0
}

// SlowTick runs one tempo tick. On expiry it hands Pattern[index] to the
// fast tick and advances the index.
func (e *Engine) SlowTick() {
	// external changes only land at a reload, never mid-count
	e.tempo.Period = int(e.period.Load())
	if !e.tempo.Tick() {
		return
	}
	e.tempo.Direction = Direction(e.direction.Load())

	e.playing.Store(int32(e.tempo.Index))
	e.handoff.Store(&loadedStep{
		step:  e.pattern.Load(e.tempo.Index),
		index: e.tempo.Index,
	})

	e.tempo.Advance()
}

// Index returns the pattern index of the step currently playing
func (e *Engine) Index() int {
	return int(e.playing.Load())
}

// SetDirection selects the tempo direction from the next reload on
func (e *Engine) SetDirection(d Direction) {
	d = max(Backward, min(Forward, d))
	e.direction.Store(int32(d))
}

// Direction returns the selected direction
func (e *Engine) Direction() Direction {
	return Direction(e.direction.Load())
}

// SetTempoPeriod sets the slow ticks per step from the next reload on
func (e *Engine) SetTempoPeriod(ticks int) {
	e.period.Store(int32(max(1, ticks)))
}

// TempoPeriod returns the selected tempo period in slow ticks
func (e *Engine) TempoPeriod() int {
	return int(e.period.Load())
}

// Pattern returns the shared pattern
func (e *Engine) Pattern() *Pattern {
	return e.pattern
}

// Table returns the wavetable
func (e *Engine) Table() *Wavetable {
	return e.table
}

// Config returns the engine's fixed parameters
func (e *Engine) Config() Config {
	return e.cfg
}

// NoteTone converts a note index and scale divisor to a Tone for this
// engine's tick rate and table.
func (e *Engine) NoteTone(note, scale int) Tone {
	return ToneFor(NoteFrequency(note, scale), e.cfg.TickRate, e.table.Len())
}

// LoadDefaultPattern fills the pattern with the power-on sequence: an
// arpeggio on channel A over a bass pulse on channel B.
func (e *Engine) LoadDefaultPattern() {
	arp := []int{1, 3, 5, 8, 5, 3, 0, 3}
	for i := 0; i < e.pattern.Len(); i++ {
		var step PatternStep
		step[0] = e.NoteTone(arp[i%len(arp)], 1)
		if i%4 == 0 {
			step[1] = e.NoteTone(1, 2)
		}
		e.pattern.Store(i, step)
	}
}
