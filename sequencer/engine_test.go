package sequencer

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go-stepsynth/clock"
	"go-stepsynth/shiftreg"
)

type recorder struct {
	frames [][]byte
}

func (r *recorder) Send(frame []byte) {
	r.frames = append(r.frames, append([]byte(nil), frame...))
}

func newEngine(t *testing.T, mod func(*Config)) (*Engine, *recorder) {
	t.Helper()

	cfg := DefaultConfig()
	if mod != nil {
		mod(&cfg)
	}
	rec := &recorder{}
	e, err := New(cfg, rec)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, rec
}

func fill(e *Engine, steps ...PatternStep) {
	for i := 0; i < e.Pattern().Len(); i++ {
		e.Pattern().Store(i, PatternStep{})
	}
	for i, s := range steps {
		e.Pattern().Store(i, s)
	}
}

func TestEndToEndDivisorSequence(t *testing.T) {
	e, _ := newEngine(t, func(c *Config) {
		c.PatternLength = 4
		c.TempoPeriod = 1
		c.Direction = Forward
	})
	fill(e,
		PatternStep{{Divisor: 3, Multiplier: 1}},
		PatternStep{{Divisor: 0, Multiplier: 0}},
		PatternStep{{Divisor: 1, Multiplier: 1}},
		PatternStep{{Divisor: 0, Multiplier: 0}},
	)

	var got []uint16
	var idx []int
	for i := 0; i < 8; i++ {
		e.SlowTick()
		e.FastTick()
		got = append(got, e.channels[0].Divisor)
		idx = append(idx, e.Index())
	}
	if diff := cmp.Diff([]uint16{3, 0, 1, 0, 3, 0, 1, 0}, got); diff != "" {
		t.Errorf("divisor sequence mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 0, 1, 2, 3}, idx); diff != "" {
		t.Errorf("index sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestBackwardFromZeroWraps(t *testing.T) {
	e, _ := newEngine(t, func(c *Config) {
		c.PatternLength = 5
		c.TempoPeriod = 1
		c.Direction = Backward
	})
	var idx []int
	for i := 0; i < 6; i++ {
		e.SlowTick()
		idx = append(idx, e.Index())
	}
	if diff := cmp.Diff([]int{0, 4, 3, 2, 1, 0}, idx); diff != "" {
		t.Errorf("index sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestHaltedHoldsIndex(t *testing.T) {
	e, _ := newEngine(t, func(c *Config) {
		c.TempoPeriod = 1
		c.Direction = Halted
	})
	for i := 0; i < 10; i++ {
		e.SlowTick()
		if e.Index() != 0 {
			t.Fatalf("index moved to %d while halted", e.Index())
		}
	}
}

func TestTempoChangeWaitsForReload(t *testing.T) {
	e, _ := newEngine(t, func(c *Config) { c.TempoPeriod = 10 })

	var reloads []int
	last := -1
	for tick := 1; tick <= 16; tick++ {
		e.SlowTick()
		if e.Index() != last {
			reloads = append(reloads, tick)
			last = e.Index()
		}
		if tick == 1 {
			e.SetTempoPeriod(2)
		}
	}
	// first period still runs 10 ticks; the new period applies afterwards
	if diff := cmp.Diff([]int{1, 11, 13, 15}, reloads); diff != "" {
		t.Errorf("reload ticks mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectionChangeAtReload(t *testing.T) {
	e, _ := newEngine(t, func(c *Config) {
		c.PatternLength = 8
		c.TempoPeriod = 1
	})
	e.SlowTick() // plays 0
	e.SlowTick() // plays 1
	e.SetDirection(Backward)
	e.SlowTick() // plays 2, then steps back
	e.SlowTick()
	if e.Index() != 1 {
		t.Errorf("index = %d, want 1", e.Index())
	}
	if e.Direction() != Backward {
		t.Errorf("direction = %v", e.Direction())
	}
}

func TestSilentPatternSendsOnlyRefresh(t *testing.T) {
	e, rec := newEngine(t, func(c *Config) { c.TempoPeriod = 1000 })
	fill(e)

	e.SlowTick()
	for i := 0; i < 500; i++ {
		e.FastTick()
	}
	if len(rec.frames) != 1 {
		t.Fatalf("sent %d frames, want 1 refresh frame", len(rec.frames))
	}
	base := e.Table().Baseline()
	if diff := cmp.Diff([]byte{base, base, 0}, rec.frames[0]); diff != "" {
		t.Errorf("refresh frame mismatch (-want +got):\n%s", diff)
	}
}

func TestFrameOnEitherChannelChange(t *testing.T) {
	e, rec := newEngine(t, func(c *Config) { c.TempoPeriod = 1000 })
	fill(e, PatternStep{{Divisor: 1, Multiplier: 1}, {Divisor: 2, Multiplier: 1}})

	e.SlowTick()
	for i := 0; i < 12; i++ {
		e.FastTick()
	}
	// refresh at tick 1; channel A advances at ticks 2,4,...,12; B at 3,6,9,12
	want := 1 + 6 + 2 // tick 12 coincides
	if len(rec.frames) != want {
		t.Errorf("sent %d frames, want %d", len(rec.frames), want)
	}
	for _, f := range rec.frames {
		if len(f) != 3 {
			t.Fatalf("frame width %d, want 3", len(f))
		}
	}
}

func TestMixModes(t *testing.T) {
	step := PatternStep{{Divisor: 1, Multiplier: 16}, {Divisor: 1, Multiplier: 0}}

	t.Run("average", func(t *testing.T) {
		e, rec := newEngine(t, func(c *Config) { c.Mix = MixAverage })
		fill(e, step)
		e.SlowTick()
		e.FastTick()
		e.FastTick() // A moves to the low half of the square
		last := rec.frames[len(rec.frames)-1]
		if diff := cmp.Diff([]byte{(0 + 255) / 2, 0}, last); diff != "" {
			t.Errorf("frame mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("multiplex", func(t *testing.T) {
		e, rec := newEngine(t, func(c *Config) { c.Mix = MixMultiplex })
		fill(e, step)
		e.SlowTick()
		e.FastTick()
		e.FastTick()
		if len(rec.frames) != 2 {
			t.Fatalf("sent %d frames", len(rec.frames))
		}
		// channel A then channel B
		if rec.frames[0][0] != 255 || rec.frames[1][0] != 255 {
			t.Errorf("frames = %v", rec.frames)
		}
	})
}

func TestAuxLED(t *testing.T) {
	e, rec := newEngine(t, func(c *Config) {
		c.Aux = AuxLED
		c.TempoPeriod = 1
	})
	for i := 0; i < 10; i++ {
		e.SlowTick()
		e.FastTick()
	}
	last := rec.frames[len(rec.frames)-1]
	if got := last[len(last)-1]; got != 1<<(9%8) {
		t.Errorf("aux = %08b, want %08b", got, 1<<(9%8))
	}
}

func TestScheduledThroughRegister(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickRate = 1000
	cfg.SlowRate = 100
	cfg.TempoPeriod = 2
	cfg.PatternLength = 4

	reg, err := shiftreg.NewRegister(1, nil, shiftreg.MSBFirst, cfg.FrameWidth())
	if err != nil {
		t.Fatal(err)
	}
	var aux []byte
	reg.OnLatch = func(f []byte) {
		a := f[len(f)-1]
		if len(aux) == 0 || aux[len(aux)-1] != a {
			aux = append(aux, a)
		}
	}
	tx, err := shiftreg.NewTransmitter(reg.Wiring(nil), shiftreg.MSBFirst, cfg.FrameWidth())
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(cfg, tx)
	if err != nil {
		t.Fatal(err)
	}

	v := clock.NewVirtual()
	e.Register(v)
	v.Fire(100) // 100ms: five reloads at 20ms intervals

	if diff := cmp.Diff([]byte{0, 1, 2, 3, 0}, aux); diff != "" {
		t.Errorf("aux sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestTickRaceWithEditorWrite(t *testing.T) {
	e, _ := newEngine(t, func(c *Config) {
		c.PatternLength = 1
		c.TempoPeriod = 1
	})
	a := PatternStep{{Divisor: 1, Multiplier: 1}, {Divisor: 1, Multiplier: 1}}
	b := PatternStep{{Divisor: 500, Multiplier: 500}, {Divisor: 500, Multiplier: 500}}
	e.Pattern().Store(0, a)

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				e.Pattern().Store(0, b)
			} else {
				e.Pattern().Store(0, a)
			}
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
	}()

	for i := 0; i < 100000; i++ {
		e.SlowTick()
		e.FastTick()
		got := PatternStep{e.channels[0].Tone(), e.channels[1].Tone()}
		if got != a && got != b {
			t.Fatalf("channels loaded a mixed step: %+v", got)
		}
	}
}

func TestAdoptedStepMatchesAux(t *testing.T) {
	e, _ := newEngine(t, func(c *Config) {
		c.TempoPeriod = 1
		c.Aux = AuxIndex
	})
	// step i plays divisor i+1, so the channel tells which step it adopted
	for i := 0; i < e.Pattern().Len(); i++ {
		e.Pattern().Store(i, PatternStep{{Divisor: uint16(i + 1), Multiplier: 1}})
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				e.SlowTick()
			}
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
	}()

	for i := 0; i < 100000; i++ {
		e.FastTick()
		got := e.channels[0].Divisor
		if got == 0 {
			continue // nothing adopted yet
		}
		if want := uint16(e.aux) + 1; got != want {
			t.Fatalf("channel plays divisor %d but aux reports step %d", got, e.aux)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"tick rate", func(c *Config) { c.TickRate = 0 }},
		{"slow faster than fast", func(c *Config) { c.SlowRate = c.TickRate * 2 }},
		{"channels", func(c *Config) { c.Channels = 3 }},
		{"pattern length", func(c *Config) { c.PatternLength = 65 }},
		{"tempo period", func(c *Config) { c.TempoPeriod = 0 }},
		{"mix", func(c *Config) { c.Mix = "sum" }},
		{"aux", func(c *Config) { c.Aux = "clock" }},
		{"shape", func(c *Config) { c.Shape = "noise" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			if _, err := New(cfg, &recorder{}); !errors.Is(err, ErrConfig) {
				t.Errorf("err = %v, want ErrConfig", err)
			}
		})
	}
	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrConfig) {
		t.Errorf("nil sender err = %v", err)
	}
}

func TestDefaultPatternUsesNoteTable(t *testing.T) {
	e, _ := newEngine(t, nil)
	first := e.Pattern().Load(0)
	if first[0] != e.NoteTone(1, 1) {
		t.Errorf("step 0 channel A = %+v, want %+v", first[0], e.NoteTone(1, 1))
	}
	if !e.Pattern().Load(6)[0].Silent() {
		t.Error("step 6 channel A should rest")
	}
	if !e.Pattern().Load(1)[1].Silent() {
		t.Error("step 1 channel B should rest")
	}
}
