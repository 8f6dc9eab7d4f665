// Package board assembles the synthesizer the way the circuit does: engine,
// serial link, register chain, DAC and front panel.
package board

import (
	"fmt"

	"go-stepsynth/audio"
	"go-stepsynth/clock"
	"go-stepsynth/config"
	"go-stepsynth/panel"
	"go-stepsynth/sequencer"
	"go-stepsynth/shiftreg"
)

// Board is one assembled synthesizer. Nothing ticks until Start.
type Board struct {
	Engine      *sequencer.Engine
	Transmitter *shiftreg.Transmitter
	Register    *shiftreg.Register
	DAC         *audio.DAC
	Panel       *panel.Panel
	Editor      *panel.Editor
}

// New builds a board from cfg
func New(cfg *config.Config) (*Board, error) {
	ec, err := cfg.Sequencer()
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	width := ec.FrameWidth()

	reg, err := shiftreg.NewRegister(cfg.Wire.DataLines, cfg.Wire.Assignment, cfg.Wire.HardwareOrder(), width)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	dac := audio.NewDAC()
	reg.OnLatch = dac.Latch

	tx, err := shiftreg.NewTransmitter(reg.Wiring(cfg.Wire.Assignment), cfg.Wire.BitOrder, width)
	if err != nil {
		return nil, fmt.Errorf("transmitter: %w", err)
	}

	eng, err := sequencer.New(ec, tx)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	b := &Board{
		Engine:      eng,
		Transmitter: tx,
		Register:    reg,
		DAC:         dac,
		Panel:       panel.New(),
		Editor:      panel.NewEditor(eng, cfg.Controls.Ranges, cfg.Controls.Debounce),
	}
	// the tempo knob starts where the configured period is
	b.Panel.SetPot(panel.PotTempo, cfg.Controls.Ranges.Tempo.Invert(ec.TempoPeriod))
	b.Panel.SetSelector(ec.Direction)
	return b, nil
}

// Start attaches the engine's ticks to s
func (b *Board) Start(s clock.Scheduler) {
	b.Engine.Register(s)
}

// Poll runs one editor pass over the current panel state
func (b *Board) Poll() bool {
	return b.Editor.Apply(b.Panel.Snapshot())
}
