package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go-stepsynth/panel"
	"go-stepsynth/sequencer"
	"go-stepsynth/shiftreg"
)

// AppName names the config directory
const AppName = "go-stepsynth"

// EngineConfig holds the fixed synthesis parameters
type EngineConfig struct {
	TickRate      float64 `json:"tickRate"`
	SlowRate      float64 `json:"slowRate"`
	Waveform      string  `json:"waveform"`
	TableLength   int     `json:"tableLength"`
	Channels      int     `json:"channels"`
	PatternLength int     `json:"patternLength"`
	Mix           string  `json:"mix"`
	Aux           string  `json:"aux"`
	TempoPeriod   int     `json:"tempoPeriod"`
	Direction     string  `json:"direction"`
}

// WireConfig is the serial protocol contract with the register hardware
type WireConfig struct {
	BitOrder   shiftreg.BitOrder `json:"bitOrder"`
	DataLines  int               `json:"dataLines"`
	Assignment []int             `json:"assignment,omitempty"` // frame byte -> data line

	// HardwareBitOrder is the order the simulated register is wired for.
	// Unset means it matches BitOrder.
	HardwareBitOrder shiftreg.BitOrder `json:"hardwareBitOrder,omitempty"`
}

// ControlsConfig maps the panel knobs and buttons
type ControlsConfig struct {
	Ranges   panel.Ranges `json:"ranges"`
	Debounce int          `json:"debounce"`
	KnobStep int          `json:"knobStep"` // raw units per key press in the TUI
}

// MIDIConfig maps a MIDI control surface onto the panel
type MIDIConfig struct {
	PortHint    string                       `json:"portHint,omitempty"` // substring of the input port name
	Channel     int                          `json:"channel"`            // 1-16, 0 = any
	TempoCC     uint8                        `json:"tempoCC"`
	ScaleCC     uint8                        `json:"scaleCC"`
	NoteCC      uint8                        `json:"noteCC"`
	DirectionCC uint8                        `json:"directionCC"`
	RecordNotes [sequencer.MaxChannels]uint8 `json:"recordNotes"`
}

// AudioConfig controls the DAC monitor
type AudioConfig struct {
	Enabled    bool `json:"enabled"`
	SampleRate int  `json:"sampleRate"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // GIMP .gpl file, empty for built-in
}

// Config is the main configuration structure
type Config struct {
	Engine   EngineConfig   `json:"engine"`
	Wire     WireConfig     `json:"wire"`
	Controls ControlsConfig `json:"controls"`
	MIDI     MIDIConfig     `json:"midi"`
	Audio    AudioConfig    `json:"audio"`
	UI       UIConfig       `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	ec := sequencer.DefaultConfig()
	return &Config{
		Engine: EngineConfig{
			TickRate:      ec.TickRate,
			SlowRate:      ec.SlowRate,
			Waveform:      string(ec.Shape),
			TableLength:   ec.TableLength,
			Channels:      ec.Channels,
			PatternLength: ec.PatternLength,
			Mix:           string(ec.Mix),
			Aux:           string(ec.Aux),
			TempoPeriod:   ec.TempoPeriod,
			Direction:     "forward",
		},
		Wire: WireConfig{
			BitOrder:  shiftreg.MSBFirst,
			DataLines: 1,
		},
		Controls: ControlsConfig{
			Ranges:   panel.DefaultRanges(),
			Debounce: panel.DefaultDebounce,
			KnobStep: 32,
		},
		MIDI: MIDIConfig{
			TempoCC:     21,
			ScaleCC:     22,
			NoteCC:      23,
			DirectionCC: 24,
			RecordNotes: [sequencer.MaxChannels]uint8{36, 38},
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, or returns defaults if it does not
// exist. Fields missing from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Sequencer converts the engine section
func (c *Config) Sequencer() (sequencer.Config, error) {
	dir, err := sequencer.ParseDirection(c.Engine.Direction)
	if err != nil {
		return sequencer.Config{}, err
	}
	ec := sequencer.Config{
		TickRate:      c.Engine.TickRate,
		SlowRate:      c.Engine.SlowRate,
		Shape:         sequencer.Shape(c.Engine.Waveform),
		TableLength:   c.Engine.TableLength,
		Channels:      c.Engine.Channels,
		PatternLength: c.Engine.PatternLength,
		Mix:           sequencer.Mix(c.Engine.Mix),
		Aux:           sequencer.Aux(c.Engine.Aux),
		TempoPeriod:   c.Engine.TempoPeriod,
		Direction:     dir,
	}
	if err := ec.Validate(); err != nil {
		return sequencer.Config{}, err
	}
	return ec, nil
}

// HardwareOrder returns the bit order the register side is wired for
func (w WireConfig) HardwareOrder() shiftreg.BitOrder {
	if w.HardwareBitOrder == 0 {
		return w.BitOrder
	}
	return w.HardwareBitOrder
}

// Validate checks every section that has a contract to honour
func (c *Config) Validate() error {
	ec, err := c.Sequencer()
	if err != nil {
		return err
	}
	// a register built from the wire section proves the assignment fits
	if _, err := shiftreg.NewRegister(c.Wire.DataLines, c.Wire.Assignment, c.Wire.BitOrder, ec.FrameWidth()); err != nil {
		return err
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate %d", c.Audio.SampleRate)
	}
	if c.MIDI.Channel < 0 || c.MIDI.Channel > 16 {
		return fmt.Errorf("midi channel %d outside 0..16", c.MIDI.Channel)
	}
	return nil
}
