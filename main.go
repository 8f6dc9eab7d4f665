package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-stepsynth/audio"
	"go-stepsynth/board"
	"go-stepsynth/clock"
	"go-stepsynth/config"
	"go-stepsynth/debug"
	"go-stepsynth/midi"
	"go-stepsynth/theme"
	"go-stepsynth/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-stepsynth/config.json)")
	writeConfig := flag.Bool("write-config", false, "write the effective config back to disk and exit")
	debugLog := flag.Bool("debug", false, "log to debug.log in the config directory")
	clockMode := flag.String("clock", "audio", "tick source: audio (locked to the sound card) or wall")
	noAudio := flag.Bool("no-audio", false, "disable the DAC monitor")
	noMIDI := flag.Bool("no-midi", false, "do not open MIDI control surfaces")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *writeConfig {
		if err := saveConfig(cfg, *configPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if *noAudio {
		cfg.Audio.Enabled = false
	}

	if *debugLog {
		dir, err := config.ConfigDir()
		if err == nil {
			err = debug.Enable(dir)
		}
		if err != nil {
			fmt.Printf("Error: debug log: %v\n", err)
			os.Exit(1)
		}
		defer debug.Disable()
	}

	th, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	b, err := board.New(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Drive the engine: the sound card pulls samples and every sample
	// advances the ticks, or two wall-clock loops stand in for the timers
	if cfg.Audio.Enabled && *clockMode == "audio" {
		v := clock.NewVirtual()
		b.Start(v)
		mon, err := audio.NewMonitor(cfg.Audio.SampleRate)
		if err != nil {
			fmt.Printf("Error: audio: %v (try -no-audio)\n", err)
			os.Exit(1)
		}
		defer mon.Close()
		mon.Attach(audio.NewSource(v, b.DAC, cfg.Audio.SampleRate))
		mon.Start()
	} else {
		tk := clock.NewTicker()
		b.Start(tk)
		tk.Start(ctx)
		defer func() {
			cancel()
			tk.Wait()
		}()
	}
	debug.Log("main", "engine running: %+v", b.Engine.Config())

	// Create MIDI device manager (handles hot-plug)
	var deviceMgr *midi.DeviceManager
	if !*noMIDI {
		surface := midi.NewSurface(b.Panel, mapping(cfg.MIDI))
		deviceMgr = midi.NewDeviceManager(cfg.MIDI.PortHint, func(ev midi.Event) {
			if !surface.Handle(ev) {
				debug.LogEvery(50, "midi", "unmapped %s ch=%d num=%d val=%d", ev.Kind, ev.Channel+1, ev.Number, ev.Value)
			}
		})
		go deviceMgr.Run(ctx)
	}

	m := tui.NewModel(b, deviceMgr, th, cfg.Controls.KnobStep)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func saveConfig(cfg *config.Config, path string) error {
	if path == "" {
		return cfg.Save()
	}
	return cfg.SaveFile(path)
}

func mapping(c config.MIDIConfig) midi.Mapping {
	return midi.Mapping{
		Channel:     c.Channel,
		TempoCC:     c.TempoCC,
		ScaleCC:     c.ScaleCC,
		NoteCC:      c.NoteCC,
		DirectionCC: c.DirectionCC,
		RecordNotes: c.RecordNotes,
	}
}
