// Command render plays the synthesizer offline and writes the DAC output
// to a WAV file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go-stepsynth/audio"
	"go-stepsynth/board"
	"go-stepsynth/clock"
	"go-stepsynth/config"
	"go-stepsynth/sequencer"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-stepsynth/config.json)")
	out := flag.String("o", "stepsynth.wav", "output file")
	seconds := flag.Float64("seconds", 8, "length to render")
	rate := flag.Int("rate", 0, "sample rate (default from config)")
	period := flag.Int("period", 0, "tempo period in slow ticks (default from config)")
	direction := flag.String("direction", "", "forward, backward or halted (default from config)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(*configPath)
	}
	if err != nil {
		log.Fatal(err)
	}
	if *period > 0 {
		cfg.Engine.TempoPeriod = *period
	}
	if *direction != "" {
		if _, err := sequencer.ParseDirection(*direction); err != nil {
			log.Fatal(err)
		}
		cfg.Engine.Direction = *direction
	}
	sampleRate := cfg.Audio.SampleRate
	if *rate > 0 {
		sampleRate = *rate
	}

	b, err := board.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	v := clock.NewVirtual()
	b.Start(v)

	n := int(*seconds * float64(sampleRate))
	if err := renderWAV(*out, audio.NewSource(v, b.DAC, sampleRate), n); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s: %d samples at %dHz, %d frames latched, ended on step %d",
		*out, n, sampleRate, b.DAC.Frames(), b.Engine.Index())
}

// renderWAV writes n samples of src to path. The close error is returned
// because the WAV header is only finished once the file is flushed.
func renderWAV(path string, src *audio.Source, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, src, n); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
