package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"go-stepsynth/audio"
	"go-stepsynth/board"
	"go-stepsynth/clock"
	"go-stepsynth/config"
)

func newSource(t *testing.T, rate int) *audio.Source {
	t.Helper()

	b, err := board.New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	v := clock.NewVirtual()
	b.Start(v)
	return audio.NewSource(v, b.DAC, rate)
}

func TestRenderWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := renderWAV(path, newSource(t, 8000), 4000); err != nil {
		t.Fatalf("renderWAV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if dec.SampleRate != 8000 {
		t.Errorf("sample rate = %d, want 8000", dec.SampleRate)
	}
	if len(buf.Data) != 4000 {
		t.Errorf("samples = %d, want 4000", len(buf.Data))
	}
}

func TestRenderWAVCreateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.wav")
	if err := renderWAV(path, newSource(t, 8000), 10); err == nil {
		t.Fatal("want error for a path in a missing directory")
	}
}
