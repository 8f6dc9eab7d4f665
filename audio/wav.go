package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth = 16
	wavChunk    = 4096
)

// WriteWAV renders n samples from src as 16-bit mono PCM
func WriteWAV(w io.WriteSeeker, src *Source, n int) error {
	enc := wav.NewEncoder(w, src.SampleRate(), wavBitDepth, 1, 1)

	samples := make([]float32, wavChunk)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  src.SampleRate(),
		},
		Data:           make([]int, wavChunk),
		SourceBitDepth: wavBitDepth,
	}
	for n > 0 {
		count := min(n, wavChunk)
		src.Render(samples[:count])
		buf.Data = buf.Data[:count]
		for i, s := range samples[:count] {
			buf.Data[i] = int(math.Round(float64(s) * 32767))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
		n -= count
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing wav: %w", err)
	}
	return nil
}
