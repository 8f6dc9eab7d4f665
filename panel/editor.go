package panel

import (
	"go-stepsynth/debug"
	"go-stepsynth/sequencer"
)

// DefaultDebounce is the number of agreeing polls a button needs
const DefaultDebounce = 2

// Status is what the editor made of the last reading
type Status struct {
	TempoPeriod int
	Direction   sequencer.Direction
	Note        int
	Scale       int
	Tone        sequencer.Tone
	Recording   [sequencer.MaxChannels]bool
	Index       int
}

// Editor is the pattern's single writer. It must only run in the main
// loop, never from a tick handler.
type Editor struct {
	eng     *sequencer.Engine
	ranges  Ranges
	buttons [sequencer.MaxChannels]Debouncer
	status  Status
}

// NewEditor creates an editor for eng
func NewEditor(eng *sequencer.Engine, ranges Ranges, debounce int) *Editor {
	ed := &Editor{eng: eng, ranges: ranges}
	for i := range ed.buttons {
		ed.buttons[i].Threshold = debounce
	}
	return ed
}

// Apply maps one reading onto the engine. Tempo and direction are handed
// over every poll; while a record button is held the channel's tone is
// written into the playing step. Apply reports whether the pattern changed.
func (ed *Editor) Apply(r Reading) bool {
	s := Status{
		TempoPeriod: ed.ranges.Tempo.Map(r.Tempo),
		Direction:   SelectorDirection(r.ForwardLine, r.BackwardLine),
		Note:        ed.ranges.Note.Map(r.Note),
		Scale:       ed.ranges.Scale.Map(r.Scale),
	}
	ed.eng.SetTempoPeriod(s.TempoPeriod)
	ed.eng.SetDirection(s.Direction)

	// the same conversion the engine uses for its own pattern
	s.Tone = ed.eng.NoteTone(s.Note, s.Scale)

	held := false
	for ch := 0; ch < ed.eng.Config().Channels; ch++ {
		s.Recording[ch] = ed.buttons[ch].Poll(r.RecordLines[ch])
		held = held || s.Recording[ch]
	}
	s.Index = ed.eng.Index()
	ed.status = s
	if !held {
		return false
	}

	p := ed.eng.Pattern()
	old := p.Load(s.Index)
	step := old
	for ch, rec := range s.Recording {
		if rec {
			step[ch] = s.Tone
		}
	}
	if step == old {
		return false
	}
	// one atomic replacement of the whole step
	p.Store(s.Index, step)
	debug.Log("editor", "step %d <- note=%d scale=%d tone=%+v rec=%v", s.Index, s.Note, s.Scale, s.Tone, s.Recording)
	return true
}

// Status returns the result of the last Apply
func (ed *Editor) Status() Status {
	return ed.status
}
