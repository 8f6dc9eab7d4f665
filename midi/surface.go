package midi

import (
	"go-stepsynth/panel"
	"go-stepsynth/sequencer"
)

// Mapping assigns surface controls to panel inputs
type Mapping struct {
	Channel     int // 1-16, 0 listens on every channel
	TempoCC     uint8
	ScaleCC     uint8
	NoteCC      uint8
	DirectionCC uint8
	RecordNotes [sequencer.MaxChannels]uint8
}

// Surface turns surface events into panel readings. Knob CCs act as the
// potentiometers, the direction CC as the 3-position selector and the
// record notes as the record buttons (held while the key is down).
type Surface struct {
	panel   *panel.Panel
	mapping Mapping
}

// NewSurface creates a surface that writes to p
func NewSurface(p *panel.Panel, m Mapping) *Surface {
	return &Surface{panel: p, mapping: m}
}

// Handle applies one event and reports whether it was mapped
func (s *Surface) Handle(ev Event) bool {
	m := s.mapping
	if m.Channel != 0 && int(ev.Channel)+1 != m.Channel {
		return false
	}

	switch ev.Kind {
	case CC:
		switch ev.Number {
		case m.TempoCC:
			s.panel.SetPot(panel.PotTempo, scaleCC(ev.Value))
		case m.ScaleCC:
			s.panel.SetPot(panel.PotScale, scaleCC(ev.Value))
		case m.NoteCC:
			s.panel.SetPot(panel.PotNote, scaleCC(ev.Value))
		case m.DirectionCC:
			s.panel.SetSelector(directionCC(ev.Value))
		default:
			return false
		}
		return true

	case NoteOn, NoteOff:
		for ch, note := range m.RecordNotes {
			if ev.Number == note {
				s.panel.SetRecord(ch, ev.Kind == NoteOn)
				return true
			}
		}
	}
	return false
}

// scaleCC stretches a 7-bit value over the ADC range
func scaleCC(v uint8) int {
	return int(v) * panel.ADCMax / 127
}

// directionCC splits the controller range in thirds: back, halt, forward
func directionCC(v uint8) sequencer.Direction {
	switch {
	case v < 43:
		return sequencer.Backward
	case v > 84:
		return sequencer.Forward
	}
	return sequencer.Halted
}
