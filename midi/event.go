package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Kind is the type of a channel message
type Kind uint8

// MIDI message types
const (
	NoteOn  Kind = 0x90
	NoteOff Kind = 0x80
	CC      Kind = 0xB0
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "note on"
	case NoteOff:
		return "note off"
	case CC:
		return "cc"
	}
	return "unknown"
}

// Event is one channel message from a control surface
type Event struct {
	Kind    Kind
	Channel uint8 // 0-15
	Number  uint8 // note or controller number
	Value   uint8 // velocity or controller value
}

// FromMessage decodes the messages a control surface sends. Note on with
// velocity 0 is reported as note off.
func FromMessage(msg gomidi.Message) (Event, bool) {
	var ev Event
	switch {
	case msg.GetNoteOn(&ev.Channel, &ev.Number, &ev.Value):
		ev.Kind = NoteOn
		if ev.Value == 0 {
			ev.Kind = NoteOff
		}
	case msg.GetNoteOff(&ev.Channel, &ev.Number, &ev.Value):
		ev.Kind = NoteOff
	case msg.GetControlChange(&ev.Channel, &ev.Number, &ev.Value):
		ev.Kind = CC
	default:
		return Event{}, false
	}
	return ev, true
}
