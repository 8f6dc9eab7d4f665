package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-stepsynth/board"
	"go-stepsynth/config"
	"go-stepsynth/midi"
	"go-stepsynth/sequencer"
	"go-stepsynth/theme"
)

func newModel(t *testing.T) Model {
	t.Helper()
	b, err := board.New(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(b, nil, theme.Default(), 32)
}

func press(m Model, key string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model)
}

func poll(m Model) Model {
	next, _ := m.Update(TickMsg(time.Now()))
	return next.(Model)
}

func TestKeysMoveKnobs(t *testing.T) {
	m := newModel(t)
	before := m.Board.Panel.Snapshot()

	m = press(m, "T")
	m = press(m, "N")
	m = press(m, "N")
	r := m.Board.Panel.Snapshot()
	if r.Tempo != before.Tempo+32 {
		t.Errorf("tempo raw = %d, want %d", r.Tempo, before.Tempo+32)
	}
	if r.Note != 64 {
		t.Errorf("note raw = %d, want 64", r.Note)
	}

	m = press(m, "n")
	if r := m.Board.Panel.Snapshot(); r.Note != 32 {
		t.Errorf("note raw = %d, want 32", r.Note)
	}
}

func TestSelectorKeys(t *testing.T) {
	m := newModel(t)
	for _, tt := range []struct {
		key  string
		want sequencer.Direction
	}{
		{"b", sequencer.Backward},
		{"h", sequencer.Halted},
		{"f", sequencer.Forward},
	} {
		m = poll(press(m, tt.key))
		if got := m.Board.Engine.Direction(); got != tt.want {
			t.Errorf("after %q direction = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRecordToggle(t *testing.T) {
	m := newModel(t)
	m = press(m, "N")
	m = press(m, "a")
	m = poll(poll(m))

	if !m.Board.Editor.Status().Recording[0] {
		t.Fatal("channel A not recording after 'a'")
	}
	step := m.Board.Engine.Pattern().Load(m.Board.Engine.Index())
	if step[0] != m.Board.Editor.Status().Tone {
		t.Errorf("step A = %+v, want %+v", step[0], m.Board.Editor.Status().Tone)
	}

	m = poll(poll(press(m, "a")))
	if m.Board.Editor.Status().Recording[0] {
		t.Error("channel A still recording after second 'a'")
	}
}

func TestViewShowsState(t *testing.T) {
	m := poll(newModel(t))
	v := m.View()
	for _, want := range []string{"go-stepsynth", "FWD", "step:00", "tempo", "note", "aux", "q:quit"} {
		if !strings.Contains(v, want) {
			t.Errorf("view lacks %q", want)
		}
	}

	m = press(m, "?")
	if !strings.Contains(m.View(), "hold / release record A") {
		t.Error("help not shown after '?'")
	}
}

func TestViewShowsHalt(t *testing.T) {
	m := poll(press(newModel(t), "h"))
	for _, line := range strings.Split(m.View(), "\n") {
		if strings.HasPrefix(line, "dir") {
			if !strings.Contains(line, "HALT") {
				t.Errorf("selector line = %q, want HALT", line)
			}
			return
		}
	}
	t.Errorf("no selector line in:\n%s", m.View())
}

func TestDeviceEvents(t *testing.T) {
	m := newModel(t)
	next, _ := m.Update(DeviceEventMsg{Type: midi.DeviceConnected, ID: "nanoKONTROL2"})
	m = next.(Model)
	if !strings.Contains(m.View(), "midi:nanoKONTROL2") {
		t.Error("connected surface not shown")
	}
	next, _ = m.Update(DeviceEventMsg{Type: midi.DeviceDisconnected, ID: "nanoKONTROL2"})
	m = next.(Model)
	if strings.Contains(m.View(), "midi:") {
		t.Error("disconnected surface still shown")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	if next.View() != "" {
		t.Error("view not cleared on quit")
	}
}

func TestPitchNorm(t *testing.T) {
	lo := sequencer.NoteFrequency(1, sequencer.MaxScale)
	hi := sequencer.NoteFrequency(sequencer.NumNotes-1, sequencer.MinScale)
	if pitchNorm(lo) != 0 || pitchNorm(1) != 0 {
		t.Error("lowest note not at 0")
	}
	if got := pitchNorm(hi); got < 0.999 || got > 1.001 {
		t.Errorf("pitchNorm(hi) = %v, want 1", got)
	}
}
