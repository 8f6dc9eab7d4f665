package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-stepsynth/board"
	"go-stepsynth/midi"
	"go-stepsynth/panel"
	"go-stepsynth/sequencer"
	"go-stepsynth/theme"
	"go-stepsynth/widgets"
)

// FrameRate is how often the panel is polled and redrawn
const FrameRate = 30

// RoleLED is the palette position of a lit LED
const RoleLED = theme.RoleSuccess

type Model struct {
	Board     *board.Board
	DeviceMgr *midi.DeviceManager // nil without MIDI
	Theme     *theme.Theme
	knobStep  int
	surfaces  []string
	quitting  bool
	showHelp  bool
}

type TickMsg time.Time

type DeviceEventMsg midi.DeviceEvent

func NewModel(b *board.Board, deviceMgr *midi.DeviceManager, th *theme.Theme, knobStep int) Model {
	return Model{
		Board:     b,
		DeviceMgr: deviceMgr,
		Theme:     th,
		knobStep:  max(1, knobStep),
	}
}

// Tick polls the panel at FrameRate
func Tick() tea.Cmd {
	return tea.Tick(time.Second/FrameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		Tick(),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	p := m.Board.Panel
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "t":
			p.NudgePot(panel.PotTempo, -m.knobStep)
		case "T":
			p.NudgePot(panel.PotTempo, m.knobStep)
		case "s":
			p.NudgePot(panel.PotScale, -m.knobStep)
		case "S":
			p.NudgePot(panel.PotScale, m.knobStep)
		case "n":
			p.NudgePot(panel.PotNote, -m.knobStep)
		case "N":
			p.NudgePot(panel.PotNote, m.knobStep)

		case "f":
			p.SetSelector(sequencer.Forward)
		case "b":
			p.SetSelector(sequencer.Backward)
		case "h":
			p.SetSelector(sequencer.Halted)

		case "a":
			p.ToggleRecord(0)
		case "z":
			p.ToggleRecord(1)

		case "?":
			m.showHelp = !m.showHelp
		}

	case TickMsg:
		// the editor runs here, in the main loop, never in a tick handler
		m.Board.Poll()
		return m, Tick()

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.surfaces = append(m.surfaces, event.ID)
		} else {
			for i, id := range m.surfaces {
				if id == event.ID {
					m.surfaces = append(m.surfaces[:i:i], m.surfaces[i+1:]...)
					break
				}
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	eng := m.Board.Engine
	status := m.Board.Editor.Status()
	reading := m.Board.Panel.Snapshot()
	sym := m.Theme.Symbols

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Background(m.Theme.BG())
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	recStyle := lipgloss.NewStyle().Foreground(m.Theme.Active()).Bold(true)
	stepStyle := headerStyle.Foreground(m.Theme.Cursor())
	midiStyle := headerStyle.Foreground(m.Theme.Success())
	haltStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning()).Bold(true)

	header := headerStyle.Render(fmt.Sprintf("go-stepsynth  %-4s  period:%4d  ",
		eng.Direction(), eng.TempoPeriod())) +
		stepStyle.Render(fmt.Sprintf("step:%02d", eng.Index()))
	if len(m.surfaces) > 0 {
		header += midiStyle.Render("  midi:" + strings.Join(m.surfaces, ","))
	}

	// Pattern strips
	var strips []string
	for ch := 0; ch < eng.Config().Channels; ch++ {
		label := fmt.Sprintf("%c ", 'A'+ch)
		if status.Recording[ch] {
			label = recStyle.Render(fmt.Sprintf("%c*", 'A'+ch))
		}
		strips = append(strips, labelStyle.Render(label)+" "+widgets.RenderStrip(m.stripCells(ch), 8))
	}

	// Knobs
	cfg := eng.Config()
	freq := status.Tone.Frequency(cfg.TickRate, cfg.TableLength)
	gauges := []string{
		m.gauge("tempo", reading.Tempo, fmt.Sprintf("%d ticks/step", status.TempoPeriod)),
		m.gauge("scale", reading.Scale, fmt.Sprintf("/%d", status.Scale)),
		m.gauge("note", reading.Note, fmt.Sprintf("%2d  %7.2fHz  D=%d M=%d", status.Note, freq, status.Tone.Divisor, status.Tone.Multiplier)),
	}

	selector := labelStyle.Render(fmt.Sprintf("%-6s ", "dir"))
	if status.Direction == sequencer.Halted {
		selector += haltStyle.Render(status.Direction.String())
	} else {
		selector += labelStyle.Render(status.Direction.String())
	}

	leds := fmt.Sprintf("%-6s %s", "aux", widgets.RenderLEDs(m.Board.DAC.Aux(),
		widgets.Cell{Symbol: sym.LEDOn, Color: m.Theme.RGB(RoleLED)},
		widgets.Cell{Symbol: sym.LEDOff, Color: m.Theme.RGB(theme.RoleMuted)}))

	var help string
	if m.showHelp {
		help = dimStyle.Render(widgets.RenderKeyHelp(helpSections))
	} else {
		help = dimStyle.Render(widgets.RenderKeyLine(helpLine))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(strings.Join(strips, "\n"))
	out.WriteString("\n\n")
	out.WriteString(labelStyle.Render(strings.Join(gauges, "\n")))
	out.WriteString("\n")
	out.WriteString(selector)
	out.WriteString("\n")
	out.WriteString(labelStyle.Render(leds))
	out.WriteString("\n\n")
	out.WriteString(help)
	return out.String()
}

func (m Model) gauge(label string, raw int, value string) string {
	sym := m.Theme.Symbols
	return widgets.RenderGauge(
		widgets.Gauge{Label: label, Value: value, Frac: float64(raw) / panel.ADCMax, Width: 16},
		widgets.Cell{Symbol: sym.Solid, Color: m.Theme.RGB(theme.RoleAccent)},
		widgets.Cell{Symbol: sym.Empty, Color: m.Theme.RGB(theme.RoleMuted)},
	)
}

func (m Model) stripCells(ch int) []widgets.Cell {
	eng := m.Board.Engine
	cfg := eng.Config()
	sym := m.Theme.Symbols
	playing := eng.Index()

	steps := eng.Pattern().Steps()
	cells := make([]widgets.Cell, len(steps))
	for i, step := range steps {
		tone := step[ch]
		c := widgets.Cell{Symbol: sym.StepRest, Color: m.Theme.RGB(theme.RoleMuted)}
		if !tone.Silent() {
			c = widgets.Cell{Symbol: sym.StepTone, Color: m.Theme.RGB(pitchNorm(tone.Frequency(cfg.TickRate, cfg.TableLength)))}
		}
		if i == playing {
			c = widgets.Cell{Symbol: sym.StepPlayhead, Color: m.Theme.RGB(theme.RoleCursor)}
		}
		cells[i] = c
	}
	return cells
}

// pitchNorm places a frequency on the palette, lowest reachable note at 0
func pitchNorm(f float64) float64 {
	lo := sequencer.NoteFrequency(1, sequencer.MaxScale)
	hi := sequencer.NoteFrequency(sequencer.NumNotes-1, sequencer.MinScale)
	if f <= lo {
		return 0
	}
	return math.Log2(f/lo) / math.Log2(hi/lo)
}

var helpLine = []widgets.KeyBinding{
	{Key: "t/T", Desc: "tempo"},
	{Key: "s/S", Desc: "scale"},
	{Key: "n/N", Desc: "note"},
	{Key: "f/b/h", Desc: "direction"},
	{Key: "a/z", Desc: "record A/B"},
	{Key: "?", Desc: "help"},
	{Key: "q", Desc: "quit"},
}

var helpSections = []widgets.KeySection{
	{
		Title: "Knobs",
		Keys: []widgets.KeyBinding{
			{Key: "t / T", Desc: "tempo knob down / up"},
			{Key: "s / S", Desc: "scale knob down / up"},
			{Key: "n / N", Desc: "note knob down / up"},
		},
	},
	{
		Title: "Switches",
		Keys: []widgets.KeyBinding{
			{Key: "f", Desc: "selector forward"},
			{Key: "b", Desc: "selector backward"},
			{Key: "h", Desc: "selector centre (halt)"},
			{Key: "a", Desc: "hold / release record A"},
			{Key: "z", Desc: "hold / release record B"},
		},
	},
	{
		Keys: []widgets.KeyBinding{
			{Key: "?", Desc: "toggle this help"},
			{Key: "q", Desc: "quit"},
		},
	},
}
