package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one colored symbol
type Cell struct {
	Symbol rune
	Color  [3]uint8
}

// RenderCell renders a single colored symbol
func RenderCell(c Cell) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(c.Color)))
	return style.Render(string(c.Symbol))
}

// RenderStrip renders cells side by side, with a gap every group cells
func RenderStrip(cells []Cell, group int) string {
	var out strings.Builder
	for i, c := range cells {
		if group > 0 && i > 0 && i%group == 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderCell(c))
	}
	return out.String()
}

// RenderLEDs renders an 8-LED bar, bit 0 on the left
func RenderLEDs(bits uint8, on, off Cell) string {
	cells := make([]Cell, 8)
	for i := range cells {
		if bits&(1<<i) != 0 {
			cells[i] = on
		} else {
			cells[i] = off
		}
	}
	var out strings.Builder
	for i, c := range cells {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderCell(c))
	}
	return out.String()
}

// Gauge is a labelled horizontal bar
type Gauge struct {
	Label string
	Value string // shown after the bar
	Frac  float64
	Width int
}

// RenderGauge draws g with filled and empty segments
func RenderGauge(g Gauge, filled, empty Cell) string {
	n := int(g.Frac*float64(g.Width) + 0.5)
	n = max(0, min(g.Width, n))
	var bar strings.Builder
	for i := 0; i < g.Width; i++ {
		if i < n {
			bar.WriteString(RenderCell(filled))
		} else {
			bar.WriteString(RenderCell(empty))
		}
	}
	return fmt.Sprintf("%-6s %s %s", g.Label, bar.String(), g.Value)
}
