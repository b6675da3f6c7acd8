package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal renders bars as coloured horizontal blocks scaled to width cells.
func Terminal(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	labelW := 0
	for _, b := range bars {
		if l := lipgloss.Width(b.Label); l > labelW {
			labelW = l
		}
	}
	top := maxValue(bars)
	labelStyle := lipgloss.NewStyle().Width(labelW).Foreground(lipgloss.Color("#64748b"))

	var sb strings.Builder
	for _, b := range bars {
		n := int(float64(width) * b.Value / top)
		if n < 0 {
			n = 0
		}
		block := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(strings.Repeat("█", n))
		fmt.Fprintf(&sb, "%s │ %s %s\n", labelStyle.Render(b.Label), block, b.Tooltip)
	}
	return sb.String()
}
