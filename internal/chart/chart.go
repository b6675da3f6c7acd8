// Package chart lays out topic stats as a bar chart.
package chart

import (
	"strconv"

	"github.com/omnidive/omnidive/internal/content"
)

// Palette is cycled by bar position.
var Palette = []string{"#3b82f6", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899"}

// Bar is one rendered data point.
type Bar struct {
	Label   string
	Value   float64
	Color   string
	Tooltip string
}

// Build returns one bar per stat, in order, coloured Palette[i % len(Palette)].
func Build(stats []content.Stat) []Bar {
	bars := make([]Bar, len(stats))
	for i, s := range stats {
		bars[i] = Bar{
			Label:   s.Label,
			Value:   s.Value,
			Color:   Palette[i%len(Palette)],
			Tooltip: strconv.FormatFloat(s.Value, 'f', -1, 64),
		}
	}
	return bars
}

// maxValue is the top of the value axis, at least 100.
func maxValue(bars []Bar) float64 {
	top := 100.0
	for _, b := range bars {
		if b.Value > top {
			top = b.Value
		}
	}
	return top
}
