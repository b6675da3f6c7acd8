package chart

import (
	"bytes"
	"fmt"
	"math"
	"html/template"
)

const (
	svgWidth     = 480
	svgHeight    = 240
	svgAxisSpace = 28
	svgGap       = 16
)

type svgBar struct {
	Bar
	X, Y, W, H float64
	LabelX     float64
}

type svgData struct {
	Width, Height int
	Baseline      float64
	Bars          []svgBar
	Grid          []float64
}

var svgTmpl = template.Must(template.New("chart").Parse(`<svg class="chart" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="Topic analytics">
{{- range .Grid}}
  <line x1="0" x2="{{$.Width}}" y1="{{.}}" y2="{{.}}" stroke="#f1f5f9" stroke-dasharray="3 3"/>
{{- end}}
{{- range .Bars}}
  <g class="bar">
    <rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" rx="4" fill="{{.Color}}"><title>{{.Label}}: {{.Tooltip}}</title></rect>
    <text x="{{.LabelX}}" y="{{$.Baseline}}" dy="18" text-anchor="middle" fill="#64748b" font-size="12">{{.Label}}</text>
  </g>
{{- end}}
</svg>`))

// SVG renders bars as an inline SVG element. Each bar carries a <title>
// tooltip with its literal value.
func SVG(bars []Bar) (template.HTML, error) {
	data := svgData{Width: svgWidth, Height: svgHeight}
	plotH := float64(svgHeight - svgAxisSpace)
	data.Baseline = plotH
	for i := 1; i <= 4; i++ {
		data.Grid = append(data.Grid, plotH-plotH*float64(i)/4)
	}

	if n := len(bars); n > 0 {
		top := maxValue(bars)
		slot := float64(svgWidth) / float64(n)
		// Narrow slots give up their gap before the bar shrinks below it.
		gap := math.Min(svgGap, slot/4)
		w := slot - gap
		for i, b := range bars {
			h := plotH * b.Value / top
			if h < 0 {
				h = 0
			}
			x := slot*float64(i) + gap/2
			data.Bars = append(data.Bars, svgBar{
				Bar: b, X: x, Y: plotH - h, W: w, H: h, LabelX: x + w/2,
			})
		}
	}

	var buf bytes.Buffer
	if err := svgTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return template.HTML(buf.String()), nil
}
