package http

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

const (
	chartHeight     = 420
	chartMinWidth   = 520
	barWidth        = 36
	barSpacing      = 14
	chartSidePad    = 120
	placeholderText = "No vehicles match the current filters"
)

var (
	barColor  = drawing.ColorFromHex("1f77b4")
	lineColor = drawing.ColorFromHex("2ca02c")
)

// renderMakesChart draws EV count by manufacturer as a bar chart.
func renderMakesChart(w io.Writer, counts []domain.MakeCount) error {
	if len(counts) == 0 {
		return renderPlaceholder(w, chartMinWidth, chartHeight)
	}

	bars := make([]chart.Value, len(counts))
	maxCount := 0
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: makeLabel(c.Make),
			Value: float64(c.Count),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		maxCount = max(maxCount, c.Count)
	}

	graph := chart.BarChart{
		Title:      "EV Count by Manufacturer",
		Width:      max(chartMinWidth, len(counts)*(barWidth+barSpacing)+chartSidePad),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 60}},
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			ValueFormatter: integerFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: headroom(maxCount)},
		},
		Bars: bars,
	}
	return graph.Render(chart.SVG, w)
}

// renderYearsChart draws EV count by model year as a line with markers.
func renderYearsChart(w io.Writer, counts []domain.YearCount) error {
	if len(counts) == 0 {
		return renderPlaceholder(w, chartMinWidth, chartHeight)
	}

	xs := make([]float64, len(counts))
	ys := make([]float64, len(counts))
	ticks := make([]chart.Tick, 0, len(counts)+2)
	maxCount := 0
	for i, c := range counts {
		xs[i] = float64(c.ModelYear)
		ys[i] = float64(c.Count)
		ticks = append(ticks, chart.Tick{Value: xs[i], Label: strconv.Itoa(c.ModelYear)})
		maxCount = max(maxCount, c.Count)
	}

	// Pad the axis by a year on each side; explicit ticks define the x range
	// and a single year would otherwise have zero width.
	first, last := xs[0]-1, xs[len(xs)-1]+1
	ticks = append([]chart.Tick{{Value: first}}, append(ticks, chart.Tick{Value: last})...)

	graph := chart.Chart{
		Title:      "EV Growth Over Years",
		Width:      max(chartMinWidth, len(counts)*48+chartSidePad),
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		XAxis: chart.XAxis{
			Name:           "Model Year",
			ValueFormatter: integerFormatter,
			Range:          &chart.ContinuousRange{Min: first, Max: last},
			Ticks:          ticks,
		},
		YAxis: chart.YAxis{
			Name:           "Count",
			ValueFormatter: integerFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: headroom(maxCount)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "EVs",
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

func makeLabel(m string) string {
	if m == "" {
		return unknownMakeLabel
	}
	return m
}

func headroom(maxCount int) float64 {
	return math.Ceil(float64(maxCount)*1.1) + 1
}

func integerFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(f))
	}
	return ""
}

// renderPlaceholder writes a neutral image for empty subsets; the chart
// library refuses to draw without data.
func renderPlaceholder(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="#fafafa" stroke="#dddddd"/>`+
			`<text x="50%%" y="50%%" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="16" fill="#888888">%s</text>`+
			`</svg>`,
		width, height, width, height, placeholderText)
	return err
}
