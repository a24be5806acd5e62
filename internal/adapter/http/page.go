package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

var (
	heatNegative  = drawing.ColorFromHex("2166ac")
	heatPositive  = drawing.ColorFromHex("b2182b")
	heatUndefined = drawing.ColorFromHex("3a4a5a")
)

// defaultCenter is used when the subset has no plottable vehicles.
var defaultCenter = orb.Point{-120.5, 47.4}

// unknownMakeLabel stands in for rows whose make cell was missing.
const unknownMakeLabel = "(unknown)"

type option struct {
	Value    string
	Label    string
	Selected bool
}

type heatCell struct {
	Text  string
	Style template.CSS
}

type heatRow struct {
	Label string
	Cells []heatCell
}

type pageData struct {
	Dashboard  domain.Dashboard
	Years      []option
	Makes      []option
	Query      template.URL
	Heatmap    []heatRow
	MapTileURL string
	MapZoom    int
	CenterLat  float64
	CenterLon  float64
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	d, ok := s.compute(w, r, viewPage)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, s.newPageData(d)); err != nil {
		s.logger.Error("render page", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) newPageData(d domain.Dashboard) pageData {
	lat, lon := mapCenter(d.MapPoints, defaultCenter)
	return pageData{
		Dashboard:  d,
		Years:      yearOptions(d.YearOptions, d.SelectedYears),
		Makes:      makeOptions(d.MakeOptions, d.SelectedMakes),
		Query:      template.URL(encodeSelection(d)), //nolint:gosec // built by url.Values.Encode
		Heatmap:    heatmapRows(d.Correlation),
		MapTileURL: s.opts.MapTileURL,
		MapZoom:    s.opts.MapZoom,
		CenterLat:  lat,
		CenterLon:  lon,
	}
}

func yearOptions(all, selected []int) []option {
	chosen := make(map[int]bool, len(selected))
	for _, y := range selected {
		chosen[y] = true
	}
	out := make([]option, len(all))
	for i, y := range all {
		v := strconv.Itoa(y)
		out[i] = option{Value: v, Label: v, Selected: chosen[y]}
	}
	return out
}

func makeOptions(all, selected []string) []option {
	chosen := make(map[string]bool, len(selected))
	for _, m := range selected {
		chosen[m] = true
	}
	out := make([]option, len(all))
	for i, m := range all {
		out[i] = option{Value: m, Label: makeLabel(m), Selected: chosen[m]}
	}
	return out
}

// heatmapRows lays the correlation matrix out as table rows with a diverging
// blue to red background per cell.
func heatmapRows(m domain.CorrelationMatrix) []heatRow {
	if m.IsEmpty() {
		return nil
	}
	rows := make([]heatRow, len(m.Variables))
	for i, name := range m.Variables {
		cells := make([]heatCell, len(m.Values[i]))
		for j, v := range m.Values[i] {
			cells[j] = heatmapCell(v)
		}
		rows[i] = heatRow{Label: name, Cells: cells}
	}
	return rows
}

func heatmapCell(v *float64) heatCell {
	if v == nil {
		return heatCell{Text: "n/a", Style: cellStyle(heatUndefined, drawing.ColorFromHex("cccccc"))}
	}
	r := math.Max(-1, math.Min(1, *v))
	text := drawing.ColorBlack
	if math.Abs(r) > 0.6 {
		text = drawing.ColorWhite
	}
	return heatCell{
		Text:  strconv.FormatFloat(*v, 'f', 2, 64),
		Style: cellStyle(heatColor(r), text),
	}
}

// heatColor fades from transparent (the white panel) toward blue at -1 and
// red at +1.
func heatColor(r float64) drawing.Color {
	base := heatPositive
	if r < 0 {
		base = heatNegative
	}
	return base.WithAlpha(uint8(math.Round(math.Abs(r) * 255)))
}

func cellStyle(background, text drawing.Color) template.CSS {
	return template.CSS(fmt.Sprintf("background-color: %s; color: %s", background.String(), text.String())) //nolint:gosec // built from numeric colors
}
