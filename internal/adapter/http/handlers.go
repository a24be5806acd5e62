package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
)

// View labels recorded by the service metrics.
const (
	viewPage  = "page"
	viewAPI   = "api"
	viewMap   = "map"
	viewChart = "chart"
)

func (s *Server) compute(w http.ResponseWriter, r *http.Request, view string) (domain.Dashboard, bool) {
	req, err := parseRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return domain.Dashboard{}, false
	}
	d, err := s.svc.Compute(r.Context(), view, req)
	if err != nil {
		s.logger.Error("compute dashboard", "view", view, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return domain.Dashboard{}, false
	}
	return d, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := s.compute(w, r, viewAPI)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	d, ok := s.compute(w, r, viewMap)
	if !ok {
		return
	}
	body, err := mapFeatures(d.MapPoints).MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // client went away
}

func (s *Server) handleMakesChart(w http.ResponseWriter, r *http.Request) {
	d, ok := s.compute(w, r, viewChart)
	if !ok {
		return
	}
	s.writeSVG(w, func(buf *bytes.Buffer) error { return renderMakesChart(buf, d.ByMake) })
}

func (s *Server) handleYearsChart(w http.ResponseWriter, r *http.Request) {
	d, ok := s.compute(w, r, viewChart)
	if !ok {
		return
	}
	s.writeSVG(w, func(buf *bytes.Buffer) error { return renderYearsChart(buf, d.ByYear) })
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.svc.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "reloaded",
		"source":              snapshot.Source,
		"rows":                snapshot.Rows,
		"malformed_locations": snapshot.MalformedLocations,
		"loaded_at":           snapshot.LoadedAt,
	})
}

// writeSVG buffers the whole image; a render error becomes a JSON 500.
func (s *Server) writeSVG(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("render chart", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
