package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/ev-analytics-dashboard/internal/adapter/http"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/config"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/dashboard"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/observability"
)

type stubSource struct {
	table     *domain.Table
	reloadErr error
}

func (s *stubSource) Load(_ context.Context) (*domain.Table, error) { return s.table, nil }

func (s *stubSource) Reload(_ context.Context) (*domain.Table, error) {
	if s.reloadErr != nil {
		return nil, s.reloadErr
	}
	return s.table, nil
}

func testTable(t *testing.T) *domain.Table {
	t.Helper()
	records, err := domain.CleanRecords([]domain.RawVehicleRecord{
		{ModelYear: "2020", Make: "TESLA", Model: "MODEL 3", City: "SEATTLE", ElectricRange: "220", BaseMSRP: "0", VehicleLocation: "POINT (-122.3 47.6)"},
		{ModelYear: "2021", Make: "NISSAN", Model: "LEAF", City: "BELLEVUE", ElectricRange: "150", BaseMSRP: "0", VehicleLocation: "POINT (-122.2 47.61)"},
		{ModelYear: "2021", Make: "TESLA", Model: "MODEL Y", City: "TACOMA", ElectricRange: "", BaseMSRP: "", VehicleLocation: "POINT (-122.4"},
	})
	require.NoError(t, err)
	return domain.NewTable("ev.csv", records)
}

func newTestServer(t *testing.T, src *stubSource, start bool) *httpadapter.Server {
	t.Helper()
	svc := dashboard.New(src, nil, nil, slog.Default(), observability.NewMetricsForTesting())
	if start {
		require.NoError(t, svc.Start(context.Background()))
	}
	return httpadapter.NewServer(httpadapter.Options{
		Addr:       ":0",
		MapTileURL: config.DefaultMapTileURL,
		MapZoom:    6,
	}, svc, nil, slog.Default())
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeDashboard(t *testing.T, rec *httptest.ResponseRecorder) domain.Dashboard {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var d domain.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	return d
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, false)
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
}

func TestReadyzFollowsInitialLoad(t *testing.T) {
	src := &stubSource{table: testTable(t)}

	notReady := newTestServer(t, src, false)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, notReady, "/readyz").Code)

	ready := newTestServer(t, src, true)
	assert.Equal(t, http.StatusOK, get(t, ready, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDashboardAPI_DefaultSelectsEverything(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	d := decodeDashboard(t, get(t, srv, "/api/dashboard"))

	assert.Equal(t, "ev.csv", d.Source)
	assert.Equal(t, []int{2020, 2021}, d.SelectedYears)
	assert.Equal(t, []string{"NISSAN", "TESLA"}, d.SelectedMakes)
	assert.Equal(t, domain.Summary{TotalEVs: 3, Manufacturers: 2, AverageRange: 123, Cities: 3}, d.Summary)
	assert.Len(t, d.MapPoints, 2)
	assert.Equal(t, 1, d.SkippedMapPoints)
}

func TestDashboardAPI_YearOnlyKeepsAllMakes(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	d := decodeDashboard(t, get(t, srv, "/api/dashboard?year=2021"))

	assert.Equal(t, []int{2021}, d.SelectedYears)
	assert.Equal(t, []string{"NISSAN", "TESLA"}, d.SelectedMakes)
	assert.Equal(t, 2, d.Summary.TotalEVs)
	assert.Equal(t, []domain.YearCount{{ModelYear: 2021, Count: 2}}, d.ByYear)
}

func TestDashboardAPI_SubmittedFormWithoutMakesSelectsNothing(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	d := decodeDashboard(t, get(t, srv, "/api/dashboard?filtered=1&year=2020&year=2021"))

	assert.Empty(t, d.SelectedMakes)
	assert.Equal(t, domain.Summary{}, d.Summary)
	assert.Empty(t, d.ByMake)
	assert.True(t, d.Correlation.IsEmpty())
	assert.Equal(t, []string{"NISSAN", "TESLA"}, d.MakeOptions, "options still list the whole table")
}

func TestDashboardAPI_BadYearIs400(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	rec := get(t, srv, "/api/dashboard?year=twenty")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], `"twenty"`)
}

func TestMapGeoJSON(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	rec := get(t, srv, "/api/map.geojson?make=TESLA")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1, "the malformed TESLA row is not plotted")

	f := fc.Features[0]
	assert.InDelta(t, -122.3, f.Point().Lon(), 1e-9)
	assert.InDelta(t, 47.6, f.Point().Lat(), 1e-9)
	assert.Equal(t, "TESLA", f.Properties.MustString("make"))
	assert.Equal(t, "SEATTLE", f.Properties.MustString("city"))
	assert.Equal(t, "MODEL 3", f.Properties.MustString("model"))
	assert.InDelta(t, 220, f.Properties.MustFloat64("electric_range"), 0)
}

func TestCharts(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)

	tests := []struct {
		name        string
		target      string
		placeholder bool
	}{
		{name: "makes", target: "/charts/makes.svg"},
		{name: "years", target: "/charts/years.svg"},
		{name: "single year", target: "/charts/years.svg?year=2020"},
		{name: "empty makes", target: "/charts/makes.svg?filtered=1", placeholder: true},
		{name: "empty years", target: "/charts/years.svg?filtered=1", placeholder: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "<svg")
			if tt.placeholder {
				assert.Contains(t, rec.Body.String(), "No vehicles match the current filters")
			}
		})
	}
}

func TestPage(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	rec := get(t, srv, "/?year=2021")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "Total EVs")
	assert.Contains(t, body, `<option value="2021" selected>2021</option>`)
	assert.Contains(t, body, `<option value="2020">2020</option>`)
	assert.Contains(t, body, "/charts/makes.svg?filtered=1")
	assert.Contains(t, body, "Correlation Heatmap")
	assert.Contains(t, body, "1 vehicles without a usable location")
}

func TestPage_ChartLinkKeepsBlankMake(t *testing.T) {
	records, err := domain.CleanRecords([]domain.RawVehicleRecord{
		{ModelYear: "2020", Make: "TESLA", Model: "MODEL 3", City: "SEATTLE", VehicleLocation: "POINT (-122.3 47.6)"},
		{ModelYear: "2020", Make: "", Model: "UNKNOWN", City: "TACOMA", VehicleLocation: "POINT (-122.4 47.2)"},
	})
	require.NoError(t, err)
	srv := newTestServer(t, &stubSource{table: domain.NewTable("ev.csv", records)}, true)

	page := get(t, srv, "/")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `<option value="" selected>(unknown)</option>`)

	m := regexp.MustCompile(`/charts/makes\.svg\?([^"]+)"`).FindStringSubmatch(page.Body.String())
	require.Len(t, m, 2)
	query := html.UnescapeString(m[1])

	defaults := decodeDashboard(t, get(t, srv, "/api/dashboard"))
	linked := decodeDashboard(t, get(t, srv, "/api/dashboard?"+query))

	assert.Equal(t, 2, defaults.Summary.TotalEVs)
	assert.Equal(t, defaults.Summary.TotalEVs, linked.Summary.TotalEVs)
	assert.Equal(t, []domain.MakeCount{{Make: "", Count: 1}, {Make: "TESLA", Count: 1}}, linked.ByMake)

	chart := get(t, srv, "/charts/makes.svg?"+query)
	require.Equal(t, http.StatusOK, chart.Code)
	assert.Contains(t, chart.Body.String(), "(unknown)")
}

func TestReload(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "reloaded", body["status"])
	assert.InDelta(t, 3, body["rows"], 0)
	assert.InDelta(t, 1, body["malformed_locations"], 0)
}

func TestReloadFailureIs500(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t), reloadErr: errors.New("no .csv file found")}, true)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "no .csv file found")

	// The previous table keeps serving.
	d := decodeDashboard(t, get(t, srv, "/api/dashboard"))
	assert.Equal(t, 3, d.Summary.TotalEVs)
}

func TestReloadRequiresPost(t *testing.T) {
	srv := newTestServer(t, &stubSource{table: testTable(t)}, true)
	assert.Equal(t, http.StatusMethodNotAllowed, get(t, srv, "/api/reload").Code)
}
