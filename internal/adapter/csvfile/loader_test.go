package csvfile

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLoader(t *testing.T, dir string) (*Loader, *observability.Metrics) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := observability.NewMetricsForTesting()
	return NewLoader(dir, discardLogger(), metrics), metrics
}

func TestLoader_LoadCleansAndCaches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ev.csv", testCSV)
	loader, metrics := newTestLoader(t, dir)

	table, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ev.csv", table.Source)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, 2019, table.Records[0].ModelYear)
	assert.Equal(t, -122.30839, table.Records[0].Longitude)
	assert.Equal(t, 47.610365, table.Records[0].Latitude)
	assert.Equal(t, 0, table.Records[1].BaseMSRP)
	assert.Equal(t, 2019, table.Records[2].ModelYear)
	assert.Equal(t, 0, table.Records[2].ElectricRange)
	assert.True(t, math.IsNaN(table.Records[2].Latitude))
	assert.Equal(t, 1, table.MalformedLocations)
	assert.Equal(t, time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC), table.LoadedAt)

	// Changing the directory does not affect the cached table.
	writeFile(t, dir, "second.csv", testCSV)
	again, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, table, again)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.DatasetRows), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MalformedLocations), 0)
}

func TestLoader_ReloadReplacesTable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ev.csv", testCSV)
	loader, _ := newTestLoader(t, dir)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(
		"model_year,make,model,city,electric_range,base_msrp,vehicle_location\n"+
			"2024,RIVIAN,R1S,Seattle,270,0,POINT (-122.33 47.61)\n"), 0o600))

	second, err := loader.Reload(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, second.Len())

	current, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, second, current)
}

func TestLoader_ReloadFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ev.csv", testCSV)
	loader, metrics := newTestLoader(t, dir)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	writeFile(t, dir, "other.csv", testCSV)
	_, err = loader.Reload(context.Background())
	require.ErrorIs(t, err, ErrAmbiguousData)

	current, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, current)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("error")), 0)
}

func TestLoader_NoFile(t *testing.T) {
	loader, _ := newTestLoader(t, t.TempDir())

	_, err := loader.Load(context.Background())
	require.ErrorIs(t, err, ErrNoDataFile)
}

func TestLoader_BadYearIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ev.csv",
		"model_year,make,model,city,electric_range,base_msrp,vehicle_location\n"+
			"soon,KIA,EV6,Spokane,310,0,POINT (-117.42 47.65)\n")
	loader, _ := newTestLoader(t, dir)

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotNumeric)
	assert.Contains(t, err.Error(), "ev.csv")
	assert.Contains(t, err.Error(), "row 1")
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "gone.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open data file")
}

func TestLoader_HeaderOnlyLoadsEmptyTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ev.csv", "model_year,make,model,city,electric_range,base_msrp,vehicle_location\n")
	loader, metrics := newTestLoader(t, dir)

	table, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, domain.Summary{}, domain.Summarize(table.Records))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("success")), 0)
}
