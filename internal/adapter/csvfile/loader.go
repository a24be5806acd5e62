package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/observability"
)

// Loader discovers and parses the data file once and serves the cached
// table until Reload is called.
type Loader struct {
	dir     string
	logger  *slog.Logger
	metrics *observability.Metrics

	mu    sync.Mutex
	table *domain.Table
}

// NewLoader creates a Loader for the CSV file in dir.
func NewLoader(dir string, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		dir:     dir,
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns the cached table, reading it on first use. Repeated calls
// return the same *domain.Table.
func (l *Loader) Load(ctx context.Context) (*domain.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.table != nil {
		return l.table, nil
	}
	return l.loadLocked(ctx)
}

// Reload discards the cache and reads the data directory again. When the
// read fails the previous table stays cached and the error is returned.
func (l *Loader) Reload(ctx context.Context) (*domain.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loadLocked(ctx)
}

func (l *Loader) loadLocked(ctx context.Context) (*domain.Table, error) {
	start := time.Now()

	table, err := l.read(ctx)
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}

	l.table = table
	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.DatasetLoadSeconds.Observe(time.Since(start).Seconds())
	l.metrics.DatasetRows.Set(float64(table.Len()))
	l.metrics.MalformedLocations.Set(float64(table.MalformedLocations))

	l.logger.Info("dataset loaded",
		"source", table.Source,
		"rows", table.Len(),
		"duration", time.Since(start),
	)
	if table.MalformedLocations > 0 {
		l.logger.Warn("rows with unparseable vehicle_location",
			"source", table.Source,
			"count", table.MalformedLocations,
		)
	}
	return table, nil
}

func (l *Loader) read(ctx context.Context) (*domain.Table, error) {
	path, err := Discover(l.dir)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadTable(path)
}

// ReadTable parses and cleans a CSV file into a table named after the file.
func ReadTable(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	raws, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	records, err := domain.CleanRecords(raws)
	if err != nil {
		return nil, fmt.Errorf("%s: clean: %w", filepath.Base(path), err)
	}

	return domain.NewTable(filepath.Base(path), records), nil
}
