package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/ev-analytics-dashboard/internal/domain"
	"github.com/couchcryptid/ev-analytics-dashboard/internal/observability"
)

// TableSource supplies the cleaned table, memoized until Reload.
type TableSource interface {
	Load(ctx context.Context) (*domain.Table, error)
	Reload(ctx context.Context) (*domain.Table, error)
}

// SnapshotPublisher receives the unfiltered summary after every load.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot domain.Snapshot) error
}

// ReloadNotifier tells connected viewers that the table changed.
type ReloadNotifier interface {
	NotifyReload(snapshot domain.Snapshot)
}

// Service recomputes the dashboard from the cached table on every request.
type Service struct {
	source    TableSource
	publisher SnapshotPublisher
	notifier  ReloadNotifier
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Service. publisher and notifier may be nil.
func New(source TableSource, publisher SnapshotPublisher, notifier ReloadNotifier, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:    source,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start performs the initial load. An error here is fatal for the process:
// nothing is rendered without a table.
func (s *Service) Start(ctx context.Context) error {
	table, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	s.ready.Store(true)
	s.publish(ctx, domain.NewSnapshot(table))
	return nil
}

// CheckReadiness returns nil once the initial load has succeeded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Compute filters the table by the request and aggregates the result. view
// labels the caller in metrics (page, api, map, chart).
func (s *Service) Compute(ctx context.Context, view string, req Request) (domain.Dashboard, error) {
	start := time.Now()

	table, err := s.source.Load(ctx)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("load table: %w", err)
	}

	d := domain.BuildDashboard(table, req.Resolve(table))

	s.metrics.DashboardRenders.WithLabelValues(view).Inc()
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	s.metrics.FilteredRows.Observe(float64(d.Summary.TotalEVs))
	s.logger.Debug("dashboard computed",
		"view", view,
		"rows", d.Summary.TotalEVs,
		"years", len(d.SelectedYears),
		"makes", len(d.SelectedMakes),
		"skipped_map_points", d.SkippedMapPoints,
	)
	return d, nil
}

// Reload re-reads the data directory. On failure the previous table keeps
// serving and the error is returned to the caller.
func (s *Service) Reload(ctx context.Context) (domain.Snapshot, error) {
	table, err := s.source.Reload(ctx)
	if err != nil {
		s.logger.Error("dataset reload failed", "error", err)
		return domain.Snapshot{}, fmt.Errorf("reload: %w", err)
	}

	snapshot := domain.NewSnapshot(table)
	s.ready.Store(true)
	s.publish(ctx, snapshot)
	if s.notifier != nil {
		s.notifier.NotifyReload(snapshot)
	}
	s.logger.Info("dataset reloaded", "source", snapshot.Source, "rows", snapshot.Rows)
	return snapshot, nil
}

// publish is best-effort; a broker outage never blocks the dashboard.
func (s *Service) publish(ctx context.Context, snapshot domain.Snapshot) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSnapshot(ctx, snapshot); err != nil {
		s.metrics.SnapshotErrors.Inc()
		s.logger.Warn("snapshot publish failed", "source", snapshot.Source, "error", err)
		return
	}
	s.metrics.SnapshotsPublished.Inc()
}
