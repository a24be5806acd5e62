package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ev_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset loading.
	DatasetLoads       *prometheus.CounterVec // labels: outcome={success,error}
	DatasetLoadSeconds prometheus.Histogram
	DatasetRows        prometheus.Gauge
	MalformedLocations prometheus.Gauge

	// Recomputation.
	DashboardRenders *prometheus.CounterVec // labels: view={page,api,map,chart}
	RenderDuration   prometheus.Histogram
	FilteredRows     prometheus.Histogram

	// Snapshot publishing.
	SnapshotsPublished prometheus.Counter
	SnapshotErrors     prometheus.Counter
	SnapshotsEnabled   prometheus.Gauge

	// Reload notifications.
	WebsocketClients prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetLoadSeconds,
		m.DatasetRows,
		m.MalformedLocations,
		m.DashboardRenders,
		m.RenderDuration,
		m.FilteredRows,
		m.SnapshotsPublished,
		m.SnapshotErrors,
		m.SnapshotsEnabled,
		m.WebsocketClients,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"outcome"}),
		DatasetLoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time to discover, parse, and clean the source file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the currently loaded table.",
		}),
		MalformedLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_malformed_locations",
			Help:      "Rows whose vehicle_location did not yield both coordinates.",
		}),
		DashboardRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_renders_total",
			Help:      "Dashboard recomputations by view.",
		}, []string{"view"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_render_duration_seconds",
			Help:      "Duration of a filter-aggregate recomputation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		FilteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_filtered_rows",
			Help:      "Rows remaining after filters, per recomputation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Dataset snapshots written to Kafka.",
		}),
		SnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_errors_total",
			Help:      "Failed snapshot publications.",
		}),
		SnapshotsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshots_enabled",
			Help:      "1 when snapshot publishing is enabled, 0 otherwise.",
		}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Browsers subscribed to reload notifications.",
		}),
	}
}
