package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// Metrics provides observability for the KOL module.
// Tracks dataset size, rejected queries and facade operation durations.
type Metrics struct {
	RecordsLoaded   prometheus.Gauge
	QueriesRejected prometheus.Counter
	ListDuration    prometheus.Histogram
	GetDuration     prometheus.Histogram
	StatsDuration   prometheus.Histogram
}

// New creates the KOL metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecordsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "kol_records_loaded",
			Help: "Number of KOL records in the loaded dataset",
		}),
		QueriesRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "kol_queries_rejected_total",
			Help: "Total number of list queries rejected by validation",
		}),
		ListDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kol_list_duration_seconds",
			Help:    "Duration of filtered/sorted/paginated list operations",
			Buckets: durationBuckets,
		}),
		GetDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kol_get_duration_seconds",
			Help:    "Duration of lookups by id",
			Buckets: durationBuckets,
		}),
		StatsDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kol_stats_duration_seconds",
			Help:    "Duration of statistics computation",
			Buckets: durationBuckets,
		}),
	}
}

// SetRecordsLoaded records the dataset size after startup.
func (m *Metrics) SetRecordsLoaded(n int) {
	m.RecordsLoaded.Set(float64(n))
}

// IncrementQueriesRejected records a list query that failed validation.
func (m *Metrics) IncrementQueriesRejected() {
	m.QueriesRejected.Inc()
}

// ObserveList records the duration of a list operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}

// ObserveGet records the duration of a lookup by id.
func (m *Metrics) ObserveGet(start time.Time) {
	m.GetDuration.Observe(time.Since(start).Seconds())
}

// ObserveStats records the duration of a statistics computation.
func (m *Metrics) ObserveStats(start time.Time) {
	m.StatsDuration.Observe(time.Since(start).Seconds())
}
