package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ingestion and reconciliation
// engine.
type Metrics struct {
	// Raw events by ingestion outcome
	EventsIngested *prometheus.CounterVec

	// Reconciliation outcomes by resulting estado
	RecordsReconciled *prometheus.CounterVec

	// Failed reconciliation attempts left in the buffer for retry
	SyncErrors prometheus.Counter

	// Records currently waiting in the durable buffer
	BufferPending prometheus.Gauge

	// Duration of one full drain pass
	ReconcilePassDuration prometheus.Histogram
}

// New creates a Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_events_ingested_total",
			Help: "Raw terminal events by ingestion outcome",
		}, []string{"outcome"}), // outcome: "buffered", "duplicate", "debounced", "rejected"

		RecordsReconciled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_records_reconciled_total",
			Help: "Buffered records folded into the ledger by resulting estado",
		}, []string{"estado"}),

		SyncErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attendance_sync_errors_total",
			Help: "Reconciliation attempts that failed and were left for retry",
		}),

		BufferPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "attendance_buffer_pending",
			Help: "Punch records waiting in the durable local buffer",
		}),

		ReconcilePassDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendance_reconcile_pass_duration_seconds",
			Help:    "Duration of one full buffer drain pass",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncIngested records one raw event outcome.
func (m *Metrics) IncIngested(outcome string) {
	if m != nil {
		m.EventsIngested.WithLabelValues(outcome).Inc()
	}
}

// IncReconciled records one committed ledger mutation.
func (m *Metrics) IncReconciled(estado string) {
	if m != nil {
		m.RecordsReconciled.WithLabelValues(estado).Inc()
	}
}

// IncSyncError records one record left in the buffer for retry.
func (m *Metrics) IncSyncError() {
	if m != nil {
		m.SyncErrors.Inc()
	}
}

// SetBufferPending updates the pending-records gauge.
func (m *Metrics) SetBufferPending(n int) {
	if m != nil {
		m.BufferPending.Set(float64(n))
	}
}

// ObservePassDuration records the duration of a drain pass.
func (m *Metrics) ObservePassDuration(d time.Duration) {
	if m != nil {
		m.ReconcilePassDuration.Observe(d.Seconds())
	}
}
