package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the match module. All methods are safe
// on a nil receiver so services can run without metrics in tests.
type Metrics struct {
	// Status transitions by source and target status
	StatusTransitions *prometheus.CounterVec

	CodesIssued prometheus.Counter

	// Attendance confirmations by method: "code", "manual"
	AttendanceConfirmed *prometheus.CounterVec

	ScoreSubmissions prometheus.Counter

	// Finalization outcomes: "confirmed", "disputed", "override"
	ResultsFinalized *prometheus.CounterVec

	RecomputeLatency prometheus.Histogram

	// Sweep runs by sweep name
	SweepLatency   *prometheus.HistogramVec
	SweepProcessed *prometheus.CounterVec
	SweepFailed    *prometheus.CounterVec
}

// New creates a new Metrics instance with all match module metrics registered.
func New() *Metrics {
	return &Metrics{
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_match_status_transitions_total",
			Help: "Match status transitions by source and target status",
		}, []string{"from", "to"}),

		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_attendance_codes_issued_total",
			Help: "Attendance verification codes generated",
		}),

		AttendanceConfirmed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_attendance_confirmations_total",
			Help: "Attendance confirmations by method",
		}, []string{"method"}),

		ScoreSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_score_submissions_total",
			Help: "Accepted score submissions",
		}),

		ResultsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_results_finalized_total",
			Help: "Result finalization outcomes",
		}, []string{"outcome"}),

		RecomputeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchday_result_recompute_duration_seconds",
			Help:    "Duration of temporary result recomputation including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		SweepLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matchday_sweep_duration_seconds",
			Help:    "Duration of scheduled sweeps",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"sweep"}),

		SweepProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_sweep_items_processed_total",
			Help: "Items successfully processed by sweeps",
		}, []string{"sweep"}),

		SweepFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "matchday_sweep_items_failed_total",
			Help: "Items that failed during sweeps",
		}, []string{"sweep"}),
	}
}

func (m *Metrics) IncrementTransition(from, to string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(from, to).Inc()
	}
}

func (m *Metrics) IncrementCodesIssued() {
	if m != nil {
		m.CodesIssued.Inc()
	}
}

func (m *Metrics) IncrementAttendance(method string) {
	if m != nil {
		m.AttendanceConfirmed.WithLabelValues(method).Inc()
	}
}

func (m *Metrics) IncrementSubmissions() {
	if m != nil {
		m.ScoreSubmissions.Inc()
	}
}

func (m *Metrics) IncrementFinalized(outcome string) {
	if m != nil {
		m.ResultsFinalized.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveRecompute(d time.Duration) {
	if m != nil {
		m.RecomputeLatency.Observe(d.Seconds())
	}
}

// ObserveSweep records one sweep run.
func (m *Metrics) ObserveSweep(sweep string, d time.Duration, processed, failed int) {
	if m == nil {
		return
	}
	m.SweepLatency.WithLabelValues(sweep).Observe(d.Seconds())
	m.SweepProcessed.WithLabelValues(sweep).Add(float64(processed))
	m.SweepFailed.WithLabelValues(sweep).Add(float64(failed))
}
