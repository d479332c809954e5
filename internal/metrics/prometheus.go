package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the metrics of one fgreport invocation. Each Registry owns
// its own prometheus.Registry so independent runs and tests never share
// counters.
type Registry struct {
	reg *prometheus.Registry

	// Parse metrics
	LinesScanned     *prometheus.CounterVec
	LinesIgnored     *prometheus.CounterVec
	SetsApplied      *prometheus.CounterVec
	RecordsFinalized *prometheus.CounterVec

	// Output metrics
	RowsWritten *prometheus.CounterVec

	// Run metrics
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	LastRun     *prometheus.GaugeVec
}

// New returns an empty registry.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	r := &Registry{reg: reg}

	r.LinesScanned = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "fgreport_lines_scanned_total",
		Help: "Input lines read by the parser",
	}, []string{"report", "schema"})

	r.LinesIgnored = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "fgreport_lines_ignored_total",
		Help: "Input lines that matched no rule or were rejected by a field",
	}, []string{"report", "schema"})

	r.SetsApplied = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "fgreport_sets_applied_total",
		Help: "Set lines captured into records",
	}, []string{"report", "schema"})

	r.RecordsFinalized = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "fgreport_records_finalized_total",
		Help: "Records sealed by the parser",
	}, []string{"report", "schema"})

	r.RowsWritten = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "fgreport_rows_written_total",
		Help: "Report rows handed to an output projector",
	}, []string{"report", "format"})

	r.Runs = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "fgreport_runs_total",
		Help: "Report runs by outcome",
	}, []string{"report", "status"})

	r.RunDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fgreport_run_duration_seconds",
		Help:    "Wall time of a report run",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	r.LastRun = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fgreport_last_run_timestamp_seconds",
		Help: "Unix time of the last finished run",
	}, []string{"report"})

	return r
}

// ObserveParse records the counters of one parse run.
func (r *Registry) ObserveParse(report, schema string, lines, ignored, sets, records int) {
	if r == nil {
		return
	}
	r.LinesScanned.WithLabelValues(report, schema).Add(float64(lines))
	r.LinesIgnored.WithLabelValues(report, schema).Add(float64(ignored))
	r.SetsApplied.WithLabelValues(report, schema).Add(float64(sets))
	r.RecordsFinalized.WithLabelValues(report, schema).Add(float64(records))
}

// ObserveRows records rows written in format.
func (r *Registry) ObserveRows(report, format string, rows int) {
	if r == nil {
		return
	}
	r.RowsWritten.WithLabelValues(report, format).Add(float64(rows))
}

// ObserveRun records the outcome and duration of a run finished at end.
func (r *Registry) ObserveRun(report string, d time.Duration, end time.Time, err error) {
	if r == nil {
		return
	}
	r.Runs.WithLabelValues(report, statusString(err)).Inc()
	r.RunDuration.WithLabelValues(report).Observe(d.Seconds())
	r.LastRun.WithLabelValues(report).Set(float64(end.Unix()))
}

// Gatherer exposes the registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

// statusString converts a run error to a status label.
func statusString(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
