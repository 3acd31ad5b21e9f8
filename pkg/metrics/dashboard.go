package metrics

import "github.com/prometheus/client_golang/prometheus"

// DashboardMetrics tracks the health of the unified feed aggregation.
type DashboardMetrics struct {
	sourceFailures *prometheus.CounterVec
	recordsSkipped *prometheus.CounterVec
}

// NewDashboardMetrics registers the dashboard metrics on the provided registerer.
func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	if reg == nil {
		return &DashboardMetrics{}
	}
	sourceFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_source_failures",
		Help: "Record sources that failed during feed aggregation.",
	}, []string{"source"})
	recordsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_records_skipped",
		Help: "Malformed records dropped during feed normalization.",
	}, []string{"source"})
	reg.MustRegister(sourceFailures, recordsSkipped)
	return &DashboardMetrics{
		sourceFailures: sourceFailures,
		recordsSkipped: recordsSkipped,
	}
}

// IncSourceFailure increments the failure counter for the named source.
func (d *DashboardMetrics) IncSourceFailure(source string) {
	if d == nil || d.sourceFailures == nil {
		return
	}
	d.sourceFailures.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncRecordSkipped increments the skipped-record counter for the named source.
func (d *DashboardMetrics) IncRecordSkipped(source string) {
	if d == nil || d.recordsSkipped == nil {
		return
	}
	d.recordsSkipped.WithLabelValues(normalizeLabel(source)).Inc()
}
