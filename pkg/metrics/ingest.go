package metrics

import "github.com/prometheus/client_golang/prometheus"

// IngestMetrics counts upload batch outcomes per file kind.
type IngestMetrics struct {
	rows     *prometheus.CounterVec
	rowErrs  *prometheus.CounterVec
	batches  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewIngestMetrics registers the ingestion metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_rows_processed_total",
		Help:      "Rows absorbed from accepted upload batches.",
	}, []string{"kind"})
	rowErrs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_row_errors_total",
		Help:      "Rows skipped inside accepted upload batches.",
	}, []string{"kind"})
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_batches_total",
		Help:      "Upload batches accepted per file kind.",
	}, []string{"kind"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_batches_rejected_total",
		Help:      "Upload batches rejected before any row was written.",
	}, []string{"reason"})
	reg.MustRegister(rows, rowErrs, batches, rejected)
	return &IngestMetrics{
		rows:     rows,
		rowErrs:  rowErrs,
		batches:  batches,
		rejected: rejected,
	}
}

// ObserveBatch records one accepted batch with its processed and skipped row counts.
func (m *IngestMetrics) ObserveBatch(kind string, processed, rowErrors int) {
	if m == nil || m.batches == nil {
		return
	}
	label := normalizeLabel(kind)
	m.batches.WithLabelValues(label).Inc()
	m.rows.WithLabelValues(label).Add(float64(processed))
	m.rowErrs.WithLabelValues(label).Add(float64(rowErrors))
}

// IncRejected records one batch rejected before processing.
func (m *IngestMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}
