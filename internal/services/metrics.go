// Package services – Prometheus instrumentation for the import pipeline.
//
// Row-level outcomes are the operational signal that matters in this system:
// a spike of "skipped" rows after an upload is how a bad workbook surfaces
// without the import ever failing.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// importBatches counts whole import invocations by policy.
	importBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_batches_total",
			Help: "Total number of processed import batches.",
		},
		[]string{"policy"},
	)

	// importRows counts per-row reconciliation outcomes by kind.
	importRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Total number of imported rows by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// importUnknownSheets counts sheets no vocabulary could claim.
	importUnknownSheets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "import_unclassified_sheets_total",
			Help: "Total number of sheets skipped as unclassifiable.",
		},
	)
)

func init() {
	prometheus.MustRegister(importBatches, importRows, importUnknownSheets)
}

func observeMerge(kind string, res MergeResult) {
	importRows.WithLabelValues(kind, "added").Add(float64(res.Added))
	importRows.WithLabelValues(kind, "updated").Add(float64(res.Updated))
	importRows.WithLabelValues(kind, "skipped").Add(float64(res.Skipped))
	importRows.WithLabelValues(kind, "replaced").Add(float64(res.Replaced))
}
