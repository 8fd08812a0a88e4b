package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline instrumentation. Every query triggers a full re-scan of the
// workbook tree, so scan volume maps one-to-one to query volume.
var (
	// ScansTotal counts full data-directory scans.
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gradepulse",
		Name:      "scans_total",
		Help:      "Total number of full data directory scans.",
	})

	// WorkbookFailures counts subject workbooks dropped from a scan because
	// they could not be opened or parsed.
	WorkbookFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gradepulse",
		Name:      "workbook_failures_total",
		Help:      "Total number of subject workbooks skipped due to parse failures.",
	})

	// SheetsSkipped counts sheets dropped for not matching the expected
	// topic layout.
	SheetsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gradepulse",
		Name:      "sheets_skipped_total",
		Help:      "Total number of sheets skipped due to schema mismatch.",
	})

	// CellFallbacks counts cell values that degraded to a fallback (bad
	// date -> current instant, unparsable marks -> absent). The fallback is
	// a compatibility contract; this counter is the observation channel.
	CellFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradepulse",
		Name:      "cell_fallbacks_total",
		Help:      "Total number of cell values that degraded to a fallback.",
	}, []string{"kind"})
)
