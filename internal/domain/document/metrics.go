package document

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks pipeline throughput for the /metrics endpoint.
type Metrics struct {
	DocumentsProcessed *prometheus.CounterVec
	DocumentsSkipped   prometheus.Counter
}

// NewMetrics registers the pipeline counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finauto_documents_processed_total",
			Help: "Documents successfully classified and extracted, by document type.",
		}, []string{"type"}),
		DocumentsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "finauto_documents_skipped_total",
			Help: "Documents skipped because their PDF could not be read.",
		}),
	}
}
