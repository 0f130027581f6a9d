package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DegradedQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dossier", Name: "degraded_queries_total", Help: "Document queries served through an index fallback, by fallback stage."},
		[]string{"stage"},
	)
	BlobDeleteTolerated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "dossier", Name: "blob_delete_tolerated_total", Help: "Blob deletes that failed with a tolerated class (not-found, access-denied)."},
	)
	UnmatchedSlots = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "dossier", Name: "unmatched_personal_slots_total", Help: "Personal-document deletions that matched no profile attachment slot."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DegradedQueries)
	reg.MustRegister(BlobDeleteTolerated)
	reg.MustRegister(UnmatchedSlots)
}
