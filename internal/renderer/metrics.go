package renderer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const viewKindLabel = "view_kind"

var (
	cullingTested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "culling_objects_tested",
		Help: "The number of objects tested against a view frustum.",
	}, []string{
		viewKindLabel,
	})

	cullingRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "culling_objects_rejected",
		Help: "The number of objects culled by a view frustum.",
	}, []string{
		viewKindLabel,
	})

	cullingBatchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "culling_batch_latency",
		Help:    "The time one worker spends culling one batch of objects.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14),
	}, []string{
		viewKindLabel,
	})
)

func viewKind(v *View) string {
	if v.IsSubView() {
		return "sub"
	}
	return "main"
}

func countCulled(v *View, tested, rejected int) {
	labels := prometheus.Labels{viewKindLabel: viewKind(v)}
	cullingTested.With(labels).Add(float64(tested))
	cullingRejected.With(labels).Add(float64(rejected))
}

func observeBatchLatency(v *View, start time.Time) {
	cullingBatchLatency.With(prometheus.Labels{viewKindLabel: viewKind(v)}).Observe(time.Since(start).Seconds())
}
