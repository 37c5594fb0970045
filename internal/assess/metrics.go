package assess

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments brand runs. Registered once per process.
type Metrics struct {
	VideosAssessed   prometheus.Counter
	VideosSkipped    *prometheus.CounterVec
	FeaturesDetected prometheus.Counter
	DetectorDuration *prometheus.HistogramVec
	RunDuration      prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VideosAssessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "abcd_videos_assessed_total",
			Help: "Videos that produced a complete assessment.",
		}),
		VideosSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "abcd_videos_skipped_total",
			Help: "Videos skipped before assessment, by reason.",
		}, []string{"reason"}),
		FeaturesDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "abcd_features_detected_total",
			Help: "Feature results with detected=true across all runs.",
		}),
		DetectorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "abcd_detector_duration_seconds",
			Help:    "Per-detector execution time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"detector"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "abcd_brand_run_duration_seconds",
			Help:    "End-to-end brand run time.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
}
