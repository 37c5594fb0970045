// Package assess drives the detector catalogue over each video and
// collects the per-brand assessment.
package assess

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/detectors"
	"github.com/vidlens/abcd/pkg/models"
)

// Aggregator runs every catalogue entry against one video and folds the
// results into a VideoAssessment.
type Aggregator struct {
	catalogue       []detectors.Detector
	detectorTimeout time.Duration
	sizeLimitMB     float64
	useLLMs         bool
	metrics         *Metrics
	logger          *logrus.Logger
}

func NewAggregator(catalogue []detectors.Detector, detectorTimeout time.Duration, sizeLimitMB float64, useLLMs bool, metrics *Metrics, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		catalogue:       catalogue,
		detectorTimeout: detectorTimeout,
		sizeLimitMB:     sizeLimitMB,
		useLLMs:         useLLMs,
		metrics:         metrics,
		logger:          logger,
	}
}

// Assess runs the full catalogue concurrently and merges results in
// catalogue order, so the feature list is stable across runs regardless
// of detector latencies. A detector error or timeout degrades that
// detector's features to detected=false; it never fails the video.
//
// When LLM-backed detection is enabled, videos over the size ceiling are
// refused with ErrVideoTooLarge: the judgment service rejects oversized
// payloads, and a partially-judged assessment would be misleading.
func (a *Aggregator) Assess(ctx context.Context, video models.VideoAsset, bundle models.AnnotationBundle, criteria models.BrandCriteria) (models.VideoAssessment, error) {
	if a.useLLMs && a.sizeLimitMB > 0 && video.SizeMB() > a.sizeLimitMB {
		return models.VideoAssessment{}, fmt.Errorf("%w: %s is %.2f MB, limit %.2f MB",
			models.ErrVideoTooLarge, video.Name, video.SizeMB(), a.sizeLimitMB)
	}

	in := detectors.Input{Bundle: bundle, Video: video, Criteria: criteria}

	// Catalogue-ordered slots: concurrent execution must not change the
	// merged ordering.
	slots := make([][]models.FeatureResult, len(a.catalogue))
	var wg sync.WaitGroup

	for i, detector := range a.catalogue {
		wg.Add(1)
		go func(i int, d detectors.Detector) {
			defer wg.Done()

			detectorCtx, cancel := context.WithTimeout(ctx, a.detectorTimeout)
			defer cancel()

			start := time.Now()
			results, err := d.Detect(detectorCtx, in)
			elapsed := time.Since(start)

			if a.metrics != nil {
				a.metrics.DetectorDuration.WithLabelValues(d.Name()).Observe(elapsed.Seconds())
			}

			if err != nil {
				explanation := fmt.Sprintf("Detector failed: %v", err)
				if errors.Is(err, context.DeadlineExceeded) {
					explanation = fmt.Sprintf("Detector timed out after %s", a.detectorTimeout)
				}
				a.logger.WithFields(logrus.Fields{
					"detector": d.Name(),
					"video":    video.Name,
					"elapsed":  elapsed,
				}).WithError(err).Warn("Detector degraded to not-detected")
				slots[i] = detectors.UndetectedResults(d, video, explanation)
				return
			}
			slots[i] = results
		}(i, detector)
	}
	wg.Wait()

	var features []models.FeatureResult
	for _, slot := range slots {
		features = append(features, slot...)
	}

	passed := 0
	for _, feature := range features {
		if feature.Detected {
			passed++
		}
	}
	if a.metrics != nil {
		a.metrics.FeaturesDetected.Add(float64(passed))
	}

	score := 0.0
	if len(features) > 0 {
		score = float64(passed) * 100 / float64(len(features))
	}

	a.logger.WithFields(logrus.Fields{
		"video":  video.Name,
		"passed": passed,
		"total":  len(features),
		"score":  score,
	}).Info("Video assessed")

	return models.VideoAssessment{
		VideoName:           video.FileName,
		VideoURI:            video.URI,
		Features:            features,
		PassedFeaturesCount: passed,
		Score:               score,
	}, nil
}
