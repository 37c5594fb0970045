package assess

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/annotations"
	"github.com/vidlens/abcd/internal/storage"
	"github.com/vidlens/abcd/internal/trim"
	"github.com/vidlens/abcd/pkg/models"
)

// ErrNoVideosFound signals a brand folder with no candidate videos at
// all, as opposed to models.ErrEmptyResult where candidates existed but
// every one was filtered or failed.
var ErrNoVideosFound = errors.New("no videos found for brand")

// Collector runs the per-video pipeline (trim, annotate, detect,
// aggregate) over every qualifying video in a brand's folder, with a
// bounded worker pool.
type Collector struct {
	store          storage.ObjectStore
	bucket         string
	trimmer        *trim.Manager
	annotations    annotations.Gateway
	aggregator     *Aggregator
	workerCount    int
	useAnnotations bool
	useLLMs        bool
	sizeLimitMB    float64
	metrics        *Metrics
	logger         *logrus.Logger
}

func NewCollector(
	store storage.ObjectStore,
	bucket string,
	trimmer *trim.Manager,
	annotationGateway annotations.Gateway,
	aggregator *Aggregator,
	workerCount int,
	useAnnotations, useLLMs bool,
	sizeLimitMB float64,
	metrics *Metrics,
	logger *logrus.Logger,
) *Collector {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Collector{
		store:          store,
		bucket:         bucket,
		trimmer:        trimmer,
		annotations:    annotationGateway,
		aggregator:     aggregator,
		workerCount:    workerCount,
		useAnnotations: useAnnotations,
		useLLMs:        useLLMs,
		sizeLimitMB:    sizeLimitMB,
		metrics:        metrics,
		logger:         logger,
	}
}

// CollectForBrand discovers every video under {brand}/videos/, assesses
// each concurrently and returns the brand assessment with video
// assessments in discovery order.
//
// A video-level failure (malformed name, oversize, decode failure,
// exhausted retries) skips that video and the run continues. Discovery
// failure is fatal to the run. A run yielding nothing reports
// ErrNoVideosFound or models.ErrEmptyResult so callers can message the
// two cases differently.
func (c *Collector) CollectForBrand(ctx context.Context, criteria models.BrandCriteria) (models.BrandAssessment, error) {
	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.RunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	brand := criteria.BrandName
	prefix := brand + "/videos/"

	objects, err := c.store.List(ctx, prefix)
	if err != nil {
		return models.BrandAssessment{}, fmt.Errorf("list brand videos %q: %w", prefix, err)
	}

	candidates := c.filterCandidates(objects, prefix)
	if len(candidates) == 0 {
		// Early abort: no workers launched.
		return models.BrandAssessment{}, fmt.Errorf("%w: %s", ErrNoVideosFound, brand)
	}

	// Workers write into discovery-ordered slots; the single-threaded
	// append below is the only writer of the final list.
	slots := make([]*models.VideoAssessment, len(candidates))
	sem := make(chan struct{}, c.workerCount)
	var wg sync.WaitGroup

	for i, video := range candidates {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, video models.VideoAsset) {
			defer wg.Done()
			defer func() { <-sem }()

			assessment, err := c.assessVideo(ctx, video, criteria)
			if err != nil {
				c.skip(video, err)
				return
			}
			slots[i] = &assessment
		}(i, video)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return models.BrandAssessment{}, fmt.Errorf("brand run aborted: %w", err)
	}

	result := models.BrandAssessment{BrandName: brand}
	for _, slot := range slots {
		if slot != nil {
			result.VideoAssessments = append(result.VideoAssessments, *slot)
		}
	}
	if len(result.VideoAssessments) == 0 {
		return models.BrandAssessment{}, fmt.Errorf("%w: %s: all %d candidate videos were skipped",
			models.ErrEmptyResult, brand, len(candidates))
	}

	c.logger.WithFields(logrus.Fields{
		"brand":      brand,
		"assessed":   len(result.VideoAssessments),
		"discovered": len(candidates),
		"elapsed":    time.Since(start),
	}).Info("Brand assessment collected")

	return result, nil
}

// filterCandidates drops the synthetic folder marker, already-derived
// preview clips and malformed names before any worker runs.
func (c *Collector) filterCandidates(objects []storage.Descriptor, prefix string) []models.VideoAsset {
	var candidates []models.VideoAsset
	for _, object := range objects {
		if object.Name == prefix || strings.HasSuffix(object.Name, "/") {
			continue
		}
		if models.IsPreview(object.Name) {
			continue
		}
		video, err := models.ParseVideoAsset(object.Name, object.Size, c.bucket)
		if err != nil {
			c.logger.WithField("object", object.Name).WithError(err).Warn("Skipping video with unresolvable name")
			if c.metrics != nil {
				c.metrics.VideosSkipped.WithLabelValues("malformed_name").Inc()
			}
			continue
		}
		candidates = append(candidates, video)
	}
	return candidates
}

func (c *Collector) assessVideo(ctx context.Context, video models.VideoAsset, criteria models.BrandCriteria) (models.VideoAssessment, error) {
	// Enforce the size gate before spending trim or annotation work.
	if c.useLLMs && c.sizeLimitMB > 0 && video.SizeMB() > c.sizeLimitMB {
		return models.VideoAssessment{}, fmt.Errorf("%w: %s is %.2f MB, limit %.2f MB",
			models.ErrVideoTooLarge, video.Name, video.SizeMB(), c.sizeLimitMB)
	}

	if _, err := c.trimmer.EnsurePreviewClip(ctx, video); err != nil {
		return models.VideoAssessment{}, fmt.Errorf("prepare preview clip: %w", err)
	}

	var bundle models.AnnotationBundle
	if c.useAnnotations && c.annotations != nil {
		var err error
		bundle, err = c.annotations.Fetch(ctx, video.Brand, video.Stem)
		if err != nil {
			return models.VideoAssessment{}, fmt.Errorf("fetch annotations: %w", err)
		}
	}

	assessment, err := c.aggregator.Assess(ctx, video, bundle, criteria)
	if err != nil {
		return models.VideoAssessment{}, err
	}
	if c.metrics != nil {
		c.metrics.VideosAssessed.Inc()
	}
	return assessment, nil
}

func (c *Collector) skip(video models.VideoAsset, err error) {
	reason := "error"
	switch {
	case errors.Is(err, models.ErrVideoTooLarge):
		reason = "too_large"
	case errors.Is(err, trim.ErrDecodeFailed):
		reason = "decode_failed"
	}
	if c.metrics != nil {
		c.metrics.VideosSkipped.WithLabelValues(reason).Inc()
	}
	c.logger.WithFields(logrus.Fields{
		"video":  video.Name,
		"reason": reason,
	}).WithError(err).Warn("Skipping video")
}
