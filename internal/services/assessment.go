package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/assess"
	"github.com/vidlens/abcd/internal/messaging"
	"github.com/vidlens/abcd/internal/report"
	"github.com/vidlens/abcd/internal/results"
	"github.com/vidlens/abcd/pkg/models"
)

// RunResult is the outcome of one brand assessment run.
type RunResult struct {
	RunID      uuid.UUID               `json:"run_id"`
	Assessment *models.BrandAssessment `json:"assessment"`
	Artifacts  *report.Artifacts       `json:"artifacts,omitempty"`
	LocalPath  string                  `json:"local_path,omitempty"`
	Duration   time.Duration           `json:"duration"`
}

// AssessmentService runs the full pipeline for a brand: collect and assess
// every video, publish report artifacts, persist the run and announce it.
type AssessmentService struct {
	collector   *assess.Collector
	publisher   *report.Publisher
	repository  *results.Repository
	localWriter *results.LocalWriter
	events      *messaging.EventPublisher
	metrics     *assess.Metrics
	logger      *logrus.Logger
}

func NewAssessmentService(
	collector *assess.Collector,
	publisher *report.Publisher,
	repository *results.Repository,
	localWriter *results.LocalWriter,
	events *messaging.EventPublisher,
	metrics *assess.Metrics,
	logger *logrus.Logger,
) *AssessmentService {
	return &AssessmentService{
		collector:   collector,
		publisher:   publisher,
		repository:  repository,
		localWriter: localWriter,
		events:      events,
		metrics:     metrics,
		logger:      logger,
	}
}

// Run assesses all of the brand's videos. Persistence and artifact
// publication are best effort once the assessment itself succeeded; their
// failures are logged but do not fail the run.
func (s *AssessmentService) Run(ctx context.Context, criteria models.BrandCriteria) (*RunResult, error) {
	runID := uuid.New()
	started := time.Now()

	log := s.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"brand":  criteria.BrandName,
	})
	log.Info("Assessment run started")

	s.publishEvent(ctx, messaging.RunEvent{
		RunID:     runID,
		BrandName: criteria.BrandName,
		Event:     messaging.EventRunStarted,
	})

	assessment, err := s.collector.CollectForBrand(ctx, criteria)
	if err != nil {
		s.publishEvent(ctx, messaging.RunEvent{
			RunID:     runID,
			BrandName: criteria.BrandName,
			Event:     messaging.EventRunFailed,
			Error:     err.Error(),
		})
		return nil, err
	}

	result := &RunResult{
		RunID:      runID,
		Assessment: &assessment,
	}

	if s.publisher != nil {
		artifacts, err := s.publisher.Publish(ctx, &assessment)
		if err != nil {
			log.WithError(err).Error("Failed to publish assessment artifacts")
		} else {
			result.Artifacts = artifacts
		}
	}

	if s.repository != nil {
		if _, err := s.repository.Store(ctx, &assessment); err != nil {
			log.WithError(err).Error("Failed to persist assessment run")
		}
	}

	if s.localWriter != nil {
		path, err := s.localWriter.Write(&assessment)
		if err != nil {
			log.WithError(err).Error("Failed to write local assessment record")
		} else {
			result.LocalPath = path
		}
	}

	result.Duration = time.Since(started)
	if s.metrics != nil {
		s.metrics.RunDuration.Observe(result.Duration.Seconds())
	}

	s.publishEvent(ctx, messaging.RunEvent{
		RunID:          runID,
		BrandName:      criteria.BrandName,
		Event:          messaging.EventRunCompleted,
		VideosAssessed: len(assessment.VideoAssessments),
	})

	log.WithFields(logrus.Fields{
		"videos":   len(assessment.VideoAssessments),
		"duration": result.Duration,
	}).Info("Assessment run completed")

	return result, nil
}

// GetRun loads a persisted run from the repository.
func (s *AssessmentService) GetRun(ctx context.Context, runID uuid.UUID) (*results.StoredRun, error) {
	if s.repository == nil {
		return nil, errors.New("run history is not persisted, no database configured")
	}
	return s.repository.Get(ctx, runID)
}

// ListRuns returns the persisted run history for a brand, newest first.
func (s *AssessmentService) ListRuns(ctx context.Context, brandName string, limit int) ([]results.StoredRun, error) {
	if s.repository == nil {
		return nil, errors.New("run history is not persisted, no database configured")
	}
	return s.repository.ListForBrand(ctx, brandName, limit)
}

func (s *AssessmentService) publishEvent(ctx context.Context, event messaging.RunEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"run_id": event.RunID,
			"event":  event.Event,
		}).Warn("Failed to publish run event")
	}
}
