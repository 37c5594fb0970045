package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/annotations"
	"github.com/vidlens/abcd/internal/assess"
	"github.com/vidlens/abcd/internal/config"
	"github.com/vidlens/abcd/internal/database"
	"github.com/vidlens/abcd/internal/detectors"
	"github.com/vidlens/abcd/internal/knowledge"
	"github.com/vidlens/abcd/internal/llm"
	"github.com/vidlens/abcd/internal/messaging"
	"github.com/vidlens/abcd/internal/report"
	"github.com/vidlens/abcd/internal/results"
	"github.com/vidlens/abcd/internal/storage"
	"github.com/vidlens/abcd/internal/trim"
)

type Services struct {
	Auth       *AuthService
	Health     *HealthService
	RateLimit  *RateLimitService
	Assessment *AssessmentService
	Events     *messaging.EventPublisher
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	var store storage.ObjectStore
	if cfg.Storage.Endpoint != "" {
		store = storage.NewHTTPStore(&cfg.Storage, logger)
	} else {
		// In-memory store keeps local development and tests self-contained
		logger.Warn("No storage endpoint configured, using in-memory object store")
		store = storage.NewMemoryStore(cfg.Storage.Bucket)
	}

	authService := NewAuthService(cfg, logger, db.Redis)
	healthService := NewHealthService(cfg, logger, db, store)
	rateLimitService := NewRateLimitService(cfg, logger, db.Redis)

	metrics := assess.NewMetrics(prometheus.DefaultRegisterer)

	transcoder := trim.NewFFmpegTranscoder(cfg.Storage.FFmpegBinary, logger)
	trimmer := trim.NewManager(
		store, transcoder, cfg.Storage.StagingDir,
		cfg.Assessment.TrimStartSeconds, cfg.Assessment.TrimEndSeconds,
		logger,
	)

	var gateway annotations.Gateway
	if cfg.Assessment.UseAnnotations {
		sg, err := annotations.NewStoreGateway(store, db.Redis, cfg.Redis.BundleTTL, logger)
		if err != nil {
			return nil, err
		}
		gateway = sg
	}

	var judge llm.Judge
	if cfg.Assessment.UseLLMs {
		judge = llm.NewHTTPJudge(&cfg.LLM, logger)
	}

	var entities knowledge.EntityLookup
	if db.Neo4j != nil {
		entities = knowledge.NewGraphLookup(db.Neo4j, db.Redis, cfg.Redis.EntityTTL, logger)
	}

	catalogue := detectors.Catalogue(detectors.Options{
		UseAnnotations:      cfg.Assessment.UseAnnotations,
		UseLLMs:             cfg.Assessment.UseLLMs,
		Judge:               judge,
		Entities:            entities,
		EarlyWindowSecs:     cfg.Assessment.TrimEndSeconds,
		AvgShotDurationSecs: cfg.Assessment.AvgShotDurationSecs,
		QuickPacingMinShots: cfg.Assessment.QuickPacingMinShots,
		DynamicStartMaxSecs: cfg.Assessment.DynamicStartMaxFirst,
		CloseUpMinBoxArea:   cfg.Assessment.CloseUpMinBoxArea,
		Logger:              logger,
	})

	aggregator := assess.NewAggregator(
		catalogue, cfg.Assessment.DetectorTimeout,
		cfg.Assessment.VideoSizeLimitMB, cfg.Assessment.UseLLMs,
		metrics, logger,
	)

	collector := assess.NewCollector(
		store, cfg.Storage.Bucket, trimmer, gateway, aggregator,
		cfg.Assessment.WorkerCount,
		cfg.Assessment.UseAnnotations, cfg.Assessment.UseLLMs,
		cfg.Assessment.VideoSizeLimitMB,
		metrics, logger,
	)

	publisher := report.NewPublisher(store, cfg.Storage.SignedURLTTL, logger)

	var repository *results.Repository
	if db.PG != nil {
		repository = results.NewRepository(db.PG, logger)
	}

	var localWriter *results.LocalWriter
	if cfg.Assessment.StoreResultsLocally {
		localWriter = results.NewLocalWriter(cfg.Assessment.LocalResultsDir, logger)
	}

	var events *messaging.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		events = messaging.NewEventPublisher(cfg, logger)
	}

	assessmentService := NewAssessmentService(
		collector, publisher, repository, localWriter, events, metrics, logger,
	)

	return &Services{
		Auth:       authService,
		Health:     healthService,
		RateLimit:  rateLimitService,
		Assessment: assessmentService,
		Events:     events,
	}, nil
}
