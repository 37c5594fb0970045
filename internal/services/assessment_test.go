package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/assess"
	"github.com/vidlens/abcd/internal/detectors"
	"github.com/vidlens/abcd/internal/report"
	"github.com/vidlens/abcd/internal/results"
	"github.com/vidlens/abcd/internal/storage"
	"github.com/vidlens/abcd/internal/trim"
	"github.com/vidlens/abcd/pkg/models"
)

type passthroughTranscoder struct{}

func (passthroughTranscoder) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testAssessmentService(t *testing.T, store *storage.MemoryStore, localDir string) *AssessmentService {
	t.Helper()
	logger := quietLogger()

	catalogue := detectors.Catalogue(detectors.Options{UseAnnotations: true, Logger: logger})
	aggregator := assess.NewAggregator(catalogue, time.Second, 0, false, nil, logger)
	trimmer := trim.NewManager(store, passthroughTranscoder{}, t.TempDir(), 0, 5, logger)
	collector := assess.NewCollector(store, "creative-assets", trimmer, nil, aggregator, 2, false, false, 0, nil, logger)

	publisher := report.NewPublisher(store, time.Hour, logger)

	var localWriter *results.LocalWriter
	if localDir != "" {
		localWriter = results.NewLocalWriter(localDir, logger)
	}

	return NewAssessmentService(collector, publisher, nil, localWriter, nil, nil, logger)
}

func TestAssessmentService_Run(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	require.NoError(t, store.Put(context.Background(), "acme/videos/spot.mp4", make([]byte, 100), nil))

	localDir := t.TempDir()
	service := testAssessmentService(t, store, localDir)

	result, err := service.Run(context.Background(), models.BrandCriteria{BrandName: "acme"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.RunID)
	require.NotNil(t, result.Assessment)
	assert.Equal(t, "acme", result.Assessment.BrandName)
	require.Len(t, result.Assessment.VideoAssessments, 1)
	assert.Len(t, result.Assessment.VideoAssessments[0].Features, 23)

	require.NotNil(t, result.Artifacts, "artifacts published to the object store")
	_, err = store.Get(context.Background(), result.Artifacts.RecordName)
	assert.NoError(t, err)
	_, err = store.Get(context.Background(), result.Artifacts.MatrixName)
	assert.NoError(t, err)

	assert.NotEmpty(t, result.LocalPath)
	_, err = os.Stat(result.LocalPath)
	assert.NoError(t, err)
}

func TestAssessmentService_RunNoVideos(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	service := testAssessmentService(t, store, "")

	_, err := service.Run(context.Background(), models.BrandCriteria{BrandName: "acme"})
	assert.ErrorIs(t, err, assess.ErrNoVideosFound)
}

func TestAssessmentService_HistoryNeedsDatabase(t *testing.T) {
	service := testAssessmentService(t, storage.NewMemoryStore("creative-assets"), "")

	_, err := service.GetRun(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")

	_, err = service.ListRuns(context.Background(), "acme", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}
