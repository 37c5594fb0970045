package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/storage"
)

func TestPublisher_Publish(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	publisher := NewPublisher(store, time.Hour, logger)
	publisher.timestamp = func() time.Time {
		return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	}

	artifacts, err := publisher.Publish(context.Background(), sampleAssessment())
	require.NoError(t, err)

	assert.Equal(t, "acme/assessments/assessment_20250314_092653.json", artifacts.RecordName)
	assert.Equal(t, "acme/assessments/assessment_20250314_092653.csv", artifacts.MatrixName)
	assert.Contains(t, artifacts.RecordURL, "expires=")
	assert.Contains(t, artifacts.MatrixURL, "expires=")

	record, err := store.Get(context.Background(), artifacts.RecordName)
	require.NoError(t, err)
	decoded, err := ReadRecord(bytes.NewReader(record))
	require.NoError(t, err)
	assert.Equal(t, "acme", decoded.BrandName)

	matrix, err := store.Get(context.Background(), artifacts.MatrixName)
	require.NoError(t, err)
	assert.Contains(t, string(matrix), "Video Name,Video URI,Overall Score")
}
