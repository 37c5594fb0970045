package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEvent_Serialization(t *testing.T) {
	runID := uuid.New()
	event := RunEvent{
		RunID:          runID,
		BrandName:      "acme",
		Event:          EventRunCompleted,
		VideosAssessed: 3,
		VideosSkipped:  1,
		Timestamp:      time.Now(),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)

	var decoded RunEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, event.RunID, decoded.RunID)
	assert.Equal(t, event.BrandName, decoded.BrandName)
	assert.Equal(t, event.Event, decoded.Event)
	assert.Equal(t, event.VideosAssessed, decoded.VideosAssessed)
	assert.Equal(t, event.VideosSkipped, decoded.VideosSkipped)
}

func TestRunEvent_OmitsEmptyFields(t *testing.T) {
	event := RunEvent{
		RunID:     uuid.New(),
		BrandName: "acme",
		Event:     EventRunStarted,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &raw))

	assert.NotContains(t, raw, "videos_assessed")
	assert.NotContains(t, raw, "videos_skipped")
	assert.NotContains(t, raw, "error")
}

func TestRunEvent_FailedCarriesError(t *testing.T) {
	event := RunEvent{
		RunID:     uuid.New(),
		BrandName: "acme",
		Event:     EventRunFailed,
		Error:     "no videos found",
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded RunEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "no videos found", decoded.Error)
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *EventPublisher

	err := p.Publish(context.Background(), RunEvent{Event: EventRunStarted})
	assert.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestTopicConfiguration(t *testing.T) {
	assert.Equal(t, "assessment-events", AssessmentEventsTopic)
}
