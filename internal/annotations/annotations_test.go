package annotations

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/storage"
)

func testGateway(t *testing.T, store storage.ObjectStore) *StoreGateway {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	gateway, err := NewStoreGateway(store, nil, 0, logger)
	require.NoError(t, err)
	return gateway
}

func TestFetch_AssemblesChannels(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	ctx := context.Background()

	shotDoc := `{"shot_annotations":[
		{"segment":{"start_time_offset":0,"end_time_offset":1.5}},
		{"segment":{"start_time_offset":1.5,"end_time_offset":4.0}}
	]}`
	speechDoc := `{"speech_transcriptions":[
		{"transcript":"shop now at acme","confidence":0.92,
		 "words":[{"word":"shop","start_time":0.2,"end_time":0.5}]}
	]}`
	require.NoError(t, store.Put(ctx, "acme/annotations/launch_ad/shot.json", []byte(shotDoc), nil))
	require.NoError(t, store.Put(ctx, "acme/annotations/launch_ad/speech.json", []byte(speechDoc), nil))

	bundle, err := testGateway(t, store).Fetch(ctx, "acme", "launch_ad")
	require.NoError(t, err)

	require.Len(t, bundle.Shots, 2)
	assert.InDelta(t, 1.5, bundle.Shots[0].Segment.End, 1e-9)

	require.Len(t, bundle.Speech, 1)
	assert.Equal(t, "shop now at acme", bundle.Speech[0].Transcript)
	require.Len(t, bundle.Speech[0].Words, 1)
	assert.InDelta(t, 0.2, bundle.Speech[0].Words[0].Start, 1e-9)

	assert.Empty(t, bundle.Labels)
	assert.Empty(t, bundle.Faces)
}

func TestFetch_MissingChannelsYieldEmptyBundle(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")

	bundle, err := testGateway(t, store).Fetch(context.Background(), "acme", "launch_ad")
	require.NoError(t, err)
	assert.True(t, bundle.Empty())
}

func TestFetch_InvalidChannelIsDropped(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	ctx := context.Background()

	// missing the required transcript field
	badSpeech := `{"speech_transcriptions":[{"confidence":0.5}]}`
	goodShots := `{"shot_annotations":[{"segment":{"start_time_offset":0,"end_time_offset":2}}]}`
	require.NoError(t, store.Put(ctx, "acme/annotations/launch_ad/speech.json", []byte(badSpeech), nil))
	require.NoError(t, store.Put(ctx, "acme/annotations/launch_ad/shot.json", []byte(goodShots), nil))

	bundle, err := testGateway(t, store).Fetch(ctx, "acme", "launch_ad")
	require.NoError(t, err)

	assert.Empty(t, bundle.Speech, "invalid channel must be dropped")
	assert.Len(t, bundle.Shots, 1, "valid channels survive")
}

func TestSchemaValidator_UnknownChannel(t *testing.T) {
	validator, err := NewSchemaValidator()
	require.NoError(t, err)

	assert.Error(t, validator.Validate("subtitles", []byte(`{}`)))
}
