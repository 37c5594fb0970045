package trim

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/storage"
	"github.com/vidlens/abcd/pkg/models"
)

// fakeTranscoder copies the input file, optionally failing.
type fakeTranscoder struct {
	calls atomic.Int32
	fail  bool
}

func (f *fakeTranscoder) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	f.calls.Add(1)
	if f.fail {
		return ErrDecodeFailed
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testVideo(t *testing.T) models.VideoAsset {
	t.Helper()
	video, err := models.ParseVideoAsset("acme/videos/launch_ad.mp4", 1024, "creative-assets")
	require.NoError(t, err)
	return video
}

func TestEnsurePreviewClip_CreatesOnMiss(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	ctx := context.Background()
	video := testVideo(t)
	require.NoError(t, store.Put(ctx, video.Name, []byte("source-bytes"), nil))

	transcoder := &fakeTranscoder{}
	manager := NewManager(store, transcoder, t.TempDir(), 0, 5, testLogger())

	preview, err := manager.EnsurePreviewClip(ctx, video)
	require.NoError(t, err)

	assert.Equal(t, "acme/videos/launch_ad_1st_5_secs.mp4", preview.Name)
	assert.Equal(t, "launch_ad_1st_5_secs", preview.Stem)
	assert.Equal(t, "gs://creative-assets/acme/videos/launch_ad_1st_5_secs.mp4", preview.URI)
	assert.Equal(t, int32(1), transcoder.calls.Load())

	clip, err := store.Get(ctx, preview.Name)
	require.NoError(t, err)
	assert.Equal(t, []byte("source-bytes"), clip)
}

func TestEnsurePreviewClip_Idempotent(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	ctx := context.Background()
	video := testVideo(t)
	require.NoError(t, store.Put(ctx, video.Name, []byte("source-bytes"), nil))

	transcoder := &fakeTranscoder{}
	manager := NewManager(store, transcoder, t.TempDir(), 0, 5, testLogger())

	_, err := manager.EnsurePreviewClip(ctx, video)
	require.NoError(t, err)
	_, err = manager.EnsurePreviewClip(ctx, video)
	require.NoError(t, err)

	assert.Equal(t, int32(1), transcoder.calls.Load(), "cache hit must skip the transcoder")
	assert.Equal(t, 2, store.Len(), "source plus exactly one preview clip")
}

func TestEnsurePreviewClip_ConcurrentFill(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	ctx := context.Background()
	video := testVideo(t)
	require.NoError(t, store.Put(ctx, video.Name, []byte("source-bytes"), nil))

	transcoder := &fakeTranscoder{}
	manager := NewManager(store, transcoder, t.TempDir(), 0, 5, testLogger())

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = manager.EnsurePreviewClip(ctx, video)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err, "losing the upload race is not an error")
	}
	assert.Equal(t, 2, store.Len())
}

func TestEnsurePreviewClip_DecodeFailure(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	ctx := context.Background()
	video := testVideo(t)
	require.NoError(t, store.Put(ctx, video.Name, []byte("not-a-video"), nil))

	manager := NewManager(store, &fakeTranscoder{fail: true}, t.TempDir(), 0, 5, testLogger())

	_, err := manager.EnsurePreviewClip(ctx, video)
	assert.ErrorIs(t, err, ErrDecodeFailed)
	assert.Equal(t, 1, store.Len(), "no preview uploaded on failure")
}

func TestEnsurePreviewClip_MissingSource(t *testing.T) {
	store := storage.NewMemoryStore("creative-assets")
	manager := NewManager(store, &fakeTranscoder{}, t.TempDir(), 0, 5, testLogger())

	_, err := manager.EnsurePreviewClip(context.Background(), testVideo(t))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
