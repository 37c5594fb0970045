// Package trim materializes the derived 5-second preview clip for each
// source video exactly once, using the object store as the cache.
package trim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/storage"
	"github.com/vidlens/abcd/pkg/models"
)

// ErrDecodeFailed marks a source video the transcoder could not decode.
// Fatal for the video, not for the brand run.
var ErrDecodeFailed = errors.New("video decode failed")

// Manager implements the trim cache: derive the preview name, check the
// store, and only on a miss download, trim and upload.
type Manager struct {
	store      storage.ObjectStore
	transcoder Transcoder
	stagingDir string
	start, end float64
	logger     *logrus.Logger
}

func NewManager(store storage.ObjectStore, transcoder Transcoder, stagingDir string, start, end float64, logger *logrus.Logger) *Manager {
	return &Manager{
		store:      store,
		transcoder: transcoder,
		stagingDir: stagingDir,
		start:      start,
		end:        end,
		logger:     logger,
	}
}

// EnsurePreviewClip returns the preview VideoAsset for the source video,
// creating it if the store does not hold it yet. The existence check makes
// repeated calls side-effect free; the conditional upload makes the
// check-then-act sequence safe to race across workers.
func (m *Manager) EnsurePreviewClip(ctx context.Context, video models.VideoAsset) (models.VideoAsset, error) {
	previewName := video.PreviewName()

	desc, err := m.store.Metadata(ctx, previewName)
	if err == nil {
		m.logger.WithField("video", video.Name).Debug("Preview clip already exists, skipping trim")
		return m.previewAsset(video, desc.Size)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.VideoAsset{}, fmt.Errorf("check preview clip %q: %w", previewName, err)
	}

	stagingDir, err := os.MkdirTemp(m.stagingDir, "trim-*")
	if err != nil {
		return models.VideoAsset{}, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	data, err := m.store.Get(ctx, video.Name)
	if err != nil {
		return models.VideoAsset{}, fmt.Errorf("fetch source video %q: %w", video.Name, err)
	}

	sourcePath := filepath.Join(stagingDir, video.FileName)
	if err := os.WriteFile(sourcePath, data, 0o644); err != nil {
		return models.VideoAsset{}, fmt.Errorf("stage source video: %w", err)
	}

	previewPath := filepath.Join(stagingDir, video.PreviewFileName())
	if err := m.transcoder.Trim(ctx, sourcePath, previewPath, m.start, m.end); err != nil {
		return models.VideoAsset{}, err
	}

	clip, err := os.ReadFile(previewPath)
	if err != nil {
		return models.VideoAsset{}, fmt.Errorf("read trimmed clip: %w", err)
	}

	// Conditional write: if another worker materialized the clip while we
	// were trimming, keep theirs. Content is derived and reproducible, so
	// either copy is correct.
	err = m.store.Put(ctx, previewName, clip, &storage.Precondition{DoesNotExist: true})
	if err != nil && !errors.Is(err, storage.ErrPreconditionFailed) {
		return models.VideoAsset{}, fmt.Errorf("upload preview clip %q: %w", previewName, err)
	}
	if errors.Is(err, storage.ErrPreconditionFailed) {
		m.logger.WithField("preview", previewName).Debug("Lost preview upload race, using existing clip")
	} else {
		m.logger.WithFields(logrus.Fields{
			"video":   video.Name,
			"preview": previewName,
			"bytes":   len(clip),
		}).Info("Preview clip created")
	}

	return m.previewAsset(video, int64(len(clip)))
}

func (m *Manager) previewAsset(video models.VideoAsset, size int64) (models.VideoAsset, error) {
	preview := video
	preview.Name = video.PreviewName()
	preview.FileName = video.PreviewFileName()
	preview.Stem = fmt.Sprintf("%s_%s", video.Stem, models.PreviewSuffix)
	preview.Size = size
	preview.URI = fmt.Sprintf("gs://%s", preview.Name)
	if idx := len(video.URI) - len(video.Name); idx > 0 {
		preview.URI = video.URI[:idx] + preview.Name
	}
	return preview, nil
}
