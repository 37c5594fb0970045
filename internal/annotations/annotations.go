// Package annotations fetches per-video annotation bundles from the
// object store. Channels are optional: a missing channel document yields
// an empty channel, never an error.
package annotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/storage"
	"github.com/vidlens/abcd/pkg/models"
)

// Gateway resolves the annotation bundle for one video.
type Gateway interface {
	Fetch(ctx context.Context, brand, videoStem string) (models.AnnotationBundle, error)
}

// StoreGateway reads annotation channel documents from
// {brand}/annotations/{video}/{channel}.json, validates them and caches
// assembled bundles in Redis.
type StoreGateway struct {
	store     storage.ObjectStore
	redis     *redis.Client
	cacheTTL  time.Duration
	validator *SchemaValidator
	logger    *logrus.Logger
}

func NewStoreGateway(store storage.ObjectStore, redisClient *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) (*StoreGateway, error) {
	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &StoreGateway{
		store:     store,
		redis:     redisClient,
		cacheTTL:  cacheTTL,
		validator: validator,
		logger:    logger,
	}, nil
}

func (g *StoreGateway) Fetch(ctx context.Context, brand, videoStem string) (models.AnnotationBundle, error) {
	cacheKey := fmt.Sprintf("annotations:%s:%s", brand, videoStem)

	if g.redis != nil {
		if cached, err := g.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var bundle models.AnnotationBundle
			if err := json.Unmarshal(cached, &bundle); err == nil {
				g.logger.WithField("video", videoStem).Debug("Annotation bundle cache hit")
				return bundle, nil
			}
		}
	}

	var bundle models.AnnotationBundle
	channels := []struct {
		name   string
		decode func([]byte) error
	}{
		{"label", func(b []byte) error { return decodeChannel(b, "label_annotations", &bundle.Labels) }},
		{"face", func(b []byte) error { return decodeChannel(b, "face_annotations", &bundle.Faces) }},
		{"people", func(b []byte) error { return decodeChannel(b, "people_annotations", &bundle.People) }},
		{"shot", func(b []byte) error { return decodeChannel(b, "shot_annotations", &bundle.Shots) }},
		{"text", func(b []byte) error { return decodeChannel(b, "text_annotations", &bundle.Texts) }},
		{"logo", func(b []byte) error { return decodeChannel(b, "logo_annotations", &bundle.Logos) }},
		{"speech", func(b []byte) error { return decodeChannel(b, "speech_transcriptions", &bundle.Speech) }},
	}

	for _, channel := range channels {
		name := fmt.Sprintf("%s/annotations/%s/%s.json", brand, videoStem, channel.name)
		document, err := g.store.Get(ctx, name)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return models.AnnotationBundle{}, fmt.Errorf("fetch %s annotations for %s: %w", channel.name, videoStem, err)
		}

		if err := g.validator.Validate(channel.name, document); err != nil {
			g.logger.WithFields(logrus.Fields{
				"video":   videoStem,
				"channel": channel.name,
			}).WithError(err).Warn("Dropping invalid annotation channel")
			continue
		}
		if err := channel.decode(document); err != nil {
			return models.AnnotationBundle{}, fmt.Errorf("decode %s annotations for %s: %w", channel.name, videoStem, err)
		}
	}

	if g.redis != nil {
		if data, err := json.Marshal(bundle); err == nil {
			if err := g.redis.Set(ctx, cacheKey, data, g.cacheTTL).Err(); err != nil {
				g.logger.WithError(err).Warn("Failed to cache annotation bundle")
			}
		}
	}

	return bundle, nil
}

func decodeChannel[T any](document []byte, key string, dst *[]T) error {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(document, &wrapper); err != nil {
		return err
	}
	raw, ok := wrapper[key]
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
