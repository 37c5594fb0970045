package detectors

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/pkg/models"
)

func annotationOptions() Options {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return Options{
		UseAnnotations:      true,
		EarlyWindowSecs:     5,
		AvgShotDurationSecs: 2,
		QuickPacingMinShots: 5,
		DynamicStartMaxSecs: 3,
		CloseUpMinBoxArea:   0.15,
		Logger:              logger,
	}
}

func testInput(bundle models.AnnotationBundle) Input {
	return Input{
		Bundle: bundle,
		Video:  models.VideoAsset{Name: "acme/videos/ad.mp4", URI: "gs://creative-assets/acme/videos/ad.mp4"},
		Criteria: models.BrandCriteria{
			BrandName:                "Acme",
			BrandVariations:          []string{"ACME Corp"},
			BrandedProducts:          []string{"Rocket Skates"},
			BrandedProductCategories: []string{"footwear"},
		},
	}
}

func TestCatalogue_ShapeIsFixed(t *testing.T) {
	catalogue := Catalogue(annotationOptions())
	require.Len(t, catalogue, 14)

	total := 0
	seen := make(map[string]bool)
	for _, d := range catalogue {
		names := d.Features()
		assert.NotEmpty(t, d.Name())
		require.True(t, len(names) == 1 || len(names) == 2,
			"detector %s emits %d features", d.Name(), len(names))
		for _, name := range names {
			assert.False(t, seen[name], "duplicate feature name %q", name)
			seen[name] = true
		}
		total += len(names)
	}
	assert.Equal(t, 23, total)
}

func TestCatalogue_EmptyBundleDetectsNothing(t *testing.T) {
	catalogue := Catalogue(annotationOptions())
	in := testInput(models.AnnotationBundle{})

	for _, d := range catalogue {
		results, err := d.Detect(context.Background(), in)
		require.NoError(t, err, d.Name())
		require.Len(t, results, len(d.Features()), d.Name())
		for i, fr := range results {
			assert.Equal(t, d.Features()[i], fr.Feature)
			assert.False(t, fr.Detected, "%s must not detect on an empty bundle", fr.Feature)
		}
	}
}

func TestUndetectedResults(t *testing.T) {
	catalogue := Catalogue(annotationOptions())
	video := models.VideoAsset{URI: "gs://creative-assets/acme/videos/ad.mp4"}

	for _, d := range catalogue {
		results := UndetectedResults(d, video, "Detector timed out after 30s")
		require.Len(t, results, len(d.Features()))
		for i, fr := range results {
			assert.Equal(t, d.Features()[i], fr.Feature)
			assert.False(t, fr.Detected)
			assert.Equal(t, "Detector timed out after 30s", fr.Explanation())
		}
	}
}
