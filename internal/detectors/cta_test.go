package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/pkg/models"
)

func TestCTATextDetector_BuiltinPhrase(t *testing.T) {
	d := &CTATextDetector{opts: annotationOptions()}

	bundle := models.AnnotationBundle{
		Texts: []models.TextAnnotation{{Text: "Shop Now at acme.example"}},
	}
	results, err := d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Detected, "builtin phrases match under case folding")
	assert.Contains(t, results[0].Explanation(), "SHOP NOW")
}

func TestCTATextDetector_BrandedPhrase(t *testing.T) {
	d := &CTATextDetector{opts: annotationOptions()}

	in := testInput(models.AnnotationBundle{
		Texts: []models.TextAnnotation{{Text: "Strap in today"}},
	})
	results, err := d.Detect(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, results[0].Detected, "custom phrase absent from criteria")

	in.Criteria.BrandedCallToActions = []string{"STRAP IN"}
	results, err = d.Detect(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, results[0].Detected, "brand-supplied phrases extend the builtin list")
}

func TestCTASpeechDetector(t *testing.T) {
	d := &CTASpeechDetector{opts: annotationOptions()}

	bundle := models.AnnotationBundle{
		Speech: []models.SpeechTranscription{
			{Transcript: "don't wait, order now while supplies last"},
		},
	}
	results, err := d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Detected)

	bundle.Speech[0].Transcript = "our skates roll themselves"
	results, err = d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	assert.False(t, results[0].Detected)
}
