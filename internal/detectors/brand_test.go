package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/pkg/models"
)

func TestBrandVisualsDetector_TextMatch(t *testing.T) {
	d := &BrandVisualsDetector{opts: annotationOptions()}

	bundle := models.AnnotationBundle{
		Texts: []models.TextAnnotation{
			{Text: "Brought to you by ACME CORP", Segments: []models.Segment{{Start: 12, End: 14}}},
		},
	}
	results, err := d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Detected, "late text counts overall")
	assert.False(t, results[1].Detected, "late text misses the early window")

	bundle.Texts[0].Segments[0] = models.Segment{Start: 1, End: 3}
	results, err = d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	assert.True(t, results[0].Detected)
	assert.True(t, results[1].Detected, "early text counts for the first 5 seconds")
}

func TestBrandVisualsDetector_LogoMatch(t *testing.T) {
	d := &BrandVisualsDetector{opts: annotationOptions()}

	bundle := models.AnnotationBundle{
		Logos: []models.LogoAnnotation{
			{
				Description: "Acme",
				Tracks: []models.LogoTrack{
					{Segment: models.Segment{Start: 2, End: 4}, BoxArea: 0.4},
				},
			},
		},
	}
	results, err := d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	assert.True(t, results[0].Detected)
	assert.True(t, results[1].Detected)
	assert.Contains(t, results[1].Explanation(), "large on screen",
		"a dominant early logo is called out in the evidence")
}

func TestBrandVisualsDetector_UnrelatedBrandIgnored(t *testing.T) {
	d := &BrandVisualsDetector{opts: annotationOptions()}

	bundle := models.AnnotationBundle{
		Texts: []models.TextAnnotation{
			{Text: "Globex Industries", Segments: []models.Segment{{Start: 0, End: 2}}},
		},
		Logos: []models.LogoAnnotation{
			{Description: "Globex", Tracks: []models.LogoTrack{{Segment: models.Segment{Start: 0, End: 2}}}},
		},
	}
	results, err := d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	assert.False(t, results[0].Detected)
	assert.False(t, results[1].Detected)
}

func TestBrandSpeechDetector(t *testing.T) {
	d := &BrandSpeechDetector{opts: annotationOptions()}

	bundle := models.AnnotationBundle{
		Speech: []models.SpeechTranscription{
			{
				Transcript: "welcome to acme the home of rocket skates",
				Words: []models.WordInfo{
					{Word: "welcome", Start: 0.2, End: 0.5},
					{Word: "to", Start: 0.5, End: 0.6},
					{Word: "acme", Start: 0.6, End: 1.0},
				},
			},
		},
	}
	results, err := d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Detected, "case-folded transcript match")
	assert.True(t, results[1].Detected, "brand word starts before 5s")

	// Same transcript but the brand word is spoken late.
	bundle.Speech[0].Words[2].Start = 9.5
	results, err = d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	assert.True(t, results[0].Detected)
	assert.False(t, results[1].Detected, "late mention misses the early window")
}

func TestBrandSpeechDetector_VariationMatches(t *testing.T) {
	d := &BrandSpeechDetector{opts: annotationOptions()}

	bundle := models.AnnotationBundle{
		Speech: []models.SpeechTranscription{
			{Transcript: "proudly made by acme corp"},
		},
	}
	results, err := d.Detect(context.Background(), testInput(bundle))
	require.NoError(t, err)
	assert.True(t, results[0].Detected)
}
