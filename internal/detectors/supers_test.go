package detectors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/pkg/models"
)

func TestSupersDetector(t *testing.T) {
	d := &SupersDetector{opts: annotationOptions()}

	tests := []struct {
		name          string
		bundle        models.AnnotationBundle
		wantSupers    bool
		wantWithAudio bool
	}{
		{
			name:   "no overlays",
			bundle: models.AnnotationBundle{},
		},
		{
			name: "overlay without matching speech",
			bundle: models.AnnotationBundle{
				Texts:  []models.TextAnnotation{{Text: "LIMITED TIME OFFER"}},
				Speech: []models.SpeechTranscription{{Transcript: "skate faster than ever"}},
			},
			wantSupers: true,
		},
		{
			name: "overlay spoken in audio",
			bundle: models.AnnotationBundle{
				Texts:  []models.TextAnnotation{{Text: "SHOP NOW"}},
				Speech: []models.SpeechTranscription{{Transcript: "visit our site and shop now"}},
			},
			wantSupers:    true,
			wantWithAudio: true,
		},
		{
			name: "short OCR fragments never match speech",
			bundle: models.AnnotationBundle{
				Texts:  []models.TextAnnotation{{Text: "a"}, {Text: "to"}},
				Speech: []models.SpeechTranscription{{Transcript: "a way to skate"}},
			},
			wantSupers: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := d.Detect(context.Background(), testInput(tt.bundle))
			require.NoError(t, err)
			require.Len(t, results, 2)
			assert.Equal(t, FeatureSupers, results[0].Feature)
			assert.Equal(t, tt.wantSupers, results[0].Detected)
			assert.Equal(t, FeatureSupersWithAudio, results[1].Feature)
			assert.Equal(t, tt.wantWithAudio, results[1].Detected)
		})
	}
}
