package detectors

import (
	"context"
	"fmt"

	"github.com/vidlens/abcd/internal/llm"
	"github.com/vidlens/abcd/pkg/models"
)

// minSuperLength filters out single-character OCR fragments when
// correlating supers against speech.
const minSuperLength = 3

// SupersDetector checks for text overlays and for speech that matches or
// supports them. One pass over the text channel feeds both results.
type SupersDetector struct {
	opts Options
}

func (d *SupersDetector) Name() string { return "supers" }

func (d *SupersDetector) Features() []string {
	return []string{FeatureSupers, FeatureSupersWithAudio}
}

func (d *SupersDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const supersDescription = "Any supers (text overlays) have been incorporated at any time in the video."
	const withAudioDescription = "The speech heard in the audio of the video matches or is contextually supportive of the overlaid text shown on screen."

	var supers, withAudio bool
	var supersDetail, withAudioDetail models.Evidence

	if d.opts.UseAnnotations {
		supers = len(in.Bundle.Texts) > 0
		if supers {
			supersDetail = annotationEvidence(fmt.Sprintf("%d text overlays detected", len(in.Bundle.Texts)))
		}

		if supers && len(in.Bundle.Speech) > 0 {
			overlays := make([]string, 0, len(in.Bundle.Texts))
			for _, t := range in.Bundle.Texts {
				overlays = append(overlays, t.Text)
			}
			var match string
			withAudio, match = findInTranscript(in.Bundle.Speech, overlays, minSuperLength)
			if withAudio {
				withAudioDetail = annotationEvidence(fmt.Sprintf("Overlay %q spoken in audio", match))
			}
		}
	}

	supersPrompt := "Are there any supers (text overlays) at any time in the video? " +
		"Provide the exact timestamp where supers are found as well as the list of supers."
	supers, supersDetails := judgeFeature(ctx, d.opts, FeatureSupers, supersPrompt, videoModality(in.Video), supers, evidenceList(supersDetail))

	withAudioPrompt := "Does the speech match any supers (text overlays) in the video, or is the speech " +
		"contextually supportive of the overlaid text shown on screen? Provide matching timestamps."
	withAudio, withAudioDetails := judgeFeature(ctx, d.opts, FeatureSupersWithAudio, withAudioPrompt, videoModality(in.Video), withAudio, evidenceList(withAudioDetail))

	// Annotations + LLM combination: when a transcript exists, judge it as
	// text to catch contextual matches the literal scan misses.
	if d.opts.UseLLMs && d.opts.UseAnnotations {
		if transcript := fullTranscript(in.Bundle.Speech); transcript != "" {
			prompt := fmt.Sprintf("Does this speech transcript match or contextually support the supers in the video? Transcript: %q", transcript)
			withAudio, withAudioDetails = judgeFeature(ctx, d.opts, FeatureSupersWithAudio, prompt, llm.Modality{Type: "text"}, withAudio, withAudioDetails)
		}
	}

	return []models.FeatureResult{
		result(FeatureSupers, supersDescription, supers, in.Video, supersDetails...),
		result(FeatureSupersWithAudio, withAudioDescription, withAudio, in.Video, withAudioDetails...),
	}, nil
}
