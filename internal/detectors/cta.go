package detectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/vidlens/abcd/internal/llm"
	"github.com/vidlens/abcd/pkg/models"
)

// builtinCallToActions is the stock phrase list every run matches against,
// merged with the brand's own phrases.
var builtinCallToActions = []string{
	"LEARN MORE",
	"GET QUOTE",
	"APPLY NOW",
	"SIGN UP",
	"CONTACT US",
	"SUBSCRIBE",
	"DOWNLOAD",
	"BOOK NOW",
	"SHOP NOW",
	"BUY NOW",
	"DONATE NOW",
	"ORDER NOW",
	"PLAY NOW",
	"SEE MORE",
	"START NOW",
	"VISIT SITE",
	"WATCH NOW",
}

func callToActions(criteria models.BrandCriteria) []string {
	out := make([]string, 0, len(builtinCallToActions)+len(criteria.BrandedCallToActions))
	out = append(out, builtinCallToActions...)
	out = append(out, criteria.BrandedCallToActions...)
	return out
}

// CTASpeechDetector checks for a call-to-action phrase in the audio.
type CTASpeechDetector struct {
	opts Options
}

func (d *CTASpeechDetector) Name() string { return "call_to_action_speech" }

func (d *CTASpeechDetector) Features() []string {
	return []string{FeatureCTASpeech}
}

func (d *CTASpeechDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "A 'Call To Action' phrase is heard or mentioned in the audio or speech at any time in the video."

	phrases := callToActions(in.Criteria)

	var detected bool
	var detail models.Evidence

	if d.opts.UseAnnotations && len(in.Bundle.Speech) > 0 {
		var match string
		detected, match = findInTranscript(in.Bundle.Speech, phrases, 0)
		if detected {
			detail = annotationEvidence(fmt.Sprintf("Call to action %q heard in speech", match))
		}
	}

	prompt := fmt.Sprintf("Is any call to action heard or mentioned in the speech of the video? "+
		"Some examples of call to actions are: %s. Provide the exact timestamp when one is heard.",
		strings.Join(phrases, ", "))
	detected, details := judgeFeature(ctx, d.opts, FeatureCTASpeech, prompt, videoModality(in.Video), detected, evidenceList(detail))

	// Annotations + LLM combination over the transcript as text.
	if d.opts.UseLLMs && d.opts.UseAnnotations {
		if transcript := fullTranscript(in.Bundle.Speech); transcript != "" {
			textPrompt := fmt.Sprintf("Does this speech transcript mention any call to action? Transcript: %q", transcript)
			detected, details = judgeFeature(ctx, d.opts, FeatureCTASpeech, textPrompt, llm.Modality{Type: "text"}, detected, details)
		}
	}

	return []models.FeatureResult{
		result(FeatureCTASpeech, description, detected, in.Video, details...),
	}, nil
}

// CTATextDetector checks for a call-to-action phrase in on-screen text.
type CTATextDetector struct {
	opts Options
}

func (d *CTATextDetector) Name() string { return "call_to_action_text" }

func (d *CTATextDetector) Features() []string {
	return []string{FeatureCTAText}
}

func (d *CTATextDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "A 'Call To Action' phrase is detected in the video supers (overlaid text) at any time in the video."

	phrases := callToActions(in.Criteria)

	var detected bool
	var detail models.Evidence

	if d.opts.UseAnnotations {
		for _, text := range in.Bundle.Texts {
			if found, phrase := anyFoldContains(text.Text, phrases); found {
				detected = true
				detail = annotationEvidence(fmt.Sprintf("Call to action %q in on-screen text", phrase))
				break
			}
		}
	}

	prompt := fmt.Sprintf("Is any call to action detected in any text overlay at any time in the video? "+
		"Some examples of call to actions are: %s. Provide the exact timestamp when one appears.",
		strings.Join(phrases, ", "))
	detected, details := judgeFeature(ctx, d.opts, FeatureCTAText, prompt, videoModality(in.Video), detected, evidenceList(detail))

	return []models.FeatureResult{
		result(FeatureCTAText, description, detected, in.Video, details...),
	}, nil
}
