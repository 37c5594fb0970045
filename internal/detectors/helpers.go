package detectors

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/vidlens/abcd/internal/llm"
	"github.com/vidlens/abcd/pkg/models"
)

var folder = cases.Fold()

// foldContains reports whether needle occurs in haystack under Unicode
// case folding.
func foldContains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(folder.String(haystack), folder.String(needle))
}

// anyFoldContains reports whether any needle occurs in haystack.
func anyFoldContains(haystack string, needles []string) (bool, string) {
	for _, needle := range needles {
		if foldContains(haystack, needle) {
			return true, needle
		}
	}
	return false, ""
}

// fullTranscript joins all transcription alternatives into one string.
func fullTranscript(speech []models.SpeechTranscription) string {
	var b strings.Builder
	for _, t := range speech {
		if t.Transcript == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(t.Transcript)
	}
	return b.String()
}

// earlyTranscript joins the words spoken before the window boundary.
func earlyTranscript(speech []models.SpeechTranscription, windowSecs float64) string {
	var words []string
	for _, t := range speech {
		for _, w := range t.Words {
			if w.Start < windowSecs {
				words = append(words, w.Word)
			}
		}
	}
	return strings.Join(words, " ")
}

// findInTranscript reports whether any element occurs in the joined
// transcript. minLen filters out elements too short to be meaningful
// matches (single characters from OCR noise).
func findInTranscript(speech []models.SpeechTranscription, elements []string, minLen int) (bool, string) {
	transcript := fullTranscript(speech)
	if transcript == "" {
		return false, ""
	}
	for _, element := range elements {
		if len(strings.TrimSpace(element)) < minLen {
			continue
		}
		if foldContains(transcript, element) {
			return true, element
		}
	}
	return false, ""
}

// segmentsOverlapWindow reports whether any segment starts before the
// window boundary.
func segmentsOverlapWindow(segments []models.Segment, windowSecs float64) bool {
	for _, s := range segments {
		if s.Start < windowSecs {
			return true
		}
	}
	return false
}

func annotationEvidence(explanation string) models.Evidence {
	return models.Evidence{Source: "annotations", Explanation: explanation}
}

// judgeFeature asks the LLM judge about one feature and folds the verdict
// into the annotation-derived state. Judge errors degrade to the
// annotation result with the failure recorded as evidence; they never
// fail the detector.
func judgeFeature(ctx context.Context, opts Options, feature, prompt string, modality llm.Modality, detected bool, details []models.Evidence) (bool, []models.Evidence) {
	if !opts.UseLLMs || opts.Judge == nil {
		return detected, details
	}

	verdict, err := opts.Judge.Judge(ctx, feature, prompt, modality)
	if err != nil {
		opts.Logger.WithError(err).WithField("feature", feature).Warn("LLM judgment failed, keeping annotation result")
		details = append(details, models.Evidence{
			Source:      "llm",
			Prompt:      prompt,
			Explanation: fmt.Sprintf("LLM judgment unavailable: %v", err),
		})
		return detected, details
	}

	details = append(details, models.Evidence{
		Source:      "llm",
		Prompt:      prompt,
		Explanation: verdict.Explanation,
	})
	return detected || verdict.Detected, details
}

func videoModality(video models.VideoAsset) llm.Modality {
	return llm.Modality{Type: "video", VideoURI: video.URI}
}

func result(feature, description string, detected bool, video models.VideoAsset, details ...models.Evidence) models.FeatureResult {
	return models.FeatureResult{
		Feature:     feature,
		Description: description,
		Detected:    detected,
		VideoURI:    video.URI,
		Details:     details,
	}
}
