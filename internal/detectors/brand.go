package detectors

import (
	"context"
	"fmt"

	"github.com/vidlens/abcd/pkg/models"
)

// BrandVisualsDetector checks for the brand name or logo on screen,
// overall and within the early window. A logo that dominates the frame
// in the early window strengthens the first-5-seconds evidence.
type BrandVisualsDetector struct {
	opts Options
}

func (d *BrandVisualsDetector) Name() string { return "brand_visuals" }

func (d *BrandVisualsDetector) Features() []string {
	return []string{FeatureBrandVisuals, FeatureBrandVisualsFirst5}
}

func (d *BrandVisualsDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "The brand name or logo is visible at any time in the video."
	const descriptionFirst5 = "The brand name or logo is visible in the first 5 seconds of the video."

	names := in.Criteria.NameAndVariations()
	window := d.opts.EarlyWindowSecs

	var overall, early bool
	var overallDetail, earlyDetail models.Evidence

	if d.opts.UseAnnotations {
		for _, text := range in.Bundle.Texts {
			if found, name := anyFoldContains(text.Text, names); found {
				overall = true
				overallDetail = annotationEvidence(fmt.Sprintf("Brand %q in on-screen text", name))
				if segmentsOverlapWindow(text.Segments, window) {
					early = true
					earlyDetail = annotationEvidence(fmt.Sprintf("Brand %q in on-screen text within the first %.0f seconds", name, window))
				}
			}
		}
		for _, logo := range in.Bundle.Logos {
			if found, name := anyFoldContains(logo.Description, names); found {
				overall = true
				if overallDetail == (models.Evidence{}) {
					overallDetail = annotationEvidence(fmt.Sprintf("Logo %q detected", name))
				}
				for _, track := range logo.Tracks {
					if track.Segment.Start < window {
						early = true
						explanation := fmt.Sprintf("Logo %q within the first %.0f seconds", name, window)
						if track.BoxArea >= d.opts.CloseUpMinBoxArea {
							explanation = fmt.Sprintf("Logo %q large on screen within the first %.0f seconds", name, window)
						}
						earlyDetail = annotationEvidence(explanation)
					}
				}
			}
		}
	}

	prompt := fmt.Sprintf("Is the brand %q (or any of its variations) shown on screen, as text or logo, at any time in the video?", in.Criteria.BrandName)
	overall, overallDetails := judgeFeature(ctx, d.opts, FeatureBrandVisuals, prompt, videoModality(in.Video), overall, evidenceList(overallDetail))
	early, earlyDetails := judgeFeature(ctx, d.opts, FeatureBrandVisualsFirst5, prompt+" Consider only the first 5 seconds.", videoModality(in.Video), early, evidenceList(earlyDetail))

	return []models.FeatureResult{
		result(FeatureBrandVisuals, description, overall, in.Video, overallDetails...),
		result(FeatureBrandVisualsFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
	}, nil
}

// BrandSpeechDetector checks for the brand name in the audio transcript,
// overall and within the early window.
type BrandSpeechDetector struct {
	opts Options
}

func (d *BrandSpeechDetector) Name() string { return "brand_mention_speech" }

func (d *BrandSpeechDetector) Features() []string {
	return []string{FeatureBrandSpeech, FeatureBrandSpeechFirst5}
}

func (d *BrandSpeechDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "The brand name is heard or mentioned at any time in the video."
	const descriptionFirst5 = "The brand name is heard or mentioned in the first 5 seconds of the video."

	names := in.Criteria.NameAndVariations()

	var overall, early bool
	var overallDetail, earlyDetail models.Evidence

	if d.opts.UseAnnotations && len(in.Bundle.Speech) > 0 {
		var match string
		overall, match = findInTranscript(in.Bundle.Speech, names, 0)
		if overall {
			overallDetail = annotationEvidence(fmt.Sprintf("Brand %q mentioned in speech", match))
		}
		if earlyText := earlyTranscript(in.Bundle.Speech, d.opts.EarlyWindowSecs); earlyText != "" {
			var name string
			early, name = anyFoldContains(earlyText, names)
			if early {
				earlyDetail = annotationEvidence(fmt.Sprintf("Brand %q mentioned within the first %.0f seconds", name, d.opts.EarlyWindowSecs))
			}
		}
	}

	prompt := fmt.Sprintf("Is the brand %q (or any of its variations) heard or mentioned in the speech of the video?", in.Criteria.BrandName)
	overall, overallDetails := judgeFeature(ctx, d.opts, FeatureBrandSpeech, prompt, videoModality(in.Video), overall, evidenceList(overallDetail))
	early, earlyDetails := judgeFeature(ctx, d.opts, FeatureBrandSpeechFirst5, prompt+" Consider only the first 5 seconds.", videoModality(in.Video), early, evidenceList(earlyDetail))

	return []models.FeatureResult{
		result(FeatureBrandSpeech, description, overall, in.Video, overallDetails...),
		result(FeatureBrandSpeechFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
	}, nil
}
