package detectors

import (
	"context"
	"fmt"

	"github.com/vidlens/abcd/pkg/models"
)

// VisibleFaceDetector checks for a face in the early window and for a
// close-up anywhere in the video. One pass over the face channel feeds
// both results.
type VisibleFaceDetector struct {
	opts Options
}

func (d *VisibleFaceDetector) Name() string { return "visible_face" }

func (d *VisibleFaceDetector) Features() []string {
	return []string{FeatureVisibleFaceFirst5, FeatureVisibleFaceCloseUp}
}

func (d *VisibleFaceDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const descriptionFirst5 = "At least one human face is visible in the first 5 seconds of the video."
	const descriptionCloseUp = "At least one human face appears in close-up at any time in the video."

	window := d.opts.EarlyWindowSecs

	var early, closeUp bool
	var earlyDetail, closeUpDetail models.Evidence

	if d.opts.UseAnnotations {
		for _, face := range in.Bundle.Faces {
			for _, track := range face.Tracks {
				if track.Segment.Start < window && !early {
					early = true
					earlyDetail = annotationEvidence(fmt.Sprintf("Face visible at %.2fs", track.Segment.Start))
				}
				if track.BoxArea >= d.opts.CloseUpMinBoxArea && !closeUp {
					closeUp = true
					closeUpDetail = annotationEvidence(fmt.Sprintf("Face box covers %.0f%% of the frame at %.2fs", track.BoxArea*100, track.Segment.Start))
				}
			}
		}
	}

	earlyPrompt := "Is any human face visible in the first 5 seconds of the video?"
	early, earlyDetails := judgeFeature(ctx, d.opts, FeatureVisibleFaceFirst5, earlyPrompt, videoModality(in.Video), early, evidenceList(earlyDetail))

	closeUpPrompt := "Is any human face shown in close-up at any time in the video?"
	closeUp, closeUpDetails := judgeFeature(ctx, d.opts, FeatureVisibleFaceCloseUp, closeUpPrompt, videoModality(in.Video), closeUp, evidenceList(closeUpDetail))

	return []models.FeatureResult{
		result(FeatureVisibleFaceFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
		result(FeatureVisibleFaceCloseUp, descriptionCloseUp, closeUp, in.Video, closeUpDetails...),
	}, nil
}

// PeopleDetector checks for the presence of people, overall and within
// the early window.
type PeopleDetector struct {
	opts Options
}

func (d *PeopleDetector) Name() string { return "presence_of_people" }

func (d *PeopleDetector) Features() []string {
	return []string{FeaturePeople, FeaturePeopleFirst5}
}

func (d *PeopleDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "People are present at any time in the video."
	const descriptionFirst5 = "People are present in the first 5 seconds of the video."

	window := d.opts.EarlyWindowSecs

	var overall, early bool
	var overallDetail, earlyDetail models.Evidence

	if d.opts.UseAnnotations {
		for _, person := range in.Bundle.People {
			if len(person.Tracks) == 0 {
				continue
			}
			overall = true
			if overallDetail == (models.Evidence{}) {
				overallDetail = annotationEvidence(fmt.Sprintf("%d people tracked", len(in.Bundle.People)))
			}
			if segmentsOverlapWindow(person.Tracks, window) && !early {
				early = true
				earlyDetail = annotationEvidence(fmt.Sprintf("Person visible within the first %.0f seconds", window))
			}
		}
	}

	prompt := "Are any people present at any time in the video?"
	overall, overallDetails := judgeFeature(ctx, d.opts, FeaturePeople, prompt, videoModality(in.Video), overall, evidenceList(overallDetail))
	early, earlyDetails := judgeFeature(ctx, d.opts, FeaturePeopleFirst5, prompt+" Consider only the first 5 seconds.", videoModality(in.Video), early, evidenceList(earlyDetail))

	return []models.FeatureResult{
		result(FeaturePeople, description, overall, in.Video, overallDetails...),
		result(FeaturePeopleFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
	}, nil
}

// AudioEarlyDetector checks that speech starts within the early window.
type AudioEarlyDetector struct {
	opts Options
}

func (d *AudioEarlyDetector) Name() string { return "audio_speech_early" }

func (d *AudioEarlyDetector) Features() []string {
	return []string{FeatureAudioEarly}
}

func (d *AudioEarlyDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "Speech is heard within the first 5 seconds of the video."

	var detected bool
	var detail models.Evidence

	if d.opts.UseAnnotations {
		for _, t := range in.Bundle.Speech {
			for _, w := range t.Words {
				if w.Start < d.opts.EarlyWindowSecs {
					detected = true
					detail = annotationEvidence(fmt.Sprintf("Speech starts at %.2fs (%q)", w.Start, w.Word))
					break
				}
			}
			if detected {
				break
			}
		}
	}

	prompt := "Is any speech heard in the first 5 seconds of the video?"
	detected, details := judgeFeature(ctx, d.opts, FeatureAudioEarly, prompt, videoModality(in.Video), detected, evidenceList(detail))

	return []models.FeatureResult{
		result(FeatureAudioEarly, description, detected, in.Video, details...),
	}, nil
}
