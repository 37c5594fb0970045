package detectors

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/vidlens/abcd/pkg/models"
)

// QuickPacingDetector checks for rapid shot turnover, overall and within
// the early window.
type QuickPacingDetector struct {
	opts Options
}

func (d *QuickPacingDetector) Name() string { return "quick_pacing" }

func (d *QuickPacingDetector) Features() []string {
	return []string{FeatureQuickPacing, FeatureQuickPacingFirst5}
}

func (d *QuickPacingDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "At least " +
		"5 shot changes happen within any 5 consecutive seconds of the video."
	const descriptionFirst5 = "At least 5 shot changes happen within the first 5 seconds of the video."

	var overall, early bool
	var overallDetail, earlyDetail models.Evidence

	if d.opts.UseAnnotations && len(in.Bundle.Shots) > 0 {
		window := d.opts.EarlyWindowSecs
		maxInWindow := 0
		for _, shot := range in.Bundle.Shots {
			n := countShotsInWindow(in.Bundle.Shots, shot.Segment.Start, shot.Segment.Start+window)
			if n > maxInWindow {
				maxInWindow = n
			}
		}
		overall = maxInWindow >= d.opts.QuickPacingMinShots
		early = countShotsInWindow(in.Bundle.Shots, 0, window) >= d.opts.QuickPacingMinShots
		overallDetail = annotationEvidence(fmt.Sprintf("Max %d shots in any %.0fs window", maxInWindow, window))
		earlyDetail = annotationEvidence(fmt.Sprintf("%d shots in the first %.0f seconds", countShotsInWindow(in.Bundle.Shots, 0, window), window))
	}

	prompt := "Is the video fast paced, with multiple shot changes in quick succession? " +
		"Provide the timestamps of the shot changes you observe."
	overall, overallDetails := judgeFeature(ctx, d.opts, FeatureQuickPacing, prompt, videoModality(in.Video), overall, evidenceList(overallDetail))
	early, earlyDetails := judgeFeature(ctx, d.opts, FeatureQuickPacingFirst5, prompt+" Consider only the first 5 seconds.", videoModality(in.Video), early, evidenceList(earlyDetail))

	return []models.FeatureResult{
		result(FeatureQuickPacing, description, overall, in.Video, overallDetails...),
		result(FeatureQuickPacingFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
	}, nil
}

// DynamicStartDetector checks that the opening shot cuts away quickly.
type DynamicStartDetector struct {
	opts Options
}

func (d *DynamicStartDetector) Name() string { return "dynamic_start" }

func (d *DynamicStartDetector) Features() []string {
	return []string{FeatureDynamicStart}
}

func (d *DynamicStartDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "The first shot of the video ends quickly enough that the opening feels dynamic."

	var detected bool
	var detail models.Evidence

	if d.opts.UseAnnotations && len(in.Bundle.Shots) > 0 {
		first := in.Bundle.Shots[0].Segment
		detected = first.Duration() <= d.opts.DynamicStartMaxSecs
		detail = annotationEvidence(fmt.Sprintf("First shot lasts %.2fs", first.Duration()))
	}

	prompt := "Does the video open dynamically, with the first shot changing within the first few seconds?"
	detected, details := judgeFeature(ctx, d.opts, FeatureDynamicStart, prompt, videoModality(in.Video), detected, evidenceList(detail))

	return []models.FeatureResult{
		result(FeatureDynamicStart, description, detected, in.Video, details...),
	}, nil
}

// OverallPacingDetector checks the mean shot duration against the pacing
// threshold.
type OverallPacingDetector struct {
	opts Options
}

func (d *OverallPacingDetector) Name() string { return "overall_pacing" }

func (d *OverallPacingDetector) Features() []string {
	return []string{FeatureOverallPacing}
}

func (d *OverallPacingDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	description := fmt.Sprintf("The average shot of the video lasts at most %.0f seconds.", d.opts.AvgShotDurationSecs)

	var detected bool
	var detail models.Evidence

	if d.opts.UseAnnotations && len(in.Bundle.Shots) > 0 {
		durations := make([]float64, 0, len(in.Bundle.Shots))
		for _, shot := range in.Bundle.Shots {
			durations = append(durations, shot.Segment.Duration())
		}
		avg := stat.Mean(durations, nil)
		detected = avg <= d.opts.AvgShotDurationSecs
		detail = annotationEvidence(fmt.Sprintf("Average shot duration %.2fs over %d shots", avg, len(durations)))
	}

	prompt := fmt.Sprintf("Is the overall pace of the video faster than %.0f seconds per shot?", d.opts.AvgShotDurationSecs)
	detected, details := judgeFeature(ctx, d.opts, FeatureOverallPacing, prompt, videoModality(in.Video), detected, evidenceList(detail))

	return []models.FeatureResult{
		result(FeatureOverallPacing, description, detected, in.Video, details...),
	}, nil
}

func countShotsInWindow(shots []models.ShotAnnotation, from, to float64) int {
	n := 0
	for _, shot := range shots {
		if shot.Segment.Start >= from && shot.Segment.Start < to {
			n++
		}
	}
	return n
}

func evidenceList(e models.Evidence) []models.Evidence {
	if e == (models.Evidence{}) {
		return nil
	}
	return []models.Evidence{e}
}
