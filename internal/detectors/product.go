package detectors

import (
	"context"
	"fmt"

	"github.com/vidlens/abcd/pkg/models"
)

// ProductVisualsDetector checks for branded products or their categories
// among the recognized labels. Product names are widened with knowledge
// graph entities when a lookup is configured; lookup failures keep the
// raw criteria.
type ProductVisualsDetector struct {
	opts Options
}

func (d *ProductVisualsDetector) Name() string { return "product_visuals" }

func (d *ProductVisualsDetector) Features() []string {
	return []string{FeatureProductVisuals, FeatureProductVisualsFirst5}
}

func (d *ProductVisualsDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "A branded product or branded product category is visible at any time in the video."
	const descriptionFirst5 = "A branded product or branded product category is visible in the first 5 seconds of the video."

	terms := d.expandedTerms(ctx, in.Criteria)
	window := d.opts.EarlyWindowSecs

	var overall, early bool
	var overallDetail, earlyDetail models.Evidence

	if d.opts.UseAnnotations {
		for _, label := range in.Bundle.Labels {
			if found, term := anyFoldContains(label.Description, terms); found {
				overall = true
				if overallDetail == (models.Evidence{}) {
					overallDetail = annotationEvidence(fmt.Sprintf("Label %q matches product %q", label.Description, term))
				}
				if segmentsOverlapWindow(label.Segments, window) && !early {
					early = true
					earlyDetail = annotationEvidence(fmt.Sprintf("Label %q matches product %q within the first %.0f seconds", label.Description, term, window))
				}
			}
		}
	}

	prompt := fmt.Sprintf("Are any of the branded products %v (or the categories %v) visible at any time in the video?",
		in.Criteria.BrandedProducts, in.Criteria.BrandedProductCategories)
	overall, overallDetails := judgeFeature(ctx, d.opts, FeatureProductVisuals, prompt, videoModality(in.Video), overall, evidenceList(overallDetail))
	early, earlyDetails := judgeFeature(ctx, d.opts, FeatureProductVisualsFirst5, prompt+" Consider only the first 5 seconds.", videoModality(in.Video), early, evidenceList(earlyDetail))

	return []models.FeatureResult{
		result(FeatureProductVisuals, description, overall, in.Video, overallDetails...),
		result(FeatureProductVisualsFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
	}, nil
}

func (d *ProductVisualsDetector) expandedTerms(ctx context.Context, criteria models.BrandCriteria) []string {
	terms := criteria.ProductsAndCategories()
	if d.opts.Entities == nil || len(criteria.BrandedProducts) == 0 {
		return terms
	}

	entities, err := d.opts.Entities.Entities(ctx, criteria.BrandedProducts)
	if err != nil {
		d.opts.Logger.WithError(err).Warn("Knowledge graph lookup failed, matching raw criteria only")
		return terms
	}
	for _, entity := range entities {
		if entity.Description != "" {
			terms = append(terms, entity.Description)
		}
	}
	return terms
}

// ProductTextDetector checks for branded products in on-screen text,
// overall and within the early window.
type ProductTextDetector struct {
	opts Options
}

func (d *ProductTextDetector) Name() string { return "product_mention_text" }

func (d *ProductTextDetector) Features() []string {
	return []string{FeatureProductText, FeatureProductTextFirst5}
}

func (d *ProductTextDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "A branded product or branded product category is mentioned in on-screen text at any time in the video."
	const descriptionFirst5 = "A branded product or branded product category is mentioned in on-screen text in the first 5 seconds of the video."

	terms := in.Criteria.ProductsAndCategories()
	window := d.opts.EarlyWindowSecs

	var overall, early bool
	var overallDetail, earlyDetail models.Evidence

	if d.opts.UseAnnotations {
		for _, text := range in.Bundle.Texts {
			if found, term := anyFoldContains(text.Text, terms); found {
				overall = true
				if overallDetail == (models.Evidence{}) {
					overallDetail = annotationEvidence(fmt.Sprintf("Product %q in on-screen text", term))
				}
				if segmentsOverlapWindow(text.Segments, window) && !early {
					early = true
					earlyDetail = annotationEvidence(fmt.Sprintf("Product %q in on-screen text within the first %.0f seconds", term, window))
				}
			}
		}
	}

	prompt := fmt.Sprintf("Are any of the branded products %v (or the categories %v) mentioned in text overlays of the video?",
		in.Criteria.BrandedProducts, in.Criteria.BrandedProductCategories)
	overall, overallDetails := judgeFeature(ctx, d.opts, FeatureProductText, prompt, videoModality(in.Video), overall, evidenceList(overallDetail))
	early, earlyDetails := judgeFeature(ctx, d.opts, FeatureProductTextFirst5, prompt+" Consider only the first 5 seconds.", videoModality(in.Video), early, evidenceList(earlyDetail))

	return []models.FeatureResult{
		result(FeatureProductText, description, overall, in.Video, overallDetails...),
		result(FeatureProductTextFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
	}, nil
}

// ProductSpeechDetector checks for branded products in the audio
// transcript, overall and within the early window.
type ProductSpeechDetector struct {
	opts Options
}

func (d *ProductSpeechDetector) Name() string { return "product_mention_speech" }

func (d *ProductSpeechDetector) Features() []string {
	return []string{FeatureProductSpeech, FeatureProductSpeechFirst5}
}

func (d *ProductSpeechDetector) Detect(ctx context.Context, in Input) ([]models.FeatureResult, error) {
	const description = "A branded product or branded product category is heard or mentioned at any time in the video."
	const descriptionFirst5 = "A branded product or branded product category is heard or mentioned in the first 5 seconds of the video."

	terms := in.Criteria.ProductsAndCategories()

	var overall, early bool
	var overallDetail, earlyDetail models.Evidence

	if d.opts.UseAnnotations && len(in.Bundle.Speech) > 0 {
		var match string
		overall, match = findInTranscript(in.Bundle.Speech, terms, 0)
		if overall {
			overallDetail = annotationEvidence(fmt.Sprintf("Product %q mentioned in speech", match))
		}
		if earlyText := earlyTranscript(in.Bundle.Speech, d.opts.EarlyWindowSecs); earlyText != "" {
			var term string
			early, term = anyFoldContains(earlyText, terms)
			if early {
				earlyDetail = annotationEvidence(fmt.Sprintf("Product %q mentioned within the first %.0f seconds", term, d.opts.EarlyWindowSecs))
			}
		}
	}

	prompt := fmt.Sprintf("Are any of the branded products %v (or the categories %v) heard or mentioned in the speech of the video?",
		in.Criteria.BrandedProducts, in.Criteria.BrandedProductCategories)
	overall, overallDetails := judgeFeature(ctx, d.opts, FeatureProductSpeech, prompt, videoModality(in.Video), overall, evidenceList(overallDetail))
	early, earlyDetails := judgeFeature(ctx, d.opts, FeatureProductSpeechFirst5, prompt+" Consider only the first 5 seconds.", videoModality(in.Video), early, evidenceList(earlyDetail))

	return []models.FeatureResult{
		result(FeatureProductSpeech, description, overall, in.Video, overallDetails...),
		result(FeatureProductSpeechFirst5, descriptionFirst5, early, in.Video, earlyDetails...),
	}, nil
}
