// Package detectors holds the ABCD feature catalogue: independent checks
// over a video's annotation bundle, each optionally corroborated by the
// LLM judge. Detectors never observe each other's output.
package detectors

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/knowledge"
	"github.com/vidlens/abcd/internal/llm"
	"github.com/vidlens/abcd/pkg/models"
)

// Feature names, fixed catalogue-wide. Renderers derive column identity
// from the names observed in results, so these strings are part of the
// output contract.
const (
	FeatureQuickPacing          = "Quick Pacing"
	FeatureQuickPacingFirst5    = "Quick Pacing (First 5 seconds)"
	FeatureDynamicStart         = "Dynamic Start"
	FeatureSupers               = "Supers"
	FeatureSupersWithAudio      = "Supers with Audio"
	FeatureBrandVisuals         = "Brand Visuals"
	FeatureBrandVisualsFirst5   = "Brand Visuals (First 5 seconds)"
	FeatureBrandSpeech          = "Brand Mention (Speech)"
	FeatureBrandSpeechFirst5    = "Brand Mention (Speech) (First 5 seconds)"
	FeatureProductVisuals       = "Product Visuals"
	FeatureProductVisualsFirst5 = "Product Visuals (First 5 seconds)"
	FeatureProductText          = "Product Mention (Text)"
	FeatureProductTextFirst5    = "Product Mention (Text) (First 5 seconds)"
	FeatureProductSpeech        = "Product Mention (Speech)"
	FeatureProductSpeechFirst5  = "Product Mention (Speech) (First 5 seconds)"
	FeatureVisibleFaceFirst5    = "Visible Face (First 5 seconds)"
	FeatureVisibleFaceCloseUp   = "Visible Face (Close Up)"
	FeaturePeople               = "Presence of People"
	FeaturePeopleFirst5         = "Presence of People (First 5 seconds)"
	FeatureAudioEarly           = "Audio Early (First 5 seconds)"
	FeatureOverallPacing        = "Overall Pacing"
	FeatureCTASpeech            = "Call To Action (Speech)"
	FeatureCTAText              = "Call To Action (Text)"
)

// Input is the triple every detector sees for one video.
type Input struct {
	Bundle   models.AnnotationBundle
	Video    models.VideoAsset
	Criteria models.BrandCriteria
}

// Options configures the catalogue for one run.
type Options struct {
	UseAnnotations bool
	UseLLMs        bool
	Judge          llm.Judge
	Entities       knowledge.EntityLookup

	EarlyWindowSecs     float64 // the "first N seconds" boundary
	AvgShotDurationSecs float64 // overall pacing threshold
	QuickPacingMinShots int     // shot changes per early window for quick pacing
	DynamicStartMaxSecs float64 // max first-shot length for a dynamic start
	CloseUpMinBoxArea   float64 // face box area fraction for a close-up

	Logger *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.EarlyWindowSecs <= 0 {
		o.EarlyWindowSecs = 5
	}
	if o.AvgShotDurationSecs <= 0 {
		o.AvgShotDurationSecs = 2
	}
	if o.QuickPacingMinShots <= 0 {
		o.QuickPacingMinShots = 5
	}
	if o.DynamicStartMaxSecs <= 0 {
		o.DynamicStartMaxSecs = 3
	}
	if o.CloseUpMinBoxArea <= 0 {
		o.CloseUpMinBoxArea = 0.15
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
	return o
}

// Detector is one catalogue entry. Features returns the ordered names of
// the results Detect emits; the slice length is fixed per detector
// regardless of input, so a degraded run still yields one result per name.
type Detector interface {
	Name() string
	Features() []string
	Detect(ctx context.Context, in Input) ([]models.FeatureResult, error)
}

// Catalogue returns the static, ordered detector set. Order determines
// result ordering in every report, never correctness.
func Catalogue(opts Options) []Detector {
	opts = opts.withDefaults()
	return []Detector{
		&QuickPacingDetector{opts: opts},
		&DynamicStartDetector{opts: opts},
		&SupersDetector{opts: opts},
		&BrandVisualsDetector{opts: opts},
		&BrandSpeechDetector{opts: opts},
		&ProductVisualsDetector{opts: opts},
		&ProductTextDetector{opts: opts},
		&ProductSpeechDetector{opts: opts},
		&VisibleFaceDetector{opts: opts},
		&PeopleDetector{opts: opts},
		&AudioEarlyDetector{opts: opts},
		&OverallPacingDetector{opts: opts},
		&CTASpeechDetector{opts: opts},
		&CTATextDetector{opts: opts},
	}
}

// UndetectedResults builds one detected=false result per feature name,
// used when a detector errors or times out.
func UndetectedResults(d Detector, video models.VideoAsset, explanation string) []models.FeatureResult {
	names := d.Features()
	out := make([]models.FeatureResult, 0, len(names))
	for _, name := range names {
		out = append(out, models.FeatureResult{
			Feature:  name,
			Detected: false,
			VideoURI: video.URI,
			Details:  []models.Evidence{{Source: "pipeline", Explanation: explanation}},
		})
	}
	return out
}
