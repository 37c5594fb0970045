package models

import "errors"

var (
	// ErrMalformedName marks object names that do not decompose into
	// {brand}/{category}/{filename}.
	ErrMalformedName = errors.New("malformed object name")

	// ErrVideoTooLarge marks videos over the configured size ceiling for
	// LLM-backed detection.
	ErrVideoTooLarge = errors.New("video exceeds size limit")

	// ErrEmptyResult signals a brand run that produced no video assessments.
	ErrEmptyResult = errors.New("no video assessments produced")
)

// Evidence is one detector-specific piece of supporting detail for a
// feature result. The explanation key matches the persisted record format.
type Evidence struct {
	Source      string `json:"source,omitempty"` // "annotations" or "llm"
	Prompt      string `json:"prompt,omitempty"`
	Explanation string `json:"llm_explanation,omitempty"`
}

// FeatureResult is one rubric check outcome for one video.
type FeatureResult struct {
	Feature     string     `json:"feature"`
	Description string     `json:"feature_description,omitempty"`
	Detected    bool       `json:"feature_detected"`
	Confidence  *float64   `json:"confidence,omitempty"`
	Details     []Evidence `json:"llm_details,omitempty"`
	VideoURI    string     `json:"video_uri,omitempty"`
}

// Explanation returns the first recorded explanation, or "".
func (fr FeatureResult) Explanation() string {
	if len(fr.Details) == 0 {
		return ""
	}
	return fr.Details[0].Explanation
}

// VideoAssessment aggregates all feature results for one video. Score is
// kept unrounded; rounding is a presentation concern in the renderers.
type VideoAssessment struct {
	VideoName           string          `json:"video_name"`
	VideoURI            string          `json:"video_uri"`
	Features            []FeatureResult `json:"features"`
	PassedFeaturesCount int             `json:"passed_features_count"`
	Score               float64         `json:"score"`
}

// TotalFeatures is the number of feature results actually produced.
func (va VideoAssessment) TotalFeatures() int {
	return len(va.Features)
}

// BrandAssessment is the brand-level result, video assessments in
// discovery order.
type BrandAssessment struct {
	BrandName        string            `json:"brand_name"`
	VideoAssessments []VideoAssessment `json:"video_assessments"`
}

// Classification is the score band of one video assessment.
type Classification string

const (
	Excellent    Classification = "Excellent"
	MightImprove Classification = "Might Improve"
	NeedsReview  Classification = "Needs Review"
)

// Classify maps a score onto its band. Lower edges are inclusive: 80.0
// is Excellent, 65.0 is Might Improve.
func Classify(score float64) Classification {
	switch {
	case score >= 80:
		return Excellent
	case score >= 65:
		return MightImprove
	default:
		return NeedsReview
	}
}
