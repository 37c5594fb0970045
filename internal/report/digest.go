package report

import (
	"fmt"
	"io"

	"github.com/vidlens/abcd/pkg/models"
)

// WriteDigest renders a human-readable assessment summary. Videos keep their
// discovery order and features keep their emission order so the digest reads
// the same way the pipeline produced it.
func WriteDigest(w io.Writer, assessment *models.BrandAssessment) error {
	if _, err := fmt.Fprintf(w, "# ABCD Assessment: %s\n\n", assessment.BrandName); err != nil {
		return err
	}

	for _, va := range assessment.VideoAssessments {
		band := models.Classify(va.Score)
		if _, err := fmt.Fprintf(w, "## %s\n", va.VideoName); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Score: %.2f (%d/%d features) - %s\n\n",
			va.Score, va.PassedFeaturesCount, va.TotalFeatures(), band); err != nil {
			return err
		}
		for _, fr := range va.Features {
			mark := "MISS"
			if fr.Detected {
				mark = "PASS"
			}
			if _, err := fmt.Fprintf(w, "- [%s] %s\n", mark, fr.Feature); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
