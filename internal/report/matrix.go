package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vidlens/abcd/pkg/models"
)

var matrixLeadColumns = []string{
	"Video Name",
	"Video URI",
	"Overall Score",
	"Passed Features",
	"Total Features",
}

// WriteMatrix renders a brand assessment as a CSV matrix with one row per
// video. After the fixed lead columns, every distinct feature name observed
// across the assessment contributes three columns in sorted name order:
// a Yes/No detection flag, a 1/0 score, and the sanitized explanation.
// Videos missing a feature get No, 0 and an empty explanation so that column
// identity stays stable regardless of per-video emission order.
func WriteMatrix(w io.Writer, assessment *models.BrandAssessment) error {
	features := collectFeatureNames(assessment)

	header := make([]string, 0, len(matrixLeadColumns)+3*len(features))
	header = append(header, matrixLeadColumns...)
	for _, name := range features {
		header = append(header,
			name+" - Detected",
			name+" - Score",
			name+" - Explanation",
		)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write matrix header: %w", err)
	}

	for _, va := range assessment.VideoAssessments {
		byName := make(map[string]models.FeatureResult, len(va.Features))
		for _, fr := range va.Features {
			byName[fr.Feature] = fr
		}

		row := make([]string, 0, len(header))
		row = append(row,
			va.VideoName,
			va.VideoURI,
			strconv.FormatFloat(va.Score, 'f', 2, 64),
			strconv.Itoa(va.PassedFeaturesCount),
			strconv.Itoa(va.TotalFeatures()),
		)
		for _, name := range features {
			fr, ok := byName[name]
			if !ok {
				row = append(row, "No", "0", "")
				continue
			}
			flag, score := "No", "0"
			if fr.Detected {
				flag, score = "Yes", "1"
			}
			row = append(row, flag, score, sanitizeExplanation(fr.Explanation()))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write matrix row for %s: %w", va.VideoName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func collectFeatureNames(assessment *models.BrandAssessment) []string {
	seen := make(map[string]struct{})
	for _, va := range assessment.VideoAssessments {
		for _, fr := range va.Features {
			seen[fr.Feature] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sanitizeExplanation(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, `"`, `""`)
}
