package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/pkg/models"
)

func sampleAssessment() *models.BrandAssessment {
	return &models.BrandAssessment{
		BrandName: "acme",
		VideoAssessments: []models.VideoAssessment{
			{
				VideoName: "launch_ad.mp4",
				VideoURI:  "gs://creative-assets/acme/videos/launch_ad.mp4",
				Features: []models.FeatureResult{
					{Feature: "Supers", Detected: true, Details: []models.Evidence{
						{Source: "annotations", Explanation: "3 text overlays detected"},
					}},
					{Feature: "Dynamic Start", Detected: false},
				},
				PassedFeaturesCount: 1,
				Score:               50,
			},
			{
				VideoName: "winter_sale.mp4",
				VideoURI:  "gs://creative-assets/acme/videos/winter_sale.mp4",
				Features: []models.FeatureResult{
					{Feature: "Dynamic Start", Detected: true, Details: []models.Evidence{
						{Source: "annotations", Explanation: "First shot lasts 1.20s"},
					}},
					{Feature: "Supers", Detected: true},
				},
				PassedFeaturesCount: 2,
				Score:               100,
			},
		},
	}
}

func TestRecordRoundTrip(t *testing.T) {
	original := sampleAssessment()

	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, original))
	assert.True(t, strings.HasPrefix(buf.String(), "{\n"), "record is indented")

	decoded, err := ReadRecord(&buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestReadRecord_Invalid(t *testing.T) {
	_, err := ReadRecord(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestWriteMatrix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, sampleAssessment()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Video Name", "Video URI", "Overall Score", "Passed Features", "Total Features",
		"Dynamic Start - Detected", "Dynamic Start - Score", "Dynamic Start - Explanation",
		"Supers - Detected", "Supers - Score", "Supers - Explanation",
	}, rows[0], "lead columns then sorted per-feature triplets")

	assert.Equal(t, []string{
		"launch_ad.mp4", "gs://creative-assets/acme/videos/launch_ad.mp4", "50.00", "1", "2",
		"No", "0", "",
		"Yes", "1", "3 text overlays detected",
	}, rows[1])

	assert.Equal(t, []string{
		"winter_sale.mp4", "gs://creative-assets/acme/videos/winter_sale.mp4", "100.00", "2", "2",
		"Yes", "1", "First shot lasts 1.20s",
		"Yes", "1", "",
	}, rows[2], "columns follow sorted feature order, not per-video emission order")
}

func TestWriteMatrix_MissingFeatureDefaults(t *testing.T) {
	assessment := sampleAssessment()
	// Second video never reports Supers at all.
	assessment.VideoAssessments[1].Features = assessment.VideoAssessments[1].Features[:1]
	assessment.VideoAssessments[1].PassedFeaturesCount = 1

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, assessment))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"No", "0", ""}, rows[2][8:11])
}

func TestWriteMatrix_SanitizesExplanations(t *testing.T) {
	assessment := &models.BrandAssessment{
		BrandName: "acme",
		VideoAssessments: []models.VideoAssessment{
			{
				VideoName: "spot.mp4",
				Features: []models.FeatureResult{
					{Feature: "Supers", Detected: true, Details: []models.Evidence{
						{Explanation: "line one\nline two\r\nsaid \"now\""},
					}},
				},
				PassedFeaturesCount: 1,
				Score:               100,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, assessment))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `line one line two said ""now""`, rows[1][7])
}

func TestWriteDigest(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDigest(&buf, sampleAssessment()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# ABCD Assessment: acme\n"))
	assert.Contains(t, out, "## launch_ad.mp4\nScore: 50.00 (1/2 features) - Needs Review\n")
	assert.Contains(t, out, "## winter_sale.mp4\nScore: 100.00 (2/2 features) - Excellent\n")
	assert.Contains(t, out, "- [PASS] Supers\n- [MISS] Dynamic Start\n")
	assert.Contains(t, out, "- [PASS] Dynamic Start\n- [PASS] Supers\n",
		"features keep their emission order")
}
