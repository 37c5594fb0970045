package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/report"
)

func TestLocalWriter_Write(t *testing.T) {
	dir := t.TempDir()
	writer := NewLocalWriter(dir, testLogger())

	path, err := writer.Write(testAssessment())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acme", "assessment.json"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := report.ReadRecord(f)
	require.NoError(t, err)
	assert.Equal(t, "acme", decoded.BrandName)
}

func TestLocalWriter_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	writer := NewLocalWriter(dir, testLogger())

	_, err := writer.Write(testAssessment())
	require.NoError(t, err)

	updated := testAssessment()
	updated.VideoAssessments = nil
	path, err := writer.Write(updated)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := report.ReadRecord(f)
	require.NoError(t, err)
	assert.Empty(t, decoded.VideoAssessments)
}
