package results

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/report"
	"github.com/vidlens/abcd/pkg/models"
)

// LocalWriter mirrors assessment records onto the local filesystem for
// operators who want results without a database.
type LocalWriter struct {
	dir    string
	logger *logrus.Logger
}

func NewLocalWriter(dir string, logger *logrus.Logger) *LocalWriter {
	return &LocalWriter{dir: dir, logger: logger}
}

// Write stores the assessment at {dir}/{brand}/assessment.json, creating
// directories as needed. An existing file for the brand is replaced.
func (w *LocalWriter) Write(assessment *models.BrandAssessment) (string, error) {
	brandDir := filepath.Join(w.dir, assessment.BrandName)
	if err := os.MkdirAll(brandDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	path := filepath.Join(brandDir, "assessment.json")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	if err := report.WriteRecord(f, assessment); err != nil {
		return "", err
	}

	w.logger.WithFields(logrus.Fields{
		"brand": assessment.BrandName,
		"path":  path,
	}).Info("Wrote local assessment record")

	return path, nil
}
