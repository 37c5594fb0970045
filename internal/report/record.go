package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vidlens/abcd/pkg/models"
)

// WriteRecord serializes a brand assessment as an indented JSON document.
// The output round-trips through ReadRecord without loss.
func WriteRecord(w io.Writer, assessment *models.BrandAssessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(assessment); err != nil {
		return fmt.Errorf("failed to encode assessment record: %w", err)
	}
	return nil
}

// ReadRecord decodes a JSON record previously produced by WriteRecord.
func ReadRecord(r io.Reader) (*models.BrandAssessment, error) {
	var assessment models.BrandAssessment
	dec := json.NewDecoder(r)
	if err := dec.Decode(&assessment); err != nil {
		return nil, fmt.Errorf("failed to decode assessment record: %w", err)
	}
	return &assessment, nil
}
