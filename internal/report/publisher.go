package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/storage"
	"github.com/vidlens/abcd/pkg/models"
)

// Artifacts holds the addresses of the persisted report files for one run.
type Artifacts struct {
	RecordName string `json:"record_name"`
	RecordURL  string `json:"record_url"`
	MatrixName string `json:"matrix_name"`
	MatrixURL  string `json:"matrix_url"`
}

// Publisher uploads rendered reports next to the brand's videos and hands
// out time-limited download links.
type Publisher struct {
	store     storage.ObjectStore
	signTTL   time.Duration
	logger    *logrus.Logger
	timestamp func() time.Time
}

func NewPublisher(store storage.ObjectStore, signTTL time.Duration, logger *logrus.Logger) *Publisher {
	return &Publisher{
		store:     store,
		signTTL:   signTTL,
		logger:    logger,
		timestamp: time.Now,
	}
}

// Publish renders the JSON record and CSV matrix for the assessment and
// writes both under {brand}/assessments/. Returns signed URLs valid for the
// publisher's TTL; failures to sign degrade to public URLs.
func (p *Publisher) Publish(ctx context.Context, assessment *models.BrandAssessment) (*Artifacts, error) {
	stamp := p.timestamp().UTC().Format("20060102_150405")
	prefix := fmt.Sprintf("%s/assessments", assessment.BrandName)

	artifacts := &Artifacts{
		RecordName: fmt.Sprintf("%s/assessment_%s.json", prefix, stamp),
		MatrixName: fmt.Sprintf("%s/assessment_%s.csv", prefix, stamp),
	}

	var record bytes.Buffer
	if err := WriteRecord(&record, assessment); err != nil {
		return nil, err
	}
	if err := p.store.Put(ctx, artifacts.RecordName, record.Bytes(), nil); err != nil {
		return nil, fmt.Errorf("failed to upload assessment record: %w", err)
	}

	var matrix bytes.Buffer
	if err := WriteMatrix(&matrix, assessment); err != nil {
		return nil, err
	}
	if err := p.store.Put(ctx, artifacts.MatrixName, matrix.Bytes(), nil); err != nil {
		return nil, fmt.Errorf("failed to upload assessment matrix: %w", err)
	}

	artifacts.RecordURL = p.signOrPublic(ctx, artifacts.RecordName)
	artifacts.MatrixURL = p.signOrPublic(ctx, artifacts.MatrixName)

	p.logger.WithFields(logrus.Fields{
		"brand":  assessment.BrandName,
		"record": artifacts.RecordName,
		"matrix": artifacts.MatrixName,
	}).Info("Published assessment artifacts")

	return artifacts, nil
}

func (p *Publisher) signOrPublic(ctx context.Context, name string) string {
	url, err := p.store.SignedURL(ctx, name, p.signTTL)
	if err != nil {
		p.logger.WithError(err).WithField("object", name).
			Warn("Failed to sign artifact URL, falling back to public URL")
		return p.store.PublicURL(name)
	}
	return url
}
