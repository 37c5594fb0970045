package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/pkg/models"
)

// DatabaseExecutor is the slice of pgxpool.Pool the repository needs.
type DatabaseExecutor interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// StoredRun is one persisted assessment run.
type StoredRun struct {
	RunID      uuid.UUID               `json:"run_id"`
	BrandName  string                  `json:"brand_name"`
	Assessment models.BrandAssessment  `json:"assessment"`
	CreatedAt  time.Time               `json:"created_at"`
}

// Repository persists brand assessments as JSONB rows.
type Repository struct {
	db     DatabaseExecutor
	logger *logrus.Logger
}

func NewRepository(db DatabaseExecutor, logger *logrus.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Store writes the assessment and returns the run ID assigned to it.
func (r *Repository) Store(ctx context.Context, assessment *models.BrandAssessment) (uuid.UUID, error) {
	payload, err := json.Marshal(assessment)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal assessment: %w", err)
	}

	runID := uuid.New()
	query := `
		INSERT INTO assessment_runs (run_id, brand_name, assessment, created_at)
		VALUES ($1, $2, $3, NOW())`

	if _, err := r.db.Exec(ctx, query, runID, assessment.BrandName, payload); err != nil {
		return uuid.Nil, fmt.Errorf("failed to store assessment run: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"brand":  assessment.BrandName,
		"videos": len(assessment.VideoAssessments),
	}).Info("Stored assessment run")

	return runID, nil
}

// Get loads a single run by ID.
func (r *Repository) Get(ctx context.Context, runID uuid.UUID) (*StoredRun, error) {
	query := `
		SELECT run_id, brand_name, assessment, created_at
		FROM assessment_runs
		WHERE run_id = $1`

	var run StoredRun
	var payload []byte
	err := r.db.QueryRow(ctx, query, runID).
		Scan(&run.RunID, &run.BrandName, &payload, &run.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("assessment run %s not found", runID)
		}
		return nil, fmt.Errorf("failed to load assessment run: %w", err)
	}

	if err := json.Unmarshal(payload, &run.Assessment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment run %s: %w", runID, err)
	}
	return &run, nil
}

// ListForBrand returns the run history for one brand, newest first.
func (r *Repository) ListForBrand(ctx context.Context, brandName string, limit int) ([]StoredRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT run_id, brand_name, assessment, created_at
		FROM assessment_runs
		WHERE brand_name = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, brandName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment runs: %w", err)
	}
	defer rows.Close()

	var runs []StoredRun
	for rows.Next() {
		var run StoredRun
		var payload []byte
		if err := rows.Scan(&run.RunID, &run.BrandName, &payload, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment run: %w", err)
		}
		if err := json.Unmarshal(payload, &run.Assessment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assessment run %s: %w", run.RunID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
