// Package repos provides access to publish job persistence.
package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clipforge/clipforge/internal/db/models"
)

// ErrJobNotFound is returned when a job lookup matches no row
var ErrJobNotFound = errors.New("publish job not found")

// PublishJobRepository provides access to publish-job database operations.
// It is the single owner of all job state; no other component holds job
// rows across calls.
type PublishJobRepository struct {
	db *gorm.DB
}

// NewPublishJobRepository creates a new publish job repository instance
func NewPublishJobRepository(db *gorm.DB) *PublishJobRepository {
	return &PublishJobRepository{db: db}
}

// Create inserts a new publish job
func (r *PublishJobRepository) Create(ctx context.Context, job *models.PublishJob) error {
	if len(job.Destinations) == 0 {
		return fmt.Errorf("publish job requires at least one destination")
	}
	if job.Status == models.JobStatusUnknown {
		job.Status = models.JobStatusPending
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// CreateBatch inserts a set of publish jobs in a single transaction
func (r *PublishJobRepository) CreateBatch(ctx context.Context, jobs []*models.PublishJob) error {
	if len(jobs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, job := range jobs {
			if len(job.Destinations) == 0 {
				return fmt.Errorf("publish job requires at least one destination")
			}
			if job.Status == models.JobStatusUnknown {
				job.Status = models.JobStatusPending
			}
			if err := tx.Create(job).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a publish job by its ID
func (r *PublishJobRepository) GetByID(ctx context.Context, id uint) (*models.PublishJob, error) {
	var job models.PublishJob
	err := r.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publish job: %w", err)
	}
	return &job, nil
}

// DueBefore returns all pending jobs whose scheduled time has passed,
// oldest first. This is the processor's claim order.
func (r *PublishJobRepository) DueBefore(ctx context.Context, t time.Time) ([]models.PublishJob, error) {
	var jobs []models.PublishJob
	err := r.db.WithContext(ctx).
		Where(models.JobStatusField+" = ? AND "+models.JobScheduledAtField+" <= ?", models.JobStatusPending, t).
		Order(models.JobScheduledAtField + " ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query due jobs: %w", err)
	}
	return jobs, nil
}

// MarkPosted transitions a pending job to posted, storing the full
// per-destination result set. The status guard makes the transition a
// single atomic write that cannot re-fire on an already terminal row.
func (r *PublishJobRepository) MarkPosted(ctx context.Context, id uint, result interface{}) error {
	return r.markProcessed(ctx, id, models.JobStatusPosted, result)
}

// MarkFailed transitions a pending job to failed, storing the full
// per-destination result set including individual error strings.
func (r *PublishJobRepository) MarkFailed(ctx context.Context, id uint, result interface{}) error {
	return r.markProcessed(ctx, id, models.JobStatusFailed, result)
}

func (r *PublishJobRepository) markProcessed(ctx context.Context, id uint, status models.JobStatus, result interface{}) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.PublishJob{}).
		Where("id = ? AND "+models.JobStatusField+" = ?", id, models.JobStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"result":       resultJSON,
			"processed_at": &now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark job %s: %w", status, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d (or job is not pending)", ErrJobNotFound, id)
	}
	return nil
}

// Cancel removes a still-pending job. It reports false when the job does
// not exist or has already left the pending state.
func (r *PublishJobRepository) Cancel(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND "+models.JobStatusField+" = ?", id, models.JobStatusPending).
		Delete(&models.PublishJob{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to cancel job: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListUpcoming returns jobs in scheduled order, soonest first, optionally
// filtered by status
func (r *PublishJobRepository) ListUpcoming(ctx context.Context, opts *models.ListOptions) ([]models.PublishJob, error) {
	limit := models.DefaultLimit
	offset := 0
	query := r.db.WithContext(ctx)
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		offset = opts.Offset
		if opts.Status != nil {
			query = query.Where(models.JobStatusField+" = ?", *opts.Status)
		}
	}

	var jobs []models.PublishJob
	err := query.
		Order(models.JobScheduledAtField + " ASC").
		Limit(limit).Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming jobs: %w", err)
	}
	return jobs, nil
}

// ListByBatch returns all jobs created by one scheduling call, in
// scheduled order
func (r *PublishJobRepository) ListByBatch(ctx context.Context, batchID string) ([]models.PublishJob, error) {
	var jobs []models.PublishJob
	err := r.db.WithContext(ctx).
		Where(&models.PublishJob{BatchID: batchID}).
		Order(models.JobScheduledAtField + " ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list batch jobs: %w", err)
	}
	return jobs, nil
}

// CountByStatus returns the number of jobs per status
func (r *PublishJobRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status models.JobStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.PublishJob{}).
		Select(models.JobStatusField + " as status, count(*) as count").
		Group(models.JobStatusField).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status.String()] = r.Count
	}
	return counts, nil
}
