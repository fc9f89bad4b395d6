package services

import (
	"context"

	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/db/repos"
)

// Jobs exposes read and cancel operations over the publish queue.
type Jobs struct {
	repo *repos.PublishJobRepository
}

// NewJobs creates a job query service.
func NewJobs(repo *repos.PublishJobRepository) *Jobs {
	return &Jobs{repo: repo}
}

// Get returns a job by ID.
func (j *Jobs) Get(ctx context.Context, id uint) (*models.PublishJob, error) {
	return j.repo.GetByID(ctx, id)
}

// List returns jobs ordered by scheduled time, optionally filtered by status.
func (j *Jobs) List(ctx context.Context, opts *models.ListOptions) ([]models.PublishJob, error) {
	return j.repo.ListUpcoming(ctx, opts)
}

// ListBatch returns every job created by one scheduling call.
func (j *Jobs) ListBatch(ctx context.Context, batchID string) ([]models.PublishJob, error) {
	return j.repo.ListByBatch(ctx, batchID)
}

// Stats returns job counts grouped by status.
func (j *Jobs) Stats(ctx context.Context) (map[string]int64, error) {
	return j.repo.CountByStatus(ctx)
}

// Cancel removes a pending job from the queue. Returns false when the job
// does not exist or has already been processed.
func (j *Jobs) Cancel(ctx context.Context, id uint) (bool, error) {
	return j.repo.Cancel(ctx, id)
}
