// Package services implements the scheduling and processing layer of the
// publish pipeline.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/db/repos"
	"github.com/clipforge/clipforge/internal/logger"
	"github.com/clipforge/clipforge/internal/manifest"
	"github.com/clipforge/clipforge/internal/platforms"
	"github.com/clipforge/clipforge/internal/storage"
)

// Scheduler creates publish jobs from clip manifests
type Scheduler struct {
	repo      *repos.PublishJobRepository
	manifests *manifest.Store
	registry  *platforms.Registry
	media     storage.MediaHost // optional; nil disables pre-hosting
}

// NewScheduler creates a scheduler service. media may be nil when no
// public media host is configured.
func NewScheduler(repo *repos.PublishJobRepository, manifests *manifest.Store, registry *platforms.Registry, media storage.MediaHost) *Scheduler {
	return &Scheduler{
		repo:      repo,
		manifests: manifests,
		registry:  registry,
		media:     media,
	}
}

// ScheduleBatch creates one pending job per clip of the source video,
// staggered from startTime by the fixed interval: the i-th clip (0-based,
// in manifest order) is scheduled at startTime + i*interval. Destination
// names are snapshotted as given and only resolved at dispatch time; an
// empty set defaults to every registered destination.
//
// Returns the batch ID and the created job IDs in schedule order.
func (s *Scheduler) ScheduleBatch(ctx context.Context, sourceID string, startTime time.Time, interval time.Duration, destinations []string) (string, []uint, error) {
	destinations = normalizeDestinations(destinations)
	if len(destinations) == 0 {
		destinations = s.registry.AllNames()
	}
	if len(destinations) == 0 {
		return "", nil, fmt.Errorf("no destinations given and none registered")
	}

	clips, err := s.manifests.Load(sourceID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load manifest for %s: %w", sourceID, err)
	}

	batchID := uuid.NewString()
	jobs := make([]*models.PublishJob, 0, len(clips))
	for i, clip := range clips {
		job := &models.PublishJob{
			BatchID:      batchID,
			SourceID:     sourceID,
			ClipIndex:    clip.ClipIndex,
			Destinations: models.StringList(destinations),
			ScheduledAt:  startTime.Add(time.Duration(i) * interval),
			Status:       models.JobStatusPending,
			Title:        clip.Title,
			Description:  clip.Description,
			Tags:         models.StringList(clip.Tags),
			MediaPath:    s.manifests.ClipPath(sourceID, &clips[i]),
		}

		if s.media != nil {
			url, err := s.media.Upload(ctx, job.MediaPath)
			if err != nil {
				// URL-only destinations will report the missing URL
				// themselves at dispatch time.
				logger.Warnf("[schedule] media host upload failed for clip %d: %v", clip.ClipIndex, err)
			} else {
				job.MediaURL = url
			}
		}

		jobs = append(jobs, job)
	}

	if err := s.repo.CreateBatch(ctx, jobs); err != nil {
		return "", nil, fmt.Errorf("failed to create publish jobs: %w", err)
	}

	ids := make([]uint, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
	}

	logger.InfoWithFields("scheduled publish batch", map[string]interface{}{
		"batch_id":     batchID,
		"source_id":    sourceID,
		"jobs":         len(ids),
		"start":        startTime,
		"interval":     interval.String(),
		"destinations": destinations,
	})
	return batchID, ids, nil
}

// SchedulePost creates a single pending job with an explicit payload,
// bypassing the manifest. Used for manual re-schedules of failed posts.
func (s *Scheduler) SchedulePost(ctx context.Context, job *models.PublishJob) (uint, error) {
	job.Destinations = models.StringList(normalizeDestinations(job.Destinations))
	if len(job.Destinations) == 0 {
		job.Destinations = models.StringList(s.registry.AllNames())
	}
	job.Status = models.JobStatusPending
	if job.BatchID == "" {
		job.BatchID = uuid.NewString()
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return 0, fmt.Errorf("failed to create publish job: %w", err)
	}

	logger.Infof("[schedule] job %d: clip %d of %s at %s", job.ID, job.ClipIndex, job.SourceID, job.ScheduledAt)
	return job.ID, nil
}

// normalizeDestinations lowercases, trims and dedupes a destination list,
// preserving first-seen order. Destinations form an ordered set; a
// duplicated name must never fan out twice for the same job.
func normalizeDestinations(destinations []string) []string {
	seen := make(map[string]struct{}, len(destinations))
	out := make([]string, 0, len(destinations))
	for _, name := range destinations {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
