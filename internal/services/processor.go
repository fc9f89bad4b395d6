package services

import (
	"context"
	"fmt"
	"time"

	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/db/repos"
	"github.com/clipforge/clipforge/internal/dispatcher"
	"github.com/clipforge/clipforge/internal/logger"
	"github.com/clipforge/clipforge/internal/manifest"
	"github.com/clipforge/clipforge/internal/platforms"
)

// Processor claims due jobs and publishes them
type Processor struct {
	repo       *repos.PublishJobRepository
	manifests  *manifest.Store
	dispatcher *dispatcher.Dispatcher
	parallel   bool
}

// NewProcessor creates a processor service. parallel controls whether a
// single job's destinations are published concurrently or one at a time.
func NewProcessor(repo *repos.PublishJobRepository, manifests *manifest.Store, d *dispatcher.Dispatcher, parallel bool) *Processor {
	return &Processor{
		repo:       repo,
		manifests:  manifests,
		dispatcher: d,
		parallel:   parallel,
	}
}

// ProcessOptions controls a single processing run.
type ProcessOptions struct {
	// DryRun reports the jobs that would be published without dispatching
	// or changing any job state.
	DryRun bool
	// Now overrides the due cutoff. Zero means time.Now().
	Now time.Time
}

// RunStats summarizes a processing run.
type RunStats struct {
	Due    int `json:"due"`
	Posted int `json:"posted"`
	Failed int `json:"failed"`
	// Skipped counts due jobs left pending by a dry run.
	Skipped int `json:"skipped"`
	// Errors counts jobs whose outcome could not be recorded, e.g. a
	// concurrent runner already transitioned the row. Such jobs are
	// neither posted nor failed from this run's perspective.
	Errors int `json:"errors"`
}

// runOutcome is the per-job result of one processing pass
type runOutcome int

const (
	runPosted runOutcome = iota
	runFailed
	runError
)

// ProcessDue claims every pending job whose scheduled time has passed and
// publishes each to its destinations, oldest first. A job reaching at least
// one destination is marked posted; one reaching none is marked failed.
// Per-job errors are recorded on the job and never abort the run.
func (p *Processor) ProcessDue(ctx context.Context, opts ProcessOptions) (RunStats, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	jobs, err := p.repo.DueBefore(ctx, now)
	if err != nil {
		return RunStats{}, fmt.Errorf("failed to query due jobs: %w", err)
	}

	stats := RunStats{Due: len(jobs)}
	if len(jobs) == 0 {
		logger.Debug("[process] no due jobs")
		return stats, nil
	}
	logger.Infof("[process] %d due job(s)", len(jobs))

	for i := range jobs {
		job := &jobs[i]

		if opts.DryRun {
			stats.Skipped++
			logger.Infof("[process] dry run: would publish job %d (clip %d of %s) to %v",
				job.ID, job.ClipIndex, job.SourceID, []string(job.Destinations))
			continue
		}

		switch p.processOne(ctx, job) {
		case runPosted:
			stats.Posted++
		case runFailed:
			stats.Failed++
		default:
			stats.Errors++
		}
	}

	logger.InfoWithFields("processing run complete", map[string]interface{}{
		"due":    stats.Due,
		"posted": stats.Posted,
		"failed": stats.Failed,
		"errors": stats.Errors,
	})
	return stats, nil
}

// processOne publishes a single job and records its outcome. The returned
// outcome reflects what was actually persisted: a job that dispatched but
// whose transition could not be recorded reports runError, not runFailed.
func (p *Processor) processOne(ctx context.Context, job *models.PublishJob) runOutcome {
	req, err := p.buildRequest(job)
	if err != nil {
		logger.Errorf("[process] job %d: %v", job.ID, err)
		results := failAll(job.Destinations, err)
		if markErr := p.repo.MarkFailed(ctx, job.ID, results); markErr != nil {
			logger.Errorf("[process] job %d: failed to record failure: %v", job.ID, markErr)
			return runError
		}
		return runFailed
	}

	results := p.dispatcher.PublishToMany(ctx, job.Destinations, req, p.parallel)

	succeeded := 0
	for name, res := range results {
		if res.Success {
			succeeded++
			logger.Infof("[process] job %d: %s ok (%s)", job.ID, name, res.ExternalURL)
		} else {
			logger.Warnf("[process] job %d: %s failed: %s", job.ID, name, res.Error)
		}
	}

	if succeeded > 0 {
		if err := p.repo.MarkPosted(ctx, job.ID, results); err != nil {
			logger.Errorf("[process] job %d: failed to mark posted: %v", job.ID, err)
			return runError
		}
		return runPosted
	}
	if err := p.repo.MarkFailed(ctx, job.ID, results); err != nil {
		logger.Errorf("[process] job %d: failed to mark failed: %v", job.ID, err)
		return runError
	}
	return runFailed
}

// buildRequest assembles the upload payload for a job. Metadata comes from
// the payload snapshot taken at schedule time, but the on-disk media path
// is resolved freshly from the manifest so moved output roots still work.
// A job whose clip has vanished from the manifest fails here, unless its
// media was already hosted remotely.
func (p *Processor) buildRequest(job *models.PublishJob) (platforms.UploadRequest, error) {
	req := platforms.UploadRequest{
		MediaURL:     job.MediaURL,
		ThumbnailURL: job.ThumbnailURL,
		Title:        job.Title,
		Description:  job.Description,
		Tags:         job.Tags,
	}

	clip, err := p.manifests.Clip(job.SourceID, job.ClipIndex)
	if err != nil {
		if req.MediaURL != "" {
			req.MediaPath = job.MediaPath
			return req, nil
		}
		return platforms.UploadRequest{}, fmt.Errorf("clip lookup failed: %w", err)
	}

	req.MediaPath = p.manifests.ClipPath(job.SourceID, clip)
	return req, nil
}

func failAll(destinations []string, err error) map[string]platforms.UploadResult {
	results := make(map[string]platforms.UploadResult, len(destinations))
	for _, name := range destinations {
		results[name] = platforms.Failure(name, "%v", err)
	}
	return results
}
