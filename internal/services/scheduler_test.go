package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/manifest"
)

func TestScheduleBatch(t *testing.T) {
	setup := NewTestSetup(t)
	setup.WriteManifest(t, "vid1", testClips(3))

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	interval := 12 * time.Hour

	batchID, ids, err := setup.Scheduler.ScheduleBatch(setup.ctx, "vid1", start, interval, []string{"youtube"})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.NotEmpty(t, batchID)

	jobs, err := setup.JobRepo.ListByBatch(setup.ctx, batchID)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	// Jobs are spaced start + i*interval in clip order
	for i, job := range jobs {
		assert.Equal(t, i+1, job.ClipIndex)
		assert.Equal(t, start.Add(time.Duration(i)*interval), job.ScheduledAt.UTC())
		assert.Equal(t, models.JobStatusPending, job.Status)
		assert.Equal(t, models.StringList{"youtube"}, job.Destinations)
		assert.NotEmpty(t, job.Title)
		assert.NotEmpty(t, job.MediaPath)
	}
}

func TestScheduleBatchDefaultsToAllDestinations(t *testing.T) {
	setup := NewTestSetup(t)
	setup.WriteManifest(t, "vid1", testClips(1))

	batchID, ids, err := setup.Scheduler.ScheduleBatch(setup.ctx, "vid1", time.Now(), time.Hour, nil)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	jobs, err := setup.JobRepo.ListByBatch(setup.ctx, batchID)
	require.NoError(t, err)
	assert.ElementsMatch(t, setup.Registry.AllNames(), []string(jobs[0].Destinations))
}

func TestScheduleBatchNormalizesDestinations(t *testing.T) {
	setup := NewTestSetup(t)
	setup.WriteManifest(t, "vid1", testClips(1))

	// Mixed case, whitespace and duplicates collapse to an ordered set
	batchID, _, err := setup.Scheduler.ScheduleBatch(setup.ctx, "vid1", time.Now(), time.Hour,
		[]string{"YouTube", "youtube", " tiktok ", "", "TikTok"})
	require.NoError(t, err)

	jobs, err := setup.JobRepo.ListByBatch(setup.ctx, batchID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.StringList{"youtube", "tiktok"}, jobs[0].Destinations)
}

func TestSchedulePostNormalizesDestinations(t *testing.T) {
	setup := NewTestSetup(t)

	job := &models.PublishJob{
		SourceID:     "vid1",
		ClipIndex:    1,
		Destinations: models.StringList{"TikTok", "tiktok", "YOUTUBE"},
		ScheduledAt:  time.Now().Add(time.Hour),
	}
	id, err := setup.Scheduler.SchedulePost(setup.ctx, job)
	require.NoError(t, err)

	found, err := setup.JobRepo.GetByID(setup.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"tiktok", "youtube"}, found.Destinations)
}

func TestScheduleBatchMissingManifest(t *testing.T) {
	setup := NewTestSetup(t)

	_, _, err := setup.Scheduler.ScheduleBatch(setup.ctx, "missing", time.Now(), time.Hour, []string{"youtube"})
	assert.ErrorIs(t, err, manifest.ErrManifestNotFound)

	// Nothing was queued
	jobs, err := setup.JobRepo.ListUpcoming(setup.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestScheduleBatchEmptyManifest(t *testing.T) {
	setup := NewTestSetup(t)
	setup.WriteManifest(t, "vid1", []manifest.Clip{})

	batchID, ids, err := setup.Scheduler.ScheduleBatch(setup.ctx, "vid1", time.Now(), time.Hour, []string{"youtube"})
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotEmpty(t, batchID)
}

func TestSchedulePost(t *testing.T) {
	setup := NewTestSetup(t)

	job := &models.PublishJob{
		SourceID:     "vid1",
		ClipIndex:    2,
		Destinations: models.StringList{"tiktok"},
		ScheduledAt:  time.Now().Add(time.Hour),
		Title:        "Manual reschedule",
		MediaPath:    "clips_output/vid1/clips/clip_02.mp4",
	}

	id, err := setup.Scheduler.SchedulePost(setup.ctx, job)
	require.NoError(t, err)
	assert.NotZero(t, id)

	found, err := setup.JobRepo.GetByID(setup.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, found.Status)
	assert.NotEmpty(t, found.BatchID)
}
