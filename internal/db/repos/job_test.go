package repos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/platforms"
)

type PublishJobRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestPublishJobRepository(t *testing.T) {
	suite.Run(t, new(PublishJobRepositoryTestSuite))
}

func (s *PublishJobRepositoryTestSuite) TestCreate() {
	job := s.createTestJob(time.Now())
	s.NotZero(job.ID)
	s.Equal(models.JobStatusPending, job.Status)
}

func (s *PublishJobRepositoryTestSuite) TestCreateRequiresDestinations() {
	job := &models.PublishJob{
		SourceID:    "abc",
		ScheduledAt: time.Now(),
	}
	err := s.jobRepo.Create(s.ctx, job)
	s.Error(err)
}

func (s *PublishJobRepositoryTestSuite) TestGetByID() {
	original := s.createTestJob(time.Now())

	found, err := s.jobRepo.GetByID(s.ctx, original.ID)
	s.NoError(err)
	s.Equal(original.ID, found.ID)
	s.Equal(original.Title, found.Title)
	s.Equal(original.Destinations, found.Destinations)

	// Non-existent ID
	_, err = s.jobRepo.GetByID(s.ctx, 999)
	s.ErrorIs(err, ErrJobNotFound)
}

func (s *PublishJobRepositoryTestSuite) TestDueBeforeOrdering() {
	now := time.Now()
	later := s.createTestJob(now.Add(-1 * time.Hour))
	earliest := s.createTestJob(now.Add(-3 * time.Hour))
	middle := s.createTestJob(now.Add(-2 * time.Hour))
	future := s.createTestJob(now.Add(2 * time.Hour))

	due, err := s.jobRepo.DueBefore(s.ctx, now)
	s.NoError(err)
	s.Len(due, 3)

	// Oldest first
	s.Equal(earliest.ID, due[0].ID)
	s.Equal(middle.ID, due[1].ID)
	s.Equal(later.ID, due[2].ID)

	for _, job := range due {
		s.NotEqual(future.ID, job.ID)
	}
}

func (s *PublishJobRepositoryTestSuite) TestDueBeforeSkipsProcessed() {
	now := time.Now()
	posted := s.createTestJob(now.Add(-2 * time.Hour))
	pending := s.createTestJob(now.Add(-1 * time.Hour))

	err := s.jobRepo.MarkPosted(s.ctx, posted.ID, map[string]string{"youtube": "ok"})
	s.Require().NoError(err)

	due, err := s.jobRepo.DueBefore(s.ctx, now)
	s.NoError(err)
	s.Len(due, 1)
	s.Equal(pending.ID, due[0].ID)
}

func (s *PublishJobRepositoryTestSuite) TestMarkPosted() {
	job := s.createTestJob(time.Now().Add(-time.Hour))

	results := map[string]platforms.UploadResult{
		"youtube": {Success: true, Destination: "youtube", ExternalURL: "https://youtube.com/shorts/x"},
		"tiktok":  {Success: false, Destination: "tiktok", Error: "upload not available"},
	}
	err := s.jobRepo.MarkPosted(s.ctx, job.ID, results)
	s.NoError(err)

	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPosted, found.Status)
	s.NotNil(found.ProcessedAt)
	s.True(found.Terminal())

	// Per-destination outcomes survive the round trip
	var stored map[string]platforms.UploadResult
	s.Require().NoError(json.Unmarshal(found.Result, &stored))
	s.Len(stored, 2)
	s.True(stored["youtube"].Success)
	s.Equal("upload not available", stored["tiktok"].Error)
}

func (s *PublishJobRepositoryTestSuite) TestMarkFailed() {
	job := s.createTestJob(time.Now().Add(-time.Hour))

	err := s.jobRepo.MarkFailed(s.ctx, job.ID, map[string]string{"error": "manifest missing"})
	s.NoError(err)

	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusFailed, found.Status)
	s.NotNil(found.ProcessedAt)
}

func (s *PublishJobRepositoryTestSuite) TestMarkIsSingleShot() {
	job := s.createTestJob(time.Now().Add(-time.Hour))

	err := s.jobRepo.MarkPosted(s.ctx, job.ID, nil)
	s.Require().NoError(err)

	// A processed job cannot transition again
	err = s.jobRepo.MarkFailed(s.ctx, job.ID, nil)
	s.Error(err)

	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPosted, found.Status)
}

func (s *PublishJobRepositoryTestSuite) TestCancel() {
	job := s.createTestJob(time.Now().Add(time.Hour))

	canceled, err := s.jobRepo.Cancel(s.ctx, job.ID)
	s.NoError(err)
	s.True(canceled)

	_, err = s.jobRepo.GetByID(s.ctx, job.ID)
	s.ErrorIs(err, ErrJobNotFound)

	// Canceling again reports false
	canceled, err = s.jobRepo.Cancel(s.ctx, job.ID)
	s.NoError(err)
	s.False(canceled)
}

func (s *PublishJobRepositoryTestSuite) TestCancelProcessedJob() {
	job := s.createTestJob(time.Now().Add(-time.Hour))
	s.Require().NoError(s.jobRepo.MarkPosted(s.ctx, job.ID, nil))

	canceled, err := s.jobRepo.Cancel(s.ctx, job.ID)
	s.NoError(err)
	s.False(canceled)

	// The job record is untouched
	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusPosted, found.Status)
}

func (s *PublishJobRepositoryTestSuite) TestCreateBatch() {
	now := time.Now()
	jobs := []*models.PublishJob{
		{
			BatchID:      "batch-x",
			SourceID:     "src",
			ClipIndex:    1,
			Destinations: models.StringList{"youtube"},
			ScheduledAt:  now,
			Status:       models.JobStatusPending,
		},
		{
			BatchID:      "batch-x",
			SourceID:     "src",
			ClipIndex:    2,
			Destinations: models.StringList{"youtube"},
			ScheduledAt:  now.Add(12 * time.Hour),
			Status:       models.JobStatusPending,
		},
	}

	err := s.jobRepo.CreateBatch(s.ctx, jobs)
	s.NoError(err)
	s.NotZero(jobs[0].ID)
	s.NotZero(jobs[1].ID)

	batch, err := s.jobRepo.ListByBatch(s.ctx, "batch-x")
	s.NoError(err)
	s.Len(batch, 2)
	s.Equal(1, batch[0].ClipIndex)
	s.Equal(2, batch[1].ClipIndex)
}

func (s *PublishJobRepositoryTestSuite) TestListUpcoming() {
	now := time.Now()
	s.createTestJob(now.Add(2 * time.Hour))
	s.createTestJob(now.Add(1 * time.Hour))
	failed := s.createTestJob(now.Add(-1 * time.Hour))
	s.Require().NoError(s.jobRepo.MarkFailed(s.ctx, failed.ID, nil))

	all, err := s.jobRepo.ListUpcoming(s.ctx, nil)
	s.NoError(err)
	s.Len(all, 3)

	// Ordered by scheduled time
	s.True(all[0].ScheduledAt.Before(all[1].ScheduledAt))

	pending := models.JobStatusPending
	filtered, err := s.jobRepo.ListUpcoming(s.ctx, &models.ListOptions{Status: &pending})
	s.NoError(err)
	s.Len(filtered, 2)

	limited, err := s.jobRepo.ListUpcoming(s.ctx, &models.ListOptions{Limit: 1})
	s.NoError(err)
	s.Len(limited, 1)
}

func (s *PublishJobRepositoryTestSuite) TestCountByStatus() {
	now := time.Now()
	s.createTestJob(now.Add(time.Hour))
	posted := s.createTestJob(now.Add(-2 * time.Hour))
	failed := s.createTestJob(now.Add(-1 * time.Hour))

	s.Require().NoError(s.jobRepo.MarkPosted(s.ctx, posted.ID, nil))
	s.Require().NoError(s.jobRepo.MarkFailed(s.ctx, failed.ID, nil))

	counts, err := s.jobRepo.CountByStatus(s.ctx)
	s.NoError(err)
	s.Equal(int64(1), counts[models.JobStatusPending.String()])
	s.Equal(int64(1), counts[models.JobStatusPosted.String()])
	s.Equal(int64(1), counts[models.JobStatusFailed.String()])
}
