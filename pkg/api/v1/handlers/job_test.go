package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clipforge/clipforge/config"
	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/db/repos"
	"github.com/clipforge/clipforge/internal/dispatcher"
	"github.com/clipforge/clipforge/internal/manifest"
	"github.com/clipforge/clipforge/internal/platforms"
	"github.com/clipforge/clipforge/internal/services"
	"github.com/clipforge/clipforge/internal/types"
)

// stubPlatform is an always-authenticated destination that accepts any upload
type stubPlatform struct {
	name string
}

func (p *stubPlatform) Name() string                                    { return p.name }
func (p *stubPlatform) DisplayName() string                             { return p.name }
func (p *stubPlatform) Limits() platforms.Limits                        { return platforms.Limits{} }
func (p *stubPlatform) Authenticate() error                             { return nil }
func (p *stubPlatform) IsAuthenticated() bool                           { return true }
func (p *stubPlatform) ValidateMedia(string) error                      { return nil }
func (p *stubPlatform) ValidateMetadata(string, string, []string) error { return nil }
func (p *stubPlatform) Upload(_ context.Context, _ platforms.UploadRequest) platforms.UploadResult {
	return platforms.UploadResult{Success: true, Destination: p.name}
}

type JobHandlerTestSuite struct {
	suite.Suite
	DB      *gorm.DB
	JobRepo *repos.PublishJobRepository
	app     *fiber.App
}

func (s *JobHandlerTestSuite) SetupSuite() {
	var err error
	s.DB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		s.T().Fatal("failed to connect database")
	}

	err = s.DB.AutoMigrate(&models.PublishJob{})
	if err != nil {
		s.T().Fatal("failed to migrate database schema")
	}

	registry, err := platforms.NewRegistry(
		&stubPlatform{name: "youtube"},
		&stubPlatform{name: "tiktok"},
	)
	s.Require().NoError(err)

	s.JobRepo = repos.NewPublishJobRepository(s.DB)
	manifests := manifest.NewStore(s.T().TempDir())
	s.writeManifest(manifests, "vid1", 2)

	scheduler := services.NewScheduler(s.JobRepo, manifests, registry, nil)
	processor := services.NewProcessor(s.JobRepo, manifests, dispatcher.New(registry), true)
	jobs := services.NewJobs(s.JobRepo)
	handler := NewJobHandler(scheduler, processor, jobs)

	s.app = fiber.New()
	s.app.Post("/schedule/batch", handler.ScheduleBatch)
}

func (s *JobHandlerTestSuite) TearDownSuite() {
	sqlDB, err := s.DB.DB()
	if err == nil {
		err = sqlDB.Close()
		s.NoError(err, "failed to close database connection")
	}
}

func TestJobHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(JobHandlerTestSuite))
}

func (s *JobHandlerTestSuite) writeManifest(manifests *manifest.Store, sourceID string, clips int) {
	dir := filepath.Join(manifests.Root(), sourceID)
	s.Require().NoError(os.MkdirAll(filepath.Join(dir, "clips"), 0o755))

	entries := make([]manifest.Clip, clips)
	for i := range entries {
		entries[i] = manifest.Clip{
			ClipIndex: i + 1,
			Title:     "Clip " + string(rune('A'+i)),
			FileName:  "clip_" + string(rune('a'+i)) + ".mp4",
		}
		mediaPath := filepath.Join(dir, "clips", entries[i].FileName)
		s.Require().NoError(os.WriteFile(mediaPath, []byte("video"), 0o644))
	}
	data, err := json.Marshal(entries)
	s.Require().NoError(err)
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0o644))
}

func (s *JobHandlerTestSuite) scheduleBatch(body string) (*http.Response, types.SlugResponse) {
	req := httptest.NewRequest("POST", "/schedule/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	var envelope types.SlugResponse
	s.Require().NoError(json.Unmarshal(raw, &envelope))
	return resp, envelope
}

func (s *JobHandlerTestSuite) TestScheduleBatchRejectsNegativeInterval() {
	resp, envelope := s.scheduleBatch(`{"source_id": "vid1", "interval_hours": -2}`)

	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal(types.InvalidInputSlug, envelope.Slug)
	s.Equal(ErrMsgInvalidInterval, envelope.Error)
}

func (s *JobHandlerTestSuite) TestScheduleBatchZeroIntervalUsesDefault() {
	resp, envelope := s.scheduleBatch(
		`{"source_id": "vid1", "start_time": "2026-03-01T09:00:00Z", "interval_hours": 0}`)

	s.Equal(fiber.StatusCreated, resp.StatusCode)
	s.Equal(types.SuccessSlug, envelope.Slug)

	data, err := json.Marshal(envelope.Data)
	s.Require().NoError(err)
	var created types.ScheduleBatchResponse
	s.Require().NoError(json.Unmarshal(data, &created))
	s.Require().Len(created.JobIDs, 2)

	// Zero interval falls back to the server default spacing
	first, err := s.JobRepo.GetByID(context.Background(), created.JobIDs[0])
	s.Require().NoError(err)
	second, err := s.JobRepo.GetByID(context.Background(), created.JobIDs[1])
	s.Require().NoError(err)
	s.WithinDuration(first.ScheduledAt.Add(config.DefaultPostInterval), second.ScheduledAt, time.Second)
}

func (s *JobHandlerTestSuite) TestScheduleBatchRequiresSourceID() {
	resp, envelope := s.scheduleBatch(`{"interval_hours": 12}`)

	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal(types.InvalidInputSlug, envelope.Slug)
	s.Equal(ErrMsgSourceRequired, envelope.Error)
}
