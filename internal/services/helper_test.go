package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/db/repos"
	"github.com/clipforge/clipforge/internal/dispatcher"
	"github.com/clipforge/clipforge/internal/manifest"
	"github.com/clipforge/clipforge/internal/platforms"
)

// fakeAdapter is a scripted destination for service tests
type fakeAdapter struct {
	name      string
	uploadErr string
	uploads   int
	// onUpload, when set, runs before the upload result is produced
	onUpload func()
}

func (f *fakeAdapter) Name() string                                    { return f.name }
func (f *fakeAdapter) DisplayName() string                             { return f.name }
func (f *fakeAdapter) Limits() platforms.Limits                        { return platforms.Limits{} }
func (f *fakeAdapter) Authenticate() error                             { return nil }
func (f *fakeAdapter) IsAuthenticated() bool                           { return true }
func (f *fakeAdapter) ValidateMedia(string) error                      { return nil }
func (f *fakeAdapter) ValidateMetadata(string, string, []string) error { return nil }
func (f *fakeAdapter) Upload(_ context.Context, _ platforms.UploadRequest) platforms.UploadResult {
	f.uploads++
	if f.onUpload != nil {
		f.onUpload()
	}
	if f.uploadErr != "" {
		return platforms.Failure(f.name, "%s", f.uploadErr)
	}
	return platforms.UploadResult{Success: true, Destination: f.name, ExternalURL: "https://example.com/" + f.name}
}

// TestSetup wires real repositories and services over an in-memory database
type TestSetup struct {
	DB        *gorm.DB
	JobRepo   *repos.PublishJobRepository
	Manifests *manifest.Store
	Registry  *platforms.Registry
	Scheduler *Scheduler
	Processor *Processor
	Jobs      *Jobs
	Adapters  map[string]*fakeAdapter
	ctx       context.Context
}

// NewTestSetup builds a test setup with the given fake destinations
func NewTestSetup(t *testing.T, adapters ...*fakeAdapter) *TestSetup {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.PublishJob{})
	require.NoError(t, err, "Failed to run migrations")

	// Dropping the last connection discards the shared in-memory database
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(adapters) == 0 {
		adapters = []*fakeAdapter{
			{name: "youtube"},
			{name: "tiktok"},
		}
	}
	byName := make(map[string]*fakeAdapter, len(adapters))
	platformList := make([]platforms.Platform, 0, len(adapters))
	for _, a := range adapters {
		byName[a.name] = a
		platformList = append(platformList, a)
	}

	registry, err := platforms.NewRegistry(platformList...)
	require.NoError(t, err)

	jobRepo := repos.NewPublishJobRepository(db)
	manifests := manifest.NewStore(t.TempDir())
	d := dispatcher.New(registry)

	return &TestSetup{
		DB:        db,
		JobRepo:   jobRepo,
		Manifests: manifests,
		Registry:  registry,
		Scheduler: NewScheduler(jobRepo, manifests, registry, nil),
		Processor: NewProcessor(jobRepo, manifests, d, true),
		Jobs:      NewJobs(jobRepo),
		Adapters:  byName,
		ctx:       context.Background(),
	}
}

// WriteManifest creates a manifest plus media files for a source video
func (s *TestSetup) WriteManifest(t *testing.T, sourceID string, clips []manifest.Clip) {
	t.Helper()
	dir := filepath.Join(s.Manifests.Root(), sourceID)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "clips"), 0o755))

	data, err := json.Marshal(clips)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0o644))

	for _, clip := range clips {
		mediaPath := filepath.Join(dir, "clips", clip.FileName)
		require.NoError(t, os.WriteFile(mediaPath, []byte("video"), 0o644))
	}
}

func testClips(n int) []manifest.Clip {
	clips := make([]manifest.Clip, n)
	for i := range clips {
		clips[i] = manifest.Clip{
			ClipIndex:   i + 1,
			Title:       "Clip " + string(rune('A'+i)),
			Description: "Generated highlight",
			FileName:    "clip_" + string(rune('a'+i)) + ".mp4",
			Duration:    42.5,
			Tags:        []string{"gaming", "highlight"},
		}
	}
	return clips
}
