package handlers

import (
	"errors"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/clipforge/clipforge/config"
	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/db/repos"
	"github.com/clipforge/clipforge/internal/services"
	"github.com/clipforge/clipforge/internal/types"
)

// JobHandler handles HTTP requests for scheduling and job operations
type JobHandler struct {
	scheduler *services.Scheduler
	processor *services.Processor
	jobs      *services.Jobs
}

// NewJobHandler creates a new job handler instance
func NewJobHandler(scheduler *services.Scheduler, processor *services.Processor, jobs *services.Jobs) *JobHandler {
	return &JobHandler{
		scheduler: scheduler,
		processor: processor,
		jobs:      jobs,
	}
}

// ScheduleBatch handles the request to schedule every clip of a source video
func (h *JobHandler) ScheduleBatch(c *fiber.Ctx) error {
	var req types.ScheduleBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidReqFormat))
	}

	if req.SourceID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgSourceRequired))
	}
	if req.IntervalHours < 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidInterval))
	}

	start := req.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	interval := config.DefaultPostInterval
	if req.IntervalHours > 0 {
		interval = time.Duration(req.IntervalHours * float64(time.Hour))
	}

	batchID, ids, err := h.scheduler.ScheduleBatch(c.Context(), req.SourceID, start, interval, req.Destinations)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(types.Success(types.ScheduleBatchResponse{
		BatchID: batchID,
		JobIDs:  ids,
	}))
}

// ProcessDue handles the request to run the processor once
func (h *JobHandler) ProcessDue(c *fiber.Ctx) error {
	dryRun := c.QueryBool("dry_run", false)

	stats, err := h.processor.ProcessDue(c.Context(), services.ProcessOptions{DryRun: dryRun})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(types.ProcessResponse{
		Due:     stats.Due,
		Posted:  stats.Posted,
		Failed:  stats.Failed,
		Skipped: stats.Skipped,
		Errors:  stats.Errors,
		DryRun:  dryRun,
	}))
}

// ListJobs handles the request to list jobs ordered by scheduled time
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	opts := &models.ListOptions{Limit: models.DefaultLimit}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := models.ParseJobStatus(statusStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(ErrMsgInvalidStatus))
		}
		opts.Status = &status
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	opts.Offset = (page - 1) * opts.Limit

	jobs, err := h.jobs.List(c.Context(), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(types.ListResponse[models.PublishJob]{
		Rows:  jobs,
		Total: len(jobs),
	}))
}

// ListBatch handles the request to list every job of a scheduling batch
func (h *JobHandler) ListBatch(c *fiber.Ctx) error {
	batchID := c.Params("batch_id")
	if batchID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgBatchIDRequired))
	}

	jobs, err := h.jobs.ListBatch(c.Context(), batchID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(types.ListResponse[models.PublishJob]{
		Rows:  jobs,
		Total: len(jobs),
	}))
}

// GetJob handles the request to get a job
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidJobID))
	}

	job, err := h.jobs.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, repos.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrNotFound(ErrMsgJobNotFound))
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(job))
}

// GetStats handles the request to get job counts by status
func (h *JobHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.jobs.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}
	return c.JSON(types.Success(stats))
}

// CancelJob handles the request to cancel a pending job
func (h *JobHandler) CancelJob(c *fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgInvalidJobID))
	}

	canceled, err := h.jobs.Cancel(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(err.Error()))
	}
	if !canceled {
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrInvalidInput(ErrMsgJobNotPending))
	}

	return c.JSON(types.Success(nil))
}

func parseJobID(c *fiber.Ctx) (uint, error) {
	// Using 32-bit limit for ParseUint
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
