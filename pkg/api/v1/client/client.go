// Package client provides the API client for interacting with the publish pipeline API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/clipforge/clipforge/internal/db/models"
	"github.com/clipforge/clipforge/internal/types"
	"github.com/clipforge/clipforge/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Destination Endpoints
	GetDestinations(ctx context.Context) ([]types.DestinationInfo, error)

	// Job Endpoints
	GetJobs(ctx context.Context, status string, page int) ([]models.PublishJob, error)
	GetJobStats(ctx context.Context) (map[string]int64, error)
	GetBatch(ctx context.Context, batchID string) ([]models.PublishJob, error)
	GetJob(ctx context.Context, id uint) (models.PublishJob, error)
	CancelJob(ctx context.Context, id uint) error

	// Schedule Endpoints
	ScheduleBatch(ctx context.Context, req types.ScheduleBatchRequest) (types.ScheduleBatchResponse, error)
	ProcessDue(ctx context.Context, dryRun bool) (types.ProcessResponse, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and decodes the slug envelope into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	var slugResponse types.SlugResponse
	if err := json.Unmarshal(body, &slugResponse); err != nil {
		// Not a slug envelope, surface the raw body
		if statusCode < 200 || statusCode >= 300 {
			return &fiber.Error{
				Code:    statusCode,
				Message: string(body),
			}
		}
		if v != nil {
			return json.Unmarshal(body, v)
		}
		return nil
	}

	if slugResponse.Slug != types.SuccessSlug {
		return &fiber.Error{
			Code:    statusCode,
			Message: fmt.Sprintf("%s: %s", slugResponse.Slug, slugResponse.Error),
		}
	}

	if v == nil || slugResponse.Data == nil {
		return nil
	}

	// Data was decoded as interface{}, round-trip it into the target type
	dataJSON, err := json.Marshal(slugResponse.Data)
	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}
	if err := json.Unmarshal(dataJSON, v); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// HealthCheck checks the health of the API server
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode != http.StatusOK {
		return nil, &fiber.Error{Code: statusCode, Message: string(body)}
	}

	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return result, nil
}

// GetDestinations returns the registered destinations
func (c *APIClient) GetDestinations(ctx context.Context) ([]types.DestinationInfo, error) {
	var resp types.ListResponse[types.DestinationInfo]
	err := c.executeRequest(ctx, http.MethodGet, routes.DestinationsURL(), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// GetJobs lists jobs ordered by scheduled time, optionally filtered by status
func (c *APIClient) GetJobs(ctx context.Context, status string, page int) ([]models.PublishJob, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}

	var resp types.ListResponse[models.PublishJob]
	err := c.executeRequest(ctx, http.MethodGet, routes.JobsURL(query), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// GetJobStats returns job counts grouped by status
func (c *APIClient) GetJobStats(ctx context.Context) (map[string]int64, error) {
	var stats map[string]int64
	err := c.executeRequest(ctx, http.MethodGet, routes.JobStatsURL(), nil, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetBatch lists every job of a scheduling batch
func (c *APIClient) GetBatch(ctx context.Context, batchID string) ([]models.PublishJob, error) {
	var resp types.ListResponse[models.PublishJob]
	err := c.executeRequest(ctx, http.MethodGet, routes.BatchURL(batchID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// GetJob returns a single job by ID
func (c *APIClient) GetJob(ctx context.Context, id uint) (models.PublishJob, error) {
	var job models.PublishJob
	err := c.executeRequest(ctx, http.MethodGet, routes.JobURL(formatID(id)), nil, &job)
	return job, err
}

// CancelJob removes a pending job from the queue
func (c *APIClient) CancelJob(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, routes.CancelJobURL(formatID(id)), nil, nil)
}

// ScheduleBatch schedules every clip of a source video
func (c *APIClient) ScheduleBatch(ctx context.Context, req types.ScheduleBatchRequest) (types.ScheduleBatchResponse, error) {
	var resp types.ScheduleBatchResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.ScheduleBatchURL(), req, &resp)
	return resp, err
}

// ProcessDue triggers one processing run
func (c *APIClient) ProcessDue(ctx context.Context, dryRun bool) (types.ProcessResponse, error) {
	query := url.Values{}
	if dryRun {
		query.Set("dry_run", "true")
	}

	var resp types.ProcessResponse
	err := c.executeRequest(ctx, http.MethodPost, routes.ProcessDueURL(query), nil, &resp)
	return resp, err
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
