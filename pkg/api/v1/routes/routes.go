// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/clipforge/clipforge/pkg/api/v1/handlers"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Destination routes
	GetDestinations = "GetDestinations"

	// Job routes
	GetJobs     = "GetJobs"
	GetJobStats = "GetJobStats"
	GetBatch    = "GetBatch"
	GetJob      = "GetJob"
	CancelJob   = "CancelJob"

	// Schedule routes
	ScheduleBatch = "ScheduleBatch"
	ProcessDue    = "ProcessDue"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the
// order they are registered. Static paths must come before /:id params.
func RegisterRoutes(
	app *fiber.App,
	jobHandler *handlers.JobHandler,
	destinationHandler *handlers.DestinationHandler,
) {
	// API v1 routes
	v1 := app.Group(APIv1Prefix)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	// Destination endpoints
	destinations := v1.Group("/destinations")
	destinations.Get("/", destinationHandler.ListDestinations).Name(GetDestinations)

	// Job endpoints
	jobs := v1.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs).Name(GetJobs)
	jobs.Get("/stats", jobHandler.GetStats).Name(GetJobStats)
	jobs.Get("/batch/:batch_id", jobHandler.ListBatch).Name(GetBatch)
	jobs.Get("/:id", jobHandler.GetJob).Name(GetJob)
	jobs.Delete("/:id", jobHandler.CancelJob).Name(CancelJob)

	// Schedule endpoints
	schedule := v1.Group("/schedule")
	schedule.Post("/batch", jobHandler.ScheduleBatch).Name(ScheduleBatch)
	schedule.Post("/process", jobHandler.ProcessDue).Name(ProcessDue)
}

// initRouteCache initializes the route cache by creating a mock app and extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app
		app := fiber.New()

		// Create empty handlers for route registration
		mockJobHandler := &handlers.JobHandler{}
		mockDestinationHandler := &handlers.DestinationHandler{}

		RegisterRoutes(app, mockJobHandler, mockDestinationHandler)

		// Extract routes from the app
		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()

	// Initialize cache if needed
	if routeCache == nil {
		routeCacheMu.RUnlock()
		initRouteCache()
		routeCacheMu.RLock()
	}

	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// JobsURL returns the URL for listing jobs
func JobsURL(queryParams url.Values) string {
	return BuildURL(GetJobs, nil, queryParams)
}

// JobStatsURL returns the URL for job counts by status
func JobStatsURL() string {
	return BuildURL(GetJobStats, nil, nil)
}

// JobURL returns the URL for a single job
func JobURL(id string) string {
	return BuildURL(GetJob, map[string]string{"id": id}, nil)
}

// CancelJobURL returns the URL for canceling a job
func CancelJobURL(id string) string {
	return BuildURL(CancelJob, map[string]string{"id": id}, nil)
}

// BatchURL returns the URL for listing a scheduling batch
func BatchURL(batchID string) string {
	return BuildURL(GetBatch, map[string]string{"batch_id": batchID}, nil)
}

// ScheduleBatchURL returns the URL for scheduling a batch
func ScheduleBatchURL() string {
	return BuildURL(ScheduleBatch, nil, nil)
}

// ProcessDueURL returns the URL for triggering a processing run
func ProcessDueURL(queryParams url.Values) string {
	return BuildURL(ProcessDue, nil, queryParams)
}

// DestinationsURL returns the URL for listing destinations
func DestinationsURL() string {
	return BuildURL(GetDestinations, nil, nil)
}
