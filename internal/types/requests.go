package types

import "time"

// ScheduleBatchRequest asks the scheduler to queue every clip of a source
// video, spaced by a fixed interval.
type ScheduleBatchRequest struct {
	// SourceID identifies the source video whose clips are scheduled.
	SourceID string `json:"source_id"`

	// StartTime is when the first clip goes out. Zero means now.
	StartTime time.Time `json:"start_time"`

	// IntervalHours is the spacing between consecutive clips. Zero uses
	// the server default.
	IntervalHours float64 `json:"interval_hours"`

	// Destinations limits publishing to the named destinations. Empty
	// means every registered destination.
	Destinations []string `json:"destinations"`
}

// ScheduleBatchResponse reports the jobs created by a batch request.
type ScheduleBatchResponse struct {
	BatchID string `json:"batch_id"`
	JobIDs  []uint `json:"job_ids"`
}

// ProcessResponse reports the outcome of one processing run.
type ProcessResponse struct {
	Due     int  `json:"due"`
	Posted  int  `json:"posted"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
	Errors  int  `json:"errors"`
	DryRun  bool `json:"dry_run"`
}

// DestinationInfo describes one registered destination.
type DestinationInfo struct {
	Name          string `json:"name"`
	DisplayName   string `json:"display_name"`
	Authenticated bool   `json:"authenticated"`

	// Platform constraints, informational only.
	MaxDurationSec float64 `json:"max_duration_sec"`
	MaxFileSize    int64   `json:"max_file_size"`
	MaxTitleLength int     `json:"max_title_length"`
	MaxHashtags    int     `json:"max_hashtags"`
}

// ListResponse is a generic response structure for list endpoints.
type ListResponse[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}
