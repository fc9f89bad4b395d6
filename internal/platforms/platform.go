// Package platforms defines the destination adapter abstraction and one
// concrete adapter per supported publishing destination.
//
// Adapters are deliberately symmetric: every destination, no matter how
// exotic its underlying protocol, exposes the same capability set so the
// dispatcher never has to special-case one of them. All failure modes
// surface as UploadResult values; an adapter never lets an error or panic
// escape its boundary.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// UploadRequest carries one media item and its metadata to an adapter.
type UploadRequest struct {
	// MediaPath is the local file to publish.
	MediaPath string `json:"media_path"`
	// MediaURL is a publicly reachable copy of the media. Destinations
	// that only ingest by URL use it; when set it is preferred over
	// MediaPath.
	MediaURL     string `json:"media_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`

	// Options holds destination-specific settings, e.g. "privacy_status"
	// for YouTube.
	Options map[string]string `json:"options,omitempty"`
}

// UploadResult is the outcome of one publish attempt on one destination.
type UploadResult struct {
	Success     bool   `json:"success"`
	Destination string `json:"destination"`
	ExternalID  string `json:"external_id,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Failure builds a failed UploadResult for the given destination
func Failure(destination, format string, args ...interface{}) UploadResult {
	return UploadResult{
		Success:     false,
		Destination: destination,
		Error:       fmt.Sprintf(format, args...),
	}
}

// Platform is the capability set every destination adapter implements.
type Platform interface {
	// Name is the stable registry key, e.g. "youtube"
	Name() string
	// DisplayName is the human readable name, e.g. "YouTube Shorts"
	DisplayName() string
	// Limits returns the destination's hard constraints
	Limits() Limits

	// Authenticate establishes credentials. It is idempotent: calling it
	// when already authenticated is a cheap no-op.
	Authenticate() error
	// IsAuthenticated reports credential state without any network call
	IsAuthenticated() bool

	// ValidateMedia checks existence, size and container format against Limits
	ValidateMedia(path string) error
	// ValidateMetadata checks title/description/tag ceilings against Limits
	ValidateMetadata(title, description string, tags []string) error

	// Upload publishes the media. It authenticates first when needed,
	// validates media and metadata before any network call, and reports
	// every failure mode as UploadResult{Success: false}.
	Upload(ctx context.Context, req UploadRequest) UploadResult
}

// loadCredentialFile reads a JSON credential file into v. Adapters load
// credentials lazily, on the first Authenticate call.
func loadCredentialFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("credential file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("credential file %s: %w", path, err)
	}
	return nil
}
