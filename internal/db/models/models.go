// Package models defines the database models for the publish pipeline
package models

const (
	// DefaultLimit is the max number of rows retrieved from the DB per listing call
	DefaultLimit = 50
)

// ListOptions represents pagination and filtering options for list operations
type ListOptions struct {
	Limit  int        `json:"limit"`  // Number of items to return
	Offset int        `json:"offset"` // Number of items to skip
	Status *JobStatus `json:"status,omitempty"`
}
