// Package handlers provides HTTP request handling
package handlers

// Common error messages
const (
	ErrMsgInvalidReqFormat = "Invalid request format"
	ErrMsgInvalidJobID     = "Invalid job id"
	ErrMsgJobNotFound      = "Job not found"
	ErrMsgJobNotPending    = "Job is not pending"
	ErrMsgSourceRequired   = "Source id is required"
	ErrMsgInvalidInterval  = "Interval cannot be negative"
	ErrMsgInvalidStatus    = "Invalid job status"
	ErrMsgBatchIDRequired  = "Batch id is required"
)
