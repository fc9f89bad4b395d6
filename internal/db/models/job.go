package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Database field names used in queries
const (
	// JobScheduledAtField is the database field name for the job scheduled timestamp
	JobScheduledAtField = "scheduled_at"
	// JobStatusField is the database field name for the job status
	JobStatusField = "status"
)

// JobStatus represents the current state of a publish job
type JobStatus int

// Job status constants
const (
	// JobStatusUnknown represents an unknown or invalid job status
	JobStatusUnknown JobStatus = iota
	// JobStatusPending indicates the job is waiting for its scheduled time
	JobStatusPending
	// JobStatusPosted indicates at least one destination accepted the upload
	JobStatusPosted
	// JobStatusFailed indicates every destination rejected the upload
	JobStatusFailed
)

var jobStatusNames = []string{
	"unknown",
	"pending",
	"posted",
	"failed",
}

// ParseJobStatus converts a string representation of a job status to JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	for i, status := range jobStatusNames {
		if status == str {
			return JobStatus(i), nil
		}
	}
	return JobStatusUnknown, fmt.Errorf("invalid job status: %s", str)
}

func (s JobStatus) String() string {
	if int(s) < 0 || int(s) >= len(jobStatusNames) {
		return "unknown"
	}
	return jobStatusNames[s]
}

// MarshalJSON implements the json.Marshaler interface for JobStatus
func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for JobStatus
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status, err := ParseJobStatus(str)
	if err != nil {
		return err
	}

	*s = status
	return nil
}

// StringList is a comma-delimited list stored in a single text column.
// Destination sets and tag lists use it so the row stays a flat record.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	var str string
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if str == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(str, ",")
	return nil
}

// PublishJob is one scheduled publish request: a specific clip, a set of
// destinations, and the time at which the processor may dispatch it.
// The payload columns are a snapshot taken at schedule time so processing
// never depends on mutable external state.
type PublishJob struct {
	ID           uint       `json:"id" gorm:"primarykey"`
	BatchID      string     `json:"batch_id" gorm:"index"`
	SourceID     string     `json:"source_id" gorm:"not null;index:idx_source_clip"`
	ClipIndex    int        `json:"clip_index" gorm:"not null;index:idx_source_clip"`
	Destinations StringList `json:"destinations" gorm:"not null;type:text"`
	ScheduledAt  time.Time  `json:"scheduled_at" gorm:"not null;index:idx_due,priority:2"`
	Status       JobStatus  `json:"status" gorm:"index:idx_due,priority:1"`

	// Payload snapshot
	Title        string     `json:"title"`
	Description  string     `json:"description" gorm:"type:text"`
	Tags         StringList `json:"tags,omitempty" gorm:"type:text"`
	MediaPath    string     `json:"media_path,omitempty"`
	MediaURL     string     `json:"media_url,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`

	// Result holds the per-destination outcomes of the last processing
	// attempt, exactly one entry per destination in Destinations.
	Result json.RawMessage `json:"result,omitempty" gorm:"type:jsonb"`

	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// Terminal reports whether the job has left the pending state
func (j *PublishJob) Terminal() bool {
	return j.Status == JobStatusPosted || j.Status == JobStatusFailed
}
