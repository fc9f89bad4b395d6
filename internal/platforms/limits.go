package platforms

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Limits describes the hard constraints a destination imposes on media
// and metadata. Validation happens locally, before any network call.
type Limits struct {
	// Media constraints
	MaxDurationSec   float64  `json:"max_duration_sec"`
	MinDurationSec   float64  `json:"min_duration_sec"`
	AspectRatio      string   `json:"aspect_ratio"`
	MaxFileSize      int64    `json:"max_file_size"`
	SupportedFormats []string `json:"supported_formats"`

	// Metadata constraints
	MaxTitleLength       int `json:"max_title_length"`
	MaxDescriptionLength int `json:"max_description_length"`
	MaxTags              int `json:"max_tags"`
	MaxHashtags          int `json:"max_hashtags"`

	// API constraints
	RequiresAuth     bool `json:"requires_auth"`
	RateLimitPerDay  int  `json:"rate_limit_per_day,omitempty"`
	RateLimitPerHour int  `json:"rate_limit_per_hour,omitempty"`
}

// CheckMedia validates a local media file against the limits
func (l Limits) CheckMedia(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("media file not found: %s", path)
	}

	if l.MaxFileSize > 0 && info.Size() > l.MaxFileSize {
		maxMB := float64(l.MaxFileSize) / (1024 * 1024)
		actualMB := float64(info.Size()) / (1024 * 1024)
		return fmt.Errorf("file too large: %.1fMB (max: %.1fMB)", actualMB, maxMB)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, format := range l.SupportedFormats {
		if ext == format {
			return nil
		}
	}
	return fmt.Errorf("unsupported format: %s (supported: %s)", ext, strings.Join(l.SupportedFormats, ", "))
}

// CheckMetadata validates title, description and tags against the limits.
// Length ceilings count characters, not bytes, matching how the
// destinations themselves count.
func (l Limits) CheckMetadata(title, description string, tags []string) error {
	if titleLen := utf8.RuneCountInString(title); l.MaxTitleLength > 0 && titleLen > l.MaxTitleLength {
		return fmt.Errorf("title too long: %d chars (max: %d)", titleLen, l.MaxTitleLength)
	}
	if descLen := utf8.RuneCountInString(description); l.MaxDescriptionLength > 0 && descLen > l.MaxDescriptionLength {
		return fmt.Errorf("description too long: %d chars (max: %d)", descLen, l.MaxDescriptionLength)
	}
	if l.MaxTags > 0 && len(tags) > l.MaxTags {
		return fmt.Errorf("too many tags: %d (max: %d)", len(tags), l.MaxTags)
	}
	return nil
}

// FormatHashtags renders tags as a hashtag string, stripping existing
// hash marks and spaces and capping at the destination's hashtag limit.
func (l Limits) FormatHashtags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(tag), "#"), " ", "")
		if tag == "" {
			continue
		}
		clean = append(clean, "#"+tag)
	}
	if l.MaxHashtags > 0 && len(clean) > l.MaxHashtags {
		clean = clean[:l.MaxHashtags]
	}
	return strings.Join(clean, " ")
}

// truncate clips s to at most max characters, never splitting a rune;
// a zero max means no limit
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
