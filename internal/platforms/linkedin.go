package platforms

import (
	"context"
	"fmt"
)

type linkedinCredentials struct {
	AccessToken string `json:"access_token"`
}

// LinkedIn validates media and credentials; the UGC post API is gated
// behind an approved marketing application.
type LinkedIn struct {
	credentialsFile string
	creds           linkedinCredentials
	authenticated   bool
}

// NewLinkedIn creates the LinkedIn adapter
func NewLinkedIn(credentialsFile string) *LinkedIn {
	return &LinkedIn{credentialsFile: credentialsFile}
}

// Name returns the registry key
func (l *LinkedIn) Name() string { return "linkedin" }

// DisplayName returns the human readable name
func (l *LinkedIn) DisplayName() string { return "LinkedIn" }

// Limits returns the LinkedIn video constraints
func (l *LinkedIn) Limits() Limits {
	return Limits{
		MaxDurationSec:       600,
		MinDurationSec:       3,
		AspectRatio:          "16:9",
		MaxFileSize:          200 * 1024 * 1024,
		SupportedFormats:     []string{"mp4", "mov"},
		MaxTitleLength:       200,
		MaxDescriptionLength: 3000,
		MaxTags:              30,
		MaxHashtags:          30,
		RequiresAuth:         true,
	}
}

// IsAuthenticated reports whether the access token has been loaded
func (l *LinkedIn) IsAuthenticated() bool { return l.authenticated }

// Authenticate loads the access token from the credential file
func (l *LinkedIn) Authenticate() error {
	if l.authenticated {
		return nil
	}
	if err := loadCredentialFile(l.credentialsFile, &l.creds); err != nil {
		return err
	}
	if l.creds.AccessToken == "" {
		return fmt.Errorf("linkedin credentials require access_token")
	}
	l.authenticated = true
	return nil
}

// ValidateMedia checks the local file against the LinkedIn limits
func (l *LinkedIn) ValidateMedia(path string) error {
	return l.Limits().CheckMedia(path)
}

// ValidateMetadata checks title/description/tags against the LinkedIn limits
func (l *LinkedIn) ValidateMetadata(title, description string, tags []string) error {
	return l.Limits().CheckMetadata(title, description, tags)
}

// Upload validates locally, then reports the approved-application
// requirement as a failed result.
func (l *LinkedIn) Upload(_ context.Context, req UploadRequest) UploadResult {
	if !l.IsAuthenticated() {
		if err := l.Authenticate(); err != nil {
			return Failure(l.Name(), "authentication failed: %v", err)
		}
	}

	if err := l.ValidateMedia(req.MediaPath); err != nil {
		return Failure(l.Name(), "%v", err)
	}
	if err := l.ValidateMetadata(req.Title, req.Description, req.Tags); err != nil {
		return Failure(l.Name(), "%v", err)
	}

	return Failure(l.Name(), "linkedin video posting requires an approved application for the UGC post API")
}
