package platforms

import (
	"context"
	"fmt"
)

type facebookCredentials struct {
	AccessToken string `json:"access_token"`
	PageID      string `json:"page_id"`
}

// Facebook validates media and credentials; Reels publishing needs app
// review approval and a hosted media URL.
type Facebook struct {
	credentialsFile string
	creds           facebookCredentials
	authenticated   bool
}

// NewFacebook creates the Facebook Reels adapter
func NewFacebook(credentialsFile string) *Facebook {
	return &Facebook{credentialsFile: credentialsFile}
}

// Name returns the registry key
func (f *Facebook) Name() string { return "facebook" }

// DisplayName returns the human readable name
func (f *Facebook) DisplayName() string { return "Facebook Reels" }

// Limits returns the Facebook Reels constraints
func (f *Facebook) Limits() Limits {
	return Limits{
		MaxDurationSec:       90,
		MinDurationSec:       3,
		AspectRatio:          "9:16",
		MaxFileSize:          1024 * 1024 * 1024,
		SupportedFormats:     []string{"mp4", "mov"},
		MaxTitleLength:       0, // Reels have no title, only a caption
		MaxDescriptionLength: 2200,
		MaxTags:              30,
		MaxHashtags:          30,
		RequiresAuth:         true,
	}
}

// IsAuthenticated reports whether the access token has been loaded
func (f *Facebook) IsAuthenticated() bool { return f.authenticated }

// Authenticate loads the access token from the credential file
func (f *Facebook) Authenticate() error {
	if f.authenticated {
		return nil
	}
	if err := loadCredentialFile(f.credentialsFile, &f.creds); err != nil {
		return err
	}
	if f.creds.AccessToken == "" {
		return fmt.Errorf("facebook credentials require access_token")
	}
	f.authenticated = true
	return nil
}

// ValidateMedia checks the local file against the Reels limits
func (f *Facebook) ValidateMedia(path string) error {
	return f.Limits().CheckMedia(path)
}

// ValidateMetadata checks the caption and tags against the Reels limits
func (f *Facebook) ValidateMetadata(title, description string, tags []string) error {
	return f.Limits().CheckMetadata(title, description, tags)
}

// Upload validates locally, then reports the app review requirement as a
// failed result.
func (f *Facebook) Upload(_ context.Context, req UploadRequest) UploadResult {
	if !f.IsAuthenticated() {
		if err := f.Authenticate(); err != nil {
			return Failure(f.Name(), "authentication failed: %v", err)
		}
	}

	if err := f.ValidateMedia(req.MediaPath); err != nil {
		return Failure(f.Name(), "%v", err)
	}

	limits := f.Limits()
	caption := req.Description
	if len(req.Tags) > 0 {
		caption += "\n\n" + limits.FormatHashtags(req.Tags)
	}
	caption = truncate(caption, limits.MaxDescriptionLength)

	if err := f.ValidateMetadata("", caption, req.Tags); err != nil {
		return Failure(f.Name(), "%v", err)
	}

	return Failure(f.Name(), "facebook reels publishing requires app review approval and a hosted media URL")
}
