package platforms

import (
	"context"
	"fmt"
)

type twitterCredentials struct {
	BearerToken string `json:"bearer_token"`
}

// Twitter composes the tweet locally; posting media requires OAuth 1.0a
// request signing, which Upload reports as a failed result.
type Twitter struct {
	credentialsFile string
	creds           twitterCredentials
	authenticated   bool
}

// NewTwitter creates the Twitter/X adapter
func NewTwitter(credentialsFile string) *Twitter {
	return &Twitter{credentialsFile: credentialsFile}
}

// Name returns the registry key
func (t *Twitter) Name() string { return "twitter" }

// DisplayName returns the human readable name
func (t *Twitter) DisplayName() string { return "Twitter/X" }

// Limits returns the Twitter video constraints
func (t *Twitter) Limits() Limits {
	return Limits{
		MaxDurationSec:       140,
		MinDurationSec:       0.5,
		AspectRatio:          "16:9",
		MaxFileSize:          512 * 1024 * 1024,
		SupportedFormats:     []string{"mp4", "mov"},
		MaxTitleLength:       280,
		MaxDescriptionLength: 280,
		MaxTags:              10,
		MaxHashtags:          10,
		RequiresAuth:         true,
		RateLimitPerDay:      300,
	}
}

// IsAuthenticated reports whether the bearer token has been loaded
func (t *Twitter) IsAuthenticated() bool { return t.authenticated }

// Authenticate loads the bearer token from the credential file
func (t *Twitter) Authenticate() error {
	if t.authenticated {
		return nil
	}
	if err := loadCredentialFile(t.credentialsFile, &t.creds); err != nil {
		return err
	}
	if t.creds.BearerToken == "" {
		return fmt.Errorf("twitter credentials require bearer_token")
	}
	t.authenticated = true
	return nil
}

// ValidateMedia checks the local file against the Twitter limits
func (t *Twitter) ValidateMedia(path string) error {
	return t.Limits().CheckMedia(path)
}

// ValidateMetadata checks the tweet text against the Twitter limits
func (t *Twitter) ValidateMetadata(title, description string, tags []string) error {
	return t.Limits().CheckMetadata(title, description, tags)
}

// Upload validates locally, then reports the OAuth signing requirement as
// a failed result.
func (t *Twitter) Upload(_ context.Context, req UploadRequest) UploadResult {
	if !t.IsAuthenticated() {
		if err := t.Authenticate(); err != nil {
			return Failure(t.Name(), "authentication failed: %v", err)
		}
	}

	if err := t.ValidateMedia(req.MediaPath); err != nil {
		return Failure(t.Name(), "%v", err)
	}

	limits := t.Limits()
	text := req.Title
	if req.Description != "" {
		text = fmt.Sprintf("%s\n\n%s", req.Title, req.Description)
	}
	if len(req.Tags) > 0 {
		text += "\n\n" + limits.FormatHashtags(req.Tags)
	}
	text = truncate(text, limits.MaxTitleLength)

	if err := t.ValidateMetadata(text, "", req.Tags); err != nil {
		return Failure(t.Name(), "%v", err)
	}

	return Failure(t.Name(), "twitter media upload requires OAuth 1.0a request signing; bearer-token access cannot post media")
}
