package platforms

import (
	"context"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
)

const tiktokAPIBase = "https://open.tiktokapis.com/v2"

type tiktokCredentials struct {
	AccessToken  string `json:"access_token"`
	ClientKey    string `json:"client_key"`
	ClientSecret string `json:"client_secret"`
}

// TikTok validates credentials against the open API. The Content Posting
// API itself is gated behind an approved developer account, so Upload
// reports that requirement as a failed result after local validation.
type TikTok struct {
	credentialsFile string
	creds           tiktokCredentials
	authenticated   bool
}

// NewTikTok creates the TikTok adapter
func NewTikTok(credentialsFile string) *TikTok {
	return &TikTok{credentialsFile: credentialsFile}
}

// Name returns the registry key
func (t *TikTok) Name() string { return "tiktok" }

// DisplayName returns the human readable name
func (t *TikTok) DisplayName() string { return "TikTok" }

// Limits returns the TikTok constraints
func (t *TikTok) Limits() Limits {
	return Limits{
		MaxDurationSec:       600,
		MinDurationSec:       1,
		AspectRatio:          "9:16",
		MaxFileSize:          500 * 1024 * 1024,
		SupportedFormats:     []string{"mp4", "mov", "webm"},
		MaxTitleLength:       150,
		MaxDescriptionLength: 2200,
		MaxTags:              30,
		MaxHashtags:          30,
		RequiresAuth:         true,
	}
}

// IsAuthenticated reports whether the access token has been validated
func (t *TikTok) IsAuthenticated() bool { return t.authenticated }

// Authenticate loads the credential file and checks the token against
// the user info endpoint
func (t *TikTok) Authenticate() error {
	if t.authenticated {
		return nil
	}

	if err := loadCredentialFile(t.credentialsFile, &t.creds); err != nil {
		return err
	}
	if t.creds.AccessToken == "" {
		return fmt.Errorf("tiktok credentials require access_token")
	}

	agent := fiber.Get(tiktokAPIBase + "/user/info/")
	agent.Set(fiber.HeaderAuthorization, "Bearer "+t.creds.AccessToken)
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("tiktok token validation: %w", errs[0])
	}
	if code != fiber.StatusOK && code != fiber.StatusCreated {
		return fmt.Errorf("tiktok token validation failed (approved developer account required): %s", string(body))
	}

	t.authenticated = true
	return nil
}

// ValidateMedia checks the local file against the TikTok limits
func (t *TikTok) ValidateMedia(path string) error {
	return t.Limits().CheckMedia(path)
}

// ValidateMetadata checks the caption and tags against the TikTok limits
func (t *TikTok) ValidateMetadata(title, description string, tags []string) error {
	return t.Limits().CheckMetadata(title, description, tags)
}

// Upload validates locally, then reports the Content Posting API access
// requirement as a failed result.
func (t *TikTok) Upload(_ context.Context, req UploadRequest) UploadResult {
	if !t.IsAuthenticated() {
		if err := t.Authenticate(); err != nil {
			return Failure(t.Name(), "authentication failed: %v", err)
		}
	}

	if err := t.ValidateMedia(req.MediaPath); err != nil {
		return Failure(t.Name(), "%v", err)
	}

	limits := t.Limits()
	caption := req.Title
	if caption == "" {
		caption = req.Description
	}
	if len(req.Tags) > 0 {
		caption += " " + limits.FormatHashtags(req.Tags)
	}
	caption = truncate(caption, limits.MaxTitleLength)

	if err := t.ValidateMetadata(caption, req.Description, req.Tags); err != nil {
		return Failure(t.Name(), "%v", err)
	}

	return Failure(t.Name(), "tiktok content posting requires an approved developer account and user consent; see https://developers.tiktok.com/doc/content-posting-api-get-started/")
}
