package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/clipforge/clipforge/internal/logger"
)

// Instagram Graph API configuration
const (
	instagramAPIBase = "https://graph.facebook.com/v18.0"
	// Container processing is asynchronous on Instagram's side; poll
	// until FINISHED or give up.
	instagramPollInterval = 5 * time.Second
	instagramPollLimit    = 60
)

type instagramCredentials struct {
	AccessToken        string `json:"access_token"`
	InstagramAccountID string `json:"instagram_account_id"`
}

// Instagram publishes clips as Reels through the Instagram Graph API.
// The API only ingests media by public URL, so uploads require the
// request to carry a MediaURL; local-only media fails fast.
type Instagram struct {
	credentialsFile string
	creds           instagramCredentials
	authenticated   bool
}

// NewInstagram creates the Instagram Reels adapter
func NewInstagram(credentialsFile string) *Instagram {
	return &Instagram{credentialsFile: credentialsFile}
}

// Name returns the registry key
func (i *Instagram) Name() string { return "instagram" }

// DisplayName returns the human readable name
func (i *Instagram) DisplayName() string { return "Instagram Reels" }

// Limits returns the Instagram Reels constraints
func (i *Instagram) Limits() Limits {
	return Limits{
		MaxDurationSec:       90,
		MinDurationSec:       1,
		AspectRatio:          "9:16",
		MaxFileSize:          100 * 1024 * 1024,
		SupportedFormats:     []string{"mp4", "mov"},
		MaxTitleLength:       0, // Reels have no title, only a caption
		MaxDescriptionLength: 2200,
		MaxTags:              30,
		MaxHashtags:          30,
		RequiresAuth:         true,
		RateLimitPerDay:      25,
	}
}

// IsAuthenticated reports whether the access token has been validated
func (i *Instagram) IsAuthenticated() bool { return i.authenticated }

// Authenticate loads the credential file and validates the access token
// against the Graph API
func (i *Instagram) Authenticate() error {
	if i.authenticated {
		return nil
	}

	if err := loadCredentialFile(i.credentialsFile, &i.creds); err != nil {
		return err
	}
	if i.creds.AccessToken == "" || i.creds.InstagramAccountID == "" {
		return fmt.Errorf("instagram credentials require access_token and instagram_account_id")
	}

	code, body, err := i.get("/me", url.Values{"access_token": {i.creds.AccessToken}})
	if err != nil {
		return fmt.Errorf("instagram token validation: %w", err)
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("instagram token validation failed: %s", string(body))
	}

	i.authenticated = true
	return nil
}

// ValidateMedia checks the local file against the Reels limits
func (i *Instagram) ValidateMedia(path string) error {
	return i.Limits().CheckMedia(path)
}

// ValidateMetadata checks the caption and tags against the Reels limits
func (i *Instagram) ValidateMetadata(title, description string, tags []string) error {
	return i.Limits().CheckMetadata(title, description, tags)
}

// Upload publishes the clip as a Reel: create a media container from the
// public URL, poll until Instagram finishes processing it, then publish.
func (i *Instagram) Upload(ctx context.Context, req UploadRequest) UploadResult {
	if !i.IsAuthenticated() {
		if err := i.Authenticate(); err != nil {
			return Failure(i.Name(), "authentication failed: %v", err)
		}
	}

	if req.MediaPath != "" {
		if err := i.ValidateMedia(req.MediaPath); err != nil {
			return Failure(i.Name(), "%v", err)
		}
	}

	limits := i.Limits()
	caption := req.Description
	if len(req.Tags) > 0 {
		caption += "\n\n" + limits.FormatHashtags(req.Tags)
	}
	caption = truncate(caption, limits.MaxDescriptionLength)

	if err := i.ValidateMetadata("", caption, req.Tags); err != nil {
		return Failure(i.Name(), "%v", err)
	}

	if req.MediaURL == "" {
		return Failure(i.Name(), "instagram requires a public media URL; configure a media host so clips are uploaded at schedule time")
	}

	containerID, err := i.createContainer(req.MediaURL, caption)
	if err != nil {
		return Failure(i.Name(), "container creation failed: %v", err)
	}

	if err := i.awaitContainer(ctx, containerID); err != nil {
		return Failure(i.Name(), "%v", err)
	}

	mediaID, err := i.publishContainer(containerID)
	if err != nil {
		return Failure(i.Name(), "publish failed: %v", err)
	}

	return UploadResult{
		Success:     true,
		Destination: i.Name(),
		ExternalID:  mediaID,
		ExternalURL: fmt.Sprintf("https://www.instagram.com/reel/%s", mediaID),
	}
}

func (i *Instagram) createContainer(mediaURL, caption string) (string, error) {
	params := url.Values{
		"access_token":  {i.creds.AccessToken},
		"video_url":     {mediaURL},
		"media_type":    {"REELS"},
		"caption":       {caption},
		"share_to_feed": {"true"},
	}
	code, body, err := i.post("/"+i.creds.InstagramAccountID+"/media", params)
	if err != nil {
		return "", err
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", code, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (i *Instagram) awaitContainer(ctx context.Context, containerID string) error {
	params := url.Values{
		"access_token": {i.creds.AccessToken},
		"fields":       {"status_code"},
	}
	for attempt := 0; attempt < instagramPollLimit; attempt++ {
		code, body, err := i.get("/"+containerID, params)
		if err != nil {
			return fmt.Errorf("container status: %w", err)
		}
		if code != fiber.StatusOK {
			return fmt.Errorf("container status: HTTP %d: %s", code, string(body))
		}

		var resp struct {
			StatusCode string `json:"status_code"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("container status: %w", err)
		}

		switch resp.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return fmt.Errorf("media processing failed")
		}

		logger.Debugf("[instagram] container %s still %s", containerID, resp.StatusCode)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(instagramPollInterval):
		}
	}
	return fmt.Errorf("media processing timed out")
}

func (i *Instagram) publishContainer(containerID string) (string, error) {
	params := url.Values{
		"access_token": {i.creds.AccessToken},
		"creation_id":  {containerID},
	}
	code, body, err := i.post("/"+i.creds.InstagramAccountID+"/media_publish", params)
	if err != nil {
		return "", err
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", code, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (i *Instagram) get(path string, params url.Values) (int, []byte, error) {
	agent := fiber.Get(instagramAPIBase + path + "?" + params.Encode())
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, errs[0]
	}
	return code, body, nil
}

func (i *Instagram) post(path string, params url.Values) (int, []byte, error) {
	agent := fiber.Post(instagramAPIBase + path + "?" + params.Encode())
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, errs[0]
	}
	return code, body, nil
}
