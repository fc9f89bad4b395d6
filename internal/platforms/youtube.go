package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"

	"github.com/clipforge/clipforge/internal/logger"
)

// YouTube upload defaults
const (
	youtubeDefaultPrivacy  = "public"
	youtubeDefaultCategory = "22" // People & Blogs
	youtubeMaxAPITags      = 30
)

// YouTube publishes clips as YouTube Shorts through the Data API v3.
// It is the most mature adapter: full OAuth credential handling and a
// resumable upload.
type YouTube struct {
	clientSecretFile string
	tokenFile        string

	service       *youtube.Service
	authenticated bool
}

// NewYouTube creates the YouTube Shorts adapter. clientSecretFile is the
// OAuth client secret JSON from the Google Cloud console; tokenFile is
// the cached user token produced by a prior interactive authorization.
func NewYouTube(clientSecretFile, tokenFile string) *YouTube {
	return &YouTube{
		clientSecretFile: clientSecretFile,
		tokenFile:        tokenFile,
	}
}

// Name returns the registry key
func (y *YouTube) Name() string { return "youtube" }

// DisplayName returns the human readable name
func (y *YouTube) DisplayName() string { return "YouTube Shorts" }

// Limits returns the YouTube Shorts constraints
func (y *YouTube) Limits() Limits {
	return Limits{
		MaxDurationSec:       60, // Shorts are under a minute
		MinDurationSec:       1,
		AspectRatio:          "9:16",
		MaxFileSize:          256 * 1024 * 1024,
		SupportedFormats:     []string{"mp4", "mov", "avi", "wmv", "flv", "3gp", "webm"},
		MaxTitleLength:       100,
		MaxDescriptionLength: 5000,
		MaxTags:              500,
		MaxHashtags:          15,
		RequiresAuth:         true,
		RateLimitPerDay:      50,
	}
}

// IsAuthenticated reports whether a service client has been built
func (y *YouTube) IsAuthenticated() bool { return y.authenticated }

// Authenticate builds the API client from the client secret and the
// cached token file. The token must have been minted by a prior
// interactive authorization; this process only refreshes it.
func (y *YouTube) Authenticate() error {
	if y.authenticated {
		return nil
	}

	secret, err := os.ReadFile(y.clientSecretFile)
	if err != nil {
		return fmt.Errorf("youtube client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(secret, youtube.YoutubeUploadScope)
	if err != nil {
		return fmt.Errorf("youtube client secret: %w", err)
	}

	tokenData, err := os.ReadFile(y.tokenFile)
	if err != nil {
		return fmt.Errorf("youtube token (run an interactive authorization first): %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return fmt.Errorf("youtube token: %w", err)
	}

	ctx := context.Background()
	source := cfg.TokenSource(ctx, &token)

	// Force a refresh now so an expired token fails here, not mid-upload
	fresh, err := source.Token()
	if err != nil {
		return fmt.Errorf("youtube token refresh: %w", err)
	}
	if fresh.AccessToken != token.AccessToken {
		y.persistToken(fresh)
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return fmt.Errorf("youtube service: %w", err)
	}

	y.service = service
	y.authenticated = true
	return nil
}

func (y *YouTube) persistToken(token *oauth2.Token) {
	data, err := json.Marshal(token)
	if err != nil {
		return
	}
	if err := os.WriteFile(y.tokenFile, data, 0o600); err != nil {
		logger.Warnf("youtube: failed to persist refreshed token: %v", err)
	}
}

// ValidateMedia checks the local file against the Shorts limits
func (y *YouTube) ValidateMedia(path string) error {
	return y.Limits().CheckMedia(path)
}

// ValidateMetadata checks title/description/tags against the Shorts limits
func (y *YouTube) ValidateMetadata(title, description string, tags []string) error {
	return y.Limits().CheckMetadata(title, description, tags)
}

// Upload publishes the clip as a YouTube Short
func (y *YouTube) Upload(ctx context.Context, req UploadRequest) UploadResult {
	if !y.IsAuthenticated() {
		if err := y.Authenticate(); err != nil {
			return Failure(y.Name(), "authentication failed: %v", err)
		}
	}

	if err := y.ValidateMedia(req.MediaPath); err != nil {
		return Failure(y.Name(), "%v", err)
	}

	limits := y.Limits()
	description := req.Description
	// The #Shorts marker is how YouTube classifies the upload
	if !strings.Contains(strings.ToLower(description), "#shorts") {
		description += "\n\n#Shorts"
	}
	if len(req.Tags) > 0 {
		description += "\n\n" + limits.FormatHashtags(req.Tags)
	}

	title := truncate(req.Title, limits.MaxTitleLength)
	description = truncate(description, limits.MaxDescriptionLength)

	if err := y.ValidateMetadata(title, description, req.Tags); err != nil {
		return Failure(y.Name(), "%v", err)
	}

	privacy := req.Options["privacy_status"]
	if privacy == "" {
		privacy = youtubeDefaultPrivacy
	}
	category := req.Options["category_id"]
	if category == "" {
		category = youtubeDefaultCategory
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: description,
			CategoryId:  category,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}
	if len(req.Tags) > 0 {
		// API tags are separate from the hashtags in the description
		tags := req.Tags
		if len(tags) > youtubeMaxAPITags {
			tags = tags[:youtubeMaxAPITags]
		}
		video.Snippet.Tags = tags
	}

	media, err := os.Open(req.MediaPath)
	if err != nil {
		return Failure(y.Name(), "open media: %v", err)
	}
	defer func() { _ = media.Close() }()

	logger.Infof("[youtube] uploading %s", req.MediaPath)
	call := y.service.Videos.Insert([]string{"snippet", "status"}, video)
	resp, err := call.Media(media).Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok {
			return Failure(y.Name(), "HTTP %d: %s", apiErr.Code, apiErr.Message)
		}
		return Failure(y.Name(), "upload failed: %v", err)
	}

	return UploadResult{
		Success:     true,
		Destination: y.Name(),
		ExternalID:  resp.Id,
		ExternalURL: fmt.Sprintf("https://www.youtube.com/shorts/%s", resp.Id),
	}
}
