// Package publisher relays post content to the social platforms. Twitter has
// a real client, Instagram posts through the user's stored token, and every
// other platform is served by a mock client.
package publisher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Saurasai/pmv2/logger"
)

// Platforms accepted by the posting endpoint.
var Platforms = []string{
	"bluesky", "facebook", "gmb", "instagram", "linkedin", "pinterest",
	"reddit", "snapchat", "telegram", "tiktok", "threads", "twitter", "youtube",
}

// Supported reports whether platform is in the accepted set.
func Supported(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// PostResult is the per-platform outcome of one publish attempt.
type PostResult struct {
	Platform string `json:"platform"`
	Status   string `json:"status"`
	ID       string `json:"id,omitempty"`
	PostURL  string `json:"postUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// TokenSource resolves a user's decrypted access token for a platform.
type TokenSource interface {
	AccessToken(ctx context.Context, userID, platform string) (string, error)
}

// Publisher dispatches content to the right platform client. Failures are
// captured in the PostResult rather than returned, so one platform's failure
// never aborts the others in a multi-platform publish.
type Publisher struct {
	twitter   *TwitterClient
	instagram *InstagramClient
	log       logger.Logger
}

// New wires the platform clients. twitter may be nil when no credentials are
// configured; posting to it then fails per-result, not at startup.
func New(twitter *TwitterClient, tokens TokenSource, client *http.Client, log logger.Logger) *Publisher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Publisher{
		twitter:   twitter,
		instagram: &InstagramClient{client: client, tokens: tokens},
		log:       log,
	}
}

// Post publishes content to one platform on behalf of userID.
func (p *Publisher) Post(ctx context.Context, userID, platform, content string) PostResult {
	var res PostResult
	switch platform {
	case "twitter":
		res = p.postTwitter(ctx, content)
	case "instagram":
		res = p.instagram.Post(ctx, userID, content)
	default:
		res = mockPost(platform)
	}
	res.Platform = platform

	if res.Status == "success" {
		p.log.Info("post published",
			logger.String("platform", platform),
			logger.String("user_id", userID),
			logger.String("post_id", res.ID))
	} else {
		p.log.Error("post failed",
			logger.String("platform", platform),
			logger.String("user_id", userID),
			logger.String("error", res.Error))
	}
	return res
}

func (p *Publisher) postTwitter(ctx context.Context, content string) PostResult {
	if p.twitter == nil {
		return PostResult{Status: "error", Error: "twitter credentials not configured"}
	}
	id, err := p.twitter.CreateTweet(ctx, content)
	if err != nil {
		return PostResult{Status: "error", Error: err.Error()}
	}
	return PostResult{
		Status:  "success",
		ID:      id,
		PostURL: fmt.Sprintf("https://twitter.com/user/status/%s", id),
	}
}

// mockPost fabricates a successful result for platforms without a real
// integration, mirroring what the platform APIs return in shape.
func mockPost(platform string) PostResult {
	return PostResult{
		Status:  "success",
		ID:      uuid.NewString(),
		PostURL: fmt.Sprintf("https://%s.com/post/%s", platform, uuid.NewString()),
	}
}
