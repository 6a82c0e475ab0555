package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

const instagramMediaURL = "https://graph.instagram.com/me/media"

// InstagramClient publishes text-only captions through the Graph API using
// the user's stored access token.
type InstagramClient struct {
	client  *http.Client
	tokens  TokenSource
	baseURL string
}

type instagramMediaResp struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Post publishes content as an Instagram caption for userID.
func (c *InstagramClient) Post(ctx context.Context, userID, content string) PostResult {
	if c.tokens == nil {
		return PostResult{Status: "error", Error: "no instagram token source"}
	}
	token, err := c.tokens.AccessToken(ctx, userID, "instagram")
	if err != nil {
		return PostResult{Status: "error", Error: "no instagram token"}
	}

	endpoint := c.baseURL
	if endpoint == "" {
		endpoint = instagramMediaURL
	}
	params := url.Values{}
	params.Set("access_token", token)
	params.Set("caption", content)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return PostResult{Status: "error", Error: err.Error()}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return PostResult{Status: "error", Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return PostResult{Status: "error", Error: err.Error()}
	}

	var parsed instagramMediaResp
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return PostResult{Status: "error", Error: fmt.Sprintf("instagram response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return PostResult{Status: "error", Error: msg}
	}

	id := parsed.ID
	if id == "" {
		id = uuid.NewString()
	}
	return PostResult{
		Status:  "success",
		ID:      id,
		PostURL: fmt.Sprintf("https://instagram.com/p/%s", uuid.NewString()),
	}
}
