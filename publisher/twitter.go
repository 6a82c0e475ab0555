package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const createTweetURL = "https://api.twitter.com/2/tweets"

// TwitterClient posts tweets through the v2 API with an app-level user token.
// Posting to Twitter is restricted to admin users; the server enforces that
// before calling here.
type TwitterClient struct {
	bearerToken string
	client      *http.Client
	baseURL     string
}

type createTweetPayload struct {
	Text string `json:"text"`
}

type createTweetResp struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NewTwitterClient builds a client from the configured bearer token.
func NewTwitterClient(bearerToken string, client *http.Client) (*TwitterClient, error) {
	if bearerToken == "" {
		return nil, errors.New("twitter bearer token is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &TwitterClient{bearerToken: bearerToken, client: client, baseURL: createTweetURL}, nil
}

// CreateTweet posts text and returns the new tweet id.
func (t *TwitterClient) CreateTweet(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(createTweetPayload{Text: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.bearerToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitter request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed createTweetResp
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("twitter response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		if parsed.Detail != "" {
			return "", fmt.Errorf("twitter: %s (%s)", parsed.Detail, resp.Status)
		}
		return "", fmt.Errorf("twitter: unexpected status %s", resp.Status)
	}
	if parsed.Data.ID == "" {
		return "", errors.New("twitter: response missing tweet id")
	}
	return parsed.Data.ID, nil
}
