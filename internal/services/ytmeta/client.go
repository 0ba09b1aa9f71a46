// Package ytmeta fetches video metadata from an HTTP endpoint. The endpoint
// is expected to answer oEmbed-style JSON for a watch URL.
package ytmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"searchtube/internal/config"
	"searchtube/internal/services"
)

// HTTPDoer describes the HTTP client used by the metadata service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Metadata is the collected description of one video.
type Metadata struct {
	Title    string
	Keywords []string
}

// Client retrieves metadata for video ids.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// NewClient constructs a metadata client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Metadata.RequestTimeout) * time.Second
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.Metadata.BaseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWithDoer constructs a metadata client with a caller-supplied HTTP
// client, used by tests.
func NewClientWithDoer(baseURL string, client HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
	}
}

type metadataResponse struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// Fetch retrieves title and keywords for a video id. Any transport or decode
// failure comes back as a fetch error so the caller can retry the job on a
// later cycle.
func (c *Client) Fetch(ctx context.Context, id string) (Metadata, error) {
	if c.baseURL == "" {
		return Metadata{}, services.Wrap(services.ErrValidation, "metadata", "fetch", "metadata base url not configured", nil)
	}

	watchURL := WatchURL(id)
	endpoint := fmt.Sprintf("%s?url=%s&format=json", c.baseURL, url.QueryEscape(watchURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrFetch, "metadata", "fetch", "build metadata request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrFetch, "metadata", "fetch", fmt.Sprintf("request metadata for %s", id), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Metadata{}, services.Wrap(services.ErrFetch, "metadata", "fetch", fmt.Sprintf("metadata endpoint returned %d for %s", resp.StatusCode, id), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Metadata{}, services.Wrap(services.ErrFetch, "metadata", "fetch", "read metadata response", err)
	}

	var decoded metadataResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Metadata{}, services.Wrap(services.ErrFetch, "metadata", "decode", fmt.Sprintf("unexpected metadata payload for %s", id), err)
	}

	return Metadata{Title: decoded.Title, Keywords: decoded.Keywords}, nil
}

// WatchURL reconstructs the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}
