package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a running daemon over its HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a client for the daemon bound at addr (host:port).
func NewClient(addr string) *Client {
	return &Client{
		baseURL: "http://" + strings.TrimSpace(addr),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Ping reports whether the daemon answers on its status endpoint.
func (c *Client) Ping(ctx context.Context) bool {
	var status DaemonStatus
	return c.get(ctx, "/api/status", nil, &status) == nil
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (DaemonStatus, error) {
	var status DaemonStatus
	err := c.get(ctx, "/api/status", nil, &status)
	return status, err
}

// Ingest submits a batch of video URLs.
func (c *Client) Ingest(ctx context.Context, urls []string) (IngestResponse, error) {
	var resp IngestResponse
	err := c.post(ctx, "/api/ingest", IngestRequest{URLs: urls}, &resp)
	return resp, err
}

// QueueList fetches queue jobs, optionally filtered by state names.
func (c *Client) QueueList(ctx context.Context, states []string) ([]QueueJob, error) {
	query := url.Values{}
	for _, state := range states {
		if trimmed := strings.TrimSpace(state); trimmed != "" {
			query.Add("state", trimmed)
		}
	}
	var resp QueueListResponse
	if err := c.get(ctx, "/api/queue", query, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// QueueClear prunes terminal jobs from the daemon's queue.
func (c *Client) QueueClear(ctx context.Context) (int64, error) {
	var resp QueueClearResponse
	if err := c.post(ctx, "/api/queue/clear", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("daemon returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
