// Package client provides a JSON API client for the newsrag server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/raphaelgruber/newsrag/internal/models"
)

// Client talks to a running newsrag server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses NEWSRAG_SERVER_URL env var or defaults to localhost:8000.
// Timeout can be configured via NEWSRAG_CLIENT_TIMEOUT env var (default 5m, queries
// wait on LLM round trips).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("NEWSRAG_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := 5 * time.Minute
	if t := os.Getenv("NEWSRAG_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Query sends a question and returns the server's answer.
func (c *Client) Query(ctx context.Context, query, sessionID string) (*models.QueryResponse, error) {
	var resp models.QueryResponse
	req := models.QueryRequest{Query: query, SessionID: sessionID}
	if err := c.do(ctx, http.MethodPost, "/api/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Articles fetches catalog statistics.
func (c *Client) Articles(ctx context.Context) (*models.ArticleStats, error) {
	var stats models.ArticleStats
	if err := c.do(ctx, http.MethodGet, "/api/articles", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health reports whether the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// errorResponse is the error envelope the server uses for non-200 replies.
type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s", errResp.Error)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(data))
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
