package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charliek/logdash/internal/api"
)

// Client is an HTTP client for a running dashboard's API
type Client struct {
	baseURL    string
	httpClient *http.Client
	// streamClient has no overall timeout so live streams stay open
	streamClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		streamClient: &http.Client{},
	}
}

// LogParams contains parameters for log queries
type LogParams struct {
	Lines   int
	Pattern string
}

func (p LogParams) query() string {
	query := url.Values{}
	if p.Lines > 0 {
		query.Set("lines", strconv.Itoa(p.Lines))
	}
	if p.Pattern != "" {
		query.Set("pattern", p.Pattern)
	}
	if len(query) == 0 {
		return ""
	}
	return "?" + query.Encode()
}

// GetStatus gets the dashboard status
func (c *Client) GetStatus(ctx context.Context) (*api.StatusResponse, error) {
	var resp api.StatusResponse
	if err := c.get(ctx, "/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetLogs gets the current log window, newest first
func (c *Client) GetLogs(ctx context.Context, params LogParams) (*api.LogsResponse, error) {
	var resp api.LogsResponse
	if err := c.get(ctx, "/api/v1/logs"+params.query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStats gets the latest statistics window
func (c *Client) GetStats(ctx context.Context) (*api.StatsResponse, error) {
	var resp api.StatsResponse
	if err := c.get(ctx, "/api/v1/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StreamLogs calls callback for each newly admitted record until ctx is
// cancelled or the server closes the stream. Lines is ignored.
func (c *Client) StreamLogs(ctx context.Context, params LogParams, callback func(api.LogRecordResponse)) error {
	params.Lines = 0
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/logs/stream"+params.query(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var rec api.LogRecordResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &rec); err == nil {
			callback(rec)
		}
	}
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func decodeError(resp *http.Response) error {
	var errResp api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Code != "" {
		return fmt.Errorf("%s: %s", errResp.Code, errResp.Error)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
