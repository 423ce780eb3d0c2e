package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/miosa/joi-tui/endpoint"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

type Client struct {
	HTTPClient *http.Client
}

func New() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Health probes the backend's liveness endpoint. Free-tier backends cold
// start on the first request, so callers use this to wake the server before
// dialing the channel.
func (c *Client) Health(ctx context.Context, ep endpoint.Endpoint) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.HealthURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}
	var health HealthResponse
	// Some deployments answer with plain text; any 200 counts as awake.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(body, &health); err != nil {
		health.Status = strings.TrimSpace(string(body))
	}
	return &health, nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Detail != "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiErr.Detail)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiErr.Error)
		}
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
