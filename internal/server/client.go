package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iksnae/workflow-recorder/internal"
)

// Client talks to a running agent's control surface
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the agent at addr (host:port or a full URL)
func NewClient(addr string) *Client {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Send posts msg to /api/messages and decodes the reply
func (c *Client) Send(ctx context.Context, msg internal.Message) (internal.Response, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return internal.Response{}, fmt.Errorf("failed to encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/messages", bytes.NewReader(body))
	if err != nil {
		return internal.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return internal.Response{}, fmt.Errorf("agent unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return internal.Response{}, fmt.Errorf("agent returned %s: %s", resp.Status, apiErr.Error.Message)
		}
		return internal.Response{}, fmt.Errorf("agent returned %s", resp.Status)
	}

	var out internal.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return internal.Response{}, fmt.Errorf("failed to decode agent reply: %w", err)
	}
	return out, nil
}

// Healthz checks the agent's liveness route
func (c *Client) Healthz(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
