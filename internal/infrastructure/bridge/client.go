package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a running bridge over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the bridge listening on addr.
// addr may be host:port or a full http URL.
func NewClient(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Tabs fetches GET /tabs.
func (c *Client) Tabs(ctx context.Context) (TabListing, error) {
	var listing TabListing
	err := c.get(ctx, "/tabs", &listing)
	return listing, err
}

// Downloads fetches GET /downloads with display strings included.
func (c *Client) Downloads(ctx context.Context) (DownloadListing, error) {
	var listing DownloadListing
	err := c.get(ctx, "/downloads?human=1", &listing)
	return listing, err
}

// Send posts a command. A rejected command is returned as an error.
func (c *Client) Send(ctx context.Context, cmd Command) (CommandResult, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return CommandResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/commands", bytes.NewReader(body))
	if err != nil {
		return CommandResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return CommandResult{}, fmt.Errorf("send %s: %w", cmd.Name, err)
	}
	defer resp.Body.Close()

	var result CommandResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return CommandResult{}, fmt.Errorf("decode %s reply: %w", cmd.Name, err)
	}
	if !result.OK {
		return result, fmt.Errorf("%s: %s", cmd.Name, result.Error)
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
