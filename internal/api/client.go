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

	"github.com/nhle/silent-auction/internal/model"
)

// Client is a thin HTTP client for the auction backend. It handles JSON
// marshaling and converts rejection payloads into typed BidError values
// at the boundary.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new auction API client. The baseURL should be the
// root URL of the auction service (e.g., http://localhost:8000).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WebSocketURL returns the push channel endpoint derived from the base URL.
func (c *Client) WebSocketURL() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String()
}

// ListItems fetches the full catalogue. An empty catalogue is a valid
// response, distinct from an error.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.get(ctx, "/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchStatus retrieves the auction's open/closed state and end time.
func (c *Client) FetchStatus(ctx context.Context) (model.AuctionStatus, error) {
	var resp statusResponse
	if err := c.get(ctx, "/auction/status", &resp); err != nil {
		return model.AuctionStatus{}, err
	}

	endsAt, err := parseTimestamp(resp.EndsAt)
	if err != nil {
		return model.AuctionStatus{}, fmt.Errorf("parsing ends_at %q: %w", resp.EndsAt, err)
	}

	return model.AuctionStatus{IsOpen: resp.IsOpen, EndsAt: endsAt}, nil
}

// PlaceBid submits a bid for the given item. A declined bid returns a
// *BidError carrying the backend's rejection text; any other error means
// no response was obtained.
func (c *Client) PlaceBid(ctx context.Context, itemID int, bid BidRequest) (*BidResult, error) {
	path := fmt.Sprintf("/items/%d/bid", itemID)

	data, err := json.Marshal(bid)
	if err != nil {
		return nil, fmt.Errorf("marshaling bid: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request POST %s: %w", path, err)
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var rejection errorResponse
		// A malformed rejection body still yields a usable BidError
		// with generic text.
		_ = json.Unmarshal(body, &rejection)
		return nil, &BidError{
			StatusCode: resp.StatusCode,
			Messages:   rejection.detailMessages(),
		}
	}

	var result BidResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling bid result: %w", err)
	}

	return &result, nil
}

// get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil,
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request GET %s: %w", path, err)
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf(
			"unexpected status %d on GET %s: %s",
			resp.StatusCode, path, string(body),
		)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshaling response from GET %s: %w", path, err)
	}

	return nil
}

// parseTimestamp accepts RFC 3339 timestamps with or without a timezone
// offset. Offset-less timestamps are interpreted in local time, matching
// the backend's wall clock.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
}
