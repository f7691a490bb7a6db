package ytmusic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// API constants
const (
	DefaultBaseURL = "https://music.youtube.com/youtubei/v1"

	endpointBrowse = "browse"
	endpointNext   = "next"

	clientName    = "WEB_REMIX"
	clientVersion = "1.20240101.01.00"

	DefaultRequestTimeout = 30 * time.Second
)

// Client talks to the YouTube Music web API. Authenticated calls (the home
// feed) need the caller's request headers; everything else works without.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAuthHeaders attaches raw request headers captured from an
// authenticated browser session.
func WithAuthHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// WithBaseURL overrides the API base URL, for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a music API client.
func NewClient(log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		baseURL:    DefaultBaseURL,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// post sends one API call and decodes the loosely-typed response body.
func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	payload := map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    clientName,
				"clientVersion": clientVersion,
			},
		},
	}
	for k, v := range body {
		payload[k] = v
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/%s?alt=json", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://music.youtube.com")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s request: status %d", endpoint, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return decoded, nil
}
