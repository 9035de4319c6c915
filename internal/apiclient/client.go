package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const userAgent = "Spamguard/1.0"

// Source identifies where the checked content originated.
type Source string

const (
	SourceForum        Source = "forum"
	SourceMessage      Source = "message"
	SourceRegistration Source = "registration"
)

// ScanRequest is the payload sent to the scoring service.
type ScanRequest struct {
	Content   string `json:"content"`
	Source    Source `json:"source"`
	IPAddress string `json:"ip_address,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Client is a client for the spam scoring service API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new scoring service client. The timeout is expected to
// be pre-clamped by the config layer.
func NewClient(apiKey, baseURL string, timeoutSeconds int, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckSpam submits content for scoring. Transport failures return a
// *ConnectionError; non-2xx responses are returned as a Response with
// Success=false so callers can log and degrade.
func (c *Client) CheckSpam(ctx context.Context, req ScanRequest) (*Response, error) {
	return c.request(ctx, http.MethodPost, "/scan/check", &req)
}

// TestConnection probes the scoring service status endpoint.
func (c *Client) TestConnection(ctx context.Context) (*Response, error) {
	return c.request(ctx, http.MethodGet, "/scan/status", nil)
}

// AccountUsage retrieves account usage counters for the dashboard.
func (c *Client) AccountUsage(ctx context.Context) (*Response, error) {
	return c.request(ctx, http.MethodGet, "/account/usage", nil)
}

func (c *Client) request(ctx context.Context, method, endpoint string, payload *ScanRequest) (*Response, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Scoring service request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read scoring service response", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &ConnectionError{Err: err}
	}

	var decoded map[string]any
	if len(raw) > 0 {
		// A malformed body on a 2xx is treated as an empty result rather
		// than a failure; the normalizer falls back to safe defaults.
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = nil
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return newResponse(true, resp.StatusCode, decoded, ""), nil
	}

	return newResponse(false, resp.StatusCode, decoded, errorMessage(decoded)), nil
}

// errorMessage extracts an error description from a non-2xx body.
func errorMessage(decoded map[string]any) string {
	for _, key := range []string{"error", "message"} {
		v, ok := decoded[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		if encoded, err := json.Marshal(v); err == nil {
			return string(encoded)
		}
	}
	return "API error"
}
