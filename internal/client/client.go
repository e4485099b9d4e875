package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nimbus/internal/models"
	"golang.org/x/net/http/httpguts"
)

// UserAgent is sent on every outbound request
const UserAgent = "NimbusReports/1.0 (nimbus; Go)"

// Client issues requests against the Nimbus REST API. Each call builds
// an isolated http.Client with its own cookie jar, so cookies persist
// across redirects within a single call but never leak between calls.
type Client struct {
	defaultTimeout time.Duration
	logger         arbor.ILogger
}

// New creates a client with the given default timeout
func New(defaultTimeout time.Duration, logger arbor.ILogger) *Client {
	return &Client{
		defaultTimeout: defaultTimeout,
		logger:         logger,
	}
}

// RequestOptions describes a single REST call. Either URL or
// BaseURL (optionally with Endpoint) must be set.
type RequestOptions struct {
	URL            string            `json:"url,omitempty"`
	BaseURL        string            `json:"base_url,omitempty"`
	Endpoint       string            `json:"endpoint,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	UserID         *int              `json:"user_id,omitempty"`
	AuthToken      string            `json:"auth_token,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
}

// Get executes a GET request. Non-2xx status is not an error: the full
// response is returned as data and the caller inspects Status.
func (c *Client) Get(ctx context.Context, opts RequestOptions) (*models.HTTPResponse, error) {
	fullURL, err := resolveURL(opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GET request: %w", err)
	}

	if err := applyHeaders(req, opts); err != nil {
		return nil, err
	}

	httpClient, err := c.newHTTPClient(opts.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("method", http.MethodGet).Str("url", fullURL).Msg("Outbound request")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET request failed: %w", err)
	}

	return readResponse(resp)
}

// Post executes a POST request with a JSON body. As with Get, non-2xx
// status is returned as data, not as an error.
func (c *Client) Post(ctx context.Context, opts RequestOptions, body interface{}) (*models.HTTPResponse, error) {
	fullURL, err := resolveURL(opts)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build POST request: %w", err)
	}

	if err := applyHeaders(req, opts); err != nil {
		return nil, err
	}

	httpClient, err := c.newHTTPClient(opts.TimeoutSeconds)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("method", http.MethodPost).Str("url", fullURL).Msg("Outbound request")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST request failed: %w", err)
	}

	return readResponse(resp)
}

// newHTTPClient builds a short-lived client with cookie persistence and
// a timeout. timeoutSeconds of 0 uses the configured default.
func (c *Client) newHTTPClient(timeoutSeconds int) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := c.defaultTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}

	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}, nil
}

// resolveURL picks the request URL from the options: an explicit URL
// wins, then base URL with slash-normalized endpoint concatenation.
func resolveURL(opts RequestOptions) (string, error) {
	if opts.URL != "" {
		return opts.URL, nil
	}
	if opts.BaseURL != "" {
		if opts.Endpoint != "" {
			return strings.TrimRight(opts.BaseURL, "/") + "/" + strings.TrimLeft(opts.Endpoint, "/"), nil
		}
		return opts.BaseURL, nil
	}
	if opts.Endpoint != "" {
		return opts.Endpoint, nil
	}
	return "", fmt.Errorf("no URL provided: pass 'url' or 'base_url' (optionally with 'endpoint')")
}

// applyHeaders sets the required Nimbus headers, then custom headers.
// The Nimbus API defaults to XML, so Accept and Content-Type are always
// forced to JSON; custom headers are applied last and may override.
func applyHeaders(req *http.Request, opts RequestOptions) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	// Nimbus headers set via the map directly to preserve their
	// documented casing (Set would canonicalize to Userid etc.)
	if opts.UserID != nil {
		req.Header["UserID"] = []string{strconv.Itoa(*opts.UserID)}
	}

	if opts.AuthToken != "" {
		// Nimbus requires both Authorization Bearer and AuthenticationToken
		req.Header.Set("Authorization", "Bearer "+opts.AuthToken)
		req.Header["AuthenticationToken"] = []string{opts.AuthToken}
	}

	for key, value := range opts.Headers {
		if !httpguts.ValidHeaderFieldName(key) {
			return fmt.Errorf("invalid header name %q", key)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return fmt.Errorf("invalid header value for %q", key)
		}
		req.Header.Set(key, value)
	}

	return nil
}

// readResponse drains the body and converts to the wire model
func readResponse(resp *http.Response) (*models.HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return &models.HTTPResponse{
		Status:  resp.StatusCode,
		Body:    string(body),
		Headers: headers,
	}, nil
}
