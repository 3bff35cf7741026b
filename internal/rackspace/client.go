package rackspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultAPITimeout bounds a single upstream request
	DefaultAPITimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read into memory
	maxResponseBytes = 32 << 20
)

// acceptedStatusCodes are the only upstream status codes treated as success
var acceptedStatusCodes = map[int]bool{
	http.StatusOK:                   true,
	http.StatusNonAuthoritativeInfo: true,
	http.StatusMultipleChoices:      true,
}

// ClientOptions configures a Client
type ClientOptions struct {
	// Timeout bounds every request; zero means DefaultAPITimeout
	Timeout time.Duration

	// RequestsPerSecond paces upstream calls; zero or negative means unlimited
	RequestsPerSecond float64

	// UserAgent is sent on every request when set
	UserAgent string

	// HTTPClient overrides the underlying client (tests)
	HTTPClient *http.Client
}

// Client issues authenticated JSON requests against the Rackspace APIs.
// It never retries; callers decide what to do with a failed call.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	userAgent  string
}

// NewClient creates a Client
func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := 0
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		timeout:    timeout,
		userAgent:  opts.UserAgent,
	}
}

// Get fetches url with the given auth token and decodes the JSON body into out
func (c *Client) Get(ctx context.Context, url, authToken string, out any) error {
	headers := map[string]string{
		"Accept":       "application/json",
		"X-Auth-Token": authToken,
	}
	_, err := c.do(ctx, http.MethodGet, url, nil, headers, out)
	return err
}

// Post sends body as JSON to url and decodes the JSON response into out.
// The upstream status code is returned whenever a response was received.
func (c *Client) Post(ctx context.Context, url string, body any, headers map[string]string, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, payload, headers, out)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, headers map[string]string, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("waiting for request slot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s %s: reading response: %w", method, url, err)
	}

	if !acceptedStatusCodes[resp.StatusCode] {
		return resp.StatusCode, &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    findMessage(data),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, &DecodeError{URL: url, Err: err}
		}
	}
	return resp.StatusCode, nil
}

// findMessage returns the first "message" string found anywhere in an error
// body such as {"itemNotFound":{"message":"...","code":404}}
func findMessage(data []byte) string {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return ""
	}
	return searchMessage(tree)
}

func searchMessage(node any) string {
	switch v := node.(type) {
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := searchMessage(v[k]); msg != "" {
				return msg
			}
		}
	case []any:
		for _, item := range v {
			if msg := searchMessage(item); msg != "" {
				return msg
			}
		}
	}
	return ""
}
