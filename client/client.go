package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"devfeed/types"

	"github.com/google/uuid"
)

// DefaultUserAgent is sent when no other agent is configured
const DefaultUserAgent = "devfeed-dashboard/1.0"

// FeedClient fetches the combined payload from one aggregation endpoint
type FeedClient struct {
	endpoint  string
	client    *http.Client
	userAgent string
}

// Option customizes a FeedClient
type Option func(*FeedClient)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(fc *FeedClient) {
		if c != nil {
			fc.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(fc *FeedClient) {
		if ua != "" {
			fc.userAgent = ua
		}
	}
}

// New creates a client bound to endpoint. The default HTTP client has no
// timeout; callers bound a fetch through its context.
func New(endpoint string, opts ...Option) *FeedClient {
	fc := &FeedClient{
		endpoint:  endpoint,
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(fc)
	}
	return fc
}

// Endpoint returns the URL the client fetches
func (c *FeedClient) Endpoint() string { return c.endpoint }

// FetchBundle issues exactly one GET against the endpoint and returns the
// undecoded per-source payload. Every failure is a *FetchError.
func (c *FeedClient) FetchBundle(ctx context.Context) (types.RawBundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: KindHTTPStatus, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		return nil, &FetchError{Kind: KindDecode, Err: errors.New("body is not a JSON object")}
	}
	var raw types.RawBundle
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: err}
	}

	return raw, nil
}
