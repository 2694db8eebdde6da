// Package transport sends serialized form payloads to the submit endpoints.
// The HTTP client works unchanged under GOOS=js GOARCH=wasm, where net/http
// is backed by the browser Fetch API.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrTransport wraps network and read failures.
var ErrTransport = errors.New("transport: request failed")

// ContentTypeJSON is sent with every request.
const ContentTypeJSON = "application/json"

// Response is the raw reply from an endpoint.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client posts a JSON body to path and returns the raw response.
type Client interface {
	PostJSON(ctx context.Context, path string, body []byte) (Response, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, path string, body []byte) (Response, error)

// PostJSON implements Client.
func (f ClientFunc) PostJSON(ctx context.Context, path string, body []byte) (Response, error) {
	return f(ctx, path, body)
}

// HTTPClient implements Client on top of net/http.
type HTTPClient struct {
	baseURL *url.URL
	client  *http.Client
	header  http.Header
	maxBody int64
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *HTTPClient) {
		c.header.Add(key, value)
	}
}

// WithMaxBodySize caps how many response bytes are read. A larger body fails
// with ErrTransport. Zero disables the limit.
func WithMaxBodySize(n int64) Option {
	return func(c *HTTPClient) {
		if n >= 0 {
			c.maxBody = n
		}
	}
}

// NewHTTPClient creates a client that resolves endpoint paths against
// baseURL. An empty baseURL keeps paths relative, which is what the browser
// build wants.
func NewHTTPClient(baseURL string, options ...Option) (*HTTPClient, error) {
	c := &HTTPClient{
		client:  http.DefaultClient,
		header:  make(http.Header),
		maxBody: 1 << 20,
	}

	if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("transport: parse base url %q: %w", trimmed, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("transport: base url %q must be absolute", trimmed)
		}
		c.baseURL = parsed
	}

	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// PostJSON implements Client.
func (c *HTTPClient) PostJSON(ctx context.Context, path string, body []byte) (Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("transport: build request: %w", err)
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Header.Set("Accept", ContentTypeJSON)

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: POST %s: %v", ErrTransport, target, err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if c.maxBody > 0 {
		reader = io.LimitReader(resp.Body, c.maxBody+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return Response{}, fmt.Errorf("%w: read %s: %v", ErrTransport, target, err)
	}
	if c.maxBody > 0 && int64(len(data)) > c.maxBody {
		return Response{}, fmt.Errorf("%w: %s: response body exceeds %d bytes", ErrTransport, target, c.maxBody)
	}

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       data,
	}, nil
}

func (c *HTTPClient) resolve(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("transport: endpoint path is required")
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("transport: parse endpoint %q: %w", trimmed, err)
	}
	if c.baseURL == nil {
		return ref.String(), nil
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}
