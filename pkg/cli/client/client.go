package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout bounds a single request when no http.Client is supplied.
	DefaultTimeout = 30 * time.Second
	// DefaultPageSize is sent by GetPage when the caller leaves limit unset.
	DefaultPageSize = 10

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	headerRequestID = "X-Request-Id"
)

// Transport is the HTTP layer the user operations are built on.
// result is decoded from the JSON response body when non-nil.
type Transport interface {
	Get(ctx context.Context, path string, params any, result any) error
	Post(ctx context.Context, path string, payload any, result any) error
	PostJSON(ctx context.Context, path string, payload any, result any) error
	GetPage(ctx context.Context, path string, params any, result any) error
}

// Client is an HTTP client for interacting with the account API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Transport = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a new API client. token may be empty for the
// unauthenticated endpoints (login, registration, captchas).
func NewClient(baseURL, token string, opts ...Option) *Client {
	// Remove trailing slash from base URL
	baseURL = strings.TrimSuffix(baseURL, "/")

	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Users returns the user operations bound to this client
func (c *Client) Users() *UserAPI {
	return NewUserAPI(c)
}

// WithToken returns a copy of the client that authenticates with token
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Get performs a GET with params encoded as the query string
func (c *Client) Get(ctx context.Context, path string, params any, result any) error {
	values, err := encodeValues(params)
	if err != nil {
		return err
	}
	return c.doGetRequest(ctx, path, values, result)
}

// GetPage performs a paginated GET. Missing start/limit are filled with
// the first page and DefaultPageSize.
func (c *Client) GetPage(ctx context.Context, path string, params any, result any) error {
	values, err := encodeValues(params)
	if err != nil {
		return err
	}
	if values.Get("start") == "" {
		values.Set("start", "1")
	}
	if values.Get("limit") == "" {
		values.Set("limit", strconv.Itoa(DefaultPageSize))
	}
	return c.doGetRequest(ctx, path, values, result)
}

// Post performs a POST with a form-encoded body
func (c *Client) Post(ctx context.Context, path string, payload any, result any) error {
	values, err := encodeValues(payload)
	if err != nil {
		return err
	}

	req, err := c.buildRequest(ctx, http.MethodPost, path, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeForm)

	return c.doRequest(req, result)
}

// PostJSON performs a POST with a JSON body
func (c *Client) PostJSON(ctx context.Context, path string, payload any, result any) error {
	return c.doJSONRequest(ctx, http.MethodPost, path, payload, result)
}

// buildRequest creates an HTTP request with proper headers
func (c *Client) buildRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, uuid.NewString())
	// Only set Authorization header if a token is provided
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	return req, nil
}

// doRequest performs an HTTP request and handles the response
func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp, body)
	}

	// Parse JSON response if result is provided
	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// doJSONRequest performs a JSON request (POST, PUT, PATCH)
func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload any, result any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := c.buildRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	return c.doRequest(req, result)
}

// doGetRequest performs a GET request
func (c *Client) doGetRequest(ctx context.Context, path string, values url.Values, result any) error {
	if len(values) > 0 {
		path = path + "?" + values.Encode()
	}

	req, err := c.buildRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	return c.doRequest(req, result)
}

// encodeValues turns a payload into form/query values. Structs use their
// `url` tags; url.Values and string maps are copied as-is.
func encodeValues(v any) (url.Values, error) {
	switch p := v.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		out := make(url.Values, len(p))
		for k, vs := range p {
			out[k] = append([]string(nil), vs...)
		}
		return out, nil
	case map[string]string:
		out := make(url.Values, len(p))
		for k, s := range p {
			out.Set(k, s)
		}
		return out, nil
	}

	values, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	return values, nil
}
