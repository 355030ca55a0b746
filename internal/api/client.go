// Package api implements the HTTP client for the remote task service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/taskflow/internal/logging"
)

// TokenSource supplies the current bearer token, or "" when the
// session is not authenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Client is a thin HTTP client for the task service REST API. It
// handles Bearer token authentication, JSON marshaling, and error
// normalization. Each call resolves or fails exactly once; there are
// no retries.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a new API client. The baseURL should include the
// API prefix (e.g. http://localhost:8080/api). tokens may be nil for
// a client that never authenticates.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTimeout adjusts the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// errorBody is the error envelope returned by the service. Some
// deployments emit "message", others "error"; accept both.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Request is the single entry point all operations are built on. It
// marshals body (when non-nil) as JSON, attaches the content type and
// bearer token, merges caller headers (caller wins on conflict), and
// decodes a JSON response into result. A 204 or empty or non-JSON
// body leaves result untouched and returns nil.
func (c *Client) Request(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	header http.Header,
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, values := range header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: err,
		}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &NetworkError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: readErr,
		}
	}

	logger := logging.Get()
	logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpError(resp.StatusCode, respBody)
	}

	// No content to parse (e.g. 204 from DELETE).
	if result == nil ||
		resp.StatusCode == http.StatusNoContent ||
		len(respBody) == 0 {
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}

// httpError builds an HTTPError from a non-2xx response, preferring
// the server-supplied message when the body parses.
func httpError(status int, body []byte) *HTTPError {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if eb.Message != "" {
			return &HTTPError{Status: status, Message: eb.Message}
		}
		if eb.Error != "" {
			return &HTTPError{Status: status, Message: eb.Error}
		}
	}
	return &HTTPError{Status: status}
}

// get performs a GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.Request(ctx, http.MethodGet, path, nil, nil, result)
}

// post performs a POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.Request(ctx, http.MethodPost, path, body, nil, result)
}

// put performs a PUT request with a JSON body.
func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.Request(ctx, http.MethodPut, path, body, nil, result)
}

// delete performs a DELETE request, ignoring any response body.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.Request(ctx, http.MethodDelete, path, nil, nil, nil)
}
