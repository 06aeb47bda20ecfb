// Package chatapi is a client for the users and chats HTTP API.
//
// Error reporting differs per operation, mirroring the API's established
// contract: user reads propagate every failure, CreateUser turns a rejected
// request into a nil user, and chat operations turn any non-success status
// into a nil chat or false. Transport failures are always returned.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is used when the client is constructed without a base URL.
const DefaultBaseURL = "https://localhost:5000"

const (
	headerRequestID = "X-Request-ID"

	// Upper bound on how much of an error body is kept for logs and errors.
	maxErrorBody = 4 << 10
)

// Client talks to the API. It holds no mutable state beyond the shared
// *http.Client and can be used from multiple goroutines.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient sets the transport used for every call. Timeouts and
// cancellation policies belong on this client or on the call's context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for baseURL, falling back to DefaultBaseURL when empty.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Info().Str("base_url", c.baseURL).Msg("API client initialized with base URL")
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// send performs a single exchange. body, when non-nil, is sent as JSON.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(headerRequestID, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s failed", method, path)
	}
	return resp, nil
}

// getJSON issues a GET and decodes the body into v, reporting any
// non-success status as a *StatusError.
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return &StatusError{StatusCode: resp.StatusCode, Body: readBody(resp)}
	}
	return decodeJSON(resp, v)
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// decodeJSON treats an empty body like a JSON null.
func decodeJSON(resp *http.Response, v interface{}) error {
	err := json.NewDecoder(resp.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to decode response body")
	}
	return nil
}

func readBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// closeBody drains a bounded amount so the connection can be reused.
func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
