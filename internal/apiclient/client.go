package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/universityinsights/insights-web/internal/model"
)

const (
	LoginPath    = "/api/login"
	RegisterPath = "/api/register"

	maxResponseBytes = 1 << 20 // 1MB
)

// Result is a decoded API response, returned for failures as well so that
// callers can still persist the cookies the API set.
type Result struct {
	Status  int
	Body    model.AuthResponse
	Cookies []*http.Cookie
}

// Client talks to the remote auth API. It applies no timeout of its own;
// the caller's context is the only bound on a request.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API host this client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts credentials to /api/login.
func (c *Client) Login(ctx context.Context, req model.LoginRequest, cookies []*http.Cookie) (*Result, error) {
	return c.post(ctx, LoginPath, req, cookies)
}

// Register posts a registration profile to /api/register.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest, cookies []*http.Cookie) (*Result, error) {
	return c.post(ctx, RegisterPath, req, cookies)
}

func (c *Client) post(ctx context.Context, path string, payload any, cookies []*http.Cookie) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for _, ck := range cookies {
		httpReq.AddCookie(ck)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	result := &Result{
		Status:  resp.StatusCode,
		Cookies: resp.Cookies(),
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result.Body); err != nil {
		return result, &NetworkError{Err: fmt.Errorf("decoding %s response (status %d): %w", path, resp.StatusCode, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(result.Body.Errors) > 0 {
			return result, &ValidationError{Status: resp.StatusCode, Errors: result.Body.Errors}
		}
		return result, &ServerError{Status: resp.StatusCode, Message: result.Body.Message}
	}

	return result, nil
}
