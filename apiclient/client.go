// Package apiclient talks to the contact, review and health endpoints the way
// the storefront pages do. Calls are never retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/junaidrashid-git/webshop/feedback"
)

// LocalBaseURL is used when the page is served from localhost.
const LocalBaseURL = "http://localhost:8080"

// BaseURL picks the backend for a page served from hostname.
func BaseURL(hostname, deployed string) string {
	if hostname == "localhost" {
		return LocalBaseURL
	}
	return strings.TrimRight(deployed, "/")
}

// APIError is a non-2xx response. Message is the server's "error" field, or
// a generic text when there is none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Review as listed by the server.
type Review struct {
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// HealthStatus is the /health body. Database is 1 when the server's
// database answers.
type HealthStatus struct {
	Status   string `json:"status"`
	Database int    `json:"mongo"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	pending atomic.Int32
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pending reports whether a submission is in flight.
func (c *Client) Pending() bool { return c.pending.Load() > 0 }

// SubmitContact validates form, sends it and returns the server's message.
func (c *Client) SubmitContact(ctx context.Context, form feedback.ContactForm) (string, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return "", err
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := c.submit(ctx, "/api/contact", form, "Error sending message.", &out); err != nil {
		return "", err
	}
	if out.Message == "" {
		out.Message = "Message sent!"
	}
	return out.Message, nil
}

// SubmitReview validates form and sends it.
func (c *Client) SubmitReview(ctx context.Context, form feedback.ReviewForm) error {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return err
	}
	return c.submit(ctx, "/api/review", form, "Error submitting.", nil)
}

// ListReviews returns reviews newest first.
func (c *Client) ListReviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := c.do(ctx, http.MethodGet, "/api/review", nil, "Failed to load reviews.", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var h HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, "Health check failed.", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) submit(ctx context.Context, path string, body any, fallback string, out any) error {
	c.pending.Add(1)
	defer c.pending.Add(-1)
	return c.do(ctx, http.MethodPost, path, body, fallback, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, fallback string, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		if e.Error == "" {
			e.Error = fallback
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}
	return nil
}
