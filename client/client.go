package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every platform request.
const DefaultTimeout = 30 * time.Second

// Doer is the outbound request surface tool handlers depend on. Handlers
// never set authentication themselves; the implementation owns the header.
type Doer interface {
	Request(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error)
}

// Response is a successful (2xx) platform response.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// JSON returns the response body as generic decoded JSON. A non-JSON body
// is returned as a plain string, matching endpoints that serve raw text
// such as log downloads.
func (r *Response) JSON() (any, error) {
	if len(r.Body) == 0 {
		return map[string]any{"success": true}, nil
	}
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return string(r.Body), nil
	}
	return v, nil
}

type request struct {
	query url.Values
	body  any
}

// RequestOption configures a single outbound request.
type RequestOption func(*request)

// WithQuery appends query parameter values. Repeated keys are allowed,
// matching the platform's list-valued filters.
func WithQuery(key string, values ...string) RequestOption {
	return func(r *request) {
		for _, v := range values {
			r.query.Add(key, v)
		}
	}
}

// WithBody sets the JSON request body.
func WithBody(v any) RequestOption {
	return func(r *request) { r.body = v }
}

// Client is a thin HTTP client bound to the platform base URL. It attaches
// the bearer token to every request and classifies failures; it is safe
// for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a platform API client.
func New(baseURL, apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logger,
	}
}

// Request performs one HTTP call against the platform. 2xx responses are
// returned as *Response (204 and empty bodies yield an empty Body, which
// JSON() renders as a synthetic success object). Everything else comes
// back as a classified *Error; Request never panics on expected failures.
func (c *Client) Request(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	req := &request{query: url.Values{}}
	for _, opt := range opts {
		opt(req)
	}

	u := c.baseURL + path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("read response: %v", err)}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("platform request")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if resp.StatusCode == http.StatusNoContent {
			return &Response{Status: resp.StatusCode}, nil
		}
		return &Response{Status: resp.StatusCode, Body: data}, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &Error{Kind: KindClient, Status: resp.StatusCode, Message: errorDetail(data)}
	default:
		return nil, &Error{Kind: KindServer, Status: resp.StatusCode, Message: errorDetail(data)}
	}
}

// errorDetail extracts the platform's error title from a failure body,
// falling back to the raw text truncated to a sane length.
func errorDetail(body []byte) string {
	var payload struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Title != "" {
		return payload.Title
	}
	text := strings.TrimSpace(string(body))
	const maxDetail = 512
	if len(text) > maxDetail {
		text = text[:maxDetail] + "..."
	}
	return text
}

func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "request deadline exceeded"}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "request timed out"}
	}
	return &Error{Kind: KindNetwork, Message: err.Error()}
}
