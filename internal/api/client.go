// internal/api/client.go
//
// Harmony – backend HTTP client.
//
// Context
//   Every request the client makes goes to `<base_url>/api/*`.  The browser
//   build relied on a development proxy for that prefix; here the origin is
//   configuration (`api.base_url`) and the transport is a pooled
//   go-cleanhttp client with a fixed overall timeout.
//
// Workflow
//   •  PostJSON encodes a payload with sonic (standard-library compatible
//      settings, sorted keys) and POSTs it with Content-Type
//      application/json and a fresh X-Request-ID.
//   •  Transport failures come back as *TransportError.  Any HTTP status,
//      2xx or not, comes back as a *Response; judging it is the caller's job.
//   •  Ping performs the status check the landing page used (GET /api/test).
//
//------------------------------------------------------------------------------

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
)

// Backend paths.
const (
	PathTest     = "/api/test"
	PathLogin    = "/api/login"
	PathRegister = "/api/register"
)

const (
	HeaderRequestID = "X-Request-ID"
	contentTypeJSON = "application/json"
	maxBodyBytes    = 1 << 20
)

// codec mirrors encoding/json behavior so request bodies are byte-stable.
var codec = sonic.ConfigStd

// Doer is the transport seam.  *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to one backend origin.  Safe for concurrent use.
type Client struct {
	base string
	http Doer
}

// NewClient returns a Client backed by a pooled cleanhttp client whose
// overall request timeout is timeout.  A zero timeout waits forever.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return NewWithDoer(baseURL, hc)
}

// NewWithDoer returns a Client using d as transport.
func NewWithDoer(baseURL string, d Doer) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: d}, nil
}

// URL resolves path against the base origin.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Response is a fully read HTTP response.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// TransportError means the request never produced a complete response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx answer to a call that expects success.
type StatusError struct{ Status int }

func (e *StatusError) Error() string { return fmt.Sprintf("Server error: %d", e.Status) }

// PostJSON POSTs payload as JSON to path.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	body, err := codec.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	return c.do(req)
}

// Get issues a GET to path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	rid := uuid.NewString()
	req.Header.Set(HeaderRequestID, rid)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	return &Response{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      data,
		RequestID: rid,
	}, nil
}

// Ping checks backend health via GET /api/test and returns its message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	resp, err := c.Get(ctx, PathTest)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", &StatusError{Status: resp.Status}
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := codec.Unmarshal(resp.Body, &out); err != nil {
		return "", fmt.Errorf("decode status: %w", err)
	}
	return out.Message, nil
}

// ErrorMessage extracts the `message` string from a JSON body.  isJSON is
// false when body does not parse as JSON at all; msg is empty when it parses
// but carries no string message.
func ErrorMessage(body []byte) (msg string, isJSON bool) {
	var v any
	if err := codec.Unmarshal(body, &v); err != nil {
		return "", false
	}
	if obj, ok := v.(map[string]any); ok {
		msg, _ = obj["message"].(string)
	}
	return msg, true
}
