package api

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

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/google/uuid"
)

// RequestIDHeaderName carries a per-request id for correlating client and
// server logs.
const RequestIDHeaderName = "X-Request-ID"

// Response is a completed HTTP exchange with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

type requestOptions struct {
	header http.Header
}

type RequestOption func(*requestOptions)

// WithHeader sets a request header, replacing earlier values for key.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Set(key, value)
	}
}

// RequestHeaders returns the headers described by opts. Poster
// implementations other than HTTPClient use it to honor options.
func RequestHeaders(opts ...RequestOption) http.Header {
	o := requestOptions{header: http.Header{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o.header
}

// Poster sends a POST to a path relative to the API base. A nil body sends
// an empty request body; anything else is encoded as JSON.
type Poster interface {
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
}

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient validates baseURL and builds a client whose requests time
// out after timeout (0 disables the client-side timeout).
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}
	if log == nil {
		log = logging.NewNop()
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}, nil
}

func (c *HTTPClient) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, reader)
	if err != nil {
		return nil, err
	}
	for k, v := range RequestHeaders(opts...) {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, requestID)

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "path", path, "request_id", requestID, "error", err)
		return nil, c.mapError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.mapError(err)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: respBody}
	c.log.Debug(ctx, "request done", "path", path, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &StatusError{Response: resp}
	}
	return resp, nil
}

// mapError keeps caller cancellation visible and folds everything else into
// ErrUnavailable.
func (c *HTTPClient) mapError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
