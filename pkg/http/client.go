package http

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	charsetpkg "golang.org/x/net/html/charset"
)

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// Client sends read-only requests to one upstream base URL.
type Client struct {
	baseURL        string
	client         *http.Client
	dismiss404     bool
	defaultHeaders map[string]string
	backoff        *BackoffConfig
	logger         Logger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	Dismiss404          bool
	DefaultHeaders      map[string]string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	Backoff             *BackoffConfig
	Logger              Logger
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 100
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 10
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 15 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 5 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        opts.MaxIdleConns,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     opts.IdleConnTimeout,
		DialContext:         (&net.Dialer{Timeout: opts.ConnectionTimeout}).DialContext,
	}

	client := &http.Client{Transport: transport, Timeout: opts.ReadTimeout}
	if !opts.FollowRedirect {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         client,
		dismiss404:     opts.Dismiss404,
		defaultHeaders: opts.DefaultHeaders,
		backoff:        opts.Backoff,
		logger:         opts.Logger,
	}
}

// Request starts a new request against the client.
func (hc *Client) Request() *Request {
	return NewRequest(hc)
}

// attempt sends r once and decodes the body into the request targets.
func (hc *Client) attempt(r *Request, resp *Response) error {
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, hc.requestURL(r), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range hc.defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	httpResp, err := hc.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = httpResp.Body.Close() }()

	resp.StatusCode = httpResp.StatusCode
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return err
	}
	resp.Body = string(raw)
	contentType := httpResp.Header.Get("Content-Type")

	switch {
	case httpResp.StatusCode >= 200 && httpResp.StatusCode < 300:
		if r.result != nil {
			if err := decode(raw, contentType, r.result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			resp.Result = r.result
		}
		return nil
	case httpResp.StatusCode == http.StatusNotFound && hc.dismiss404:
		return nil
	}

	if r.failure != nil && decode(raw, contentType, r.failure) == nil {
		resp.Failure = r.failure
	}
	return &HTTPError{StatusCode: httpResp.StatusCode, Body: resp.Body}
}

func (hc *Client) requestURL(r *Request) string {
	path := r.path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(r.query) == 0 {
		return hc.baseURL + path
	}
	values := url.Values{}
	for key, value := range r.query {
		values.Set(key, value)
	}
	return hc.baseURL + path + "?" + values.Encode()
}

// decode picks the decoder from the response media type. A missing type is
// treated as JSON since both upstreams omit it on some error paths.
func decode(raw []byte, contentType string, target any) error {
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	switch mediaType {
	case "application/xml", "text/xml":
		dec := xml.NewDecoder(bytes.NewReader(raw))
		dec.CharsetReader = charsetpkg.NewReaderLabel
		return dec.Decode(target)
	case "text/plain":
		if s, ok := target.(*string); ok {
			*s = string(raw)
			return nil
		}
	}
	return json.Unmarshal(raw, target)
}

// isRetryable reports whether a failed attempt may be retried.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
