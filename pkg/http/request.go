package http

import (
	"context"
	"errors"
	"strings"
)

// Request is a GET against one endpoint of a Client. Build it with the
// With* methods and send it with Do.
type Request struct {
	client  *Client
	ctx     context.Context
	path    string
	query   map[string]string
	headers map[string]string
	result  any
	failure any
	backoff *BackoffConfig
}

// Response is what Do got back. Result is set on 2xx, Failure when an error
// body could be decoded into the target given to WithFailure.
type Response struct {
	Result     any
	Failure    any
	StatusCode int
	Body       string
	Attempts   int
}

// NewRequest creates a request for client with a background context.
func NewRequest(client *Client) *Request {
	return &Request{
		client: client,
		ctx:    context.Background(),
		path:   "/",
	}
}

// WithContext bounds the request and its retries.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// WithPath sets the path, relative to the client base URL.
func (r *Request) WithPath(path string) *Request {
	r.path = path
	return r
}

// WithQueryParams sets the query string. Values are escaped when sent.
func (r *Request) WithQueryParams(params map[string]string) *Request {
	r.query = params
	return r
}

// WithHeader adds one header on top of the client defaults.
func (r *Request) WithHeader(key, value string) *Request {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// WithResult sets the target a 2xx body is decoded into.
func (r *Request) WithResult(target any) *Request {
	r.result = target
	return r
}

// WithFailure sets the target a non-2xx body is decoded into, when it can be.
func (r *Request) WithFailure(target any) *Request {
	r.failure = target
	return r
}

// WithBackoff overrides the client backoff for this request.
func (r *Request) WithBackoff(backoff *BackoffConfig) *Request {
	r.backoff = backoff
	return r
}

// Do sends the request, retrying as the backoff allows. The returned Response
// is never nil, so callers can inspect Failure even when err is set.
func (r *Request) Do() (*Response, error) {
	if r.client == nil {
		return &Response{}, errors.New("client is required")
	}
	if strings.TrimSpace(r.path) == "" {
		return &Response{}, errors.New("path is required")
	}
	if r.ctx == nil {
		r.ctx = context.Background()
	}
	if r.backoff == nil {
		r.backoff = r.client.backoff
	}
	return r.client.send(r)
}
