package http

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffConfig configures retries with exponential backoff.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// Jitter is the randomization factor applied to each wait, 0 disables it
	Jitter float64
}

// NewBackoffConfig returns a backoff with sane defaults for the given number of retries.
func NewBackoffConfig(maxRetries int) *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      maxRetries,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		Jitter:          0.2,
	}
}

func (b *BackoffConfig) retries() int {
	if b == nil || b.MaxRetries < 0 {
		return 0
	}
	return b.MaxRetries
}

// policy builds the retry schedule. A nil config means a single attempt.
func (b *BackoffConfig) policy() backoff.BackOff {
	if b == nil {
		return &backoff.StopBackOff{}
	}
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = 100 * time.Millisecond
	if b.InitialInterval > 0 {
		exponential.InitialInterval = b.InitialInterval
	}
	if b.MaxInterval > 0 {
		exponential.MaxInterval = b.MaxInterval
	}
	exponential.Multiplier = 1
	if b.Multiplier > 1 {
		exponential.Multiplier = b.Multiplier
	}
	exponential.RandomizationFactor = b.Jitter
	// retries are bounded by count, the caller's context bounds the time
	exponential.MaxElapsedTime = 0
	exponential.Reset()
	return backoff.WithMaxRetries(exponential, uint64(b.retries()))
}

// send runs attempt until it succeeds, fails with a non-retryable error or
// exhausts the backoff. Network failures and 5xx/429 responses are retried.
func (hc *Client) send(r *Request) (*Response, error) {
	target := hc.requestURL(r)
	maxRetries := r.backoff.retries()

	var resp *Response
	attempts := 0
	operation := func() error {
		attempts++
		resp = &Response{Attempts: attempts}
		if hc.logger != nil {
			hc.logger.Sent(target, attempts)
		}

		start := time.Now()
		err := hc.attempt(r, resp)
		elapsed := time.Since(start)

		switch {
		case err == nil:
			if hc.logger != nil {
				hc.logger.Completed(target, resp.StatusCode, elapsed)
			}
			return nil
		case attempts > maxRetries || !isRetryable(err):
			if hc.logger != nil {
				hc.logger.Failed(target, resp.StatusCode, resp.Body, elapsed, err)
			}
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		if hc.logger != nil {
			hc.logger.Retrying(target, resp.StatusCode, attempts, maxRetries, wait, err)
		}
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(r.backoff.policy(), r.ctx), notify)
	if resp == nil {
		resp = &Response{}
	}
	return resp, err
}
