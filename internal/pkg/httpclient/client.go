// Package httpclient is the shared JSON-over-HTTP plumbing of the outbound
// adapters: request construction, status checking and retry with backoff.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// StatusError is returned for responses with a 4xx or 5xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Client wraps an http.Client with default headers.
type Client struct {
	HTTP       *http.Client
	Headers    map[string]string
	MaxRetries int
	Backoff    time.Duration
}

// New returns a client with the given timeout and no retries.
func New(timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		Headers:    headers,
		MaxRetries: 1,
		Backoff:    200 * time.Millisecond,
	}
}

// NewRequest builds a request carrying the default headers. A non-nil body is
// encoded as JSON.
func (c *Client) NewRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// NewFormRequest builds a POST carrying form as an urlencoded body.
func (c *Client) NewFormRequest(ctx context.Context, url string, form neturl.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Do sends req and turns error statuses into *StatusError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// DoWithRetry retries network errors and 429/5xx responses with exponential
// backoff starting at Backoff, up to MaxRetries attempts in total.
func (c *Client) DoWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	attempts := max(c.MaxRetries, 1)

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.Backoff
	eb.Multiplier = 2
	eb.RandomizationFactor = 0.1
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	return backoff.RetryWithData(func() (*http.Response, error) {
		req, err := makeReq()
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := c.Do(req)
		if err != nil && !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}, policy)
}

// DecodeJSON sends the request built by makeReq and decodes the body into out.
func (c *Client) DecodeJSON(ctx context.Context, makeReq func() (*http.Request, error), out any) error {
	resp, err := c.DoWithRetry(ctx, makeReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Retryable reports whether err is a transient failure.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsTimeout reports whether err is a client or context timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
