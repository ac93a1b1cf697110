// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	maxResponseBodyLen = 1 << 20
	defaultHTTPTimeout = 15 * time.Second
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// BackendOptions configures a Backend.
type BackendOptions struct {
	Timeout    time.Duration // per attempt
	RatePerSec float64       // 0 disables rate limiting
	Burst      int
	MaxRetries uint64
	RetryBase  time.Duration
	HTTPClient *http.Client
}

// Backend posts fetch requests to a content server.
type Backend struct {
	serverURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries uint64
	retryBase  time.Duration
}

// NewBackend creates a Backend for serverURL.
func NewBackend(serverURL string, opts BackendOptions) *Backend {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	retryBase := opts.RetryBase
	if retryBase <= 0 {
		retryBase = 200 * time.Millisecond
	}

	b := &Backend{
		serverURL:  serverURL,
		httpClient: client,
		timeout:    timeout,
		maxRetries: opts.MaxRetries,
		retryBase:  retryBase,
	}
	if opts.RatePerSec > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}
	return b
}

// ServerURL returns the URL requests are posted to.
func (b *Backend) ServerURL() string {
	return b.serverURL
}

type fetchRequest struct {
	Endpoint Endpoint `json:"endpoint"`
	Username string   `json:"username"`
}

// Fetch posts {"endpoint","username"} to the server. Transport errors and
// 5xx answers are retried with exponential backoff.
func (b *Backend) Fetch(ctx context.Context, endpoint Endpoint, username string) (json.RawMessage, error) {
	if err := Validate(endpoint, username); err != nil {
		return nil, err
	}

	body, err := json.Marshal(fetchRequest{Endpoint: endpoint, Username: username})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var result json.RawMessage
	backoff := retry.WithMaxRetries(b.maxRetries, retry.NewExponential(b.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		data, err := b.post(ctx, body)
		if err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.StatusCode < http.StatusInternalServerError {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("content backend request failed", "endpoint", endpoint, "error", err)
			return retry.RetryableError(err)
		}
		result = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s for %s: %w", endpoint, username, err)
	}
	return result, nil
}

func (b *Backend) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, b.serverURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyLen))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("backend returned invalid JSON")
	}
	return data, nil
}

// errorMessage extracts {"error": "..."} from a failed response.
func errorMessage(data []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		return payload.Error
	}
	return ""
}

var _ ContentFetcher = (*Backend)(nil)
