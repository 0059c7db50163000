// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiconsole generation service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// ClientConfig holds configuration options for the generation client.
type ClientConfig struct {
	// BaseURL is the generation service base URL (default: http://localhost:8000/api/v1)
	BaseURL string

	// ConnectTimeout bounds connection establishment (default: 10s).
	// Streaming reads are not subject to this timeout; they are bounded
	// only by the request context.
	ConnectTimeout time.Duration

	// DefaultModel is sent when the caller does not pick a model.
	// Empty means the service chooses.
	DefaultModel string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        DefaultBaseURL,
		ConnectTimeout: 10 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues streaming query requests to the generation service.
// A Client is safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	err := client.Stream(ctx, "hello", "", func(seg api.Segment) {
//	    fmt.Print(seg.Text)
//	})
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}

	return &Client{
		config: config,
		// No overall timeout: responses stream for as long as the model
		// generates. The context bounds the request instead.
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: config.ConnectTimeout,
			},
		},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// STREAMING QUERY
// =============================================================================

// Stream sends one query and invokes the callback for every decoded segment
// in arrival order. The call blocks until the stream is exhausted, fails, or
// the context is cancelled.
//
// A non-2xx response fails before any segment is delivered with an *HTTPError
// carrying the status code and raw body. A transport failure mid-stream
// terminates the stream with an error; segments already delivered remain
// valid. Each call issues a fresh request - streams are not restartable.
func (c *Client) Stream(ctx context.Context, prompt, model string, callback SegmentCallback) error {
	if model == "" {
		model = c.config.DefaultModel
	}

	body, err := json.Marshal(queryRequest{Prompt: prompt, Model: model})
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL(), bytes.NewReader(body))
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return &ClientError{Type: ErrTypeConnection, Message: "generation service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	reader := NewStreamReader(resp.Body)
	return reader.Process(ctx, callback)
}

// StreamChan sends one query and returns a channel of stream events. Segment
// events arrive in order; the last event has Done set and carries the
// terminal error, if any. The channel is closed after the done event.
func (c *Client) StreamChan(ctx context.Context, prompt, model string) <-chan StreamEvent {
	ch := make(chan StreamEvent)

	go func() {
		defer close(ch)

		err := c.Stream(ctx, prompt, model, func(seg Segment) {
			select {
			case ch <- StreamEvent{Segment: seg}:
			case <-ctx.Done():
			}
		})

		select {
		case ch <- StreamEvent{Err: err, Done: true}:
		case <-ctx.Done():
		}
	}()

	return ch
}

func (c *Client) queryURL() string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/query"
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// IsHTTPError reports whether err is a non-2xx response failure and returns
// the typed error when it is.
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// IsTimeout reports whether err is a timeout failure.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}
