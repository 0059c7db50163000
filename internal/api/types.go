// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiconsole generation service.
package api

import "strconv"

// =============================================================================
// SEGMENT TYPE
// =============================================================================

// Segment is one classified unit of streamed text. Thinking segments carry
// the model's intermediate deliberation and are displayed separately from
// the final answer; answer segments accumulate into the assistant reply.
type Segment struct {
	Text     string
	Thinking bool
}

// SegmentCallback is called for each segment decoded from the stream.
// Callbacks are invoked synchronously in arrival order.
type SegmentCallback func(seg Segment)

// StreamEvent is a segment or terminal error delivered over a channel.
// Exactly one event with Done set is delivered last.
type StreamEvent struct {
	Segment Segment
	Err     error
	Done    bool
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// queryRequest is the JSON body for POST /query. The model field is omitted
// entirely when the caller wants the service default.
type queryRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

// queryEvent is one decoded line of the response stream. All fields are
// optional; a line carrying none of them (a pure control event such as
// {"done":true}) produces no segments.
type queryEvent struct {
	Thinking string `json:"thinking"`
	Response string `json:"response"`
	Content  string `json:"content"`
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// HTTPError is returned when the generation service answers with a non-2xx
// status. The raw response body is carried as the message so the failure can
// be rendered in place of the assistant's answer.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return "HTTP " + strconv.Itoa(e.Status) + ": " + e.Body
}

// ClientError represents a transport-level failure talking to the service.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStream
)
