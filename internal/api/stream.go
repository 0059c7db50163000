// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiconsole generation service.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader decodes a raw byte stream into classified segments. It splits
// the stream on newlines, carrying the partial trailing line across reads;
// buffering is byte-oriented, so a multi-byte UTF-8 character split across
// chunk boundaries reassembles before any line is handed to the classifier.
type StreamReader struct {
	reader *bufio.Reader

	// PERFORMANCE: strings.Builder avoids quadratic allocations
	thinking strings.Builder
	answer   strings.Builder
	segments int
}

// NewStreamReader creates a stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream to exhaustion, invoking the callback for every
// segment in arrival order. The final, possibly unterminated line is
// classified once the source reports EOF. A transport error mid-stream is
// returned after all segments decoded so far have been delivered.
func (s *StreamReader) Process(ctx context.Context, callback SegmentCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			line, err := s.reader.ReadBytes('\n')

			if len(line) > 0 {
				s.emitLine(string(line), callback)
			}

			if err != nil {
				if err == io.EOF {
					return nil
				}
				return &ClientError{Type: ErrTypeStream, Message: "stream read failed", Cause: err}
			}
		}
	}
}

// emitLine trims one raw line and forwards its segments. Lines that trim to
// nothing are dropped.
func (s *StreamReader) emitLine(raw string, callback SegmentCallback) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}

	for _, seg := range ClassifyLine(trimmed) {
		if seg.Thinking {
			s.thinking.WriteString(seg.Text)
		} else {
			s.answer.WriteString(seg.Text)
		}
		s.segments++
		callback(seg)
	}
}

// Answer returns the accumulated answer text seen so far.
func (s *StreamReader) Answer() string {
	return s.answer.String()
}

// Reasoning returns the accumulated thinking text seen so far.
func (s *StreamReader) Reasoning() string {
	return s.thinking.String()
}

// SegmentCount returns the number of segments delivered.
func (s *StreamReader) SegmentCount() int {
	return s.segments
}

// =============================================================================
// EVENT CLASSIFIER
// =============================================================================

// ClassifyLine parses one trimmed, non-empty line into segments.
//
// A line that fails to parse as a JSON event is recovered locally by treating
// it as literal answer text; this never aborts the stream. A parsed event
// yields its thinking segment first, then its answer segment; the answer is
// taken from "response", falling back to "content". An event carrying
// neither produces no segments.
func ClassifyLine(line string) []Segment {
	var ev queryEvent
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		return []Segment{{Text: line}}
	}

	answer := ev.Response
	if answer == "" {
		answer = ev.Content
	}

	var segs []Segment
	if ev.Thinking != "" {
		segs = append(segs, Segment{Text: ev.Thinking, Thinking: true})
	}
	if answer != "" {
		segs = append(segs, Segment{Text: answer})
	}
	return segs
}
