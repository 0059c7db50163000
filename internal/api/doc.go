// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiconsole generation service.
//
// The service exposes a single streaming endpoint:
//
//	POST {base_url}/query
//	{"prompt": "...", "model": "..."}
//
// The response body is a stream of newline-delimited chunks. Each chunk is
// either a JSON object with optional string fields "thinking" and one of
// "response"/"content", or arbitrary plain text that is treated as literal
// answer output. The client decodes the stream incrementally and delivers
// classified segments to the caller in arrival order.
package api
