// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(baseURL string) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: baseURL})
}

func TestClient_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/v1/query" {
			t.Errorf("path = %s, want /api/v1/query", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}

		var req struct {
			Prompt string `json:"prompt"`
			Model  string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Prompt != "hello" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		if req.Model != "llama3" {
			t.Errorf("model = %q", req.Model)
		}

		w.Write([]byte(`{"thinking":"pondering"}` + "\n"))
		w.Write([]byte(`{"response":"hi "}` + "\n"))
		w.Write([]byte(`{"response":"there"}` + "\n"))
		w.Write([]byte(`{"done":true}` + "\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL + "/api/v1")

	var segs []Segment
	err := client.Stream(context.Background(), "hello", "llama3", func(seg Segment) {
		segs = append(segs, seg)
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3", len(segs))
	}
	if !segs[0].Thinking || segs[0].Text != "pondering" {
		t.Errorf("first segment = %+v", segs[0])
	}
	if segs[1].Text+segs[2].Text != "hi there" {
		t.Errorf("answer = %q", segs[1].Text+segs[2].Text)
	}
}

func TestClient_Stream_OmitsDefaultModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["model"]; ok {
			t.Error("model field should be absent when unset")
		}
		w.Write([]byte(`{"done":true}` + "\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if err := client.Stream(context.Background(), "q", "", func(Segment) {}); err != nil {
		t.Fatalf("Stream: %v", err)
	}
}

func TestClient_Stream_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("overloaded"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	delivered := 0
	err := client.Stream(context.Background(), "q", "", func(Segment) { delivered++ })
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if delivered != 0 {
		t.Errorf("segments delivered before failure: %d", delivered)
	}

	httpErr, ok := IsHTTPError(err)
	if !ok {
		t.Fatalf("err = %T, want *HTTPError", err)
	}
	if httpErr.Status != 500 {
		t.Errorf("status = %d, want 500", httpErr.Status)
	}
	if err.Error() != "HTTP 500: overloaded" {
		t.Errorf("message = %q, want 'HTTP 500: overloaded'", err.Error())
	}
}

func TestClient_Stream_ConnectionFailure(t *testing.T) {
	// Closed server: the request never completes.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	err := client.Stream(context.Background(), "q", "", func(Segment) {})
	if err == nil {
		t.Fatal("expected connection error")
	}
	if _, ok := IsHTTPError(err); ok {
		t.Errorf("connection failure misclassified as HTTP error: %v", err)
	}
}

func TestClient_StreamChan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"a"}` + "\n"))
		w.Write([]byte(`{"response":"b"}` + "\n"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	var texts []string
	var doneErr error
	seenDone := false
	for ev := range client.StreamChan(context.Background(), "q", "") {
		if ev.Done {
			seenDone = true
			doneErr = ev.Err
			continue
		}
		texts = append(texts, ev.Segment.Text)
	}

	if !seenDone {
		t.Error("no done event delivered")
	}
	if doneErr != nil {
		t.Errorf("done err = %v", doneErr)
	}
	if len(texts) != 2 || texts[0] != "a" || texts[1] != "b" {
		t.Errorf("texts = %v", texts)
	}
}

func TestClient_StreamChan_DeliversError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	var doneErr error
	for ev := range client.StreamChan(context.Background(), "q", "") {
		if ev.Done {
			doneErr = ev.Err
		}
	}

	if doneErr == nil {
		t.Fatal("expected terminal error event")
	}
	if doneErr.Error() != "HTTP 502: upstream down" {
		t.Errorf("err = %q", doneErr.Error())
	}
}
