// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIBaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DefaultModel != "" {
		t.Errorf("DefaultModel = %q, want empty (service default)", cfg.DefaultModel)
	}
	if !cfg.UI.ShowThinking {
		t.Error("ShowThinking should default to true")
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.APIBaseURL != DefaultBaseURL {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_base_url = "http://10.0.0.5:9000/api/v1"
default_model = "llama3"

[ui]
show_thinking = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.APIBaseURL != "http://10.0.0.5:9000/api/v1" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DefaultModel != "llama3" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.UI.ShowThinking {
		t.Error("ShowThinking should be false from file")
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte(`api_base_url = "http://from-file:8000"`), 0644)

	t.Setenv(EnvBaseURL, "http://from-env:8000/api/v1")
	t.Setenv(EnvModel, "gpt-oss")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.APIBaseURL != "http://from-env:8000/api/v1" {
		t.Errorf("APIBaseURL = %q, env should win", cfg.APIBaseURL)
	}
	if cfg.DefaultModel != "gpt-oss" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("api_base_url = [not toml"), 0644)

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate_RejectsBadURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIBaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}

	cfg.APIBaseURL = "http://localhost:8000"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid url rejected: %v", err)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.DefaultModel = "llama3"
	cfg.UI.ShowThinking = false

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.DefaultModel != "llama3" || loaded.UI.ShowThinking {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestStatePath_Override(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/tmp/custom/state.db"

	path, err := cfg.StatePath()
	if err != nil {
		t.Fatalf("StatePath: %v", err)
	}
	if path != "/tmp/custom/state.db" {
		t.Errorf("path = %q", path)
	}
}
