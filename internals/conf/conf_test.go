package conf

import (
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.DataDir != filepath.Join(home, ".devtaskflow") {
		t.Fatalf("unexpected data dir %q", cfg.Server.DataDir)
	}
	if cfg.Workspace.Dir != filepath.Join(home, ".devtaskflow", "workspaces") {
		t.Fatalf("unexpected workspace dir %q", cfg.Workspace.Dir)
	}
	if cfg.SessionTTL() != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %v", cfg.SessionTTL())
	}
	if cfg.Sessions.CookieName != "devtaskflow.sid" {
		t.Fatalf("unexpected cookie name %q", cfg.Sessions.CookieName)
	}
	if cfg.Github.APIURL != "https://api.github.com" {
		t.Fatalf("unexpected api url %q", cfg.Github.APIURL)
	}
	if cfg.Github.Concurrency != 4 {
		t.Fatalf("expected concurrency 4, got %d", cfg.Github.Concurrency)
	}
	if cfg.GitHubTimeout() != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.GitHubTimeout())
	}
	if cfg.Auth.FailurePath != "/login" {
		t.Fatalf("unexpected failure path %q", cfg.Auth.FailurePath)
	}
}

func TestParseOverrides(t *testing.T) {
	dataDir := t.TempDir()
	cfg, err := Parse([]byte(`{
		"server": {"data_dir": "` + dataDir + `"},
		"sessions": {"ttl": "5m"},
		"github": {"concurrency": 2, "timeout": "3s", "api_url": "http://127.0.0.1:9999"},
		"workspace": {"dir": "` + filepath.Join(dataDir, "ws") + `"}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.SessionTTL() != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %v", cfg.SessionTTL())
	}
	if cfg.Github.Concurrency != 2 {
		t.Fatalf("expected concurrency 2, got %d", cfg.Github.Concurrency)
	}
	if cfg.GitHubTimeout() != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.GitHubTimeout())
	}
	if cfg.Workspace.Dir != filepath.Join(dataDir, "ws") {
		t.Fatalf("unexpected workspace dir %q", cfg.Workspace.Dir)
	}
	if cfg.DBPath() != filepath.Join(dataDir, "db", "devtaskflow.db") {
		t.Fatalf("unexpected db path %q", cfg.DBPath())
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	if _, err := Parse([]byte(`{"sessions": {"ttl": "soon"}}`)); err == nil {
		t.Fatalf("expected error for invalid ttl")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	value, err := ExpandPath("~/data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != filepath.Join(home, "data") {
		t.Fatalf("unexpected value %q", value)
	}
	value, err = ExpandPath("/abs")
	if err != nil || value != "/abs" {
		t.Fatalf("expected /abs, got %q (%v)", value, err)
	}
}
