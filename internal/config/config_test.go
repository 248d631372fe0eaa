package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := load(dir, nil)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if cfg.URL != "http://localhost:3000" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Timeout != 60 {
		t.Errorf("Timeout = %d", cfg.Timeout)
	}
	if cfg.HistoryPath != filepath.Join(dir, "history.db") {
		t.Errorf("HistoryPath = %q", cfg.HistoryPath)
	}
	if cfg.Log.Level != "WARN" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `url = "https://chat.example.com"
api_key = "file-key"
show_timing = true
timeout = 30

[log]
level = "DEBUG"
`
	if err := os.WriteFile(filepath.Join(dir, "client.toml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(dir, nil)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if cfg.URL != "https://chat.example.com" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if !cfg.ShowTiming {
		t.Error("ShowTiming = false, want true")
	}
	if cfg.Timeout != 30 {
		t.Errorf("Timeout = %d", cfg.Timeout)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `api_key = "file-key"` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "client.toml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ORBIT_API_KEY", "env-key")

	cfg, err := load(dir, nil)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
}

func TestOverridesWinOverEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORBIT_URL", "http://env.example.com")

	flagURL := "http://flag.example.com"
	cfg, err := load(dir, &RuntimeOverrides{URL: &flagURL})
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.URL != flagURL {
		t.Errorf("URL = %q, want %q", cfg.URL, flagURL)
	}
}

func TestValidationRejectsBadURL(t *testing.T) {
	dir := t.TempDir()
	bad := "not a url"

	_, err := load(dir, &RuntimeOverrides{URL: &bad})
	if err == nil {
		t.Error("expected validation error for malformed URL")
	}
}

func TestRedacted(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "(not set)"},
		{"abcd", "****"},
		{"orbit_1234567890", "***7890"},
	}
	for _, tt := range tests {
		if got := Redacted(tt.in); got != tt.want {
			t.Errorf("Redacted(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
