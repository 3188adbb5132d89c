package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Monitor.IntervalSeconds != 5 {
		t.Errorf("IntervalSeconds = %d, expected 5", cfg.Monitor.IntervalSeconds)
	}
	if cfg.Monitor.Remote != "origin" {
		t.Errorf("Remote = %q, expected %q", cfg.Monitor.Remote, "origin")
	}
	if cfg.Monitor.LogFile != "git_events.json" {
		t.Errorf("LogFile = %q, expected %q", cfg.Monitor.LogFile, "git_events.json")
	}
	if cfg.Monitor.QueryTimeoutSeconds != 30 {
		t.Errorf("QueryTimeoutSeconds = %d, expected 30", cfg.Monitor.QueryTimeoutSeconds)
	}
	if cfg.Monitor.WatchRefs {
		t.Error("WatchRefs should default to false")
	}
	if cfg.Report.MaxEvents != 0 {
		t.Errorf("MaxEvents = %d, expected 0", cfg.Report.MaxEvents)
	}
}

func TestLoadConfig_MergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitfeed.json")
	content := `{
		"monitor": {
			"intervalSeconds": 60,
			"remote": "upstream",
			"logFile": "feed.ndjson",
			"queryTimeoutSeconds": 30,
			"watchRefs": true
		},
		"filters": {"exclude": ["vendor/**"]}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Monitor.IntervalSeconds != 60 {
		t.Errorf("IntervalSeconds = %d, expected 60", cfg.Monitor.IntervalSeconds)
	}
	if cfg.Monitor.Remote != "upstream" {
		t.Errorf("Remote = %q, expected upstream", cfg.Monitor.Remote)
	}
	if cfg.Monitor.LogFile != "feed.ndjson" {
		t.Errorf("LogFile = %q, expected feed.ndjson", cfg.Monitor.LogFile)
	}
	if !cfg.Monitor.WatchRefs {
		t.Error("WatchRefs = false, expected true")
	}
	if len(cfg.Filters.Exclude) != 1 || cfg.Filters.Exclude[0] != "vendor/**" {
		t.Errorf("Exclude = %v, expected [vendor/**]", cfg.Filters.Exclude)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Monitor.IntervalSeconds != 5 {
		t.Errorf("IntervalSeconds = %d, expected default 5", cfg.Monitor.IntervalSeconds)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig succeeded on invalid JSON")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitfeed.json")
	cfg := DefaultConfig()
	cfg.Monitor.IntervalSeconds = 11

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Monitor.IntervalSeconds != 11 {
		t.Errorf("IntervalSeconds = %d, expected 11", loaded.Monitor.IntervalSeconds)
	}
}
