package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
server:
  port: 9090
  mode: test
database:
  driver: sqlite
  dsn: "file::memory:"
ingest:
  ongoing_window_days: 365
sync:
  interval: 30m
  enabled_sources: [harbor]
sources:
  harbor:
    type: jsonfeed
    venue_id: 4
    base_url: https://feeds.example.org
    path: /harbor.json
    retry_count: 2
    organizer: Harbor Arts
    rate_per_second: 0.5
    burst: 1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigFrom(t *testing.T) {
	cfg, err := LoadConfigFrom(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Mode != "test" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.LogLevel != "warn" || cfg.Database.MaxOpenConns != 20 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Ingest.OngoingWindowDays != 365 || cfg.Ingest.PlaceholderHorizonYears != 10 {
		t.Errorf("ingest = %+v", cfg.Ingest)
	}
	if cfg.Sync.Interval != 30*time.Minute {
		t.Errorf("interval = %s", cfg.Sync.Interval)
	}
	src, ok := cfg.Sources["harbor"]
	if !ok {
		t.Fatalf("sources = %+v", cfg.Sources)
	}
	if src.VenueID != 4 || src.RetryCount != 2 || src.RatePerSecond != 0.5 || src.Organizer != "Harbor Arts" {
		t.Errorf("source = %+v", src)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "file:override.db")
	t.Setenv("HARBOR_PROXY", "http://127.0.0.1:3128")

	cfg, err := LoadConfigFrom(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Database.DSN != "file:override.db" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Sources["harbor"].Proxy != "http://127.0.0.1:3128" {
		t.Errorf("proxy = %q", cfg.Sources["harbor"].Proxy)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
	}{
		{"bad driver", [2]string{"driver: sqlite", "driver: mysql"}},
		{"bad mode", [2]string{"mode: test", "mode: verbose"}},
		{"bad base url", [2]string{"base_url: https://feeds.example.org", "base_url: not a url"}},
		{"missing venue", [2]string{"venue_id: 4", "venue_id: 0"}},
		{"unknown enabled source", [2]string{"enabled_sources: [harbor]", "enabled_sources: [harbor, lighthouse]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Replace(sampleConfig, tt.replace[0], tt.replace[1], 1)
			if _, err := LoadConfigFrom(writeConfig(t, body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfigFrom(t.TempDir()); err == nil {
		t.Error("expected error for missing config.yaml")
	}
}

func TestLoadAffinityTable(t *testing.T) {
	empty, err := LoadAffinityTable("")
	if err != nil || len(empty.Domains) != 0 {
		t.Fatalf("empty path = %+v, %v", empty, err)
	}

	path := filepath.Join(t.TempDir(), "affinity.yaml")
	body := "domains:\n  harbor-arts.org: Harbor Arts Center\nshared_sites:\n  harbor-arts.org:\n    - Harbor Arts Annex\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	table, err := LoadAffinityTable(path)
	if err != nil {
		t.Fatalf("LoadAffinityTable: %v", err)
	}
	if table.Domains["harbor-arts.org"] != "Harbor Arts Center" {
		t.Errorf("domains = %+v", table.Domains)
	}
	if got := table.SharedSites["harbor-arts.org"]; len(got) != 1 || got[0] != "Harbor Arts Annex" {
		t.Errorf("shared_sites = %+v", table.SharedSites)
	}

	if _, err := LoadAffinityTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
