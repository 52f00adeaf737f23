package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if c.Server.Port != 8000 || c.Server.WriteTimeout != 120*time.Second {
		t.Fatalf("unexpected server defaults %+v", c.Server)
	}
	if c.Forecast.UncertaintySamples != 1000 || c.Forecast.IntervalWidth != 0.8 {
		t.Fatalf("unexpected forecast defaults %+v", c.Forecast)
	}
	if !c.Metrics.Enabled || c.Metrics.Path != "/metrics" {
		t.Fatalf("unexpected metrics defaults %+v", c.Metrics)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: staging
server:
  port: 9090
  read_timeout: 5s
metrics:
  enabled: false
forecast:
  uncertainty_samples: 200
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "staging" || c.Server.Port != 9090 || c.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("unexpected values %+v", c)
	}
	if c.Metrics.Enabled {
		t.Fatalf("explicit false must survive defaults")
	}
	if c.Forecast.UncertaintySamples != 200 || c.Forecast.NChangepoints != 25 {
		t.Fatalf("unexpected forecast %+v", c.Forecast)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: chatty
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}

	path = writeConfig(t, `
forecast:
  interval_width: 1.5
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for interval width")
	}
}

func TestLoadWithEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if c.Server.Port != 7000 {
		t.Fatalf("expected port override, got %d", c.Server.Port)
	}
	if c.Logger.Level != "debug" {
		t.Fatalf("expected level override, got %s", c.Logger.Level)
	}
}
