package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"telegram": {"token": "t", "owner_user_ids": [7]},
		"storage": {"driver": "file", "path": "./data"},
		"provider": {"locale": "en-US", "country": "US", "timeout": "10s"}
	}`)

	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "t" || len(cfg.Telegram.OwnerUserIDs) != 1 {
		t.Fatalf("telegram config = %+v", cfg.Telegram)
	}
	if cfg.Storage.Driver != "file" {
		t.Fatalf("storage config = %+v", cfg.Storage)
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get must return the committed config")
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
telegram:
  token: t
logging:
  level: debug
  console: false
provider:
  country: DE
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging config = %+v", cfg.Logging)
	}
	if cfg.Logging.ConsoleEnabled() {
		t.Fatal("console explicitly disabled")
	}
	if cfg.Provider.Country != "DE" {
		t.Fatalf("provider config = %+v", cfg.Provider)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "config.json", `{"telegram": {"token": "t"}, "surprise": true}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoadRejectsTrailingData(t *testing.T) {
	path := writeFile(t, "config.json", `{"telegram": {"token": "t"}}{"again": 1}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestConsoleDefaultsOn(t *testing.T) {
	var l LoggingConfig
	if !l.ConsoleEnabled() {
		t.Fatal("console must default to enabled")
	}
}

func TestParseDurationHelpers(t *testing.T) {
	d, err := ParseDurationOrDefault("x", "", 10*time.Second)
	if err != nil || d != 10*time.Second {
		t.Fatalf("empty = (%v, %v)", d, err)
	}
	d, err = ParseDurationOrDefault("x", "1m", 10*time.Second)
	if err != nil || d != time.Minute {
		t.Fatalf("1m = (%v, %v)", d, err)
	}
	if _, err := ParseDurationField("x", "soon"); err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if _, err := ParseDurationField("x", "-5s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
