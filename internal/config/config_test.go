package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "serial: {}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source != "serial" {
		t.Fatalf("source=%q want serial", cfg.Source)
	}
	if cfg.Serial.Baud != 9600 {
		t.Fatalf("baud=%d want 9600", cfg.Serial.Baud)
	}
	if cfg.Acquisition.StaleAfter != 5*time.Second {
		t.Fatalf("stale_after=%s want 5s", cfg.Acquisition.StaleAfter)
	}
	if cfg.Display.Period != time.Second {
		t.Fatalf("display period=%s want 1s", cfg.Display.Period)
	}
	if cfg.Sim.Satellites != 8 || cfg.Sim.Interval != time.Second {
		t.Fatalf("sim defaults not applied: %+v", cfg.Sim)
	}
}

func TestLoad_RejectsUnknownSource(t *testing.T) {
	path := writeTempConfig(t, "source: carrier-pigeon\n")
	_, err := Load(path)
	requireErrEq(t, err, `source must be serial, replay or sim, got "carrier-pigeon"`)
}

func TestLoad_ReplayRequiresPath(t *testing.T) {
	path := writeTempConfig(t, "source: replay\n")
	_, err := Load(path)
	requireErrEq(t, err, "replay.path is required when source is replay")
}

func TestLoad_ZoneOffsetBounds(t *testing.T) {
	path := writeTempConfig(t, "time:\n  zone_offset_hours: 24\n")
	_, err := Load(path)
	requireErrEq(t, err, "time.zone_offset_hours must be within -23..23, got 24")

	path = writeTempConfig(t, "time:\n  zone_offset_hours: -12\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Time.ZoneOffsetHours != -12 {
		t.Fatalf("zone_offset_hours=%d want -12", cfg.Time.ZoneOffsetHours)
	}
}

func TestLoad_HeartbeatRequiresPin(t *testing.T) {
	path := writeTempConfig(t, "heartbeat:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "heartbeat.gpio_pin is required when heartbeat.enable is true")
}

func TestLoad_MQTTDefaults(t *testing.T) {
	path := writeTempConfig(t, "mqtt:\n  enable: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" {
		t.Fatalf("broker=%q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.ClientID != "r4gps" || cfg.MQTT.Topic != "gps/fix" {
		t.Fatalf("mqtt defaults not applied: %+v", cfg.MQTT)
	}
	if cfg.MQTT.Period != time.Second {
		t.Fatalf("period=%s want 1s", cfg.MQTT.Period)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
