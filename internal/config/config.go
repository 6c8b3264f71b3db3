package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Source selects the byte stream: "serial" (default), "replay" or "sim".
	Source string `yaml:"source"`

	Serial      SerialConfig    `yaml:"serial"`
	Replay      ReplayConfig    `yaml:"replay"`
	Sim         SimConfig       `yaml:"sim"`
	Acquisition AcqConfig       `yaml:"acquisition"`
	Time        TimeConfig      `yaml:"time"`
	Display     DisplayConfig   `yaml:"display"`
	Heartbeat   HeartbeatConfig `yaml:"heartbeat"`
	MQTT        MQTTConfig      `yaml:"mqtt"`
	Web         WebConfig       `yaml:"web"`
	UDP         UDPConfig       `yaml:"udp"`
}

type SerialConfig struct {
	// Device may be empty to auto-detect a USB serial receiver.
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type ReplayConfig struct {
	Path     string        `yaml:"path"`
	Interval time.Duration `yaml:"interval"`
	Loop     bool          `yaml:"loop"`
}

type SimConfig struct {
	CenterLatDeg float64       `yaml:"center_lat_deg"`
	CenterLonDeg float64       `yaml:"center_lon_deg"`
	RadiusNm     float64       `yaml:"radius_nm"`
	Period       time.Duration `yaml:"period"`
	Interval     time.Duration `yaml:"interval"`
	Satellites   int           `yaml:"satellites"`
}

type AcqConfig struct {
	RingSize   int           `yaml:"ring_size"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type TimeConfig struct {
	// ZoneOffsetHours is the fixed whole-hour local-time offset, may be
	// negative. Offsets beyond a day are rejected.
	ZoneOffsetHours int `yaml:"zone_offset_hours"`
}

type DisplayConfig struct {
	Enable bool          `yaml:"enable"`
	Period time.Duration `yaml:"period"`
}

type HeartbeatConfig struct {
	Enable  bool          `yaml:"enable"`
	GPIOPin int           `yaml:"gpio_pin"`
	Period  time.Duration `yaml:"period"`
}

type MQTTConfig struct {
	Enable   bool          `yaml:"enable"`
	Broker   string        `yaml:"broker"`
	ClientID string        `yaml:"client_id"`
	Topic    string        `yaml:"topic"`
	Period   time.Duration `yaml:"period"`
}

type WebConfig struct {
	// Listen is the HTTP listen address; empty disables the status server.
	Listen string `yaml:"listen"`
}

type UDPConfig struct {
	// Dest is host:port for the raw sentence feed; empty disables it.
	Dest string `yaml:"dest"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Source == "" {
		cfg.Source = "serial"
	}
	switch cfg.Source {
	case "serial", "replay", "sim":
	default:
		return Config{}, fmt.Errorf("source must be serial, replay or sim, got %q", cfg.Source)
	}

	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 9600
	}

	if cfg.Source == "replay" && cfg.Replay.Path == "" {
		return Config{}, fmt.Errorf("replay.path is required when source is replay")
	}
	if cfg.Replay.Interval <= 0 {
		cfg.Replay.Interval = 100 * time.Millisecond
	}

	// Default to the canonical NMEA example position near Munich.
	if cfg.Sim.CenterLatDeg == 0 && cfg.Sim.CenterLonDeg == 0 {
		cfg.Sim.CenterLatDeg = 48.1173
		cfg.Sim.CenterLonDeg = 11.5167
	}
	if cfg.Sim.RadiusNm <= 0 {
		cfg.Sim.RadiusNm = 0.5
	}
	if cfg.Sim.Period <= 0 {
		cfg.Sim.Period = 2 * time.Minute
	}
	if cfg.Sim.Interval <= 0 {
		cfg.Sim.Interval = time.Second
	}
	if cfg.Sim.Satellites <= 0 {
		cfg.Sim.Satellites = 8
	}

	if cfg.Acquisition.RingSize < 0 {
		return Config{}, fmt.Errorf("acquisition.ring_size must not be negative")
	}
	if cfg.Acquisition.StaleAfter <= 0 {
		cfg.Acquisition.StaleAfter = 5 * time.Second
	}

	if cfg.Time.ZoneOffsetHours <= -24 || cfg.Time.ZoneOffsetHours >= 24 {
		return Config{}, fmt.Errorf("time.zone_offset_hours must be within -23..23, got %d", cfg.Time.ZoneOffsetHours)
	}

	if cfg.Display.Period <= 0 {
		cfg.Display.Period = time.Second
	}

	if cfg.Heartbeat.Enable && cfg.Heartbeat.GPIOPin <= 0 {
		return Config{}, fmt.Errorf("heartbeat.gpio_pin is required when heartbeat.enable is true")
	}
	if cfg.Heartbeat.Period <= 0 {
		cfg.Heartbeat.Period = 500 * time.Millisecond
	}

	if cfg.MQTT.Enable {
		if cfg.MQTT.Broker == "" {
			cfg.MQTT.Broker = "tcp://localhost:1883"
		}
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "r4gps"
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = "gps/fix"
		}
		if cfg.MQTT.Period <= 0 {
			cfg.MQTT.Period = time.Second
		}
	}

	return cfg, nil
}
