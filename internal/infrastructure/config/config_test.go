package config

import (
	"os"
	"path/filepath"
	"testing"
)

// writeConfig drops YAML content into a temp file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
show:
  name: "fireplace"
  repeat: 3
  lights:
    - id: "bulb-left"
      name: "left"
    - id: "bulb-right"
      name: "right"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
audio:
  binary: "aplay"
  args: ["-q"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"Show.Name", cfg.Show.Name, "fireplace"},
		{"Show.Repeat", cfg.Show.Repeat, 3},
		{"Database.Path", cfg.Database.Path, "/tmp/test.db"},
		{"MQTT.Broker.Host", cfg.MQTT.Broker.Host, "localhost"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if len(cfg.Show.Lights) != 2 || cfg.Show.Lights[0].ID != "bulb-left" {
		t.Errorf("Show.Lights = %+v, want two fixtures starting with bulb-left", cfg.Show.Lights)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	// Explicit empty name overwrites the default and must be rejected.
	path := writeConfig(t, `
show:
  name: ""
database:
  path: "/tmp/test.db"
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail validation for empty show.name")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
show:
  name: "fireplace"
database:
  path: "/from/file.db"
`)
	t.Setenv("SHOWLOGIC_DATABASE_PATH", "/from/env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/from/env.db" {
		t.Errorf("Database.Path = %q, want env value to win over file", cfg.Database.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Show:     ShowConfig{Name: "fireplace"},
			Database: DatabaseConfig{Path: "/data/showlogic.db"},
			MQTT:     MQTTConfig{QoS: 1},
			Audio:    AudioConfig{Binary: "aplay"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing show name",
			mutate:  func(cfg *Config) { cfg.Show.Name = "" },
			wantErr: true,
		},
		{
			name:    "repeat below loop sentinel",
			mutate:  func(cfg *Config) { cfg.Show.Repeat = -2 },
			wantErr: true,
		},
		{
			name:    "loop repeat is valid",
			mutate:  func(cfg *Config) { cfg.Show.Repeat = -1 },
			wantErr: false,
		},
		{
			name: "light without id",
			mutate: func(cfg *Config) {
				cfg.Show.Lights = []LightConfig{{Name: "left"}}
			},
			wantErr: true,
		},
		{
			name: "duplicate light ids",
			mutate: func(cfg *Config) {
				cfg.Show.Lights = []LightConfig{
					{ID: "bulb", Name: "left"},
					{ID: "bulb", Name: "right"},
				}
			},
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(cfg *Config) { cfg.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(cfg *Config) { cfg.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "missing audio binary",
			mutate:  func(cfg *Config) { cfg.Audio.Binary = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"SHOWLOGIC_SHOW_NAME":      "thunderstorm",
		"SHOWLOGIC_DATABASE_PATH":  "/custom/path.db",
		"SHOWLOGIC_MQTT_HOST":      "mqtt.example.com",
		"SHOWLOGIC_MQTT_USERNAME":  "testuser",
		"SHOWLOGIC_MQTT_PASSWORD":  "testpass",
		"SHOWLOGIC_INFLUXDB_TOKEN": "secret-token",
		"SHOWLOGIC_AUDIO_BINARY":   "paplay",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	got := map[string]string{
		"SHOWLOGIC_SHOW_NAME":      cfg.Show.Name,
		"SHOWLOGIC_DATABASE_PATH":  cfg.Database.Path,
		"SHOWLOGIC_MQTT_HOST":      cfg.MQTT.Broker.Host,
		"SHOWLOGIC_MQTT_USERNAME":  cfg.MQTT.Auth.Username,
		"SHOWLOGIC_MQTT_PASSWORD":  cfg.MQTT.Auth.Password,
		"SHOWLOGIC_INFLUXDB_TOKEN": cfg.InfluxDB.Token,
		"SHOWLOGIC_AUDIO_BINARY":   cfg.Audio.Binary,
	}
	for k, want := range env {
		if got[k] != want {
			t.Errorf("%s: field = %q, want %q", k, got[k], want)
		}
	}
}

func TestApplyEnvOverrides_UnsetLeavesDefaults(t *testing.T) {
	// Blank the variables so values exported in the developer's shell
	// cannot leak in.
	for _, k := range []string{"SHOWLOGIC_SHOW_NAME", "SHOWLOGIC_DATABASE_PATH"} {
		t.Setenv(k, "")
	}

	cfg := defaultConfig()
	before := *cfg

	applyEnvOverrides(cfg)

	if cfg.Show.Name != before.Show.Name || cfg.Database.Path != before.Database.Path {
		t.Error("unset variables must not alter defaults")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.Audio.Binary != "aplay" {
		t.Errorf("Audio.Binary = %q, want %q", cfg.Audio.Binary, "aplay")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate cleanly, got %v", err)
	}
}
