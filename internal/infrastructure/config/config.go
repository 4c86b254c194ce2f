package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for Show Logic Core, populated from
// YAML with environment variable overrides on top.
type Config struct {
	Show     ShowConfig     `yaml:"show"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Audio    AudioConfig    `yaml:"audio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ShowConfig describes the show the runner builds at startup.
type ShowConfig struct {
	// Name identifies the show in logs, run history, and MQTT payloads.
	Name string `yaml:"name"`

	// Repeat is how many times the runner plays the main loop.
	// 0 means once; -1 loops until shutdown.
	Repeat int `yaml:"repeat"`

	// Lights are the MQTT-bridged fixtures registered with the show.
	Lights []LightConfig `yaml:"lights"`
}

// LightConfig describes one MQTT-bridged light fixture.
type LightConfig struct {
	// ID is the fixture's address segment in command/state topics.
	ID string `yaml:"id"`

	// Name is the handle effects are recorded against. Defaults to ID.
	Name string `yaml:"name"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig holds everything needed to reach the broker.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig identifies the broker endpoint.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig carries broker credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig tunes the reconnect backoff (delays in seconds;
// zero MaxAttempts retries forever).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig holds the telemetry sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// AudioConfig holds sound playback settings.
type AudioConfig struct {
	// Binary is the external player executable.
	Binary string `yaml:"binary"`

	// Args are passed to the binary before the sound file path.
	Args []string `yaml:"args"`

	// SoundDir is prepended to relative sound paths in the show.
	SoundDir string `yaml:"sound_dir"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads the YAML file at path and returns a validated Config.
//
// Precedence, lowest to highest: built-in defaults, file values,
// environment variables of the form SHOWLOGIC_SECTION_KEY (for example
// SHOWLOGIC_DATABASE_PATH or SHOWLOGIC_MQTT_HOST).
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig is the baseline the YAML file is unmarshalled over.
func defaultConfig() *Config {
	return &Config{
		Show: ShowConfig{
			Name:   "fireplace",
			Repeat: 1,
		},
		Database: DatabaseConfig{
			Path:        "./data/showlogic.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "showlogic-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Audio: AudioConfig{
			Binary: "aplay",
			Args:   []string{"-q"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides copies any set SHOWLOGIC_* variable over its config
// field. Only string settings are overridable; credentials belong here
// rather than in the file.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"SHOWLOGIC_SHOW_NAME", &cfg.Show.Name},
		{"SHOWLOGIC_DATABASE_PATH", &cfg.Database.Path},
		{"SHOWLOGIC_MQTT_HOST", &cfg.MQTT.Broker.Host},
		{"SHOWLOGIC_MQTT_USERNAME", &cfg.MQTT.Auth.Username},
		{"SHOWLOGIC_MQTT_PASSWORD", &cfg.MQTT.Auth.Password},
		{"SHOWLOGIC_INFLUXDB_TOKEN", &cfg.InfluxDB.Token},
		{"SHOWLOGIC_AUDIO_BINARY", &cfg.Audio.Binary},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// Validate reports every configuration problem at once, joined into a
// single error.
func (c *Config) Validate() error {
	var errs []string

	if c.Show.Name == "" {
		errs = append(errs, "show.name is required")
	}
	if c.Show.Repeat < -1 {
		errs = append(errs, "show.repeat must be -1 (loop), 0 (once), or a positive count")
	}

	// Light fixtures need an ID for topic addressing, and IDs must be
	// unique or two fixtures would answer on the same command topic.
	seen := make(map[string]bool, len(c.Show.Lights))
	for i, light := range c.Show.Lights {
		if light.ID == "" {
			errs = append(errs, fmt.Sprintf("show.lights[%d].id is required", i))
			continue
		}
		if seen[light.ID] {
			errs = append(errs, fmt.Sprintf("show.lights[%d].id %q is duplicated", i, light.ID))
		}
		seen[light.ID] = true
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.Audio.Binary == "" {
		errs = append(errs, "audio.binary is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
