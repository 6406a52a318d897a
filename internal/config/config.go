package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all settings for the heart-monitor binaries.
type Config struct {
	// MQTT holds broker connection and identity settings.
	MQTT MQTT `yaml:"mqtt"`
	// Monitor holds polling and alarm threshold settings.
	Monitor Monitor `yaml:"monitor"`
	// Pins holds hardware pin assignments for the monitor devices.
	Pins Pins `yaml:"pins"`
}

// MQTT describes how to reach the telemetry broker and which identity to use.
// Topics are published under "<account_id>/<topic>" so several devices can
// share one public broker without colliding.
type MQTT struct {
	// BrokerURL is the broker endpoint, e.g. "tcp://broker.mqttdashboard.com:1883".
	BrokerURL string `yaml:"broker_url" envconfig:"BROKER_URL"`
	// AccountID is the per-deployment topic namespace prefix.
	AccountID string `yaml:"account_id" envconfig:"ACCOUNT_ID"`
	// ClientID identifies this device to the broker.
	// When empty, a random 20-character identifier is generated at connect time.
	ClientID string `yaml:"client_id" envconfig:"CLIENT_ID"`
	// Username is the broker username, empty for anonymous brokers.
	Username string `yaml:"username" envconfig:"USERNAME"`
	// Password is the broker password, empty for anonymous brokers.
	Password string `yaml:"password" envconfig:"PASSWORD"`
	// ConnectTimeout bounds the initial broker handshake.
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"CONNECT_TIMEOUT"`
	// PublishTimeout bounds each publish acknowledgement wait.
	PublishTimeout time.Duration `yaml:"publish_timeout" envconfig:"PUBLISH_TIMEOUT"`
}

// Monitor holds the monitor loop tuning knobs.
type Monitor struct {
	// Threshold is the reading above which the alarm engages.
	// The comparison is strict: a reading equal to the threshold stays normal.
	Threshold int `yaml:"threshold" envconfig:"THRESHOLD"`
	// PollInterval is the pause between normal-mode sensor samples.
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"POLL_INTERVAL"`
}

// Pins maps monitor devices to hardware pin numbers.
// The simulated devices only carry these as labels; real drivers use them
// to claim GPIO lines.
type Pins struct {
	// AlarmLamp is the digital output driving the visual alarm indicator.
	AlarmLamp uint8 `yaml:"alarm_lamp"`
	// Buzzer is the PWM-capable output driving the audible alarm.
	Buzzer uint8 `yaml:"buzzer"`
	// ResetButton is the pulled-low digital input acknowledging an alarm.
	ResetButton uint8 `yaml:"reset_button"`
	// SensorTrigger is the distance sensor trigger output.
	SensorTrigger uint8 `yaml:"sensor_trigger"`
	// SensorEcho is the distance sensor echo input.
	SensorEcho uint8 `yaml:"sensor_echo"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "heart-monitor-settings.yaml"

	// DefaultBrokerURL is the public sandbox broker the device ships pointed at.
	DefaultBrokerURL = "tcp://broker.mqttdashboard.com:1883"

	// DefaultThreshold is the reading above which the alarm engages.
	DefaultThreshold = 150

	// DefaultPollInterval is the pause between normal-mode samples.
	DefaultPollInterval = 1 * time.Second

	// DefaultConnectTimeout bounds the initial broker handshake.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultPublishTimeout bounds each publish acknowledgement wait.
	DefaultPublishTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// envPrefix namespaces environment variable overrides,
	// e.g. HEART_MONITOR_MQTT_BROKER_URL.
	envPrefix = "heart_monitor"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAccountIDRequired is returned when the MQTT account ID is missing.
	errAccountIDRequired = errors.New("mqtt account ID must be provided")
)

// Load reads configuration from the provided path, applies environment
// overrides, and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	// Environment variables beat the file so deployments can
	// override credentials without editing it.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions, the file may carry broker credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields, verifies formats and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.MQTT.AccountID == "" {
		return errAccountIDRequired
	}

	if cfg.MQTT.BrokerURL == "" {
		cfg.MQTT.BrokerURL = DefaultBrokerURL
	}

	if _, err := url.Parse(cfg.MQTT.BrokerURL); err != nil {
		return fmt.Errorf("invalid broker URL: %w", err)
	}

	if cfg.MQTT.ConnectTimeout <= 0 {
		cfg.MQTT.ConnectTimeout = DefaultConnectTimeout
	}

	if cfg.MQTT.PublishTimeout <= 0 {
		cfg.MQTT.PublishTimeout = DefaultPublishTimeout
	}

	if cfg.Monitor.Threshold <= 0 {
		cfg.Monitor.Threshold = DefaultThreshold
	}

	if cfg.Monitor.PollInterval <= 0 {
		cfg.Monitor.PollInterval = DefaultPollInterval
	}

	return nil
}
