package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for otaboot.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	WiFi     WiFiConfig     `yaml:"wifi"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	TLS      TLSConfig      `yaml:"tls"`
	OTA      OTAConfig      `yaml:"ota"`
	History  HistoryConfig  `yaml:"history"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DeviceConfig identifies this device.
type DeviceConfig struct {
	// ID is the unique device identifier, used as the MQTT client id
	// and in update topic names.
	ID string `yaml:"id"`

	// Name is a human-readable label for logs and reports.
	Name string `yaml:"name"`
}

// WiFiConfig contains access-point credentials and retry policy.
type WiFiConfig struct {
	// Interface is the wireless interface to associate on (e.g., "wlan0").
	Interface string `yaml:"interface"`

	// SSID is the access point name.
	SSID string `yaml:"ssid"`

	// Passphrase is the pre-shared key. Empty for open networks.
	Passphrase string `yaml:"passphrase"`

	// Security is the security mode: "open", "wpa2", or "wpa3".
	Security string `yaml:"security"`

	// MaxRetries is the maximum number of association attempts.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelayMS is the fixed delay between attempts, in milliseconds.
	// The delay is constant: no backoff growth, no jitter.
	RetryDelayMS int `yaml:"retry_delay_ms"`

	// ConnectTimeout is the per-attempt association timeout.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
// Whether the connection uses TLS is decided by the tls section.
type MQTTBrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// TLSConfig contains the credential material for the secure transport.
// All paths point at PEM files.
type TLSConfig struct {
	// Enabled selects TLS for the broker connection. When false the
	// credential paths are ignored and the connection is plaintext.
	Enabled bool `yaml:"enabled"`

	// RootCA is the path to the broker's root CA certificate.
	RootCA string `yaml:"root_ca"`

	// ClientCert is the path to the device client certificate.
	ClientCert string `yaml:"client_cert"`

	// PrivateKey is the path to the device private key.
	PrivateKey string `yaml:"private_key"`
}

// OTAConfig contains update agent settings.
type OTAConfig struct {
	// TopicFilters are the MQTT subscription patterns for update
	// notifications. If empty, the default device notify filter is used.
	TopicFilters []string `yaml:"topic_filters"`

	// RebootUponCompletion triggers a device reboot after a successful update.
	RebootUponCompletion bool `yaml:"reboot_upon_completion"`

	// Installer configures the external command that stages and applies
	// update images. The agent only drives its lifecycle.
	Installer InstallerConfig `yaml:"installer"`
}

// InstallerConfig describes the external update installer command.
type InstallerConfig struct {
	// Command is the path to the installer executable (e.g., "/usr/bin/rauc").
	Command string `yaml:"command"`

	// Args are fixed arguments prepended to the per-stage arguments.
	Args []string `yaml:"args"`

	// WorkDir is the working directory for the installer. Empty inherits.
	WorkDir string `yaml:"work_dir"`

	// Timeout bounds each installer stage invocation.
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig contains update history database settings.
type HistoryConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains optional telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: OTABOOT_SECTION_KEY
// For example: OTABOOT_WIFI_PASSPHRASE, OTABOOT_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
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

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			ID: "otaboot-device",
		},
		WiFi: WiFiConfig{
			Interface:      "wlan0",
			Security:       "wpa2",
			MaxRetries:     10,
			RetryDelayMS:   500,
			ConnectTimeout: 30 * time.Second,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		OTA: OTAConfig{
			RebootUponCompletion: true,
			Installer: InstallerConfig{
				Timeout: 10 * time.Minute,
			},
		},
		History: HistoryConfig{
			Path:        "./data/otaboot.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: OTABOOT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("OTABOOT_DEVICE_ID"); v != "" {
		cfg.Device.ID = v
	}

	// Wi-Fi credentials are the most common deployment-time override.
	if v := os.Getenv("OTABOOT_WIFI_SSID"); v != "" {
		cfg.WiFi.SSID = v
	}
	if v := os.Getenv("OTABOOT_WIFI_PASSPHRASE"); v != "" {
		cfg.WiFi.Passphrase = v
	}

	// MQTT
	if v := os.Getenv("OTABOOT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("OTABOOT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("OTABOOT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// History
	if v := os.Getenv("OTABOOT_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}

	// InfluxDB
	if v := os.Getenv("OTABOOT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// validSecurityModes are the accepted wifi.security values.
var validSecurityModes = map[string]bool{
	"open": true,
	"wpa2": true,
	"wpa3": true,
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Device validation
	if c.Device.ID == "" {
		errs = append(errs, "device.id is required")
	}

	// Wi-Fi validation
	if c.WiFi.SSID == "" {
		errs = append(errs, "wifi.ssid is required")
	}
	security := strings.ToLower(c.WiFi.Security)
	if !validSecurityModes[security] {
		errs = append(errs, "wifi.security must be one of: open, wpa2, wpa3")
	}
	if security != "open" && c.WiFi.Passphrase == "" {
		errs = append(errs, "wifi.passphrase is required for secured networks")
	}
	if c.WiFi.MaxRetries < 1 {
		errs = append(errs, "wifi.max_retries must be at least 1")
	}
	if c.WiFi.RetryDelayMS < 0 {
		errs = append(errs, "wifi.retry_delay_ms must not be negative")
	}

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// TLS validation: all three credential paths are required together.
	if c.TLS.Enabled {
		if c.TLS.RootCA == "" {
			errs = append(errs, "tls.root_ca is required when tls is enabled")
		}
		if c.TLS.ClientCert == "" {
			errs = append(errs, "tls.client_cert is required when tls is enabled")
		}
		if c.TLS.PrivateKey == "" {
			errs = append(errs, "tls.private_key is required when tls is enabled")
		}
	}

	// History validation
	if c.History.Path == "" {
		errs = append(errs, "history.path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// RetryDelay returns the Wi-Fi inter-attempt delay as a Duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.WiFi.RetryDelayMS) * time.Millisecond
}
