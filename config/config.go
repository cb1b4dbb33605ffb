package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/* Config is read from an optional bridge.yaml (or the file given with --config),
 * then overridden by BRIDGE_* environment variables, e.g. BRIDGE_REGISTRY_URL
 */

type Config struct {
	Session  SessionConfig  `mapstructure:"session"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Registry RegistryConfig `mapstructure:"registry"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Media    MediaConfig    `mapstructure:"media"`
	Bridge   BridgeConfig   `mapstructure:"bridge"`
	Driver   DriverConfig   `mapstructure:"driver"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

type SessionConfig struct {
	ID int `mapstructure:"id"`
}

type HTTPConfig struct {
	// PortBase plus the session id is the command API port
	PortBase int `mapstructure:"port_base"`
}

type RegistryConfig struct {
	// Driver is one of http, sqlite or file
	Driver     string        `mapstructure:"driver"`
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	FilePath   string        `mapstructure:"file_path"`
}

type WebhookConfig struct {
	// Envelope is plain or waha
	Envelope      string        `mapstructure:"envelope"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SigningSecret string        `mapstructure:"signing_secret"`
}

type MediaConfig struct {
	Dir           string `mapstructure:"dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type BridgeConfig struct {
	ReinitBackoff time.Duration `mapstructure:"reinit_backoff"`
	StatusTimeout time.Duration `mapstructure:"status_timeout"`
}

type DriverConfig struct {
	StoreDir   string `mapstructure:"store_dir"`
	LogLevel   string `mapstructure:"log_level"`
	QRTerminal bool   `mapstructure:"qr_terminal"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	HeartbeatTTL time.Duration `mapstructure:"heartbeat_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"session.id":             0,
	"http.port_base":         3000,
	"registry.driver":        "http",
	"registry.url":           "http://localhost:5000/api",
	"registry.timeout":       10 * time.Second,
	"registry.sqlite_path":   "instance/whatsapp_manager.db",
	"registry.file_path":     "webhooks.yaml",
	"webhook.envelope":       "plain",
	"webhook.timeout":        10 * time.Second,
	"webhook.signing_secret": "",
	"media.dir":              "media",
	"media.public_base_url":  "",
	"bridge.reinit_backoff":  10 * time.Second,
	"bridge.status_timeout":  10 * time.Second,
	"driver.store_dir":       "sessions",
	"driver.log_level":       "warn",
	"driver.qr_terminal":     false,
	"redis.enabled":          false,
	"redis.addr":             "localhost:6379",
	"redis.password":         "",
	"redis.db":               0,
	"redis.heartbeat_ttl":    60 * time.Second,
	"log.level":              "info",
	"log.format":             "json",
}

// GetConfig loads the configuration; file may be empty to look for bridge.yaml in the working directory
func GetConfig(file string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("bridge")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}

// Validate checks the settings needed to run one session
func (c *Config) Validate() error {
	if c.Session.ID <= 0 {
		return errors.New("session id is required")
	}
	switch c.Registry.Driver {
	case "http":
		if c.Registry.URL == "" {
			return errors.New("registry url is required for the http registry")
		}
	case "sqlite", "file":
	default:
		return fmt.Errorf("unknown registry driver: %s", c.Registry.Driver)
	}
	if c.Webhook.Envelope != "plain" && c.Webhook.Envelope != "waha" {
		return fmt.Errorf("unknown webhook envelope: %s", c.Webhook.Envelope)
	}
	return nil
}

// Port is the command API port of the configured session
func (c *Config) Port() int {
	return c.HTTP.PortBase + c.Session.ID
}
