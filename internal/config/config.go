// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the mail forwarder.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source identity strategies.
const (
	SourceModeFixed     = "fixed"
	SourceModeTemplated = "templated"
)

// Forwarding content modes.
const (
	ForwardModeSimple = "simple"
	ForwardModeRaw    = "raw"
)

// Delivery providers.
const (
	ProviderSES    = "ses"
	ProviderStdout = "stdout"
)

const (
	defaultMaxEmailSizeMB   = 10
	defaultIncomingPrefix   = "incoming"
	defaultSourceNameFormat = "%s (via forwarder)"
)

var (
	// ErrMissingForwardTo is returned when no destination address is configured.
	ErrMissingForwardTo = errors.New("FORWARD_TO_EMAIL is required")

	// ErrMissingSourceAddress is returned when no verified sending address is configured.
	ErrMissingSourceAddress = errors.New("FORWARD_SOURCE_ADDRESS is required")

	// ErrMissingBucket is returned when the SES provider is selected without a bucket.
	ErrMissingBucket = errors.New("EMAIL_BUCKET is required")
)

// Config holds the complete application configuration.
type Config struct {
	Provider string        `yaml:"provider"`
	Forward  ForwardConfig `yaml:"forward"`
	Storage  StorageConfig `yaml:"storage"`
	AWS      AWSConfig     `yaml:"aws"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ForwardConfig controls how the outgoing message is addressed.
type ForwardConfig struct {
	To               string `yaml:"to"`
	SourceAddress    string `yaml:"source_address"`
	SourceMode       string `yaml:"source_mode"`
	SourceNameFormat string `yaml:"source_name_format"`
	Mode             string `yaml:"mode"`
}

// StorageConfig locates stored inbound messages.
type StorageConfig struct {
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
	MaxEmailSizeMB int    `yaml:"max_email_size_mb"`
}

// AWSConfig holds AWS region and optional static credentials.
type AWSConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible defaults.
// Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// Validate reports the first configuration error that makes forwarding
// stored messages from the configured bucket impossible.
func (c *Config) Validate() error {
	if err := c.ValidateForward(); err != nil {
		return err
	}
	if c.Provider == ProviderSES && c.Storage.Bucket == "" {
		return ErrMissingBucket
	}
	return nil
}

// ValidateForward checks everything except the message store, for callers
// that read messages from somewhere other than the bucket.
func (c *Config) ValidateForward() error {
	if c.Forward.To == "" {
		return ErrMissingForwardTo
	}
	if c.Forward.SourceAddress == "" {
		return ErrMissingSourceAddress
	}

	switch c.Forward.SourceMode {
	case SourceModeFixed, SourceModeTemplated:
	default:
		return fmt.Errorf("invalid FORWARD_SOURCE_MODE %q: want %q or %q",
			c.Forward.SourceMode, SourceModeFixed, SourceModeTemplated)
	}

	switch c.Forward.Mode {
	case ForwardModeSimple, ForwardModeRaw:
	default:
		return fmt.Errorf("invalid FORWARD_MODE %q: want %q or %q",
			c.Forward.Mode, ForwardModeSimple, ForwardModeRaw)
	}

	switch c.Provider {
	case ProviderSES, ProviderStdout:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if c.Storage.MaxEmailSizeMB < 1 || c.Storage.MaxEmailSizeMB > 10 {
		return fmt.Errorf("MAX_EMAIL_SIZE_MB must be between 1 and 10, got %d", c.Storage.MaxEmailSizeMB)
	}

	return nil
}

// Templated returns true if the sender display name is woven into the source identity.
func (c *Config) Templated() bool {
	return c.Forward.SourceMode == SourceModeTemplated
}

// Raw returns true if the original message is forwarded with rewritten headers.
func (c *Config) Raw() bool {
	return c.Forward.Mode == ForwardModeRaw
}

// MaxEmailSize returns the maximum accepted raw message size in bytes.
func (c *Config) MaxEmailSize() int64 {
	return int64(c.Storage.MaxEmailSizeMB) * 1024 * 1024
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Provider = ProviderSES
	c.Forward.SourceMode = SourceModeFixed
	c.Forward.SourceNameFormat = defaultSourceNameFormat
	c.Forward.Mode = ForwardModeSimple
	c.Storage.Prefix = defaultIncomingPrefix
	c.Storage.MaxEmailSizeMB = defaultMaxEmailSizeMB
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}

	if v := os.Getenv("FORWARD_TO_EMAIL"); v != "" {
		c.Forward.To = strings.TrimSpace(v)
	}
	if v := os.Getenv("FORWARD_SOURCE_ADDRESS"); v != "" {
		c.Forward.SourceAddress = strings.TrimSpace(v)
	}
	if v := os.Getenv("FORWARD_SOURCE_MODE"); v != "" {
		c.Forward.SourceMode = strings.ToLower(v)
	}
	if v := os.Getenv("FORWARD_SOURCE_NAME_FORMAT"); v != "" {
		c.Forward.SourceNameFormat = v
	}
	if v := os.Getenv("FORWARD_MODE"); v != "" {
		c.Forward.Mode = strings.ToLower(v)
	}

	if v := os.Getenv("EMAIL_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
	if v := os.Getenv("INCOMING_PREFIX"); v != "" {
		c.Storage.Prefix = v
	}
	if v := os.Getenv("MAX_EMAIL_SIZE_MB"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.Storage.MaxEmailSizeMB = size
		}
	}

	if v := os.Getenv("AWS_REGION"); v != "" {
		c.AWS.Region = v
	}
	if v := os.Getenv("FORWARDER_ACCESS_KEY_ID"); v != "" {
		c.AWS.AccessKeyID = v
	}
	if v := os.Getenv("FORWARDER_SECRET_ACCESS_KEY"); v != "" {
		c.AWS.SecretAccessKey = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
