package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/anyhost/protover/internal/protover"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "PROTOVER_LOG_LEVEL"

// DefaultRequiredProtocols is what a peer must announce unless configured
// otherwise.
const DefaultRequiredProtocols = "Cons=1 Desc=1 Link=3-4 Microdesc=1 Relay=1-2"

// Config holds configuration for the protover and dirvote commands.
type Config struct {
	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// Vote configures a directory vote.
	Vote VoteConfig `yaml:"vote" toml:"vote"`

	// Negotiation configures handshake checks.
	Negotiation NegotiationConfig `yaml:"negotiation" toml:"negotiation"`
}

// VoteConfig holds the inputs of one vote.
type VoteConfig struct {
	// Threshold is how many voters must list a version for it to pass.
	// Zero means a simple majority of the configured votes.
	Threshold int `yaml:"threshold" toml:"threshold"`

	// Votes is the protocol list each voter advertised.
	Votes []Vote `yaml:"votes" toml:"votes"`
}

// Vote is one voter's advertisement.
type Vote struct {
	// Name identifies the voter in logs.
	Name string `yaml:"name" toml:"name"`

	// Protocols is the advertised list, e.g. "Link=1-5 Relay=1-2".
	Protocols string `yaml:"protocols" toml:"protocols"`
}

// NegotiationConfig holds handshake settings.
type NegotiationConfig struct {
	// RequiredProtocols lists versions every peer must announce.
	RequiredProtocols string `yaml:"required_protocols" toml:"required_protocols"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Negotiation: NegotiationConfig{
			RequiredProtocols: DefaultRequiredProtocols,
		},
	}
}

// LoadConfig loads configuration from a YAML file, or a TOML file when the
// extension is .toml, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		unmarshal = toml.Unmarshal
	}

	config := DefaultConfig()
	if err := unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Vote.Threshold < 0 {
		return fmt.Errorf("vote.threshold must not be negative")
	}
	for i, vote := range c.Vote.Votes {
		if vote.Name == "" {
			return fmt.Errorf("vote.votes[%d]: name is required", i)
		}
	}
	if c.Negotiation.RequiredProtocols != "" {
		if _, err := protover.ParseUnvalidatedEntry(c.Negotiation.RequiredProtocols); err != nil {
			return fmt.Errorf("negotiation.required_protocols: %w", err)
		}
	}
	return nil
}

// EffectiveThreshold returns the configured threshold, or a simple majority
// of the votes when none is set.
func (v *VoteConfig) EffectiveThreshold() int {
	if v.Threshold > 0 {
		return v.Threshold
	}
	return len(v.Votes)/2 + 1
}
