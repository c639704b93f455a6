package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/tablestress/internal/adapters/runner"
	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ops"
)

// Defaults of the dispatch engine.
const (
	DefaultWorkers       = 10
	DefaultStatusWorkers = 20
	DefaultHadoopCLI     = "hadoop"
	DefaultSSHTimeout    = 10 * time.Second
)

// Config holds CLI configuration for tablestress.
type Config struct {
	Workers       int
	StatusWorkers int
	Deadline      time.Duration
	DryRun        bool

	AdminCLI                 string
	HadoopCLI                string
	LoadTestPath             string
	SuffixWidth              int
	ReplicaPrefix            string
	MultimasterReplicaPrefix string
	VolumeReplication        int
	VolumeTopology           string

	LogLevel    string
	LogFormat   string
	MetricsAddr string

	AMQPURL      string
	AMQPExchange string

	SSHHost       string
	SSHPort       string
	SSHUser       string
	SSHKeyPath    string
	SSHKnownHosts string
	SSHInsecure   bool
	SSHTimeout    time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	lib := ops.DefaultConfig()
	return Config{
		Workers:                  DefaultWorkers,
		StatusWorkers:            DefaultStatusWorkers,
		AdminCLI:                 lib.AdminCLI,
		HadoopCLI:                DefaultHadoopCLI,
		LoadTestPath:             lib.LoadTestPath,
		SuffixWidth:              lib.SuffixWidth,
		ReplicaPrefix:            lib.ReplicaPrefix,
		MultimasterReplicaPrefix: lib.MultimasterReplicaPrefix,
		VolumeReplication:        lib.VolumeReplication,
		VolumeTopology:           lib.VolumeTopology,
		LogLevel:                 "info",
		LogFormat:                "console",
		SSHTimeout:               DefaultSSHTimeout,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", domain.ErrInvalidConfig)
	}
	if c.StatusWorkers < 1 {
		c.StatusWorkers = c.Workers
	}
	if c.Deadline < 0 {
		return fmt.Errorf("%w: deadline must not be negative", domain.ErrInvalidConfig)
	}
	if c.HadoopCLI == "" {
		c.HadoopCLI = DefaultHadoopCLI
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	switch c.LogFormat {
	case "":
		c.LogFormat = "console"
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format must be console or json, got %q", domain.ErrInvalidConfig, c.LogFormat)
	}

	if c.SSHHost != "" {
		if c.SSHUser == "" {
			return fmt.Errorf("%w: ssh-user is required with ssh-host", domain.ErrInvalidConfig)
		}
		if c.SSHKeyPath == "" {
			return fmt.Errorf("%w: ssh-key is required with ssh-host", domain.ErrInvalidConfig)
		}
		if c.SSHPort != "" {
			if p, err := strconv.Atoi(c.SSHPort); err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("%w: invalid ssh port %q", domain.ErrInvalidConfig, c.SSHPort)
			}
		}
		if c.SSHTimeout <= 0 {
			c.SSHTimeout = DefaultSSHTimeout
		}
	}
	return nil
}

// OpsConfig returns the operation library settings.
func (c Config) OpsConfig() ops.Config {
	return ops.Config{
		AdminCLI:                 c.AdminCLI,
		LoadTestPath:             c.LoadTestPath,
		SuffixWidth:              c.SuffixWidth,
		ReplicaPrefix:            c.ReplicaPrefix,
		MultimasterReplicaPrefix: c.MultimasterReplicaPrefix,
		VolumeReplication:        c.VolumeReplication,
		VolumeTopology:           c.VolumeTopology,
	}
}

// Remote reports whether commands run on a cluster node over SSH.
func (c Config) Remote() bool {
	return c.SSHHost != ""
}

// SSHRunner returns the remote executor described by the ssh settings.
func (c Config) SSHRunner() runner.SSHRunner {
	return runner.SSHRunner{
		Host:       c.SSHHost,
		Port:       c.SSHPort,
		User:       c.SSHUser,
		KeyPath:    c.SSHKeyPath,
		KnownHosts: c.SSHKnownHosts,
		Insecure:   c.SSHInsecure,
		Timeout:    c.SSHTimeout,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
