package cliconfig

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/tablestress/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Workers != 10 {
		t.Errorf("Workers = %v, want 10", cfg.Workers)
	}
	if cfg.StatusWorkers != 20 {
		t.Errorf("StatusWorkers = %v, want 20", cfg.StatusWorkers)
	}
	if cfg.AdminCLI != "maprcli" {
		t.Errorf("AdminCLI = %v, want maprcli", cfg.AdminCLI)
	}
	if cfg.SuffixWidth != 5 {
		t.Errorf("SuffixWidth = %v, want 5", cfg.SuffixWidth)
	}
	if cfg.Deadline != 0 {
		t.Errorf("Deadline = %v, want none", cfg.Deadline)
	}
	if cfg.SSHTimeout != 10*time.Second {
		t.Errorf("SSHTimeout = %v, want 10s", cfg.SSHTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		check   func(t *testing.T, c Config)
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: true},
		{name: "negative deadline", mutate: func(c *Config) { c.Deadline = -time.Second }, wantErr: true},
		{
			name:   "status workers fall back to workers",
			mutate: func(c *Config) { c.Workers = 4; c.StatusWorkers = 0 },
			check: func(t *testing.T, c Config) {
				if c.StatusWorkers != 4 {
					t.Errorf("StatusWorkers = %v, want 4", c.StatusWorkers)
				}
			},
		},
		{
			name:   "log level normalized",
			mutate: func(c *Config) { c.LogLevel = " DEBUG " },
			check: func(t *testing.T, c Config) {
				if c.LogLevel != "debug" {
					t.Errorf("LogLevel = %q, want debug", c.LogLevel)
				}
			},
		},
		{
			name:   "empty log level defaults to info",
			mutate: func(c *Config) { c.LogLevel = "" },
			check: func(t *testing.T, c Config) {
				if c.LogLevel != "info" {
					t.Errorf("LogLevel = %q, want info", c.LogLevel)
				}
			},
		},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "ssh without user", mutate: func(c *Config) { c.SSHHost = "node1"; c.SSHKeyPath = "/k" }, wantErr: true},
		{name: "ssh without key", mutate: func(c *Config) { c.SSHHost = "node1"; c.SSHUser = "mapr" }, wantErr: true},
		{
			name: "ssh bad port",
			mutate: func(c *Config) {
				c.SSHHost, c.SSHUser, c.SSHKeyPath, c.SSHPort = "node1", "mapr", "/k", "70000"
			},
			wantErr: true,
		},
		{
			name: "ssh complete",
			mutate: func(c *Config) {
				c.SSHHost, c.SSHUser, c.SSHKeyPath, c.SSHPort = "node1", "mapr", "/k", "2222"
				c.SSHTimeout = 0
			},
			check: func(t *testing.T, c Config) {
				if !c.Remote() {
					t.Error("Remote() = false, want true")
				}
				if c.SSHTimeout != DefaultSSHTimeout {
					t.Errorf("SSHTimeout = %v, want %v", c.SSHTimeout, DefaultSSHTimeout)
				}
				r := c.SSHRunner()
				if r.Host != "node1" || r.Port != "2222" || r.User != "mapr" || r.KeyPath != "/k" {
					t.Errorf("SSHRunner() = %+v", r)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_OpsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReplicaPrefix = "rt"
	cfg.VolumeTopology = "/rack1"

	oc := cfg.OpsConfig()
	if oc.ReplicaPrefix != "rt" {
		t.Errorf("ReplicaPrefix = %v, want rt", oc.ReplicaPrefix)
	}
	if oc.VolumeTopology != "/rack1" {
		t.Errorf("VolumeTopology = %v, want /rack1", oc.VolumeTopology)
	}
	if oc.AdminCLI != "maprcli" {
		t.Errorf("AdminCLI = %v, want maprcli", oc.AdminCLI)
	}
}

func TestConfigSetter(t *testing.T) {
	s := newConfigSetter(map[string]bool{"workers": true})

	workers := 3
	s.setInt("workers", 9, &workers)
	if workers != 3 {
		t.Errorf("changed flag overwritten: workers = %v", workers)
	}

	width := 5
	s.setInt("suffix-width", 0, &width)
	if width != 5 {
		t.Errorf("zero value applied: width = %v", width)
	}

	var d time.Duration
	if err := s.setDuration("deadline", "bogus", &d); err == nil {
		t.Error("setDuration() expected error for bogus duration")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	logger.Info().Msg("hidden")
	logger.Warn().Str("op", "create-table").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"op":"create-table"`) || !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("unexpected json output: %s", out)
	}

	buf.Reset()
	logger, err = NewLogger(&buf, "info", "console")
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}
	logger.Info().Msg("console line")
	if !strings.Contains(buf.String(), "console line") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("unexpected console output: %s", buf.String())
	}

	if _, err := NewLogger(&buf, "loud", "json"); err == nil {
		t.Error("NewLogger() expected error for unknown level")
	}
}
