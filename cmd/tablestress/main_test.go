package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/tablestress/internal/cliconfig"
	"github.com/bft-labs/tablestress/internal/domain"
)

func execute(t *testing.T, args ...string) (*cli, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	c := &cli{cfg: cliconfig.DefaultConfig()}
	err := c.execute(context.Background(), args)
	return c, err
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
workers = 7
status_workers = 4
loadtest_path = "/usr/local/bin/loadtest"
log_level = "error"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := execute(t, "--config", cfgPath, "--workers", "3", "--dry-run",
		"create", "table", "/vol/t", "--num-tables", "2")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if c.cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", c.cfg.Workers)
	}
	if c.cfg.StatusWorkers != 4 {
		t.Errorf("StatusWorkers = %d, want 4", c.cfg.StatusWorkers)
	}
	if c.cfg.LoadTestPath != "/usr/local/bin/loadtest" {
		t.Errorf("LoadTestPath = %q, want %q", c.cfg.LoadTestPath, "/usr/local/bin/loadtest")
	}
	if !c.cfg.DryRun {
		t.Error("DryRun = false, want true")
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "create", "volume", "/v")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	_, err := execute(t, "--workers", "0", "--dry-run", "create", "volume", "/v")
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"create table without prefix", []string{"--dry-run", "create", "table"}},
		{"autosetup table missing replica path", []string{"--dry-run", "autosetup", "table", "/v/t"}},
		{"repltrack without path", []string{"--dry-run", "repltrack", "table"}},
		{"autosetup with zero replicas", []string{"--dry-run", "--log-level", "error", "autosetup", "table", "/v/t", "/repl", "--num-replica", "0"}},
		{"load with zero rows", []string{"--dry-run", "--log-level", "error", "load", "table", "/v/t", "--num-rows", "0"}},
		{"publish without broker", []string{"--dry-run", "--log-level", "error", "repltrack", "table", "--path", "/v/t", "--publish"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("execute(%v) returned nil error", tt.args)
			}
		})
	}
}

func TestDryRunCommandsSucceed(t *testing.T) {
	if _, err := execute(t, "--dry-run", "--log-level", "error", "create", "volume", "/dbvolume", "--num-volumes", "3"); err != nil {
		t.Errorf("create volume: %v", err)
	}
	if _, err := execute(t, "--dry-run", "--log-level", "error", "load", "table", "/v/t"); err != nil {
		t.Errorf("load table: %v", err)
	}
}

func TestEnvClosedOnCommandError(t *testing.T) {
	c, err := execute(t, "--dry-run", "--log-level", "error", "--metrics-addr", "127.0.0.1:0",
		"load", "volume", "/v", "--num-rows", "0")
	if err == nil {
		t.Fatal("expected error for zero rows")
	}
	if c.env == nil {
		t.Fatal("env was not built")
	}
	if !c.env.closed {
		t.Error("env not closed after failing command")
	}
}

func TestEnvClosedOnSuccess(t *testing.T) {
	c, err := execute(t, "--dry-run", "--log-level", "error", "delete", "table", "/v/t")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !c.env.closed {
		t.Error("env not closed after command")
	}
}
