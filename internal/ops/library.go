package ops

import (
	"context"
	"fmt"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ports"
	"github.com/bft-labs/tablestress/pkg/log"
)

// Config holds the immutable naming and command parameters of the library.
type Config struct {
	// AdminCLI is the cluster administration binary.
	AdminCLI string
	// LoadTestPath is the load generator binary.
	LoadTestPath string
	// SuffixWidth is the zero-padded width of generated ordinal suffixes.
	SuffixWidth int
	// ReplicaPrefix and MultimasterReplicaPrefix start generated replica
	// table names.
	ReplicaPrefix            string
	MultimasterReplicaPrefix string
	// VolumeReplication and VolumeTopology are passed to `volume create`.
	VolumeReplication int
	VolumeTopology    string
}

// DefaultConfig returns the conventions expected by the cluster tooling.
func DefaultConfig() Config {
	return Config{
		AdminCLI:                 "maprcli",
		LoadTestPath:             "/opt/mapr/server/tools/loadtest",
		SuffixWidth:              5,
		ReplicaPrefix:            "rtable",
		MultimasterReplicaPrefix: "mmrtable",
		VolumeReplication:        3,
		VolumeTopology:           "/data",
	}
}

// Library runs domain operations through a CommandRunner. It holds only
// read-only state and is shared by all dispatch workers.
type Library struct {
	cfg    Config
	runner ports.CommandRunner
	logger log.Logger
}

// New creates a Library. Zero-valued fields of cfg fall back to DefaultConfig.
func New(cfg Config, runner ports.CommandRunner, logger log.Logger) *Library {
	def := DefaultConfig()
	if cfg.AdminCLI == "" {
		cfg.AdminCLI = def.AdminCLI
	}
	if cfg.LoadTestPath == "" {
		cfg.LoadTestPath = def.LoadTestPath
	}
	if cfg.SuffixWidth <= 0 {
		cfg.SuffixWidth = def.SuffixWidth
	}
	if cfg.ReplicaPrefix == "" {
		cfg.ReplicaPrefix = def.ReplicaPrefix
	}
	if cfg.MultimasterReplicaPrefix == "" {
		cfg.MultimasterReplicaPrefix = def.MultimasterReplicaPrefix
	}
	if cfg.VolumeReplication <= 0 {
		cfg.VolumeReplication = def.VolumeReplication
	}
	if cfg.VolumeTopology == "" {
		cfg.VolumeTopology = def.VolumeTopology
	}
	return &Library{cfg: cfg, runner: runner, logger: logger}
}

// Config returns the effective configuration.
func (l *Library) Config() Config {
	return l.cfg
}

// exec runs a fire-and-forget command and converts failure into an error.
func (l *Library) exec(ctx context.Context, cmd domain.Command) error {
	l.logger.Info("running", log.String("command", cmd.String()))
	res := l.runner.Run(ctx, cmd)
	if err := res.AsError(); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}

func (l *Library) admin(args ...string) domain.Command {
	return domain.NewCommand(l.cfg.AdminCLI, args...)
}
