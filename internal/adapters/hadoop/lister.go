package hadoop

import (
	"context"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ports"
	"github.com/bft-labs/tablestress/pkg/log"
)

// DefaultBinary is the hadoop CLI looked up on PATH.
const DefaultBinary = "hadoop"

// Lister implements ports.Lister with `hadoop fs -ls`.
type Lister struct {
	runner ports.CommandRunner
	binary string
	logger log.Logger
}

// NewLister creates a Lister running binary through runner.
func NewLister(runner ports.CommandRunner, binary string, logger log.Logger) *Lister {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Lister{runner: runner, binary: binary, logger: logger}
}

// Command returns the listing command for container.
func (l *Lister) Command(container string) domain.Command {
	return domain.NewCommand(l.binary, "fs", "-ls", container)
}

// List returns the children of container. A failed listing is logged at
// error level and yields an empty list, so callers cannot tell it apart
// from an empty container.
func (l *Lister) List(ctx context.Context, container string) []string {
	res := l.runner.Run(ctx, l.Command(container))
	if !res.OK() {
		l.logger.Error("listing failed",
			log.String("container", container),
			log.Int("exit_code", res.ExitCode),
			log.String("output", res.Output()),
			log.Err(res.AsError()),
		)
		return nil
	}

	paths, rejected := ParseListing(res.Stdout)
	if rejected > 0 {
		l.logger.Warn("unparseable listing lines ignored",
			log.String("container", container),
			log.Int("rejected", rejected),
		)
	}
	l.logger.Debug("listed container",
		log.String("container", container),
		log.Int("children", len(paths)),
	)
	return paths
}

// IsListing reports whether cmd is a read-only `fs -ls` listing.
func IsListing(cmd domain.Command) bool {
	return len(cmd.Args) >= 2 && cmd.Args[0] == "fs" && cmd.Args[1] == "-ls"
}
