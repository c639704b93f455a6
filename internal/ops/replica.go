package ops

import (
	"context"
	"errors"

	"github.com/bft-labs/tablestress/internal/domain"
)

// AutosetupCommand returns the command setting up replica for src.
func (l *Library) AutosetupCommand(src, replica string, multimaster bool) domain.Command {
	cmd := l.admin("table", "replica", "autosetup",
		"-path", src,
		"-replica", replica,
		"-directcopy", "true",
	)
	if multimaster {
		cmd.Args = append(cmd.Args, "-multimaster", "true")
	}
	return cmd
}

// AutosetupReplica sets up count replicas of src under parent. Every replica
// is attempted; failures are joined into the returned error.
func (l *Library) AutosetupReplica(ctx context.Context, src, parent string, count int, multimaster bool) error {
	var errs []error
	for _, name := range l.ReplicaNames(src, parent, count, multimaster) {
		if err := l.exec(ctx, l.AutosetupCommand(src, name, multimaster)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
