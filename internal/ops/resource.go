package ops

import (
	"context"
	"strconv"
	"strings"

	"github.com/bft-labs/tablestress/internal/domain"
)

// CreateTableCommand returns the command creating table path.
func (l *Library) CreateTableCommand(path string) domain.Command {
	return l.admin("table", "create", "-path", path)
}

// DeleteTableCommand returns the command deleting table path.
func (l *Library) DeleteTableCommand(path string) domain.Command {
	return l.admin("table", "delete", "-path", path)
}

// CreateVolumeCommand returns the command creating a volume mounted at path.
// The volume name is the mount path without its leading separator.
func (l *Library) CreateVolumeCommand(path string) domain.Command {
	return l.admin("volume", "create",
		"-name", volumeName(path),
		"-path", path,
		"-replication", strconv.Itoa(l.cfg.VolumeReplication),
		"-topology", l.cfg.VolumeTopology,
	)
}

// DeleteVolumeCommand returns the command force-removing the volume at path.
func (l *Library) DeleteVolumeCommand(path string) domain.Command {
	return l.admin("volume", "remove", "-name", volumeName(path), "-force", "true")
}

// CreateTable creates table path.
func (l *Library) CreateTable(ctx context.Context, path string) error {
	return l.exec(ctx, l.CreateTableCommand(path))
}

// DeleteTable deletes table path.
func (l *Library) DeleteTable(ctx context.Context, path string) error {
	return l.exec(ctx, l.DeleteTableCommand(path))
}

// CreateVolume creates a volume mounted at path.
func (l *Library) CreateVolume(ctx context.Context, path string) error {
	return l.exec(ctx, l.CreateVolumeCommand(path))
}

// DeleteVolume removes the volume mounted at path.
func (l *Library) DeleteVolume(ctx context.Context, path string) error {
	return l.exec(ctx, l.DeleteVolumeCommand(path))
}

func volumeName(path string) string {
	return strings.TrimPrefix(path, "/")
}
