// Package app wires the operation library, the resource lister and the
// dispatch engine into the bulk operations exposed by the CLI and the stress
// profile.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/tablestress/internal/dispatch"
	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ops"
	"github.com/bft-labs/tablestress/internal/ports"
	"github.com/bft-labs/tablestress/pkg/log"
)

// Batch names, used in logs, metrics and reports.
const (
	OpCreateVolume = "create-volume"
	OpDeleteVolume = "delete-volume"
	OpCreateTable  = "create-table"
	OpDeleteTable  = "delete-table"
	OpLoadTable    = "load-table"
	OpAutosetup    = "autosetup"
	OpReplTrack    = "repltrack"
)

// App runs bulk table and volume operations.
type App struct {
	lib    *ops.Library
	lister ports.Lister
	sink   ports.StatusSink
	// batches runs create, delete, load and autosetup batches; status runs
	// replica status collection, which is cheap and tolerates a wider fan-out.
	batches *dispatch.Dispatcher
	status  *dispatch.Dispatcher
	logger  log.Logger
}

// New creates an App. A nil status dispatcher reuses batches.
func New(
	lib *ops.Library,
	lister ports.Lister,
	sink ports.StatusSink,
	batches, status *dispatch.Dispatcher,
	logger log.Logger,
) *App {
	if status == nil {
		status = batches
	}
	return &App{
		lib:     lib,
		lister:  lister,
		sink:    sink,
		batches: batches,
		status:  status,
		logger:  logger,
	}
}

// Library returns the operation library.
func (a *App) Library() *ops.Library {
	return a.lib
}

// CreateVolumes creates count volumes prefix<start>..prefix<start+count-1>.
func (a *App) CreateVolumes(ctx context.Context, prefix string, start, count int) (domain.BatchSummary, []string) {
	volumes := a.lib.SuffixedNames(prefix, start, count)
	return a.batches.Run(ctx, OpCreateVolume, volumes, a.lib.CreateVolume), volumes
}

// DeleteVolumes removes the volumes CreateVolumes would create.
func (a *App) DeleteVolumes(ctx context.Context, prefix string, start, count int) domain.BatchSummary {
	volumes := a.lib.SuffixedNames(prefix, start, count)
	return a.batches.Run(ctx, OpDeleteVolume, volumes, a.lib.DeleteVolume)
}

// CreateTables creates count suffixed tables under every prefix, as a single
// batch over the flattened list.
func (a *App) CreateTables(ctx context.Context, prefixes []string, start, count int) (domain.BatchSummary, []string) {
	var tables []string
	for _, p := range prefixes {
		tables = append(tables, a.lib.SuffixedNames(p, start, count)...)
	}
	return a.batches.Run(ctx, OpCreateTable, tables, a.lib.CreateTable), tables
}

// DeleteTables deletes the tables CreateTables would create for prefix.
func (a *App) DeleteTables(ctx context.Context, prefix string, start, count int) domain.BatchSummary {
	tables := a.lib.SuffixedNames(prefix, start, count)
	return a.batches.Run(ctx, OpDeleteTable, tables, a.lib.DeleteTable)
}

// LoadTable loads a single table.
func (a *App) LoadTable(ctx context.Context, table string, p ops.LoadParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return a.lib.LoadTable(ctx, table, p)
}

// LoadVolume loads every table listed in volume.
func (a *App) LoadVolume(ctx context.Context, volume string, p ops.LoadParams) (domain.BatchSummary, error) {
	if err := p.Validate(); err != nil {
		return domain.BatchSummary{}, err
	}
	tables := a.lister.List(ctx, volume)
	a.logger.Debug("tables in volume", log.String("volume", volume), log.Int("tables", len(tables)))
	return a.batches.Run(ctx, OpLoadTable, tables, func(ctx context.Context, table string) error {
		return a.lib.LoadTable(ctx, table, p)
	}), nil
}

// AutosetupTable sets up count replicas of src under parent.
func (a *App) AutosetupTable(ctx context.Context, src, parent string, count int, multimaster bool) error {
	if count < 1 {
		return fmt.Errorf("%w: replica count must be positive, got %d", domain.ErrInvalidConfig, count)
	}
	return a.lib.AutosetupReplica(ctx, src, parent, count, multimaster)
}

// AutosetupVolume sets up count replicas under parent for every table listed
// in volume.
func (a *App) AutosetupVolume(ctx context.Context, volume, parent string, count int, multimaster bool) (domain.BatchSummary, error) {
	if count < 1 {
		return domain.BatchSummary{}, fmt.Errorf("%w: replica count must be positive, got %d", domain.ErrInvalidConfig, count)
	}
	tables := a.lister.List(ctx, volume)
	a.logger.Debug("tables in volume", log.String("volume", volume), log.Int("tables", len(tables)))
	return a.batches.Run(ctx, OpAutosetup, tables, func(ctx context.Context, table string) error {
		return a.lib.AutosetupReplica(ctx, table, parent, count, multimaster)
	}), nil
}

// TrackTable fetches the replica status of table and publishes every record.
func (a *App) TrackTable(ctx context.Context, table string, filter ops.FieldFilter) error {
	statuses, err := a.lib.FetchReplicaStatus(ctx, table, filter)
	if err != nil {
		return err
	}
	var errs []error
	for _, s := range statuses {
		if err := a.sink.Publish(ctx, s); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", table, err))
		}
	}
	return errors.Join(errs...)
}

// TrackVolume tracks every table listed in volume on the status dispatcher.
func (a *App) TrackVolume(ctx context.Context, volume string, filter ops.FieldFilter) domain.BatchSummary {
	tables := a.lister.List(ctx, volume)
	return a.status.Run(ctx, OpReplTrack, tables, func(ctx context.Context, table string) error {
		return a.TrackTable(ctx, table, filter)
	})
}
