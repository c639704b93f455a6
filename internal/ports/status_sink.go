package ports

import (
	"context"

	"github.com/bft-labs/tablestress/internal/domain"
)

// StatusSink receives replica status records. Implementations must be safe
// for concurrent use; dispatch workers publish without coordination.
type StatusSink interface {
	Publish(ctx context.Context, status domain.ReplicaStatus) error
}
