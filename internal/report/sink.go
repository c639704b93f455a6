package report

import (
	"context"
	"errors"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ports"
)

// MultiSink publishes every status to each of its sinks in order. A failing
// sink does not stop the others.
type MultiSink []ports.StatusSink

// Publish fans status out and joins sink errors.
func (m MultiSink) Publish(ctx context.Context, status domain.ReplicaStatus) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, status); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
