package ports

import "context"

// Lister enumerates the child resources of a container path.
type Lister interface {
	// List returns child paths in listing order. A failed listing is logged
	// by the implementation and yields an empty list.
	List(ctx context.Context, container string) []string
}
