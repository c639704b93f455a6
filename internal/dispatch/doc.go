// Package dispatch implements the parallel batch-dispatch engine.
//
// A batch is an ordered list of work items (table or volume paths) and one
// Operation. Partition splits the list into contiguous, balanced partitions
// sized to the worker budget; Dispatcher.Run starts one worker per partition,
// each applying the Operation to its items strictly in order, and returns
// only after every worker has finished.
//
// Failures are isolated: an item error is logged and counted, the worker moves
// on to its next item and sibling workers are never cancelled. Nothing is
// retried. A batch stops early only when its context is cancelled, either by
// the optional per-batch deadline or by the caller.
package dispatch
