package dispatch

// Partition splits items into at most budget contiguous partitions.
//
// The chunk size is ceil(n/budget) and the partition count is
// ceil(n/chunk); items are then spread so partition sizes differ by at most
// one, larger partitions first. Concatenating the partitions reproduces items.
// A budget below one is treated as one. Empty input yields no partitions.
//
// Partitions share the backing array of items and are capacity-capped, so an
// append to one partition never writes into its neighbour.
func Partition[T any](items []T, budget int) [][]T {
	n := len(items)
	if n == 0 {
		return nil
	}
	if budget < 1 {
		budget = 1
	}

	chunk := ceilDiv(n, budget)
	count := ceilDiv(n, chunk)

	base, extra := n/count, n%count
	parts := make([][]T, 0, count)
	start := 0
	for i := 0; i < count; i++ {
		size := base
		if i < extra {
			size++
		}
		end := start + size
		parts = append(parts, items[start:end:end])
		start = end
	}
	return parts
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
