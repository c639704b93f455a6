package dispatch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/vol/t%05d", i)
	}
	return out
}

func TestPartition_Properties(t *testing.T) {
	for n := 0; n <= 64; n++ {
		for budget := 1; budget <= 24; budget++ {
			in := items(n)
			parts := Partition(in, budget)

			if n == 0 {
				assert.Empty(t, parts, "n=0 budget=%d", budget)
				continue
			}

			chunk := ceilDiv(n, budget)
			require.Len(t, parts, ceilDiv(n, chunk), "n=%d budget=%d", n, budget)
			assert.LessOrEqual(t, len(parts), budget)

			maxSize := ceilDiv(n, len(parts))
			var joined []string
			for i, p := range parts {
				assert.NotEmpty(t, p, "n=%d budget=%d part=%d", n, budget, i)
				assert.GreaterOrEqual(t, len(p), maxSize-1, "n=%d budget=%d part=%d", n, budget, i)
				assert.LessOrEqual(t, len(p), maxSize, "n=%d budget=%d part=%d", n, budget, i)
				joined = append(joined, p...)
			}
			assert.Equal(t, in, joined, "n=%d budget=%d", n, budget)
		}
	}
}

func TestPartition_Examples(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		budget int
		sizes  []int
	}{
		{name: "fewer items than workers", n: 3, budget: 10, sizes: []int{1, 1, 1}},
		{name: "exact multiple", n: 20, budget: 10, sizes: []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}},
		{name: "uneven split", n: 10, budget: 4, sizes: []int{3, 3, 2, 2}},
		{name: "one over", n: 11, budget: 10, sizes: []int{2, 2, 2, 2, 2, 1}},
		{name: "single worker", n: 7, budget: 1, sizes: []int{7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := Partition(items(tt.n), tt.budget)
			sizes := make([]int, len(parts))
			for i, p := range parts {
				sizes[i] = len(p)
			}
			assert.Equal(t, tt.sizes, sizes)
		})
	}
}

func TestPartition_BudgetBelowOne(t *testing.T) {
	parts := Partition(items(5), 0)
	require.Len(t, parts, 1)
	assert.Len(t, parts[0], 5)

	parts = Partition(items(5), -3)
	require.Len(t, parts, 1)
}

func TestPartition_AppendDoesNotLeak(t *testing.T) {
	in := items(4)
	parts := Partition(in, 2)
	require.Len(t, parts, 2)

	_ = append(parts[0], "/intruder")
	assert.Equal(t, "/vol/t00002", parts[1][0])
	assert.Equal(t, items(4), in)
}
