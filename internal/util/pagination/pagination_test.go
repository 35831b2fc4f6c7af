package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		total      int
		maxVisible int
		want       []int
	}{
		{name: "fits entirely", current: 2, total: 3, maxVisible: 5, want: []int{1, 2, 3}},
		{name: "exactly max", current: 5, total: 5, maxVisible: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "single page", current: 1, total: 1, maxVisible: 5, want: []int{1}},
		{name: "anchored at start", current: 1, total: 10, maxVisible: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "third page still anchored at start", current: 3, total: 10, maxVisible: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "centred", current: 5, total: 10, maxVisible: 5, want: []int{3, 4, 5, 6, 7}},
		{name: "fourth page slides", current: 4, total: 10, maxVisible: 5, want: []int{2, 3, 4, 5, 6}},
		{name: "anchored at end", current: 9, total: 10, maxVisible: 5, want: []int{6, 7, 8, 9, 10}},
		{name: "last page", current: 10, total: 10, maxVisible: 5, want: []int{6, 7, 8, 9, 10}},
		{name: "eighth page anchored at end", current: 8, total: 10, maxVisible: 5, want: []int{6, 7, 8, 9, 10}},
		{name: "zero total treated as one", current: 1, total: 0, maxVisible: 5, want: []int{1}},
		{name: "default width", current: 6, total: 20, maxVisible: 0, want: []int{4, 5, 6, 7, 8}},
		{name: "width three", current: 6, total: 20, maxVisible: 3, want: []int{5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Window(tt.current, tt.total, tt.maxVisible))
		})
	}
}

func TestWindowIsContiguousAndContainsCurrent(t *testing.T) {
	for total := 1; total <= 25; total++ {
		for current := 1; current <= total; current++ {
			got := Window(current, total, DefaultMaxVisible)
			assert.Contains(t, got, current)
			assert.LessOrEqual(t, len(got), DefaultMaxVisible)
			for i := 1; i < len(got); i++ {
				assert.Equal(t, got[i-1]+1, got[i])
			}
			assert.GreaterOrEqual(t, got[0], 1)
			assert.LessOrEqual(t, got[len(got)-1], total)
		}
	}
}

func TestClampAndOffset(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 4))
	assert.Equal(t, 4, Clamp(9, 4))
	assert.Equal(t, 2, Clamp(2, 4))
	assert.Equal(t, 1, Clamp(3, 0))

	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, 0, Offset(0, 10))
}
