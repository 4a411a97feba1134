package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 6))
	assert.Equal(t, 1, TotalPages(6, 6))
	assert.Equal(t, 2, TotalPages(7, 6))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       []int
	}{
		{"no pages", 1, 0, []int{}},
		{"few pages", 2, 4, []int{1, 2, 3, 4}},
		{"exactly five", 5, 5, []int{1, 2, 3, 4, 5}},
		{"near start", 3, 10, []int{1, 2, 3, 4, Gap, 10}},
		{"near end", 8, 10, []int{1, Gap, 7, 8, 9, 10}},
		{"middle", 5, 10, []int{1, Gap, 4, 5, 6, Gap, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.page, tt.totalPages))
		})
	}
}
